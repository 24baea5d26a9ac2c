package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform response shape for every procedure result. A
// success envelope always serializes a data key, even when the value is
// null; a failure envelope carries error and no data.
type Envelope struct {
	Success bool
	Data    any
	Error   string
}

// SuccessEnvelope wraps a successful result.
func SuccessEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// FailureEnvelope wraps a caught failure message.
func FailureEnvelope(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// MarshalJSON emits the wire shape: {success, data} on success and
// {success, error} on failure. Data stays present on success even when
// nil so clients can rely on the key.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    any  `json:"data"`
		}{Success: true, Data: e.Data})
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: e.Error})
}

// Render serializes the envelope as 2-space-indented JSON. Values that do
// not marshal fall back to their string form rather than failing
// serialization.
func (e Envelope) Render() string {
	out, err := json.MarshalIndent(e, "", "  ")
	if err == nil {
		return string(out)
	}
	fallback := Envelope{Success: e.Success, Error: e.Error}
	if e.Data != nil {
		fallback.Data = fmt.Sprint(e.Data)
	}
	out, err = json.MarshalIndent(fallback, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success": false, "error": %q}`, "render response: "+err.Error())
	}
	return string(out)
}
