package oakvar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// stubBinary writes an executable shell script standing in for ov.
func stubBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ov")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestNewCLIDefaultsBinary(t *testing.T) {
	if cli := NewCLI(""); cli.bin != DefaultBinary {
		t.Fatalf("expected default binary, got %q", cli.bin)
	}
	if cli := NewCLI("  "); cli.bin != DefaultBinary {
		t.Fatalf("expected default binary for blank input, got %q", cli.bin)
	}
	if cli := NewCLI("/opt/ov"); cli.bin != "/opt/ov" {
		t.Fatalf("expected explicit binary kept, got %q", cli.bin)
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want any
	}{
		{"empty", "", nil},
		{"object", `{"name": "clinvar"}`, map[string]any{"name": "clinvar"}},
		{"array", `["a", "b"]`, []any{"a", "b"}},
		{"plain text", "setup complete", "setup complete"},
		{"broken json", "{not json", "{not json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decode(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("decode(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVersionStripsPrefix(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "oakvar 2.12.0"`))

	version, err := cli.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != "2.12.0" {
		t.Fatalf("expected 2.12.0, got %q", version)
	}
}

func TestRunErrorIncludesStderrDetail(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "no config found" >&2; exit 1`))

	_, err := cli.Version(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no config found") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}

func TestSystemCheckPasses(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "Success"`))

	passed, err := cli.SystemCheck(context.Background())
	if err != nil {
		t.Fatalf("system check: %v", err)
	}
	if !passed {
		t.Fatal("expected check to pass")
	}
}

func TestSystemCheckFailureIsNotError(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "problem found" >&2; exit 1`))

	passed, err := cli.SystemCheck(context.Background())
	if err != nil {
		t.Fatalf("a failing checkup should not be an error, got %v", err)
	}
	if passed {
		t.Fatal("expected check to fail")
	}
}

func TestModuleInfoNotFoundFromNullOutput(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "null"`))

	_, err := cli.ModuleInfo(context.Background(), "clinvar", false)
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestModuleInfoNotFoundFromErrorText(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "module clinvar not found" >&2; exit 1`))

	_, err := cli.ModuleInfo(context.Background(), "clinvar", false)
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestModuleInfoDecodesJSON(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo '{"name": "clinvar", "type": "annotator"}'`))

	info, err := cli.ModuleInfo(context.Background(), "clinvar", true)
	if err != nil {
		t.Fatalf("module info: %v", err)
	}
	decoded, ok := info.(map[string]any)
	if !ok || decoded["type"] != "annotator" {
		t.Fatalf("unexpected info: %v", info)
	}
}

func TestListModulesDecodesJSON(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo '[{"name": "clinvar"}]'`))

	modules, err := cli.ListModules(context.Background(), ListOptions{Names: []string{".*"}})
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	list, ok := modules.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("unexpected modules: %v", modules)
	}
}

func TestModulesDirForwardsArguments(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "$@"`))

	out, err := cli.ModulesDir(context.Background(), "/data/modules")
	if err != nil {
		t.Fatalf("modules dir: %v", err)
	}
	if out != "config md /data/modules" {
		t.Fatalf("unexpected arguments: %q", out)
	}

	out, err = cli.ModulesDir(context.Background(), "")
	if err != nil {
		t.Fatalf("modules dir: %v", err)
	}
	if out != "config md" {
		t.Fatalf("expected get form without directory, got %q", out)
	}
}

func TestNewModuleForwardsArguments(t *testing.T) {
	cli := NewCLI(stubBinary(t, `echo "$@"`))

	out, err := cli.NewModule(context.Background(), "mymod", "annotator")
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if out != "new module -n mymod -t annotator" {
		t.Fatalf("unexpected arguments: %q", out)
	}
}

func TestProbeMissingBinary(t *testing.T) {
	cli := NewCLI(filepath.Join(t.TempDir(), "missing-ov"))

	if err := cli.Probe(context.Background()); err == nil {
		t.Fatal("expected probe to fail for missing binary")
	}
}
