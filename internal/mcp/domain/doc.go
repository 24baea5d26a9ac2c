// Package domain holds the procedure catalogue and dispatch logic for
// the OakVar MCP surface.
//
// The package has three responsibilities: enumerate the static
// capability catalogue as JSON-schema described procedures, normalize
// raw tool arguments against that catalogue (defaults and shorthand
// coercion), and dispatch calls to the toolkit port behind a uniform
// success/failure envelope.
package domain
