// errors.go - compilation errors for the pattern package
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package pattern

import "fmt"

// CompileError describes why a "from" or "to" pattern was rejected.
// Side is "from" or "to"; Pat is the offending pattern string itself so
// callers can report the dropped pair without re-threading it.
type CompileError struct {
	Side   string
	Pat    string
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern: %s %q: %s", e.Side, e.Pat, e.Reason)
}

func newFromErr(pat, reason string) *CompileError {
	return &CompileError{Side: "from", Pat: pat, Reason: reason}
}

func newToErr(pat, reason string) *CompileError {
	return &CompileError{Side: "to", Pat: pat, Reason: reason}
}

var _ error = &CompileError{}
