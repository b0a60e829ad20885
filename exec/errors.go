// errors.go - execution-time error type
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

// Package exec walks the analyzed plan (§4.5) and performs the actual
// renames, copies, links, and appends, switching to a no-execute snapshot
// mode on the first syscall failure or SIGINT.
package exec

import "fmt"

// OpError is returned by a single op step (rename/copy/link/symlink/unlink).
// Mirrors fsutil.CopyError's shape: one op name, source and target paths,
// the underlying errno-wrapping error.
type OpError struct {
	Op     string
	Source string
	Target string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s -> %s %s has failed: %s", e.Source, e.Target, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

var _ error = &OpError{}
