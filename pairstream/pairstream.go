// pairstream.go - the §6 "Pair stream formats" contract
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

// Package pairstream implements the external-collaborator contract §1
// calls out of scope for the core ("the input record readers for NUL /
// quoted-printable / vis / xnn encodings of pair streams") and §6
// describes by format. They are supplemented here from
// original_source/src/libmmv/mmv-read-{nul,qp,vis}.c and mmv-getpat.c's
// classic reader, since a complete repo implementing this spec ships
// reference readers rather than leaving every front-end to reinvent them.
package pairstream

import "fmt"

// Pair is one from/to pattern pair read off a stream, plus the classic
// format's trailing "(*)" delete-ok marker (§6).
type Pair struct {
	From     string
	To       string
	DeleteOK bool
}

// Reader yields successive Pairs. Next returns ok=false, err=nil at a
// clean end of stream; it returns err != nil only for a hard read error
// (pattern-too-long is reported through the caller's diagnostic stream,
// per §6, not as a Reader error -- a too-long pattern here is returned
// unchanged like any other pair, since the builder's own AddPair
// already rejects over-length patterns).
type Reader interface {
	Next() (Pair, bool, error)
}

// ErrTooLong is never returned by a Reader; callers that want to flag an
// over-length record themselves can compare against it. Kept here only so
// all five format readers share one sentinel instead of ad hoc strings.
var ErrTooLong = fmt.Errorf("pairstream: record exceeds PATH_MAX")
