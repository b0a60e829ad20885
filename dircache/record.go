// record.go - per-directory-entry file record
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

// Package dircache interns directory listings by (device, inode) and
// directory-prefix handles on top of them, backing the pattern matcher's
// candidate enumeration. It is a leaf with respect to plan/exec: it knows
// nothing about plan nodes beyond the opaque NodeIndex each Record's Rep
// field carries.
package dircache

import (
	"os"
	"sync"

	"github.com/opencoff/go-mmv/fsutil"
)

// RepState is the sentinel space for Record.Rep. NoRep means the record is
// unclaimed; Mistake means the matcher or analyzer marked it as invalid.
// Any value >= 0 is an index into the plan package's Replacement arena,
// owned and interpreted there -- dircache only stores and compares it.
type RepState int32

const (
	NoRep   RepState = -1
	Mistake RepState = -2
)

// Flag bits on a Record, per §3's "File record".
type Flag uint16

const (
	FlagTaken Flag = 1 << iota
	FlagLinkError
	FlagInStickyDir
	FlagNoDelete
	FlagWriteKnown
	FlagWriteOK
	FlagIsDir
	FlagIsSymlink
)

// Record is one directory entry discovered during a listing scan. Name is
// immutable once created; Info is filled lazily on first stat.
type Record struct {
	mu    sync.Mutex
	Name  string
	Info  *fsutil.Info
	Rep   RepState
	Flags Flag

	statDone bool
	statErr  error

	// Alias and CapturedSize are set by the executor's cycle-breaking
	// step (§4.5) on the shared record a cycle-closing node displaces,
	// so that the chain's other node -- which later reads this same
	// record as its own source -- finds the temp name or captured
	// append-cycle byte count instead of the original, already-moved
	// file.
	Alias        string
	CapturedSize int64
}

// NewRecord allocates an unclaimed record for name.
func NewRecord(name string) *Record {
	return &Record{Name: name, Rep: NoRep}
}

// Has reports whether all of bits are set.
func (r *Record) Has(bits Flag) bool { return r.Flags&bits == bits }

// Set turns on bits.
func (r *Record) Set(bits Flag) { r.Flags |= bits }

// Clear turns off bits.
func (r *Record) Clear(bits Flag) { r.Flags &^= bits }

// Claim marks the record as consumed by plan node idx, enforcing the
// invariant that at most one plan node may point to a record as its
// source. It returns false if the record is already claimed by any
// non-mistake rep, including idx itself.
func (r *Record) Claim(idx RepState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Rep != NoRep && r.Rep != Mistake {
		return false
	}
	r.Rep = idx
	r.Set(FlagTaken)
	return true
}

// statFn is overridable in tests; defaults to fsutil.Lstat under a
// directory prefix.
type statFn func(dir, name string) (*fsutil.Info, error)

// EnsureStat lazily stats the record relative to dirPrefix, caching the
// result (including a negative result) on first call.
func (r *Record) EnsureStat(dirPrefix string, stat statFn) (*fsutil.Info, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statDone {
		return r.Info, r.statErr
	}
	r.statDone = true
	info, err := stat(dirPrefix, r.Name)
	if err != nil {
		r.statErr = err
		return nil, err
	}
	r.Info = info
	if info.IsDir() {
		r.Set(FlagIsDir)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		r.Set(FlagIsSymlink)
	}
	return info, nil
}

// DefaultStat is the statFn plan/builder.go passes to EnsureStat.
func DefaultStat(dirPrefix, name string) (*fsutil.Info, error) {
	return fsutil.Lstat(dirPrefix + name)
}
