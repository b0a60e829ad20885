// ops.go - low-level per-operation syscall performers
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

package exec

import (
	"io"
	"os"

	"github.com/opencoff/go-mmap"
	"github.com/opencoff/go-mmv/fsutil"
)

// ioChunk is §4.5's "64 KiB buffer" for the overwrite/append copy path.
const ioChunk = 64 * 1024

// doRename performs the in-place or cross-directory rename backing move,
// xmove (same-device case), and dirmove.
func doRename(source, target string) error {
	if err := os.Rename(source, target); err != nil {
		return &OpError{Op: "rename", Source: source, Target: target, Err: err}
	}
	return nil
}

// doUnlink removes target, used to clear a displaced file before a copy or
// link op (rename already overwrites atomically and needs no pre-unlink).
func doUnlink(target string) error {
	if err := os.Remove(target); err != nil {
		return &OpError{Op: "unlink", Source: "", Target: target, Err: err}
	}
	return nil
}

// doCopyFresh copies source to a target known not to already exist (plain
// "copy" onto a clear spot), via go-mmap's reader, then replays source's
// xattr/uid/gid/mode/times onto target via fsutil.CloneMetadata.
func doCopyFresh(source, target string, perm os.FileMode) error {
	s, err := os.Open(source)
	if err != nil {
		return &OpError{Op: "open-src", Source: source, Target: target, Err: err}
	}
	defer s.Close()

	d, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return &OpError{Op: "open-dst", Source: source, Target: target, Err: err}
	}
	defer d.Close()

	if _, err := mmap.Reader(s, func(b []byte) error {
		_, werr := d.Write(b)
		return werr
	}); err != nil {
		return &OpError{Op: "copy", Source: source, Target: target, Err: err}
	}
	if err := d.Close(); err != nil {
		return &OpError{Op: "close", Source: source, Target: target, Err: err}
	}
	if err := fsutil.CloneMetadata(target, source); err != nil {
		return &OpError{Op: "clonemeta", Source: source, Target: target, Err: err}
	}
	return nil
}

// doOverwrite copies source onto target via the explicit 64 KiB buffer
// §4.5 mandates for {copy,overwrite}/append, truncating target first, then
// replays source's xattr/uid/gid/mode/times via fsutil.CloneMetadata, since
// this path is never used for append.
func doOverwrite(source, target string, perm os.FileMode) error {
	s, err := os.Open(source)
	if err != nil {
		return &OpError{Op: "open-src", Source: source, Target: target, Err: err}
	}
	defer s.Close()

	d, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return &OpError{Op: "open-dst", Source: source, Target: target, Err: err}
	}
	defer d.Close()

	buf := make([]byte, ioChunk)
	if _, err := io.CopyBuffer(d, s, buf); err != nil {
		return &OpError{Op: "copy", Source: source, Target: target, Err: err}
	}
	if err := d.Close(); err != nil {
		return &OpError{Op: "close", Source: source, Target: target, Err: err}
	}

	if err := fsutil.CloneMetadata(target, source); err != nil {
		return &OpError{Op: "clonemeta", Source: source, Target: target, Err: err}
	}
	return nil
}

// doAppend appends source's bytes onto the end of target via the same 64
// KiB buffer. When limit > 0 (a cycle-aliased append), only the first limit
// bytes of source are copied, since source is the chain's own earlier
// target and anything past the captured size is what this very chain just
// wrote moments ago. Returns the number of bytes written.
func doAppend(source, target string, limit int64, perm os.FileMode) (int64, error) {
	s, err := os.Open(source)
	if err != nil {
		return 0, &OpError{Op: "open-src", Source: source, Target: target, Err: err}
	}
	defer s.Close()

	d, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return 0, &OpError{Op: "open-dst", Source: source, Target: target, Err: err}
	}
	defer d.Close()

	if _, err := d.Seek(0, io.SeekEnd); err != nil {
		return 0, &OpError{Op: "seek-dst", Source: source, Target: target, Err: err}
	}

	var r io.Reader = s
	if limit > 0 {
		r = io.LimitReader(s, limit)
	}

	buf := make([]byte, ioChunk)
	n, err := io.CopyBuffer(d, r, buf)
	if err != nil {
		return n, &OpError{Op: "append", Source: source, Target: target, Err: err}
	}
	return n, d.Close()
}

// doHardlink and doSymlink back the hardlink/symlink ops.
func doHardlink(source, target string) error {
	if err := os.Link(source, target); err != nil {
		return &OpError{Op: "link", Source: source, Target: target, Err: err}
	}
	return nil
}

func doSymlink(source, target string) error {
	if err := os.Symlink(source, target); err != nil {
		return &OpError{Op: "symlink", Source: source, Target: target, Err: err}
	}
	return nil
}
