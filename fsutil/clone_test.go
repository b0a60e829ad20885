// clone_test.go -- metadata clone tests
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fsutil

import (
	"fmt"
	"io/fs"
	"path"
	"testing"
)

func TestCloneMetadata(t *testing.T) {
	assert := newAsserter(t)

	tmp := t.TempDir()
	nm := path.Join(tmp, "testfile")
	err := mkfilex(nm)
	assert(err == nil, "test file %s: %s", nm, err)

	x := Xattr{
		"user.file.name": nm,
	}
	err = SetXattr(nm, x)
	assert(err == nil, "setxattr: %s", err)

	dst := path.Join(tmp, "newfile")
	err = mkfilex(dst)
	assert(err == nil, "test file %s: %s", dst, err)

	err = CloneMetadata(dst, nm)
	assert(err == nil, "clonemeta: %s", err)

	err = mdEqual(dst, nm)
	assert(err == nil, "clonemeta: %s", err)
}

func TestUpdateMetadata(t *testing.T) {
	assert := newAsserter(t)

	tmp := t.TempDir()
	nm := path.Join(tmp, "testfile")
	err := mkfilex(nm)
	assert(err == nil, "test file %s: %s", nm, err)

	fi, err := Lstat(nm)
	assert(err == nil, "lstat: %s", err)

	dst := path.Join(tmp, "newfile")
	err = mkfilex(dst)
	assert(err == nil, "test file %s: %s", dst, err)

	err = UpdateMetadata(dst, fi)
	assert(err == nil, "updatemeta: %s", err)

	err = mdEqual(dst, nm)
	assert(err == nil, "updatemeta: %s", err)
}

func mdEqual(newf, oldf string) error {
	a, err := Lstat(oldf)
	if err != nil {
		return err
	}
	b, err := Lstat(newf)
	if err != nil {
		return err
	}

	if (a.Mod & ^fs.ModePerm) != (b.Mod & ^fs.ModePerm) {
		return fmt.Errorf("mode: exp %#x, saw %#x", a.Mod, b.Mod)
	}

	if a.Uid != b.Uid {
		return fmt.Errorf("uid: exp %d, saw %d", a.Uid, b.Uid)
	}
	if a.Gid != b.Gid {
		return fmt.Errorf("gid: exp %d, saw %d", a.Gid, b.Gid)
	}

	if a.Mode().Type() != fs.ModeSymlink {
		if !a.Mtim.Equal(b.Mtim) {
			return fmt.Errorf("mtime:\n\texp %s\n\tsaw %s", a.Mtim, b.Mtim)
		}
	}

	done := make(map[string]bool)
	for k, v := range a.Xattr {
		v2, ok := b.Xattr[k]
		if !ok {
			return fmt.Errorf("xattr: missing %s", k)
		}
		if v2 != v {
			return fmt.Errorf("xattr: %s: exp %s, saw %s", k, v, v2)
		}
		done[k] = true
	}

	for k := range b.Xattr {
		_, ok := done[k]
		if !ok {
			return fmt.Errorf("xattr: unknown key %s", k)
		}
	}
	return nil
}
