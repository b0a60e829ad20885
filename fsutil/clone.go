// clone.go - clone the metadata of a file entry (file|dir|special)
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

package fsutil

import (
	"fmt"
	"os"
)

// CloneMetadata clones all the metadata from src to dst: the metadata
// is atime, mtime, uid, gid, mode/perm, xattr
func CloneMetadata(dst, src string) error {
	fi, err := Lstat(src)
	if err == nil {
		err = updateMeta(dst, fi)
	}

	if err != nil {
		return fmt.Errorf("clonemeta: %w", err)
	}
	return nil
}

// UpdateMetadata writes new metadata of 'dst' from 'fi'
// The metadata that will be updated includes atime, mtime, uid/gid,
// mode/perm, xattr
func UpdateMetadata(dst string, fi *Info) error {
	if err := updateMeta(dst, fi); err != nil {
		return fmt.Errorf("updatemeta: %w", err)
	}
	return nil
}

// a cloner clones a specific attribute
type cloner func(dst string, src *Info) error

// all fs entries will have these attrs cloned.
// We stack mtime update to the end.
var mdUpdaters = []cloner{
	clonexattr,
	cloneugid,
	clonemode,
	clonetimes,
}

func clonexattr(dst string, fi *Info) error {
	return LreplaceXattr(dst, fi.Xattr)
}

func cloneugid(dst string, fi *Info) error {
	return os.Lchown(dst, int(fi.Uid), int(fi.Gid))
}

func clonemode(dst string, fi *Info) error {
	return os.Chmod(dst, fi.Mode())
}

func updateMeta(dst string, fi *Info) error {
	for _, fp := range mdUpdaters {
		if err := fp(dst, fi); err != nil {
			return err
		}
	}
	return nil
}
