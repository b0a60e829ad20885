// meta_unix.go -- set file times for unixish platforms
//
// (c) 2021 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build unix

package fsutil

// clonetimes satisfies clone.go's cloner signature, delegating to utimes
// (dest, "", fi) since Info already carries the timestamps utimes needs.
func clonetimes(dest string, fi *Info) error {
	return utimes(dest, "", fi)
}
