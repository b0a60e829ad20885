// ops.go - top-level re-export of the Op bitmask
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

package mmv

import "github.com/opencoff/go-mmv/ops"

// Op and its constants live in the dependency-free ops/ package so plan/
// and exec/ can reference them without importing this root package (which
// imports them). These aliases let callers of the top-level mmv package
// write mmv.Op, mmv.Copy, etc. as if the type were native here.
type Op = ops.Op

const (
	Copy      = ops.Copy
	Overwrite = ops.Overwrite
	Move      = ops.Move
	Xmove     = ops.Xmove
	Dirmove   = ops.Dirmove
	Append    = ops.Append
	Hardlink  = ops.Hardlink
	Symlink   = ops.Symlink
)

var (
	MOVE   = ops.MOVE
	COPY   = ops.COPY
	LINK   = ops.LINK
	APPEND = ops.APPEND
)
