// ops.go - the requested-action bitmask, kept dependency-free
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

// Package ops holds the Op bitmask (§3) as its own leaf so that both
// plan/exec (which validate and execute against it) and the root engine
// (which parses it from CLI flags) can import the same type without an
// import cycle -- root's ops.go re-exports these names for callers of the
// top-level package.
package ops

// Op identifies the requested action for a from/to pair.
type Op uint32

const (
	Copy Op = 1 << iota
	Overwrite
	Move
	Xmove
	Dirmove
	Append
	Hardlink
	Symlink
)

// Derived sets, per §3.
var (
	MOVE   = Move | Xmove | Dirmove
	COPY   = Copy | Overwrite
	LINK   = Hardlink | Symlink
	APPEND = Append
)

// Is reports whether o is a member of set.
func (o Op) Is(set Op) bool { return o&set != 0 }

func (o Op) String() string {
	switch o {
	case Copy:
		return "copy"
	case Overwrite:
		return "overwrite"
	case Move:
		return "move"
	case Xmove:
		return "xmove"
	case Dirmove:
		return "dirmove"
	case Append:
		return "append"
	case Hardlink:
		return "hardlink"
	case Symlink:
		return "symlink"
	default:
		return "op?"
	}
}
