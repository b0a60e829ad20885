// node.go - Replacement arena, per the "cyclic data structures" design note
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

// Package plan builds the Replacement graph (§3, §4.3) and analyzes it for
// collisions, cycles, and op-specific chain legality (§4.4).
package plan

import (
	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/ops"
)

// NodeIndex indexes into an Arena. It reuses dircache.RepState's sentinel
// space (NoNode/Mistake) so a Record's Rep field and a Replacement's
// first/thendo/next links share one Option<NodeIndex> encoding without
// dircache needing to import plan.
type NodeIndex = dircache.RepState

const (
	NoNode  = dircache.NoRep
	Mistake = dircache.Mistake
)

// Flag bits on a Replacement, per §3's "Replacement (plan node)".
type Flag uint16

const (
	FlagCrossDevice Flag = 1 << iota
	FlagSkip
	FlagDeleteOK
	FlagAliased
	FlagCycle
	FlagOneDirLink
)

// Replacement is one intended source -> target operation.
type Replacement struct {
	Idx NodeIndex

	Op Op

	SourceHandle *dircache.Handle
	Source       *dircache.Record

	TargetHandle *dircache.Handle
	TargetName   string
	Fdel         *dircache.Record // target file record being displaced, if any

	Flags Flag

	First  NodeIndex // head of the chain this node belongs to
	Thendo NodeIndex // next operation in the cycle-resolved chain
	Next   NodeIndex // overall plan-list successor

	Order int // insertion order, used by the collision sort

	FromPath string // the full matched from-path, for diagnostics and backref #0
}

// Op is a local alias so callers of this package don't need to import ops
// directly just to read a Replacement's op.
type Op = ops.Op

func (r *Replacement) Has(bits Flag) bool { return r.Flags&bits == bits }
func (r *Replacement) Set(bits Flag)      { r.Flags |= bits }
func (r *Replacement) Clear(bits Flag)    { r.Flags &^= bits }

// Arena is an append-only vector of Replacements plus the insertion-order
// linked list (via Next) that the analyzer mutates into chains.
type Arena struct {
	nodes []*Replacement
	head  NodeIndex
	tail  NodeIndex
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{head: NoNode, tail: NoNode}
}

// Append adds r to the arena and to the tail of the insertion-order list,
// returning its index. r.First is initialized to its own index (every node
// starts as the root of a trivial one-node chain).
func (a *Arena) Append(r *Replacement) NodeIndex {
	idx := NodeIndex(len(a.nodes))
	r.Idx = idx
	r.First = idx
	r.Thendo = NoNode
	r.Next = NoNode
	r.Order = int(idx)
	a.nodes = append(a.nodes, r)
	if a.tail == NoNode {
		a.head = idx
	} else {
		a.nodes[a.tail].Next = idx
	}
	a.tail = idx
	return idx
}

// Get returns the node at idx, or nil for NoNode/Mistake/out-of-range.
func (a *Arena) Get(idx NodeIndex) *Replacement {
	if idx < 0 || int(idx) >= len(a.nodes) {
		return nil
	}
	return a.nodes[idx]
}

// Head returns the first node of the top-level (insertion-order) list.
func (a *Arena) Head() NodeIndex { return a.head }

// Len returns the total number of nodes ever appended (including those
// later marked skip/mistake -- the arena never shrinks).
func (a *Arena) Len() int { return len(a.nodes) }

// All calls fn for every node in insertion order of the original Next
// chain built by Append -- i.e. before any splicing by the analyzer. Used
// by passes that need to see every candidate regardless of later chain
// membership (e.g. the collision sort).
func (a *Arena) All(fn func(*Replacement)) {
	for _, n := range a.nodes {
		fn(n)
	}
}

// Unsplice removes idx from the top-level Next-linked list (its own Next
// pointer is left untouched so callers can still find what followed it).
// O(n) in the number of top-level nodes; analyzer passes already do a full
// scan, so this does not change their asymptotics.
func (a *Arena) Unsplice(idx NodeIndex) {
	if a.head == idx {
		a.head = a.nodes[idx].Next
		if a.tail == idx {
			a.tail = a.head
		}
		return
	}
	cur := a.head
	for cur != NoNode {
		n := a.Get(cur)
		if n.Next == idx {
			n.Next = a.nodes[idx].Next
			if a.tail == idx {
				a.tail = cur
			}
			return
		}
		cur = n.Next
	}
}

// Detach removes idx from wherever it currently sits -- another node's
// thendo chain, or the top-level list if idx is a chain root -- and puts
// idx's own thendo successor (if any) in its place, propagating First.
// Used by the delete scan (§4.4 pass 4) to excise a mistake-marked node
// without breaking the rest of its chain.
func (a *Arena) Detach(idx NodeIndex) {
	n := a.Get(idx)
	succ := n.Thendo

	for _, node := range a.nodes {
		if node.Idx == idx {
			continue
		}
		if node.Thendo == idx {
			node.Thendo = succ
			if succ != NoNode {
				first := node.First
				for cur := succ; cur != NoNode; cur = a.Get(cur).Thendo {
					a.Get(cur).First = first
				}
			}
			return
		}
	}

	// idx was a top-level chain root.
	if a.head == idx {
		a.head = succ
	} else {
		cur := a.head
		for cur != NoNode {
			cn := a.Get(cur)
			if cn.Next == idx {
				cn.Next = succ
				break
			}
			cur = cn.Next
		}
	}
	if succ != NoNode {
		a.Get(succ).Next = n.Next
		for cur := succ; cur != NoNode; cur = a.Get(cur).Thendo {
			a.Get(cur).First = succ
		}
		if a.tail == idx {
			a.tail = succ
		}
	} else if a.tail == idx {
		if a.head == NoNode {
			a.tail = NoNode
		} else {
			cur := a.head
			for a.Get(cur).Next != NoNode {
				cur = a.Get(cur).Next
			}
			a.tail = cur
		}
	}
}

// AppendThendo splices child out of the top-level list (if present there)
// and appends it to parent's thendo chain, propagating parent's First to
// child and child's own thendo successors.
func (a *Arena) AppendThendo(parent, child NodeIndex) {
	p := a.Get(parent)
	c := a.Get(child)
	if p == nil || c == nil {
		return
	}
	a.Unsplice(child)

	tail := parent
	for a.Get(tail).Thendo != NoNode {
		tail = a.Get(tail).Thendo
	}
	a.Get(tail).Thendo = child

	first := a.Get(parent).First
	for cur := child; cur != NoNode; cur = a.Get(cur).Thendo {
		a.Get(cur).First = first
	}
}
