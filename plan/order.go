// order.go - analyzer passes 2/3: chain linking, cycle detection, op rejection
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

package plan

import (
	"fmt"

	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/ops"
)

// DeriveOrder is analyzer pass 2 (§4.4). For every node p that displaces a
// target file record already claimed as another node's source (pred), it
// either closes a cycle (pred.first == p) or splices p into pred's thendo
// chain. Must run after DetectCollisions and before RejectChains.
func (b *Builder) DeriveOrder() {
	arena := b.arena

	var topLevel []NodeIndex
	for cur := arena.Head(); cur != NoNode; cur = arena.Get(cur).Next {
		topLevel = append(topLevel, cur)
	}

	for _, idx := range topLevel {
		p := arena.Get(idx)
		if p == nil || p.Has(FlagSkip) || p.Fdel == nil {
			continue
		}
		if p.Fdel.Rep < 0 {
			continue
		}
		pred := arena.Get(p.Fdel.Rep)
		if pred == nil || pred.Has(FlagSkip) {
			continue
		}
		if pred.First == p.Idx {
			p.Set(FlagCycle)
			pred.Set(FlagAliased)
			if p.Op.Is(ops.MOVE) {
				p.Fdel = nil
			}
			continue
		}
		if p.Op.Is(ops.MOVE) {
			p.Fdel = nil
		}
		arena.AppendThendo(pred.Idx, p.Idx)
	}
}

// RejectChains is analyzer pass 3 (§4.4). Copy and link ops cannot express a
// displacement dependency (there is no source file to move out of the way
// before the copy/link lands), so any chain root that is a cycle or that
// carries a non-empty thendo chain is illegal for those ops.
func (b *Builder) RejectChains() {
	if !b.cfg.Op.Is(ops.COPY | ops.LINK) {
		return
	}

	arena := b.arena
	var roots []NodeIndex
	for cur := arena.Head(); cur != NoNode; cur = arena.Get(cur).Next {
		roots = append(roots, cur)
	}

	for _, idx := range roots {
		root := arena.Get(idx)
		if root == nil || root.Has(FlagSkip) {
			continue
		}
		if !root.Has(FlagCycle) && root.Thendo == NoNode {
			continue
		}

		b.diag(fmt.Sprintf("chain-not-allowed: %s", root.FromPath))
		arena.Unsplice(idx)
		for cur := idx; cur != NoNode; cur = arena.Get(cur).Thendo {
			n := arena.Get(cur)
			n.Set(FlagSkip)
			if n.Source != nil {
				n.Source.Rep = dircache.Mistake
			}
			b.BadReps++
		}
	}
}
