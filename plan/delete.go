// delete.go - analyzer pass 4: delete scan (bad-delete / ask-delete)
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

// ScanDeletes is analyzer pass 4 (§4.4). It runs twice over every node that
// displaces a target file: first a "bad-delete" predicate that rejects
// outright, then -- only under the ask-del policy -- a confirmation prompt
// through the Prompter collaborator.
func (b *Builder) ScanDeletes() {
	b.badDeleteScan()
	if b.cfg.DeleteStyle == DeleteAskDel && b.cfg.Prompter != nil {
		b.askDeleteScan()
	}
}

func (b *Builder) badDeleteScan() {
	for _, idx := range b.liveWithFdel() {
		n := b.arena.Get(idx)
		if n == nil || n.Fdel == nil {
			continue
		}
		if !b.isBadDelete(n) {
			continue
		}
		b.diag("bad-delete: %s -> %s", n.FromPath, n.TargetName)
		b.rejectDelete(n)
	}
}

func (b *Builder) isBadDelete(n *Replacement) bool {
	fdel := n.Fdel
	op := n.Op

	if b.cfg.DeleteStyle == DeleteNoDelete && !n.Has(FlagDeleteOK) && !op.Is(ops.Append) {
		return true
	}
	if fdel.Rep == dircache.Mistake {
		return true
	}
	if fdel.Has(dircache.FlagIsDir) {
		return true
	}
	if fdel.Has(dircache.FlagInStickyDir) && !op.Is(ops.Append|ops.Overwrite) {
		return true
	}
	if op.Is(ops.Overwrite|ops.Append) && n.TargetHandle != nil {
		path := n.TargetHandle.Prefix + fdel.Name
		if !dircache.AccessW(path) {
			return true
		}
	}
	return false
}

// rejectDelete marks n a mistake and detaches it from its chain, re-hooking
// its thendo successor under the chain element that used to point at n
// (adopting n's own source as the successor's new displaced target when n's
// op is a move, since n's source file stays put now that n won't run).
func (b *Builder) rejectDelete(n *Replacement) {
	succ := n.Thendo
	b.arena.Detach(n.Idx)
	n.Set(FlagSkip)
	if n.Source != nil {
		n.Source.Rep = dircache.Mistake
	}
	b.BadReps++

	if succ != NoNode && n.Op.Is(ops.MOVE) {
		if m := b.arena.Get(succ); m != nil {
			m.Fdel = n.Source
		}
	}
}

func (b *Builder) askDeleteScan() {
	for _, idx := range b.liveWithFdel() {
		n := b.arena.Get(idx)
		if n == nil || n.Fdel == nil {
			continue
		}
		prompt := fmt.Sprintf("delete %s to make way for %s", n.Fdel.Name, n.FromPath)
		if !b.cfg.Prompter.Confirm(prompt) {
			b.diag("skip-delete (declined): %s -> %s", n.FromPath, n.TargetName)
			b.arena.Detach(n.Idx)
			n.Set(FlagSkip)
			if n.Source != nil {
				n.Source.Rep = dircache.Mistake
			}
		}
	}
}

// liveWithFdel snapshots every non-skipped node's index up front so the two
// delete-scan passes can detach nodes mid-iteration without disturbing
// their own traversal.
func (b *Builder) liveWithFdel() []NodeIndex {
	var out []NodeIndex
	b.arena.All(func(r *Replacement) {
		if !r.Has(FlagSkip) && r.Fdel != nil {
			out = append(out, r.Idx)
		}
	})
	return out
}
