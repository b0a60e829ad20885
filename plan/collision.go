// collision.go - analyzer pass 1: target collision detection
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
	"sort"

	"github.com/opencoff/go-mmv/ops"
	"github.com/puzpuzpuz/xsync/v3"
)

// groupKey identifies a target (directory, name) pair, independent of which
// handle resolved to that directory.
type groupKey struct {
	dev, ino uint64
	name     string
}

// DetectCollisions is analyzer pass 1 (§4.4). It groups every live node by
// its resolved (target-listing, target-name) pair; any group with more than
// one member is a collision, which append tolerates (many sources may
// legally append into the same file) but every other op rejects. Rejected
// nodes are marked skip and unspliced from the top-level chain; the arena
// itself is left in place so diagnostics can still reference them.
func (b *Builder) DetectCollisions() {
	groups := xsync.NewMapOf[groupKey, []NodeIndex]()

	b.arena.All(func(r *Replacement) {
		if r.Has(FlagSkip) || r.TargetHandle == nil || r.TargetHandle.Listing == nil {
			return
		}
		key := groupKey{
			dev:  r.TargetHandle.Listing.Dev,
			ino:  r.TargetHandle.Listing.Ino,
			name: r.TargetName,
		}
		cur, _ := groups.Load(key)
		groups.Store(key, append(cur, r.Idx))
	})

	var keys []groupKey
	groups.Range(func(k groupKey, v []NodeIndex) bool {
		if len(v) > 1 {
			keys = append(keys, k)
		}
		return true
	})
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dev != keys[j].dev {
			return keys[i].dev < keys[j].dev
		}
		if keys[i].ino != keys[j].ino {
			return keys[i].ino < keys[j].ino
		}
		return keys[i].name < keys[j].name
	})

	for _, k := range keys {
		members, _ := groups.Load(k)
		sort.Slice(members, func(i, j int) bool {
			return b.arena.Get(members[i]).Order < b.arena.Get(members[j]).Order
		})

		if b.cfg.Op.Is(ops.Append) {
			// Multiple sources appending to one target is not a
			// collision; they execute in insertion order.
			continue
		}

		b.diag(fmt.Sprintf("collision: %d entries target %q", len(members), k.name))
		for _, idx := range members {
			n := b.arena.Get(idx)
			if n.Has(FlagSkip) {
				continue
			}
			n.Set(FlagSkip)
			b.arena.Unsplice(idx)
			b.BadReps++
		}
	}
}
