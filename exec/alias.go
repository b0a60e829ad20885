// alias.go - cycle-breaking temp-name aliasing
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
	"fmt"

	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/fsutil"
	"github.com/opencoff/go-mmv/ops"
	"github.com/opencoff/go-mmv/plan"
)

// aliasFor finds the smallest three-digit NNN such that "$mmvtmp.NNN" is
// absent from th's listing.
func aliasFor(th *dircache.Handle) (string, int) {
	for n := 0; n < 1000; n++ {
		cand := fmt.Sprintf("$mmvtmp.%03d", n)
		if th.Listing.Find(cand) == nil {
			return cand, n
		}
	}
	return "", -1
}

// breakCycle is the cycle-closing step of §4.5: before n performs its own
// op, the file it is about to displace (n.Fdel, which some other node in
// the plan still holds as its own source) must be gotten out of the way.
// For every op but append that means a temp-name rename; for append the
// target is never renamed (appending is additive) but the file's current
// size is captured so the later append that reads this same record as its
// source does not also copy back the bytes this very op is about to write.
func breakCycle(n *plan.Replacement) error {
	// DeriveOrder nils a MOVE cycle node's own Fdel (it isn't a real delete,
	// it's the other half of the swap), so the record of whoever currently
	// sits at n's target has to be re-fetched here rather than trusted from
	// n.Fdel. Listing.Find returns the same *Record the chain's other node
	// already holds as its own Source, so setting .Alias on it below is
	// exactly what that node's sourcePath call later reads.
	fdel := n.Fdel
	if fdel == nil {
		fdel = n.TargetHandle.Listing.Find(n.TargetName)
	}
	if fdel == nil {
		return nil
	}

	if n.Op.Is(ops.Append) {
		if info, err := fsutil.Lstat(n.TargetHandle.Prefix + fdel.Name); err == nil {
			fdel.CapturedSize = info.Size()
		}
		return nil
	}

	alias, seq := aliasFor(n.TargetHandle)
	if seq < 0 {
		return &OpError{Op: "alias", Source: fdel.Name, Target: n.TargetHandle.Prefix, Err: fmt.Errorf("no free $mmvtmp.NNN name")}
	}

	oldPath := n.TargetHandle.Prefix + fdel.Name
	newPath := n.TargetHandle.Prefix + alias
	if err := doRename(oldPath, newPath); err != nil {
		return err
	}
	fdel.Alias = alias
	return nil
}

// sourcePath composes n's effective source path, substituting the alias
// basename recorded by an earlier breakCycle call when n's own source
// record was the one displaced and renamed away.
func sourcePath(n *plan.Replacement) string {
	if n.Has(plan.FlagAliased) && !n.Op.Is(ops.Append) && n.Source.Alias != "" {
		return n.SourceHandle.Prefix + n.Source.Alias
	}
	return n.SourceHandle.Prefix + n.Source.Name
}
