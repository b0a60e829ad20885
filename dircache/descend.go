// descend.go - any-depth-descent stage support
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

package dircache

import (
	"strings"

	"github.com/opencoff/go-mmv/fsutil"
	"github.com/opencoff/go-mmv/walk"
)

// DescendLevel is one directory reached while walking an any-depth-descent
// (";") stage. Prefix is the path-prefix string (relative to the stage's
// starting point, ending in "/" unless empty, per §3's "Directory handle")
// that the matcher should try the remainder of the pattern against next;
// Captured is the traversed suffix bound to the stage's implicit wildcard
// (empty at the root level itself).
type DescendLevel struct {
	Prefix   string
	Captured string
}

// Descend enumerates every directory reachable from root (root included,
// with an empty captured suffix), for a stage whose remainder begins with
// the any-depth-descent marker. It is built on walk.Walk pinned to
// Concurrency: 1 so the recursive descent it performs stays inside the
// single-threaded, cooperative execution model the rest of the planner
// requires (§5).
//
// Only non-hidden directories are visited, per §4.3's "any-level descent"
// rule (dot-directories are never implicitly traversed).
func Descend(root string) ([]DescendLevel, error) {
	start := strings.TrimSuffix(root, "/")
	if start == "" {
		start = "."
	}

	opt := walk.Options{
		Concurrency: 1,
		Type:        walk.DIR,
		Filter: func(fi *fsutil.Info) (bool, error) {
			nm := fi.Name()
			if nm != start && strings.HasPrefix(nm, ".") {
				return true, nil // filtered out: hidden child, never descended
			}
			return false, nil
		},
	}

	out, errc := walk.Walk([]string{start}, opt)

	var levels []DescendLevel
	for fi := range out {
		p := fi.Path()
		rel := strings.TrimPrefix(p, start)
		rel = strings.TrimPrefix(rel, "/")

		prefix := rel
		if prefix != "" {
			prefix += "/"
		}
		if root != "" && root != "." {
			if prefix == "" {
				prefix = root
			} else {
				prefix = strings.TrimSuffix(root, "/") + "/" + prefix
			}
		}
		levels = append(levels, DescendLevel{Prefix: prefix, Captured: rel})
	}

	for err := range errc {
		if err != nil {
			return levels, err
		}
	}
	return levels, nil
}
