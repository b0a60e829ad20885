// builder.go - matcher / plan builder (§4.3)
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
	"path"
	"strings"

	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/ops"
	"github.com/opencoff/go-mmv/pattern"
)

// pathMax mirrors PATH_MAX (§6's path length bound), using the Linux
// value. NAME_MAX is not a constant here: it comes from Config.NameMax,
// which the engine fills from the root package's system probe (255 when
// unset).
const pathMax = 4096

// DeleteStyle governs the bad-delete predicate in the analyzer's pass 4
// (§4.4), set from the `-d`/`-p` CLI switches (§6).
type DeleteStyle int

const (
	// DeleteAskDel is the default: deletion is permitted, but the
	// second delete-scan pass prompts before each one.
	DeleteAskDel DeleteStyle = iota
	// DeleteAllowAll permits every delete without prompting (`-d`).
	DeleteAllowAll
	// DeleteNoDelete rejects any delete lacking explicit per-pair
	// permission (`-p`).
	DeleteNoDelete
)

// Config bundles everything the builder needs to turn one from/to pair
// into zero or more Replacements.
type Config struct {
	Cache       *dircache.Cache
	Op          ops.Op
	MatchAll    bool
	Home        string
	NameMax     int  // 0 defaults to 255
	DeleteOK    bool // explicit per-pair delete permission (classic "(*)" marker, or global -d)
	IsRoot      bool // caller is uid 0, for the target-dir writability bypass
	DeleteStyle DeleteStyle
	Prompter    Prompter // consulted by pass 4's ask-del scan; may be nil under DeleteAskDel-never-triggered configs
}

// Prompter is the external collaborator the analyzer and executor consult
// for interactive confirmations (ask-del, ask-bad). A terminal-backed
// implementation lives in the prompt package; tests supply a stub.
type Prompter interface {
	Confirm(prompt string) bool
}

// Builder accumulates Replacements across every from/to pair processed in
// one engine run, plus the paterr/badreps counters and diagnostic stream
// §7 describes.
type Builder struct {
	cfg   Config
	arena *Arena

	PatErr  int
	BadReps int
	Diag    []string
}

// NewBuilder returns an empty Builder.
func NewBuilder(cfg Config) *Builder {
	if cfg.NameMax <= 0 {
		cfg.NameMax = 255
	}
	return &Builder{cfg: cfg, arena: NewArena()}
}

// Arena returns the accumulated plan so far, for the analyzer.
func (b *Builder) Arena() *Arena { return b.arena }

func (b *Builder) diag(format string, args ...any) {
	b.Diag = append(b.Diag, fmt.Sprintf(format, args...))
}

// AddPair compiles and matches one from/to pair, appending Replacements
// for everything it admits and counting paterr/badreps for everything it
// rejects.
func (b *Builder) AddPair(fromRaw, toRaw string) {
	fromRaw = pattern.ExpandTilde(fromRaw, b.cfg.Home)
	toRaw = pattern.ExpandTilde(toRaw, b.cfg.Home)

	if len(fromRaw) >= pathMax || len(toRaw) >= pathMax {
		b.diag("%s -> %s: (too long)", fromRaw, toRaw)
		b.PatErr++
		return
	}

	from, err := pattern.CompileFrom(fromRaw)
	if err != nil {
		b.diag("%s", err)
		b.PatErr++
		return
	}

	if from.IsLiteral {
		to := &pattern.ToPattern{Raw: toRaw, Tokens: []pattern.Token{{Literal: toRaw, Index: -1}}}
		b.matchLiteral(from.Literal, to)
		return
	}

	to, err := pattern.CompileTo(toRaw, from.NumWildcards(), b.cfg.Op == ops.Dirmove)
	if err != nil {
		b.diag("%s", err)
		b.PatErr++
		return
	}

	b.walkStages(from, to, 0, "", "", nil)
}

// matchLiteral is the literal-pair bypass: exact basename comparison, no
// wildcard compilation or back-reference expansion (§3's "Encoding").
func (b *Builder) matchLiteral(fromPath string, to *pattern.ToPattern) {
	dir, base := splitPath(fromPath)
	h := b.cfg.Cache.Lookup(handlePrefix(dir), dircache.FromSide)
	if h.Err != dircache.HandleOK {
		b.diag("%s: %s", fromPath, handleErrString(h.Err))
		b.PatErr++
		return
	}
	rec := h.Listing.Find(base)
	if rec == nil {
		b.diag("%s: no such file", fromPath)
		b.PatErr++
		return
	}
	target, err := pattern.Expand(to, fromPath, nil)
	if err != nil {
		b.diag("%s: %s", fromPath, err)
		b.BadReps++
		return
	}
	b.admit(h, rec, fromPath, target, true)
}

// walkStages implements §4.3's algorithm: prelude walk, any-level descent,
// literal-prefix fast-forward, and per-candidate glob matching, recursing
// stage by stage until the leaf stage is reached.
func (b *Builder) walkStages(from *pattern.Pattern, to *pattern.ToPattern, si int, prefix, matched string, caps []string) {
	stage := from.Stages[si]
	isLeaf := si == len(from.Stages)-1
	literalLeaf := isLeaf && len(stage.WildIdx) == 0 && !stage.AnyDepth

	nextPrefix := joinPath(prefix, stage.LitPrefix)
	nextMatched := joinPath(matched, stage.LitPrefix)

	if stage.AnyDepth {
		levels, err := dircache.Descend(nextPrefix)
		if err != nil {
			b.diag("%s: %s", nextPrefix, err)
			b.PatErr++
			return
		}
		for _, lvl := range levels {
			lvlMatched := joinPath(nextMatched, lvl.Captured)
			lvlCaps := append(append([]string{}, caps...), lvl.Captured)
			if isLeaf {
				b.admitAllIn(lvl.Prefix, lvlMatched, lvlCaps, to)
			} else {
				b.walkStages(from, to, si+1, lvl.Prefix, lvlMatched, lvlCaps)
			}
		}
		return
	}

	h := b.cfg.Cache.Lookup(handlePrefix(nextPrefix), dircache.FromSide)
	if h.Err != dircache.HandleOK {
		b.diag("%s: %s", nextPrefix, handleErrString(h.Err))
		b.PatErr++
		return
	}

	leadIn := stage.LiteralLeadIn()
	for _, rec := range h.Listing.PrefixRange(leadIn) {
		ok, mcaps := pattern.MatchStage(stage.Segment, rec.Name, b.cfg.MatchAll)
		if !ok {
			continue
		}
		allCaps := append(append([]string{}, caps...), capturesToStrings(rec.Name, mcaps)...)
		childMatched := joinPath(nextMatched, rec.Name)

		if isLeaf {
			b.admitCandidate(h, rec, childMatched, allCaps, to, literalLeaf)
		} else {
			childPrefix := joinPath(nextPrefix, rec.Name)
			b.walkStages(from, to, si+1, childPrefix, childMatched, allCaps)
		}
	}
}

// admitAllIn handles a leaf stage that is the bare any-depth marker: every
// non-hidden entry directly inside dirPrefix is a candidate, matched
// without any further basename glob (the ";" already consumed the whole
// remaining path).
func (b *Builder) admitAllIn(dirPrefix, matched string, caps []string, to *pattern.ToPattern) {
	h := b.cfg.Cache.Lookup(handlePrefix(dirPrefix), dircache.FromSide)
	if h.Err != dircache.HandleOK {
		b.diag("%s: %s", dirPrefix, handleErrString(h.Err))
		b.PatErr++
		return
	}
	for _, rec := range h.Listing.PrefixRange("") {
		if !dotFileOK(rec.Name, b.cfg.MatchAll) {
			continue
		}
		childMatched := joinPath(matched, rec.Name)
		allCaps := append(append([]string{}, caps...), rec.Name)
		b.admitCandidate(h, rec, childMatched, allCaps, to, false)
	}
}

func dotFileOK(name string, matchAll bool) bool {
	if len(name) == 0 || name[0] != '.' {
		return true
	}
	return matchAll || name == "." || name == ".."
}

// admitCandidate performs §4.3's "per-match admission" for one matched
// leaf-stage candidate.
func (b *Builder) admitCandidate(h *dircache.Handle, rec *dircache.Record, fromPath string, caps []string, to *pattern.ToPattern, literalLeaf bool) {
	target, err := pattern.Expand(to, fromPath, caps)
	if err != nil {
		b.diag("%s: %s", fromPath, err)
		b.BadReps++
		rec.Rep = dircache.Mistake
		return
	}
	b.admit(h, rec, fromPath, target, literalLeaf)
}

// admit runs check_rep and either appends a Replacement or records the
// rejection. literalLeaf is true when the pattern's leaf stage has no
// wildcards (including the always-literal matchLiteral path), which lifts
// the source-is-directory restriction per §4.3.
func (b *Builder) admit(h *dircache.Handle, rec *dircache.Record, fromPath, target string, literalLeaf bool) {
	if rec.Rep != dircache.NoRep {
		// already claimed by an earlier, identical match (possible when
		// two from-patterns happen to enumerate the same file); leave it.
		return
	}

	info, statErr := rec.EnsureStat(h.Prefix, dircache.DefaultStat)
	if statErr != nil {
		b.reject(rec, RejectError{Kind: UnreadableSource, Source: fromPath})
		return
	}

	if info.IsDir() {
		if !(b.cfg.Op == ops.Dirmove || b.cfg.Op == ops.Symlink || literalLeaf) {
			b.reject(rec, RejectError{Kind: SourceIsDirectory, Source: fromPath})
			return
		}
	}

	if (b.cfg.Op == ops.Copy || b.cfg.Op == ops.Overwrite || b.cfg.Op == ops.Append) && !dircache.AccessR(h.Prefix+rec.Name) {
		b.reject(rec, RejectError{Kind: UnreadableSource, Source: fromPath})
		return
	}

	if (rec.Name == "." || rec.Name == "..") && b.cfg.Op != ops.Symlink {
		b.reject(rec, RejectError{Kind: RenameDot, Source: fromPath})
		return
	}

	targetHandle, targetName, rejectKind := b.resolveTarget(h, rec, target)
	if rejectKind >= 0 {
		b.reject(rec, RejectError{Kind: RejectKind(rejectKind), Source: fromPath, Target: target})
		return
	}

	if targetName == "." || targetName == ".." || targetName == "" || len(targetName) > b.cfg.NameMax {
		b.reject(rec, RejectError{Kind: BadTargetName, Source: fromPath, Target: target})
		return
	}

	crossDevice := false
	if targetHandle.Listing != nil && targetHandle.Listing.Dev != 0 && targetHandle.Listing.Dev != info.Dev {
		switch b.cfg.Op {
		case ops.Xmove:
			crossDevice = true
		case ops.Hardlink, ops.Move:
			b.reject(rec, RejectError{Kind: CrossDevice, Source: fromPath, Target: target})
			return
		}
	}

	var fdel *dircache.Record
	if targetHandle.Listing != nil {
		fdel = targetHandle.Listing.Find(targetName)
	}

	rep := &Replacement{
		Op:           b.cfg.Op,
		SourceHandle: h,
		Source:       rec,
		TargetHandle: targetHandle,
		TargetName:   targetName,
		Fdel:         fdel,
		FromPath:     fromPath,
	}
	if crossDevice {
		rep.Set(FlagCrossDevice)
	}
	if b.cfg.DeleteOK {
		rep.Set(FlagDeleteOK)
	}
	idx := b.arena.Append(rep)
	rec.Rep = idx
}

func (b *Builder) reject(rec *dircache.Record, e RejectError) {
	b.diag("%s", e.Error())
	b.BadReps++
	rec.Rep = dircache.Mistake
}

// resolveTarget implements §4.3's "Target-handle resolution". kind < 0
// means success; otherwise kind is the RejectKind to report.
func (b *Builder) resolveTarget(srcHandle *dircache.Handle, rec *dircache.Record, target string) (h *dircache.Handle, name string, kind int) {
	if b.cfg.Op == ops.Dirmove {
		if strings.Contains(target, "/") {
			return nil, "", int(BadTargetName)
		}
		h := srcHandle
		if h.Err != dircache.HandleOK {
			return nil, "", int(MissingTargetDir)
		}
		return h, target, -1
	}

	dir, base := splitPath(target)
	th := b.cfg.Cache.Lookup(handlePrefix(dir), dircache.ToSide)
	switch th.Err {
	case dircache.HandleNotADir:
		return nil, "", int(MissingTargetDir)
	case dircache.HandleNoReadSearch:
		return nil, "", int(UnsearchableTargetDir)
	}

	if th.Listing != nil {
		if existing := th.Listing.Find(base); existing != nil {
			existingInfo, _ := existing.EnsureStat(handlePrefix(dir), dircache.DefaultStat)
			if existingInfo != nil && existingInfo.IsDir() {
				// target names an existing directory: re-resolve one
				// level deeper using the source's own basename.
				deeperDir := joinPath(dir, base)
				deeper := b.cfg.Cache.Lookup(handlePrefix(deeperDir), dircache.ToSide)
				switch deeper.Err {
				case dircache.HandleNotADir:
					return nil, "", int(MissingTargetDir)
				case dircache.HandleNoReadSearch:
					return nil, "", int(UnsearchableTargetDir)
				}
				if !deeper.Listing.IsWritable(deeperDir, b.cfg.IsRoot) {
					return nil, "", int(UnwritableTargetDir)
				}
				return deeper, rec.Name, -1
			}
		}
	}

	if th.Listing == nil || !th.Listing.IsWritable(dir, b.cfg.IsRoot) {
		return nil, "", int(UnwritableTargetDir)
	}
	return th, base, -1
}

func capturesToStrings(name string, caps []pattern.Capture) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = name[c.Start : c.Start+c.Len]
	}
	return out
}

func handleErrString(e dircache.HandleErr) string {
	switch e {
	case dircache.HandleNotADir:
		return "not a directory"
	case dircache.HandleNoReadSearch:
		return "no read/search permission"
	default:
		return "ok"
	}
}

func handlePrefix(dir string) string {
	if dir == "" {
		return ""
	}
	return strings.TrimSuffix(dir, "/") + "/"
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "/" + b
}

func splitPath(p string) (dir, base string) {
	dir, base = path.Split(p)
	return strings.TrimSuffix(dir, "/"), base
}
