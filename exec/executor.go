// executor.go - walks the analyzed plan and performs the ops (§4.5)
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
	"io"
	"os"

	"github.com/opencoff/go-mmv/ops"
	"github.com/opencoff/go-mmv/plan"
	utils "github.com/opencoff/go-utils"
)

// BadStyle mirrors the `-g`/`-t` CLI switches (§6): what to do about a
// fatal execution error, specifically whether snap prompts for an output
// file.
type BadStyle int

const (
	BadAbort BadStyle = iota
	BadSkip
	BadAsk
)

// Prompter is the subset of the external collaborator the snap step needs:
// asking for a filename to redirect the "left undone" listing to.
type Prompter interface {
	Line(prompt string) (string, bool)
}

// Config bundles everything the executor needs for one run.
type Config struct {
	Arena     *plan.Arena
	Verbose   bool
	NoExecute bool
	BadStyle  BadStyle
	Prompter  Prompter
	Out       io.Writer
	Err       io.Writer
	IsTTY     func(f *os.File) bool
}

// Result summarizes one run for the engine to turn into a process exit
// code (§4.5's "Final status").
type Result struct {
	Failed bool
	Undone int
}

// Executor walks chain roots in insertion order and, within each chain,
// thendo root-first, performing each node's op. The single mutable piece of
// state is noExec: it starts at cfg.NoExecute and latches true forever once
// a syscall failure or SIGINT triggers a snapshot.
type Executor struct {
	cfg    Config
	noExec bool
	sigCh  chan os.Signal
}

// New returns an Executor for one plan run. Caller owns signal.Notify
// wiring; pass the channel you registered os.Interrupt on.
func New(cfg Config, sigCh chan os.Signal) *Executor {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	return &Executor{cfg: cfg, noExec: cfg.NoExecute, sigCh: sigCh}
}

// Run walks every chain root in the arena's current top-level order.
func (e *Executor) Run() Result {
	var res Result

	for cur := e.cfg.Arena.Head(); cur != plan.NoNode; cur = e.cfg.Arena.Get(cur).Next {
		chain := operationalOrder(e.cfg.Arena, cur)
		for _, idx := range chain {
			n := e.cfg.Arena.Get(idx)
			if n == nil || n.Has(plan.FlagSkip) {
				continue
			}

			if e.checkInterrupt() {
				e.userBreak(chain, idx)
			}

			if e.noExec {
				res.Undone++
				continue
			}

			if err := e.perform(n); err != nil {
				fmt.Fprintf(e.cfg.Err, "%s\n", err)
				e.snap(chain, idx)
				res.Failed = true
				res.Undone++
				continue
			}
		}
	}
	return res
}

// operationalOrder collects root and its thendo successors in chain order.
// The root is the node whose own move clears the target some later node in
// the chain depends on being free, so it must run first; each successor then
// runs only after the node ahead of it in the chain has vacated that spot.
func operationalOrder(a *plan.Arena, root plan.NodeIndex) []plan.NodeIndex {
	var out []plan.NodeIndex
	for cur := root; cur != plan.NoNode; cur = a.Get(cur).Thendo {
		out = append(out, cur)
	}
	return out
}

func (e *Executor) checkInterrupt() bool {
	select {
	case <-e.sigCh:
		return true
	default:
		return false
	}
}

// perform executes one node's op, including cycle-breaking aliasing.
func (e *Executor) perform(n *plan.Replacement) error {
	if n.Has(plan.FlagCycle) {
		if err := breakCycle(n); err != nil {
			return err
		}
	}

	source := sourcePath(n)
	target := n.TargetHandle.Prefix + n.TargetName
	perm := os.FileMode(0644)
	if n.Source.Info != nil {
		perm = n.Source.Info.Mode().Perm()
	}

	var written int64
	var err error

	switch {
	case n.Op.Is(ops.MOVE) && !n.Has(plan.FlagCrossDevice):
		err = doRename(source, target)

	case n.Op == ops.Xmove && n.Has(plan.FlagCrossDevice):
		if err = doOverwrite(source, target, perm); err == nil {
			err = os.Remove(source)
		}

	case n.Op == ops.Copy:
		if n.Fdel != nil {
			if uerr := doUnlink(target); uerr != nil {
				err = uerr
				break
			}
		}
		err = doCopyFresh(source, target, perm)

	case n.Op == ops.Overwrite:
		err = doOverwrite(source, target, perm)

	case n.Op == ops.Append:
		limit := int64(0)
		if n.Has(plan.FlagAliased) && n.Source.CapturedSize > 0 {
			limit = n.Source.CapturedSize
		}
		written, err = doAppend(source, target, limit, perm)

	case n.Op == ops.Hardlink:
		if n.Fdel != nil {
			if uerr := doUnlink(target); uerr != nil {
				err = uerr
				break
			}
		}
		err = doHardlink(source, target)

	case n.Op == ops.Symlink:
		if n.Fdel != nil {
			if uerr := doUnlink(target); uerr != nil {
				err = uerr
				break
			}
		}
		err = doSymlink(source, target)

	default:
		err = doRename(source, target)
	}

	if err != nil {
		return err
	}
	if e.cfg.Verbose {
		e.logDone(n, source, target, written)
	}
	return nil
}

func (e *Executor) logDone(n *plan.Replacement, source, target string, written int64) {
	if written > 0 {
		fmt.Fprintf(e.cfg.Out, "%s %s> %s : done (%s)\n", source, n.Op, target, utils.HumanizeSize(uint64(written)))
		return
	}
	fmt.Fprintf(e.cfg.Out, "%s %s> %s : done\n", source, n.Op, target)
}
