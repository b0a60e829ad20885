// snap.go - snapshot-then-continue-in-dry-run mode (§4.5, §5)
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
	"syscall"

	"github.com/opencoff/go-mmv/plan"
)

// snap is invoked once, on the first syscall failure: it latches no-execute
// mode, optionally redirects subsequent output to an operator-chosen file
// (ask-bad on a tty), and lists every not-yet-done node in the current
// chain, starting at the node that failed, in chain-operational order.
// Nodes of later chains are not listed here.
func (e *Executor) snap(chain []plan.NodeIndex, failedAt plan.NodeIndex) {
	e.noExec = true

	out := e.redirectIfAsked()

	syscall.Umask(0)
	fmt.Fprintln(out, "The following left undone:")

	started := false
	for _, idx := range chain {
		if idx == failedAt {
			started = true
		}
		if !started {
			continue
		}
		e.printUndone(out, idx)
	}
}

// userBreak handles a cooperatively-polled SIGINT: flush, announce, snap.
// The caller's signal.Notify channel stays registered for the whole run,
// so a later Ctrl-C does not kill the process; it triggers another user
// break.
func (e *Executor) userBreak(chain []plan.NodeIndex, at plan.NodeIndex) {
	if f, ok := e.cfg.Out.(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
	fmt.Fprintln(e.cfg.Out, "User break.")
	e.snap(chain, at)
}

func (e *Executor) redirectIfAsked() io.Writer {
	if e.cfg.BadStyle != BadAsk || e.cfg.Prompter == nil {
		return e.cfg.Out
	}
	tty := e.cfg.IsTTY != nil && e.cfg.IsTTY(os.Stdout)
	if !tty {
		return e.cfg.Out
	}
	name, ok := e.cfg.Prompter.Line("redirect remaining output to file (blank to skip): ")
	if !ok || name == "" {
		return e.cfg.Out
	}
	f, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(e.cfg.Err, "snap: %s: %s\n", name, err)
		return e.cfg.Out
	}
	e.cfg.Out = f
	return f
}

func (e *Executor) printUndone(out io.Writer, idx plan.NodeIndex) {
	n := e.cfg.Arena.Get(idx)
	if n == nil {
		return
	}
	source := sourcePath(n)
	target := n.TargetHandle.Prefix + n.TargetName

	aliasFlag := byte('-')
	if n.Has(plan.FlagAliased) {
		aliasFlag = '='
	}
	cycleFlag := byte('>')
	if n.Has(plan.FlagCycle) {
		cycleFlag = '^'
	}
	fmt.Fprintf(out, "%s %c%c %s : done\n", source, aliasFlag, cycleFlag, target)
}
