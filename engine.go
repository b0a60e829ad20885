// engine.go - wires compiler -> dircache -> planner -> analyzer -> executor
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

// Package mmv implements the batch file-name transformation engine (§2):
// pattern compilation and matching, a filesystem snapshot shared by
// directory identity, plan construction, collision/cycle analysis, and
// ordered execution with recovery points.
package mmv

import (
	"io"
	"os"

	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/exec"
	"github.com/opencoff/go-mmv/ops"
	"github.com/opencoff/go-mmv/plan"
	"golang.org/x/term"
)

// Config bundles every §6 CLI switch plus the handful of knobs a non-CLI
// caller (tests, a library embedder) needs to set directly.
type Config struct {
	Op       Op
	Verbose  bool // -v
	NoExec   bool // -n
	MatchAll bool // -h

	DeleteStyle plan.DeleteStyle // -d / -p, default ask-del
	BadStyle    BadStylePolicy   // -g / -t, default ask-bad

	Debug       bool   // -D
	DebugTarget string // MMV_DEBUG's optional filename

	Home    string // overrides SysProbe.Home; empty uses the probe's
	NameMax int    // overrides SysProbe.NameMax; 0 uses the probe's

	Prompter Prompter // ask-del / ask-bad / snap-redirect collaborator; nil disables all prompting

	Out io.Writer
	Err io.Writer
}

// Prompter is the single external collaborator both the analyzer's
// ask-delete pass and the executor's snap step consult. A terminal-backed
// implementation lives in package prompt; tests supply a stub.
type Prompter interface {
	Confirm(prompt string) bool
	Line(prompt string) (string, bool)
}

// Engine is one run of the planner/executor pipeline (§2). It is built
// once per invocation and is not safe for concurrent pair submission
// (matching §5's single-threaded, cooperative model).
type Engine struct {
	cfg   Config
	probe *SysProbe
	cache *dircache.Cache
	dbg   *Debugger

	builder  *plan.Builder
	analyzed *PlanResult
}

// New builds an Engine ready to accept AddPair calls. probe may be nil, in
// which case the Engine creates its own via NewSysProbe.
func New(cfg Config, probe *SysProbe) (*Engine, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if probe == nil {
		probe = NewSysProbe()
	}

	home := cfg.Home
	if home == "" {
		home = probe.Home
	}
	nameMax := cfg.NameMax
	if nameMax <= 0 {
		nameMax = probe.NameMax
	}

	dbg, err := NewDebugger(cfg.Debug, cfg.DebugTarget)
	if err != nil {
		return nil, err
	}
	if dbg == nil {
		dbg, err = DebugFromEnv(false)
		if err != nil {
			return nil, err
		}
	}

	cache := dircache.New()
	var prompter plan.Prompter
	if cfg.Prompter != nil {
		prompter = cfg.Prompter
	}

	builder := plan.NewBuilder(plan.Config{
		Cache:       cache,
		Op:          ops.Op(cfg.Op),
		MatchAll:    cfg.MatchAll,
		Home:        home,
		NameMax:     nameMax,
		DeleteOK:    cfg.DeleteStyle == plan.DeleteAllowAll,
		IsRoot:      probe.IsRoot,
		DeleteStyle: cfg.DeleteStyle,
		Prompter:    prompter,
	})

	return &Engine{cfg: cfg, probe: probe, cache: cache, dbg: dbg, builder: builder}, nil
}

// AddPair compiles and matches one from/to pair, per §4.3. Errors are
// accumulated in the Builder's diagnostic stream, not returned here --
// matching §7's "plan-time errors accumulate as counters" policy.
func (e *Engine) AddPair(from, to string) {
	e.builder.AddPair(from, to)
}

// PlanResult summarizes the analyzed plan before execution.
type PlanResult struct {
	PatErr     int
	BadReps    int
	Diagnostics []string
	Live        int
}

// Analyze runs the three (really four, §4.4 enumerates collision/order/
// reject/delete as passes 1-4) analyzer passes over every Replacement
// accumulated so far, then reports the result. Call it after every AddPair
// call. The passes run only on the first call; later calls, including the
// one Execute makes, return that first result.
func (e *Engine) Analyze() PlanResult {
	if e.analyzed != nil {
		return *e.analyzed
	}
	e.builder.DetectCollisions()
	e.builder.DeriveOrder()
	e.builder.RejectChains()
	e.builder.ScanDeletes()

	if e.dbg != nil {
		e.dbg.DumpPlan(e.builder.Arena())
	}

	live := e.liveCount()
	e.analyzed = &PlanResult{
		PatErr:      e.builder.PatErr,
		BadReps:     e.builder.BadReps,
		Diagnostics: e.builder.Diag,
		Live:        live,
	}
	return *e.analyzed
}

func (e *Engine) liveCount() int {
	n := 0
	e.builder.Arena().All(func(r *plan.Replacement) {
		if !r.Has(plan.FlagSkip) {
			n++
		}
	})
	return n
}

// Execute analyzes (callers normally call Analyze first to inspect
// diagnostics, but Execute tolerates being the first call too) and then
// runs the ordered executor (§4.5). It returns the process exit code
// §4.5's "Final status" specifies: 2 on any mid-execution failure;
// otherwise 1 when the plan had errors and nothing live remains, or the
// bad-style policy refused to continue; otherwise 0.
func (e *Engine) Execute() (int, error) {
	res := e.Analyze()

	if res.Live == 0 {
		if res.PatErr != 0 || res.BadReps != 0 {
			return 1, nil
		}
		return 0, nil
	}

	if res.PatErr != 0 || res.BadReps != 0 {
		switch e.cfg.BadStyle {
		case BadAbortBad:
			return 1, &AbortError{PatErr: res.PatErr, BadReps: res.BadReps}
		case BadSkipBad:
			// proceed with the live replacements
		default: // BadAskBad
			if e.cfg.Prompter != nil && !e.cfg.Prompter.Confirm("plan has errors; continue with the remaining live replacements?") {
				return 1, &RefusedError{}
			}
		}
	}

	var execPrompter exec.Prompter
	if e.cfg.Prompter != nil {
		execPrompter = e.cfg.Prompter
	}

	badStyle := exec.BadAbort
	switch e.cfg.BadStyle {
	case BadSkipBad:
		badStyle = exec.BadSkip
	case BadAskBad:
		badStyle = exec.BadAsk
	}

	ex := exec.New(exec.Config{
		Arena:     e.builder.Arena(),
		Verbose:   e.cfg.Verbose,
		NoExecute: e.cfg.NoExec,
		BadStyle:  badStyle,
		Prompter:  execPrompter,
		Out:       e.cfg.Out,
		Err:       e.cfg.Err,
		IsTTY:     isTTY,
	}, e.probe.InstallInterrupt())
	defer e.probe.StopInterrupt()

	result := ex.Run()
	if e.dbg != nil {
		e.dbg.Close()
	}

	if result.Failed {
		return 2, nil
	}
	return 0, nil
}

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
