// debug.go - debug dump sink (-D / MMV_DEBUG), go-logger backed
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

package mmv

import (
	"fmt"
	"os"
	"strings"

	"github.com/opencoff/go-logger"
	"github.com/opencoff/go-mmv/dircache"
	"github.com/opencoff/go-mmv/pattern"
	"github.com/opencoff/go-mmv/plan"
)

// Debugger is the dump sink modeled on mmv-debug.c: the compiled pattern
// stage table, handle/listing cache population, and the full replacement
// list (including chain links), emitted only when `-D` or a non-empty
// MMV_DEBUG is set (§6).
type Debugger struct {
	log logger.Logger
}

// NewDebugger opens a go-logger sink at LOG_DEBUG. logfile is the path
// named by MMV_DEBUG (§6: "optionally names a file to receive dumps"); an
// empty logfile logs to stderr. Returns nil, nil when debugging is off.
func NewDebugger(enabled bool, logfile string) (*Debugger, error) {
	if !enabled {
		return nil, nil
	}
	if logfile == "" {
		logfile = "-" // go-logger convention for stderr, mirroring testsuite's log-stdout switch
	}
	log, err := logger.NewLogger(logfile, logger.LOG_DEBUG, "mmv", logger.Ldate|logger.Ltime|logger.Lmicroseconds)
	if err != nil {
		return nil, fmt.Errorf("debug: %w", err)
	}
	return &Debugger{log: log}, nil
}

// DebugFromEnv honors MMV_DEBUG (§6): present and non-empty enables the
// same dump -D does, optionally naming the file to receive it.
func DebugFromEnv(explicitD bool) (*Debugger, error) {
	v, ok := os.LookupEnv("MMV_DEBUG")
	enabled := explicitD || (ok && v != "")
	logfile := ""
	if ok && v != "1" && v != "true" && v != "" {
		logfile = v
	}
	return NewDebugger(enabled, logfile)
}

// Close releases the underlying logger; safe on a nil *Debugger.
func (d *Debugger) Close() {
	if d != nil && d.log != nil {
		d.log.Close()
	}
}

// DumpPattern logs one compiled "from" pattern's stage table.
func (d *Debugger) DumpPattern(raw string, p *pattern.Pattern) {
	if d == nil {
		return
	}
	if p.IsLiteral {
		d.log.Debug("pattern %q: literal %q", raw, p.Literal)
		return
	}
	var b strings.Builder
	for i, st := range p.Stages {
		fmt.Fprintf(&b, " stage[%d]={lit=%q seg=%q wild=%v anydepth=%v}", i, st.LitPrefix, st.Segment, st.WildIdx, st.AnyDepth)
	}
	d.log.Debug("pattern %q:%s", raw, b.String())
}

// DumpCache logs how many listings/handles the cache has interned so far.
func (d *Debugger) DumpCache(c *dircache.Cache, listings, handles int) {
	if d == nil {
		return
	}
	d.log.Debug("cache: %d listing(s), %d handle(s) interned", listings, handles)
}

// DumpPlan logs every node in the arena, including its chain links, in
// insertion order -- the same shape mmv-debug.c's replacement-list dump
// takes.
func (d *Debugger) DumpPlan(a *plan.Arena) {
	if d == nil {
		return
	}
	for i := 0; i < a.Len(); i++ {
		n := a.Get(plan.NodeIndex(i))
		if n == nil {
			continue
		}
		d.log.Debug("rep[%d] %s -> %s op=%s first=%d thendo=%d next=%d flags=%#x",
			i, n.FromPath, n.TargetName, n.Op, n.First, n.Thendo, n.Next, n.Flags)
	}
}
