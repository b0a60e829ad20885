// main.go - mmv CLI front-end
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

// Command mmv is the thin CLI driver over package mmv (§1's "command-line
// front-ends" are explicitly out of the core's scope, but a complete repo
// ships the driver, per SPEC_FULL.md). Flag parsing follows
// testsuite/main.go's github.com/opencoff/pflag idiom; program-name
// dispatch (mmv/mcp/mad/mln) follows original_source/src/libmmv's
// mmv-init.c/mmv-setopt.c.
package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	mmvpkg "github.com/opencoff/go-mmv"
	"github.com/opencoff/go-mmv/pairstream"
	"github.com/opencoff/go-mmv/plan"
	"github.com/opencoff/go-mmv/prompt"
	flag "github.com/opencoff/pflag"
)

var Z = path.Base(os.Args[0])

// defaultOpForName implements §6's program-name defaulting.
func defaultOpForName(name string) mmvpkg.Op {
	switch name {
	case "mcp":
		return mmvpkg.Copy
	case "mad":
		return mmvpkg.Append
	case "mln":
		return mmvpkg.Hardlink
	default: // "mmv" and anything else
		return mmvpkg.Xmove
	}
}

func main() {
	var (
		verbose, noExec, matchAll  bool
		deleteAll, deleteNone      bool
		badSkip, badAbort          bool
		opMove, opXmove, opDirmove bool
		opCopy, opOverwrite        bool
		opAppend, opLink, opSym    bool
		debugDump                  bool
		format                     string
	)

	fs := flag.NewFlagSet(Z, flag.ExitOnError)
	fs.BoolVarP(&verbose, "verbose", "v", false, "Emit a line per successful operation")
	fs.BoolVarP(&noExec, "dry-run", "n", false, "Analyze and report only; perform nothing")
	fs.BoolVarP(&matchAll, "all", "h", false, "Do not exclude dot-files automatically")
	fs.BoolVarP(&deleteAll, "delete-all", "d", false, "Allow every delete without prompting")
	fs.BoolVarP(&deleteNone, "no-delete", "p", false, "Reject any delete lacking explicit permission")
	fs.BoolVarP(&badSkip, "skip-bad", "g", false, "Proceed past plan errors without prompting")
	fs.BoolVarP(&badAbort, "abort-bad", "t", false, "Abort if the plan has any error")
	fs.BoolVarP(&opMove, "move", "m", false, "op=move (strict, no cross-device)")
	fs.BoolVarP(&opXmove, "xmove", "x", false, "op=xmove (default; cross-device via copy+unlink)")
	fs.BoolVarP(&opDirmove, "dirmove", "r", false, "op=dirmove (rename within parent directory)")
	fs.BoolVarP(&opCopy, "copy", "c", false, "op=copy")
	fs.BoolVarP(&opOverwrite, "overwrite", "o", false, "op=overwrite")
	fs.BoolVarP(&opAppend, "append", "a", false, "op=append")
	fs.BoolVarP(&opLink, "hardlink", "l", false, "op=hardlink")
	fs.BoolVarP(&opSym, "symlink", "s", false, "op=symlink")
	fs.BoolVarP(&debugDump, "debug", "D", false, "Enable debug dumps to stderr")
	fs.BoolVarP(new(bool), "compat", "i", false, "Accepted for compatibility; no-op")
	fs.StringVarP(&format, "format", "", "classic", "Pair-stream `format` read from stdin when no from/to pairs are given on the command line: classic|nul|qp|vis|xnn")
	fs.SetOutput(os.Stdout)

	if err := fs.Parse(os.Args[1:]); err != nil {
		die("%s", err)
	}

	op := defaultOpForName(Z)
	switch {
	case opMove:
		op = mmvpkg.Move
	case opXmove:
		op = mmvpkg.Xmove
	case opDirmove:
		op = mmvpkg.Dirmove
	case opCopy:
		op = mmvpkg.Copy
	case opOverwrite:
		op = mmvpkg.Overwrite
	case opAppend:
		op = mmvpkg.Append
	case opLink:
		op = mmvpkg.Hardlink
	case opSym:
		op = mmvpkg.Symlink
	}

	deleteStyle := plan.DeleteAskDel
	switch {
	case deleteAll:
		deleteStyle = plan.DeleteAllowAll
	case deleteNone:
		deleteStyle = plan.DeleteNoDelete
	}

	badStyle := mmvpkg.BadAskBad
	switch {
	case badAbort:
		badStyle = mmvpkg.BadAbortBad
	case badSkip:
		badStyle = mmvpkg.BadSkipBad
	}

	p := prompt.New(os.Stderr, os.Stdin)
	defer p.Close()

	eng, err := mmvpkg.New(mmvpkg.Config{
		Op:          op,
		Verbose:     verbose,
		NoExec:      noExec,
		MatchAll:    matchAll,
		DeleteStyle: deleteStyle,
		BadStyle:    badStyle,
		Debug:       debugDump,
		Prompter:    p,
		Out:         os.Stdout,
		Err:         os.Stderr,
	}, nil)
	if err != nil {
		die("%s", err)
	}

	args := fs.Args()
	if len(args) > 0 {
		if len(args)%2 != 0 {
			die("odd number of from/to arguments")
		}
		for i := 0; i+1 < len(args); i += 2 {
			eng.AddPair(args[i], args[i+1])
		}
	} else {
		if err := feedFromStdin(eng, format); err != nil {
			die("%s", err)
		}
	}

	code, err := eng.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

func feedFromStdin(eng *mmvpkg.Engine, format string) error {
	var r pairstream.Reader
	switch strings.ToLower(format) {
	case "classic", "":
		r = pairstream.NewClassicReader(os.Stdin)
	case "nul":
		r = pairstream.NewNulReader(os.Stdin)
	case "qp":
		r = pairstream.NewQPReader(os.Stdin)
	case "vis":
		r = pairstream.NewVisReader(os.Stdin)
	case "xnn":
		r = pairstream.NewXNNReader(os.Stdin)
	default:
		return fmt.Errorf("unknown pair-stream format %q", format)
	}

	for {
		pair, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		eng.AddPair(pair.From, pair.To)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(format, args...))
	os.Exit(1)
}
