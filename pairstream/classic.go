// classic.go - whitespace-tokenized pair stream with rescan markers
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

package pairstream

import (
	"bufio"
	"io"
	"strings"

	"github.com/opencoff/shlex"
)

// ClassicReader implements §6's "Classic" format: tokens separated by
// whitespace; "->"/"-^"/"=>"/"=^" markers between from and to are accepted
// and skipped (so mmv's own verbose output can be rescanned, per
// mmv-getpat.c's is_rescan); a "(*)" token after the pair sets DeleteOK.
// Tokenization is delegated to shlex so quoted filenames with embedded
// whitespace survive, the way testsuite/split.go already uses shlex for
// its own whitespace+quoting splitter.
type ClassicReader struct {
	lines *bufio.Scanner
	pend  []string // tokens left over from a line not yet fully consumed
}

// NewClassicReader wraps r, tokenizing it line by line.
func NewClassicReader(r io.Reader) *ClassicReader {
	return &ClassicReader{lines: bufio.NewScanner(r)}
}

func isRescanMark(tok string) bool {
	switch tok {
	case "->", "-^", "=>", "=^":
		return true
	}
	return false
}

// nextToken returns the next whitespace/quote-delimited token, pulling a
// fresh line (re-tokenized via shlex) whenever the pending buffer is
// empty. Returns ok=false at end of stream.
func (c *ClassicReader) nextToken() (string, bool, error) {
	for len(c.pend) == 0 {
		if !c.lines.Scan() {
			if err := c.lines.Err(); err != nil {
				return "", false, err
			}
			return "", false, nil
		}
		toks, err := shlex.Split(strings.TrimSpace(c.lines.Text()))
		if err != nil {
			return "", false, err
		}
		c.pend = toks
	}
	tok := c.pend[0]
	c.pend = c.pend[1:]
	return tok, true, nil
}

// Next implements Reader.
func (c *ClassicReader) Next() (Pair, bool, error) {
	from, ok, err := c.nextToken()
	if err != nil || !ok {
		return Pair{}, false, err
	}

	var to string
	for {
		tok, ok, err := c.nextToken()
		if err != nil {
			return Pair{}, false, err
		}
		if !ok {
			return Pair{}, false, nil
		}
		if isRescanMark(tok) {
			continue
		}
		to = tok
		break
	}

	p := Pair{From: from, To: to}

	// Peek at the next token: "(*)" sets DeleteOK and is consumed;
	// anything else is the next pair's "from" and is pushed back.
	if tok, ok, err := c.nextToken(); err != nil {
		return Pair{}, false, err
	} else if ok {
		if tok == "(*)" {
			p.DeleteOK = true
		} else {
			c.pend = append([]string{tok}, c.pend...)
		}
	}

	return p, true, nil
}
