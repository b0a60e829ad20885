// prompt.go - interactive confirmation (Prompter) implementation
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

// Package prompt implements the interactive confirmation contract §6's
// CLI switches rely on for ask-del/ask-bad policies: plan.Prompter (one
// method, Confirm), exec.Prompter (one method, Line) and mmv.Prompter
// (Confirm and Line).
// Grounded on original_source/src/libcscript/ask-common.c's tty-fd
// selection (prefer an already-open tty fd, else open /dev/tty) and
// ask-yesno.c/ask-filename.c's read-a-line-then-trim shape;
// golang.org/x/term.IsTerminal replaces the raw isatty() probe.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TTY is a terminal-backed Prompter. Prompts go to the given write handle
// when it is connected to a terminal, and to a lazily opened /dev/tty
// otherwise -- the write-side fallback of ask-common.c's fopen_ttyw_fh.
// Answers are always read from the read handle given to New; there is no
// /dev/tty fallback for reading.
type TTY struct {
	w *os.File
	r *bufio.Reader

	devTTY *os.File // lazily opened fallback, closed by Close
}

// New builds a TTY Prompter. w is typically os.Stderr (the prompt itself
// should not pollute a redirected stdout), r is typically os.Stdin.
func New(w, r *os.File) *TTY {
	return &TTY{w: w, r: bufio.NewReader(r)}
}

// IsInteractive reports whether f is actually a terminal; callers can
// use this to decide whether prompting is even possible
// before constructing a TTY (matching §6's ask-bad gate: "if standard
// output is a tty").
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *TTY) writer() *os.File {
	if term.IsTerminal(int(t.w.Fd())) {
		return t.w
	}
	if t.devTTY == nil {
		t.devTTY, _ = os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	}
	if t.devTTY != nil {
		return t.devTTY
	}
	return t.w
}

func (t *TTY) readLine(prompt string) (string, bool) {
	w := t.writer()
	fmt.Fprint(w, prompt)

	line, err := t.r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// Confirm implements a strict yes/no prompt (ask-yesno.c): only an
// explicit leading 'y'/'Y' answers true; anything else, including EOF,
// answers false.
func (t *TTY) Confirm(prompt string) bool {
	line, ok := t.readLine(prompt + " [y/N] ")
	if !ok {
		return false
	}
	line = strings.TrimSpace(line)
	return len(line) > 0 && (line[0] == 'y' || line[0] == 'Y')
}

// Line implements a free-text prompt (ask-filename.c / ask-string.c),
// used by the executor's snap step to ask for a redirect filename.
func (t *TTY) Line(prompt string) (string, bool) {
	return t.readLine(prompt)
}

// Close releases the lazily-opened /dev/tty fallback, if any was used.
func (t *TTY) Close() error {
	if t.devTTY != nil {
		return t.devTTY.Close()
	}
	return nil
}
