package prompt

import (
	"io"
	"os"
	"testing"
)

// newTestTTY wires a TTY's read side to a pipe fed with in, and drains the
// write side so prompt text never blocks the pipe buffer.
func newTestTTY(t *testing.T, in string) *TTY {
	t.Helper()

	rr, rw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() { rr.Close() })

	go func() {
		io.WriteString(rw, in)
		rw.Close()
	}()

	wr, ww, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() { ww.Close() })
	go io.Copy(io.Discard, wr)

	return New(ww, rr)
}

func TestConfirmYes(t *testing.T) {
	tt := newTestTTY(t, "y\n")
	if !tt.Confirm("proceed?") {
		t.Fatalf("expected Confirm to return true for 'y'")
	}
}

func TestConfirmYesUppercase(t *testing.T) {
	tt := newTestTTY(t, "Yes\n")
	if !tt.Confirm("proceed?") {
		t.Fatalf("expected Confirm to return true for 'Yes'")
	}
}

func TestConfirmNo(t *testing.T) {
	tt := newTestTTY(t, "n\n")
	if tt.Confirm("proceed?") {
		t.Fatalf("expected Confirm to return false for 'n'")
	}
}

func TestConfirmEmptyDefaultsToNo(t *testing.T) {
	tt := newTestTTY(t, "\n")
	if tt.Confirm("proceed?") {
		t.Fatalf("expected Confirm to default to false on empty input")
	}
}

func TestConfirmEOFIsFalse(t *testing.T) {
	tt := newTestTTY(t, "")
	if tt.Confirm("proceed?") {
		t.Fatalf("expected Confirm to return false at EOF")
	}
}

func TestLineReturnsTrimmedInput(t *testing.T) {
	tt := newTestTTY(t, "rescan.txt\r\n")
	line, ok := tt.Line("redirect file: ")
	if !ok {
		t.Fatalf("expected Line to succeed")
	}
	if line != "rescan.txt" {
		t.Fatalf("expected trimmed 'rescan.txt', got %q", line)
	}
}

func TestLineEOFWithNoInput(t *testing.T) {
	tt := newTestTTY(t, "")
	_, ok := tt.Line("redirect file: ")
	if ok {
		t.Fatalf("expected Line to fail at EOF with no data")
	}
}

func TestCloseWithoutDevTTYIsNoop(t *testing.T) {
	tt := newTestTTY(t, "")
	if err := tt.Close(); err != nil {
		t.Fatalf("unexpected error closing: %v", err)
	}
}
