package mmv

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// stubPrompter answers every Confirm with yes and every Line with a fixed
// redirect filename, so tests never block waiting on real terminal input.
type stubPrompter struct {
	confirm  bool
	line     string
	lineOK   bool
	confirms int
}

func (s *stubPrompter) Confirm(prompt string) bool {
	s.confirms++
	return s.confirm
}

func (s *stubPrompter) Line(prompt string) (string, bool) {
	return s.line, s.lineOK
}

// withTempCwd creates a temp dir, chdirs into it for the duration of the
// test, and restores the original working directory on cleanup -- the
// from/to patterns the builder matches resolve against the process cwd
// when given no directory component.
func withTempCwd(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func mustWriteFile(t *testing.T, nm, body string) {
	t.Helper()
	if err := os.WriteFile(nm, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", nm, err)
	}
}

func fileExists(nm string) bool {
	_, err := os.Stat(nm)
	return err == nil
}

func readFile(t *testing.T, nm string) string {
	t.Helper()
	b, err := os.ReadFile(nm)
	if err != nil {
		t.Fatalf("read %s: %v", nm, err)
	}
	return string(b)
}

func newTestEngine(t *testing.T, op Op, prompter Prompter) *Engine {
	t.Helper()
	var out, errb bytes.Buffer
	e, err := New(Config{
		Op:       op,
		Prompter: prompter,
		Out:      &out,
		Err:      &errb,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestEngineSimpleRename(t *testing.T) {
	withTempCwd(t)
	mustWriteFile(t, "a.txt", "hello")

	e := newTestEngine(t, Move, nil)
	e.AddPair("a.txt", "b.txt")

	res := e.Analyze()
	if res.Live != 1 {
		t.Fatalf("expected 1 live replacement, got %+v", res)
	}

	code, err := e.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if fileExists("a.txt") {
		t.Fatalf("expected a.txt to be gone after move")
	}
	if readFile(t, "b.txt") != "hello" {
		t.Fatalf("expected b.txt to contain the moved contents")
	}
}

func TestEngineCopyPreservesSource(t *testing.T) {
	withTempCwd(t)
	mustWriteFile(t, "src.txt", "payload")

	e := newTestEngine(t, Copy, nil)
	e.AddPair("src.txt", "dst.txt")

	code, err := e.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !fileExists("src.txt") {
		t.Fatalf("expected src.txt to survive a copy")
	}
	if readFile(t, "dst.txt") != "payload" {
		t.Fatalf("expected dst.txt to contain the copied contents")
	}
}

func TestEngineCycleSwap(t *testing.T) {
	withTempCwd(t)
	mustWriteFile(t, "a.txt", "A")
	mustWriteFile(t, "b.txt", "B")

	e := newTestEngine(t, Move, nil)
	e.AddPair("a.txt", "b.txt")
	e.AddPair("b.txt", "a.txt")

	res := e.Analyze()
	if res.Live != 2 {
		t.Fatalf("expected both halves of the swap live, got %+v", res)
	}

	code, err := e.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if readFile(t, "a.txt") != "B" || readFile(t, "b.txt") != "A" {
		t.Fatalf("expected a 2-cycle swap, got a=%q b=%q", readFile(t, "a.txt"), readFile(t, "b.txt"))
	}
}

func TestEngineCollisionRejectsDuplicateTarget(t *testing.T) {
	withTempCwd(t)
	mustWriteFile(t, "a.txt", "A")
	mustWriteFile(t, "b.txt", "B")

	e := newTestEngine(t, Move, nil)
	e.AddPair("a.txt", "c.txt")
	e.AddPair("b.txt", "c.txt")

	res := e.Analyze()
	if res.Live != 0 {
		t.Fatalf("expected a two-way collision on c.txt to leave nothing live, got %+v", res)
	}
	if len(res.Diagnostics) == 0 {
		t.Fatalf("expected the collision to be reported as a diagnostic")
	}
}

func TestEngineAppend(t *testing.T) {
	withTempCwd(t)
	mustWriteFile(t, "a.txt", "AAA")
	mustWriteFile(t, "b.txt", "BBB")

	e := newTestEngine(t, Append, nil)
	e.AddPair("a.txt", "b.txt")

	code, err := e.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if readFile(t, "b.txt") != "BBBAAA" {
		t.Fatalf("expected b.txt to have a.txt appended, got %q", readFile(t, "b.txt"))
	}
	if !fileExists("a.txt") {
		t.Fatalf("append must not consume its source")
	}
}

func TestEngineWildcardRename(t *testing.T) {
	dir := withTempCwd(t)
	mustWriteFile(t, "report1.log", "one")
	mustWriteFile(t, "report2.log", "two")

	e := newTestEngine(t, Move, nil)
	e.AddPair("report*.log", "archive-#1.log")

	res := e.Analyze()
	if res.Live != 2 {
		t.Fatalf("expected 2 live replacements from the wildcard match, got %+v", res)
	}

	code, err := e.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !fileExists(filepath.Join(dir, "archive-1.log")) || !fileExists(filepath.Join(dir, "archive-2.log")) {
		t.Fatalf("expected both archive-N.log targets to exist")
	}
}
