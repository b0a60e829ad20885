package pattern

import "testing"

func TestCompileFromLiteral(t *testing.T) {
	p, err := CompileFrom("a/b/c.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsLiteral || p.Literal != "a/b/c.txt" {
		t.Fatalf("expected literal pattern, got %+v", p)
	}
}

func TestCompileFromSingleStage(t *testing.T) {
	p, err := CompileFrom("*.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsLiteral {
		t.Fatalf("expected wildcard pattern")
	}
	if len(p.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(p.Stages))
	}
	if len(p.Wildcards) != 1 || p.Wildcards[0].Kind != KindStar {
		t.Fatalf("expected 1 star wildcard, got %+v", p.Wildcards)
	}
}

func TestCompileFromPreludeFold(t *testing.T) {
	p, err := CompileFrom("a/b/*.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Stages) != 1 {
		t.Fatalf("expected 1 stage (prelude folded in), got %d", len(p.Stages))
	}
	if p.Stages[0].LitPrefix != "a/b" {
		t.Fatalf("expected prelude 'a/b', got %q", p.Stages[0].LitPrefix)
	}
}

func TestCompileFromMultiStage(t *testing.T) {
	p, err := CompileFrom("*/sub/*.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(p.Stages))
	}
	if p.Stages[0].LitPrefix != "" || p.Stages[0].Segment != "*" {
		t.Fatalf("unexpected stage0: %+v", p.Stages[0])
	}
	if p.Stages[1].LitPrefix != "sub" || p.Stages[1].Segment != "*.txt" {
		t.Fatalf("unexpected stage1: %+v", p.Stages[1])
	}
}

func TestCompileFromAnyDepth(t *testing.T) {
	p, err := CompileFrom(";/*.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Stages) != 2 || !p.Stages[0].AnyDepth {
		t.Fatalf("expected any-depth leading stage, got %+v", p.Stages)
	}
	if p.Wildcards[0].Kind != KindAnyDepth {
		t.Fatalf("expected KindAnyDepth wildcard, got %v", p.Wildcards[0].Kind)
	}
}

func TestCompileFromErrors(t *testing.T) {
	cases := []string{
		"a[bc",     // unterminated class
		"a[b/c]",   // stray slash inside class
		`a\`,       // trailing escape
		"a;b",      // ';' not at segment start
		"x/a;y/z",  // ';' not at segment start, mid-path
	}
	for _, raw := range cases {
		if _, err := CompileFrom(raw); err == nil {
			t.Errorf("expected error compiling %q, got none", raw)
		}
	}
}

func TestCompileToBackref(t *testing.T) {
	tp, err := CompileTo("#1-#u2", 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tp.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(tp.Tokens), tp.Tokens)
	}
	if tp.Tokens[0].Index != 1 || tp.Tokens[0].Fold != FoldNone {
		t.Fatalf("unexpected token0: %+v", tp.Tokens[0])
	}
	if tp.Tokens[1].Literal != "-" {
		t.Fatalf("unexpected token1: %+v", tp.Tokens[1])
	}
	if tp.Tokens[2].Index != 2 || tp.Tokens[2].Fold != FoldUpper {
		t.Fatalf("unexpected token2: %+v", tp.Tokens[2])
	}
}

func TestCompileToZeroBackrefIsWholePath(t *testing.T) {
	tp, err := CompileTo("#0.bak", 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Expand(tp, "dir/name.txt", nil)
	if err != nil {
		t.Fatalf("unexpected expand error: %v", err)
	}
	if got != "dir/name.txt.bak" {
		t.Fatalf("expected 'dir/name.txt.bak', got %q", got)
	}
}

func TestCompileToRejectsOutOfRange(t *testing.T) {
	if _, err := CompileTo("#3", 2, false); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestCompileToRejectsSlashInDirmove(t *testing.T) {
	if _, err := CompileTo("a/b", 0, true); err == nil {
		t.Fatalf("expected dirmove slash rejection")
	}
}

func TestExpandCaseFold(t *testing.T) {
	// from="([aeiou])*" conceptually: wildcard 1 = the leading vowel class,
	// wildcard 2 = the rest of the name.
	tp, err := CompileTo("#u1-#2", 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Expand(tp, "apple", []string{"a", "pple"})
	if err != nil {
		t.Fatalf("unexpected expand error: %v", err)
	}
	if got != "A-pple" {
		t.Fatalf("expected 'A-pple', got %q", got)
	}
}
