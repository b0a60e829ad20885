package pattern

import "testing"

func TestMatchStageStar(t *testing.T) {
	ok, caps := MatchStage("*.txt", "report.txt", false)
	if !ok {
		t.Fatalf("expected match")
	}
	if len(caps) != 1 || caps[0].Start != 0 || caps[0].Len != 6 {
		t.Fatalf("unexpected captures: %+v", caps)
	}
}

func TestMatchStageBangRequiresNonEmpty(t *testing.T) {
	ok, _ := MatchStage("!.txt", ".txt", true)
	if ok {
		t.Fatalf("expected '!' to reject empty capture")
	}
	ok, caps := MatchStage("!.txt", "a.txt", false)
	if !ok || caps[0].Len != 1 {
		t.Fatalf("expected non-empty capture of length 1, got ok=%v caps=%+v", ok, caps)
	}
}

func TestMatchStageQMark(t *testing.T) {
	ok, caps := MatchStage("a?c", "abc", false)
	if !ok || len(caps) != 1 || caps[0].Start != 1 || caps[0].Len != 1 {
		t.Fatalf("unexpected result: ok=%v caps=%+v", ok, caps)
	}
	if ok2, _ := MatchStage("a?c", "ac", false); ok2 {
		t.Fatalf("expected no match: '?' requires exactly one byte")
	}
}

func TestMatchStageClass(t *testing.T) {
	ok, _ := MatchStage("[abc].txt", "b.txt", false)
	if !ok {
		t.Fatalf("expected class match")
	}
	ok, _ = MatchStage("[^abc].txt", "b.txt", false)
	if ok {
		t.Fatalf("expected negated class to reject 'b'")
	}
	ok, _ = MatchStage("[a-z].txt", "q.txt", false)
	if !ok {
		t.Fatalf("expected range match")
	}
}

func TestMatchStageDotFilePolicy(t *testing.T) {
	if ok, _ := MatchStage("*", ".hidden", false); ok {
		t.Fatalf("dot-file should not match bare '*' without match-all")
	}
	if ok, _ := MatchStage("*", ".hidden", true); !ok {
		t.Fatalf("dot-file should match under match-all")
	}
	if ok, _ := MatchStage(".*", ".hidden", false); !ok {
		t.Fatalf("dot-file should match when stage literal prefix begins with '.'")
	}
	if ok, _ := MatchStage("*", ".", false); ok {
		t.Fatalf("'.' should only match a literal '.' pattern")
	}
	if ok, _ := MatchStage(".", ".", false); !ok {
		t.Fatalf("literal '.' pattern should match '.'")
	}
}

func TestMatchStageNoMatchLeavesNoCaptures(t *testing.T) {
	ok, caps := MatchStage("*.txt", "report.md", false)
	if ok {
		t.Fatalf("expected no match")
	}
	if caps != nil {
		t.Fatalf("expected nil captures on failure")
	}
}

func TestRoundTripCapture(t *testing.T) {
	// Invariant 7/8 (§8): matching then re-expanding an identity "to"
	// pattern reconstructs the matched name.
	ok, caps := MatchStage("*-#.log", "build-#.log", false)
	// '#' has no special meaning in a from-pattern; treat literally.
	if !ok {
		t.Fatalf("expected match")
	}
	name := "build-#.log"
	got := name[:caps[0].Start] + name[caps[0].Start:caps[0].Start+caps[0].Len] + name[caps[0].Start+caps[0].Len:]
	if got != name {
		t.Fatalf("round-trip mismatch: %q vs %q", got, name)
	}
}
