package pairstream

import (
	"strings"
	"testing"
)

func drain(t *testing.T, r Reader) []Pair {
	t.Helper()
	var got []Pair
	for {
		p, ok, err := r.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, p)
	}
	return got
}

func TestClassicReaderBasic(t *testing.T) {
	in := "a.txt b.txt\nc.txt -> d.txt\ne.txt => f.txt (*)\n"
	got := drain(t, NewClassicReader(strings.NewReader(in)))
	want := []Pair{
		{From: "a.txt", To: "b.txt"},
		{From: "c.txt", To: "d.txt"},
		{From: "e.txt", To: "f.txt", DeleteOK: true},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestClassicReaderQuotedTokens(t *testing.T) {
	in := `"a b.txt" 'c d.txt'` + "\n"
	got := drain(t, NewClassicReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %d: %+v", len(got), got)
	}
	if got[0].From != "a b.txt" || got[0].To != "c d.txt" {
		t.Fatalf("unexpected pair: %+v", got[0])
	}
}

func TestClassicReaderTruncatedPair(t *testing.T) {
	in := "a.txt\n"
	got := drain(t, NewClassicReader(strings.NewReader(in)))
	if len(got) != 0 {
		t.Fatalf("expected no pairs for a dangling from, got %+v", got)
	}
}

func TestNulReaderBasic(t *testing.T) {
	in := "a.txt\x00b.txt\x00c.txt\x00d.txt\x00"
	got := drain(t, NewNulReader(strings.NewReader(in)))
	want := []Pair{
		{From: "a.txt", To: "b.txt"},
		{From: "c.txt", To: "d.txt"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestNulReaderEOFWithoutTrailingNUL(t *testing.T) {
	in := "a.txt\x00b.txt"
	got := drain(t, NewNulReader(strings.NewReader(in)))
	if len(got) != 1 || got[0].From != "a.txt" || got[0].To != "b.txt" {
		t.Fatalf("expected one pair reading to EOF, got %+v", got)
	}
}

func TestNulReaderTruncatedBetweenFromAndTo(t *testing.T) {
	in := "a.txt\x00"
	got := drain(t, NewNulReader(strings.NewReader(in)))
	if len(got) != 0 {
		t.Fatalf("expected no pairs, got %+v", got)
	}
}

func TestQPReaderDecode(t *testing.T) {
	in := "a=20b.txt\nc.txt\n"
	got := drain(t, NewQPReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got)
	}
	if got[0].From != "a b.txt" {
		t.Fatalf("expected decoded 'a b.txt', got %q", got[0].From)
	}
	if got[0].To != "c.txt" {
		t.Fatalf("expected 'c.txt', got %q", got[0].To)
	}
}

func TestQPReaderSoftWrap(t *testing.T) {
	in := "a=\nbc.txt\nd.txt\n"
	got := drain(t, NewQPReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got)
	}
	if got[0].From != "abc.txt" {
		t.Fatalf("expected soft-wrap joined 'abc.txt', got %q", got[0].From)
	}
}

func TestQPReaderBadEscape(t *testing.T) {
	in := "a=ZZb.txt\nc.txt\n"
	_, _, err := NewQPReader(strings.NewReader(in)).Next()
	if err == nil {
		t.Fatalf("expected error decoding bad hex escape")
	}
}

func TestVisReaderDecode(t *testing.T) {
	in := `a\ b.txt` + "\n" + `c\040d.txt` + "\n"
	got := drain(t, NewVisReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got)
	}
	if got[0].From != "a b.txt" {
		t.Fatalf("expected 'a b.txt', got %q", got[0].From)
	}
	if got[0].To != "c d.txt" {
		t.Fatalf("expected 'c d.txt', got %q", got[0].To)
	}
}

func TestVisReaderControlChar(t *testing.T) {
	in := `a\^Ab.txt` + "\n" + "c.txt\n"
	got := drain(t, NewVisReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got)
	}
	if got[0].From != "a\x01b.txt" {
		t.Fatalf("expected control-char decode, got %q", got[0].From)
	}
}

func TestVisReaderTrailingBackslashErrors(t *testing.T) {
	in := "a\\\nc.txt\n"
	_, _, err := NewVisReader(strings.NewReader(in)).Next()
	if err == nil {
		t.Fatalf("expected error for trailing backslash")
	}
}

func TestXNNReaderDecode(t *testing.T) {
	in := `a\x20b.txt` + "\n" + "c.txt\n"
	got := drain(t, NewXNNReader(strings.NewReader(in)))
	if len(got) != 1 {
		t.Fatalf("expected 1 pair, got %+v", got)
	}
	if got[0].From != "a b.txt" {
		t.Fatalf("expected 'a b.txt', got %q", got[0].From)
	}
}

func TestXNNReaderLiteralPassthrough(t *testing.T) {
	in := `a\yb.txt` + "\n" + "c.txt\n"
	got := drain(t, NewXNNReader(strings.NewReader(in)))
	if len(got) != 1 || got[0].From != `a\yb.txt` {
		t.Fatalf("expected literal passthrough for non-escape, got %+v", got)
	}
}

func TestXNNReaderBadEscape(t *testing.T) {
	in := `a\xZZb.txt` + "\n" + "c.txt\n"
	_, _, err := NewXNNReader(strings.NewReader(in)).Next()
	if err == nil {
		t.Fatalf("expected error for bad hex escape")
	}
}
