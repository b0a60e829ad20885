// pattern.go - compiled from/to pattern representation
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

// Package pattern compiles "from" and "to" strings into the stage/wildcard
// and back-reference descriptors that dircache and plan walk during matching
// and target synthesis.
package pattern

// WildcardKind identifies which metacharacter produced a wildcard slot.
type WildcardKind int

const (
	// KindStar is '*': captures zero or more bytes.
	KindStar WildcardKind = iota + 1
	// KindBang is '!': captures one or more bytes (a "non-empty star").
	KindBang
	// KindQMark is '?': captures exactly one byte.
	KindQMark
	// KindClass is '[...]': captures exactly one byte matching the class.
	KindClass
	// KindAnyDepth is a leading ';': captures a traversed directory prefix
	// of zero or more path levels.
	KindAnyDepth
)

func (k WildcardKind) String() string {
	switch k {
	case KindStar:
		return "*"
	case KindBang:
		return "!"
	case KindQMark:
		return "?"
	case KindClass:
		return "[...]"
	case KindAnyDepth:
		return ";"
	default:
		return "?unknown?"
	}
}

// Wildcard is one compile-time-discovered wildcard slot. Class carries the
// raw (already escape-decoded) class body -- including a leading '^' when
// the class is negated -- for KindClass; it is empty otherwise.
type Wildcard struct {
	Kind  WildcardKind
	Class string
}

// Stage is one unit of directory-listing lookup + glob match. LitPrefix is
// the literal path text (no wildcards, escapes already resolved) that must
// be walked -- via plain directory lookups, not matching -- immediately
// before this stage's Segment is tried against candidate names. Segment is
// the raw pattern text for the stage itself: it may contain zero wildcards
// (a pure literal leaf/middle component) or several.
//
// WildIdx lists, in left-to-right order of appearance within Segment, the
// indices into Pattern.Wildcards that belong to this stage.
type Stage struct {
	LitPrefix string
	Segment   string
	WildIdx   []int
	AnyDepth  bool
}

// Pattern is a compiled "from" pattern.
type Pattern struct {
	Raw       string
	IsLiteral bool // true: Literal is an exact path, no stage walk needed
	Literal   string
	Stages    []Stage
	Wildcards []Wildcard
}

// NumWildcards returns the total number of capture slots in the pattern.
func (p *Pattern) NumWildcards() int {
	return len(p.Wildcards)
}

// BackrefKind identifies the case-fold applied when a back-reference is
// expanded.
type BackrefKind int

const (
	// FoldNone leaves the captured substring unchanged.
	FoldNone BackrefKind = iota
	// FoldLower lower-cases the captured substring.
	FoldLower
	// FoldUpper upper-cases the captured substring.
	FoldUpper
)

// Token is one piece of a compiled "to" pattern: either a run of literal
// bytes (Index == -1) or a back-reference (Index, Fold meaningful;
// Literal empty). Index 0 means "the whole matched from-path".
type Token struct {
	Literal string
	Index   int // -1 when this token is a literal run
	Fold    BackrefKind
}

// ToPattern is a compiled "to" pattern: a flat token stream plus the
// highest back-reference index it uses (0 if none).
type ToPattern struct {
	Raw      string
	Tokens   []Token
	MaxIndex int
}
