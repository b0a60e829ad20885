// backref.go - "to" pattern compiler and back-reference expansion
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

package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// CompileTo compiles a "to" pattern into a literal/back-reference token
// stream. numWildcards bounds the back-reference range to [0, numWildcards]
// (0 is resolved per the "whole from-path" reading of the source's
// zero-value back-reference, see DESIGN.md); dirmove rejects any path
// separator in the pattern, per §4.2.
func CompileTo(raw string, numWildcards int, dirmove bool) (*ToPattern, error) {
	tp := &ToPattern{Raw: raw}

	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			tp.Tokens = append(tp.Tokens, Token{Literal: lit.String(), Index: -1})
			lit.Reset()
		}
	}

	i, n := 0, len(raw)
	for i < n {
		c := raw[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return nil, newToErr(raw, "trailing escape with no following byte")
			}
			lit.WriteByte(raw[i+1])
			i += 2

		case '/':
			if dirmove {
				return nil, newToErr(raw, "path separator not allowed in dirmove target")
			}
			lit.WriteByte(c)
			i++

		case '#':
			i++
			fold := FoldNone
			if i < n && (raw[i] == 'l' || raw[i] == 'u') {
				if raw[i] == 'l' {
					fold = FoldLower
				} else {
					fold = FoldUpper
				}
				i++
			}
			start := i
			for i < n && raw[i] >= '0' && raw[i] <= '9' {
				i++
			}
			if i == start {
				return nil, newToErr(raw, "back-reference missing at least one digit")
			}
			idx, err := strconv.Atoi(raw[start:i])
			if err != nil {
				return nil, newToErr(raw, "back-reference index not numeric")
			}
			if idx < 0 || idx > numWildcards {
				return nil, newToErr(raw, fmt.Sprintf("back-reference #%d out of range [0,%d]", idx, numWildcards))
			}
			flushLit()
			tp.Tokens = append(tp.Tokens, Token{Index: idx, Fold: fold})
			if idx > tp.MaxIndex {
				tp.MaxIndex = idx
			}

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLit()
	return tp, nil
}

// ExpandTilde prepends home in place of a leading "~/", as §4.2 specifies
// for either the from or to pattern. home may be empty, in which case only
// the "~" is dropped (a bare leading "/" results).
func ExpandTilde(raw, home string) string {
	if !strings.HasPrefix(raw, "~/") {
		return raw
	}
	return home + raw[1:]
}

// Expand synthesizes the target name by streaming tp's tokens, substituting
// each back-reference. fromPath is the full matched from-path (back-
// reference 0); captures[i] holds the decoded substring bound to wildcard
// index i+1 (1-based externally, per the to-pattern numbering).
func Expand(tp *ToPattern, fromPath string, captures []string) (string, error) {
	var out strings.Builder
	for _, t := range tp.Tokens {
		if t.Index < 0 {
			out.WriteString(t.Literal)
			continue
		}
		var s string
		if t.Index == 0 {
			s = fromPath
		} else {
			if t.Index > len(captures) {
				return "", fmt.Errorf("pattern: back-reference #%d has no capture (only %d captured)", t.Index, len(captures))
			}
			s = captures[t.Index-1]
		}
		switch t.Fold {
		case FoldLower:
			s = strings.ToLower(s)
		case FoldUpper:
			s = strings.ToUpper(s)
		}
		out.WriteString(s)
	}
	return out.String(), nil
}
