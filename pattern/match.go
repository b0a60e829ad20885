// match.go - recursive glob matcher over one compiled stage
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

import "strings"

// Capture is a (start, length) span into the candidate name a wildcard
// bound during a successful match.
type Capture struct {
	Start int
	Len   int
}

// MatchStage matches name (one path component, never containing '/')
// against the stage's Segment. On success it returns true and a slice of
// captures in the same order as stage.WildIdx; on failure it returns
// false, nil.
//
// This implements §4.3's glob matcher: '*' tries each length from zero
// upward, '?' and '[...]' capture exactly one byte, literal/escaped bytes
// must match exactly, and the matcher never crosses a stage boundary
// because name itself never contains '/'.
func MatchStage(seg string, name string, matchAll bool) (bool, []Capture) {
	if !dotFileOK(seg, name, matchAll) {
		return false, nil
	}
	caps := make([]Capture, 0, 4)
	if !matchRec(seg, 0, name, 0, &caps) {
		return false, nil
	}
	return true, caps
}

// dotFileOK implements the dot-file policy: names beginning with '.' are
// candidates only when the stage's literal prefix begins with '.', or
// match-all is in effect, or the name is exactly "." or ".." (only
// matchable by a literal "." or ".." pattern).
func dotFileOK(seg, name string, matchAll bool) bool {
	if len(name) == 0 || name[0] != '.' {
		return true
	}
	if name == "." || name == ".." {
		return seg == name
	}
	if matchAll {
		return true
	}
	return len(seg) > 0 && seg[0] == '.'
}

func matchRec(pat string, pi int, name string, ni int, caps *[]Capture) bool {
	for pi < len(pat) {
		c := pat[pi]
		switch c {
		case '\\':
			pi++
			if pi >= len(pat) {
				return false
			}
			lit := pat[pi]
			pi++
			if ni >= len(name) || name[ni] != lit {
				return false
			}
			ni++

		case '*':
			pi++
			for l := 0; ni+l <= len(name); l++ {
				*caps = append(*caps, Capture{ni, l})
				if matchRec(pat, pi, name, ni+l, caps) {
					return true
				}
				*caps = (*caps)[:len(*caps)-1]
			}
			return false

		case '!':
			pi++
			for l := 1; ni+l <= len(name); l++ {
				*caps = append(*caps, Capture{ni, l})
				if matchRec(pat, pi, name, ni+l, caps) {
					return true
				}
				*caps = (*caps)[:len(*caps)-1]
			}
			return false

		case '?':
			pi++
			if ni >= len(name) {
				return false
			}
			*caps = append(*caps, Capture{ni, 1})
			if matchRec(pat, pi, name, ni+1, caps) {
				return true
			}
			*caps = (*caps)[:len(*caps)-1]
			return false

		case '[':
			end, neg, body := parseClassAt(pat, pi)
			pi = end
			if ni >= len(name) {
				return false
			}
			if !classMatches(body, neg, name[ni]) {
				return false
			}
			*caps = append(*caps, Capture{ni, 1})
			if matchRec(pat, pi, name, ni+1, caps) {
				return true
			}
			*caps = (*caps)[:len(*caps)-1]
			return false

		default:
			if ni >= len(name) || name[ni] != c {
				return false
			}
			pi++
			ni++
		}
	}
	return ni == len(name)
}

// parseClassAt parses a "[...]" class starting at pat[start] == '['. It
// returns the index just past the closing ']', whether the class is
// negated, and the (escape-decoded) class body.
func parseClassAt(pat string, start int) (end int, neg bool, body string) {
	i := start + 1
	if i < len(pat) && pat[i] == '^' {
		neg = true
		i++
	}
	var b strings.Builder
	for i < len(pat) {
		c := pat[i]
		if c == '\\' && i+1 < len(pat) {
			b.WriteByte(pat[i+1])
			i += 2
			continue
		}
		if c == ']' {
			i++
			break
		}
		b.WriteByte(c)
		i++
	}
	return i, neg, b.String()
}

// classMatches tests byte c against a class body that may contain '-'
// ranges (e.g. "a-z0-9"), treating a literal '-' at either end as itself.
func classMatches(body string, neg bool, c byte) bool {
	matched := false
	n := len(body)
	for i := 0; i < n; i++ {
		if i+2 < n && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 2
			continue
		}
		if body[i] == c {
			matched = true
		}
	}
	if neg {
		return !matched
	}
	return matched
}
