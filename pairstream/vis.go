// vis.go - one pair per two vis-encoded LF lines
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
	"fmt"
	"io"
	"strings"
)

// VisReader reads one pair per two LF-terminated lines, each decoded via
// BSD strunvis semantics (§6), grounded on mmv-read-vis.c's
// get_filename_vis/strunvis. Supports the default vis(3) escape set:
// "\\\\" for a literal backslash, "\NNN" octal byte values, and "\^X"
// control characters; any other backslash sequence passes its following
// byte through literally (the corpus has no vis library dependency, so
// this is a direct, from-scratch decoder rather than a wrapped one).
type VisReader struct {
	r *bufio.Reader
}

// NewVisReader wraps r.
func NewVisReader(r io.Reader) *VisReader {
	return &VisReader{r: bufio.NewReader(r)}
}

func (v *VisReader) readLine() (string, bool, error) {
	line, err := v.r.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if err != nil {
		if err == io.EOF {
			if len(line) == 0 {
				return "", false, nil
			}
		} else {
			return "", false, err
		}
	}
	decoded, derr := strunvis(line)
	if derr != nil {
		return "", false, derr
	}
	return decoded, true, nil
}

// Next implements Reader.
func (v *VisReader) Next() (Pair, bool, error) {
	from, ok, err := v.readLine()
	if err != nil || !ok {
		return Pair{}, false, err
	}
	to, ok, err := v.readLine()
	if err != nil || !ok {
		return Pair{}, false, err
	}
	return Pair{From: from, To: to}, true, nil
}

// strunvis decodes one vis(3)-encoded line in place, BSD default style.
func strunvis(s string) (string, error) {
	var b strings.Builder
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= n {
			return "", fmt.Errorf("pairstream: vis: trailing backslash")
		}
		switch {
		case s[i] == '\\':
			b.WriteByte('\\')
			i++
		case s[i] == '^' && i+1 < n:
			b.WriteByte(s[i+1] & 0x1f)
			i += 2
		case s[i] >= '0' && s[i] <= '7':
			val := byte(0)
			j := 0
			for j < 3 && i < n && s[i] >= '0' && s[i] <= '7' {
				val = val*8 + (s[i] - '0')
				i++
				j++
			}
			b.WriteByte(val)
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String(), nil
}
