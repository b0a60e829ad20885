// nul.go - NUL-terminated pair records
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
	"io"
)

// NulReader reads "from\0to\0" records (§6), grounded on
// mmv-read-nul.c's get_filename_nul/mmv_get_pairs_nul. An EOF between
// from and to truncates without error, matching mmv_get_pairs_nul's
// "rv == EOF -> rv = 0; break" handling for the second getword.
type NulReader struct {
	r *bufio.Reader
}

// NewNulReader wraps r.
func NewNulReader(r io.Reader) *NulReader {
	return &NulReader{r: bufio.NewReader(r)}
}

func (n *NulReader) readRecord() (string, bool, error) {
	s, err := n.r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			if len(s) == 0 {
				return "", false, nil
			}
			// EOF with no terminating NUL: the original's
			// get_filename_nul still returns whatever was
			// accumulated, NUL-terminated in its own buffer.
			return s, true, nil
		}
		return "", false, err
	}
	return s[:len(s)-1], true, nil
}

// Next implements Reader.
func (n *NulReader) Next() (Pair, bool, error) {
	from, ok, err := n.readRecord()
	if err != nil {
		return Pair{}, false, err
	}
	if !ok {
		return Pair{}, false, nil
	}
	to, ok, err := n.readRecord()
	if err != nil {
		return Pair{}, false, err
	}
	if !ok {
		// EOF between from and to: truncate silently (§6).
		return Pair{}, false, nil
	}
	return Pair{From: from, To: to}, true, nil
}
