// listing.go - directory listings interned by (device, inode)
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

package dircache

import (
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sys/unix"
)

// ListingFlag bits, per §3's "Directory listing".
type ListingFlag uint8

const (
	LWriteKnown ListingFlag = 1 << iota
	LWriteOK
	LCleaned
)

// dirKey identifies a directory by (device, inode); two path prefixes
// resolving to the same dirKey share one Listing.
type dirKey struct {
	Dev uint64
	Ino uint64
}

// Listing is a directory's cached, sorted-by-name content. Two handles
// whose physical directories share a (device, inode) share the same
// *Listing, which is what makes dirmove and cross-path deduping correct.
type Listing struct {
	mu      sync.Mutex
	Dev     uint64
	Ino     uint64
	Records []*Record
	Flags   ListingFlag
}

// byName implements sort.Interface; Records must stay sorted lexically by
// name since later lookups binary-search it.
type byName []*Record

func (b byName) Len() int           { return len(b) }
func (b byName) Less(i, j int) bool { return b[i].Name < b[j].Name }
func (b byName) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Find returns the Record named name via binary search, or nil.
func (l *Listing) Find(name string) *Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := sort.Search(len(l.Records), func(i int) bool { return l.Records[i].Name >= name })
	if i < len(l.Records) && l.Records[i].Name == name {
		return l.Records[i]
	}
	return nil
}

// PrefixRange returns the contiguous slice of Records whose Name starts
// with prefix, using one binary search on the sorted array followed by a
// forward scan. plan's stage walk uses this for the "literal prefix
// fast-forward" step (§4.3).
func (l *Listing) PrefixRange(prefix string) []*Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prefix == "" {
		out := make([]*Record, len(l.Records))
		copy(out, l.Records)
		return out
	}
	lo := sort.Search(len(l.Records), func(i int) bool { return l.Records[i].Name >= prefix })
	hi := lo
	for hi < len(l.Records) && hasStringPrefix(l.Records[hi].Name, prefix) {
		hi++
	}
	out := make([]*Record, hi-lo)
	copy(out, l.Records[lo:hi])
	return out
}

func hasStringPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// IsWritable tests and caches access(W_OK) on the listing itself (not any
// one handle), since every handle resolving to this listing shares the
// answer. Root is always writable.
func (l *Listing) IsWritable(dirPath string, isRoot bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Flags&LWriteKnown != 0 {
		return l.Flags&LWriteOK != 0
	}
	l.Flags |= LWriteKnown
	if isRoot {
		l.Flags |= LWriteOK
		return true
	}
	if err := unixAccessWOK(dirPath); err == nil {
		l.Flags |= LWriteOK
		return true
	}
	return false
}

// unixAccessWOK is overridable in tests.
var unixAccessWOK = func(dirPath string) error {
	return unix.Access(dirPath, unix.W_OK)
}

// unixAccessROK is overridable in tests; plan/builder.go's check_rep
// uses it for the unreadable-source rule.
var unixAccessROK = func(path string) error {
	return unix.Access(path, unix.R_OK)
}

// AccessR reports whether path is readable by the calling process.
func AccessR(path string) bool { return unixAccessROK(path) == nil }

// AccessW reports whether path is writable by the calling process.
func AccessW(path string) bool { return unixAccessWOK(path) == nil }

// listingCache interns Listing objects by (device, inode).
type listingCache struct {
	m *xsync.MapOf[dirKey, *Listing]
}

func newListingCache() *listingCache {
	return &listingCache{m: xsync.NewMapOf[dirKey, *Listing]()}
}

// getOrBuild returns the cached Listing for (dev, ino), building it via
// build (a full directory enumeration) on first reference.
func (c *listingCache) getOrBuild(dev, ino uint64, build func() ([]*Record, error)) (*Listing, error) {
	key := dirKey{Dev: dev, Ino: ino}
	if l, ok := c.m.Load(key); ok {
		return l, nil
	}
	recs, err := build()
	if err != nil {
		return nil, err
	}
	sort.Sort(byName(recs))
	l := &Listing{Dev: dev, Ino: ino, Records: recs}
	actual, _ := c.m.LoadOrStore(key, l)
	return actual, nil
}
