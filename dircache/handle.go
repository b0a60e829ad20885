// handle.go - directory-prefix handles over interned listings
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
	"os"
	"sort"
	"sync"

	"github.com/opencoff/go-mmv/fsutil"
	"github.com/puzpuzpuz/xsync/v3"
)

// HandleErr classifies a handle's lookup failure.
type HandleErr int

const (
	// HandleOK: the prefix resolved to a readable, searchable directory.
	HandleOK HandleErr = iota
	HandleNotADir
	HandleNoReadSearch
)

// Handle maps one textual directory-prefix string (ending in "/", or empty
// for the current directory) to its Listing.
type Handle struct {
	Prefix  string
	Listing *Listing
	Err     HandleErr
}

// Side selects one of the two handle pools (from-side / to-side), per
// §3's "Directory handle": interning them separately speeds the hot-path
// lookup of each side's last-used handle.
type Side int

const (
	FromSide Side = 0
	ToSide   Side = 1
)

// Cache is the process-wide directory/handle cache (§4.1). One Cache is
// shared by an entire engine run.
type Cache struct {
	listings *listingCache
	pools    [2]*xsync.MapOf[string, *Handle]

	mu   sync.Mutex
	last [2]*Handle // per-side fast path: the most recently resolved handle
}

// New builds an empty Cache.
func New() *Cache {
	return &Cache{
		listings: newListingCache(),
		pools: [2]*xsync.MapOf[string, *Handle]{
			xsync.NewMapOf[string, *Handle](),
			xsync.NewMapOf[string, *Handle](),
		},
	}
}

// Lookup resolves prefix on the given side, building (and caching) the
// Handle and its backing Listing on first reference. Lookup failures are
// not fatal here -- they are recorded on the Handle and surfaced by
// callers only when a plan actually needs the directory (§4.1).
func (c *Cache) Lookup(prefix string, side Side) *Handle {
	c.mu.Lock()
	if h := c.last[side]; h != nil && h.Prefix == prefix {
		c.mu.Unlock()
		return h
	}
	c.mu.Unlock()

	if h, ok := c.pools[side].Load(prefix); ok {
		c.setLast(side, h)
		return h
	}

	h := c.build(prefix)
	actual, _ := c.pools[side].LoadOrStore(prefix, h)
	c.setLast(side, actual)
	return actual
}

func (c *Cache) setLast(side Side, h *Handle) {
	c.mu.Lock()
	c.last[side] = h
	c.mu.Unlock()
}

func (c *Cache) build(prefix string) *Handle {
	dirPath := prefix
	if dirPath == "" {
		dirPath = "."
	} else if dirPath != "." {
		// prefix carries its own trailing "/"; strip it for stat/open.
		dirPath = trimTrailingSlash(dirPath)
	}

	info, err := fsutil.Stat(dirPath)
	if err != nil {
		return &Handle{Prefix: prefix, Err: HandleNoReadSearch}
	}
	if !info.IsDir() {
		return &Handle{Prefix: prefix, Err: HandleNotADir}
	}

	listing, err := c.listings.getOrBuild(info.Dev, info.Ino, func() ([]*Record, error) {
		return readDirRecords(dirPath, info)
	})
	if err != nil {
		return &Handle{Prefix: prefix, Err: HandleNoReadSearch}
	}
	return &Handle{Prefix: prefix, Listing: listing, Err: HandleOK}
}

func trimTrailingSlash(s string) string {
	for len(s) > 1 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// readDirRecords performs the one-time full enumeration of dirPath,
// allocating a Record per entry. Entries in a sticky directory are marked
// FlagInStickyDir when the caller is neither root nor the directory's
// owner, matching §4.1's sticky-bit admission rule.
func readDirRecords(dirPath string, dirInfo *fsutil.Info) ([]*Record, error) {
	f, err := os.Open(dirPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	sticky := dirInfo.Mode()&os.ModeSticky != 0
	euid := uint32(os.Geteuid())
	callerIsOwner := dirInfo.Uid == euid
	callerIsRoot := euid == 0

	recs := make([]*Record, 0, len(names))
	for _, nm := range names {
		r := NewRecord(nm)
		if sticky && !callerIsRoot && !callerIsOwner {
			r.Set(FlagInStickyDir)
		}
		recs = append(recs, r)
	}
	return recs, nil
}
