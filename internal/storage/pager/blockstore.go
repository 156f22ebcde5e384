package pager

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Page is anything a BlockStore can cache, load, and flush: a typed page
// that knows its own block ID and can serialize its payload. The ID
// itself never appears in the serialized payload — it is carried
// out-of-band as the page's file name.
type Page interface {
	BlockID() int32
	SetBlockID(id int32)
	Serialize(w *bytes.Buffer) (int, error)
}

// NewPageFunc constructs a typed page of family P by reading its payload
// from r. Implementations must consume exactly the bytes they need; the
// BlockStore asserts the reader is exhausted afterward.
type NewPageFunc[P Page] func(id int32, r *bytes.Reader) (P, error)

// BlockStore owns every page of one block family: a read-through,
// write-on-flush cache of pages, each backed by its own
// "<prefix><id>.dat" file under dir. There is no free list and no
// cross-family ID sharing; this store issues monotonically increasing
// IDs for its own family only.
type BlockStore[P Page] struct {
	dir     string
	prefix  string
	newPage NewPageFunc[P]
	cache   map[int32]P
	nextID  int32
}

// NewBlockStore opens (or prepares to create) a block family rooted at
// dir with the given file-name prefix. existingCount is the number of
// blocks already on disk for this family when reopening a database
// (0 for a fresh one); it seeds the next-assigned ID.
func NewBlockStore[P Page](dir, prefix string, existingCount int32, newPage NewPageFunc[P]) *BlockStore[P] {
	return &BlockStore[P]{
		dir:     dir,
		prefix:  prefix,
		newPage: newPage,
		cache:   make(map[int32]P),
		nextID:  existingCount,
	}
}

func (bs *BlockStore[P]) path(id int32) string {
	return filepath.Join(bs.dir, fmt.Sprintf("%s%d.dat", bs.prefix, id))
}

// Get returns the cached page for id, loading it from disk on first
// access. A missing file surfaces as an I/O error to the caller; a
// payload that fails to decode (a short read) or leaves a non-empty tail
// after construction is corruption (the on-disk block doesn't match what
// the page type expects) and panics via corruptf.
func (bs *BlockStore[P]) Get(id int32) (P, error) {
	if p, ok := bs.cache[id]; ok {
		return p, nil
	}
	var zero P
	raw, err := os.ReadFile(bs.path(id))
	if err != nil {
		return zero, fmt.Errorf("pager: read block %s%d: %w", bs.prefix, id, err)
	}
	r := bytes.NewReader(raw)
	p, err := bs.newPage(id, r)
	if err != nil {
		corruptf("pager: decode block %s%d: %v", bs.prefix, id, err)
	}
	if r.Len() != 0 {
		corruptf("pager: block %s%d has %d trailing bytes after decode", bs.prefix, id, r.Len())
	}
	p.SetBlockID(id)
	bs.cache[id] = p
	return p, nil
}

// TrackNew assigns the next sequential ID in this family to p, caches
// it, and returns the assigned ID. p is not written to disk until
// WriteAllCached runs.
func (bs *BlockStore[P]) TrackNew(p P) int32 {
	id := bs.nextID
	bs.nextID++
	p.SetBlockID(id)
	bs.cache[id] = p
	return id
}

// WriteAllCached serializes every cached page to its own file. It does
// not evict the cache.
func (bs *BlockStore[P]) WriteAllCached() error {
	var buf bytes.Buffer
	for id, p := range bs.cache {
		buf.Reset()
		if _, err := p.Serialize(&buf); err != nil {
			return fmt.Errorf("pager: serialize block %s%d: %w", bs.prefix, id, err)
		}
		if err := os.WriteFile(bs.path(id), buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("pager: write block %s%d: %w", bs.prefix, id, err)
		}
	}
	return nil
}

// DeleteAllWithoutWriting drops every cached page without persisting it.
// On-disk state (from a prior WriteAllCached) is left untouched.
func (bs *BlockStore[P]) DeleteAllWithoutWriting() {
	bs.cache = make(map[int32]P)
}

// LoadedCount is the current cache size — the page-access counter after
// a fresh flush, since every Get since then has added exactly one entry
// per distinct block touched.
func (bs *BlockStore[P]) LoadedCount() int {
	return len(bs.cache)
}
