package listing

// cache.go separates the Listing's address-keyed map from how it is backed.
// A Cache is "a keyed, ordered map with named backing" (design note: ordered
// map semantics, not a hash map, because the store must support ascending
// iteration and successor lookup). MemCache is the pure in-memory backing
// used by tests; internal/listing/diskcache.go provides a disk-backed one.
//
// Per the concurrency model, a Listing (and the Cache behind it) has a
// single owner; concurrent Put calls from multiple goroutines are undefined,
// so no internal synchronization is attempted here.

import "sort"

// Cache is the storage capability the Listing store delegates to. Put is
// responsible for invalidating any stale cached copy of the address it
// overwrites; commit is the store's cache-invalidation boundary.
type Cache interface {
	// Put inserts or replaces the instruction at addr.
	Put(addr Address, instr *Instruction) error

	// Get retrieves the instruction at addr, if any.
	Get(addr Address) (*Instruction, bool)

	// Next returns the smallest key strictly greater than addr, the
	// successor used by ascending iteration and by the path analyzer's
	// cursor advance.
	Next(addr Address) (Address, bool)

	// First returns the smallest key in the cache, if any.
	First() (Address, bool)

	// Ascend calls fn for every entry in ascending address order, until
	// fn returns false or entries are exhausted.
	Ascend(fn func(addr Address, instr *Instruction) bool)

	// Len returns the number of entries.
	Len() int

	// Close releases any resources the backing holds.
	Close() error
}

// MemCache is a Cache entirely in memory, backed by a sorted index of
// addresses plus a map for point lookup. Insertion keeps the index sorted by
// binary search, per the ordered-map design note; deletion never happens in
// practice (the core never removes committed instructions) so no tombstone
// bookkeeping is needed.
type MemCache struct {
	index []Address
	cells map[Address]*Instruction
}

var _ Cache = (*MemCache)(nil)

// NewMemCache creates an empty in-memory cache.
func NewMemCache() *MemCache {
	return &MemCache{
		cells: make(map[Address]*Instruction),
	}
}

func (c *MemCache) Put(addr Address, instr *Instruction) error {
	if _, exists := c.cells[addr]; !exists {
		i := sort.Search(len(c.index), func(i int) bool { return c.index[i] >= addr })
		c.index = append(c.index, 0)
		copy(c.index[i+1:], c.index[i:])
		c.index[i] = addr
	}

	c.cells[addr] = instr

	return nil
}

func (c *MemCache) Get(addr Address) (*Instruction, bool) {
	instr, ok := c.cells[addr]
	return instr, ok
}

func (c *MemCache) Next(addr Address) (Address, bool) {
	i := sort.Search(len(c.index), func(i int) bool { return c.index[i] > addr })
	if i >= len(c.index) {
		return 0, false
	}

	return c.index[i], true
}

func (c *MemCache) First() (Address, bool) {
	if len(c.index) == 0 {
		return 0, false
	}

	return c.index[0], true
}

func (c *MemCache) Ascend(fn func(addr Address, instr *Instruction) bool) {
	for _, addr := range c.index {
		instr, ok := c.cells[addr]
		if !ok {
			continue
		}

		if !fn(addr, instr) {
			return
		}
	}
}

func (c *MemCache) Len() int { return len(c.index) }

func (c *MemCache) Close() error { return nil }
