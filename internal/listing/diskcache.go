package listing

// diskcache.go backs a Listing with an on-disk cache, so that instructions
// may be paged rather than held entirely in memory, per spec.md §3 and the
// "cache-backed store" design note in §9: the in-memory map is separated
// from the disk cache behind the Cache capability interface, with the
// on-disk format being the serialization of serialize.go plus an opaque,
// cache-library-owned header.
//
// The disk backing is a bbolt B+tree (go.etcd.io/bbolt), chosen because its
// keys are ordered by byte comparison; addresses are encoded as fixed-width
// 8-byte big-endian keys so that byte order equals numeric order, giving
// Next/First the ordered-map semantics the store requires without a
// separate index. A hot layer (github.com/hashicorp/golang-lru/v2) sits in
// front of it so repeated point lookups of recently committed instructions
// skip the bbolt transaction.

import (
	"bytes"
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.etcd.io/bbolt"
)

var instructionsBucket = []byte("instructions")

// DiskCache is a Cache backed by a bbolt database file, with an in-memory
// LRU hot layer. It is scoped to the owning Listing's lifetime; Close
// releases the database handle.
type DiskCache struct {
	db  *bbolt.DB
	hot *lru.Cache[Address, *Instruction]
}

var _ Cache = (*DiskCache)(nil)

// OpenDiskCache opens (creating if necessary) a bbolt-backed cache at path,
// with a hot layer holding up to hotSize recently touched instructions.
func OpenDiskCache(path string, hotSize int) (*DiskCache, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("listing: open disk cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(instructionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("listing: initialize disk cache: %w", err)
	}

	hot, err := lru.New[Address, *Instruction](hotSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("listing: initialize hot cache: %w", err)
	}

	return &DiskCache{db: db, hot: hot}, nil
}

// addrKey encodes addr as an 8-byte big-endian key, so bbolt's lexicographic
// byte ordering agrees with numeric address ordering.
func addrKey(addr Address) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(addr))
	return key[:]
}

func keyAddr(key []byte) Address {
	return Address(binary.BigEndian.Uint64(key))
}

// Put writes instr at addr, both to bbolt and to the hot layer. It is the
// cache's half of the store's commit-time invalidation responsibility: the
// hot entry is simply overwritten, so no stale copy can be observed after
// Put returns.
func (c *DiskCache) Put(addr Address, instr *Instruction) error {
	var buf bytes.Buffer
	if err := Serialize(&buf, instr); err != nil {
		return fmt.Errorf("listing: encode instruction at %#x: %w", uint64(addr), err)
	}

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(instructionsBucket).Put(addrKey(addr), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("listing: write instruction at %#x: %w", uint64(addr), err)
	}

	c.hot.Add(addr, instr)

	return nil
}

// Get retrieves the instruction at addr, checking the hot layer before
// falling back to a bbolt read-transaction and decoding it.
func (c *DiskCache) Get(addr Address) (*Instruction, bool) {
	if instr, ok := c.hot.Get(addr); ok {
		return instr, true
	}

	var instr *Instruction

	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(instructionsBucket).Get(addrKey(addr))
		if data == nil {
			return nil
		}

		decoded, err := Deserialize(bytes.NewReader(data))
		if err != nil {
			return err
		}

		instr = decoded

		return nil
	})
	if err != nil || instr == nil {
		return nil, false
	}

	c.hot.Add(addr, instr)

	return instr, true
}

// Next returns the smallest key strictly greater than addr.
func (c *DiskCache) Next(addr Address) (Address, bool) {
	var (
		next Address
		ok   bool
	)

	c.db.View(func(tx *bbolt.Tx) error {
		cur := tx.Bucket(instructionsBucket).Cursor()

		k, _ := cur.Seek(addrKey(addr + 1))
		if k == nil {
			return nil
		}

		next, ok = keyAddr(k), true

		return nil
	})

	return next, ok
}

// First returns the smallest key in the cache, if any.
func (c *DiskCache) First() (Address, bool) {
	var (
		first Address
		ok    bool
	)

	c.db.View(func(tx *bbolt.Tx) error {
		k, _ := tx.Bucket(instructionsBucket).Cursor().First()
		if k == nil {
			return nil
		}

		first, ok = keyAddr(k), true

		return nil
	})

	return first, ok
}

// Ascend calls fn for every entry in ascending address order.
func (c *DiskCache) Ascend(fn func(addr Address, instr *Instruction) bool) {
	c.db.View(func(tx *bbolt.Tx) error {
		cur := tx.Bucket(instructionsBucket).Cursor()

		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			instr, err := Deserialize(bytes.NewReader(v))
			if err != nil {
				continue
			}

			if !fn(keyAddr(k), instr) {
				return nil
			}
		}

		return nil
	})
}

// Len returns the number of entries in the bucket.
func (c *DiskCache) Len() int {
	var n int

	c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(instructionsBucket).Stats().KeyN
		return nil
	})

	return n
}

// Close releases the bbolt database handle.
func (c *DiskCache) Close() error {
	return c.db.Close()
}
