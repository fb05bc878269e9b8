// Package listing implements the analytical core's address-indexed
// instruction store, its control-flow path analyzer, and the traversal API
// that surfaces that structure to consumers. It is grounded on
// original_source/redasm/disassembler/types/listing.cpp, generalized from
// a single concrete processor to the Processor/Decoder capability
// interfaces described by the specification.
package listing

import (
	"fmt"

	"github.com/data-man/REDasm/internal/arch"
)

// Listing is the address-keyed store of decoded instructions, plus the
// function paths derived from it. A Listing has a single owner; see the
// package's concurrency note in cache.go.
type Listing struct {
	cache     Cache
	symbols   SymbolTable
	refs      ReferenceTable
	processor Processor
	logger    arch.Logger

	paths FunctionPaths
}

// An OptionFn configures a Listing during New.
type OptionFn func(*Listing)

// WithCache overrides the default in-memory backing with cache.
func WithCache(cache Cache) OptionFn {
	return func(l *Listing) { l.cache = cache }
}

// WithSymbolTable configures the symbol table the path analyzer and
// traversal API consult. Without one, calculatePaths and traversal are
// no-ops.
func WithSymbolTable(symbols SymbolTable) OptionFn {
	return func(l *Listing) { l.symbols = symbols }
}

// WithReferenceTable configures the reference table, accepted for
// completeness with the rest of the framework.
func WithReferenceTable(refs ReferenceTable) OptionFn {
	return func(l *Listing) { l.refs = refs }
}

// WithProcessor configures the Processor capability the path analyzer uses
// to resolve static branch targets. Without one, walk is a no-op.
func WithProcessor(proc Processor) OptionFn {
	return func(l *Listing) { l.processor = proc }
}

// WithLogger configures where the store logs recoverable misses.
func WithLogger(logger arch.Logger) OptionFn {
	return func(l *Listing) { l.logger = logger }
}

// New creates an empty Listing. Without WithCache, instructions are kept
// entirely in memory.
func New(opts ...OptionFn) *Listing {
	l := &Listing{
		logger: arch.NopLogger{},
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.cache == nil {
		l.cache = NewMemCache()
	}

	return l
}

// Commit inserts or replaces the instruction at addr. It is the store's
// cache-invalidation boundary: no consumer may hold onto an *Instruction
// obtained before a Commit and expect it to reflect a later one at the same
// address.
func (l *Listing) Commit(addr Address, instr *Instruction) {
	instr.Address = addr
	if err := l.cache.Put(addr, instr); err != nil {
		l.logger.Info("listing: commit failed", "address", addr, "error", err)
	}
}

// Update is sugar for Commit(instr.Address, instr).
func (l *Listing) Update(instr *Instruction) {
	l.Commit(instr.Address, instr)
}

// Cursor is a position within the Listing's ordered address space, returned
// by Find. A Cursor obtained before a Commit to a lower address is not
// guaranteed to reflect it; per the concurrency model, the Listing has one
// owner.
type Cursor struct {
	listing *Listing
	addr    Address
	ok      bool
}

// Valid reports whether the cursor is positioned at an existing entry, as
// opposed to the end of the Listing.
func (c Cursor) Valid() bool { return c.ok }

// Address returns the address the cursor is positioned at. It panics if the
// cursor is not Valid.
func (c Cursor) Address() Address {
	if !c.ok {
		panic("listing: Address called on an end cursor")
	}

	return c.addr
}

// Instruction returns the instruction the cursor is positioned at. It
// panics if the cursor is not Valid.
func (c Cursor) Instruction() *Instruction {
	instr, ok := c.listing.cache.Get(c.addr)
	if !c.ok || !ok {
		panic("listing: Instruction called on an end cursor")
	}

	return instr
}

// Next returns a cursor at the successor address, or an end cursor if none
// exists.
func (c Cursor) Next() Cursor {
	if !c.ok {
		return c
	}

	next, ok := c.listing.cache.Next(c.addr)

	return Cursor{listing: c.listing, addr: next, ok: ok}
}

// Find returns a cursor positioned at addr, or an end cursor if the address
// has no committed instruction.
func (l *Listing) Find(addr Address) Cursor {
	_, ok := l.cache.Get(addr)
	return Cursor{listing: l, addr: addr, ok: ok}
}

// First returns a cursor positioned at the lowest committed address, or an
// end cursor if the Listing is empty.
func (l *Listing) First() Cursor {
	addr, ok := l.cache.First()
	return Cursor{listing: l, addr: addr, ok: ok}
}

// Get retrieves the instruction committed at addr. It panics if absent:
// callers are expected to only call Get with addresses obtained from the
// store itself, such as through a FunctionPath.
func (l *Listing) Get(addr Address) *Instruction {
	instr, ok := l.cache.Get(addr)
	if !ok {
		panic(fmt.Sprintf("listing: no instruction committed at %#x", uint64(addr)))
	}

	return instr
}

// Len returns the number of committed instructions.
func (l *Listing) Len() int { return l.cache.Len() }

// Close releases the resources the Listing's cache backing holds.
func (l *Listing) Close() error { return l.cache.Close() }

// CalculatePaths (re)computes FunctionPaths for every symbol matching the
// function mask. It is a no-op if no SymbolTable is configured. Callers
// must invoke this again whenever the symbol table's function set, or any
// committed instruction's control-flow-affecting type, changes: nothing
// here tracks that invalidation automatically.
func (l *Listing) CalculatePaths() {
	l.calculatePaths()
}

// FindFunction resolves addr to the FunctionPath that owns it.
func (l *Listing) FindFunction(addr Address) (*FunctionPath, bool) {
	return l.findFunction(addr)
}

// Paths returns the FunctionPaths computed by the most recent
// CalculatePaths call.
func (l *Listing) Paths() FunctionPaths { return l.paths }

// GetSignature returns the concatenation, in ascending address order, of
// the Signature field of every instruction in sym's function path, or the
// empty string if sym has no computed path.
func (l *Listing) GetSignature(sym *Symbol) string {
	return l.getSignature(sym)
}
