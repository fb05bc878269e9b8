package listing

// symbol.go declares the symbol and reference tables the core consumes but
// never mutates. A format plugin or loader populates a SymbolTable
// elsewhere; the path analyzer and traversal API only ever read from it.

import "github.com/data-man/REDasm/internal/arch"

// SymbolFlag is a bitset describing what kind of thing a Symbol names.
type SymbolFlag uint32

const (
	SymbolFunction SymbolFlag = 1 << iota
	SymbolCode
	SymbolData
	SymbolImport
	SymbolExport

	// FunctionMask selects every symbol that marks a function entry point.
	FunctionMask = SymbolFunction
)

func (f SymbolFlag) Is(mask SymbolFlag) bool { return f&mask != 0 }

// Symbol names a location in the analyzed program.
type Symbol struct {
	Address arch.Address
	Name    string
	Flags   SymbolFlag
}

// IsFunction reports whether the symbol marks a function entry point.
func (s *Symbol) IsFunction() bool {
	return s != nil && s.Flags.Is(SymbolFunction)
}

// Is reports whether any of mask's bits are set on the symbol's flags.
func (s *Symbol) Is(mask SymbolFlag) bool {
	return s != nil && s.Flags.Is(mask)
}

// SymbolVisitor is called once per matching symbol during Iterate. Returning
// false stops the enumeration early.
type SymbolVisitor func(sym *Symbol) bool

// SymbolTable is the external lookup the core consumes for symbol
// information. It is never mutated by the core; callers must not mutate it
// from within a visitor passed to Iterate, since doing so invalidates the
// walker's state.
type SymbolTable interface {
	// Symbol returns the symbol at addr, or nil if none is defined.
	Symbol(addr arch.Address) *Symbol

	// Iterate enumerates every symbol whose flags intersect mask, calling
	// visit for each. Order is unspecified but stable within a run.
	// Iteration stops early if visit returns false.
	Iterate(mask SymbolFlag, visit SymbolVisitor)
}

// ReferenceTable is accepted by the core for completeness with the rest of
// the framework but is not otherwise exercised by it.
type ReferenceTable interface {
	References(addr arch.Address) []arch.Address
}
