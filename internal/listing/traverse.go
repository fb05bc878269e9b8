package listing

import "strings"

// InstrFunc is called once per instruction visited by iterateFunction, in
// ascending address order.
type InstrFunc func(instr *Instruction)

// SymFunc is called for the function-start symbol (cb_start) or the
// non-function label symbols (cb_label) encountered during a traversal.
type SymFunc func(sym *Symbol)

// EndFunc is called once, with the last instruction visited, after a
// traversal completes.
type EndFunc func(last *Instruction)

// IterateFunction resolves addr to its owning path via FindFunction and
// walks it in ascending order, invoking cbInstr for every instruction.
// cbStart, cbEnd, and cbLabel may be nil.
//
// It returns false if addr resolves to no path, or if no SymbolTable is
// configured — both are the "missing dependency" no-op case, not an error.
func (l *Listing) IterateFunction(addr Address, cbInstr InstrFunc, cbStart SymFunc, cbEnd EndFunc, cbLabel SymFunc) bool {
	if l.symbols == nil {
		return false
	}

	path, ok := l.findFunction(addr)
	if !ok {
		return false
	}

	if sym := l.symbols.Symbol(path.Entry); sym != nil && sym.IsFunction() {
		if cbStart != nil {
			cbStart(sym)
		}
	}

	var last *Instruction

	for _, a := range path.Addresses {
		if cbLabel != nil {
			if sym := l.symbols.Symbol(a); sym != nil && sym.Is(SymbolCode) && !sym.IsFunction() {
				cbLabel(sym)
			}
		}

		instr := l.Get(a)
		cbInstr(instr)
		last = instr
	}

	if cbEnd != nil && last != nil {
		cbEnd(last)
	}

	return true
}

// IterateAll enumerates every function symbol and calls IterateFunction for
// each, in the symbol table's iteration order.
func (l *Listing) IterateAll(cbInstr InstrFunc, cbStart SymFunc, cbEnd EndFunc, cbLabel SymFunc) {
	if l.symbols == nil {
		return
	}

	l.symbols.Iterate(SymbolFunction, func(sym *Symbol) bool {
		l.IterateFunction(sym.Address, cbInstr, cbStart, cbEnd, cbLabel)
		return true
	})
}

// getSignature concatenates, in ascending address order, the Signature
// field of every instruction in sym's function path. It returns "" if sym
// has no computed path, mirroring the original's empty string on
// iterator-not-found.
func (l *Listing) getSignature(sym *Symbol) string {
	if sym == nil {
		return ""
	}

	path, ok := l.paths[sym.Address]
	if !ok {
		return ""
	}

	var b strings.Builder

	for _, addr := range path.Addresses {
		instr, ok := l.cache.Get(addr)
		if !ok {
			continue
		}

		b.WriteString(instr.Signature)
	}

	return b.String()
}
