package listing

// path.go implements the function-path analyzer: walk and calculatePaths,
// ground in original_source/redasm/disassembler/types/listing.cpp's
// Listing::walk and Listing::calculatePaths.

// Processor is the capability the path analyzer consumes to resolve a
// static branch target. A decoder plugin implements this; the core never
// decodes bytes itself.
type Processor interface {
	// Target resolves the static branch target of instr, if any can be
	// determined without executing the program.
	Target(instr *Instruction) (Address, bool)
}

// FunctionPath is the ordered set of addresses reachable from one function
// entry under the walk rules below. Addresses is always sorted ascending.
type FunctionPath struct {
	Entry     Address
	Addresses []Address
	member    map[Address]struct{}
}

func newFunctionPath(entry Address) *FunctionPath {
	return &FunctionPath{Entry: entry, member: make(map[Address]struct{})}
}

// Contains reports whether addr belongs to the path.
func (p *FunctionPath) Contains(addr Address) bool {
	_, ok := p.member[addr]
	return ok
}

// Min and Max are the smallest and largest address in the path, used by
// findFunction's range-reject step. They are meaningless on an empty path.
func (p *FunctionPath) Min() Address { return p.Addresses[0] }
func (p *FunctionPath) Max() Address { return p.Addresses[len(p.Addresses)-1] }

func (p *FunctionPath) insert(addr Address) bool {
	if _, ok := p.member[addr]; ok {
		return false
	}

	p.member[addr] = struct{}{}

	i := len(p.Addresses)
	for i > 0 && p.Addresses[i-1] > addr {
		i--
	}

	p.Addresses = append(p.Addresses, 0)
	copy(p.Addresses[i+1:], p.Addresses[i:])
	p.Addresses[i] = addr

	return true
}

// FunctionPaths maps a function entry address to its discovered path.
// Populated only by calculatePaths.
type FunctionPaths map[Address]*FunctionPath

// walk discovers the control-flow extent of the function starting at entry,
// following the rules of the path analyzer: depth-first, idempotent on
// revisit, calls fall through, jumps into another known function do not
// pull that function's body in.
//
// It is a no-op, returning an empty path, if no Processor is configured —
// the missing-dependency policy names this a neutral default, not an error.
func (l *Listing) walk(entry Address) *FunctionPath {
	path := newFunctionPath(entry)

	if l.processor == nil {
		return path
	}

	l.walkFrom(entry, path)

	return path
}

func (l *Listing) walkFrom(addr Address, path *FunctionPath) {
	instr, ok := l.cache.Get(addr)
	if !ok {
		return
	}

	if !path.insert(addr) {
		return
	}

	if instr.Is(TypeStop) {
		return
	}

	if instr.Is(TypeJump) {
		if target, ok := l.processor.Target(instr); ok {
			sym := l.symbols.Symbol(target)
			if (sym == nil || !sym.IsFunction()) && l.hasInstructionAt(target) {
				l.walkFrom(target, path)
			}
		}

		if !instr.Is(TypeConditional) {
			return
		}
	}

	next, ok := l.cache.Next(addr)
	if !ok {
		return
	}

	// A symbol at next only stops the walk when it marks a function start;
	// a non-function (label) symbol at the same address is not a boundary.
	if sym := l.symbols.Symbol(next); sym != nil && sym.IsFunction() {
		return
	}

	l.walkFrom(next, path)
}

func (l *Listing) hasInstructionAt(addr Address) bool {
	_, ok := l.cache.Get(addr)
	return ok
}

// calculatePaths runs walk for every symbol matching the function mask and
// (re)populates l.paths. A walk result is recorded only when its path is
// non-empty.
func (l *Listing) calculatePaths() {
	if l.symbols == nil {
		return
	}

	paths := make(FunctionPaths)

	l.symbols.Iterate(SymbolFunction, func(sym *Symbol) bool {
		path := l.walk(sym.Address)
		if len(path.Addresses) > 0 {
			paths[sym.Address] = path
		}

		return true
	})

	l.paths = paths
}

// findFunction resolves addr to the FunctionPath that owns it: a direct hit
// on a function entry, or a path whose [min,max] range contains addr and
// which actually has addr as a member (paths need not be contiguous
// ranges, so range containment is only a fast reject).
func (l *Listing) findFunction(addr Address) (*FunctionPath, bool) {
	if path, ok := l.paths[addr]; ok {
		return path, true
	}

	for _, path := range l.paths {
		if len(path.Addresses) == 0 {
			continue
		}

		if addr < path.Min() || addr > path.Max() {
			continue
		}

		if path.Contains(addr) {
			return path, true
		}
	}

	return nil, false
}
