package listing

// listing_test.go provides shared test fixtures used across the listing
// package's test files: a minimal SymbolTable and Processor, built directly
// from a map since the core only ever consumes these as interfaces.

type fakeSymbols struct {
	byAddr map[Address]*Symbol
}

func newFakeSymbols() *fakeSymbols {
	return &fakeSymbols{byAddr: make(map[Address]*Symbol)}
}

func (s *fakeSymbols) define(addr Address, name string, flags SymbolFlag) {
	s.byAddr[addr] = &Symbol{Address: addr, Name: name, Flags: flags}
}

func (s *fakeSymbols) Symbol(addr Address) *Symbol {
	return s.byAddr[addr]
}

func (s *fakeSymbols) Iterate(mask SymbolFlag, visit SymbolVisitor) {
	for _, sym := range s.byAddr {
		if !sym.Is(mask) {
			continue
		}

		if !visit(sym) {
			return
		}
	}
}

// fakeProcessor resolves a static branch target from a fixed map, standing
// in for a decoder plugin's Target implementation.
type fakeProcessor struct {
	targets map[Address]Address
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{targets: make(map[Address]Address)}
}

func (p *fakeProcessor) resolves(from, to Address) {
	p.targets[from] = to
}

func (p *fakeProcessor) Target(instr *Instruction) (Address, bool) {
	to, ok := p.targets[instr.Address]
	return to, ok
}

// code builds a minimal Code instruction at addr with the given type flags.
func code(addr Address, mnemonic string, typ InstructionType) *Instruction {
	return &Instruction{
		Address:   addr,
		Size:      4,
		Mnemonic:  mnemonic,
		Signature: mnemonic,
		Type:      typ | TypeCode,
		BlockType: BlockCode,
	}
}
