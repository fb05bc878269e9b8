package vmil

// emulate.go implements the VMIL interpreter: register/tempregister/memory
// state, opcode dispatch, and per-opcode evaluation semantics, grounded on
// original_source/redasm/vmil/vmil_emulator.cpp's Emulator::emulate and its
// per-opcode handlers. Dispatch is a fixed-size array indexed by opcode id
// (design note §9: "a systems-language rewrite should use a fixed-size
// array indexed by opcode id"), not a hash table.

import (
	"fmt"

	"github.com/data-man/REDasm/internal/arch"
	"github.com/data-man/REDasm/internal/listing"
)

// Decoder is the capability the emulator consumes to read the program image
// when a memory address has no cell of its own yet.
type Decoder interface {
	// ReadAddress reads size bytes (up to 8) of the program image at addr,
	// zero-extended into the returned value.
	ReadAddress(addr listing.Address, size int) (uint64, bool)
}

// Emulator holds the three private state maps of spec.md §3 and executes
// VMIL sequences against them. It owns its state exclusively; nothing else
// writes to these maps.
type Emulator struct {
	registers     map[uint32]uint64
	tempregisters map[uint32]uint64
	memory        map[listing.Address]uint64

	translator *Translator
	decoder    Decoder
	logger     arch.Logger
}

// An EmulatorOptionFn configures an Emulator during NewEmulator.
type EmulatorOptionFn func(*Emulator)

// WithDecoder configures the program-image fallback for memory reads.
// Without one, a memory miss always yields 0.
func WithDecoder(decoder Decoder) EmulatorOptionFn {
	return func(e *Emulator) { e.decoder = decoder }
}

// WithEmulatorLogger configures where the emulator logs recoverable misses.
func WithEmulatorLogger(logger arch.Logger) EmulatorOptionFn {
	return func(e *Emulator) { e.logger = logger }
}

// NewEmulator creates an emulator that lifts native instructions through
// translator before executing them.
func NewEmulator(translator *Translator, opts ...EmulatorOptionFn) *Emulator {
	e := &Emulator{
		translator: translator,
		logger:     arch.NopLogger{},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.Reset()

	return e
}

// Reset clears all three state maps. The emulator has no implicit initial
// values: every register and memory cell reads as 0 until written.
func (e *Emulator) Reset() {
	e.registers = make(map[uint32]uint64)
	e.tempregisters = make(map[uint32]uint64)
	e.memory = make(map[listing.Address]uint64)
}

// Register reads machine register id; absent registers read as 0.
func (e *Emulator) Register(id uint32) uint64 { return e.registers[id] }

// Memory reads the memory cell at addr directly, without the decoder
// fallback (useful for asserting S6's "write never happened" property).
func (e *Emulator) Memory(addr listing.Address) (uint64, bool) {
	v, ok := e.memory[addr]
	return v, ok
}

// Emulate translates native through the translator and dispatches each
// resulting VMIL instruction in order.
func (e *Emulator) Emulate(native *Instruction) {
	for _, instr := range e.translator.Translate(native) {
		e.step(instr)
	}
}

func (e *Emulator) step(instr *Instruction) {
	op := Op(instr)

	if int(op) >= len(dispatch) || dispatch[op] == nil {
		e.logger.Info("vmil: unknown opcode, skipping", "opcode", uint32(op))
		return
	}

	dispatch[op](e, instr)
}

func (e *Emulator) readOperand(op Operand) uint64 {
	switch op.Type {
	case listing.OperandRegister:
		if op.Reg.Class == listing.VMILRegisterClass {
			return e.tempregisters[op.Reg.ID]
		}

		return e.registers[op.Reg.ID]

	case listing.OperandMemory, listing.OperandDisplacement:
		return e.readMemory(listing.Address(op.Value))

	case listing.OperandImmediate:
		return op.Value

	default:
		return 0
	}
}

func (e *Emulator) writeOperand(op Operand, value uint64) {
	switch op.Type {
	case listing.OperandRegister:
		if op.Reg.Class == listing.VMILRegisterClass {
			e.tempregisters[op.Reg.ID] = value
		} else {
			e.registers[op.Reg.ID] = value
		}

	case listing.OperandMemory, listing.OperandDisplacement:
		e.memory[listing.Address(op.Value)] = value

	case listing.OperandImmediate:
		// Writes to an immediate are ignored.
	}
}

// readMemory reads memory[addr], falling back to a 4-byte, zero-extended
// read from the program image via the Decoder when the cell is absent. A
// decoder miss (or no Decoder configured) logs and returns 0; it never
// writes memory[addr], so a later read takes the same fallback path again.
func (e *Emulator) readMemory(addr listing.Address) uint64 {
	if v, ok := e.memory[addr]; ok {
		return v
	}

	if e.decoder != nil {
		if v, ok := e.decoder.ReadAddress(addr, 4); ok {
			return v
		}
	}

	e.logger.Info("vmil: memory read miss", "address", addr)

	return 0
}

type handlerFunc func(e *Emulator, instr *Instruction)

// dispatch is indexed by Opcode; an index with no handler set (or past the
// end of the array) is an unknown opcode, logged and skipped by step.
var dispatch = [Jcc + 1]handlerFunc{
	Nop:   opNop,
	Undef: opNop,
	Unkn:  opNop,
	Add:   opBinary(func(a, b uint64) uint64 { return a + b }),
	Sub:   opBinary(func(a, b uint64) uint64 { return a - b }),
	Mul:   opBinary(func(a, b uint64) uint64 { return a * b }),
	Div:   opDivMod(func(a, b uint64) uint64 { return a / b }),
	Mod:   opDivMod(func(a, b uint64) uint64 { return a % b }),
	Lsh:   opBinary(func(a, b uint64) uint64 { return a << (b & 63) }),
	Rsh:   opBinary(func(a, b uint64) uint64 { return a >> (b & 63) }),
	And:   opBinary(func(a, b uint64) uint64 { return a & b }),
	Or:    opBinary(func(a, b uint64) uint64 { return a | b }),
	Xor:   opBinary(func(a, b uint64) uint64 { return a ^ b }),
	Str:   opMove,
	Ldm:   opMove,
	Stm:   opMove,
	Bisz:  opBisz,
	Jcc:   opJcc,
}

func opNop(*Emulator, *Instruction) {}

// opBinary builds a handler for op0 <- op1 fn op2, over wrapping 64-bit
// unsigned arithmetic.
func opBinary(fn func(a, b uint64) uint64) handlerFunc {
	return func(e *Emulator, instr *Instruction) {
		a := e.readOperand(instr.Op(1))
		b := e.readOperand(instr.Op(2))
		e.writeOperand(instr.Op(0), fn(a, b))
	}
}

// opDivMod is opBinary specialized for Div/Mod: division by zero is logged
// and the write is skipped, rather than trapping (the source has undefined
// behavior here; §7's "never aborts" policy resolves it this way).
func opDivMod(fn func(a, b uint64) uint64) handlerFunc {
	return func(e *Emulator, instr *Instruction) {
		a := e.readOperand(instr.Op(1))
		b := e.readOperand(instr.Op(2))

		if b == 0 {
			e.logger.Info("vmil: division by zero, skipping write", "opcode", Op(instr).String())
			return
		}

		e.writeOperand(instr.Op(0), fn(a, b))
	}
}

// opMove implements Str, Ldm, and Stm, which all share op0 <- op1: the
// direction (load vs store) and the fallback behavior on a memory miss are
// both already encoded in readOperand/writeOperand by which side is a
// memory operand, per design note §9.
func opMove(e *Emulator, instr *Instruction) {
	v := e.readOperand(instr.Op(1))
	e.writeOperand(instr.Op(0), v)
}

func opBisz(e *Emulator, instr *Instruction) {
	v := e.readOperand(instr.Op(1))

	if v == 0 {
		e.writeOperand(instr.Op(0), 1)
	} else {
		e.writeOperand(instr.Op(0), 0)
	}
}

// opJcc evaluates the branch condition and records it as a diagnostic
// comment; it never alters register or memory state itself; it is the
// translator/consumer's responsibility to act on a taken branch.
func opJcc(e *Emulator, instr *Instruction) {
	cond := e.readOperand(instr.Op(0))
	target := e.readOperand(instr.Op(1))

	instr.Comment(fmt.Sprintf("jcc: target=%#x cond=%v", target, cond != 0))
}
