package vmil

// translate.go lifts native instructions into VMIL sequences, grounded on
// original_source/redasm/vmil/vmil_emulator.cpp's Emulator::translate and
// its createMemDisp/createEQ/createNEQ helpers.

import (
	"fmt"

	"github.com/data-man/REDasm/internal/listing"
)

// Lifter emits zero or more VMIL instructions for native into out.
type Lifter func(native *Instruction, out *Sequence)

// Sequence accumulates the VMIL instructions lifted from one native
// instruction, stamping each with a synthetic address as it's appended.
type Sequence struct {
	native *Instruction
	items  []*Instruction
}

func newSequence(native *Instruction) *Sequence {
	return &Sequence{native: native}
}

// emit appends a new VMIL instruction with the given opcode and operands.
func (s *Sequence) emit(op Opcode, operands ...Operand) *Instruction {
	instr := s.build(op, operands...)
	s.items = append(s.items, instr)

	return instr
}

// build constructs a VMIL instruction at the sequence's next synthetic
// address without appending it, for callers (createEQ/createNEQ) that must
// hand the instruction back for the lifter to append itself.
func (s *Sequence) build(op Opcode, operands ...Operand) *Instruction {
	instr := New(s.native.Address, len(s.items), op)
	for _, operand := range operands {
		instr.AddOperand(operand)
	}

	return instr
}

// Append adds a previously built instruction (from build, or returned by
// createEQ/createNEQ) to the sequence.
func (s *Sequence) Append(instr *Instruction) {
	s.items = append(s.items, instr)
}

// Len reports how many VMIL instructions have been emitted so far.
func (s *Sequence) Len() int { return len(s.items) }

// Translator maps a native opcode id to the lifter that translates it.
type Translator struct {
	lifters map[uint32]Lifter
}

// NewTranslator creates an empty translator; register lifters with
// Register before calling Translate.
func NewTranslator() *Translator {
	return &Translator{lifters: make(map[uint32]Lifter)}
}

// Register associates nativeID with lift. A later call for the same id
// replaces the previous lifter.
func (t *Translator) Register(nativeID uint32, lift Lifter) {
	t.lifters[nativeID] = lift
}

// Translate lifts native to a VMIL sequence. If no lifter is registered for
// native's opcode, or the registered lifter emits nothing, the result is a
// single Unkn instruction carrying the native bytes as a diagnostic
// comment — both cases share this one fallback path.
func (t *Translator) Translate(native *Instruction) []*Instruction {
	seq := newSequence(native)

	if lift, ok := t.lifters[native.ID]; ok {
		lift(native, seq)
	}

	if len(seq.items) == 0 {
		unkn := seq.emit(Unkn)
		unkn.Comment(fmt.Sprintf("unlifted bytes: % x", native.Bytes))
	}

	return seq.items
}

// createMemDisp lifts a memory operand's [base + displacement] addressing
// expression into the temp register T0, and returns T0's id. It emits
// Str T0, base and, if the displacement is non-zero, a following Add or Sub
// by its absolute value.
func createMemDisp(native *Instruction, opidx int, out *Sequence) uint32 {
	mem := native.Op(opidx).Mem
	t0 := uint32(DefaultTempRegister)

	out.emit(Str, Temp(t0), listing.Reg(listing.MachineRegisterClass, mem.Base))

	switch {
	case mem.Displacement > 0:
		out.emit(Add, Temp(t0), Temp(t0), listing.Imm(uint64(mem.Displacement)))
	case mem.Displacement < 0:
		out.emit(Sub, Temp(t0), Temp(t0), listing.Imm(uint64(-mem.Displacement)))
	}

	return t0
}

// createEQ emits Xor T0, a, b followed by Bisz T0, T0, so T0 is 1 iff a
// equals b, then returns a prepared branchOp instruction consuming T0 as
// its condition. The caller is responsible for appending the returned
// instruction to out once its branch target operand is attached.
func createEQ(native *Instruction, a, b Operand, out *Sequence, branchOp Opcode) *Instruction {
	t0 := uint32(DefaultTempRegister)

	out.emit(Xor, Temp(t0), a, b)
	out.emit(Bisz, Temp(t0), Temp(t0))

	return out.build(branchOp, Temp(t0))
}

// createNEQ is createEQ without the Bisz, so the returned branch sees a
// non-zero condition iff a and b differ.
func createNEQ(native *Instruction, a, b Operand, out *Sequence, branchOp Opcode) *Instruction {
	t0 := uint32(DefaultTempRegister)

	out.emit(Xor, Temp(t0), a, b)

	return out.build(branchOp, Temp(t0))
}
