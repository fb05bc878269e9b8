package lc3

// lift.go registers VMIL lifters for the subset of the instruction set whose
// semantics the VMIL model (register moves, arithmetic, and a diagnostic
// Jcc) can actually represent. LDR/STR/LDI/STI address memory through a
// register computed at run time, which this IR has no way to express
// (internal/vmil's memory operand carries a single static address, per
// emulate.go's readOperand/writeOperand); those opcodes are deliberately
// left unregistered so Translator's Unkn fallback records them honestly
// instead of lifting something incorrect. The patterns below are grounded
// on spec.md §4.8's createMemDisp/createEQ/createNEQ helpers, reimplemented
// against vmil's exported Sequence.Append since those helpers themselves are
// private to internal/vmil.

import (
	"github.com/data-man/REDasm/internal/listing"
	"github.com/data-man/REDasm/internal/vmil"
)

// PSR is the conventional machine register id this package's lifters use to
// hold the LC-3 condition flags, disjoint from the general purpose register
// ids 0-7 that GPR values occupy.
const PSR uint32 = 8

// RegisterLifters wires every liftable opcode into t.
func RegisterLifters(t *vmil.Translator) {
	t.Register(uint32(ADD), liftBinary(vmil.Add))
	t.Register(uint32(AND), liftBinary(vmil.And))
	t.Register(uint32(NOT), liftNot)
	t.Register(uint32(LD), liftLoad)
	t.Register(uint32(LEA), liftLoad)
	t.Register(uint32(ST), liftStore)
	t.Register(uint32(BR), liftBR)
}

// liftBinary builds a lifter for ADD/AND: op0 <- op1 vmilOp op2, consuming
// native's own register/immediate operands unchanged.
func liftBinary(vmilOp vmil.Opcode) vmil.Lifter {
	return func(native *vmil.Instruction, out *vmil.Sequence) {
		instr := vmil.New(native.Address, out.Len(), vmilOp)
		instr.AddOperand(native.Op(0))
		instr.AddOperand(native.Op(1))
		instr.AddOperand(native.Op(2))
		out.Append(instr)
	}
}

// liftNot lifts NOT DR, SR to Xor DR, SR, 0xffff.
func liftNot(native *vmil.Instruction, out *vmil.Sequence) {
	instr := vmil.New(native.Address, out.Len(), vmil.Xor)
	instr.AddOperand(native.Op(0))
	instr.AddOperand(native.Op(1))
	instr.AddOperand(listing.Imm(0xffff))
	out.Append(instr)
}

// liftLoad lifts LD DR, target to Ldm DR, mem(target), reading the word
// stored at target, and LEA DR, target to Ldm DR, imm(target), so that DR
// receives the address itself. Decode gives both a memory operand holding
// the resolved target.
func liftLoad(native *vmil.Instruction, out *vmil.Sequence) {
	src := native.Op(1)
	if native.ID == uint32(LEA) {
		src = listing.Imm(src.Value)
	}

	instr := vmil.New(native.Address, out.Len(), vmil.Ldm)
	instr.AddOperand(native.Op(0))
	instr.AddOperand(src)
	out.Append(instr)
}

// liftStore lifts ST SR, target to Stm mem(target), SR.
func liftStore(native *vmil.Instruction, out *vmil.Sequence) {
	instr := vmil.New(native.Address, out.Len(), vmil.Stm)
	instr.AddOperand(native.Op(1))
	instr.AddOperand(native.Op(0))
	out.Append(instr)
}

// liftBR lifts BRnzp mask, target by testing the condition mask against the
// PSR register and emitting a diagnostic Jcc, following the
// createEQ/createNEQ pattern of spec.md §4.8 without the Bisz step: the test
// register is nonzero exactly when the branch would be taken.
func liftBR(native *vmil.Instruction, out *vmil.Sequence) {
	t0 := uint32(vmil.DefaultTempRegister)

	test := vmil.New(native.Address, out.Len(), vmil.And)
	test.AddOperand(vmil.Temp(t0))
	test.AddOperand(listing.Reg(listing.MachineRegisterClass, PSR))
	test.AddOperand(native.Op(0))
	out.Append(test)

	jcc := vmil.New(native.Address, out.Len(), vmil.Jcc)
	jcc.AddOperand(vmil.Temp(t0))
	jcc.AddOperand(native.Op(1))
	out.Append(jcc)
}
