package lc3

// decode.go lifts a raw Instruction word into the architecture-neutral
// listing.Instruction shape the analytical core operates on. There is no
// teacher equivalent -- internal/vm only ever decoded an instruction to
// execute it immediately, never to produce a listing.Instruction a path
// analyzer could walk -- so this is grounded directly on spec.md §4.3's
// walk rules and the Instruction/Operand shapes of internal/listing.

import (
	"github.com/data-man/REDasm/internal/listing"
)

// regOperand builds a machine-register operand for gpr.
func regOperand(gpr GPR) listing.Operand {
	return listing.Reg(listing.MachineRegisterClass, uint32(gpr))
}

// displacement builds a resolved branch/load target operand.
func displacement(target listing.Address) listing.Operand {
	return listing.Operand{Type: listing.OperandDisplacement, Value: uint64(target)}
}

// brMnemonic names a BR encoding by its NZP mask, the way an assembly
// listing would print it. A zero mask never branches and prints as NOP.
func brMnemonic(c Condition) string {
	suffix := ""
	if c.Negative() {
		suffix += "n"
	}
	if c.Zero() {
		suffix += "z"
	}
	if c.Positive() {
		suffix += "p"
	}

	if suffix == "" {
		return "NOP"
	}

	return "BR" + suffix
}

// pcOffsetTarget resolves a PC-relative operand: the LC-3 PC is the address
// of the instruction following the one being decoded.
func pcOffsetTarget(addr listing.Address, offset Word) listing.Address {
	return listing.Address(int64(addr) + 1 + int64(int16(offset)))
}

// Decode translates the raw word at addr into a listing.Instruction, setting
// the InstructionType flags the path analyzer's walk rules (spec.md §4.3)
// need: Jump and Conditional for BR, Call for JSR/JSRR, Stop for RTI and the
// HALT trap vector.
func Decode(addr listing.Address, raw Word) *listing.Instruction {
	instr := Instruction(raw)
	opcode := instr.Opcode()

	out := &listing.Instruction{
		Address: addr,
		Size:    1,
		ID:      uint32(opcode),
		Type:    listing.TypeCode,
		Bytes:   []byte{byte(raw >> 8), byte(raw)},
	}

	switch opcode {
	case BR:
		cond := instr.Cond()
		target := pcOffsetTarget(addr, instr.Offset(OFFSET9))

		out.Mnemonic = brMnemonic(cond)
		out.AddOperand(listing.Imm(uint64(cond)))
		out.AddOperand(displacement(target))

		if cond != 0 {
			out.Type |= listing.TypeJump

			if cond != Condition(ConditionNegative|ConditionZero|ConditionPositive) {
				out.Type |= listing.TypeConditional
			}
		}

	case ADD, AND:
		dr, sr1 := instr.DR(), instr.SR1()

		out.Mnemonic = opcode.String()
		out.AddOperand(regOperand(dr))
		out.AddOperand(regOperand(sr1))

		if instr.Imm() {
			out.AddOperand(listing.Imm(uint64(instr.Literal(IMM5))))
		} else {
			out.AddOperand(regOperand(instr.SR2()))
		}

	case NOT:
		out.Mnemonic = "NOT"
		out.AddOperand(regOperand(instr.DR()))
		out.AddOperand(regOperand(instr.SR()))

	case LD, LDI, LEA:
		target := pcOffsetTarget(addr, instr.Offset(OFFSET9))

		out.Mnemonic = opcode.String()
		out.AddOperand(regOperand(instr.DR()))
		out.AddOperand(listing.Mem(uint64(target)))

	case ST, STI:
		target := pcOffsetTarget(addr, instr.Offset(OFFSET9))

		out.Mnemonic = opcode.String()
		out.AddOperand(regOperand(instr.SR()))
		out.AddOperand(listing.Mem(uint64(target)))

	case LDR, STR:
		base := instr.SR1()
		disp := int64(int16(instr.Offset(OFFSET6)))

		out.Mnemonic = opcode.String()
		out.AddOperand(regOperand(instr.DR()))
		out.AddOperand(listing.MemBase(uint32(base), disp))

	case JSR:
		out.Type |= listing.TypeCall

		if instr.Relative() {
			target := pcOffsetTarget(addr, instr.Offset(OFFSET11))
			out.Mnemonic = "JSR"
			out.AddOperand(displacement(target))
		} else {
			out.Mnemonic = "JSRR"
			out.AddOperand(regOperand(instr.SR1()))
		}

	case JMP:
		base := instr.SR1()

		if base == RETP {
			out.Mnemonic = "RET"
		} else {
			out.Mnemonic = "JMP"
		}

		out.Type |= listing.TypeJump
		out.AddOperand(regOperand(base))

	case TRAP:
		vector := instr.Vector(VECTOR8)

		out.Mnemonic = "TRAP"
		out.AddOperand(listing.Imm(uint64(vector)))

		if vector == trapHALT {
			out.Type |= listing.TypeStop
		}

	case RTI:
		out.Mnemonic = "RTI"
		out.Type |= listing.TypeStop

	default:
		out.Mnemonic = "RESV"
	}

	out.Signature = signature(out)

	return out
}

// trapHALT is the conventional LC-3 OS trap vector that halts the machine.
const trapHALT = 0x25

// signature concatenates the mnemonic with a terse operand-kind summary, so
// two instructions with the same shape but different concrete operands
// still contribute the same bytes to a function's fingerprint.
func signature(instr *listing.Instruction) string {
	sig := instr.Mnemonic

	for _, op := range instr.Operands {
		switch op.Type {
		case listing.OperandRegister:
			sig += ".r"
		case listing.OperandMemory:
			sig += ".m"
		case listing.OperandDisplacement:
			sig += ".d"
		case listing.OperandImmediate:
			sig += ".i"
		}
	}

	return sig
}
