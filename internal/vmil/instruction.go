package vmil

import "github.com/data-man/REDasm/internal/listing"

// Instruction and Operand are the same shape as a native instruction: VMIL
// only adds a distinct operand register class (VMILRegisterClass) and a
// synthetic addressing scheme, both defined below.
type (
	Instruction = listing.Instruction
	Operand     = listing.Operand
)

// subIndexBits is the width reserved for the sub-index packed into a
// synthetic VMIL address, leaving the high bits for the native address.
const subIndexBits = 8

// InstructionAddress packs a native instruction address with a sub-index i,
// VMIL_INSTRUCTION_ADDRESS_I in the source, so that several VMIL
// instructions lifted from one native instruction each get a distinct,
// ordered synthetic address. i must fit in subIndexBits; lifters never
// emit more than a handful of VMIL instructions per native one.
func InstructionAddress(native listing.Address, i int) listing.Address {
	return (native << subIndexBits) | listing.Address(uint8(i))
}

// NativeAddress recovers the native address packed into a synthetic VMIL
// address.
func NativeAddress(addr listing.Address) listing.Address {
	return addr >> subIndexBits
}

// New builds a VMIL instruction lifted from the i'th position of native,
// with the given opcode.
func New(native listing.Address, i int, op Opcode) *Instruction {
	return &Instruction{
		Address:  InstructionAddress(native, i),
		ID:       uint32(op),
		Mnemonic: op.String(),
	}
}

// Op returns the opcode of a VMIL instruction.
func Op(instr *Instruction) Opcode {
	return Opcode(instr.ID)
}

// Temp builds an operand referencing temporary register id, disjoint from
// machine registers (the VMIL_REG_OPERAND sentinel of the source,
// generalized to a register class tag per listing.RegisterClass).
func Temp(id uint32) Operand {
	return listing.Reg(listing.VMILRegisterClass, id)
}

// DefaultTempRegister is the conventional first scratch register a lifter
// reaches for; createMemDisp, createEQ, and createNEQ all use it.
const DefaultTempRegister = 0
