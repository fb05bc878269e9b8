package listing

// instruction.go defines the in-memory representation of a decoded
// instruction and its operands. The shape mirrors the original REDasm
// Instruction/Operand structs field for field (see
// original_source/redasm/disassembler/types/listing.cpp's serialize/
// deserialize pair), not any particular native architecture.

import (
	"fmt"

	"github.com/data-man/REDasm/internal/arch"
)

// Address is re-exported from arch so callers of this package rarely need
// to import arch directly.
type Address = arch.Address

// InstructionType is a bitset of the architecture-neutral properties the
// path analyzer and traversal API need to know about an instruction. A
// decoder plugin sets these when it commits an instruction to the Listing.
type InstructionType uint32

const (
	TypeCode InstructionType = 1 << iota
	TypeJump
	TypeConditional
	TypeStop
	TypeCall
)

func (t InstructionType) Is(mask InstructionType) bool { return t&mask != 0 }

// BlockType tags the kind of basic block an instruction belongs to, a hint
// consumers can use when rendering a listing.
type BlockType uint8

const (
	BlockNone BlockType = iota
	BlockCode
	BlockData
)

// OperandType discriminates the kind of value an Operand carries.
type OperandType uint32

//go:generate go run golang.org/x/tools/cmd/stringer -type OperandType -linecomment -output operandtype_string.go

const (
	OperandRegister     OperandType = iota + 1 // register
	OperandMemory                              // memory
	OperandImmediate                           // immediate
	OperandDisplacement                        // displacement
)

// RegisterClass discriminates the namespace a register id belongs to. Every
// class but VMILRegisterClass names a machine register; VMILRegisterClass
// marks a temporary register that exists only for the lifetime of one
// native instruction's VMIL lift (spec's VMIL_REG_OPERAND sentinel).
type RegisterClass uint32

const (
	MachineRegisterClass RegisterClass = iota
	VMILRegisterClass
)

// RegisterOperand identifies a register by class and id.
type RegisterOperand struct {
	Class RegisterClass
	ID    uint32
}

// MemoryOperand describes a [base + index*scale + displacement] addressing
// expression.
type MemoryOperand struct {
	Base         uint32
	Index        uint32
	Scale        uint32
	Displacement int64
}

// Operand is one operand of an Instruction. Which fields are meaningful
// depends on Type: Reg for OperandRegister, Mem for OperandMemory and
// OperandDisplacement, Value for OperandImmediate and as the resolved
// target address for OperandMemory/OperandDisplacement.
type Operand struct {
	Index    int // Stable positional index within the instruction.
	LocIndex int // Column hint used by renderers.
	Type     OperandType

	Reg RegisterOperand
	Mem MemoryOperand

	// Value is the untyped 64-bit slot: the immediate value for
	// OperandImmediate, or the resolved target/effective address for
	// OperandMemory.
	Value uint64
}

// Is reports whether the operand has the given type.
func (o Operand) Is(t OperandType) bool { return o.Type == t }

// Instruction is a single decoded native (or VMIL) instruction.
type Instruction struct {
	Address   Address
	Size      uint32
	ID        uint32 // Numeric opcode id, architecture-defined.
	Mnemonic  string
	Signature string // Textual fingerprint used for function matching.
	Bytes     []byte // Raw bytes, optional.

	Type      InstructionType
	BlockType BlockType

	Operands []Operand
	Comments []string
}

// Is reports whether the instruction carries every flag in mask.
func (i *Instruction) Is(mask InstructionType) bool {
	return i != nil && i.Type&mask == mask
}

// Op returns the operand at idx. It panics if idx is out of range, mirroring
// the original's unchecked operands[] access: callers only index operands
// they know an instruction has.
func (i *Instruction) Op(idx int) Operand {
	return i.Operands[idx]
}

// AddOperand appends an operand, stamping its positional Index.
func (i *Instruction) AddOperand(op Operand) {
	op.Index = len(i.Operands)
	i.Operands = append(i.Operands, op)
}

// Comment appends a free-form comment.
func (i *Instruction) Comment(s string) {
	i.Comments = append(i.Comments, s)
}

func (i *Instruction) String() string {
	return fmt.Sprintf("%#016x: %s (%d operands)", uint64(i.Address), i.Mnemonic, len(i.Operands))
}

// Reg builds a register operand, convenient for lifters and fixtures.
func Reg(class RegisterClass, id uint32) Operand {
	return Operand{Type: OperandRegister, Reg: RegisterOperand{Class: class, ID: id}}
}

// Imm builds an immediate operand.
func Imm(value uint64) Operand {
	return Operand{Type: OperandImmediate, Value: value}
}

// Mem builds a memory operand addressed directly by value (no base/index).
func Mem(value uint64) Operand {
	return Operand{Type: OperandMemory, Value: value}
}

// MemBase builds a memory operand with a base register and displacement.
func MemBase(base uint32, displacement int64) Operand {
	return Operand{
		Type: OperandMemory,
		Mem:  MemoryOperand{Base: base, Displacement: displacement},
	}
}
