package listing

// serialize.go implements the binary Instruction wire format: a fixed,
// little-endian, length-prefixed encoding grounded on
// original_source/redasm/disassembler/types/listing.cpp's serialize and
// deserialize pair. A complete on-disk Listing is a cache-library-owned
// header (opaque to this package) followed by one serialized Instruction
// per entry.

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorruptInstruction is wrapped into every deserialization failure, so
// callers can match it with errors.Is regardless of which field failed.
var ErrCorruptInstruction = errors.New("listing: corrupt instruction encoding")

// FormatError names the field that failed to decode, wrapped around
// ErrCorruptInstruction.
type FormatError struct {
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: field %s: %s", ErrCorruptInstruction, e.Field, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(err error) bool {
	return err == ErrCorruptInstruction
}

// Serialize writes instr to w in the wire format of §4.6: address, type,
// size, id, mnemonic, signature, operands, comments, all little-endian,
// strings length-prefixed by a u32.
func Serialize(w io.Writer, instr *Instruction) error {
	fields := []any{
		uint64(instr.Address),
		uint32(instr.Type),
		instr.Size,
		instr.ID,
	}

	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	if err := writeString(w, instr.Mnemonic); err != nil {
		return err
	}

	if err := writeString(w, instr.Signature); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(instr.Operands))); err != nil {
		return err
	}

	for _, op := range instr.Operands {
		if err := writeOperand(w, op); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(instr.Comments))); err != nil {
		return err
	}

	for _, c := range instr.Comments {
		if err := writeString(w, c); err != nil {
			return err
		}
	}

	return nil
}

// Deserialize reads an Instruction from r in the wire format of §4.6. A
// malformed stream surfaces as a *FormatError wrapping ErrCorruptInstruction
// and leaves r at an undefined position, per the error-handling policy:
// format mismatches are fatal for the reader.
func Deserialize(r io.Reader) (*Instruction, error) {
	instr := &Instruction{}

	var addr uint64
	if err := binary.Read(r, binary.LittleEndian, &addr); err != nil {
		return nil, &FormatError{Field: "address", Err: err}
	}
	instr.Address = Address(addr)

	var typ uint32
	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
		return nil, &FormatError{Field: "type", Err: err}
	}
	instr.Type = InstructionType(typ)

	if err := binary.Read(r, binary.LittleEndian, &instr.Size); err != nil {
		return nil, &FormatError{Field: "size", Err: err}
	}

	if err := binary.Read(r, binary.LittleEndian, &instr.ID); err != nil {
		return nil, &FormatError{Field: "id", Err: err}
	}

	mnemonic, err := readString(r)
	if err != nil {
		return nil, &FormatError{Field: "mnemonic", Err: err}
	}
	instr.Mnemonic = mnemonic

	signature, err := readString(r)
	if err != nil {
		return nil, &FormatError{Field: "signature", Err: err}
	}
	instr.Signature = signature

	var nops uint32
	if err := binary.Read(r, binary.LittleEndian, &nops); err != nil {
		return nil, &FormatError{Field: "operand count", Err: err}
	}

	if nops > 0 {
		instr.Operands = make([]Operand, 0, nops)
	}

	for i := uint32(0); i < nops; i++ {
		op, err := readOperand(r)
		if err != nil {
			return nil, &FormatError{Field: fmt.Sprintf("operand[%d]", i), Err: err}
		}

		instr.AddOperand(op)
	}

	var ncomments uint32
	if err := binary.Read(r, binary.LittleEndian, &ncomments); err != nil {
		return nil, &FormatError{Field: "comment count", Err: err}
	}

	for i := uint32(0); i < ncomments; i++ {
		c, err := readString(r)
		if err != nil {
			return nil, &FormatError{Field: fmt.Sprintf("comment[%d]", i), Err: err}
		}

		instr.Comment(c)
	}

	return instr, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}

	_, err := io.WriteString(w, s)

	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

func writeOperand(w io.Writer, op Operand) error {
	fields := []any{
		uint32(op.LocIndex),
		uint32(op.Type),
		uint32(op.Index),
		uint32(op.Reg.Class),
		op.Reg.ID,
		op.Mem.Base,
		op.Mem.Index,
		op.Mem.Scale,
		op.Mem.Displacement,
		op.Value,
	}

	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	return nil
}

func readOperand(r io.Reader) (Operand, error) {
	var (
		op                                      Operand
		locIndex, typ, index, regClass, regID   uint32
		memBase, memIndex, memScale             uint32
		memDisplacement                         int64
		value                                   uint64
	)

	for _, f := range []any{&locIndex, &typ, &index, &regClass, &regID, &memBase, &memIndex, &memScale, &memDisplacement, &value} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return op, err
		}
	}

	op.LocIndex = int(locIndex)
	op.Type = OperandType(typ)
	op.Index = int(index)
	op.Reg = RegisterOperand{Class: RegisterClass(regClass), ID: regID}
	op.Mem = MemoryOperand{Base: memBase, Index: memIndex, Scale: memScale, Displacement: memDisplacement}
	op.Value = value

	return op, nil
}
