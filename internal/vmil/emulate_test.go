package vmil

import (
	"testing"

	"github.com/data-man/REDasm/internal/listing"
)

// nativeAdd is a fake native opcode id, standing in for an architecture
// plugin's "add r0, r1, r2" instruction.
const nativeAdd uint32 = 1

func addLifter(native *Instruction, out *Sequence) {
	out.emit(Add, native.Op(0), native.Op(1), native.Op(2))
}

func addInstruction(r0, r1, r2 uint32) *Instruction {
	instr := &Instruction{Address: 0x400, ID: nativeAdd, Mnemonic: "add"}
	instr.AddOperand(listing.Reg(listing.MachineRegisterClass, r0))
	instr.AddOperand(listing.Reg(listing.MachineRegisterClass, r1))
	instr.AddOperand(listing.Reg(listing.MachineRegisterClass, r2))

	return instr
}

// TestEmulate_AddLift is scenario S5.
func TestEmulate_AddLift(t *testing.T) {
	tr := NewTranslator()
	tr.Register(nativeAdd, addLifter)

	e := NewEmulator(tr)
	e.registers[1] = 3
	e.registers[2] = 4

	e.Emulate(addInstruction(0, 1, 2))

	if got := e.Register(0); got != 7 {
		t.Errorf("registers[0] = %d, want 7", got)
	}
}

type fakeDecoder struct {
	words map[listing.Address]uint64
}

func (d *fakeDecoder) ReadAddress(addr listing.Address, size int) (uint64, bool) {
	v, ok := d.words[addr]
	return v, ok
}

// TestEmulate_MemoryFallback is scenario S6.
func TestEmulate_MemoryFallback(t *testing.T) {
	const nativeLoad uint32 = 2

	tr := NewTranslator()
	tr.Register(nativeLoad, func(native *Instruction, out *Sequence) {
		out.emit(Ldm, Temp(0), listing.Mem(0x1000))
	})

	decoder := &fakeDecoder{words: map[listing.Address]uint64{0x1000: 0x11223344}}
	e := NewEmulator(tr, WithDecoder(decoder))

	native := &Instruction{Address: 0x500, ID: nativeLoad, Mnemonic: "ld"}
	e.Emulate(native)

	if got := e.tempregisters[0]; got != 0x11223344 {
		t.Errorf("tempregisters[0] = %#x, want 0x11223344", got)
	}

	if _, ok := e.Memory(0x1000); ok {
		t.Error("memory[0x1000] should remain unset: a read never writes it")
	}

	// A second read goes through the decoder again and yields the same value.
	e.Emulate(native)
	if got := e.tempregisters[0]; got != 0x11223344 {
		t.Errorf("second read: tempregisters[0] = %#x, want 0x11223344", got)
	}
}

// TestEmulate_Determinism is universal property 6.
func TestEmulate_Determinism(t *testing.T) {
	tr := NewTranslator()
	tr.Register(nativeAdd, addLifter)

	run := func() uint64 {
		e := NewEmulator(tr)
		e.registers[1] = 10
		e.registers[2] = 32
		e.Emulate(addInstruction(0, 1, 2))

		return e.Register(0)
	}

	first, second := run(), run()
	if first != second {
		t.Errorf("emulate not deterministic: %d != %d", first, second)
	}
}

// TestRegisterNamespaceDisjointness is universal property 7.
func TestRegisterNamespaceDisjointness(t *testing.T) {
	tr := NewTranslator()
	e := NewEmulator(tr)

	e.writeOperand(Temp(0), 0xaaaa)
	e.writeOperand(listing.Reg(listing.MachineRegisterClass, 0), 0xbbbb)

	if e.tempregisters[0] != 0xaaaa {
		t.Errorf("tempregisters[0] = %#x, want 0xaaaa", e.tempregisters[0])
	}

	if e.registers[0] != 0xbbbb {
		t.Errorf("registers[0] = %#x, want 0xbbbb", e.registers[0])
	}
}

// TestArithmeticWraparound is universal property 8.
func TestArithmeticWraparound(t *testing.T) {
	tr := NewTranslator()
	tr.Register(nativeAdd, addLifter)

	e := NewEmulator(tr)
	e.registers[1] = ^uint64(0)
	e.registers[2] = 1

	e.Emulate(addInstruction(0, 1, 2))

	if got := e.Register(0); got != 0 {
		t.Errorf("registers[0] = %d, want 0 (wraparound)", got)
	}
}

func TestEmulate_DivisionByZeroSkipsWrite(t *testing.T) {
	const nativeDiv uint32 = 3

	tr := NewTranslator()
	tr.Register(nativeDiv, func(native *Instruction, out *Sequence) {
		out.emit(Div, native.Op(0), native.Op(1), native.Op(2))
	})

	e := NewEmulator(tr)
	e.registers[0] = 0xff // sentinel: should remain untouched
	e.registers[1] = 10
	e.registers[2] = 0

	native := addInstruction(0, 1, 2)
	native.ID = nativeDiv
	e.Emulate(native)

	if got := e.Register(0); got != 0xff {
		t.Errorf("registers[0] = %#x, want unchanged 0xff after division by zero", got)
	}
}

func TestEmulate_UnknownVMILOpcodeSkipped(t *testing.T) {
	tr := NewTranslator()
	e := NewEmulator(tr)

	bogus := &Instruction{Address: 0x900, ID: uint32(Jcc) + 100}
	e.step(bogus)
}
