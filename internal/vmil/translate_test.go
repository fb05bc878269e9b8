package vmil

import (
	"strings"
	"testing"

	"github.com/data-man/REDasm/internal/listing"
)

func TestTranslate_NoLifterRegisteredFallsBackToUnkn(t *testing.T) {
	tr := NewTranslator()

	native := &Instruction{Address: 0x100, ID: 99, Bytes: []byte{0xde, 0xad}}
	seq := tr.Translate(native)

	if len(seq) != 1 || Op(seq[0]) != Unkn {
		t.Fatalf("seq = %v, want a single Unkn instruction", seq)
	}

	if len(seq[0].Comments) == 0 || !strings.Contains(seq[0].Comments[0], "de ad") {
		t.Errorf("Unkn comment = %v, want it to mention the raw bytes", seq[0].Comments)
	}
}

func TestTranslate_LifterEmittingNothingFallsBackToUnkn(t *testing.T) {
	tr := NewTranslator()
	tr.Register(1, func(native *Instruction, out *Sequence) {})

	native := &Instruction{Address: 0x100, ID: 1, Bytes: []byte{0x90}}
	seq := tr.Translate(native)

	if len(seq) != 1 || Op(seq[0]) != Unkn {
		t.Fatalf("seq = %v, want a single Unkn instruction", seq)
	}
}

func TestCreateMemDisp(t *testing.T) {
	native := &Instruction{Address: 0x200}
	native.AddOperand(listing.MemBase(3, 8))

	seq := newSequence(native)
	t0 := createMemDisp(native, 0, seq)

	if t0 != DefaultTempRegister {
		t.Errorf("createMemDisp returned temp %d, want %d", t0, DefaultTempRegister)
	}

	if seq.Len() != 2 {
		t.Fatalf("seq.Len() = %d, want 2 (Str, Add)", seq.Len())
	}

	if Op(seq.items[0]) != Str || Op(seq.items[1]) != Add {
		t.Errorf("seq = [%s, %s], want [str, add]", Op(seq.items[0]), Op(seq.items[1]))
	}
}

func TestCreateMemDisp_NegativeDisplacementEmitsSub(t *testing.T) {
	native := &Instruction{Address: 0x200}
	native.AddOperand(listing.MemBase(3, -8))

	seq := newSequence(native)
	createMemDisp(native, 0, seq)

	if Op(seq.items[1]) != Sub {
		t.Errorf("seq[1] = %s, want sub", Op(seq.items[1]))
	}
}

func TestCreateMemDisp_ZeroDisplacementOmitsAdjustment(t *testing.T) {
	native := &Instruction{Address: 0x200}
	native.AddOperand(listing.MemBase(3, 0))

	seq := newSequence(native)
	createMemDisp(native, 0, seq)

	if seq.Len() != 1 {
		t.Fatalf("seq.Len() = %d, want 1 (Str only)", seq.Len())
	}
}

func TestCreateEQAndCreateNEQ(t *testing.T) {
	native := &Instruction{Address: 0x300}
	a := listing.Reg(listing.MachineRegisterClass, 1)
	b := listing.Reg(listing.MachineRegisterClass, 2)

	eqSeq := newSequence(native)
	eqBranch := createEQ(native, a, b, eqSeq, Jcc)

	if eqSeq.Len() != 2 {
		t.Fatalf("createEQ appended %d instructions, want 2 (Xor, Bisz)", eqSeq.Len())
	}

	if Op(eqSeq.items[0]) != Xor || Op(eqSeq.items[1]) != Bisz {
		t.Errorf("createEQ sequence = [%s, %s], want [xor, bisz]", Op(eqSeq.items[0]), Op(eqSeq.items[1]))
	}

	if Op(eqBranch) != Jcc {
		t.Errorf("createEQ branch opcode = %s, want jcc", Op(eqBranch))
	}

	neqSeq := newSequence(native)
	neqBranch := createNEQ(native, a, b, neqSeq, Jcc)

	if neqSeq.Len() != 1 {
		t.Fatalf("createNEQ appended %d instructions, want 1 (Xor only)", neqSeq.Len())
	}

	if Op(neqBranch) != Jcc {
		t.Errorf("createNEQ branch opcode = %s, want jcc", Op(neqBranch))
	}
}
