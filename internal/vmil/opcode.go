// Package vmil implements the VMIL model, translator, and emulator: a
// small, architecture-neutral register+memory intermediate representation
// that native instructions are lifted to, and a deterministic interpreter
// that executes it. Grounded on
// original_source/redasm/vmil/vmil_emulator.cpp.
package vmil

// Opcode is a VMIL instruction's operation, one of a fixed set.
type Opcode uint32

//go:generate go run golang.org/x/tools/cmd/stringer -type Opcode -linecomment -output opcode_string.go

const (
	Nop   Opcode = iota // nop
	Undef               // undef
	Unkn                // unkn
	Add                 // add
	Sub                 // sub
	Mul                 // mul
	Div                 // div
	Mod                 // mod
	Lsh                 // lsh
	Rsh                 // rsh
	And                 // and
	Or                  // or
	Xor                 // xor
	Str                 // str
	Ldm                 // ldm
	Stm                 // stm
	Bisz                // bisz
	Jcc                 // jcc
)

// Kind classifies an Opcode by the category of effect it has, following the
// "each opcode has ... a type" wording of the VMIL model.
type Kind uint8

const (
	KindNone Kind = iota
	KindDataMovement
	KindArithmetic
	KindControlFlow
)

// Kind reports the category of effect op has.
func (op Opcode) Kind() Kind {
	switch op {
	case Str, Ldm, Stm:
		return KindDataMovement
	case Add, Sub, Mul, Div, Mod, Lsh, Rsh, And, Or, Xor, Bisz:
		return KindArithmetic
	case Jcc:
		return KindControlFlow
	default:
		return KindNone
	}
}
