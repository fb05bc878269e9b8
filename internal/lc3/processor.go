package lc3

// processor.go implements internal/listing.Processor and internal/vmil's
// Decoder capability against a plain in-memory program image, the sample
// architecture backend named by SPEC_FULL.md's domain stack section. The
// teacher's internal/vm only ever modeled a running machine with its own
// memory array wired to I/O devices; Image is the static, read-only
// counterpart a disassembler needs.

import (
	"github.com/data-man/REDasm/internal/listing"
)

// Image is a contiguous block of LC-3 words loaded at Base, the static
// counterpart of an assembled lc3asm.ObjectCode.
type Image struct {
	Base listing.Address
	Code []Word
}

// NewImage wraps an assembled ObjectCode as an Image.
func NewImage(obj ObjectCode) *Image {
	return &Image{Base: listing.Address(obj.Orig), Code: obj.Code}
}

// word returns the word stored at addr, or 0, false if addr falls outside
// the image.
func (img *Image) word(addr listing.Address) (Word, bool) {
	idx := int64(addr) - int64(img.Base)
	if idx < 0 || idx >= int64(len(img.Code)) {
		return 0, false
	}

	return img.Code[idx], true
}

// Decode decodes the instruction at addr using Decode.
func (img *Image) Decode(addr listing.Address) (*listing.Instruction, bool) {
	w, ok := img.word(addr)
	if !ok {
		return nil, false
	}

	return Decode(addr, w), true
}

// DecodeAll decodes every word in the image in address order, the bulk
// entry point a disassembler's initial sweep uses to populate a Listing.
func (img *Image) DecodeAll() []*listing.Instruction {
	out := make([]*listing.Instruction, 0, len(img.Code))

	for i, w := range img.Code {
		out = append(out, Decode(img.Base+listing.Address(i), w))
	}

	return out
}

// ReadAddress satisfies vmil.Decoder: it reads size bytes (up to 8),
// zero-extended, starting at addr, treating the image as a word-addressed
// byte stream two bytes at a time. A read that runs past the end of the
// image pads the missing bytes with zero rather than failing outright;
// only a start address entirely outside the image is reported as a miss.
func (img *Image) ReadAddress(addr listing.Address, size int) (uint64, bool) {
	if size <= 0 || size > 8 {
		return 0, false
	}

	if _, ok := img.word(addr); !ok {
		return 0, false
	}

	var val uint64

	words := (size + 1) / 2
	for i := 0; i < words; i++ {
		w, _ := img.word(addr + listing.Address(i))
		val |= uint64(w) << (16 * i)
	}

	if size < 8 {
		val &= (uint64(1) << (8 * size)) - 1
	}

	return val, true
}

// Target satisfies listing.Processor: it resolves the static branch target
// of instr, stored by Decode as the instruction's displacement operand, if
// it has one.
func (img *Image) Target(instr *listing.Instruction) (listing.Address, bool) {
	if !instr.Is(listing.TypeJump) {
		return 0, false
	}

	for _, op := range instr.Operands {
		if op.Is(listing.OperandDisplacement) {
			return listing.Address(op.Value), true
		}
	}

	return 0, false
}
