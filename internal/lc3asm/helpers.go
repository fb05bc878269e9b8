package lc3asm

// helpers.go implements the operand-parsing primitives shared by every
// Operation in ops.go: register names, and literal-or-symbol immediates in
// decimal, hex, octal and binary notation.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseRegister returns oper, upper-cased, if it names a general-purpose
// register (R0-R7), or "" if it does not.
func parseRegister(oper string) string {
	switch up := strings.ToUpper(oper); up {
	case "R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7":
		return up
	default:
		return ""
	}
}

// parseImmediate parses oper as a PC-relative operand: either a literal that
// fits in bits, or a symbolic label resolved later at code generation. It
// returns (offset, "", nil) for a literal and (0, label, nil) for a symbol.
func parseImmediate(oper string, bits uint8) (uint16, string, error) {
	if oper == "" {
		return 0, "", fmt.Errorf("%w: empty operand", ErrOperand)
	}

	switch oper[0] {
	case '#', 'x', 'X', 'o', 'O', 'b', 'B', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		lit, err := parseLiteral(oper, bits)
		if err != nil {
			return 0, "", err
		}

		return lit, "", nil
	default:
		return 0, strings.ToUpper(oper), nil
	}
}

// parseLiteral parses a numeric literal in decimal (N), hexadecimal (xN),
// octal (oN) or binary (bN) notation, each optionally preceded by '#', and
// checks that it fits in a value of the given bit width. A width of 16
// admits the full unsigned word range, as used by the .FILL, .BLKW and .ORIG
// directives; narrower widths accept either a signed value or an unsigned
// bit pattern of that width, and return its low bits.
func parseLiteral(oper string, bits uint8) (uint16, error) {
	s, base := strings.TrimPrefix(oper, "#"), 10

	switch {
	case strings.HasPrefix(s, "x") || strings.HasPrefix(s, "X"):
		s, base = "0x"+s[1:], 0
	case strings.HasPrefix(s, "o") || strings.HasPrefix(s, "O"):
		s, base = "0o"+s[1:], 0
	case strings.HasPrefix(s, "b") || strings.HasPrefix(s, "B"):
		s, base = s[1:], 2
	}

	val, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrLiteral, oper, err)
	}

	if bits >= 16 {
		if val < -(1 << 15) || val > math.MaxUint16 {
			return 0, &LiteralRangeError{Literal: oper, Range: bits}
		}

		return uint16(val), nil
	}

	lo, hi := int64(-1)<<(bits-1), int64(1)<<bits-1
	if val < lo || val > hi {
		return 0, &LiteralRangeError{Literal: oper, Range: bits}
	}

	return uint16(val) & (uint16(1)<<bits - 1), nil
}
