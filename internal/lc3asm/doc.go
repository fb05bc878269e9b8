// Package lc3asm implements a simple assembler for the sample LC-3 plugin.
//
// The assembler generates LC-3 machine code from LC3ASM assembly language, an unnecessary dialect
// that extends the Patt and Patel's with a few developer-friendly niceties.
//
//	LABEL   AND R3,R3,R2
//	        AND R1,R1,#-1
//	        BRp LABEL
//
//	       .ORIG x3010 ; comment
//	IDENT  .FILL xff00
//		   .END
//
//	LABEL:
//			AND R0, R0, R2
//
// See [Grammar] for a more thorough description of syntax -- semantics are left as an exercise for
// the reader.
//
// # Bugs
//
// There are ambiguities in the grammar and the code could be a whole lot simpler.
package lc3asm
