package lc3asm

// parser.go implements the assembler's first pass: scanning source lines
// into a SyntaxTable of Operations and a SymbolTable of labels, grounded on
// the regular-expression line scanner sketched (but never wired up) in the
// teacher's earlier prototype.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/data-man/REDasm/internal/lc3"
	"github.com/data-man/REDasm/internal/log"
)

// operators maps an instruction mnemonic to a constructor for its Operation.
var operators = map[string]func() Operation{
	"BR": func() Operation { return &BR{} }, "BRNZP": func() Operation { return &BR{} },
	"BRN": func() Operation { return &BR{} }, "BRZ": func() Operation { return &BR{} },
	"BRP": func() Operation { return &BR{} }, "BRNZ": func() Operation { return &BR{} },
	"BRNP": func() Operation { return &BR{} }, "BRZP": func() Operation { return &BR{} },
	"AND":  func() Operation { return &AND{} },
	"LD":   func() Operation { return &LD{} },
	"LDR":  func() Operation { return &LDR{} },
	"LEA":  func() Operation { return &LEA{} },
	"ADD":  func() Operation { return &ADD{} },
	"TRAP": func() Operation { return &TRAP{} },
	"NOT":  func() Operation { return &NOT{} },
}

// directives maps a directive name (without its leading '.') to a
// constructor for its Operation.
var directives = map[string]func() Operation{
	"FILL":    func() Operation { return &FILL{} },
	"BLKW":    func() Operation { return &BLKW{} },
	"ORIG":    func() Operation { return &ORIG{} },
	"STRINGZ": func() Operation { return &STRINGZ{} },
}

const (
	space = `[\pZ\p{Cc}]*`
	ident = `(\pL[\pL\p{Nd}\pM\p{Pc}\p{Pd}]*)`
)

var (
	commentPattern     = regexp.MustCompile(space + ";.*$")
	labelPattern       = regexp.MustCompile(`^` + space + ident + space + `:`)
	directivePattern   = regexp.MustCompile(`^` + space + `\.` + ident + space + `(.*)$`)
	instructionPattern = regexp.MustCompile(`^` + space + ident + space + `(.*)$`)
)

// Parser scans LC3ASM source into a SyntaxTable of Operations and a
// SymbolTable of labels. The caller provides one or more input streams and
// then asks the parser for the accumulated results.
//
//	p := NewParser(logger)
//	p.Parse(file1)
//	p.Parse(file2)
//
//	if err := p.Err(); err != nil {
//		// err wraps every SyntaxError encountered; inspect with errors.Is/As.
//	}
type Parser struct {
	symbols SymbolTable
	syntax  SyntaxTable
	errs    []error
	loc     lc3.Word
	log     *log.Logger
}

// NewParser creates a Parser that logs diagnostics to logger.
func NewParser(logger *log.Logger) *Parser {
	return &Parser{
		symbols: make(SymbolTable),
		log:     logger,
	}
}

// Symbols returns the symbol table constructed so far.
func (p *Parser) Symbols() SymbolTable { return p.symbols }

// Syntax returns the operations parsed so far, in source order.
func (p *Parser) Syntax() SyntaxTable { return p.syntax }

// Err returns a joined error wrapping every syntax error encountered across
// every call to Parse, or nil if there were none.
func (p *Parser) Err() error {
	return errors.Join(p.errs...)
}

// Parse scans in line by line, appending operations and symbols to the
// tables under construction. Parse takes ownership of in and closes it. It
// may be called more than once, to assemble several files into one image.
func (p *Parser) Parse(in io.ReadCloser) {
	defer func() { _ = in.Close() }()

	var filename string
	if named, ok := in.(interface{ Name() string }); ok {
		filename = named.Name()
	}

	lines := bufio.NewScanner(in)

	var pos lc3.Word

	for lines.Scan() {
		pos++
		p.parseLine(filename, pos, lines.Text())
	}

	if err := lines.Err(); err != nil {
		p.errs = append(p.errs, err)
	}
}

func (p *Parser) parseLine(filename string, pos lc3.Word, line string) {
	src := line

	if loc := commentPattern.FindStringIndex(src); loc != nil {
		src = src[:loc[0]]
	}

	if m := labelPattern.FindStringSubmatchIndex(src); m != nil {
		p.symbols.Add(src[m[2]:m[3]], p.loc)
		src = src[m[1]:]
	}

	src = strings.TrimSpace(src)
	if src == "" {
		return
	}

	// A label without a trailing ':' is recognised when an instruction or
	// directive follows it on the same line.
	if m := instructionPattern.FindStringSubmatch(src); m != nil && operators[strings.ToUpper(m[1])] == nil {
		rest := strings.TrimSpace(m[2])
		if next := instructionPattern.FindStringSubmatch(rest); strings.HasPrefix(rest, ".") ||
			next != nil && operators[strings.ToUpper(next[1])] != nil {
			p.symbols.Add(m[1], p.loc)
			src = rest
		}
	}

	var (
		oper Operation
		err  error
	)

	switch {
	case strings.HasPrefix(src, "."):
		m := directivePattern.FindStringSubmatch(src)
		if m == nil {
			p.syntaxError(filename, pos, line, fmt.Errorf("%w: %s", ErrOpcode, src))
			return
		}

		name := strings.ToUpper(m[1])
		if name == "END" {
			return
		}

		ctor, ok := directives[name]
		if !ok {
			p.syntaxError(filename, pos, line, fmt.Errorf("%w: .%s", ErrOpcode, name))
			return
		}

		oper = ctor()
		err = oper.Parse(name, p.operandsFor(name, m[2]))
	default:
		m := instructionPattern.FindStringSubmatch(src)
		if m == nil {
			return
		}

		name := strings.ToUpper(m[1])

		ctor, ok := operators[name]
		if !ok {
			p.syntaxError(filename, pos, line, fmt.Errorf("%w: %s", ErrOpcode, name))
			return
		}

		oper = ctor()
		err = oper.Parse(name, p.operandsFor(name, m[2]))
	}

	if err != nil {
		p.syntaxError(filename, pos, line, err)
		return
	}

	p.syntax.Add(&SourceInfo{Filename: filename, Pos: pos, Line: line, Operation: oper})

	if orig, ok := oper.(*ORIG); ok {
		p.loc = lc3.Word(orig.LITERAL)
	} else {
		p.loc++
	}
}

// operandsFor splits the remainder of an instruction or directive line into
// its operands. STRINGZ takes its argument whole, since a quoted string may
// itself contain commas.
func (p *Parser) operandsFor(name string, rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	if name == "STRINGZ" {
		return []string{rest}
	}

	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

func (p *Parser) syntaxError(filename string, pos lc3.Word, line string, err error) {
	p.errs = append(p.errs, &SyntaxError{File: filename, Loc: p.loc, Pos: pos, Line: line, Err: err})
}
