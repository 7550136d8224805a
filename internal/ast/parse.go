package ast

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/koustreak/kyselygen/internal/errs"
)

// primitiveNames are identifiers parsed as Primitive rather than Reference.
var primitiveNames = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"bigint":    true,
	"null":      true,
	"undefined": true,
	"unknown":   true,
	"never":     true,
	"any":       true,
	"object":    true,
	"void":      true,
	"symbol":    true,
	"Date":      true,
	"Buffer":    true,
}

// ParseType parses a type expression in the form SerializeType produces:
// unions, arrays, generics, literals, parentheses and names. Raw nodes have
// no grammar and are never produced.
//
//	union   = postfix { "|" postfix }
//	postfix = primary { "[" "]" }
//	primary = "(" union ")" | string | number | "true" | "false"
//	        | name [ "<" union { "," union } ">" ]
func ParseType(text string) (Type, error) {
	p := &parser{src: text}
	if err := p.advance(); err != nil {
		return nil, err
	}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return t, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string // identifier, punctuation, number text or decoded string
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	return errs.Newf(errs.ErrKindInvalidInput, "parse type at offset %d: "+format, append([]any{p.tok.pos}, args...)...)
}

func (p *parser) advance() error {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return nil
	}

	c := p.src[p.pos]
	switch {
	case strings.IndexByte("|<>,()[]", c) >= 0:
		p.pos++
		p.tok = token{kind: tokPunct, text: string(c), pos: start}

	case c == '\'':
		s, err := p.scanString()
		if err != nil {
			return err
		}
		p.tok = token{kind: tokString, text: s, pos: start}

	case c == '-' || (c >= '0' && c <= '9'):
		p.pos++
		for p.pos < len(p.src) && strings.IndexByte("0123456789.eE+-", p.src[p.pos]) >= 0 {
			p.pos++
		}
		p.tok = token{kind: tokNumber, text: p.src[start:p.pos], pos: start}

	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}

	default:
		p.tok = token{pos: start}
		return p.errorf("unexpected character %q", c)
	}
	return nil
}

func (p *parser) scanString() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\'':
			p.pos++
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				p.pos++
				continue
			}
			switch next := p.src[p.pos+1]; next {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			p.pos += 2
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	p.tok = token{pos: start}
	return "", p.errorf("unterminated string literal")
}

func (p *parser) expect(punct string) error {
	if p.tok.kind != tokPunct || p.tok.text != punct {
		return p.errorf("expected %q, found %q", punct, p.tok.text)
	}
	return p.advance()
}

func (p *parser) isPunct(punct string) bool {
	return p.tok.kind == tokPunct && p.tok.text == punct
}

func (p *parser) parseUnion() (Type, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.isPunct("|") {
		return first, nil
	}

	types := []Type{first}
	for p.isPunct("|") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		types = append(types, next)
	}
	return Union{Types: types}, nil
}

func (p *parser) parsePostfix() (Type, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("[") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		t = Array{Element: t}
	}
	return t, nil
}

func (p *parser) parsePrimary() (Type, error) {
	tok := p.tok
	switch tok.kind {
	case tokPunct:
		if tok.text != "(" {
			return nil, p.errorf("unexpected %q", tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil

	case tokString:
		return Literal{Value: tok.text}, p.advance()

	case tokNumber:
		lit, err := parseNumber(tok.text)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.text)
		}
		return lit, p.advance()

	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch tok.text {
		case "true":
			return Literal{Value: true}, nil
		case "false":
			return Literal{Value: false}, nil
		}
		if p.isPunct("<") {
			return p.parseGenericArgs(tok.text)
		}
		if primitiveNames[tok.text] {
			return Primitive{Value: tok.text}, nil
		}
		return Reference{Name: tok.text}, nil

	default:
		return nil, p.errorf("unexpected end of input")
	}
}

func (p *parser) parseGenericArgs(name string) (Type, error) {
	if err := p.advance(); err != nil { // "<"
		return nil, err
	}
	var args []Type
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isPunct(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	return Generic{Name: name, TypeArguments: args}, nil
}

func parseNumber(text string) (Literal, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Literal{Value: i}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Literal{}, err
	}
	return Literal{Value: f}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
