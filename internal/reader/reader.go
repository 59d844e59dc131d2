// Package reader turns surface syntax into the canonical prefix expression
// trees the evaluator consumes. Surface sugar is small: infix operators with
// fixed precedence, {} blocks for do, [] for list literals, #[] for map
// literals and ' for quote. Everything desugars to plain lists; the reader
// adds no node types of its own.
package reader

import (
	"fmt"
	"strconv"
	"strings"

	"fern/internal/object"
)

type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err means the input stopped mid-form, as
// opposed to being malformed. Interactive callers keep reading lines on an
// incomplete form.
func IsIncomplete(err error) bool {
	perr, ok := err.(*ParseError)
	if !ok {
		return false
	}
	return strings.HasPrefix(perr.Msg, "unclosed") || strings.HasPrefix(perr.Msg, "unexpected end of input") ||
		perr.Msg == "unterminated string"
}

type opInfo struct {
	prec       int
	rightAssoc bool
	unary      bool
}

// operators is the fixed table. Precedences are part of the language:
// member access binds tightest, assignment loosest and right associative,
// new grabs everything to its right.
var operators = map[string]opInfo{
	".":  {prec: 100},
	"*":  {prec: 20},
	"/":  {prec: 20},
	"%":  {prec: 20},
	"!":  {prec: 15, rightAssoc: true, unary: true},
	"+":  {prec: 10},
	"-":  {prec: 10},
	"<=": {prec: 10},
	">=": {prec: 10},
	"==": {prec: 5},
	"!=": {prec: 5},
	"<":  {prec: 5},
	">":  {prec: 5},
	"=":  {prec: 5, rightAssoc: true},
	"new": {prec: 0, rightAssoc: true, unary: true},
}

var (
	symQuote = object.InternSymbol("quote")
	symDo    = object.InternSymbol("do")
	symList  = object.InternSymbol("list")
)

// Parse reads a whole source text as a sequence of top level forms.
func Parse(src string) ([]object.Object, error) {
	tokens, err := newLexer(src).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	var forms []object.Object
	for p.peek().Kind != tokenEOF {
		form, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// ParseOne reads exactly one form, rejecting trailing input. REPL lines and
// field expressions go through here.
func ParseOne(src string) (object.Object, error) {
	forms, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, &ParseError{Line: 1, Col: 1, Msg: fmt.Sprintf("expected one expression, got %d", len(forms))}
	}
	return forms[0], nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.Kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, a ...interface{}) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, a...)}
}

// parseExpr is a Pratt loop over the operator table. The prefix phase admits
// unary operators and atoms; the infix phase folds binary operators while
// their precedence stays at or above the floor.
func (p *parser) parseExpr(minPrec int) (object.Object, error) {
	var lhs object.Object
	var err error

	tok := p.peek()
	if op, ok := operatorAt(tok); ok && op.unary {
		p.next()
		rhs, err := p.parseExpr(op.prec)
		if err != nil {
			return nil, err
		}
		lhs = &object.List{Elements: []object.Object{object.InternSymbol(tok.Lit), rhs}}
	} else {
		lhs, err = p.parseAtom()
		if err != nil {
			return nil, err
		}
	}

	for {
		tok := p.peek()
		op, ok := operatorAt(tok)
		if !ok || op.unary || op.prec < minPrec {
			return lhs, nil
		}
		p.next()

		nextPrec := op.prec + 1
		if op.rightAssoc {
			nextPrec = op.prec
		}
		rhs, err := p.parseExpr(nextPrec)
		if err != nil {
			return nil, err
		}
		lhs = &object.List{Elements: []object.Object{object.InternSymbol(tok.Lit), lhs, rhs}}
	}
}

func operatorAt(tok token) (opInfo, bool) {
	if tok.Kind != tokenSymbol {
		return opInfo{}, false
	}
	op, ok := operators[tok.Lit]
	return op, ok
}

func (p *parser) parseAtom() (object.Object, error) {
	tok := p.next()

	switch tok.Kind {
	case tokenNumber:
		val, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return nil, p.errorf(tok, "bad number %q", tok.Lit)
		}
		return &object.Number{Value: val}, nil

	case tokenString:
		return &object.String{Value: tok.Lit}, nil

	case tokenQuote:
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		return &object.List{Elements: []object.Object{symQuote, expr}}, nil

	case tokenLParen:
		elements, err := p.parseUntil(tokenRParen, tok)
		if err != nil {
			return nil, err
		}
		return &object.List{Elements: elements}, nil

	case tokenLBrace:
		body, err := p.parseUntil(tokenRBrace, tok)
		if err != nil {
			return nil, err
		}
		elements := append([]object.Object{symDo}, body...)
		return &object.List{Elements: elements}, nil

	case tokenLBracket:
		items, err := p.parseUntil(tokenRBracket, tok)
		if err != nil {
			return nil, err
		}
		elements := append([]object.Object{symList}, items...)
		return &object.List{Elements: elements}, nil

	case tokenHashBracket:
		return p.parseMapLiteral(tok)

	case tokenSymbol:
		switch tok.Lit {
		case "nil":
			return object.NIL, nil
		case "true":
			return object.TRUE, nil
		case "false":
			return object.FALSE, nil
		}
		return object.InternSymbol(tok.Lit), nil

	case tokenEOF:
		return nil, p.errorf(tok, "unexpected end of input")
	}

	return nil, p.errorf(tok, "unexpected %q", tok.Lit)
}

func (p *parser) parseUntil(end tokenKind, open token) ([]object.Object, error) {
	var out []object.Object
	for {
		tok := p.peek()
		if tok.Kind == end {
			p.next()
			return out, nil
		}
		if tok.Kind == tokenEOF {
			return nil, p.errorf(open, "unclosed %q", open.Lit)
		}
		expr, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
}

// parseMapLiteral reads #[k v k v ...]. Keys must be literal symbols,
// numbers, strings or booleans; they are stored unevaluated in source order.
func (p *parser) parseMapLiteral(open token) (object.Object, error) {
	items, err := p.parseUntil(tokenRBracket, open)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, p.errorf(open, "map literal needs key value pairs, got %d items", len(items))
	}

	m := &object.Map{}
	for i := 0; i < len(items); i += 2 {
		key, ok := items[i].(object.Hashable)
		if !ok {
			return nil, p.errorf(open, "map key must be a symbol, number, string or boolean")
		}
		m.Put(key, items[i+1])
	}
	return m, nil
}
