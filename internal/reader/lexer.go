package reader

import (
	"sort"
	"strings"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenHashBracket
	tokenLBrace
	tokenRBrace
	tokenQuote
	tokenString
	tokenNumber
	tokenSymbol
)

type token struct {
	Kind tokenKind
	Lit  string
	Line int
	Col  int
}

// opNames are the operator spellings the lexer must split out of adjacent
// text, longest first so == wins over =. Word operators (new) only match on
// an identifier boundary.
var opNames []string

func init() {
	for name := range operators {
		opNames = append(opNames, name)
	}
	sort.Slice(opNames, func(i, j int) bool { return len(opNames[i]) > len(opNames[j]) })
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == tokenEOF {
			return out, nil
		}
	}
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipBlank() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ',' {
			l.advance()
			continue
		}
		if c == ';' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

func (l *lexer) next() (token, error) {
	l.skipBlank()
	if l.pos >= len(l.src) {
		return token{Kind: tokenEOF, Line: l.line, Col: l.col}, nil
	}

	line, col := l.line, l.col
	c := l.src[l.pos]

	switch c {
	case '(':
		l.advance()
		return token{Kind: tokenLParen, Lit: "(", Line: line, Col: col}, nil
	case ')':
		l.advance()
		return token{Kind: tokenRParen, Lit: ")", Line: line, Col: col}, nil
	case '[':
		l.advance()
		return token{Kind: tokenLBracket, Lit: "[", Line: line, Col: col}, nil
	case ']':
		l.advance()
		return token{Kind: tokenRBracket, Lit: "]", Line: line, Col: col}, nil
	case '{':
		l.advance()
		return token{Kind: tokenLBrace, Lit: "{", Line: line, Col: col}, nil
	case '}':
		l.advance()
		return token{Kind: tokenRBrace, Lit: "}", Line: line, Col: col}, nil
	case '\'':
		l.advance()
		return token{Kind: tokenQuote, Lit: "'", Line: line, Col: col}, nil
	case '#':
		if strings.HasPrefix(l.src[l.pos:], "#[") {
			l.advance()
			l.advance()
			return token{Kind: tokenHashBracket, Lit: "#[", Line: line, Col: col}, nil
		}
	case '"':
		return l.lexString(line, col)
	}

	if isDigit(c) {
		return l.lexNumber(line, col), nil
	}
	return l.lexSymbol(line, col)
}

func (l *lexer) lexString(line, col int) (token, error) {
	l.advance()
	var out strings.Builder
	for l.pos < len(l.src) {
		c := l.advance()
		switch c {
		case '"':
			return token{Kind: tokenString, Lit: out.String(), Line: line, Col: col}, nil
		case '\\':
			if l.pos >= len(l.src) {
				break
			}
			switch esc := l.advance(); esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte(esc)
			}
		default:
			out.WriteByte(c)
		}
	}
	return token{}, &ParseError{Line: line, Col: col, Msg: "unterminated string"}
}

func (l *lexer) lexNumber(line, col int) token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.advance()
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.advance()
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	return token{Kind: tokenNumber, Lit: l.src[start:l.pos], Line: line, Col: col}
}

// lexSymbol follows the operator-aware splitting rule: an operator spelling
// is its own token, and a name otherwise runs until whitespace, a delimiter
// or the start of a punctuation operator. This is what makes p.x lex as
// three tokens without spaces.
func (l *lexer) lexSymbol(line, col int) (token, error) {
	rest := l.src[l.pos:]

	if op, ok := matchOperator(rest); ok {
		for range op {
			l.advance()
		}
		return token{Kind: tokenSymbol, Lit: op, Line: line, Col: col}, nil
	}

	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ',' || c == ';' ||
			strings.IndexByte("()[]{}\"'", c) >= 0 {
			break
		}
		if _, ok := matchPunctOperator(l.src[l.pos:]); ok {
			break
		}
		l.advance()
	}
	if l.pos == start {
		return token{}, &ParseError{Line: line, Col: col, Msg: "unexpected character " + string(l.src[start])}
	}
	return token{Kind: tokenSymbol, Lit: l.src[start:l.pos], Line: line, Col: col}, nil
}

// matchOperator reports an operator spelling at the start of s. Word
// operators require a non-identifier character after them so newest does not
// lex as new est.
func matchOperator(s string) (string, bool) {
	for _, op := range opNames {
		if !strings.HasPrefix(s, op) {
			continue
		}
		if isIdentByte(op[0]) && len(s) > len(op) && isIdentByte(s[len(op)]) {
			continue
		}
		return op, true
	}
	return "", false
}

func matchPunctOperator(s string) (string, bool) {
	for _, op := range opNames {
		if !isIdentByte(op[0]) && strings.HasPrefix(s, op) {
			return op, true
		}
	}
	return "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
