package calculator

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokVar
	tokOp
	tokLParen
	tokRParen
	tokEquals
	tokIdent
)

type token struct {
	kind tokenKind
	text string
}

// lexer tokenizes the whole input up front.
type lexer struct {
	toks []token
	pos  int
	bad  error
}

func newLexer(src string) *lexer {
	l := &lexer{}
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			l.toks = append(l.toks, token{tokNumber, string(rs[i:j])})
			i = j
		case r == 'π':
			l.toks = append(l.toks, token{tokIdent, "pi"})
			i++
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			if word := strings.ToLower(string(rs[i:j])); isIdent(word) {
				l.toks = append(l.toks, token{tokIdent, word})
				i = j
				continue
			}
			if r == 'x' || r == 'X' {
				l.toks = append(l.toks, token{tokVar, "x"})
			} else if l.bad == nil {
				l.bad = fmt.Errorf("unexpected character %q", r)
			}
			i++
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			l.toks = append(l.toks, token{tokOp, string(r)})
			i++
		case r == '×':
			l.toks = append(l.toks, token{tokOp, "*"})
			i++
		case r == '(':
			l.toks = append(l.toks, token{tokLParen, "("})
			i++
		case r == ')':
			l.toks = append(l.toks, token{tokRParen, ")"})
			i++
		case r == '=':
			l.toks = append(l.toks, token{tokEquals, "="})
			i++
		default:
			if l.bad == nil {
				l.bad = fmt.Errorf("unexpected character %q", r)
			}
			i++
		}
	}
	return l
}

func (l *lexer) err() error { return l.bad }

func (l *lexer) peek() token {
	if l.pos >= len(l.toks) {
		return token{kind: tokEOF}
	}
	return l.toks[l.pos]
}

func (l *lexer) next() token {
	t := l.peek()
	if l.pos < len(l.toks) {
		l.pos++
	}
	return t
}
