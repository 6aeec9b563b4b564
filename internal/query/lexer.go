package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokOperator
	tokWord
	tokString
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	ops   []Operator
	pos   int
}

// tokens splits the input. Operators are matched by trying ops in the
// given order at each position; bare words stop at whitespace,
// parentheses, quotes and the start of any operator.
func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			out = append(out, token{kind: tokEOF, pos: l.pos})
			return out, nil
		}

		start := l.pos
		switch c := l.input[l.pos]; {
		case c == '(':
			l.pos++
			out = append(out, token{kind: tokLParen, text: "(", pos: start})
		case c == ')':
			l.pos++
			out = append(out, token{kind: tokRParen, text: ")", pos: start})
		case c == '"':
			text, err := l.quoted()
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokString, text: text, pos: start})
		default:
			if op, ok := l.operatorAt(l.pos); ok {
				l.pos += len(op)
				out = append(out, token{kind: tokOperator, text: string(op), pos: start})
				continue
			}
			word := l.word()
			kind := tokWord
			switch word {
			case "AND":
				kind = tokAnd
			case "OR":
				kind = tokOr
			}
			out = append(out, token{kind: kind, text: word, pos: start})
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) operatorAt(pos int) (Operator, bool) {
	for _, op := range l.ops {
		if op != "" && strings.HasPrefix(l.input[pos:], string(op)) {
			return op, true
		}
	}
	return "", false
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
			break
		}
		if _, ok := l.operatorAt(l.pos); ok {
			break
		}
		l.pos += size
	}
	return l.input[start:l.pos]
}

// quoted reads a double-quoted string; \" and \\ are the only escapes.
func (l *lexer) quoted() (string, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.input) && (l.input[l.pos+1] == '"' || l.input[l.pos+1] == '\\'):
			b.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case c == '"':
			l.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", &ParseError{Input: l.input, Pos: start, Err: ErrUnterminatedQuote}
}
