package query

import (
	"fmt"
	"strings"
)

// Parse compiles text into an expression over props. Operators are
// recognised by scanning ops in order, so multi-character operators must
// precede their prefixes; nil ops means DefaultOperators. Unknown property
// names are parse errors.
func Parse(text string, props Properties, ops []Operator) (Expr, error) {
	if len(ops) == 0 {
		ops = DefaultOperators
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Input: text, Pos: 0, Err: ErrEmptyExpression}
	}

	lx := &lexer{input: text, ops: ops}
	tokens, err := lx.tokens()
	if err != nil {
		return nil, err
	}

	p := &parser{input: text, props: props, tokens: tokens}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokEOF:
		return expr, nil
	case tokRParen:
		return nil, p.fail(tok, ErrUnbalancedParens)
	default:
		return nil, p.fail(tok, fmt.Errorf("%w %q, expected AND or OR", ErrUnexpectedToken, tok.text))
	}
}

type parser struct {
	input  string
	props  Properties
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) fail(tok token, err error) error {
	return &ParseError{Input: p.input, Pos: tok.pos, Err: err}
}

func (p *parser) expr() (Expr, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.peek().kind == tokOr {
		p.next()
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return Or{Terms: terms}, nil
}

func (p *parser) term() (Expr, error) {
	first, err := p.factor()
	if err != nil {
		return nil, err
	}
	factors := []Expr{first}
	for p.peek().kind == tokAnd {
		p.next()
		factor, err := p.factor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}
	if len(factors) == 1 {
		return first, nil
	}
	return And{Factors: factors}, nil
}

func (p *parser) factor() (Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokLParen:
		p.next()
		p.depth++
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, p.fail(closing, ErrUnbalancedParens)
		}
		p.depth--
		return inner, nil
	case tokAnd, tokOr:
		return nil, p.fail(tok, fmt.Errorf("%w %s", ErrDanglingOperator, tok.text))
	case tokEOF:
		if p.pos > 0 {
			if prev := p.tokens[p.pos-1]; prev.kind == tokAnd || prev.kind == tokOr {
				return nil, p.fail(prev, fmt.Errorf("%w %s", ErrDanglingOperator, prev.text))
			}
			if p.depth > 0 {
				return nil, p.fail(tok, ErrUnbalancedParens)
			}
		}
		return nil, p.fail(tok, ErrEmptyExpression)
	case tokRParen:
		return nil, p.fail(tok, ErrUnbalancedParens)
	default:
		return p.predicate()
	}
}

func (p *parser) predicate() (Expr, error) {
	name := p.next()
	if name.kind != tokWord {
		return nil, p.fail(name, fmt.Errorf("%w %q, expected a property name", ErrUnexpectedToken, name.text))
	}
	property, paths, ok := p.props.Lookup(name.text)
	if !ok {
		return nil, p.fail(name, fmt.Errorf("%w %q", ErrUnknownProperty, name.text))
	}

	op := p.next()
	if op.kind != tokOperator {
		return nil, p.fail(op, fmt.Errorf("%w after %q", ErrMissingOperator, name.text))
	}

	value := p.next()
	if value.kind != tokWord && value.kind != tokString {
		return nil, p.fail(value, fmt.Errorf("%w after %s%s", ErrMissingValue, name.text, op.text))
	}

	return Predicate{
		Property: property,
		Paths:    paths,
		Op:       Operator(op.text),
		Value:    value.text,
	}, nil
}
