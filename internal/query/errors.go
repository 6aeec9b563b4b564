package query

import (
	"errors"
	"fmt"
)

// Parse failures. Every error returned by Parse is a *ParseError wrapping
// one of these.
var (
	ErrEmptyExpression   = errors.New("empty expression")
	ErrUnknownProperty   = errors.New("unknown property")
	ErrUnbalancedParens  = errors.New("unbalanced parentheses")
	ErrDanglingOperator  = errors.New("dangling boolean operator")
	ErrUnterminatedQuote = errors.New("unterminated quoted string")
	ErrMissingOperator   = errors.New("missing comparison operator")
	ErrMissingValue      = errors.New("missing value")
	ErrUnexpectedToken   = errors.New("unexpected token")
)

// ParseError reports where in the input parsing stopped.
type ParseError struct {
	Input string
	// Pos is a byte offset into Input.
	Pos int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse query %q at offset %d: %v", e.Input, e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
