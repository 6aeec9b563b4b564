// Package query implements the console's row filter language:
//
//	expr      := term (OR term)*
//	term      := factor (AND factor)*
//	factor    := '(' expr ')' | predicate
//	predicate := property operator value
//	value     := quoted string | bare token
//
// AND binds tighter than OR. Parse produces a typed tree which Evaluate
// walks against any Record; the two never share state.
//
// Comparison policy: >, <, >= and <= hold only when both operands parse as
// finite numbers and are false otherwise. = and != compare numerically
// when both operands are numbers and otherwise test case-insensitive
// substring containment. On a property with several paths or values the
// other operators hold if any value does, while != holds only if no value
// equals the literal. A property the row does not have makes the
// predicate false for every operator, != included.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Properties maps each queryable property name to the row paths it covers.
// A property with several paths matches when any of them does.
type Properties map[string][]string

// Names returns the property names in sorted order.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup finds a property by exact name, then case-insensitively.
func (p Properties) Lookup(name string) (string, []string, bool) {
	if paths, ok := p[name]; ok {
		return name, paths, true
	}
	folded := fold(name)
	for _, candidate := range p.Names() {
		if fold(candidate) == folded {
			return candidate, p[candidate], true
		}
	}
	return "", nil, false
}

// Operator is a comparison operator as written in a query.
type Operator string

const (
	OpNotEqual     Operator = "!="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpEqual        Operator = "="
)

// DefaultOperators is the scan order used when the caller supplies none.
// Two-character operators come first so "!=" is never read as "=".
var DefaultOperators = []Operator{OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpEqual}

// Expr is a node of a parsed query.
type Expr interface {
	String() string
	isExpr()
}

// Or holds when any of its terms holds.
type Or struct {
	Terms []Expr
}

// And holds when all of its factors hold.
type And struct {
	Factors []Expr
}

// Predicate compares a property against a literal value.
type Predicate struct {
	Property string
	Paths    []string
	Op       Operator
	Value    string
}

func (Or) isExpr()        {}
func (And) isExpr()       {}
func (Predicate) isExpr() {}

func (e Or) String() string {
	return "(" + join(e.Terms, " OR ") + ")"
}

func (e And) String() string {
	return "(" + join(e.Factors, " AND ") + ")"
}

func (p Predicate) String() string {
	return p.Property + string(p.Op) + quote(p.Value)
}

func join(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// fold builds a fresh Caser per call; Casers carry state and must not be
// shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}
