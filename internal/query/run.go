package query

import (
	"slices"
	"strings"
)

// QueryPrefix switches an input from plain search to the expression language.
const QueryPrefix = "+"

// Schema describes what a view lets users query.
type Schema struct {
	Properties Properties
	// Defaults names the properties plain search looks at.
	Defaults  []string
	Operators []Operator
}

// DefaultPaths expands Defaults into row paths, skipping unknown names.
func (s Schema) DefaultPaths() []string {
	var paths []string
	for _, name := range s.Defaults {
		if _, p, ok := s.Properties.Lookup(name); ok {
			paths = append(paths, p...)
		}
	}
	return paths
}

// Run applies a user's search box input. Input starting with "+" is parsed
// as an expression and a malformed one returns a *ParseError and no rows;
// anything else is a plain search. Blank input keeps every row.
func Run[R Record](rows []R, input string, schema Schema) ([]R, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return slices.Clone(rows), nil
	}

	text, isQuery := strings.CutPrefix(trimmed, QueryPrefix)
	if !isQuery {
		return Search(rows, trimmed, schema.DefaultPaths()), nil
	}

	expr, err := Parse(text, schema.Properties, schema.Operators)
	if err != nil {
		return nil, err
	}
	return FilterRows(rows, expr), nil
}
