package query

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Record is a row the engine can read. Field returns every value stored
// under path, or false when the row has nothing there.
type Record interface {
	Field(path string) ([]string, bool)
}

// Evaluate reports whether rec satisfies expr. A nil expression matches
// everything.
func Evaluate(expr Expr, rec Record) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case Or:
		for _, term := range e.Terms {
			if Evaluate(term, rec) {
				return true
			}
		}
		return false
	case And:
		for _, factor := range e.Factors {
			if !Evaluate(factor, rec) {
				return false
			}
		}
		return true
	case Predicate:
		return e.matches(rec)
	default:
		return false
	}
}

// matches is the OR over every path and every value stored there. != is
// the negation of = over the whole property: it holds when the row has a
// value for the property and none of its values equals the literal.
func (p Predicate) matches(rec Record) bool {
	if p.Op == OpNotEqual {
		eq := Predicate{Property: p.Property, Paths: p.Paths, Op: OpEqual, Value: p.Value}
		return hasAny(rec, p.Paths) && !eq.matches(rec)
	}
	for _, path := range p.Paths {
		values, ok := rec.Field(path)
		if !ok {
			continue
		}
		for _, v := range values {
			if compare(v, p.Op, p.Value) {
				return true
			}
		}
	}
	return false
}

func hasAny(rec Record, paths []string) bool {
	for _, path := range paths {
		if values, ok := rec.Field(path); ok && len(values) > 0 {
			return true
		}
	}
	return false
}

func compare(actual string, op Operator, want string) bool {
	a, aNum := number(actual)
	b, bNum := number(want)
	if aNum && bNum {
		switch op {
		case OpEqual:
			return a == b
		case OpNotEqual:
			return a != b
		case OpGreater:
			return a > b
		case OpLess:
			return a < b
		case OpGreaterEqual:
			return a >= b
		case OpLessEqual:
			return a <= b
		}
		return false
	}

	switch op {
	case OpEqual:
		return strings.Contains(fold(actual), fold(want))
	case OpNotEqual:
		return !strings.Contains(fold(actual), fold(want))
	default:
		return false
	}
}

func number(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FilterRows keeps the rows matching expr, preserving order. The input is
// not modified.
func FilterRows[R Record](rows []R, expr Expr) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if Evaluate(expr, row) {
			out = append(out, row)
		}
	}
	return out
}

// Search is the plain search mode: rows where any value under any of
// paths contains text, ignoring case. Blank text keeps every row.
func Search[R Record](rows []R, text string, paths []string) []R {
	needle := fold(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(rows)
	}

	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if containsAny(row, paths, needle) {
			out = append(out, row)
		}
	}
	return out
}

func containsAny(rec Record, paths []string, needle string) bool {
	for _, path := range paths {
		values, ok := rec.Field(path)
		if !ok {
			continue
		}
		for _, v := range values {
			if strings.Contains(fold(v), needle) {
				return true
			}
		}
	}
	return false
}
