package query

import (
	"cmp"
	"slices"
	"strings"
)

// SortRows returns a stably sorted copy of rows ordered by the first
// value under path. Numbers compare numerically. A missing value, or a
// non-number such as "unavailable" in a column of numbers, is the lowest
// value: first ascending, last descending.
func SortRows[R Record](rows []R, path string, desc bool) []R {
	out := slices.Clone(rows)
	if path == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b R) int {
		c := compareField(a, b, path)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func compareField(a, b Record, path string) int {
	av, aok := firstValue(a, path)
	bv, bok := firstValue(b, path)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	an, aNum := number(av)
	bn, bNum := number(bv)
	switch {
	case aNum && bNum:
		return cmp.Compare(an, bn)
	case aNum:
		return 1
	case bNum:
		return -1
	default:
		return strings.Compare(fold(av), fold(bv))
	}
}

func firstValue(rec Record, path string) (string, bool) {
	values, ok := rec.Field(path)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
