// Package progress aggregates raw review, meta-review and decision notes
// into per-paper and per-person progress rows.
//
// Everything here is a pure function of its inputs. A Pass is built from
// one snapshot for one render; re-rendering after a mutation builds a new
// Pass from the updated snapshot instead of patching the previous one.
//
// Inconsistent data never aborts a pass: an assignee without a matching
// review is reported as missing, a malformed score is left out of the
// statistics, and a note pointing at an unknown paper is skipped and
// recorded as an Issue.
package progress

import (
	"math"
	"strconv"
	"strings"

	"ReviewConsole/internal/domain"
)

// ParseScore reads the leading integer of a "<integer>: <label>" field.
// Empty or unparsable text is unavailable, never zero.
func ParseScore(text string) domain.Metric {
	head, _, _ := strings.Cut(text, ":")
	head = strings.TrimSpace(head)
	if head == "" {
		return domain.None()
	}
	value, err := strconv.Atoi(head)
	if err != nil {
		return domain.None()
	}
	return domain.Some(float64(value))
}

// Summarize returns the extrema and mean of values, the mean rounded to
// two decimals. An empty sample yields unavailable for all three.
func Summarize(values []float64) domain.Summary {
	if len(values) == 0 {
		return domain.Summary{Min: domain.None(), Max: domain.None(), Avg: domain.None()}
	}

	lowest, highest := values[0], values[0]
	var sum float64
	for _, v := range values {
		lowest = math.Min(lowest, v)
		highest = math.Max(highest, v)
		sum += v
	}

	return domain.Summary{
		Min:   domain.Some(lowest),
		Max:   domain.Some(highest),
		Avg:   domain.Some(round2(sum / float64(len(values)))),
		Count: len(values),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
