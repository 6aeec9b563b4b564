package domain

import (
	"encoding/json"
	"strconv"
)

// Unavailable is how a missing metric is rendered.
const Unavailable = "unavailable"

// Metric is an optional number. The zero value is unavailable, which is
// distinct from a present zero.
type Metric struct {
	value float64
	ok    bool
}

// Some returns a present metric.
func Some(v float64) Metric {
	return Metric{value: v, ok: true}
}

// None returns an unavailable metric.
func None() Metric {
	return Metric{}
}

// Get returns the value and whether it is present.
func (m Metric) Get() (float64, bool) {
	return m.value, m.ok
}

// Valid reports whether the metric holds a number.
func (m Metric) Valid() bool {
	return m.ok
}

// String renders the number in its shortest form, or Unavailable.
func (m Metric) String() string {
	if !m.ok {
		return Unavailable
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON encodes a number, or the Unavailable string.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return json.Marshal(Unavailable)
	}
	return json.Marshal(m.value)
}

// CompareMetrics orders metrics with unavailable below every number.
func CompareMetrics(a, b Metric) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return -1
	case !b.ok:
		return 1
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	default:
		return 0
	}
}

// Summary holds the extrema and rounded mean of a sample.
type Summary struct {
	Min   Metric `json:"min"`
	Max   Metric `json:"max"`
	Avg   Metric `json:"avg"`
	Count int    `json:"count"`
}
