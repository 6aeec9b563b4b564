package progress

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned for an unknown mode or a non-positive threshold.
var ErrInvalidPolicy = errors.New("invalid completion policy")

// PolicyMode selects how a paper's reviews are judged complete.
type PolicyMode string

const (
	// PolicyAllAssigned requires every assigned reviewer to have submitted.
	PolicyAllAssigned PolicyMode = "all"
	// PolicyThreshold requires a fixed number of submitted reviews.
	PolicyThreshold PolicyMode = "threshold"
)

// CompletionPolicy decides whether a paper's review obligations are met.
// Venues disagree on the rule, so it is always chosen by configuration.
type CompletionPolicy struct {
	Mode      PolicyMode `yaml:"mode" env:"COMPLETION_MODE"`
	Threshold int        `yaml:"threshold" env:"COMPLETION_THRESHOLD"`
}

// AllAssigned returns the "every assignee submitted" policy.
func AllAssigned() CompletionPolicy {
	return CompletionPolicy{Mode: PolicyAllAssigned}
}

// AtLeast returns the "n or more submitted" policy.
func AtLeast(n int) CompletionPolicy {
	return CompletionPolicy{Mode: PolicyThreshold, Threshold: n}
}

// Validate rejects unknown modes and non-positive thresholds.
func (p CompletionPolicy) Validate() error {
	switch p.Mode {
	case PolicyAllAssigned:
		return nil
	case PolicyThreshold:
		if p.Threshold <= 0 {
			return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidPolicy, p.Threshold)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPolicy, p.Mode)
	}
}

// Satisfied applies the policy. Nothing is complete without assignees,
// and an unknown mode is never satisfied.
func (p CompletionPolicy) Satisfied(submitted, assigned int) bool {
	if assigned <= 0 {
		return false
	}
	switch p.Mode {
	case PolicyAllAssigned:
		return submitted == assigned
	case PolicyThreshold:
		return p.Threshold > 0 && submitted >= p.Threshold
	default:
		return false
	}
}
