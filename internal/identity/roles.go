// Package identity resolves pseudonymous per-paper committee ids back to
// real participants and indexes every paper a participant is assigned to.
//
// Group ids follow the venue convention ".../Paper<N>/<Suffix>" where the
// suffix is either the plural role group ("Reviewers") listing everyone
// assigned to the paper, or an anonymous group ("Reviewer_3",
// "AnonReviewer3") holding exactly one member. Prefixes are configured per
// Scheme; nothing here assumes a particular numbering convention.
package identity

import (
	"regexp"
	"strconv"
	"strings"

	"ReviewConsole/internal/domain"
)

// Scheme describes how one committee role is named in group ids.
type Scheme struct {
	Role       domain.Role
	GroupName  string
	AnonPrefix string
}

var (
	// ReviewerScheme names reviewer seats "Reviewer_<N>".
	ReviewerScheme = Scheme{Role: domain.RoleReviewer, GroupName: "Reviewers", AnonPrefix: "Reviewer_"}
	// LegacyReviewerScheme names reviewer seats "AnonReviewer<N>".
	LegacyReviewerScheme = Scheme{Role: domain.RoleReviewer, GroupName: "Reviewers", AnonPrefix: "AnonReviewer"}
	// AreaChairScheme names area chair seats "Area_Chair_<N>".
	AreaChairScheme = Scheme{Role: domain.RoleAreaChair, GroupName: "Area_Chairs", AnonPrefix: "Area_Chair_"}
	// SeniorAreaChairScheme names senior area chair seats "Senior_Area_Chair_<N>".
	SeniorAreaChairScheme = Scheme{Role: domain.RoleSeniorAreaChair, GroupName: "Senior_Area_Chairs", AnonPrefix: "Senior_Area_Chair_"}
)

// GroupKind classifies a paper-scoped group suffix against a Scheme.
type GroupKind int

const (
	// GroupOther is any group outside the scheme.
	GroupOther GroupKind = iota
	// GroupPlural lists everyone holding the role on the paper.
	GroupPlural
	// GroupAnon is a single anonymous seat.
	GroupAnon
)

var paperGroupExpr = regexp.MustCompile(`(?:^|/)Paper(\d+)/([^/]+)$`)

// ParseGroupID extracts the paper number and trailing suffix from a
// paper-scoped group id such as "Venue/2025/Paper42/Reviewer_3".
func ParseGroupID(id string) (int, string, bool) {
	match := paperGroupExpr.FindStringSubmatch(strings.TrimSpace(id))
	if match == nil {
		return 0, "", false
	}
	paper, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, "", false
	}
	return paper, match[2], true
}

// Classify reports whether suffix names this role's plural group, one of
// its anonymous groups (returning the anon id), or neither.
func (s Scheme) Classify(suffix string) (GroupKind, string) {
	if s.GroupName != "" && suffix == s.GroupName {
		return GroupPlural, ""
	}
	if s.AnonPrefix != "" && len(suffix) > len(s.AnonPrefix) && strings.HasPrefix(suffix, s.AnonPrefix) {
		return GroupAnon, strings.TrimPrefix(suffix, s.AnonPrefix)
	}
	return GroupOther, ""
}

// Signature is a note signature that names an anonymous paper group.
type Signature struct {
	Paper  int
	Role   domain.Role
	AnonID string
}

// ParseSignature matches sig against the anonymous groups of the given
// schemes. Canonical ids ("~Jane_Doe1") and unrelated groups do not match.
func ParseSignature(sig string, schemes ...Scheme) (Signature, bool) {
	paper, suffix, ok := ParseGroupID(sig)
	if !ok {
		return Signature{}, false
	}
	for _, scheme := range schemes {
		if kind, anonID := scheme.Classify(suffix); kind == GroupAnon {
			return Signature{Paper: paper, Role: scheme.Role, AnonID: anonID}, true
		}
	}
	return Signature{}, false
}
