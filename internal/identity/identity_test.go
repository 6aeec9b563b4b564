package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewConsole/internal/domain"
)

const venue = "Conf.org/2025/Conference"

func TestParseGroupID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		id     string
		paper  int
		suffix string
		ok     bool
	}{
		{name: "anon group", id: venue + "/Paper42/Reviewer_3", paper: 42, suffix: "Reviewer_3", ok: true},
		{name: "plural group", id: venue + "/Paper7/Reviewers", paper: 7, suffix: "Reviewers", ok: true},
		{name: "legacy anon", id: venue + "/Paper7/AnonReviewer2", paper: 7, suffix: "AnonReviewer2", ok: true},
		{name: "venue level group", id: venue + "/Reviewers", ok: false},
		{name: "nested below role group", id: venue + "/Paper7/Reviewers/Submitted", ok: false},
		{name: "not a paper", id: "~Jane_Doe1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paper, suffix, ok := ParseGroupID(tt.id)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.paper, paper)
				assert.Equal(t, tt.suffix, suffix)
			}
		})
	}
}

func TestSchemeClassify(t *testing.T) {
	t.Parallel()

	kind, anonID := ReviewerScheme.Classify("Reviewer_abc1")
	assert.Equal(t, GroupAnon, kind)
	assert.Equal(t, "abc1", anonID)

	kind, _ = ReviewerScheme.Classify("Reviewers")
	assert.Equal(t, GroupPlural, kind)

	kind, _ = ReviewerScheme.Classify("Reviewer_")
	assert.Equal(t, GroupOther, kind)

	kind, anonID = LegacyReviewerScheme.Classify("AnonReviewer12")
	assert.Equal(t, GroupAnon, kind)
	assert.Equal(t, "12", anonID)

	// the current scheme must not pick up legacy groups and vice versa
	kind, _ = ReviewerScheme.Classify("AnonReviewer12")
	assert.Equal(t, GroupOther, kind)
	kind, _ = LegacyReviewerScheme.Classify("Reviewer_1")
	assert.Equal(t, GroupOther, kind)

	kind, _ = AreaChairScheme.Classify("Senior_Area_Chair_1")
	assert.Equal(t, GroupOther, kind)
}

func TestBuildRoleMap(t *testing.T) {
	t.Parallel()

	groups := []domain.Group{
		{ID: venue + "/Paper1/Reviewers", Members: []string{"~Ann1", "~Bob1"}},
		{ID: venue + "/Paper1/Reviewer_1", Members: []string{"~Ann1"}},
		{ID: venue + "/Paper1/Reviewer_2", Members: []string{"~Bob1"}},
		// removed from the paper but the anon group remains
		{ID: venue + "/Paper1/Reviewer_3", Members: []string{"~Cat1"}},
		// no members: skipped
		{ID: venue + "/Paper1/Reviewer_4", Members: nil},
		// paper without a plural group: every anon group counts
		{ID: venue + "/Paper2/Reviewer_1", Members: []string{"~Cat1"}},
		// paper not requested
		{ID: venue + "/Paper99/Reviewers", Members: []string{"~Ann1"}},
		{ID: venue + "/Paper99/Reviewer_1", Members: []string{"~Ann1"}},
		// other role on the same paper
		{ID: venue + "/Paper1/Area_Chair_1", Members: []string{"~Dan1"}},
	}

	roleMap := BuildRoleMap(groups, []int{1, 2, 3}, ReviewerScheme)

	require.Equal(t, RoleMap{
		1: {"1": "~Ann1", "2": "~Bob1"},
		2: {"1": "~Cat1"},
	}, roleMap)
	assert.Equal(t, []int{1, 2}, roleMap.Papers())

	alias, ok := roleMap.Alias(1, "2")
	assert.True(t, ok)
	assert.Equal(t, "~Bob1", alias)
}

func TestBuildRoleMapWithDropped(t *testing.T) {
	t.Parallel()

	groups := []domain.Group{
		{ID: venue + "/Paper1/Reviewers", Members: []string{"~Ann1"}},
		{ID: venue + "/Paper1/Reviewer_1", Members: []string{"~Ann1"}},
		{ID: venue + "/Paper1/Reviewer_2", Members: []string{"~Eve1"}},
		{ID: venue + "/Paper2/Reviewer_1", Members: []string{"~Eve1"}},
	}

	roleMap, dropped := BuildRoleMapWithDropped(groups, []int{1, 2}, ReviewerScheme)
	assert.Equal(t, RoleMap{1: {"1": "~Ann1"}, 2: {"1": "~Eve1"}}, roleMap)
	assert.Equal(t, []DroppedSeat{{Paper: 1, GroupID: venue + "/Paper1/Reviewer_2", Member: "~Eve1"}}, dropped)
	assert.Equal(t, roleMap, BuildRoleMap(groups, []int{1, 2}, ReviewerScheme))
}

func TestBuildRoleMapLegacyAndCurrentPrefixes(t *testing.T) {
	t.Parallel()

	groups := []domain.Group{
		{ID: venue + "/Paper5/AnonReviewer1", Members: []string{"~Old1"}},
		{ID: venue + "/Paper5/AnonReviewer10", Members: []string{"~Old2"}},
		{ID: venue + "/Paper5/Reviewer_1", Members: []string{"~New1"}},
	}

	legacy := BuildRoleMap(groups, []int{5}, LegacyReviewerScheme)
	current := BuildRoleMap(groups, []int{5}, ReviewerScheme)

	assert.Equal(t, RoleMap{5: {"1": "~Old1", "10": "~Old2"}}, legacy)
	assert.Equal(t, RoleMap{5: {"1": "~New1"}}, current)
	assert.Equal(t, []string{"1", "10"}, legacy.AnonIDs(5))
}

func TestBuildRoleMapEmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildRoleMap(nil, nil, ReviewerScheme))
	assert.Empty(t, BuildRoleMap([]domain.Group{{ID: venue + "/Paper1/Reviewer_1", Members: []string{"~A1"}}}, nil, ReviewerScheme))
}

func TestReverseByParticipantRoundTrip(t *testing.T) {
	t.Parallel()

	roleMap := RoleMap{
		1: {"1": "~Ann1", "2": "~Bob1"},
		2: {"1": "~Ann1"},
		3: {"4": "bob@x.edu"},
	}

	reverse := ReverseByParticipant(roleMap)
	assert.Equal(t, map[string][]int{
		"~Ann1":     {1, 2},
		"~Bob1":     {1},
		"bob@x.edu": {3},
	}, reverse)

	for paper, seats := range roleMap {
		for _, alias := range seats {
			assert.Contains(t, reverse[alias], paper)
		}
	}
}

func johnProfile() domain.Profile {
	return domain.Profile{
		ID: "~John_Doe1",
		Names: []domain.ProfileName{
			{Fullname: "John Doe", Username: "~John_Doe1", Preferred: true},
			{Fullname: "Johnny Doe", Username: "~Johnny_Doe1"},
		},
		Emails:          []string{"john@x.edu", "jd@old.org"},
		ConfirmedEmails: []string{"john@x.edu"},
	}
}

func TestResolveCanonical(t *testing.T) {
	t.Parallel()

	index := NewProfileIndex([]domain.Profile{johnProfile()})

	for _, alias := range []string{"~John_Doe1", "~Johnny_Doe1", "john@x.edu", "John@X.edu"} {
		participant := ResolveCanonical(alias, index)
		assert.Equal(t, "~John_Doe1", participant.ID, alias)
		assert.Equal(t, "John Doe", participant.Name)
		assert.Equal(t, "john@x.edu", participant.Email)
		assert.False(t, participant.Stub)
		assert.Equal(t, []string{"~John_Doe1", "~Johnny_Doe1", "john@x.edu"}, participant.Aliases)
	}

	// unconfirmed emails are not lookup keys
	stub := ResolveCanonical("jd@old.org", index)
	assert.True(t, stub.Stub)
}

func TestResolveCanonicalStub(t *testing.T) {
	t.Parallel()

	participant := ResolveCanonical("invitee@y.org", nil)
	assert.Equal(t, domain.Participant{
		ID:      "invitee@y.org",
		Name:    "invitee@y.org",
		Email:   "invitee@y.org",
		Aliases: []string{"invitee@y.org"},
		Stub:    true,
	}, participant)
}

func TestNewProfileIndexFirstClaimWins(t *testing.T) {
	t.Parallel()

	index := NewProfileIndex([]domain.Profile{
		{ID: "~First1", ConfirmedEmails: []string{"shared@x.edu"}},
		{ID: "~Second1", ConfirmedEmails: []string{"shared@x.edu"}},
	})

	profile, ok := index.Lookup("shared@x.edu")
	require.True(t, ok)
	assert.Equal(t, "~First1", profile.ID)
}

func TestDirectoryResolvesEveryAliasToSameSeat(t *testing.T) {
	t.Parallel()

	groups := []domain.Group{
		{ID: venue + "/Paper9/Reviewers", Members: []string{"john@x.edu", "~Ann1"}},
		{ID: venue + "/Paper9/Reviewer_2", Members: []string{"john@x.edu"}},
		{ID: venue + "/Paper9/Reviewer_1", Members: []string{"~Ann1"}},
		{ID: venue + "/Paper4/Area_Chairs", Members: []string{"~John_Doe1"}},
		{ID: venue + "/Paper4/Area_Chair_1", Members: []string{"~John_Doe1"}},
	}
	papers := []int{4, 9}
	roles := map[domain.Role]RoleMap{
		domain.RoleReviewer:  BuildRoleMap(groups, papers, ReviewerScheme),
		domain.RoleAreaChair: BuildRoleMap(groups, papers, AreaChairScheme),
	}

	dir := NewDirectory(NewProfileIndex([]domain.Profile{johnProfile()}), roles)

	byID := dir.Resolve("~John_Doe1")
	byEmail := dir.Resolve("john@x.edu")
	assert.Equal(t, byID, byEmail)
	assert.True(t, dir.Same("~John_Doe1", "JOHN@x.edu"))

	want := []domain.Assignment{{Paper: 9, Role: domain.RoleReviewer, AnonID: "2", Alias: "john@x.edu"}}
	assert.Equal(t, want, dir.AssignmentsIn("~John_Doe1", domain.RoleReviewer))
	assert.Equal(t, want, dir.AssignmentsIn("john@x.edu", domain.RoleReviewer))
	assert.Len(t, dir.Assignments("john@x.edu"), 2)

	reviewers := dir.Members(domain.RoleReviewer)
	require.Len(t, reviewers, 2)
	assert.Equal(t, "~Ann1", reviewers[0].ID)
	assert.True(t, reviewers[0].Stub)
	assert.Equal(t, "~John_Doe1", reviewers[1].ID)

	assert.Equal(t, []string{"~Ann1"}, dir.Misses())
}

func TestParseSignature(t *testing.T) {
	t.Parallel()

	sig, ok := ParseSignature(venue+"/Paper7/Reviewer_3", ReviewerScheme, AreaChairScheme)
	require.True(t, ok)
	assert.Equal(t, Signature{Paper: 7, Role: domain.RoleReviewer, AnonID: "3"}, sig)

	sig, ok = ParseSignature(venue+"/Paper7/Area_Chair_1", ReviewerScheme, AreaChairScheme)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAreaChair, sig.Role)

	_, ok = ParseSignature("~Jane_Doe1", ReviewerScheme)
	assert.False(t, ok)

	_, ok = ParseSignature(venue+"/Paper7/Authors", ReviewerScheme)
	assert.False(t, ok)
}
