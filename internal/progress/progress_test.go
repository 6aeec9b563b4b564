package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewConsole/internal/domain"
)

const venue = "Conf.org/2025/Conference"

func submission(number int, title string) domain.Note {
	return domain.Note{
		ID:      "forum" + title,
		Number:  number,
		Content: map[string]any{"title": map[string]any{"value": title}},
	}
}

func review(id, forum, signer, rating, confidence string) domain.Note {
	return domain.Note{
		ID:         id,
		Forum:      forum,
		Signatures: []string{signer},
		Content: map[string]any{
			"rating":     map[string]any{"value": rating},
			"confidence": map[string]any{"value": confidence},
			"review":     map[string]any{"value": "Solid work."},
		},
	}
}

// Paper 7 with three reviewers, two of whom submitted.
func paperSevenSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Submissions: []domain.Note{submission(7, "Seven")},
		Groups: []domain.Group{
			{ID: venue + "/Paper7/Reviewers", Members: []string{"~Ann1", "~Bob1", "~Cat1"}},
			{ID: venue + "/Paper7/Reviewer_1", Members: []string{"~Ann1"}},
			{ID: venue + "/Paper7/Reviewer_2", Members: []string{"~Bob1"}},
			{ID: venue + "/Paper7/Reviewer_3", Members: []string{"~Cat1"}},
			{ID: venue + "/Paper7/Area_Chairs", Members: []string{"~Dan1"}},
			{ID: venue + "/Paper7/Area_Chair_1", Members: []string{"~Dan1"}},
		},
		Reviews: []domain.Note{
			review("r1", "forumSeven", venue+"/Paper7/Reviewer_1", "4: good", "3: fairly confident"),
			review("r3", "forumSeven", venue+"/Paper7/Reviewer_3", "5: excellent", "2: willing to defend"),
		},
		Profiles: []domain.Profile{
			{ID: "~Ann1", Names: []domain.ProfileName{{Fullname: "Ann A", Username: "~Ann1", Preferred: true}}},
			{ID: "~Bob1", Names: []domain.ProfileName{{Fullname: "Bob B", Username: "~Bob1"}}},
			{ID: "~Cat1", Names: []domain.ProfileName{{Fullname: "Cat C", Username: "~Cat1"}}},
			{ID: "~Dan1", Names: []domain.ProfileName{{Fullname: "Dan D", Username: "~Dan1"}}},
		},
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want domain.Metric
	}{
		{name: "labelled", text: "8: accept, good paper", want: domain.Some(8)},
		{name: "padded", text: "  3 : low", want: domain.Some(3)},
		{name: "bare number", text: "5", want: domain.Some(5)},
		{name: "negative", text: "-1: strong reject", want: domain.Some(-1)},
		{name: "empty", text: "", want: domain.None()},
		{name: "words", text: "excellent", want: domain.None()},
		{name: "fraction", text: "4.5: between", want: domain.None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.text))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize([]float64{4, 5})
	assert.Equal(t, domain.Some(4), s.Min)
	assert.Equal(t, domain.Some(5), s.Max)
	assert.Equal(t, domain.Some(4.5), s.Avg)
	assert.Equal(t, 2, s.Count)

	s = Summarize([]float64{1, 2, 2})
	assert.Equal(t, domain.Some(1.67), s.Avg)

	empty := Summarize(nil)
	assert.False(t, empty.Min.Valid())
	assert.False(t, empty.Max.Valid())
	assert.False(t, empty.Avg.Valid())
	assert.Equal(t, domain.Unavailable, empty.Avg.String())
}

func TestCompletionPolicy(t *testing.T) {
	t.Parallel()

	assert.True(t, AllAssigned().Satisfied(3, 3))
	assert.False(t, AllAssigned().Satisfied(2, 3))
	assert.False(t, AllAssigned().Satisfied(0, 0))
	assert.True(t, AtLeast(2).Satisfied(2, 3))
	assert.False(t, AtLeast(2).Satisfied(1, 3))
	assert.False(t, CompletionPolicy{Mode: "sometimes"}.Satisfied(3, 3))

	require.NoError(t, AllAssigned().Validate())
	require.NoError(t, AtLeast(1).Validate())
	assert.ErrorIs(t, AtLeast(0).Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, CompletionPolicy{Mode: "sometimes"}.Validate(), ErrInvalidPolicy)
}

func TestPassPaperRow(t *testing.T) {
	t.Parallel()

	pass := NewPass(paperSevenSnapshot(), DefaultOptions())

	row, ok := pass.PaperRow(7)
	require.True(t, ok)
	assert.Equal(t, "Seven", row.Title)
	assert.Equal(t, 3, row.NumReviewers)
	assert.Equal(t, 2, row.NumSubmittedReviews)
	assert.Equal(t, 1, row.Missing)
	assert.Equal(t, domain.Some(4.5), row.Rating.Avg)
	assert.Equal(t, domain.Some(4), row.Rating.Min)
	assert.Equal(t, domain.Some(5), row.Rating.Max)
	assert.Equal(t, domain.Some(2.5), row.Confidence.Avg)
	assert.Equal(t, domain.Some(2), row.Confidence.Min)
	assert.Equal(t, domain.Some(3), row.Confidence.Max)
	assert.False(t, row.Complete)

	assert.Equal(t, []string{"1", "2", "3"}, row.ReviewerIDs())
	assert.True(t, row.Reviewers["1"].Submitted)
	assert.Equal(t, "Ann A", row.Reviewers["1"].Participant.Name)
	assert.False(t, row.Reviewers["2"].Submitted)
	assert.False(t, row.Reviewers["2"].Rating.Valid())
	assert.Equal(t, len("Solid work."), row.Reviewers["3"].ContentLength)

	assert.Equal(t, 0, row.NumMetaReviews)
	assert.Equal(t, []string{"1"}, row.AreaChairIDs())

	_, ok = pass.PaperRow(8)
	assert.False(t, ok)
}

func TestPassThresholdPolicy(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Policy = AtLeast(2)
	row, ok := NewPass(paperSevenSnapshot(), opts).PaperRow(7)
	require.True(t, ok)
	assert.True(t, row.Complete)
}

func TestPassIsIdempotent(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	first := NewPass(snapshot, DefaultOptions())
	second := NewPass(snapshot, DefaultOptions())

	assert.Equal(t, first.PaperRows(), second.PaperRows())
	assert.Equal(t, first.ReviewerRows(), second.ReviewerRows())
	assert.Equal(t, first.Issues(), second.Issues())
}

func TestPassReviewerRows(t *testing.T) {
	t.Parallel()

	rows := NewPass(paperSevenSnapshot(), DefaultOptions()).ReviewerRows()
	require.Len(t, rows, 3)

	byID := make(map[string]domain.PersonRow, len(rows))
	for _, row := range rows {
		byID[row.Participant.ID] = row
	}
	assert.True(t, byID["~Ann1"].Complete)
	assert.False(t, byID["~Bob1"].Complete)
	assert.Equal(t, 1, byID["~Bob1"].NumPapers)
	assert.Equal(t, 0, byID["~Bob1"].NumCompleted)
	assert.True(t, byID["~Cat1"].Complete)
}

func TestPassMatchesCanonicalSigner(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	snapshot.Groups[0].Members = []string{"ann@x.edu", "~Bob1", "~Cat1"}
	snapshot.Groups[1].Members = []string{"ann@x.edu"}
	snapshot.Profiles[0].ConfirmedEmails = []string{"ann@x.edu"}
	snapshot.Reviews[0].Signatures = []string{"~Ann1"}

	row, ok := NewPass(snapshot, DefaultOptions()).PaperRow(7)
	require.True(t, ok)
	assert.True(t, row.Reviewers["1"].Submitted)
	assert.Equal(t, "~Ann1", row.Reviewers["1"].Participant.ID)
	assert.Equal(t, 2, row.NumSubmittedReviews)
}

func TestPassReportsInconsistencies(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	stale := review("r99", "gone", venue+"/Paper99/Reviewer_1", "3: ok", "3: ok")
	malformed := review("r2", "forumSeven", venue+"/Paper7/Reviewer_2", "excellent", "4: sure")
	snapshot.Reviews = append(snapshot.Reviews, stale, malformed)
	snapshot.Groups = append(snapshot.Groups, domain.Group{ID: venue + "/Paper7/Reviewer_4", Members: []string{"~Eve1"}})

	pass := NewPass(snapshot, DefaultOptions())

	row, ok := pass.PaperRow(7)
	require.True(t, ok)
	assert.True(t, row.Reviewers["2"].Submitted)
	assert.False(t, row.Reviewers["2"].Rating.Valid())
	assert.Equal(t, 3, row.NumSubmittedReviews)
	assert.Equal(t, domain.Some(4.5), row.Rating.Avg)
	assert.Equal(t, domain.Some(3), row.Confidence.Avg)
	assert.Equal(t, 3, row.NumReviewers, "seat outside the plural group is dropped")

	var subjects []string
	for _, issue := range pass.Issues() {
		assert.Equal(t, IssueDataInconsistency, issue.Kind)
		subjects = append(subjects, issue.Subject)
	}
	assert.ElementsMatch(t, []string{"r2", "r99", venue + "/Paper7/Reviewer_4"}, subjects)
	assert.Contains(t, pass.Issues(), Issue{
		Kind:    IssueDataInconsistency,
		Paper:   7,
		Subject: venue + "/Paper7/Reviewer_4",
		Detail:  "seat holder not in plural group",
	})
	assert.Equal(t, 3, pass.Totals().Issues)
}

func TestPassLookupMisses(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	snapshot.Profiles = snapshot.Profiles[:3]

	pass := NewPass(snapshot, DefaultOptions())
	issues := pass.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueLookupMiss, issues[0].Kind)
	assert.Equal(t, "~Dan1", issues[0].Subject)

	row, _ := pass.PaperRow(7)
	assert.True(t, row.AreaChairs["1"].Participant.Stub)
	assert.Equal(t, "~Dan1", row.AreaChairs["1"].Participant.Name)
}

func TestPassSkipsBadSubmissions(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	snapshot.Submissions = append(snapshot.Submissions, submission(0, "Unnumbered"), submission(7, "Again"))

	pass := NewPass(snapshot, DefaultOptions())
	require.Len(t, pass.PaperRows(), 1)
	assert.Equal(t, "Seven", pass.PaperRows()[0].Title)
	assert.Len(t, pass.Issues(), 2)
}

func TestPassMetaReviewsAndDecision(t *testing.T) {
	t.Parallel()

	snapshot := paperSevenSnapshot()
	snapshot.MetaReviews = []domain.Note{{
		ID:         "m1",
		Forum:      "forumSeven",
		Signatures: []string{venue + "/Paper7/Area_Chair_1"},
		Content:    map[string]any{"recommendation": "Accept (Poster)", "metareview": "Fine."},
	}}
	snapshot.Decisions = []domain.Note{{ID: "d1", Forum: "forumSeven", Content: map[string]any{"decision": "Accept"}}}

	pass := NewPass(snapshot, DefaultOptions())
	row, ok := pass.PaperRow(7)
	require.True(t, ok)
	assert.Equal(t, 1, row.NumMetaReviews)
	assert.Equal(t, "Accept (Poster)", row.AreaChairs["1"].Recommendation)
	assert.Equal(t, "Accept", row.Decision)

	chairs := pass.AreaChairRows()
	require.Len(t, chairs, 1)
	assert.True(t, chairs[0].Complete)

	totals := pass.Totals()
	assert.Equal(t, 1, totals.Papers)
	assert.Equal(t, 3, totals.AssignedReviews)
	assert.Equal(t, 2, totals.SubmittedReviews)
	assert.Equal(t, 1, totals.SubmittedMetaReviews)
	assert.Equal(t, 2, totals.CompleteReviewers)
}

func TestPassPicksLatestDecision(t *testing.T) {
	t.Parallel()

	decision := func(id, value string, modified int64) domain.Note {
		return domain.Note{ID: id, Forum: "forumSeven", Modified: modified, Content: map[string]any{"decision": value}}
	}

	snapshot := paperSevenSnapshot()
	snapshot.Decisions = []domain.Note{
		decision("d2", "Accept", 2000),
		decision("d1", "Reject", 1000),
		decision("d3", "", 3000),
	}
	row, _ := NewPass(snapshot, DefaultOptions()).PaperRow(7)
	assert.Equal(t, "Accept", row.Decision, "most recent wins regardless of order; blank decisions are ignored")

	snapshot.Decisions = []domain.Note{decision("d1", "Reject", 0), decision("d2", "Accept", 0)}
	row, _ = NewPass(snapshot, DefaultOptions()).PaperRow(7)
	assert.Equal(t, "Accept", row.Decision, "without timestamps the later note wins")
}

func TestPassToleratesEmptyInputs(t *testing.T) {
	t.Parallel()

	var pass *Pass
	require.NotPanics(t, func() { pass = NewPass(domain.Snapshot{}, DefaultOptions()) })
	assert.Empty(t, pass.PaperRows())
	assert.Empty(t, pass.ReviewerRows())
	assert.Empty(t, pass.AreaChairRows())
	assert.Empty(t, pass.Issues())
	assert.Equal(t, Totals{}, pass.Totals())

	require.NotPanics(t, func() {
		pass = NewPass(domain.Snapshot{Submissions: []domain.Note{submission(7, "Seven")}}, DefaultOptions())
	})
	row, ok := pass.PaperRow(7)
	require.True(t, ok)
	assert.Zero(t, row.NumReviewers)
	assert.Zero(t, row.NumSubmittedReviews)
	assert.Zero(t, row.Missing)
	assert.False(t, row.Rating.Avg.Valid())
	assert.False(t, row.Complete)
	assert.Empty(t, pass.ReviewerRows())
	assert.Equal(t, Totals{Papers: 1}, pass.Totals())
}

func TestComputePersonRow(t *testing.T) {
	t.Parallel()

	jane := domain.Participant{ID: "~Jane1", Name: "Jane"}
	assigned := []domain.Assignment{
		{Paper: 9, Role: domain.RoleReviewer, AnonID: "1"},
		{Paper: 3, Role: domain.RoleReviewer, AnonID: "2"},
		{Paper: 3, Role: domain.RoleReviewer, AnonID: "2"},
		{Paper: 5, Role: domain.RoleAreaChair, AnonID: "1"},
	}
	completion := Completion{3: {"~Jane1": true}, 9: {"~Jane1": false, "~Other1": true}}

	row := ComputePersonRow(jane, domain.RoleReviewer, assigned, completion)
	assert.Equal(t, 2, row.NumPapers)
	assert.Equal(t, 1, row.NumCompleted)
	assert.False(t, row.Complete)
	require.Len(t, row.Papers, 2)
	assert.Equal(t, 3, row.Papers[0].Number)
	assert.True(t, row.Papers[0].Submitted)
	assert.Equal(t, 9, row.Papers[1].Number)

	idle := ComputePersonRow(jane, domain.RoleReviewer, nil, completion)
	assert.True(t, idle.Complete)
	assert.Equal(t, 0, idle.NumPapers)
}
