package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/query"
)

const venue = "Conf.org/2025/Conference"

func note(id, forum, signer, rating string) domain.Note {
	return domain.Note{
		ID:         id,
		Forum:      forum,
		Signatures: []string{signer},
		Content:    map[string]any{"rating": rating, "confidence": "3: sure"},
	}
}

func samplePass(t *testing.T) *progress.Pass {
	t.Helper()

	snapshot := domain.Snapshot{
		Submissions: []domain.Note{
			{ID: "f1", Number: 1, Content: map[string]any{"title": "Deep Nets", "authors": []any{"Ann Lee"}}},
			{ID: "f2", Number: 2, Content: map[string]any{"title": "Graph Methods", "authors": []any{"Bob Ray"}}},
			{ID: "f3", Number: 3, Content: map[string]any{"title": "Sparse Coding"}},
		},
		Groups: []domain.Group{
			{ID: venue + "/Paper1/Reviewer_1", Members: []string{"~Rev1"}},
			{ID: venue + "/Paper2/Reviewer_1", Members: []string{"~Rev1"}},
			{ID: venue + "/Paper2/Reviewer_2", Members: []string{"~Rev2"}},
			{ID: venue + "/Paper3/Reviewer_1", Members: []string{"~Rev2"}},
		},
		Reviews: []domain.Note{
			note("r1", "f1", venue+"/Paper1/Reviewer_1", "6: accept"),
			note("r2", "f2", venue+"/Paper2/Reviewer_1", "3: reject"),
		},
		Profiles: []domain.Profile{
			{ID: "~Rev1", Names: []domain.ProfileName{{Fullname: "Rita Vega"}}, ConfirmedEmails: []string{"rita@x.edu"}},
			{ID: "~Rev2", Names: []domain.ProfileName{{Fullname: "Omar Diaz"}}},
		},
	}
	return progress.NewPass(snapshot, progress.DefaultOptions())
}

func paperNumbers(t *testing.T, table Table) []int {
	t.Helper()
	out := make([]int, 0, len(table.Rows))
	for _, rec := range table.Rows {
		row, ok := rec.(domain.PaperRow)
		require.True(t, ok)
		out = append(out, row.Number)
	}
	return out
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	assert.Equal(t, []string{ViewAreaChairs, ViewPapers, ViewReviewers}, registry.Names())

	view, err := registry.Resolve(ViewPapers)
	require.NoError(t, err)
	assert.Equal(t, ViewPapers, view.Name())

	_, err = registry.Resolve("authors")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestPapersViewQueryAndSort(t *testing.T) {
	t.Parallel()

	pass := samplePass(t)
	view := PapersView()

	table, err := view.Render(pass, Request{Query: "+rating>=3", SortBy: "rating", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Total)
	assert.Equal(t, 2, table.Matched)
	assert.Equal(t, []int{1, 2}, paperNumbers(t, table))

	table, err = view.Render(pass, Request{SortBy: "rating"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, paperNumbers(t, table), "unavailable average sorts lowest")

	table, err = view.Render(pass, Request{Query: "+reviewer=rita@x.edu AND missing>0"})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, paperNumbers(t, table))

	table, err = view.Render(pass, Request{Query: "graph"})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, paperNumbers(t, table))
}

func TestViewErrors(t *testing.T) {
	t.Parallel()

	pass := samplePass(t)

	_, err := PapersView().Render(pass, Request{Query: "+colour=red"})
	assert.ErrorIs(t, err, query.ErrUnknownProperty)

	_, err = PapersView().Render(pass, Request{SortBy: "colour"})
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

func TestReviewersView(t *testing.T) {
	t.Parallel()

	table, err := ReviewersView().Render(samplePass(t), Request{Query: "+complete=false"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row, ok := table.Rows[0].(domain.PersonRow)
	require.True(t, ok)
	assert.Equal(t, "~Rev2", row.Participant.ID)
	assert.Equal(t, 2, row.NumPapers)
	assert.Equal(t, 0, row.NumCompleted)

	table, err = ReviewersView().Render(samplePass(t), Request{Query: "rita"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	table, err = AreaChairsView().Render(samplePass(t), Request{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}
