package console

import (
	"fmt"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/query"
)

const (
	ViewPapers     = "papers"
	ViewReviewers  = "reviewers"
	ViewAreaChairs = "areachairs"
)

var paperProperties = query.Properties{
	"number":          {"number"},
	"id":              {"id"},
	"title":           {"title"},
	"author":          {"authors", "authorIds"},
	"keywords":        {"keywords"},
	"reviewer":        {"reviewers", "reviewerIds", "reviewerEmails"},
	"areachair":       {"areaChairs", "areaChairIds", "areaChairEmails"},
	"seniorareachair": {"seniorAreaChairs", "seniorAreaChairIds"},
	"numReviewers":    {"numReviewers"},
	"numSubmitted":    {"numSubmittedReviews"},
	"missing":         {"missing"},
	"minRating":       {"minRating"},
	"maxRating":       {"maxRating"},
	"rating":          {"avgRating"},
	"minConfidence":   {"minConfidence"},
	"maxConfidence":   {"maxConfidence"},
	"confidence":      {"avgConfidence"},
	"numMetaReviews":  {"numMetaReviews"},
	"recommendation":  {"recommendation"},
	"decision":        {"decision"},
	"complete":        {"complete"},
}

var personProperties = query.Properties{
	"id":           {"id"},
	"name":         {"name"},
	"email":        {"email"},
	"member":       {"id", "name", "email", "aliases"},
	"paper":        {"papers"},
	"numPapers":    {"numPapers"},
	"numCompleted": {"numCompleted"},
	"numMissing":   {"numMissing"},
	"complete":     {"complete"},
}

// PapersView lists one row per submission.
func PapersView() View {
	return rowView[domain.PaperRow]{
		name: ViewPapers,
		schema: query.Schema{
			Properties: paperProperties,
			Defaults:   []string{"number", "title", "author", "keywords"},
			Operators:  query.DefaultOperators,
		},
		rows: (*progress.Pass).PaperRows,
	}
}

// ReviewersView lists one row per seated reviewer.
func ReviewersView() View {
	return rowView[domain.PersonRow]{
		name: ViewReviewers,
		schema: query.Schema{
			Properties: personProperties,
			Defaults:   []string{"member"},
			Operators:  query.DefaultOperators,
		},
		rows: (*progress.Pass).ReviewerRows,
	}
}

// AreaChairsView lists one row per seated area chair.
func AreaChairsView() View {
	return rowView[domain.PersonRow]{
		name: ViewAreaChairs,
		schema: query.Schema{
			Properties: personProperties,
			Defaults:   []string{"member"},
			Operators:  query.DefaultOperators,
		},
		rows: (*progress.Pass).AreaChairRows,
	}
}

type rowView[R query.Record] struct {
	name   string
	schema query.Schema
	rows   func(*progress.Pass) []R
}

func (v rowView[R]) Name() string {
	return v.name
}

func (v rowView[R]) Schema() query.Schema {
	return v.schema
}

// Render filters then sorts. Sort keys are property names; a property
// covering several paths sorts on its first.
func (v rowView[R]) Render(pass *progress.Pass, req Request) (Table, error) {
	sortPath := ""
	if req.SortBy != "" {
		_, paths, ok := v.schema.Properties.Lookup(req.SortBy)
		if !ok || len(paths) == 0 {
			return Table{}, fmt.Errorf("%w: %s", ErrUnknownSortKey, req.SortBy)
		}
		sortPath = paths[0]
	}

	var all []R
	if pass != nil {
		all = v.rows(pass)
	}

	matched, err := query.Run(all, req.Query, v.schema)
	if err != nil {
		return Table{}, fmt.Errorf("filter %s: %w", v.name, err)
	}
	matched = query.SortRows(matched, sortPath, req.Desc)

	records := make([]query.Record, len(matched))
	for i, row := range matched {
		records[i] = row
	}

	return Table{
		View:    v.name,
		Query:   req.Query,
		Total:   len(all),
		Matched: len(matched),
		Rows:    records,
	}, nil
}
