package domain

import (
	"slices"
	"strconv"
)

// ReviewerStatus is one assigned reviewer's state on a paper.
type ReviewerStatus struct {
	AnonID        string      `json:"anonId"`
	Participant   Participant `json:"participant"`
	Submitted     bool        `json:"submitted"`
	NoteID        string      `json:"noteId,omitempty"`
	Rating        Metric      `json:"rating"`
	Confidence    Metric      `json:"confidence"`
	ContentLength int         `json:"contentLength"`
	Ranking       string      `json:"ranking,omitempty"`
}

// AreaChairStatus is one assigned area chair's state on a paper.
type AreaChairStatus struct {
	AnonID         string      `json:"anonId"`
	Participant    Participant `json:"participant"`
	Submitted      bool        `json:"submitted"`
	NoteID         string      `json:"noteId,omitempty"`
	Recommendation string      `json:"recommendation,omitempty"`
	Ranking        string      `json:"ranking,omitempty"`
}

// PaperRow is the per-paper aggregate shown in the paper status table.
type PaperRow struct {
	Number    int      `json:"number"`
	Forum     string   `json:"forum"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	AuthorIDs []string `json:"authorIds,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`

	Reviewers           map[string]ReviewerStatus `json:"reviewers"`
	NumReviewers        int                       `json:"numReviewers"`
	NumSubmittedReviews int                       `json:"numSubmittedReviews"`
	Missing             int                       `json:"missing"`
	Rating              Summary                   `json:"rating"`
	Confidence          Summary                   `json:"confidence"`

	AreaChairs       map[string]AreaChairStatus `json:"areaChairs"`
	NumMetaReviews   int                        `json:"numMetaReviews"`
	SeniorAreaChairs []Participant              `json:"seniorAreaChairs,omitempty"`

	Decision string `json:"decision,omitempty"`
	Complete bool   `json:"complete"`
}

// ReviewerIDs returns the anon ids of assigned reviewers in display order.
func (r PaperRow) ReviewerIDs() []string {
	ids := make([]string, 0, len(r.Reviewers))
	for id := range r.Reviewers {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareAnonIDs)
	return ids
}

// AreaChairIDs returns the anon ids of assigned area chairs in display order.
func (r PaperRow) AreaChairIDs() []string {
	ids := make([]string, 0, len(r.AreaChairs))
	for id := range r.AreaChairs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareAnonIDs)
	return ids
}

// Field exposes the row to the filter engine.
func (r PaperRow) Field(path string) ([]string, bool) {
	switch path {
	case "number":
		return []string{strconv.Itoa(r.Number)}, true
	case "id", "forum":
		return present(r.Forum)
	case "title":
		return present(r.Title)
	case "authors":
		return present(r.Authors...)
	case "authorIds":
		return present(r.AuthorIDs...)
	case "keywords":
		return present(r.Keywords...)
	case "reviewers", "reviewerIds", "reviewerEmails":
		var out []string
		for _, id := range r.ReviewerIDs() {
			out = append(out, participantField(r.Reviewers[id].Participant, path)...)
		}
		return present(out...)
	case "areaChairs", "areaChairIds", "areaChairEmails":
		var out []string
		for _, id := range r.AreaChairIDs() {
			out = append(out, participantField(r.AreaChairs[id].Participant, path)...)
		}
		return present(out...)
	case "seniorAreaChairs", "seniorAreaChairIds":
		var out []string
		for _, p := range r.SeniorAreaChairs {
			out = append(out, participantField(p, path)...)
		}
		return present(out...)
	case "numReviewers":
		return []string{strconv.Itoa(r.NumReviewers)}, true
	case "numSubmittedReviews":
		return []string{strconv.Itoa(r.NumSubmittedReviews)}, true
	case "missing":
		return []string{strconv.Itoa(r.Missing)}, true
	case "minRating":
		return []string{r.Rating.Min.String()}, true
	case "maxRating":
		return []string{r.Rating.Max.String()}, true
	case "avgRating":
		return []string{r.Rating.Avg.String()}, true
	case "minConfidence":
		return []string{r.Confidence.Min.String()}, true
	case "maxConfidence":
		return []string{r.Confidence.Max.String()}, true
	case "avgConfidence":
		return []string{r.Confidence.Avg.String()}, true
	case "numMetaReviews":
		return []string{strconv.Itoa(r.NumMetaReviews)}, true
	case "recommendation":
		var out []string
		for _, id := range r.AreaChairIDs() {
			out = append(out, r.AreaChairs[id].Recommendation)
		}
		return present(out...)
	case "decision":
		return present(r.Decision)
	case "complete":
		return []string{strconv.FormatBool(r.Complete)}, true
	}
	return nil, false
}

// PersonPaper is one paper on a committee member's list.
type PersonPaper struct {
	Number    int    `json:"number"`
	Submitted bool   `json:"submitted"`
	AnonID    string `json:"anonId,omitempty"`
}

// PersonRow is the per-person aggregate shown in the committee status tables.
type PersonRow struct {
	Participant  Participant   `json:"participant"`
	Role         Role          `json:"role"`
	Papers       []PersonPaper `json:"papers"`
	NumPapers    int           `json:"numPapers"`
	NumCompleted int           `json:"numCompleted"`
	Complete     bool          `json:"complete"`
}

// Field exposes the row to the filter engine.
func (r PersonRow) Field(path string) ([]string, bool) {
	switch path {
	case "id":
		return present(r.Participant.ID)
	case "name":
		return present(r.Participant.Name)
	case "email":
		return present(r.Participant.Email)
	case "aliases":
		return present(r.Participant.Aliases...)
	case "role":
		return present(string(r.Role))
	case "papers":
		out := make([]string, 0, len(r.Papers))
		for _, p := range r.Papers {
			out = append(out, strconv.Itoa(p.Number))
		}
		return present(out...)
	case "numPapers":
		return []string{strconv.Itoa(r.NumPapers)}, true
	case "numCompleted":
		return []string{strconv.Itoa(r.NumCompleted)}, true
	case "numMissing":
		return []string{strconv.Itoa(r.NumPapers - r.NumCompleted)}, true
	case "complete":
		return []string{strconv.FormatBool(r.Complete)}, true
	}
	return nil, false
}

func participantField(p Participant, path string) []string {
	switch path {
	case "reviewerIds", "areaChairIds", "seniorAreaChairIds":
		return []string{p.ID}
	case "reviewerEmails", "areaChairEmails":
		return []string{p.Email}
	default:
		return []string{p.Name}
	}
}

// present drops empty values and reports whether anything is left.
func present(values ...string) ([]string, bool) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out, len(out) > 0
}

// CompareAnonIDs orders anon ids numerically when both are numbers and
// lexically otherwise, so Reviewer_2 precedes Reviewer_10.
func CompareAnonIDs(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai - bi
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
