package progress

// IssueKind classifies a non-fatal condition met during a pass.
type IssueKind string

const (
	// IssueLookupMiss: an alias had no profile and is shown as itself.
	IssueLookupMiss IssueKind = "lookup_miss"
	// IssueDataInconsistency: a unit (one note, one seat, one paper) was skipped or defaulted.
	IssueDataInconsistency IssueKind = "data_inconsistency"
)

// Issue records something the pass tolerated rather than failed on.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Paper   int       `json:"paper,omitempty"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail"`
}

func inconsistency(paper int, subject, detail string) Issue {
	return Issue{Kind: IssueDataInconsistency, Paper: paper, Subject: subject, Detail: detail}
}
