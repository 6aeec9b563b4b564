package domain

// ReviewRecord is a parsed review note.
type ReviewRecord struct {
	NoteID string `json:"noteId"`
	Paper  int    `json:"paper"`
	// AnonID is set when the review is signed by a pseudonymous group;
	// Signer holds the signature as-is (a canonical id for open venues).
	AnonID        string `json:"anonId,omitempty"`
	Signer        string `json:"signer"`
	Rating        Metric `json:"rating"`
	Confidence    Metric `json:"confidence"`
	ContentLength int    `json:"contentLength"`
}

// MetaReviewRecord is a parsed meta-review note.
type MetaReviewRecord struct {
	NoteID         string `json:"noteId"`
	Paper          int    `json:"paper"`
	AnonID         string `json:"anonId,omitempty"`
	Signer         string `json:"signer"`
	Recommendation string `json:"recommendation"`
	ContentLength  int    `json:"contentLength"`
}

// DecisionRecord is a parsed decision note.
type DecisionRecord struct {
	NoteID   string `json:"noteId"`
	Paper    int    `json:"paper"`
	Decision string `json:"decision"`
	Modified int64  `json:"modified,omitempty"`
}

// RankingRecord is a ranking tag attributed to a committee member on a paper.
type RankingRecord struct {
	Paper int `json:"paper"`
	// Role and AnonID are empty when the tag is signed with a canonical id.
	Role   Role   `json:"role,omitempty"`
	AnonID string `json:"anonId,omitempty"`
	Signer string `json:"signer"`
	Value  string `json:"value"`
}
