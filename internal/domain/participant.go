package domain

// Role names a committee role on a paper.
type Role string

const (
	RoleReviewer        Role = "reviewer"
	RoleAreaChair       Role = "areachair"
	RoleSeniorAreaChair Role = "senior-areachair"
)

// Participant is the canonical identity a set of aliases resolves to.
// A stub participant (no profile found) carries the alias in every field.
type Participant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Aliases []string `json:"aliases,omitempty"`
	Stub    bool     `json:"stub,omitempty"`
}

// Assignment places a participant on a paper under a pseudonymous role id.
type Assignment struct {
	Paper  int    `json:"paper"`
	Role   Role   `json:"role"`
	AnonID string `json:"anonId"`
	Alias  string `json:"alias"`
}
