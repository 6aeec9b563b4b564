package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Group is a committee group as delivered by the data repository.
type Group struct {
	ID      string   `json:"id" yaml:"id"`
	Members []string `json:"members" yaml:"members"`
}

// Note is a submitted form: a submission, review, meta-review or decision.
type Note struct {
	ID         string         `json:"id" yaml:"id"`
	Forum      string         `json:"forum" yaml:"forum"`
	Number     int            `json:"number" yaml:"number"`
	Invitation string         `json:"invitation" yaml:"invitation"`
	Signatures []string       `json:"signatures" yaml:"signatures"`
	Content    map[string]any `json:"content" yaml:"content"`
	// Modified is the last modification time in epoch milliseconds, 0 when unknown.
	Modified int64 `json:"tmdate,omitempty" yaml:"tmdate,omitempty"`
}

// Text returns a content field rendered as a string. Missing fields yield "".
func (n Note) Text(field string) string {
	raw, ok := n.Content[field]
	if !ok || raw == nil {
		return ""
	}
	return stringify(unwrapValue(raw))
}

// Strings returns a list-valued content field. A scalar is returned as a
// single-element slice.
func (n Note) Strings(field string) []string {
	raw, ok := n.Content[field]
	if !ok || raw == nil {
		return nil
	}
	switch v := unwrapValue(raw).(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, stringify(item))
		}
		return out
	default:
		if s := stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// unwrapValue accepts both flat content ({"rating": "4: good"}) and the
// wrapped form used by newer APIs ({"rating": {"value": "4: good"}}).
func unwrapValue(raw any) any {
	if wrapped, ok := raw.(map[string]any); ok {
		if inner, ok := wrapped["value"]; ok {
			return inner
		}
	}
	return raw
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Tag is a label attached to a forum, e.g. a reviewer's paper ranking.
type Tag struct {
	Forum      string   `json:"forum" yaml:"forum"`
	Invitation string   `json:"invitation" yaml:"invitation"`
	Signatures []string `json:"signatures" yaml:"signatures"`
	Tag        string   `json:"tag" yaml:"tag"`
}

// ProfileName is one of the names registered on a profile.
type ProfileName struct {
	Fullname  string `json:"fullname" yaml:"fullname"`
	Username  string `json:"username" yaml:"username"`
	Preferred bool   `json:"preferred" yaml:"preferred"`
}

// Profile is a registered user as returned by a profile search.
type Profile struct {
	ID              string        `json:"id" yaml:"id"`
	Names           []ProfileName `json:"names" yaml:"names"`
	Emails          []string      `json:"emails" yaml:"emails"`
	ConfirmedEmails []string      `json:"confirmedEmails" yaml:"confirmedEmails"`
}

// PreferredName returns the preferred full name, falling back to the first name.
func (p Profile) PreferredName() string {
	for _, name := range p.Names {
		if name.Preferred && name.Fullname != "" {
			return name.Fullname
		}
	}
	for _, name := range p.Names {
		if name.Fullname != "" {
			return name.Fullname
		}
	}
	return ""
}

// PreferredEmail returns the first confirmed email, or the first email.
func (p Profile) PreferredEmail() string {
	if len(p.ConfirmedEmails) > 0 {
		return p.ConfirmedEmails[0]
	}
	if len(p.Emails) > 0 {
		return p.Emails[0]
	}
	return ""
}

// Submission is the paper metadata rows are keyed on.
type Submission struct {
	ID        string
	Number    int
	Title     string
	Authors   []string
	AuthorIDs []string
	Keywords  []string
}

// SubmissionFromNote extracts paper metadata from a submission note.
func SubmissionFromNote(n Note) Submission {
	return Submission{
		ID:        n.ID,
		Number:    n.Number,
		Title:     strings.TrimSpace(n.Text("title")),
		Authors:   n.Strings("authors"),
		AuthorIDs: n.Strings("authorids"),
		Keywords:  n.Strings("keywords"),
	}
}

// Snapshot is one fully fetched view of the venue. All slices may be empty.
type Snapshot struct {
	Submissions []Note    `json:"submissions" yaml:"submissions"`
	Groups      []Group   `json:"groups" yaml:"groups"`
	Reviews     []Note    `json:"reviews" yaml:"reviews"`
	MetaReviews []Note    `json:"metaReviews" yaml:"metaReviews"`
	Decisions   []Note    `json:"decisions" yaml:"decisions"`
	Tags        []Tag     `json:"tags" yaml:"tags"`
	Profiles    []Profile `json:"profiles" yaml:"profiles"`
}
