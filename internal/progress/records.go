package progress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/identity"
)

// Fields names the note content fields the aggregator reads.
type Fields struct {
	Rating         string `yaml:"rating"`
	Confidence     string `yaml:"confidence"`
	ReviewText     string `yaml:"reviewText"`
	Recommendation string `yaml:"recommendation"`
	MetaReviewText string `yaml:"metaReviewText"`
	Decision       string `yaml:"decision"`
}

// DefaultFields matches the usual review form.
func DefaultFields() Fields {
	return Fields{
		Rating:         "rating",
		Confidence:     "confidence",
		ReviewText:     "review",
		Recommendation: "recommendation",
		MetaReviewText: "metareview",
		Decision:       "decision",
	}
}

// Measure returns the length of a note's free text.
type Measure func(text string) int

// RuneLength counts the runes of the trimmed text.
func RuneLength(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

var invitationPaperExpr = regexp.MustCompile(`/Paper(\d+)/`)

// Notes are tied to papers through the submission forum. Notes outside a
// known forum fall back to the paper number carried by a paper-scoped
// signature or invitation.
func paperOf(note domain.Note, forums map[string]int) (int, bool) {
	if number, ok := forums[note.Forum]; ok {
		return number, true
	}
	for _, sig := range note.Signatures {
		if paper, _, ok := identity.ParseGroupID(sig); ok {
			return paper, true
		}
	}
	if match := invitationPaperExpr.FindStringSubmatch(note.Invitation); match != nil {
		if paper, err := strconv.Atoi(match[1]); err == nil {
			return paper, true
		}
	}
	return 0, false
}

func signerOf(note domain.Note) string {
	if len(note.Signatures) == 0 {
		return ""
	}
	return strings.TrimSpace(note.Signatures[0])
}

// ReviewRecords parses review notes. Notes that cannot be tied to a paper
// are skipped, and malformed scores are kept as unavailable; both are
// reported as issues.
func ReviewRecords(notes []domain.Note, forums map[string]int, scheme identity.Scheme, fields Fields, measure Measure) ([]domain.ReviewRecord, []Issue) {
	if measure == nil {
		measure = RuneLength
	}

	records := make([]domain.ReviewRecord, 0, len(notes))
	var issues []Issue
	for _, note := range notes {
		paper, ok := paperOf(note, forums)
		if !ok {
			issues = append(issues, inconsistency(0, note.ID, "review is not attached to a paper"))
			continue
		}

		record := domain.ReviewRecord{
			NoteID:        note.ID,
			Paper:         paper,
			Signer:        signerOf(note),
			Rating:        ParseScore(note.Text(fields.Rating)),
			Confidence:    ParseScore(note.Text(fields.Confidence)),
			ContentLength: measure(note.Text(fields.ReviewText)),
		}
		if sig, ok := identity.ParseSignature(record.Signer, scheme); ok {
			record.AnonID = sig.AnonID
		}

		issues = append(issues, scoreIssues(note, paper, fields.Rating, record.Rating)...)
		issues = append(issues, scoreIssues(note, paper, fields.Confidence, record.Confidence)...)
		records = append(records, record)
	}
	return records, issues
}

func scoreIssues(note domain.Note, paper int, field string, parsed domain.Metric) []Issue {
	raw := strings.TrimSpace(note.Text(field))
	if raw == "" || parsed.Valid() {
		return nil
	}
	return []Issue{inconsistency(paper, note.ID, fmt.Sprintf("malformed %s %q", field, raw))}
}

// MetaReviewRecords parses meta-review notes.
func MetaReviewRecords(notes []domain.Note, forums map[string]int, scheme identity.Scheme, fields Fields, measure Measure) ([]domain.MetaReviewRecord, []Issue) {
	if measure == nil {
		measure = RuneLength
	}

	records := make([]domain.MetaReviewRecord, 0, len(notes))
	var issues []Issue
	for _, note := range notes {
		paper, ok := paperOf(note, forums)
		if !ok {
			issues = append(issues, inconsistency(0, note.ID, "meta-review is not attached to a paper"))
			continue
		}

		record := domain.MetaReviewRecord{
			NoteID:         note.ID,
			Paper:          paper,
			Signer:         signerOf(note),
			Recommendation: strings.TrimSpace(note.Text(fields.Recommendation)),
			ContentLength:  measure(note.Text(fields.MetaReviewText)),
		}
		if sig, ok := identity.ParseSignature(record.Signer, scheme); ok {
			record.AnonID = sig.AnonID
		}
		records = append(records, record)
	}
	return records, issues
}

// DecisionRecords parses decision notes.
func DecisionRecords(notes []domain.Note, forums map[string]int, fields Fields) ([]domain.DecisionRecord, []Issue) {
	records := make([]domain.DecisionRecord, 0, len(notes))
	var issues []Issue
	for _, note := range notes {
		paper, ok := paperOf(note, forums)
		if !ok {
			issues = append(issues, inconsistency(0, note.ID, "decision is not attached to a paper"))
			continue
		}
		records = append(records, domain.DecisionRecord{
			NoteID:   note.ID,
			Paper:    paper,
			Decision: strings.TrimSpace(note.Text(fields.Decision)),
			Modified: note.Modified,
		})
	}
	return records, issues
}

// RankingRecords attributes ranking tags to papers and signers. Tags on
// unknown forums are skipped.
func RankingRecords(tags []domain.Tag, forums map[string]int, schemes ...identity.Scheme) ([]domain.RankingRecord, []Issue) {
	records := make([]domain.RankingRecord, 0, len(tags))
	var issues []Issue
	for _, tag := range tags {
		paper, ok := forums[tag.Forum]
		if !ok {
			issues = append(issues, inconsistency(0, tag.Forum, "ranking tag on an unknown forum"))
			continue
		}
		record := domain.RankingRecord{Paper: paper, Value: strings.TrimSpace(tag.Tag)}
		if len(tag.Signatures) > 0 {
			record.Signer = strings.TrimSpace(tag.Signatures[0])
		}
		if sig, ok := identity.ParseSignature(record.Signer, schemes...); ok {
			record.Role = sig.Role
			record.AnonID = sig.AnonID
		}
		records = append(records, record)
	}
	return records, issues
}
