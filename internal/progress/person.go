package progress

import (
	"slices"

	"ReviewConsole/internal/domain"
)

// Completion records, per paper, whether each seated participant (by
// canonical id) has submitted their own note there.
type Completion map[int]map[string]bool

// Submitted reports the participant's own status on a paper.
func (c Completion) Submitted(paper int, participantID string) bool {
	return c[paper][participantID]
}

// ReviewerCompletion collects reviewer submissions from paper rows.
func ReviewerCompletion(rows []domain.PaperRow) Completion {
	completion := make(Completion, len(rows))
	for _, row := range rows {
		seats := make(map[string]bool, len(row.Reviewers))
		for _, status := range row.Reviewers {
			seats[status.Participant.ID] = seats[status.Participant.ID] || status.Submitted
		}
		completion[row.Number] = seats
	}
	return completion
}

// MetaReviewCompletion collects area chair submissions from paper rows.
func MetaReviewCompletion(rows []domain.PaperRow) Completion {
	completion := make(Completion, len(rows))
	for _, row := range rows {
		seats := make(map[string]bool, len(row.AreaChairs))
		for _, status := range row.AreaChairs {
			seats[status.Participant.ID] = seats[status.Participant.ID] || status.Submitted
		}
		completion[row.Number] = seats
	}
	return completion
}

// ComputePersonRow rolls up one participant's duties in a role. The person
// is complete when their own note is in on every assigned paper, whatever
// the state of their co-reviewers.
func ComputePersonRow(participant domain.Participant, role domain.Role, assigned []domain.Assignment, completion Completion) domain.PersonRow {
	row := domain.PersonRow{
		Participant: participant,
		Role:        role,
		Papers:      make([]domain.PersonPaper, 0, len(assigned)),
	}

	seen := make(map[int]struct{}, len(assigned))
	for _, a := range assigned {
		if a.Role != "" && a.Role != role {
			continue
		}
		if _, dup := seen[a.Paper]; dup {
			continue
		}
		seen[a.Paper] = struct{}{}

		submitted := completion.Submitted(a.Paper, participant.ID)
		row.Papers = append(row.Papers, domain.PersonPaper{Number: a.Paper, AnonID: a.AnonID, Submitted: submitted})
		if submitted {
			row.NumCompleted++
		}
	}
	slices.SortFunc(row.Papers, func(a, b domain.PersonPaper) int { return a.Number - b.Number })

	row.NumPapers = len(row.Papers)
	row.Complete = row.NumCompleted == row.NumPapers
	return row
}
