package usecase

import (
	"fmt"
	"strings"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/progress"
)

const digestOutstandingLimit = 10

func buildDigestMessage(passID string, pass *progress.Pass) string {
	totals := pass.Totals()

	var b strings.Builder
	fmt.Fprintf(&b, "Review progress (pass %s)\n", passID)
	fmt.Fprintf(&b, "Papers complete: %d/%d\n", totals.CompletePapers, totals.Papers)
	fmt.Fprintf(&b, "Reviews submitted: %d/%d\n", totals.SubmittedReviews, totals.AssignedReviews)
	fmt.Fprintf(&b, "Reviewers done: %d/%d\n", totals.CompleteReviewers, totals.Reviewers)
	fmt.Fprintf(&b, "Area chairs done: %d/%d\n", totals.CompleteAreaChairs, totals.AreaChairs)

	writeOutstanding(&b, "Outstanding reviewers", pass.ReviewerRows())
	writeOutstanding(&b, "Outstanding area chairs", pass.AreaChairRows())

	if totals.Issues > 0 {
		fmt.Fprintf(&b, "Data issues: %d\n", totals.Issues)
	}
	return b.String()
}

func writeOutstanding(b *strings.Builder, title string, rows []domain.PersonRow) {
	var pending []domain.PersonRow
	for _, row := range rows {
		if !row.Complete {
			pending = append(pending, row)
		}
	}
	if len(pending) == 0 {
		return
	}

	fmt.Fprintf(b, "%s (%d):\n", title, len(pending))
	for i, row := range pending {
		if i == digestOutstandingLimit {
			fmt.Fprintf(b, "- and %d more\n", len(pending)-i)
			break
		}
		fmt.Fprintf(b, "- %s (%s): %d missing\n", row.Participant.Name, row.Participant.ID, row.NumPapers-row.NumCompleted)
	}
}
