package progress

import (
	"strings"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/identity"
)

// Resolver maps an alias to its canonical participant.
type Resolver interface {
	Resolve(alias string) domain.Participant
}

// PaperInput is everything ComputePaperRow reads. Record slices may cover
// other papers; only those matching Submission.Number are used.
type PaperInput struct {
	Submission       domain.Submission
	Reviewers        identity.RoleMap
	AreaChairs       identity.RoleMap
	SeniorAreaChairs identity.RoleMap
	// Resolver may be nil, in which case every alias is its own stub.
	Resolver    Resolver
	Reviews     []domain.ReviewRecord
	MetaReviews []domain.MetaReviewRecord
	Decisions   []domain.DecisionRecord
	Rankings    []domain.RankingRecord
	Policy      CompletionPolicy
}

// ComputePaperRow aggregates one paper. Each assigned reviewer's review is
// looked up by anon id first and by canonical identity second; only
// submitted reviews with a parsable score enter the statistics.
func ComputePaperRow(in PaperInput) domain.PaperRow {
	number := in.Submission.Number
	resolve := resolverFunc(in.Resolver)

	row := domain.PaperRow{
		Number:     number,
		Forum:      in.Submission.ID,
		Title:      in.Submission.Title,
		Authors:    in.Submission.Authors,
		AuthorIDs:  in.Submission.AuthorIDs,
		Keywords:   in.Submission.Keywords,
		Reviewers:  make(map[string]domain.ReviewerStatus),
		AreaChairs: make(map[string]domain.AreaChairStatus),
	}

	reviews := newSeatIndex[domain.ReviewRecord]()
	for _, r := range in.Reviews {
		if r.Paper == number {
			reviews.add(r.AnonID, r.Signer, r)
		}
	}
	metaReviews := newSeatIndex[domain.MetaReviewRecord]()
	for _, r := range in.MetaReviews {
		if r.Paper == number {
			metaReviews.add(r.AnonID, r.Signer, r)
		}
	}
	reviewerRanks := newSeatIndex[string]()
	chairRanks := newSeatIndex[string]()
	for _, r := range in.Rankings {
		if r.Paper != number {
			continue
		}
		switch r.Role {
		case domain.RoleReviewer:
			reviewerRanks.add(r.AnonID, "", r.Value)
		case domain.RoleAreaChair:
			chairRanks.add(r.AnonID, "", r.Value)
		default:
			reviewerRanks.add("", r.Signer, r.Value)
			chairRanks.add("", r.Signer, r.Value)
		}
	}

	var ratings, confidences []float64
	for _, anonID := range in.Reviewers.AnonIDs(number) {
		alias := in.Reviewers[number][anonID]
		participant := resolve(alias)
		status := domain.ReviewerStatus{AnonID: anonID, Participant: participant}

		if review, ok := reviews.find(anonID, alias, participant); ok {
			status.Submitted = true
			status.NoteID = review.NoteID
			status.Rating = review.Rating
			status.Confidence = review.Confidence
			status.ContentLength = review.ContentLength
			row.NumSubmittedReviews++
			if v, ok := review.Rating.Get(); ok {
				ratings = append(ratings, v)
			}
			if v, ok := review.Confidence.Get(); ok {
				confidences = append(confidences, v)
			}
		}
		if rank, ok := reviewerRanks.find(anonID, alias, participant); ok {
			status.Ranking = rank
		}
		row.Reviewers[anonID] = status
	}

	row.NumReviewers = len(row.Reviewers)
	row.Missing = row.NumReviewers - row.NumSubmittedReviews
	row.Rating = Summarize(ratings)
	row.Confidence = Summarize(confidences)
	row.Complete = in.Policy.Satisfied(row.NumSubmittedReviews, row.NumReviewers)

	for _, anonID := range in.AreaChairs.AnonIDs(number) {
		alias := in.AreaChairs[number][anonID]
		participant := resolve(alias)
		status := domain.AreaChairStatus{AnonID: anonID, Participant: participant}

		if meta, ok := metaReviews.find(anonID, alias, participant); ok {
			status.Submitted = true
			status.NoteID = meta.NoteID
			status.Recommendation = meta.Recommendation
			row.NumMetaReviews++
		}
		if rank, ok := chairRanks.find(anonID, alias, participant); ok {
			status.Ranking = rank
		}
		row.AreaChairs[anonID] = status
	}

	for _, anonID := range in.SeniorAreaChairs.AnonIDs(number) {
		row.SeniorAreaChairs = append(row.SeniorAreaChairs, resolve(in.SeniorAreaChairs[number][anonID]))
	}

	row.Decision = latestDecision(in.Decisions, number)

	return row
}

// latestDecision picks the most recently modified non-empty decision on a
// paper. Equal timestamps go to the note listed last.
func latestDecision(decisions []domain.DecisionRecord, paper int) string {
	var (
		latest   string
		modified int64
		found    bool
	)
	for _, d := range decisions {
		if d.Paper != paper || d.Decision == "" {
			continue
		}
		if !found || d.Modified >= modified {
			latest, modified, found = d.Decision, d.Modified, true
		}
	}
	return latest
}

func resolverFunc(r Resolver) func(string) domain.Participant {
	if r == nil {
		return func(alias string) domain.Participant {
			return identity.ResolveCanonical(alias, nil)
		}
	}
	return r.Resolve
}

// seatIndex finds the record belonging to a seat, by anon id or by any
// identity of the seat holder. The first record per key wins.
type seatIndex[T any] struct {
	byAnon   map[string]T
	bySigner map[string]T
}

func newSeatIndex[T any]() seatIndex[T] {
	return seatIndex[T]{byAnon: make(map[string]T), bySigner: make(map[string]T)}
}

func (s seatIndex[T]) add(anonID, signer string, v T) {
	if anonID != "" {
		if _, ok := s.byAnon[anonID]; !ok {
			s.byAnon[anonID] = v
		}
		return
	}
	if signer == "" {
		return
	}
	key := signerKey(signer)
	if _, ok := s.bySigner[key]; !ok {
		s.bySigner[key] = v
	}
}

func (s seatIndex[T]) find(anonID, alias string, participant domain.Participant) (T, bool) {
	if v, ok := s.byAnon[anonID]; ok {
		return v, true
	}
	candidates := append([]string{participant.ID, alias}, participant.Aliases...)
	for _, c := range candidates {
		if v, ok := s.bySigner[signerKey(c)]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func signerKey(signer string) string {
	signer = strings.TrimSpace(signer)
	if strings.Contains(signer, "@") {
		return strings.ToLower(signer)
	}
	return signer
}
