package progress

import (
	"fmt"
	"slices"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/identity"
)

// Options configures an aggregation pass.
type Options struct {
	Reviewer        identity.Scheme
	AreaChair       identity.Scheme
	SeniorAreaChair identity.Scheme
	Fields          Fields
	Policy          CompletionPolicy
	// Measure may be nil, in which case RuneLength is used.
	Measure Measure
}

// DefaultOptions reads the current group naming and the usual review form.
func DefaultOptions() Options {
	return Options{
		Reviewer:        identity.ReviewerScheme,
		AreaChair:       identity.AreaChairScheme,
		SeniorAreaChair: identity.SeniorAreaChairScheme,
		Fields:          DefaultFields(),
		Policy:          AllAssigned(),
		Measure:         RuneLength,
	}
}

// Totals is a venue-wide roll-up of one pass.
type Totals struct {
	Papers               int `json:"papers"`
	CompletePapers       int `json:"completePapers"`
	AssignedReviews      int `json:"assignedReviews"`
	SubmittedReviews     int `json:"submittedReviews"`
	Reviewers            int `json:"reviewers"`
	CompleteReviewers    int `json:"completeReviewers"`
	AreaChairs           int `json:"areaChairs"`
	CompleteAreaChairs   int `json:"completeAreaChairs"`
	SubmittedMetaReviews int `json:"submittedMetaReviews"`
	Issues               int `json:"issues"`
}

// Pass is the result of aggregating one snapshot. All rows are computed up
// front; a Pass is read-only afterwards and safe to share.
type Pass struct {
	submissions []domain.Submission
	dir         *identity.Directory
	papers      []domain.PaperRow
	byNumber    map[int]int
	reviewers   []domain.PersonRow
	areaChairs  []domain.PersonRow
	issues      []Issue
}

// NewPass aggregates a snapshot. It never fails: anything it cannot use
// is skipped and reported through Issues.
func NewPass(snapshot domain.Snapshot, opts Options) *Pass {
	p := &Pass{byNumber: make(map[int]int)}

	forums := make(map[string]int, len(snapshot.Submissions))
	for _, note := range snapshot.Submissions {
		sub := domain.SubmissionFromNote(note)
		if sub.Number <= 0 {
			p.issues = append(p.issues, inconsistency(0, note.ID, "submission has no paper number"))
			continue
		}
		if _, dup := p.byNumber[sub.Number]; dup {
			p.issues = append(p.issues, inconsistency(sub.Number, note.ID, "duplicate paper number"))
			continue
		}
		p.byNumber[sub.Number] = len(p.submissions)
		p.submissions = append(p.submissions, sub)
		if sub.ID != "" {
			forums[sub.ID] = sub.Number
		}
	}
	slices.SortFunc(p.submissions, func(a, b domain.Submission) int { return a.Number - b.Number })

	numbers := make([]int, 0, len(p.submissions))
	for i, sub := range p.submissions {
		numbers = append(numbers, sub.Number)
		p.byNumber[sub.Number] = i
	}

	roles := map[domain.Role]identity.RoleMap{
		domain.RoleReviewer:        p.roleMap(snapshot.Groups, numbers, opts.Reviewer),
		domain.RoleAreaChair:       p.roleMap(snapshot.Groups, numbers, opts.AreaChair),
		domain.RoleSeniorAreaChair: p.roleMap(snapshot.Groups, numbers, opts.SeniorAreaChair),
	}
	p.dir = identity.NewDirectory(identity.NewProfileIndex(snapshot.Profiles), roles)

	reviews, issues := ReviewRecords(snapshot.Reviews, forums, opts.Reviewer, opts.Fields, opts.Measure)
	p.issues = append(p.issues, issues...)
	metaReviews, issues := MetaReviewRecords(snapshot.MetaReviews, forums, opts.AreaChair, opts.Fields, opts.Measure)
	p.issues = append(p.issues, issues...)
	decisions, issues := DecisionRecords(snapshot.Decisions, forums, opts.Fields)
	p.issues = append(p.issues, issues...)
	rankings, issues := RankingRecords(snapshot.Tags, forums, opts.Reviewer, opts.AreaChair)
	p.issues = append(p.issues, issues...)

	for _, r := range reviews {
		p.checkRecord(r.Paper, r.NoteID, r.AnonID, roles[domain.RoleReviewer], "review")
	}
	for _, r := range metaReviews {
		p.checkRecord(r.Paper, r.NoteID, r.AnonID, roles[domain.RoleAreaChair], "meta-review")
	}
	for _, r := range decisions {
		p.checkRecord(r.Paper, r.NoteID, "", nil, "decision")
	}

	p.papers = make([]domain.PaperRow, 0, len(p.submissions))
	for _, sub := range p.submissions {
		p.papers = append(p.papers, ComputePaperRow(PaperInput{
			Submission:       sub,
			Reviewers:        roles[domain.RoleReviewer],
			AreaChairs:       roles[domain.RoleAreaChair],
			SeniorAreaChairs: roles[domain.RoleSeniorAreaChair],
			Resolver:         p.dir,
			Reviews:          reviews,
			MetaReviews:      metaReviews,
			Decisions:        decisions,
			Rankings:         rankings,
			Policy:           opts.Policy,
		}))
	}

	p.reviewers = p.personRows(domain.RoleReviewer, ReviewerCompletion(p.papers))
	p.areaChairs = p.personRows(domain.RoleAreaChair, MetaReviewCompletion(p.papers))

	for _, alias := range p.dir.Misses() {
		p.issues = append(p.issues, Issue{Kind: IssueLookupMiss, Subject: alias, Detail: "no profile found"})
	}

	return p
}

func (p *Pass) roleMap(groups []domain.Group, numbers []int, scheme identity.Scheme) identity.RoleMap {
	roleMap, dropped := identity.BuildRoleMapWithDropped(groups, numbers, scheme)
	for _, seat := range dropped {
		p.issues = append(p.issues, inconsistency(seat.Paper, seat.GroupID, "seat holder not in plural group"))
	}
	return roleMap
}

func (p *Pass) checkRecord(paper int, noteID, anonID string, roleMap identity.RoleMap, what string) {
	if _, ok := p.byNumber[paper]; !ok {
		p.issues = append(p.issues, inconsistency(paper, noteID, fmt.Sprintf("%s for unknown paper %d", what, paper)))
		return
	}
	if anonID == "" || roleMap == nil {
		return
	}
	if _, ok := roleMap.Alias(paper, anonID); !ok {
		p.issues = append(p.issues, inconsistency(paper, noteID, fmt.Sprintf("%s signed by unassigned seat %s", what, anonID)))
	}
}

func (p *Pass) personRows(role domain.Role, completion Completion) []domain.PersonRow {
	members := p.dir.Members(role)
	rows := make([]domain.PersonRow, 0, len(members))
	for _, participant := range members {
		rows = append(rows, ComputePersonRow(participant, role, p.dir.AssignmentsIn(participant.ID, role), completion))
	}
	return rows
}

// Submissions returns the accepted submissions by paper number.
func (p *Pass) Submissions() []domain.Submission {
	return slices.Clone(p.submissions)
}

// PaperRows returns one row per submission, by paper number.
func (p *Pass) PaperRows() []domain.PaperRow {
	return slices.Clone(p.papers)
}

// PaperRow returns the row of one paper.
func (p *Pass) PaperRow(number int) (domain.PaperRow, bool) {
	i, ok := p.byNumber[number]
	if !ok {
		return domain.PaperRow{}, false
	}
	return p.papers[i], true
}

// ReviewerRows returns one row per seated reviewer, by canonical id.
func (p *Pass) ReviewerRows() []domain.PersonRow {
	return slices.Clone(p.reviewers)
}

// AreaChairRows returns one row per seated area chair, by canonical id.
func (p *Pass) AreaChairRows() []domain.PersonRow {
	return slices.Clone(p.areaChairs)
}

// Directory exposes the identity directory the pass resolved against.
// It is not safe for concurrent use.
func (p *Pass) Directory() *identity.Directory {
	return p.dir
}

// Issues lists everything the pass tolerated, data problems first and
// lookup misses last.
func (p *Pass) Issues() []Issue {
	return slices.Clone(p.issues)
}

// Totals rolls the pass up for digests and metrics.
func (p *Pass) Totals() Totals {
	t := Totals{Papers: len(p.papers), Issues: len(p.issues)}
	for _, row := range p.papers {
		if row.Complete {
			t.CompletePapers++
		}
		t.AssignedReviews += row.NumReviewers
		t.SubmittedReviews += row.NumSubmittedReviews
		t.SubmittedMetaReviews += row.NumMetaReviews
	}
	t.Reviewers = len(p.reviewers)
	for _, row := range p.reviewers {
		if row.Complete {
			t.CompleteReviewers++
		}
	}
	t.AreaChairs = len(p.areaChairs)
	for _, row := range p.areaChairs {
		if row.Complete {
			t.CompleteAreaChairs++
		}
	}
	return t
}
