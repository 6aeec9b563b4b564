package ports

import (
	"context"
	"time"

	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/progress"
)

// NoteFilter narrows a note fetch. Zero values mean no restriction.
type NoteFilter struct {
	Forums []string
}

// DataRepository delivers venue data already decoded and fully paged.
// Patterns are regular expressions matched against ids and invitations.
type DataRepository interface {
	FetchGroups(ctx context.Context, idPattern string) ([]domain.Group, error)
	FetchNotes(ctx context.Context, invitationPattern string, filter NoteFilter) ([]domain.Note, error)
	FetchTags(ctx context.Context, invitation string) ([]domain.Tag, error)
	FetchProfiles(ctx context.Context, idsOrEmails []string) ([]domain.Profile, error)
}

// ContentMeter measures the readable length of free-text note content.
type ContentMeter interface {
	Measure(text string) int
}

// Notifier streams progress digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// PassRecorder observes aggregation passes and query failures.
type PassRecorder interface {
	ObservePass(totals progress.Totals, issues []progress.Issue, took time.Duration)
	ObserveQueryError(view string)
}

// Scheduler controls when refreshes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
