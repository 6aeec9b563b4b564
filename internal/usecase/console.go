package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ReviewConsole/internal/console"
	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/ports"
	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/query"
)

// ErrNoPass is returned when rendering before the first refresh.
var ErrNoPass = errors.New("no aggregation pass loaded")

// Sources names what to fetch for one venue. Empty invitations are skipped.
type Sources struct {
	VenueID     string
	Submissions string
	Reviews     string
	MetaReviews string
	Decisions   string
	Rankings    string
}

// GroupPattern matches every paper-scoped group of the venue.
func (s Sources) GroupPattern() string {
	return "^" + regexp.QuoteMeta(s.VenueID) + `/Paper[0-9]+/`
}

// ConsoleDeps wires the driven adapters into the console use case.
type ConsoleDeps struct {
	Repository ports.DataRepository
	Meter      ports.ContentMeter
	Notifier   ports.Notifier
	Recorder   ports.PassRecorder
	Views      *console.Registry
	Sources    Sources
	Options    progress.Options
	Logger     *slog.Logger
}

// Console fetches venue snapshots, aggregates them into passes and renders
// views over the latest pass. A refresh replaces the pass wholesale.
type Console struct {
	repository ports.DataRepository
	notifier   ports.Notifier
	recorder   ports.PassRecorder
	views      *console.Registry
	sources    Sources
	options    progress.Options
	logger     *slog.Logger
	session    *Session

	mu     sync.RWMutex
	pass   *progress.Pass
	passID string
}

// NewConsole constructs the console use case.
func NewConsole(deps ConsoleDeps) *Console {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	views := deps.Views
	if views == nil {
		views = console.DefaultRegistry()
	}
	options := deps.Options
	if deps.Meter != nil {
		options.Measure = deps.Meter.Measure
	}

	return &Console{
		repository: deps.Repository,
		notifier:   deps.Notifier,
		recorder:   deps.Recorder,
		views:      views,
		sources:    deps.Sources,
		options:    options,
		logger:     logger,
		session:    NewSession(),
	}
}

// Refresh fetches a fresh snapshot and makes it the current pass.
func (c *Console) Refresh(ctx context.Context) (*progress.Pass, error) {
	if c.repository == nil {
		return nil, fmt.Errorf("refresh: no data repository configured")
	}

	snapshot, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return c.Load(snapshot), nil
}

// Load aggregates an already fetched snapshot and makes it the current pass.
func (c *Console) Load(snapshot domain.Snapshot) *progress.Pass {
	start := time.Now()
	passID := uuid.NewString()
	pass := progress.NewPass(snapshot, c.options)
	took := time.Since(start)

	issues := pass.Issues()
	for _, issue := range issues {
		c.logger.Warn("pass issue",
			"pass_id", passID,
			"kind", issue.Kind,
			"paper", issue.Paper,
			"subject", issue.Subject,
			"detail", issue.Detail)
	}

	totals := pass.Totals()
	c.logger.Info("pass complete",
		"pass_id", passID,
		"papers", totals.Papers,
		"complete_papers", totals.CompletePapers,
		"issues", totals.Issues,
		"took", took)

	if c.recorder != nil {
		c.recorder.ObservePass(totals, issues, took)
	}

	c.mu.Lock()
	c.pass = pass
	c.passID = passID
	c.mu.Unlock()

	return pass
}

func (c *Console) fetch(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		groups, err := c.repository.FetchGroups(gctx, c.sources.GroupPattern())
		if err != nil {
			return fmt.Errorf("groups: %w", err)
		}
		snapshot.Groups = groups
		return nil
	})
	c.fetchNotes(gctx, g, c.sources.Submissions, &snapshot.Submissions)
	c.fetchNotes(gctx, g, c.sources.Reviews, &snapshot.Reviews)
	c.fetchNotes(gctx, g, c.sources.MetaReviews, &snapshot.MetaReviews)
	c.fetchNotes(gctx, g, c.sources.Decisions, &snapshot.Decisions)
	if c.sources.Rankings != "" {
		g.Go(func() error {
			tags, err := c.repository.FetchTags(gctx, c.sources.Rankings)
			if err != nil {
				return fmt.Errorf("tags %s: %w", c.sources.Rankings, err)
			}
			snapshot.Tags = tags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}

	aliases := profileAliases(snapshot)
	if len(aliases) == 0 {
		return snapshot, nil
	}
	profiles, err := c.repository.FetchProfiles(ctx, aliases)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("profiles: %w", err)
	}
	snapshot.Profiles = profiles
	return snapshot, nil
}

func (c *Console) fetchNotes(ctx context.Context, g *errgroup.Group, invitation string, dst *[]domain.Note) {
	if invitation == "" {
		return
	}
	g.Go(func() error {
		notes, err := c.repository.FetchNotes(ctx, invitation, ports.NoteFilter{})
		if err != nil {
			return fmt.Errorf("notes %s: %w", invitation, err)
		}
		*dst = notes
		return nil
	})
}

// profileAliases collects group members and canonical signers, the
// identities a pass will try to resolve.
func profileAliases(snapshot domain.Snapshot) []string {
	seen := make(map[string]struct{})
	add := func(alias string) {
		alias = strings.TrimSpace(alias)
		if alias == "" || strings.Contains(alias, "/") {
			return
		}
		seen[alias] = struct{}{}
	}

	for _, group := range snapshot.Groups {
		for _, member := range group.Members {
			add(member)
		}
	}
	for _, notes := range [][]domain.Note{snapshot.Reviews, snapshot.MetaReviews} {
		for _, note := range notes {
			for _, sig := range note.Signatures {
				add(sig)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for alias := range seen {
		out = append(out, alias)
	}
	slices.Sort(out)
	return out
}

// Pass returns the current pass and its id, or nil before the first load.
func (c *Console) Pass() (*progress.Pass, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pass, c.passID
}

// Render applies a request to a view of the current pass. A malformed
// query yields the session's fallback table together with the
// *query.ParseError.
func (c *Console) Render(viewName string, req console.Request) (console.Table, error) {
	view, err := c.views.Resolve(viewName)
	if err != nil {
		return console.Table{}, err
	}

	pass, passID := c.Pass()
	if pass == nil {
		return console.Table{}, ErrNoPass
	}

	table, err := c.session.Render(pass, view, req)
	var parseErr *query.ParseError
	if errors.As(err, &parseErr) {
		c.logger.Warn("invalid query",
			"pass_id", passID,
			"view", viewName,
			"query", req.Query,
			"error", parseErr)
		if c.recorder != nil {
			c.recorder.ObserveQueryError(viewName)
		}
	}
	return table, err
}

// Digest summarizes the current pass for notifications.
func (c *Console) Digest() string {
	pass, passID := c.Pass()
	if pass == nil {
		return ""
	}
	return buildDigestMessage(passID, pass)
}

// RefreshAndNotify is the scheduled job: refresh, then publish a digest.
func (c *Console) RefreshAndNotify(ctx context.Context, trigger time.Time) error {
	if _, err := c.Refresh(ctx); err != nil {
		return err
	}
	if c.notifier == nil {
		return nil
	}
	if err := c.notifier.PublishDigest(ctx, c.Digest()); err != nil {
		return fmt.Errorf("publish digest for %s: %w", trigger.Format(time.RFC3339), err)
	}
	return nil
}
