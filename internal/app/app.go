package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"ReviewConsole/internal/config"
	"ReviewConsole/internal/console"
	"ReviewConsole/internal/domain"
	"ReviewConsole/internal/identity"
	"ReviewConsole/internal/infrastructure/parser"
	"ReviewConsole/internal/infrastructure/scheduler"
	"ReviewConsole/internal/infrastructure/snapshot"
	"ReviewConsole/internal/infrastructure/storage"
	"ReviewConsole/internal/infrastructure/telegram"
	"ReviewConsole/internal/logging"
	"ReviewConsole/internal/metrics"
	"ReviewConsole/internal/ports"
	"ReviewConsole/internal/progress"
	"ReviewConsole/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	console   *usecase.Console
	scheduler *usecase.Scheduler
	registry  *prometheus.Registry
	db        *sql.DB
}

// New builds the application. A postgres repository is connected and
// migrated here, so ctx bounds the connection attempt.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	repository, err := a.repository(ctx)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifier = telegram.NewNotifier(tg.APIURL, tg.BotToken, tg.ChatID)
	}

	var recorder ports.PassRecorder
	if cfg.Metrics.Addr != "" {
		a.registry = prometheus.NewRegistry()
		recorder = metrics.New(a.registry)
	}

	a.console = usecase.NewConsole(usecase.ConsoleDeps{
		Repository: repository,
		Meter:      parser.NewMarkdownMeter(),
		Notifier:   notifier,
		Recorder:   recorder,
		Views:      console.DefaultRegistry(),
		Sources:    SourcesFrom(cfg.Venue),
		Options:    OptionsFrom(cfg),
		Logger:     baseLogger.With("component", "console"),
	})
	a.scheduler = usecase.NewScheduler(
		scheduler.NewIntervalScheduler(cfg.Scheduler.Interval),
		a.console,
		baseLogger.With("component", "scheduler"),
	)
	return a, nil
}

func (a *Application) repository(ctx context.Context) (ports.DataRepository, error) {
	switch a.cfg.Repository.Driver {
	case config.DriverPostgres:
		db, err := storage.Open(ctx, a.cfg.Repository.DSN)
		if err != nil {
			return nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		return repo, nil
	case config.DriverFile:
		return snapshot.NewFileRepository(a.cfg.Repository.Path), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalidRepository, a.cfg.Repository.Driver)
	}
}

// OptionsFrom maps venue naming and aggregation settings onto a pass.
func OptionsFrom(cfg config.Config) progress.Options {
	opts := progress.DefaultOptions()
	roles := cfg.Venue.Roles

	opts.Reviewer = schemeFor(domain.RoleReviewer, roles.Reviewer, identity.ReviewerScheme)
	if cfg.Venue.LegacyNumbering {
		opts.Reviewer.AnonPrefix = identity.LegacyReviewerScheme.AnonPrefix
	}
	opts.AreaChair = schemeFor(domain.RoleAreaChair, roles.AreaChair, identity.AreaChairScheme)
	opts.SeniorAreaChair = schemeFor(domain.RoleSeniorAreaChair, roles.SeniorAreaChair, identity.SeniorAreaChairScheme)

	opts.Fields = cfg.Aggregation.Fields
	opts.Policy = cfg.Aggregation.Completion
	return opts
}

func schemeFor(role domain.Role, naming config.RoleNaming, fallback identity.Scheme) identity.Scheme {
	scheme := identity.Scheme{Role: role, GroupName: naming.GroupName, AnonPrefix: naming.AnonPrefix}
	if scheme.GroupName == "" {
		scheme.GroupName = fallback.GroupName
	}
	if scheme.AnonPrefix == "" {
		scheme.AnonPrefix = fallback.AnonPrefix
	}
	return scheme
}

// SourcesFrom lists the venue invitations a refresh fetches.
func SourcesFrom(venue config.VenueConfig) usecase.Sources {
	return usecase.Sources{
		VenueID:     venue.ID,
		Submissions: venue.SubmissionInvitation,
		Reviews:     venue.ReviewInvitation,
		MetaReviews: venue.MetaReviewInvitation,
		Decisions:   venue.DecisionInvitation,
		Rankings:    venue.RankingInvitation,
	}
}

// Console exposes the underlying use case.
func (a *Application) Console() *usecase.Console {
	return a.console
}

// Render refreshes once and renders a single view.
func (a *Application) Render(ctx context.Context, view string, req console.Request) (console.Table, error) {
	if _, err := a.console.Refresh(ctx); err != nil {
		return console.Table{}, err
	}
	return a.console.Render(view, req)
}

// Watch refreshes on the configured interval, publishing digests and
// serving metrics, until ctx is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if a.registry != nil {
		addr := a.cfg.Metrics.Addr
		g.Go(func() error {
			a.logger.Info("serving metrics", "addr", addr)
			if err := metrics.Serve(ctx, addr, a.registry); err != nil {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
	}

	if err := a.scheduler.Start(ctx); err != nil {
		cancel()
		_ = g.Wait()
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching venue", "venue", a.cfg.Venue.ID, "interval", a.cfg.Scheduler.Interval)

	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.scheduler.Stop(stopCtx)
	})

	return g.Wait()
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
