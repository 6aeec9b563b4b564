package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ReviewConsole/internal/progress"
)

const (
	configPathEnv = "REVIEW_CONSOLE_CONFIG"

	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// ErrInvalidRepository is returned for an unknown repository driver.
var ErrInvalidRepository = errors.New("invalid repository configuration")

// Config holds high-level settings required across the application.
type Config struct {
	Venue         VenueConfig        `yaml:"venue"`
	Aggregation   AggregationConfig  `yaml:"aggregation"`
	Repository    RepositoryConfig   `yaml:"repository"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// VenueConfig names the venue's groups and invitations.
type VenueConfig struct {
	ID                   string      `yaml:"id" env:"VENUE_ID"`
	SubmissionInvitation string      `yaml:"submissionInvitation"`
	ReviewInvitation     string      `yaml:"reviewInvitation"`
	MetaReviewInvitation string      `yaml:"metaReviewInvitation"`
	DecisionInvitation   string      `yaml:"decisionInvitation"`
	RankingInvitation    string      `yaml:"rankingInvitation"`
	LegacyNumbering      bool        `yaml:"legacyNumbering" env:"VENUE_LEGACY_NUMBERING"`
	Roles                RolesConfig `yaml:"roles"`
}

// RoleNaming is how one committee role's paper groups are named.
type RoleNaming struct {
	GroupName  string `yaml:"groupName"`
	AnonPrefix string `yaml:"anonPrefix"`
}

// RolesConfig groups the naming of every committee role.
type RolesConfig struct {
	Reviewer        RoleNaming `yaml:"reviewer"`
	AreaChair       RoleNaming `yaml:"areaChair"`
	SeniorAreaChair RoleNaming `yaml:"seniorAreaChair"`
}

// AggregationConfig selects note fields and the completion rule.
type AggregationConfig struct {
	Fields     progress.Fields           `yaml:"fields"`
	Completion progress.CompletionPolicy `yaml:"completion"`
}

// RepositoryConfig picks where snapshots come from.
type RepositoryConfig struct {
	Driver string `yaml:"driver" env:"REPOSITORY_DRIVER"`
	Path   string `yaml:"path" env:"SNAPSHOT_PATH"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
}

// SchedulerConfig defines how often watch mode refreshes.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval" env:"REFRESH_INTERVAL"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	APIURL   string `yaml:"apiUrl" env:"TELEGRAM_API_URL"`
	BotToken string `yaml:"botToken" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chatId" env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether digests can be sent.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig enables the /metrics endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Load starts from defaults, overlays the YAML file at path (or the one
// named by REVIEW_CONSOLE_CONFIG), then an optional .env file and the
// process environment. An unreadable file falls back to defaults; an
// invalid result is an error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	if err := c.Aggregation.Completion.Validate(); err != nil {
		return fmt.Errorf("aggregation.completion: %w", err)
	}
	switch c.Repository.Driver {
	case DriverFile:
		if c.Repository.Path == "" {
			return fmt.Errorf("%w: file driver needs a path", ErrInvalidRepository)
		}
	case DriverPostgres:
		if c.Repository.DSN == "" {
			return fmt.Errorf("%w: postgres driver needs a dsn", ErrInvalidRepository)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidRepository, c.Repository.Driver)
	}
	return nil
}

func defaultConfig() Config {
	venue := "Conf.org/2025/Conference"
	return Config{
		Venue: VenueConfig{
			ID:                   venue,
			SubmissionInvitation: venue + "/-/Submission",
			ReviewInvitation:     venue + "/Paper[0-9]+/-/Official_Review",
			MetaReviewInvitation: venue + "/Paper[0-9]+/-/Meta_Review",
			DecisionInvitation:   venue + "/Paper[0-9]+/-/Decision",
			RankingInvitation:    venue + "/Reviewers/-/Paper_Ranking",
			Roles: RolesConfig{
				Reviewer:        RoleNaming{GroupName: "Reviewers", AnonPrefix: "Reviewer_"},
				AreaChair:       RoleNaming{GroupName: "Area_Chairs", AnonPrefix: "Area_Chair_"},
				SeniorAreaChair: RoleNaming{GroupName: "Senior_Area_Chairs", AnonPrefix: "Senior_Area_Chair_"},
			},
		},
		Aggregation: AggregationConfig{
			Fields:     progress.DefaultFields(),
			Completion: progress.AllAssigned(),
		},
		Repository: RepositoryConfig{Driver: DriverFile, Path: "snapshot.yaml"},
		Scheduler:  SchedulerConfig{Interval: 15 * time.Minute},
		Logging:    LoggingConfig{Level: "info"},
	}
}
