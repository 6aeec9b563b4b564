package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"ReviewConsole/internal/app"
	"ReviewConsole/internal/config"
	"ReviewConsole/internal/console"
	"ReviewConsole/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   string
		snapshotPath string
		view         string
		req          console.Request
		watch        bool
		digest       bool
	)

	flagSet := pflag.NewFlagSet("reviewconsole", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: $REVIEW_CONSOLE_CONFIG)")
	flagSet.StringVar(&snapshotPath, "snapshot", "", "read venue data from this snapshot file instead of the configured repository")
	flagSet.StringVarP(&view, "view", "v", console.ViewPapers, "view to render: papers, reviewers or areachairs")
	flagSet.StringVarP(&req.Query, "query", "q", "", `search text, or a "+" prefixed filter expression`)
	flagSet.StringVarP(&req.SortBy, "sort", "s", "", "property to sort by")
	flagSet.BoolVar(&req.Desc, "desc", false, "sort descending")
	flagSet.BoolVar(&watch, "watch", false, "refresh on the configured interval until interrupted")
	flagSet.BoolVar(&digest, "digest", false, "print the progress digest instead of a view")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if snapshotPath != "" {
		cfg.Repository.Driver = config.DriverFile
		cfg.Repository.Path = snapshotPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(cfg.Logging.Level)
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if watch {
		if err := application.Watch(ctx); err != nil {
			logger.Error("application stopped", "error", err)
			return err
		}
		return nil
	}

	if digest {
		if _, err := application.Console().Refresh(ctx); err != nil {
			return err
		}
		fmt.Println(application.Console().Digest())
		return nil
	}

	table, renderErr := application.Render(ctx, view, req)
	if table.View != "" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(table); err != nil {
			return fmt.Errorf("encode table: %w", err)
		}
	}
	return renderErr
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `reviewconsole renders peer-review progress for a venue.

Usage:
  reviewconsole [flags]

Examples:
  # Papers still missing reviews, most missing first
  reviewconsole --snapshot venue.yaml -q '+missing>0' -s missing --desc

  # Reviewers matching a name or email
  reviewconsole -v reviewers -q lee

Flags:
`)
	flagSet.PrintDefaults()
}
