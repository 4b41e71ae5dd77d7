package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calebmills/redlead/internal/scheduler"
	"github.com/calebmills/redlead/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run lead generation on an interval",
	Long:  "Runs one pass immediately, then repeats on ingest.interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"subreddits", len(cfg.Subreddits),
		"posts_limit", cfg.Ingest.PostsLimit,
		"max_age", cfg.Ingest.MaxAge.String(),
		"interval", cfg.Ingest.Interval.String(),
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	ing := buildIngestor(cfg, sqlStore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ing, cfg.Ingest.Interval, cfg.Ingest.PostsLimit, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("watch loop error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
