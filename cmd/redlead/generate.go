package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calebmills/redlead/internal/model"
	"github.com/calebmills/redlead/internal/store"
)

var (
	postsLimit int
	dryRun     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one lead-generation pass and exit",
	Long:  "Fetches recent posts from every configured subreddit, filters by trigger phrases, categorizes, and records leads.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&postsLimit, "posts-limit", 0, "posts to fetch per subreddit (default: ingest.posts_limit from config)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and log but do not persist anything")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	limit := postsLimit
	if limit <= 0 {
		limit = cfg.Ingest.PostsLimit
	}

	var leadStore model.LeadStore
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		leadStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		leadStore = sqlStore
	}

	ing := buildIngestor(cfg, leadStore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := ing.Run(ctx, limit)
	if stats.Errors > 0 {
		logger.Warn("run finished with errors", "errors", stats.Errors)
	}
	return nil
}
