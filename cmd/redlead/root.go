package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/calebmills/redlead/internal/ai"
	"github.com/calebmills/redlead/internal/config"
	"github.com/calebmills/redlead/internal/model"
	"github.com/calebmills/redlead/internal/notifier"
	"github.com/calebmills/redlead/internal/pipeline"
	"github.com/calebmills/redlead/internal/ratelimit"
	"github.com/calebmills/redlead/internal/reddit"
	"github.com/calebmills/redlead/internal/trigger"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "redlead",
	Short: "Reddit lead radar — turn qualifying posts into leads",
	Long:  "redlead polls subreddits for trigger-tagged posts, categorizes them with an LLM, and records one deduplicated lead per author.",
	// Default to `generate` so that `redlead` with no args runs one batch pass.
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: REDLEAD_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > REDLEAD_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("REDLEAD_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupCategorizer(cfg *config.Config, logger *slog.Logger) model.Categorizer {
	if !cfg.AI.Enabled {
		logger.Info("ai disabled, posts will be Uncategorized")
		return ai.NewStaticCategorizer()
	}
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := ai.NewGeminiProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	return ai.NewLLMCategorizer(provider, ai.CategorizeTemplate, cfg.Categories, logger)
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildIngestor wires the full pipeline against the given store.
func buildIngestor(cfg *config.Config, leadStore model.LeadStore, logger *slog.Logger) *pipeline.Ingestor {
	httpClient := &http.Client{Timeout: cfg.Reddit.Timeout}

	var source model.ForumSource = reddit.NewClient(cfg.Reddit, httpClient)
	limiter := ratelimit.NewLimiter(cfg.Ingest.MinDelay)
	source = ratelimit.NewRateLimitedSource(source, limiter, "oauth.reddit.com")

	classifier := trigger.NewClassifier(cfg.Triggers.OfferPhrases, cfg.Triggers.TaskPhrases)
	categorizer := setupCategorizer(cfg, logger)
	n := setupNotifier(cfg, httpClient, logger)

	return pipeline.NewIngestor(
		cfg.Subreddits,
		source,
		classifier,
		categorizer,
		leadStore,
		n,
		cfg.Ingest.MaxAge,
		logger,
	)
}
