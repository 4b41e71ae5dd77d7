package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for redlead.
type Config struct {
	Reddit       RedditConfig
	AI           AIConfig
	Subreddits   []string
	Triggers     TriggerConfig
	Categories   []Category
	Ingest       IngestConfig
	Notification NotificationConfig
	Store        StoreConfig
}

// RedditConfig holds the OAuth credentials for the Reddit API.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	UserAgent    string
	Timeout      time.Duration // per-request timeout
}

// AIConfig controls the LLM categorization layer.
type AIConfig struct {
	Enabled bool
	BaseURL string        // defaults to the Gemini API endpoint
	Model   string        // e.g. "gemini-2.0-flash"
	APIKey  string        // expanded from env var by Load
	Timeout time.Duration // per-request timeout
}

// TriggerConfig holds the ordered phrase lists scanned against post titles.
type TriggerConfig struct {
	OfferPhrases []string
	TaskPhrases  []string
}

// Category is one entry of the job-category taxonomy handed to the LLM.
// Declared as a list so prompt order is deterministic.
type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// IngestConfig controls the ingestion run itself.
type IngestConfig struct {
	PostsLimit int           // posts fetched per subreddit
	MaxAge     time.Duration // recency window; older posts are dropped
	MinDelay   time.Duration // minimum gap between Reddit API calls
	Interval   time.Duration // watch-mode run interval
}

// NotificationConfig controls which notifier announces new leads.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Reddit       rawRedditConfig    `yaml:"reddit"`
	AI           rawAIConfig        `yaml:"ai"`
	Subreddits   []string           `yaml:"subreddits"`
	Triggers     rawTriggerConfig   `yaml:"triggers"`
	Categories   []Category         `yaml:"categories"`
	Ingest       rawIngestConfig    `yaml:"ingest"`
	Notification NotificationConfig `yaml:"notification"`
	Store        StoreConfig        `yaml:"store"`
}

type rawRedditConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	UserAgent    string `yaml:"user_agent"`
	Timeout      string `yaml:"timeout"`
}

type rawAIConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawTriggerConfig struct {
	OfferPhrases []string `yaml:"offer_phrases"`
	TaskPhrases  []string `yaml:"task_phrases"`
}

type rawIngestConfig struct {
	PostsLimit int    `yaml:"posts_limit"`
	MaxAge     string `yaml:"max_age"`
	MinDelay   string `yaml:"min_delay"`
	Interval   string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables so secrets can live outside the file.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	redditTimeout, err := parseDurationDefault(raw.Reddit.Timeout, 30*time.Second, "reddit.timeout")
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDurationDefault(raw.AI.Timeout, 30*time.Second, "ai.timeout")
	if err != nil {
		return nil, err
	}
	maxAge, err := parseDurationDefault(raw.Ingest.MaxAge, 24*time.Hour, "ingest.max_age")
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDurationDefault(raw.Ingest.MinDelay, 2*time.Second, "ingest.min_delay")
	if err != nil {
		return nil, err
	}
	interval, err := parseDurationDefault(raw.Ingest.Interval, 15*time.Minute, "ingest.interval")
	if err != nil {
		return nil, err
	}

	postsLimit := raw.Ingest.PostsLimit
	if postsLimit == 0 {
		postsLimit = 10
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultGeminiBaseURL
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = "leads.db"
	}

	cfg := &Config{
		Reddit: RedditConfig{
			ClientID:     raw.Reddit.ClientID,
			ClientSecret: raw.Reddit.ClientSecret,
			RefreshToken: raw.Reddit.RefreshToken,
			UserAgent:    raw.Reddit.UserAgent,
			Timeout:      redditTimeout,
		},
		AI: AIConfig{
			Enabled: raw.AI.Enabled,
			BaseURL: aiBaseURL,
			Model:   raw.AI.Model,
			APIKey:  raw.AI.APIKey,
			Timeout: aiTimeout,
		},
		Subreddits: raw.Subreddits,
		Triggers: TriggerConfig{
			OfferPhrases: raw.Triggers.OfferPhrases,
			TaskPhrases:  raw.Triggers.TaskPhrases,
		},
		Categories: raw.Categories,
		Ingest: IngestConfig{
			PostsLimit: postsLimit,
			MaxAge:     maxAge,
			MinDelay:   minDelay,
			Interval:   interval,
		},
		Notification: raw.Notification,
		Store:        StoreConfig{Path: storePath},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDurationDefault(raw string, def time.Duration, field string) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if len(cfg.Subreddits) == 0 {
		return fmt.Errorf("at least one subreddit is required")
	}
	for _, s := range cfg.Subreddits {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("subreddit names must be non-empty")
		}
	}

	if len(cfg.Triggers.OfferPhrases) == 0 && len(cfg.Triggers.TaskPhrases) == 0 {
		return fmt.Errorf("at least one trigger phrase (offer or task) is required")
	}

	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" || cfg.Reddit.RefreshToken == "" {
		return fmt.Errorf("reddit.client_id, reddit.client_secret and reddit.refresh_token are required")
	}
	if cfg.Reddit.UserAgent == "" {
		return fmt.Errorf("reddit.user_agent is required (Reddit rejects requests without one)")
	}

	if cfg.Ingest.PostsLimit < 1 || cfg.Ingest.PostsLimit > 100 {
		return fmt.Errorf("ingest.posts_limit must be between 1 and 100, got %d", cfg.Ingest.PostsLimit)
	}
	if cfg.Ingest.MaxAge <= 0 {
		return fmt.Errorf("ingest.max_age must be positive, got %v", cfg.Ingest.MaxAge)
	}
	if cfg.Ingest.Interval <= 0 {
		return fmt.Errorf("ingest.interval must be positive, got %v", cfg.Ingest.Interval)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
		if len(cfg.Categories) == 0 {
			return fmt.Errorf("at least one category is required when ai.enabled is true")
		}
		for _, c := range cfg.Categories {
			if c.Name == "" {
				return fmt.Errorf("every category needs a name")
			}
		}
	}

	return nil
}
