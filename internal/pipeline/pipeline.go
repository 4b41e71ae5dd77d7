package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/calebmills/redlead/internal/model"
	"github.com/calebmills/redlead/internal/trigger"
)

// Ingestor owns the full ingestion pipeline for one run:
// fetch → recency filter → trigger filter → author filter → categorize → persist.
// A run is a best-effort single-pass batch: one bad item or one unreachable
// subreddit never aborts the rest of the run.
type Ingestor struct {
	subreddits  []string
	source      model.ForumSource
	classifier  *trigger.Classifier
	categorizer model.Categorizer
	store       model.LeadStore
	notifier    model.Notifier
	maxAge      time.Duration
	logger      *slog.Logger
}

// Stats summarizes one run. The run itself never fails; operational success
// is judged from the log and these counters.
type Stats struct {
	Fetched    int // submissions pulled from all subreddits
	Created    int // posts persisted
	NewLeads   int // leads created (vs. matched to an existing lead)
	Duplicates int // posts already ingested in a prior run
	Skipped    int // dropped by recency, trigger, or author filters
	Errors     int // channel fetch failures and unexpected per-item errors
}

// NewIngestor creates an ingestor wired with all its dependencies.
func NewIngestor(
	subreddits []string,
	source model.ForumSource,
	classifier *trigger.Classifier,
	categorizer model.Categorizer,
	store model.LeadStore,
	notifier model.Notifier,
	maxAge time.Duration,
	logger *slog.Logger,
) *Ingestor {
	return &Ingestor{
		subreddits:  subreddits,
		source:      source,
		classifier:  classifier,
		categorizer: categorizer,
		store:       store,
		notifier:    notifier,
		maxAge:      maxAge,
		logger:      logger,
	}
}

// Run executes one ingestion pass over all configured subreddits, fetching
// up to postsLimit submissions per subreddit. The recency cutoff is computed
// once at run start so it is stable across the whole run.
func (g *Ingestor) Run(ctx context.Context, postsLimit int) Stats {
	var stats Stats
	cutoff := time.Now().UTC().Add(-g.maxAge)

	g.logger.Info("starting lead generation run",
		"subreddits", len(g.subreddits),
		"posts_limit", postsLimit,
		"cutoff", cutoff,
	)

	var newLeads []model.Lead
	for _, subreddit := range g.subreddits {
		if ctx.Err() != nil {
			g.logger.Warn("run cancelled", "subreddit", subreddit)
			break
		}

		subs, err := g.source.FetchRecent(ctx, subreddit, postsLimit)
		if err != nil {
			// One unreachable subreddit must not abort the others.
			g.logger.Error("subreddit fetch failed", "subreddit", subreddit, "error", err)
			stats.Errors++
			continue
		}
		stats.Fetched += len(subs)
		g.logger.Info("compiling leads", "subreddit", subreddit, "fetched", len(subs))

		for _, sub := range subs {
			g.processSubmission(ctx, subreddit, sub, cutoff, &stats, &newLeads)
		}
	}

	if len(newLeads) > 0 && g.notifier != nil {
		if err := g.notifier.Notify(newLeads); err != nil {
			g.logger.Error("lead notification failed", "error", err)
		}
	}

	g.logger.Info("run complete",
		"fetched", stats.Fetched,
		"created", stats.Created,
		"new_leads", stats.NewLeads,
		"duplicates", stats.Duplicates,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	return stats
}

func (g *Ingestor) processSubmission(ctx context.Context, subreddit string, sub model.Submission, cutoff time.Time, stats *Stats, newLeads *[]model.Lead) {
	if sub.CreatedAt.Before(cutoff) {
		stats.Skipped++
		return
	}

	trig := g.classifier.Classify(sub.Title)
	if trig == model.TriggerNone {
		stats.Skipped++
		return
	}

	// A post with no resolvable author can never become a lead.
	if sub.Author == "" {
		stats.Skipped++
		return
	}

	category := g.categorizer.Categorize(ctx, sub.Title)

	lead, created, err := g.store.GetOrCreateLead(sub.Author)
	if err != nil {
		g.logger.Error("saving lead failed",
			"username", sub.Author, "post_id", sub.ID, "error", err)
		stats.Errors++
		return
	}

	postedAt := sub.CreatedAt
	_, err = g.store.CreatePost(model.Post{
		LeadID:       lead.ID,
		RedditPostID: sub.ID,
		Title:        sub.Title,
		URL:          sub.URL,
		Subreddit:    subreddit,
		Category:     category,
		Trigger:      trig,
		PostedAt:     &postedAt,
	})
	if errors.Is(err, model.ErrDuplicatePost) {
		// Expected on re-runs within the recency window.
		g.logger.Info("post already ingested",
			"username", sub.Author, "post_id", sub.ID)
		stats.Duplicates++
		return
	}
	if err != nil {
		g.logger.Error("saving post failed",
			"username", sub.Author, "post_id", sub.ID, "error", err)
		stats.Errors++
		return
	}

	stats.Created++
	if created {
		stats.NewLeads++
		*newLeads = append(*newLeads, lead)
	}

	verb := "matched"
	if created {
		verb = "created"
	}
	g.logger.Info(verb+" lead",
		"username", sub.Author,
		"post_id", sub.ID,
		"subreddit", subreddit,
		"trigger", trig,
		"category", category,
	)
}
