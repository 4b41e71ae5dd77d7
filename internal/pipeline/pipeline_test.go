package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/calebmills/redlead/internal/ai"
	"github.com/calebmills/redlead/internal/model"
	"github.com/calebmills/redlead/internal/trigger"
)

// --- Fakes ---

// MockSource serves canned submissions (or an error) per subreddit.
type MockSource struct {
	Subs map[string][]model.Submission
	Errs map[string]error
}

func (m *MockSource) FetchRecent(_ context.Context, subreddit string, _ int) ([]model.Submission, error) {
	if err := m.Errs[subreddit]; err != nil {
		return nil, err
	}
	return m.Subs[subreddit], nil
}

// InMemoryStore enforces the same uniqueness semantics as the SQLite store.
type InMemoryStore struct {
	leadsByName map[string]model.Lead
	postsByRID  map[string]model.Post
	nextID      int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		leadsByName: make(map[string]model.Lead),
		postsByRID:  make(map[string]model.Post),
	}
}

func (s *InMemoryStore) GetOrCreateLead(username string) (model.Lead, bool, error) {
	if lead, ok := s.leadsByName[username]; ok {
		return lead, false, nil
	}
	s.nextID++
	lead := model.Lead{
		ID:             fmt.Sprintf("lead-%d", s.nextID),
		RedditUsername: username,
		Status:         model.StatusNew,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	s.leadsByName[username] = lead
	return lead, true, nil
}

func (s *InMemoryStore) CreatePost(post model.Post) (model.Post, error) {
	if _, ok := s.postsByRID[post.RedditPostID]; ok {
		return model.Post{}, fmt.Errorf("post %s: %w", post.RedditPostID, model.ErrDuplicatePost)
	}
	s.nextID++
	post.ID = fmt.Sprintf("post-%d", s.nextID)
	s.postsByRID[post.RedditPostID] = post
	return post, nil
}

// RecordingNotifier records which leads were announced.
type RecordingNotifier struct {
	Notified []model.Lead
}

func (n *RecordingNotifier) Notify(leads []model.Lead) error {
	n.Notified = append(n.Notified, leads...)
	return nil
}

// staticCategorizer returns a fixed label.
type staticCategorizer struct{ label string }

func (c staticCategorizer) Categorize(_ context.Context, _ string) string { return c.label }

// failingProvider simulates a classification provider that is down.
type failingProvider struct{}

func (failingProvider) Complete(_ context.Context, _ string) (string, error) {
	return "", errors.New("provider unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultClassifier() *trigger.Classifier {
	return trigger.NewClassifier([]string{"[FOR HIRE]"}, []string{"[TASK]"})
}

func submission(id, title, author string, age time.Duration) model.Submission {
	return model.Submission{
		ID:        id,
		Title:     title,
		URL:       "https://reddit.com/r/forhire/" + id,
		Author:    author,
		CreatedAt: time.Now().UTC().Add(-age),
	}
}

func newIngestor(source model.ForumSource, store model.LeadStore, notifier model.Notifier, cat model.Categorizer) *Ingestor {
	return NewIngestor(
		[]string{"forhire"},
		source,
		defaultClassifier(),
		cat,
		store,
		notifier,
		24*time.Hour,
		discardLogger(),
	)
}

// --- Tests ---

func TestRun_CreatesLeadAndPost(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {submission("abc123", "[TASK] need a logo", "alice", time.Hour)},
	}}
	store := NewInMemoryStore()
	notifier := &RecordingNotifier{}

	stats := newIngestor(source, store, notifier, staticCategorizer{"Design"}).
		Run(context.Background(), 10)

	if stats.Created != 1 || stats.NewLeads != 1 {
		t.Errorf("stats = %+v, want 1 created and 1 new lead", stats)
	}

	lead, ok := store.leadsByName["alice"]
	if !ok {
		t.Fatal("expected lead for alice")
	}
	if lead.Status != model.StatusNew {
		t.Errorf("lead status = %q, want new", lead.Status)
	}

	post, ok := store.postsByRID["abc123"]
	if !ok {
		t.Fatal("expected post abc123")
	}
	if post.Trigger != model.TriggerTask {
		t.Errorf("trigger = %q, want task", post.Trigger)
	}
	if post.Category != "Design" {
		t.Errorf("category = %q, want Design", post.Category)
	}
	if post.LeadID != lead.ID {
		t.Errorf("post owner = %q, want %q", post.LeadID, lead.ID)
	}
	if post.Subreddit != "forhire" {
		t.Errorf("subreddit = %q", post.Subreddit)
	}

	if len(notifier.Notified) != 1 || notifier.Notified[0].RedditUsername != "alice" {
		t.Errorf("notified = %+v, want alice", notifier.Notified)
	}
}

func TestRun_MissingAuthorSkipped(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {submission("abc123", "[TASK] need a logo", "", time.Hour)},
	}}
	store := NewInMemoryStore()

	stats := newIngestor(source, store, &RecordingNotifier{}, staticCategorizer{"Design"}).
		Run(context.Background(), 10)

	if len(store.leadsByName) != 0 || len(store.postsByRID) != 0 {
		t.Errorf("expected no rows, got %d leads %d posts", len(store.leadsByName), len(store.postsByRID))
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}

func TestRun_NoTriggerDropped(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {submission("abc123", "Looking for freelancing advice", "alice", time.Hour)},
	}}
	store := NewInMemoryStore()

	newIngestor(source, store, &RecordingNotifier{}, staticCategorizer{"Design"}).
		Run(context.Background(), 10)

	if len(store.postsByRID) != 0 {
		t.Errorf("expected no posts for untriggered title")
	}
}

func TestRun_RecencyCutoff(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {
			submission("fresh", "[TASK] fresh task", "alice", time.Hour),
			submission("stale", "[TASK] day-old task", "bob", 25*time.Hour),
		},
	}}
	store := NewInMemoryStore()

	newIngestor(source, store, &RecordingNotifier{}, staticCategorizer{"Design"}).
		Run(context.Background(), 10)

	if _, ok := store.postsByRID["fresh"]; !ok {
		t.Error("fresh post should be persisted")
	}
	if _, ok := store.postsByRID["stale"]; ok {
		t.Error("stale post should never be persisted, regardless of trigger")
	}
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {submission("abc123", "[TASK] need a logo", "alice", time.Hour)},
	}}
	store := NewInMemoryStore()
	ing := newIngestor(source, store, &RecordingNotifier{}, staticCategorizer{"Design"})

	first := ing.Run(context.Background(), 10)
	second := ing.Run(context.Background(), 10)

	if first.Created != 1 {
		t.Errorf("first run Created = %d, want 1", first.Created)
	}
	if second.Created != 0 || second.NewLeads != 0 {
		t.Errorf("second run = %+v, want no new rows", second)
	}
	if second.Duplicates != 1 {
		t.Errorf("second run Duplicates = %d, want 1", second.Duplicates)
	}
	if len(store.leadsByName) != 1 || len(store.postsByRID) != 1 {
		t.Errorf("store has %d leads %d posts, want 1/1", len(store.leadsByName), len(store.postsByRID))
	}
}

func TestRun_SameAuthorAcrossChannelsOneLead(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire":     {submission("p1", "[TASK] logo", "alice", time.Hour)},
		"slavelabour": {submission("p2", "[TASK] banner", "alice", 2*time.Hour)},
	}}
	store := NewInMemoryStore()
	notifier := &RecordingNotifier{}

	ing := NewIngestor(
		[]string{"forhire", "slavelabour"},
		source, defaultClassifier(), staticCategorizer{"Design"},
		store, notifier, 24*time.Hour, discardLogger(),
	)
	stats := ing.Run(context.Background(), 10)

	if len(store.leadsByName) != 1 {
		t.Errorf("got %d leads, want exactly 1 for alice", len(store.leadsByName))
	}
	if stats.Created != 2 {
		t.Errorf("Created = %d, want 2 posts", stats.Created)
	}
	if stats.NewLeads != 1 || len(notifier.Notified) != 1 {
		t.Errorf("NewLeads = %d, notified = %d; want 1/1", stats.NewLeads, len(notifier.Notified))
	}
}

func TestRun_ChannelFailureDoesNotAbortRun(t *testing.T) {
	source := &MockSource{
		Subs: map[string][]model.Submission{
			"slavelabour": {submission("p2", "[TASK] banner", "bob", time.Hour)},
		},
		Errs: map[string]error{"forhire": errors.New("subreddit unreachable")},
	}
	store := NewInMemoryStore()

	ing := NewIngestor(
		[]string{"forhire", "slavelabour"},
		source, defaultClassifier(), staticCategorizer{"Design"},
		store, &RecordingNotifier{}, 24*time.Hour, discardLogger(),
	)
	stats := ing.Run(context.Background(), 10)

	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if _, ok := store.postsByRID["p2"]; !ok {
		t.Error("second subreddit should still be processed after first fails")
	}
}

func TestRun_ProviderOutageDegradesToUncategorized(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {
			submission("p1", "[TASK] logo", "alice", time.Hour),
			submission("p2", "[FOR HIRE] designer", "bob", time.Hour),
		},
	}}
	store := NewInMemoryStore()

	// Real categorizer over a provider that fails on every call.
	cat := ai.NewLLMCategorizer(failingProvider{}, ai.CategorizeTemplate, nil, discardLogger())
	stats := newIngestor(source, store, &RecordingNotifier{}, cat).
		Run(context.Background(), 10)

	if stats.Created != 2 {
		t.Fatalf("Created = %d, want 2 despite provider outage", stats.Created)
	}
	for _, rid := range []string{"p1", "p2"} {
		if got := store.postsByRID[rid].Category; got != ai.Uncategorized {
			t.Errorf("post %s category = %q, want %q", rid, got, ai.Uncategorized)
		}
	}
}

func TestRun_TaskPrecedenceOverOffer(t *testing.T) {
	source := &MockSource{Subs: map[string][]model.Submission{
		"forhire": {submission("p1", "[FOR HIRE] [TASK] double tagged", "alice", time.Hour)},
	}}
	store := NewInMemoryStore()

	newIngestor(source, store, &RecordingNotifier{}, staticCategorizer{"Design"}).
		Run(context.Background(), 10)

	if got := store.postsByRID["p1"].Trigger; got != model.TriggerTask {
		t.Errorf("trigger = %q, want task precedence", got)
	}
}
