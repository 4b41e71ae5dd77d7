package model

import (
	"context"
	"time"
)

// LeadStatus tracks where a lead sits in the outreach funnel.
// The pipeline only ever creates leads as StatusNew; the other states are
// set manually from the browser.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusConverted LeadStatus = "converted"
	StatusLost      LeadStatus = "lost"
)

// Trigger classifies which phrase list matched a post title.
type Trigger string

const (
	TriggerNone  Trigger = ""
	TriggerOffer Trigger = "offer"
	TriggerTask  Trigger = "task"
)

// Lead is one unique Reddit author who produced at least one qualifying post.
// Exactly one Lead exists per RedditUsername (enforced by the store).
type Lead struct {
	ID             string // opaque UUID, assigned by the store
	RedditUsername string // unique, case-sensitive natural key
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CompanyName    string
	Status         LeadStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Post is one qualifying Reddit submission, owned by a Lead.
// RedditPostID is unique across all posts; inserting the same submission
// twice fails with ErrDuplicatePost.
type Post struct {
	ID           string // opaque UUID, assigned by the store
	LeadID       string
	RedditPostID string
	Title        string
	URL          string
	Subreddit    string
	Category     string // LLM-assigned label, or "Uncategorized"
	Trigger      Trigger
	PostedAt     *time.Time // nullable (submission creation time)
	CreatedAt    time.Time
}

// Submission is the normalized shape of one post fetched from a forum.
// Author is empty when the account is deleted or removed.
type Submission struct {
	ID        string
	Title     string
	URL       string
	Author    string
	CreatedAt time.Time
}

// ForumSource fetches recent submissions from a named channel, newest first,
// bounded by limit. Each call re-queries the provider.
type ForumSource interface {
	FetchRecent(ctx context.Context, subreddit string, limit int) ([]Submission, error)
}

// Categorizer maps a post title to a job-category label. Implementations
// never fail: on provider errors they return the "Uncategorized" sentinel.
type Categorizer interface {
	Categorize(ctx context.Context, title string) string
}

// LeadStore persists leads and posts with get-or-create and uniqueness
// semantics. CreatePost returns an error wrapping ErrDuplicatePost when the
// submission was already ingested.
type LeadStore interface {
	GetOrCreateLead(username string) (Lead, bool, error)
	CreatePost(post Post) (Post, error)
}

// LeadSummary is a Lead plus its post count, for list views.
type LeadSummary struct {
	Lead
	PostCount int
}

// LeadBrowser is the read/update side used by the interactive browser.
type LeadBrowser interface {
	ListLeads() ([]LeadSummary, error)
	ListPostsByLead(leadID string) ([]Post, error)
	UpdateLeadStatus(leadID string, status LeadStatus) error
}

// Notifier announces leads created during a pipeline run.
type Notifier interface {
	Notify(leads []Lead) error
}

// NextStatus returns the status following s in the funnel cycle.
// Used by the browser's status toggle.
func NextStatus(s LeadStatus) LeadStatus {
	switch s {
	case StatusNew:
		return StatusContacted
	case StatusContacted:
		return StatusQualified
	case StatusQualified:
		return StatusConverted
	case StatusConverted:
		return StatusLost
	default:
		return StatusNew
	}
}
