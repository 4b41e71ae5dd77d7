package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/calebmills/redlead/internal/model"
)

// Ensure SQLiteStore satisfies both sides of the storage contract.
var (
	_ model.LeadStore   = (*SQLiteStore)(nil)
	_ model.LeadBrowser = (*SQLiteStore)(nil)
)

// SQLiteStore persists leads and posts in a SQLite database. Uniqueness of
// reddit_username and reddit_post_id is enforced by UNIQUE constraints, so
// dedup holds even against concurrent writers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the leads and posts tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	// Cascade delete from leads to posts needs FK enforcement switched on.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS leads (
		id              TEXT PRIMARY KEY,
		reddit_username TEXT NOT NULL UNIQUE,
		first_name      TEXT NOT NULL DEFAULT '',
		last_name       TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		phone           TEXT NOT NULL DEFAULT '',
		company_name    TEXT NOT NULL DEFAULT '',
		lead_status     TEXT NOT NULL DEFAULT 'new',
		created_at      DATETIME NOT NULL,
		updated_at      DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS posts (
		id             TEXT PRIMARY KEY,
		lead_id        TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		reddit_post_id TEXT NOT NULL UNIQUE,
		post_title     TEXT NOT NULL,
		post_url       TEXT NOT NULL,
		subreddit      TEXT NOT NULL,
		post_category  TEXT NOT NULL DEFAULT '',
		post_trigger   TEXT NOT NULL,
		post_time      DATETIME,
		created_at     DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_lead_id   ON posts(lead_id);
	CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
	CREATE INDEX IF NOT EXISTS idx_posts_post_time ON posts(post_time);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// GetOrCreateLead returns the lead for username, creating it with status
// "new" if absent. The insert races safely against concurrent writers via
// ON CONFLICT DO NOTHING; the follow-up select always observes exactly one
// row per username.
func (s *SQLiteStore) GetOrCreateLead(username string) (model.Lead, bool, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO leads (id, reddit_username, lead_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(reddit_username) DO NOTHING`,
		uuid.NewString(), username, model.StatusNew, now, now,
	)
	if err != nil {
		return model.Lead{}, false, fmt.Errorf("inserting lead %s: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Lead{}, false, fmt.Errorf("inserting lead %s: %w", username, err)
	}
	created := affected == 1

	lead, err := s.getLeadByUsername(username)
	if err != nil {
		return model.Lead{}, false, err
	}
	return lead, created, nil
}

func (s *SQLiteStore) getLeadByUsername(username string) (model.Lead, error) {
	row := s.db.QueryRow(
		`SELECT id, reddit_username, first_name, last_name, email, phone, company_name,
		        lead_status, created_at, updated_at
		 FROM leads WHERE reddit_username = ?`, username)
	return scanLead(row)
}

// GetLead returns the lead with the given ID.
func (s *SQLiteStore) GetLead(id string) (model.Lead, error) {
	row := s.db.QueryRow(
		`SELECT id, reddit_username, first_name, last_name, email, phone, company_name,
		        lead_status, created_at, updated_at
		 FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

func scanLead(row *sql.Row) (model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.RedditUsername, &l.FirstName, &l.LastName, &l.Email,
		&l.Phone, &l.CompanyName, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Lead{}, model.ErrNotFound
	}
	if err != nil {
		return model.Lead{}, fmt.Errorf("scanning lead: %w", err)
	}
	return l, nil
}

// CreatePost inserts a post owned by an existing lead. Returns an error
// wrapping model.ErrDuplicatePost when the Reddit post ID was already
// ingested.
func (s *SQLiteStore) CreatePost(post model.Post) (model.Post, error) {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()

	var postTime sql.NullTime
	if post.PostedAt != nil {
		postTime = sql.NullTime{Time: post.PostedAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO posts (id, lead_id, reddit_post_id, post_title, post_url,
		                    subreddit, post_category, post_trigger, post_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.LeadID, post.RedditPostID, post.Title, post.URL,
		post.Subreddit, post.Category, post.Trigger, postTime, post.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, fmt.Errorf("post %s: %w", post.RedditPostID, model.ErrDuplicatePost)
		}
		return model.Post{}, fmt.Errorf("inserting post %s: %w", post.RedditPostID, err)
	}
	return post, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ListLeads returns all leads with their post counts, newest first.
func (s *SQLiteStore) ListLeads() ([]model.LeadSummary, error) {
	rows, err := s.db.Query(
		`SELECT l.id, l.reddit_username, l.first_name, l.last_name, l.email, l.phone,
		        l.company_name, l.lead_status, l.created_at, l.updated_at,
		        COUNT(p.id)
		 FROM leads l
		 LEFT JOIN posts p ON p.lead_id = l.id
		 GROUP BY l.id
		 ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []model.LeadSummary
	for rows.Next() {
		var ls model.LeadSummary
		err := rows.Scan(&ls.ID, &ls.RedditUsername, &ls.FirstName, &ls.LastName,
			&ls.Email, &ls.Phone, &ls.CompanyName, &ls.Status,
			&ls.CreatedAt, &ls.UpdatedAt, &ls.PostCount)
		if err != nil {
			return nil, fmt.Errorf("scanning lead row: %w", err)
		}
		leads = append(leads, ls)
	}
	return leads, rows.Err()
}

// ListPostsByLead returns a lead's posts, newest submission first.
func (s *SQLiteStore) ListPostsByLead(leadID string) ([]model.Post, error) {
	rows, err := s.db.Query(
		`SELECT id, lead_id, reddit_post_id, post_title, post_url, subreddit,
		        post_category, post_trigger, post_time, created_at
		 FROM posts WHERE lead_id = ?
		 ORDER BY post_time DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing posts for lead %s: %w", leadID, err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		var postTime sql.NullTime
		err := rows.Scan(&p.ID, &p.LeadID, &p.RedditPostID, &p.Title, &p.URL,
			&p.Subreddit, &p.Category, &p.Trigger, &postTime, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		if postTime.Valid {
			t := postTime.Time
			p.PostedAt = &t
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdateLeadStatus sets a lead's funnel status and bumps updated_at.
func (s *SQLiteStore) UpdateLeadStatus(leadID string, status model.LeadStatus) error {
	res, err := s.db.Exec(
		`UPDATE leads SET lead_status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), leadID)
	if err != nil {
		return fmt.Errorf("updating lead %s status: %w", leadID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating lead %s status: %w", leadID, err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteLead removes a lead and, via the FK cascade, all of its posts.
func (s *SQLiteStore) DeleteLead(leadID string) error {
	res, err := s.db.Exec(`DELETE FROM leads WHERE id = ?`, leadID)
	if err != nil {
		return fmt.Errorf("deleting lead %s: %w", leadID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting lead %s: %w", leadID, err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
