package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/calebmills/redlead/internal/config"
	"github.com/calebmills/redlead/internal/model"
)

const (
	defaultBaseURL  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// Ensure Client implements model.ForumSource.
var _ model.ForumSource = (*Client)(nil)

// Client fetches submissions from the Reddit API using the OAuth
// refresh-token grant. The bearer token is cached until shortly before
// expiry and refreshed lazily on the next call.
type Client struct {
	clientID     string
	clientSecret string
	refreshToken string
	userAgent    string
	baseURL      string
	tokenURL     string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a Reddit API client from the given credentials.
func NewClient(cfg config.RedditConfig, httpClient *http.Client) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		userAgent:    cfg.UserAgent,
		baseURL:      defaultBaseURL,
		tokenURL:     defaultTokenURL,
		httpClient:   httpClient,
	}
}

// tokenResponse mirrors the Reddit access_token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// listing mirrors the standard Reddit listing envelope.
type listing struct {
	Data struct {
		Children []struct {
			Data submissionData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type submissionData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
}

// FetchRecent returns up to limit submissions from r/<subreddit>/new,
// newest first. Deleted or removed authors map to an empty Author.
func (c *Client) FetchRecent(ctx context.Context, subreddit string, limit int) ([]model.Submission, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch for r/%s: %w", subreddit, err)
	}

	u := fmt.Sprintf("%s/r/%s/new?limit=%d&raw_json=1", c.baseURL, url.PathEscape(subreddit), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch for r/%s: %w", subreddit, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch for r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit fetch for r/%s: unexpected status %d", subreddit, resp.StatusCode)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("reddit fetch for r/%s: %w", subreddit, err)
	}

	subs := make([]model.Submission, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		d := child.Data
		author := d.Author
		if author == "[deleted]" || author == "[removed]" {
			author = ""
		}
		subs = append(subs, model.Submission{
			ID:        d.ID,
			Title:     d.Title,
			URL:       d.URL,
			Author:    author,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}

	return subs, nil
}

// ensureToken returns a valid bearer token, refreshing it when it is within
// a minute of expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: unexpected status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("token request rejected: %s", tr.Error)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	expiresIn := tr.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)

	return c.accessToken, nil
}

// setEndpoints points the client at alternate API endpoints. Used by tests.
func (c *Client) setEndpoints(baseURL, tokenURL string) {
	c.baseURL = baseURL
	c.tokenURL = tokenURL
}
