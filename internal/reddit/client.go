package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/neurocorpus/harvest/pkg/harvest/internalerr"
	"github.com/neurocorpus/harvest/pkg/harvest/source"
	"github.com/neurocorpus/harvest/pkg/harvest/textnorm"
)

const (
	defaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL  = "https://oauth.reddit.com"
)

// Credentials holds the script-app OAuth credentials. All fields except the
// user agent are mandatory; Reddit requires a descriptive user agent string.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

func (c Credentials) complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

// Client implements source.Connector against the Reddit JSON API using the
// password grant for script apps. The zero value is not usable; construct
// with New.
type Client struct {
	creds   Credentials
	authURL string
	apiURL  string

	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option adjusts a Client, mainly for tests.
type Option func(*Client)

// WithBaseURLs overrides the auth and API endpoints.
func WithBaseURLs(authURL, apiURL string) Option {
	return func(c *Client) {
		c.authURL = authURL
		c.apiURL = apiURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Reddit connector. Missing credentials are not an error here;
// every call will fail fast with internalerr.ErrNotInitialized instead, so
// the condition surfaces as a structured error rather than a cryptic 401.
func New(creds Credentials, opts ...Option) *Client {
	if creds.UserAgent == "" {
		creds.UserAgent = "research-corpus-harvester/1.0"
	}
	c := &Client{
		creds:      creds,
		authURL:    defaultAuthURL,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listing mirrors the Reddit "Listing" envelope.
type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type submissionData struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

type commentData struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// Search returns up to limit non-stickied submissions matching term in the
// given container (subreddit), in the API's relevance order.
func (c *Client) Search(ctx context.Context, container, term string, limit int) ([]source.Submission, error) {
	if !c.creds.complete() {
		return nil, internalerr.ErrNotInitialized
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("restrict_sr", "1")
	params.Set("raw_json", "1")

	endpoint := fmt.Sprintf("%s/r/%s/search?%s", c.apiURL, url.PathEscape(container), params.Encode())

	var list listing
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, errors.Wrapf(err, "search r/%s for %q", container, term)
	}

	subs := make([]source.Submission, 0, len(list.Data.Children))
	for _, child := range list.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var d submissionData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			return nil, errors.Wrapf(err, "decode submission in r/%s", container)
		}
		if d.Stickied {
			// Pinned posts are rules/announcements, never study material.
			continue
		}
		subs = append(subs, source.Submission{
			ID:           d.ID,
			Container:    d.Subreddit,
			Title:        d.Title,
			Body:         d.Selftext,
			Score:        d.Score,
			CommentCount: d.NumComments,
			URL:          d.URL,
			CreatedAt:    time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}
	return subs, nil
}

// Comments returns up to cap top-level comments of the submission in the
// API's natural order.
func (c *Client) Comments(ctx context.Context, sub source.Submission, cap int) ([]source.Comment, error) {
	if !c.creds.complete() {
		return nil, internalerr.ErrNotInitialized
	}
	if cap <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(cap))
	params.Set("depth", "1")
	params.Set("raw_json", "1")

	endpoint := fmt.Sprintf("%s/comments/%s?%s", c.apiURL, url.PathEscape(sub.ID), params.Encode())

	// The comments endpoint returns a two-element array: the submission
	// listing and the comment listing.
	var pair []listing
	if err := c.getJSON(ctx, endpoint, &pair); err != nil {
		return nil, errors.Wrapf(err, "comments of %s", sub.ID)
	}
	if len(pair) < 2 {
		return nil, nil
	}

	comments := make([]source.Comment, 0, cap)
	for _, child := range pair[1].Data.Children {
		if child.Kind != "t1" {
			// "more" stubs and anything else are skipped, matching the
			// top-level-only comment scope.
			continue
		}
		var d commentData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			return nil, errors.Wrapf(err, "decode comment under %s", sub.ID)
		}
		comments = append(comments, source.Comment{
			ID:        d.ID,
			Body:      textnorm.StripHTML(d.Body),
			Score:     d.Score,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
		if len(comments) >= cap {
			break
		}
	}
	return comments, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("api returned HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// token returns a cached access token, refreshing via the password grant
// when absent or within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetch access token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("auth returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	if payload.Error != "" {
		return "", errors.Errorf("auth error: %s", payload.Error)
	}
	if payload.AccessToken == "" {
		return "", errors.New("auth returned empty token")
	}

	c.accessToken = payload.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
