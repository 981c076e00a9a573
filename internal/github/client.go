// Package github assembles repository snapshots from the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

const (
	DefaultBaseURL      = "https://api.github.com"
	DefaultCommitLimit  = 100
	DefaultReleaseLimit = 10
	defaultTimeout      = 30 * time.Second
	apiVersion          = "2022-11-28"
	userAgent           = "repoeval"
)

// Options configures a Client. The zero value talks to api.github.com
// anonymously.
type Options struct {
	BaseURL      string
	Token        string
	HTTPClient   *http.Client
	CommitLimit  int
	ReleaseLimit int
	Logger       *slog.Logger

	// Clock stamps CapturedAt on assembled snapshots. Defaults to time.Now.
	Clock func() time.Time
}

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	commitLimit  int
	releaseLimit int
	logger       *slog.Logger
	now          func() time.Time
}

// NewClient creates a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.Token,
		httpClient:   opts.HTTPClient,
		commitLimit:  opts.CommitLimit,
		releaseLimit: opts.ReleaseLimit,
		logger:       opts.Logger,
		now:          opts.Clock,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.commitLimit <= 0 {
		c.commitLimit = DefaultCommitLimit
	}
	if c.releaseLimit <= 0 {
		c.releaseLimit = DefaultReleaseLimit
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// FetchSnapshot reads the six repository resources in parallel and assembles
// them into a snapshot. A metadata failure is fatal and cancels the other
// reads. Any other read that fails resolves to its empty value and is logged
// as a warning, so a partially readable repository still evaluates.
func (c *Client) FetchSnapshot(ctx context.Context, owner, repo string) (*snapshot.Snapshot, error) {
	base := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
	snap := &snapshot.Snapshot{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		md, err := c.fetchMetadata(gctx, base)
		if err != nil {
			return fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
		}
		snap.Metadata = md
		return nil
	})
	g.Go(func() error {
		snap.Contents = optional(gctx, c, "contents", func() ([]string, error) {
			return c.fetchContents(gctx, base)
		})
		return nil
	})
	g.Go(func() error {
		snap.Commits = optional(gctx, c, "commits", func() ([]snapshot.Commit, error) {
			return c.fetchCommits(gctx, base)
		})
		return nil
	})
	g.Go(func() error {
		snap.Languages = optional(gctx, c, "languages", func() (map[string]int64, error) {
			return c.fetchLanguages(gctx, base)
		})
		return nil
	})
	g.Go(func() error {
		snap.Readme = optional(gctx, c, "readme", func() (*snapshot.Readme, error) {
			return c.fetchReadme(gctx, base)
		})
		return nil
	})
	g.Go(func() error {
		snap.Releases = optional(gctx, c, "releases", func() ([]snapshot.Release, error) {
			return c.fetchReleases(gctx, base)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.CapturedAt = c.now().UTC()
	return snap, nil
}

// optional runs a non-fatal read, logging and discarding its error. Reads
// cut short by a cancelled group are not logged.
func optional[T any](ctx context.Context, c *Client, resource string, fetch func() (T, error)) T {
	v, err := fetch()
	if err != nil {
		var zero T
		if ctx.Err() == nil {
			c.logger.Warn("github read degraded", "resource", resource, "error", err)
		}
		return zero
	}
	return v
}

// --- wire types ---

type repoResponse struct {
	Name            string          `json:"name"`
	HTMLURL         string          `json:"html_url"`
	StargazersCount int             `json:"stargazers_count"`
	ForksCount      int             `json:"forks_count"`
	WatchersCount   int             `json:"watchers_count"`
	OpenIssuesCount int             `json:"open_issues_count"`
	Description     *string         `json:"description"`
	License         json.RawMessage `json:"license"`
	Language        *string         `json:"language"`
	Size            int64           `json:"size"`
}

type contentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type commitEntry struct {
	Commit struct {
		Message string `json:"message"`
		Author  *struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Size     int64  `json:"size"`
}

type releaseEntry struct {
	TagName string `json:"tag_name"`
}

// --- reads ---

func (c *Client) fetchMetadata(ctx context.Context, base string) (*snapshot.Metadata, error) {
	var r repoResponse
	if err := c.get(ctx, base, nil, &r); err != nil {
		return nil, err
	}
	license := len(r.License) > 0 && string(r.License) != "null"
	return &snapshot.Metadata{
		Name:        r.Name,
		URL:         r.HTMLURL,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		Watchers:    r.WatchersCount,
		OpenIssues:  r.OpenIssuesCount,
		Description: deref(r.Description),
		HasLicense:  license,
		Language:    deref(r.Language),
		Size:        r.Size,
	}, nil
}

func (c *Client) fetchContents(ctx context.Context, base string) ([]string, error) {
	var entries []contentEntry
	if err := c.get(ctx, base+"/contents/", nil, &entries); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (c *Client) fetchCommits(ctx context.Context, base string) ([]snapshot.Commit, error) {
	var entries []commitEntry
	q := url.Values{"per_page": {fmt.Sprint(c.commitLimit)}}
	if err := c.get(ctx, base+"/commits", q, &entries); err != nil {
		return nil, err
	}
	commits := make([]snapshot.Commit, 0, len(entries))
	for _, e := range entries {
		cm := snapshot.Commit{Message: e.Commit.Message}
		if e.Commit.Author != nil {
			cm.AuthoredAt = e.Commit.Author.Date
		}
		commits = append(commits, cm)
	}
	return commits, nil
}

func (c *Client) fetchLanguages(ctx context.Context, base string) (map[string]int64, error) {
	langs := make(map[string]int64)
	if err := c.get(ctx, base+"/languages", nil, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *Client) fetchReadme(ctx context.Context, base string) (*snapshot.Readme, error) {
	var r readmeResponse
	if err := c.get(ctx, base+"/readme", nil, &r); err != nil {
		return nil, err
	}
	if r.Encoding != "" && r.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported readme encoding %q", r.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(r.Content)
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding readme: %w", err)
	}
	return &snapshot.Readme{Content: string(decoded), Size: r.Size}, nil
}

func (c *Client) fetchReleases(ctx context.Context, base string) ([]snapshot.Release, error) {
	var entries []releaseEntry
	q := url.Values{"per_page": {fmt.Sprint(c.releaseLimit)}}
	if err := c.get(ctx, base+"/releases", q, &entries); err != nil {
		return nil, err
	}
	releases := make([]snapshot.Release, 0, len(entries))
	for _, e := range entries {
		releases = append(releases, snapshot.Release{TagName: e.TagName})
	}
	return releases, nil
}

// get issues a GET against path and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp.StatusCode, path, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
