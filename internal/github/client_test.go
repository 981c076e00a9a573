package github

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

const readmeText = "# Widget\n\n## Installation\n\nnpm i widget\n"

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// newRepoServer serves a complete acme/widget repository. Individual routes
// can be overridden through the overrides map.
func newRepoServer(t *testing.T, overrides map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	encoded := base64.StdEncoding.EncodeToString([]byte(readmeText))
	// GitHub wraps base64 content at 60 columns.
	wrapped := encoded[:20] + `\n` + encoded[20:]

	routes := map[string]http.HandlerFunc{
		"/repos/acme/widget": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{
				"name": "widget", "html_url": "https://github.com/acme/widget",
				"stargazers_count": 120, "forks_count": 15, "watchers_count": 120,
				"open_issues_count": 3, "description": "A toolkit",
				"license": {"key": "mit"}, "language": "Go", "size": 2048
			}`)
		},
		"/repos/acme/widget/contents/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[{"name":"src","type":"dir"},{"name":"go.mod","type":"file"}]`)
		},
		"/repos/acme/widget/commits": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[
				{"commit":{"message":"feat: add parser","author":{"date":"2026-09-30T10:00:00Z"}}},
				{"commit":{"message":"wip","author":null}}
			]`)
		},
		"/repos/acme/widget/languages": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"Go": 9000, "Shell": 1000}`)
		},
		"/repos/acme/widget/readme": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"content":"`+wrapped+`","encoding":"base64","size":42}`)
		},
		"/repos/acme/widget/releases": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[{"tag_name":"v1.2.0"},{"tag_name":"v1.1.0"}]`)
		},
	}
	for path, h := range overrides {
		routes[path] = h
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			writeJSON(w, 404, `{"message":"Not Found"}`)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, token string) *Client {
	return NewClient(Options{
		BaseURL: srv.URL,
		Token:   token,
		Clock:   func() time.Time { return fixedNow },
	})
}

// --- FetchSnapshot ---

func TestFetchSnapshot_Complete(t *testing.T) {
	srv := newRepoServer(t, nil)

	snap, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "widget")
	require.NoError(t, err)

	assert.Equal(t, &snapshot.Metadata{
		Name: "widget", URL: "https://github.com/acme/widget",
		Stars: 120, Forks: 15, Watchers: 120, OpenIssues: 3,
		Description: "A toolkit", HasLicense: true, Language: "Go", Size: 2048,
	}, snap.Metadata)
	assert.Equal(t, []string{"src", "go.mod"}, snap.Contents)
	require.Len(t, snap.Commits, 2)
	assert.Equal(t, "feat: add parser", snap.Commits[0].Message)
	assert.Equal(t, time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC), snap.Commits[0].AuthoredAt)
	assert.True(t, snap.Commits[1].AuthoredAt.IsZero())
	assert.Equal(t, map[string]int64{"Go": 9000, "Shell": 1000}, snap.Languages)
	require.NotNil(t, snap.Readme)
	assert.Equal(t, readmeText, snap.Readme.Content)
	assert.Equal(t, int64(42), snap.Readme.Size)
	assert.Equal(t, []snapshot.Release{{TagName: "v1.2.0"}, {TagName: "v1.1.0"}}, snap.Releases)
	assert.Equal(t, fixedNow, snap.CapturedAt)
	assert.NoError(t, snap.Validate())
}

func TestFetchSnapshot_SendsHeadersAndLimits(t *testing.T) {
	var sawAuth, sawPerPage atomic.Value
	srv := newRepoServer(t, map[string]http.HandlerFunc{
		"/repos/acme/widget/commits": func(w http.ResponseWriter, r *http.Request) {
			sawAuth.Store(r.Header.Get("Authorization"))
			sawPerPage.Store(r.URL.Query().Get("per_page"))
			assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
			writeJSON(w, 200, `[]`)
		},
	})

	c := NewClient(Options{BaseURL: srv.URL, Token: "secret", CommitLimit: 25})
	_, err := c.FetchSnapshot(context.Background(), "acme", "widget")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", sawAuth.Load())
	assert.Equal(t, "25", sawPerPage.Load())
}

func TestFetchSnapshot_AnonymousSendsNoAuthorization(t *testing.T) {
	var auth atomic.Value
	auth.Store("unset")
	srv := newRepoServer(t, map[string]http.HandlerFunc{
		"/repos/acme/widget/languages": func(w http.ResponseWriter, r *http.Request) {
			auth.Store(r.Header.Get("Authorization"))
			writeJSON(w, 200, `{}`)
		},
	})

	_, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, "", auth.Load())
}

func TestFetchSnapshot_OptionalReadsDegrade(t *testing.T) {
	fail := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, `{"message":"boom"}`)
	}
	missing := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, `{"message":"Not Found"}`)
	}
	srv := newRepoServer(t, map[string]http.HandlerFunc{
		"/repos/acme/widget/contents/": fail,
		"/repos/acme/widget/commits":   fail,
		"/repos/acme/widget/languages": fail,
		"/repos/acme/widget/readme":    missing,
		"/repos/acme/widget/releases":  fail,
	})

	snap, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "widget")
	require.NoError(t, err)

	assert.Equal(t, "widget", snap.Metadata.Name)
	assert.Empty(t, snap.Contents)
	assert.Empty(t, snap.Commits)
	assert.Empty(t, snap.Languages)
	assert.Nil(t, snap.Readme)
	assert.Empty(t, snap.Releases)
}

func TestFetchSnapshot_BadReadmeEncodingDegrades(t *testing.T) {
	srv := newRepoServer(t, map[string]http.HandlerFunc{
		"/repos/acme/widget/readme": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"content":"!!not base64!!","encoding":"base64","size":10}`)
		},
	})

	snap, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Nil(t, snap.Readme)
}

func TestFetchSnapshot_MetadataNotFoundIsFatal(t *testing.T) {
	srv := newRepoServer(t, nil)

	_, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not Found", apiErr.Message)
	assert.Equal(t, "/repos/acme/missing", apiErr.Path)
}

func TestFetchSnapshot_MetadataForbiddenIsFatal(t *testing.T) {
	srv := newRepoServer(t, map[string]http.HandlerFunc{
		"/repos/acme/widget": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 403, `{"message":"API rate limit exceeded"}`)
		},
	})

	_, err := newTestClient(srv, "").FetchSnapshot(context.Background(), "acme", "widget")
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Contains(t, err.Error(), "rate limit")
}

func TestFetchSnapshot_CancelledContext(t *testing.T) {
	srv := newRepoServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv, "").FetchSnapshot(ctx, "acme", "widget")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

// --- errors ---

func TestAPIError_Message(t *testing.T) {
	err := newAPIError(502, "/repos/a/b", []byte("bad gateway\n"))
	assert.Equal(t, "github: GET /repos/a/b returned 502: bad gateway", err.Error())

	err = newAPIError(500, "/repos/a/b", nil)
	assert.Equal(t, "github: GET /repos/a/b returned 500", err.Error())
}

func TestStatusHelpers_IgnoreOtherErrors(t *testing.T) {
	assert.False(t, IsNotFound(errors.New("404 in the text only")))
	assert.False(t, IsForbidden(nil))
	assert.True(t, IsForbidden(&APIError{StatusCode: 401}))
}
