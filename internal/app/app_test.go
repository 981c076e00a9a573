package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoeval/internal/config"
	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/github"
	"github.com/blackwell-systems/repoeval/internal/rubric"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
	"github.com/blackwell-systems/repoeval/internal/snapshot/snapshottest"
)

// isolate gives each test an empty HOME and working directory and clears
// the environment variables the config layer reads.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"GITHUB_TOKEN", "PORT", "REPOEVAL_GITHUB_API_URL", "REPOEVAL_POLICY_FILE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	flagNoColor, flagJSON, flagVerbose = false, false, false
	flagConfig, flagPolicy = "", ""
	policyFlagTable, servePort = false, 0

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T, dir string, s *snapshot.Snapshot) string {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	path := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"analyze": false, "score": false, "serve": false, "mcp": false, "policy": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "%s subcommand not registered on rootCmd", name)
	}
}

// --- score ---

func TestScore_JSON(t *testing.T) {
	dir := isolate(t)
	path := writeSnapshot(t, dir, snapshottest.Healthy())

	out, err := execute(t, "", "score", path, "--json")
	require.NoError(t, err)

	var res evaluate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 91, res.Score)
	assert.Equal(t, rubric.LevelAdvanced, res.Level)
	assert.Equal(t, "standard@v1", res.Policy)
}

func TestScore_Report(t *testing.T) {
	dir := isolate(t)
	path := writeSnapshot(t, dir, snapshottest.Bare())

	out, err := execute(t, "", "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Repository Evaluation: empty-repo")
	assert.Contains(t, out, "Improve Documentation")
	assert.NotContains(t, out, "\x1b[")
}

func TestScore_StdinYAML(t *testing.T) {
	isolate(t)
	in := `
metadata:
  name: piped
  url: https://github.com/acme/piped
captured_at: 2026-10-01T12:00:00Z
`
	out, err := execute(t, in, "score", "-", "--json")
	require.NoError(t, err)

	var res evaluate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 34, res.Score)
	assert.Equal(t, "piped", res.Metadata.Name)
}

func TestScore_PolicyFlag(t *testing.T) {
	dir := isolate(t)
	path := writeSnapshot(t, dir, snapshottest.Bare())

	out, err := execute(t, "", "score", path, "--json", "--policy", "strict-v1")
	require.NoError(t, err)
	assert.Contains(t, out, `"policy": "strict@v1"`)
}

func TestScore_MissingMetadata(t *testing.T) {
	isolate(t)
	_, err := execute(t, `{"contents":["src"]}`, "score", "-")
	assert.ErrorIs(t, err, snapshot.ErrMissingMetadata)
}

func TestScore_UnknownPolicy(t *testing.T) {
	dir := isolate(t)
	path := writeSnapshot(t, dir, snapshottest.Bare())
	_, err := execute(t, "", "score", path, "--policy", "no-such-policy")
	assert.ErrorContains(t, err, "loading policy")
}

// --- analyze ---

func TestAnalyze_InvalidURL(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "analyze", "https://gitlab.com/acme/widget")
	assert.ErrorIs(t, err, github.ErrInvalidURL)
}

func TestAnalyze_AgainstAPI(t *testing.T) {
	isolate(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/acme/tiny":
			_, _ = w.Write([]byte(`{"name":"tiny","html_url":"https://github.com/acme/tiny"}`))
		case "/repos/acme/tiny/languages":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	defer api.Close()
	t.Setenv("REPOEVAL_GITHUB_API_URL", api.URL)

	out, err := execute(t, "", "analyze", "acme/tiny", "--json")
	require.NoError(t, err)

	var res evaluate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "tiny", res.Metadata.Name)
	assert.Equal(t, 34, res.Score)

	_, err = execute(t, "", "analyze", "acme/missing")
	assert.ErrorContains(t, err, "does not exist or is private")
}

// --- policy ---

func TestPolicy_YAMLRoundTrip(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "policy")
	require.NoError(t, err)

	p, err := rubric.ParsePolicy([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, rubric.Default(), p)
}

func TestPolicy_TableAndList(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "policy", "--table", "--policy", "strict-v1")
	require.NoError(t, err)
	assert.Contains(t, out, "Policy strict@v1")

	out, err = execute(t, "", "policy", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* standard-v1")
	assert.Contains(t, out, "strict-v1")
}

// --- logging ---

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, config.Log{Level: "warn", Format: "json"}, false)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])

	buf.Reset()
	l = newLogger(&buf, config.Log{Level: "error", Format: "text"}, true)
	l.Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
	assert.True(t, l.Enabled(t.Context(), slog.LevelDebug))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(fmt.Errorf("%w: %q", github.ErrInvalidURL, "x")))
	assert.Equal(t, 2, exitCode(snapshot.ErrMissingMetadata))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
