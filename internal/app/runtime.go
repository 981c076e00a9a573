package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/blackwell-systems/repoeval/internal/config"
	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/github"
	"github.com/blackwell-systems/repoeval/internal/output"
	"github.com/blackwell-systems/repoeval/internal/rubric"
)

// runtime bundles what every command needs after startup.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	policy    *rubric.Policy
	evaluator *evaluate.Evaluator
}

// loadRuntime reads configuration, configures color and logging, and resolves
// the scoring policy. --policy beats policy_file from config.
func loadRuntime(stdout, stderr io.Writer) (*runtime, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !output.IsTerminal(stdout) {
		output.SetNoColor(true)
	}

	logger := newLogger(stderr, cfg.Log, flagVerbose)

	policyRef := cfg.PolicyFile
	if flagPolicy != "" {
		policyRef = flagPolicy
	}
	policy, err := rubric.Resolve(policyRef)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}
	logger.Debug("policy resolved", "policy", policy.ID())

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		policy:    policy,
		evaluator: evaluate.New(policy),
	}, nil
}

// githubClient builds a snapshot provider from configuration. The token is
// handed over explicitly; the client never reads the environment.
func (rt *runtime) githubClient() *github.Client {
	gh := rt.cfg.GitHub
	return github.NewClient(github.Options{
		BaseURL:      gh.APIURL,
		Token:        gh.Token,
		HTTPClient:   &http.Client{Timeout: gh.Timeout},
		CommitLimit:  gh.CommitLimit,
		ReleaseLimit: gh.ReleaseLimit,
		Logger:       rt.logger,
	})
}

// newLogger builds the process logger. verbose forces debug level.
func newLogger(w io.Writer, cfg config.Log, verbose bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
