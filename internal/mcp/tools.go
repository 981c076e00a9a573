package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/repoeval/internal/github"
	"github.com/blackwell-systems/repoeval/internal/rubric"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// PolicyResult describes the active scoring policy.
type PolicyResult struct {
	ID     string         `json:"id"`
	Policy *rubric.Policy `json:"policy"`
}

var (
	noArgsSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	urlSchema    = json.RawMessage(`{"type":"object","properties":{"url":{"type":"string","description":"GitHub repository URL or owner/repo"}},"required":["url"],"additionalProperties":false}`)
	snapSchema   = json.RawMessage(`{"type":"object","properties":{"snapshot":{"type":"object","description":"Repository snapshot: metadata, contents, commits, languages, readme, releases, captured_at"}},"required":["snapshot"],"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "evaluate_repository",
		Description: "Fetch a GitHub repository and return its quality score, level, summary and improvement roadmap.",
		InputSchema: urlSchema,
		Handler:     s.handleEvaluateRepository,
	})
	s.registerTool(toolDef{
		Name:        "score_snapshot",
		Description: "Evaluate an already-assembled repository snapshot without any network access.",
		InputSchema: snapSchema,
		Handler:     s.handleScoreSnapshot,
	})
	s.registerTool(toolDef{
		Name:        "get_policy",
		Description: "Weights, level cut points and thresholds of the active scoring policy.",
		InputSchema: noArgsSchema,
		Handler:     s.handleGetPolicy,
	})
}

// handleEvaluateRepository fetches and evaluates the repository named by url.
func (s *Server) handleEvaluateRepository(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.URL == "" {
		return nil, errors.New("url is required")
	}

	owner, repo, err := github.ParseRepoURL(params.URL)
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, errors.New("repository fetching is not configured")
	}

	snap, err := s.fetcher.FetchSnapshot(ctx, owner, repo)
	if err != nil {
		switch {
		case github.IsNotFound(err):
			return nil, fmt.Errorf("repository %s/%s not found or private", owner, repo)
		case github.IsForbidden(err):
			return nil, fmt.Errorf("access to %s/%s denied: %w", owner, repo, err)
		}
		return nil, err
	}
	return s.evaluator.Evaluate(snap)
}

// handleScoreSnapshot evaluates the snapshot passed inline.
func (s *Server) handleScoreSnapshot(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Snapshot json.RawMessage `json:"snapshot"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if len(params.Snapshot) == 0 || string(params.Snapshot) == "null" {
		return nil, errors.New("snapshot is required")
	}

	snap, err := snapshot.DecodeJSON(params.Snapshot)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(snap)
}

// handleGetPolicy returns the evaluator's policy.
func (s *Server) handleGetPolicy(_ context.Context, _ json.RawMessage) (any, error) {
	p := s.evaluator.Policy()
	return PolicyResult{ID: p.ID(), Policy: p}, nil
}
