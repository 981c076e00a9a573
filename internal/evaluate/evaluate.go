// Package evaluate is the engine facade: it turns one repository snapshot
// into a complete evaluation result under a given policy.
package evaluate

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/repoeval/internal/narrative"
	"github.com/blackwell-systems/repoeval/internal/roadmap"
	"github.com/blackwell-systems/repoeval/internal/rubric"
	"github.com/blackwell-systems/repoeval/internal/scoring"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// Result is the full evaluation of one snapshot.
type Result struct {
	Score    int            `json:"score"`
	Level    rubric.Level   `json:"level"`
	Scores   ScoreCard      `json:"scores"`
	Summary  string         `json:"summary"`
	Roadmap  []roadmap.Item `json:"roadmap"`
	Metadata Metadata       `json:"metadata"`
	Policy   string         `json:"policy"`
}

// ScoreCard is the per-dimension scores plus the weighted overall.
type ScoreCard struct {
	rubric.Scores
	Overall int `json:"overall"`
}

// Metadata is the subset of repository metadata echoed back to callers.
type Metadata struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Stars    int    `json:"stars"`
	Forks    int    `json:"forks"`
	Language string `json:"language"`
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the clock used to stamp snapshots that arrive without
// a capture time.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// Evaluator runs the scoring pipeline under one policy. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	policy  *rubric.Policy
	roadmap *roadmap.Engine
	now     func() time.Time
}

// New creates an Evaluator. A nil policy selects the built-in default.
func New(p *rubric.Policy, opts ...Option) *Evaluator {
	if p == nil {
		p = rubric.Default()
	}
	e := &Evaluator{
		policy:  p,
		roadmap: roadmap.NewEngine(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the policy the evaluator scores with.
func (e *Evaluator) Policy() *rubric.Policy {
	return e.policy
}

// Evaluate scores s. The only error is a snapshot without metadata; every
// other missing collection simply scores at its baseline. s is not modified.
func (e *Evaluator) Evaluate(s *snapshot.Snapshot) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("evaluating snapshot: %w", err)
	}

	snap := *s
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = e.now().UTC()
	}

	scores := scoring.Score(&snap)
	overall := scoring.Aggregate(scores, e.policy)
	level := e.policy.Classify(overall)
	md := snap.Metadata

	summary := narrative.Summarize(narrative.Input{
		Scores:      scores,
		Level:       level,
		Language:    md.Language,
		Stars:       md.Stars,
		CommitCount: len(snap.Commits),
		Marks:       e.policy.Narrative,
	})

	return &Result{
		Score:   overall,
		Level:   level,
		Scores:  ScoreCard{Scores: scores, Overall: overall},
		Summary: summary,
		Roadmap: e.roadmap.Run(scores, e.policy),
		Metadata: Metadata{
			Name:     md.Name,
			URL:      md.URL,
			Stars:    md.Stars,
			Forks:    md.Forks,
			Language: md.Language,
		},
		Policy: e.policy.ID(),
	}, nil
}
