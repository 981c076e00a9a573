// Package scoring implements the seven dimension scorers and the weighted
// aggregator. Every scorer is a pure function of the snapshot.
package scoring

import (
	"github.com/blackwell-systems/repoeval/internal/rubric"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// Scorer maps a snapshot to a 0-100 score for one dimension.
type Scorer func(s *snapshot.Snapshot) int

// scorers is the closed rubric. Adding a dimension means adding a row here
// and a weight in every policy.
var scorers = []struct {
	dimension rubric.Dimension
	score     Scorer
}{
	{rubric.Documentation, Documentation},
	{rubric.Structure, Structure},
	{rubric.Commits, Commits},
	{rubric.Languages, Languages},
	{rubric.Community, Community},
	{rubric.Testing, Testing},
	{rubric.Versioning, Versioning},
}

// For returns the scorer registered for d, or nil for an unknown dimension.
func For(d rubric.Dimension) Scorer {
	for _, s := range scorers {
		if s.dimension == d {
			return s.score
		}
	}
	return nil
}

// Score runs every scorer against s.
func Score(s *snapshot.Snapshot) rubric.Scores {
	var out rubric.Scores
	for _, sc := range scorers {
		out = out.With(sc.dimension, sc.score(s))
	}
	return out
}

// Aggregate combines dimension scores into the overall score using the
// policy's weights. The sum runs in basis points so rounding is exact and
// half-up: 86.75 becomes 87, never 86.
func Aggregate(scores rubric.Scores, p *rubric.Policy) int {
	total := 0
	for _, d := range rubric.Dimensions {
		total += p.BasisPoints(d) * clamp(scores.Of(d))
	}
	return clamp((total + 5000) / 10000)
}

// clamp bounds v to [0, 100].
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
