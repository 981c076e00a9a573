package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoeval/internal/rubric"
)

func uniform(v int) rubric.Scores {
	var s rubric.Scores
	for _, d := range rubric.Dimensions {
		s = s.With(d, v)
	}
	return s
}

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

// --- Engine.Run ---

func TestEngineRun_AllWeak(t *testing.T) {
	items := NewEngine().Run(uniform(0), rubric.Default())

	assert.Equal(t, []string{
		"Improve Documentation",
		"Add Test Coverage",
		"Improve Commit Practices",
		"Organize Project Structure",
		"Implement Versioning",
		"Increase Community Engagement",
	}, titles(items))

	// Emission order, not priority order: Low comes last only because
	// community is last in the catalog.
	assert.Equal(t, rubric.PriorityHigh, items[0].Priority)
	assert.Equal(t, rubric.PriorityHigh, items[1].Priority)
	assert.Equal(t, rubric.PriorityMedium, items[2].Priority)
	assert.Equal(t, rubric.PriorityLow, items[5].Priority)
}

func TestEngineRun_AllStrongFallsBack(t *testing.T) {
	items := NewEngine().Run(uniform(70), rubric.Default())
	require.Len(t, items, 1)
	assert.Equal(t, Fallback, items[0])
}

func TestEngineRun_SingleWeakDimension(t *testing.T) {
	scores := uniform(90).With(rubric.Versioning, 30)
	items := NewEngine().Run(scores, rubric.Default())
	require.Len(t, items, 1)
	assert.Equal(t, "Implement Versioning", items[0].Title)
	assert.Equal(t, rubric.PriorityMedium, items[0].Priority)
}

func TestEngineRun_LanguagesNeverTriggers(t *testing.T) {
	scores := uniform(90).With(rubric.Languages, 0)
	items := NewEngine().Run(scores, rubric.Default())
	assert.Equal(t, []Item{Fallback}, items)
}

func TestEngineRun_ThresholdIsStrict(t *testing.T) {
	p := rubric.Default()
	scores := uniform(90).With(rubric.Testing, 69)
	assert.Equal(t, []string{"Add Test Coverage"}, titles(NewEngine().Run(scores, p)))

	scores = scores.With(rubric.Testing, 70)
	assert.Equal(t, []Item{Fallback}, NewEngine().Run(scores, p))
}

func TestEngineRun_PolicyWithoutThresholdSkipsRule(t *testing.T) {
	p := rubric.Default()
	delete(p.ActionThresholds, rubric.Community)
	items := NewEngine().Run(uniform(90).With(rubric.Community, 0), p)
	assert.Equal(t, []Item{Fallback}, items)
}

func TestEngineRun_NeverEmpty(t *testing.T) {
	for v := 0; v <= 100; v += 5 {
		assert.NotEmpty(t, NewEngine().Run(uniform(v), rubric.Default()), "uniform %d", v)
	}
}

func TestCatalog_IsWellFormed(t *testing.T) {
	seen := make(map[rubric.Dimension]bool)
	for _, r := range Catalog() {
		assert.True(t, r.Dimension.Valid(), "rule dimension %q", r.Dimension)
		assert.False(t, seen[r.Dimension], "duplicate rule for %s", r.Dimension)
		seen[r.Dimension] = true
		assert.True(t, r.Item.Priority.Valid())
		assert.NotEmpty(t, r.Item.Title)
		assert.NotEmpty(t, r.Item.Description)
		assert.NotEmpty(t, r.Item.Impact)
	}
}
