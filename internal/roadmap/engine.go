package roadmap

import "github.com/blackwell-systems/repoeval/internal/rubric"

// Engine evaluates its rules against dimension scores in a fixed order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the built-in catalog.
func NewEngine() *Engine {
	return &Engine{rules: Catalog()}
}

// Run emits one item per rule whose dimension scores below the policy's
// action threshold, in rule order. Consumers render in emission order, so the
// result is never re-sorted by priority. Rules for dimensions the policy sets
// no threshold for are skipped. The result is never empty.
func (e *Engine) Run(scores rubric.Scores, p *rubric.Policy) []Item {
	var items []Item
	for _, r := range e.rules {
		threshold, ok := p.ActionThreshold(r.Dimension)
		if !ok {
			continue
		}
		if scores.Of(r.Dimension) < threshold {
			items = append(items, r.Item)
		}
	}
	if len(items) == 0 {
		items = append(items, Fallback)
	}
	return items
}
