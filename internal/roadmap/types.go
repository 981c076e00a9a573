// Package roadmap provides the improvement roadmap engine and its static
// recommendation catalog.
package roadmap

import "github.com/blackwell-systems/repoeval/internal/rubric"

// Item is one prioritized, actionable recommendation.
type Item struct {
	Priority    rubric.Priority `json:"priority"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Impact      string          `json:"impact"`
}

// Rule ties a catalog item to the dimension whose weakness triggers it.
type Rule struct {
	Dimension rubric.Dimension
	Item      Item
}
