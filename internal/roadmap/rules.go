package roadmap

import "github.com/blackwell-systems/repoeval/internal/rubric"

// Catalog returns the built-in rules in emission order.
func Catalog() []Rule {
	return []Rule{
		{
			Dimension: rubric.Documentation,
			Item: Item{
				Priority:    rubric.PriorityHigh,
				Title:       "Improve Documentation",
				Description: "Create or enhance README with clear setup instructions, usage examples, and contribution guidelines",
				Impact:      "Helps users understand and use your project",
			},
		},
		{
			Dimension: rubric.Testing,
			Item: Item{
				Priority:    rubric.PriorityHigh,
				Title:       "Add Test Coverage",
				Description: "Write unit and integration tests. Aim for at least 60-70% code coverage using Jest, Pytest, or similar tools",
				Impact:      "Ensures code quality and prevents regressions",
			},
		},
		{
			Dimension: rubric.Commits,
			Item: Item{
				Priority:    rubric.PriorityMedium,
				Title:       "Improve Commit Practices",
				Description: "Write meaningful commit messages that describe what changed and why. Use conventional commits format (feat:, fix:, etc.)",
				Impact:      "Makes project history cleaner and more useful",
			},
		},
		{
			Dimension: rubric.Structure,
			Item: Item{
				Priority:    rubric.PriorityMedium,
				Title:       "Organize Project Structure",
				Description: "Create clear directories like /src, /tests, /docs. Separate concerns and follow language-specific conventions",
				Impact:      "Improves code maintainability and readability",
			},
		},
		{
			Dimension: rubric.Versioning,
			Item: Item{
				Priority:    rubric.PriorityMedium,
				Title:       "Implement Versioning",
				Description: "Create releases and use semantic versioning (v1.0.0). Add a changelog documenting major changes",
				Impact:      "Helps users track changes and understand breaking changes",
			},
		},
		{
			Dimension: rubric.Community,
			Item: Item{
				Priority:    rubric.PriorityLow,
				Title:       "Increase Community Engagement",
				Description: "Add badges, improve the project description, enable issues and discussions, and create contribution guidelines",
				Impact:      "Attracts users and contributors to your project",
			},
		},
	}
}

// Fallback is emitted alone when no rule fires.
var Fallback = Item{
	Priority:    rubric.PriorityLow,
	Title:       "Maintain Excellence",
	Description: "Continue following established practices and keep the project updated and responsive to community feedback",
	Impact:      "Ensures long-term project success and user satisfaction",
}
