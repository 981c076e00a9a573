package scoring

import (
	"strings"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// readmeKeywords groups README phrases; any hit in a group earns its bonus once.
var readmeKeywords = []struct {
	terms []string
	bonus int
}{
	{[]string{"install", "setup"}, 10},
	{[]string{"usage", "example"}, 10},
	{[]string{"license"}, 5},
	{[]string{"contribut"}, 5},
}

// Documentation scores README quality and descriptive metadata.
//
// Scoring breakdown:
//   - Base:            35 points
//   - README size:     0-25 points (linear up to 500 bytes)
//   - Install/setup:   10 points
//   - Usage/example:   10 points
//   - License section: 5 points
//   - Contributing:    5 points
//   - Description:     5 points
//   - License file:    10 points
func Documentation(s *snapshot.Snapshot) int {
	score := 35

	if s.Readme != nil {
		size := s.ReadmeSize()
		if size >= 500 {
			score += 25
		} else {
			score += int(size * 25 / 500)
		}

		content := strings.ToLower(s.Readme.Content)
		for _, group := range readmeKeywords {
			if containsAny(content, group.terms) {
				score += group.bonus
			}
		}
	}

	if s.Metadata != nil {
		if strings.TrimSpace(s.Metadata.Description) != "" {
			score += 5
		}
		if s.Metadata.HasLicense {
			score += 10
		}
	}

	return clamp(score)
}

// containsAny reports whether text contains any of terms.
func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
