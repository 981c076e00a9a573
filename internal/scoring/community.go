package scoring

import (
	"unicode/utf8"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// Community scores visible interest in the project.
//
// Scoring breakdown:
//   - Base:             35 points
//   - Stars:            5/12/20 points (>0, >=10, >=100)
//   - Forks:            5/15 points (>0, >=10)
//   - Watchers:         10 points (>=10)
//   - Open issues:      5 points (fewer than 20)
//   - Description:      15 points (longer than 20 characters)
func Community(s *snapshot.Snapshot) int {
	score := 35
	m := s.Metadata
	if m == nil {
		return score
	}

	switch {
	case m.Stars >= 100:
		score += 20
	case m.Stars >= 10:
		score += 12
	case m.Stars > 0:
		score += 5
	}

	switch {
	case m.Forks >= 10:
		score += 15
	case m.Forks > 0:
		score += 5
	}

	if m.Watchers >= 10 {
		score += 10
	}
	if m.OpenIssues < 20 {
		score += 5
	}
	if utf8.RuneCountInString(m.Description) > 20 {
		score += 15
	}

	return clamp(score)
}
