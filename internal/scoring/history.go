package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// minMeaningfulLength is the message length, in characters, a commit must
// exceed to count as descriptive.
const minMeaningfulLength = 10

// placeholderPrefixes mark throwaway commit messages.
var placeholderPrefixes = []string{"wip", "temp"}

// semverTag matches tags that start with a semantic version, with or without
// a leading "v".
var semverTag = regexp.MustCompile(`^v?\d+\.\d+\.\d+`)

// tier awards bonus once a count reaches min.
type tier struct {
	min   int
	bonus int
}

// commitTiers award points by commit count, highest tier first.
var commitTiers = []tier{
	{100, 20},
	{50, 16},
	{20, 12},
	{10, 8},
	{1, 4},
}

// releaseTiers award points by release count, highest tier first.
var releaseTiers = []tier{
	{5, 40},
	{2, 30},
	{1, 20},
}

// Commits scores the commit log for volume, message quality and recency.
//
// Scoring breakdown:
//   - No commits:        20 points flat
//   - Base:              20 points
//   - Commit count:      4-20 points (tiers at 1/10/20/50/100)
//   - Message quality:   0-40 points (share of meaningful messages)
//   - Recent activity:   20 points (any commit in the 3 months before capture)
func Commits(s *snapshot.Snapshot) int {
	if len(s.Commits) == 0 {
		return 20
	}

	score := 20
	score += tierBonus(len(s.Commits), commitTiers)

	meaningful := 0
	for _, c := range s.Commits {
		if isMeaningful(c.Message) {
			meaningful++
		}
	}
	score += meaningful * 40 / len(s.Commits)

	if hasRecentCommit(s) {
		score += 20
	}

	return clamp(score)
}

// Versioning scores release discipline.
//
// Scoring breakdown:
//   - Base:             30 points (also the score with no releases)
//   - Release count:    20-40 points (tiers at 1/2/5)
//   - Semantic version: 10 points (any tag like 1.2.3 or v1.2.3)
func Versioning(s *snapshot.Snapshot) int {
	score := 30
	if len(s.Releases) == 0 {
		return score
	}

	score += tierBonus(len(s.Releases), releaseTiers)

	for _, r := range s.Releases {
		if semverTag.MatchString(strings.TrimSpace(r.TagName)) {
			score += 10
			break
		}
	}

	return clamp(score)
}

// isMeaningful reports whether a commit message describes a change rather
// than marking work in progress.
func isMeaningful(message string) bool {
	msg := strings.TrimSpace(message)
	if utf8.RuneCountInString(msg) <= minMeaningfulLength {
		return false
	}
	lower := strings.ToLower(msg)
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return true
}

// hasRecentCommit reports whether any commit was authored within three
// calendar months before the snapshot's capture time. A snapshot without a
// capture time has no reference point and reports false.
func hasRecentCommit(s *snapshot.Snapshot) bool {
	if s.CapturedAt.IsZero() {
		return false
	}
	cutoff := s.CapturedAt.AddDate(0, -3, 0)
	for _, c := range s.Commits {
		if !c.AuthoredAt.IsZero() && c.AuthoredAt.After(cutoff) {
			return true
		}
	}
	return false
}

// tierBonus returns the bonus of the first tier whose minimum n reaches.
func tierBonus(n int, tiers []tier) int {
	for _, t := range tiers {
		if n >= t.min {
			return t.bonus
		}
	}
	return 0
}
