package scoring

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// Root-entry conventions. Patterns are doublestar globs matched against
// lowercased names.
var (
	sourceDirs = []string{"src", "lib", "cmd", "pkg", "internal", "app"}
	testDirs   = []string{"test", "tests", "spec", "__tests__"}
	docsDirs   = []string{"docs", "doc", "documentation"}
	ignoreFile = []string{".gitignore"}
	manifests  = []string{
		"package.json",
		"setup.py",
		"pyproject.toml",
		"go.mod",
		"cargo.toml",
		"pom.xml",
		"build.gradle",
		"build.gradle.kts",
		"gemfile",
		"composer.json",
		"cmakelists.txt",
		"*.csproj",
		"*.gemspec",
		"*.cabal",
	}
)

// testIndicators are substrings that mark test code or test tooling.
var testIndicators = []string{
	"test",
	"spec",
	"coverage",
	"jest",
	"mocha",
	"pytest",
	"unittest",
	"gotest",
	"vitest",
	"cypress",
}

// ciIndicators are root entries that mean a CI pipeline is configured.
var ciIndicators = []string{
	".github",
	".circleci",
	".travis.yml",
	".gitlab-ci.yml",
	"jenkinsfile",
	"azure-pipelines.yml",
	".drone.yml",
}

// Structure scores the root layout against common conventions.
//
// Scoring breakdown:
//   - Base:             50 points (also the score for an unknown layout)
//   - Source directory: 10 points
//   - Test directory:   10 points
//   - Docs directory:   5 points
//   - .gitignore:       5 points
//   - Build manifest:   10 points
func Structure(s *snapshot.Snapshot) int {
	score := 50

	names := lowerNames(s.Contents)
	if len(names) == 0 {
		return score
	}

	checks := []struct {
		patterns []string
		bonus    int
	}{
		{sourceDirs, 10},
		{testDirs, 10},
		{docsDirs, 5},
		{ignoreFile, 5},
		{manifests, 10},
	}
	for _, c := range checks {
		if matchAny(names, c.patterns) {
			score += c.bonus
		}
	}

	return clamp(score)
}

// Testing scores evidence of automated tests at the repository root.
//
// Scoring breakdown:
//   - Base:            30 points
//   - Test indicator:  55 points (any root name containing a test keyword)
//   - CI pipeline:     15 points
func Testing(s *snapshot.Snapshot) int {
	score := 30

	names := lowerNames(s.Contents)
	if len(names) == 0 {
		return score
	}

	for _, n := range names {
		if containsAny(n, testIndicators) {
			score += 55
			break
		}
	}
	if matchAny(names, ciIndicators) {
		score += 15
	}

	return clamp(score)
}

// lowerNames returns the lowercased, trimmed, non-empty entry names.
func lowerNames(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// matchAny reports whether any name matches any pattern. A malformed pattern
// never matches.
func matchAny(names, patterns []string) bool {
	for _, n := range names {
		for _, p := range patterns {
			if ok, err := doublestar.Match(p, n); err == nil && ok {
				return true
			}
		}
	}
	return false
}
