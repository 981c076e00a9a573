// Package snapshottest provides reference snapshots shared by tests across
// the engine, server and MCP packages.
package snapshottest

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

// CapturedAt is the fixed reference instant used by every fixture.
var CapturedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

// Bare returns a repository with metadata only: no README, no listing, no
// commits, no languages, no releases and no stars or forks.
func Bare() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Metadata: &snapshot.Metadata{
			Name: "empty-repo",
			URL:  "https://github.com/acme/empty-repo",
		},
		CapturedAt: CapturedAt,
	}
}

// Healthy returns a well-kept repository that scores at least 70 on every
// dimension: a 2000-byte README with install, usage and license sections,
// 60 descriptive recent commits, a conventional layout, two dominant
// languages, 120 stars, 15 forks and five semantic-version releases.
func Healthy() *snapshot.Snapshot {
	commits := make([]snapshot.Commit, 0, 60)
	for i := 0; i < 60; i++ {
		commits = append(commits, snapshot.Commit{
			Message:    fmt.Sprintf("feat: add parser support for case %d", i),
			AuthoredAt: CapturedAt.AddDate(0, 0, -i),
		})
	}

	return &snapshot.Snapshot{
		Metadata: &snapshot.Metadata{
			Name:        "widget",
			URL:         "https://github.com/acme/widget",
			Stars:       120,
			Forks:       15,
			Watchers:    120,
			OpenIssues:  3,
			Description: "A toolkit for evaluating repository quality",
			HasLicense:  true,
			Language:    "JavaScript",
			Size:        2048,
		},
		Contents:  []string{"src", "tests", "docs", ".gitignore", "package.json"},
		Commits:   commits,
		Languages: map[string]int64{"JavaScript": 7000, "CSS": 3000},
		Readme: &snapshot.Readme{
			Content: Readme(2000),
			Size:    2000,
		},
		Releases: []snapshot.Release{
			{TagName: "1.4.0"},
			{TagName: "1.3.0"},
			{TagName: "1.2.0"},
			{TagName: "1.1.0"},
			{TagName: "1.0.0"},
		},
		CapturedAt: CapturedAt,
	}
}

// Readme returns README text of exactly size bytes containing install,
// usage and license sections.
func Readme(size int) string {
	head := "# Widget\n\n## Installation\n\nnpm i widget\n\n## Usage\n\nwidget run\n\n## License\n\nMIT\n\n"
	if size <= len(head) {
		return head[:size]
	}
	filler := strings.Repeat("Widget scores repositories. ", size/28+1)
	return head + filler[:size-len(head)]
}
