// Package snapshot defines the immutable bundle of repository facts that the
// scoring engine evaluates.
package snapshot

import (
	"errors"
	"time"
)

// ErrMissingMetadata is returned when a snapshot carries no repository
// metadata. Metadata comes from the one mandatory fetch, so its absence is
// never papered over with defaults.
var ErrMissingMetadata = errors.New("snapshot: repository metadata is missing")

// Snapshot is a point-in-time view of a repository. Every collection may be
// empty; only Metadata is required.
type Snapshot struct {
	// Metadata is the repository-level record. Required.
	Metadata *Metadata `json:"metadata" yaml:"metadata"`

	// Contents lists the entry names at the repository root. Nil or empty
	// means the structure is unknown.
	Contents []string `json:"contents" yaml:"contents"`

	// Commits holds the most recent commits, newest first.
	Commits []Commit `json:"commits" yaml:"commits"`

	// Languages maps language name to the number of bytes observed.
	Languages map[string]int64 `json:"languages" yaml:"languages"`

	// Readme is nil when the repository has no README or it could not be read.
	Readme *Readme `json:"readme,omitempty" yaml:"readme,omitempty"`

	// Releases lists published releases, newest first.
	Releases []Release `json:"releases" yaml:"releases"`

	// CapturedAt is the instant the snapshot was assembled. It anchors
	// recency checks so a stored snapshot scores the same forever.
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
}

// Metadata is the repository-level record returned by the hosting provider.
type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Stars       int    `json:"stars" yaml:"stars"`
	Forks       int    `json:"forks" yaml:"forks"`
	Watchers    int    `json:"watchers" yaml:"watchers"`
	OpenIssues  int    `json:"open_issues" yaml:"open_issues"`
	Description string `json:"description" yaml:"description"`
	HasLicense  bool   `json:"has_license" yaml:"has_license"`
	Language    string `json:"language" yaml:"language"`
	Size        int64  `json:"size" yaml:"size"`
}

// Commit is a single entry from the commit log.
type Commit struct {
	Message    string    `json:"message" yaml:"message"`
	AuthoredAt time.Time `json:"authored_at" yaml:"authored_at"`
}

// Readme holds the decoded README text and its size in bytes.
type Readme struct {
	Content string `json:"content" yaml:"content"`
	Size    int64  `json:"size" yaml:"size"`
}

// Release is a published release; only the tag is inspected.
type Release struct {
	TagName string `json:"tag_name" yaml:"tag_name"`
}

// Validate checks the only fatal precondition: metadata must be present and
// name the repository.
func (s *Snapshot) Validate() error {
	if s == nil || s.Metadata == nil || s.Metadata.Name == "" {
		return ErrMissingMetadata
	}
	return nil
}

// ReadmeSize returns the README size in bytes, falling back to the content
// length when the provider did not report one. Zero when there is no README.
func (s *Snapshot) ReadmeSize() int64 {
	if s.Readme == nil {
		return 0
	}
	if s.Readme.Size > 0 {
		return s.Readme.Size
	}
	return int64(len(s.Readme.Content))
}
