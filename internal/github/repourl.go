package github

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when a string does not name a GitHub repository.
var ErrInvalidURL = errors.New("invalid GitHub repository URL")

var (
	hostedRepoRe = regexp.MustCompile(`(?i)github\.com[:/]([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+)`)
	shortRepoRe  = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+)$`)
)

// ParseRepoURL extracts the owner and repository name from an https or ssh
// GitHub URL, or from a bare "owner/repo" pair. A trailing ".git" is dropped.
func ParseRepoURL(s string) (owner, repo string, err error) {
	s = strings.TrimSpace(s)
	m := hostedRepoRe.FindStringSubmatch(s)
	if m == nil {
		m = shortRepoRe.FindStringSubmatch(s)
	}
	if m == nil {
		return "", "", ErrInvalidURL
	}
	owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
	if repo == "" || repo == "." || repo == ".." {
		return "", "", ErrInvalidURL
	}
	return owner, repo, nil
}
