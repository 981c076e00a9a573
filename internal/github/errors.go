package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-200 response from the GitHub API.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: GET %s returned %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("github: GET %s returned %d: %s", e.Path, e.StatusCode, e.Message)
}

func newAPIError(status int, path string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Path: path}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		e.Message = payload.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

// IsNotFound reports whether err wraps a 404 from the API.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsForbidden reports whether err wraps a 401 or 403 from the API. GitHub
// answers 403 both for private repositories and for exhausted rate limits.
func IsForbidden(err error) bool {
	s := statusOf(err)
	return s == http.StatusForbidden || s == http.StatusUnauthorized
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
