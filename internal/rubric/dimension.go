// Package rubric defines the closed set of quality dimensions, the level and
// priority enums, and the versioned Policy that fixes weights and thresholds.
package rubric

// Dimension names one of the seven quality axes.
type Dimension string

const (
	Documentation Dimension = "documentation"
	Structure     Dimension = "structure"
	Commits       Dimension = "commits"
	Languages     Dimension = "languages"
	Community     Dimension = "community"
	Testing       Dimension = "testing"
	Versioning    Dimension = "versioning"
)

// Dimensions lists every dimension in canonical order.
var Dimensions = []Dimension{
	Documentation,
	Structure,
	Commits,
	Languages,
	Community,
	Testing,
	Versioning,
}

// Valid reports whether d is one of the seven dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case Documentation, Structure, Commits, Languages, Community, Testing, Versioning:
		return true
	}
	return false
}

// Scores holds one 0-100 value per dimension.
type Scores struct {
	Documentation int `json:"documentation"`
	Structure     int `json:"structure"`
	Commits       int `json:"commits"`
	Languages     int `json:"languages"`
	Community     int `json:"community"`
	Testing       int `json:"testing"`
	Versioning    int `json:"versioning"`
}

// Of returns the score for d. Unknown dimensions read as zero.
func (s Scores) Of(d Dimension) int {
	switch d {
	case Documentation:
		return s.Documentation
	case Structure:
		return s.Structure
	case Commits:
		return s.Commits
	case Languages:
		return s.Languages
	case Community:
		return s.Community
	case Testing:
		return s.Testing
	case Versioning:
		return s.Versioning
	}
	return 0
}

// With returns a copy of s with d set to v.
func (s Scores) With(d Dimension, v int) Scores {
	switch d {
	case Documentation:
		s.Documentation = v
	case Structure:
		s.Structure = v
	case Commits:
		s.Commits = v
	case Languages:
		s.Languages = v
	case Community:
		s.Community = v
	case Testing:
		s.Testing = v
	case Versioning:
		s.Versioning = v
	}
	return s
}
