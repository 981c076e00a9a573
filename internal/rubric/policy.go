package rubric

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultPolicyName is the built-in policy used when none is configured.
const DefaultPolicyName = "standard-v1"

// weightTolerance bounds the rounding slack allowed when weights are summed.
const weightTolerance = 1e-6

// Policy is the versioned rubric configuration: how dimensions are weighted,
// where the level cut points sit, and which scores trigger roadmap items or
// narrative phrases. Scorer logic never reads literals that live here.
type Policy struct {
	Name             string                `yaml:"name" json:"name"`
	Version          int                   `yaml:"version" json:"version"`
	Description      string                `yaml:"description,omitempty" json:"description,omitempty"`
	Weights          map[Dimension]float64 `yaml:"weights" json:"weights"`
	Levels           Levels                `yaml:"levels" json:"levels"`
	ActionThresholds map[Dimension]int     `yaml:"action_thresholds" json:"action_thresholds"`
	Narrative        NarrativeMarks        `yaml:"narrative" json:"narrative"`
}

// Levels holds the minimum overall score for each non-beginner level.
type Levels struct {
	Advanced     int `yaml:"advanced" json:"advanced"`
	Intermediate int `yaml:"intermediate" json:"intermediate"`
}

// NarrativeMarks sets the high- and low-water marks for the summary text.
type NarrativeMarks struct {
	// StrengthAt is the minimum score for a dimension to be named a strength.
	StrengthAt int `yaml:"strength_at" json:"strength_at"`

	// GapBelow names a dimension as a gap when its score is strictly below it.
	GapBelow int `yaml:"gap_below" json:"gap_below"`
}

// ID returns the policy's versioned identifier, e.g. "standard@v1".
func (p *Policy) ID() string {
	return fmt.Sprintf("%s@v%d", p.Name, p.Version)
}

// Classify maps an overall score onto a Level.
func (p *Policy) Classify(overall int) Level {
	switch {
	case overall >= p.Levels.Advanced:
		return LevelAdvanced
	case overall >= p.Levels.Intermediate:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// BasisPoints returns the weight of d in hundredths of a percent, so that
// aggregation can run in exact integer arithmetic.
func (p *Policy) BasisPoints(d Dimension) int {
	return int(math.Round(p.Weights[d] * 10000))
}

// ActionThreshold returns the score below which d earns a roadmap item, and
// whether the policy defines one for d at all.
func (p *Policy) ActionThreshold(d Dimension) (int, bool) {
	t, ok := p.ActionThresholds[d]
	return t, ok
}

// Validate checks every structural invariant of the policy and reports all
// violations at once.
func (p *Policy) Validate() error {
	var problems []string

	if p.Name == "" {
		problems = append(problems, "name is required")
	}
	if p.Version < 1 {
		problems = append(problems, "version must be >= 1")
	}

	var sum float64
	for d, w := range p.Weights {
		if !d.Valid() {
			problems = append(problems, fmt.Sprintf("unknown weight dimension %q", d))
			continue
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			problems = append(problems, fmt.Sprintf("weight for %s is not a finite number", d))
			continue
		}
		if w < 0 {
			problems = append(problems, fmt.Sprintf("weight for %s is negative", d))
		}
		sum += w
	}
	for _, d := range Dimensions {
		if _, ok := p.Weights[d]; !ok {
			problems = append(problems, fmt.Sprintf("missing weight for %s", d))
		}
	}
	if math.Abs(sum-1.0) > weightTolerance {
		problems = append(problems, fmt.Sprintf("weights sum to %.4f, want 1.0", sum))
	}

	if p.Levels.Intermediate <= 0 || p.Levels.Intermediate >= p.Levels.Advanced || p.Levels.Advanced > 100 {
		problems = append(problems, fmt.Sprintf(
			"levels must satisfy 0 < intermediate (%d) < advanced (%d) <= 100",
			p.Levels.Intermediate, p.Levels.Advanced))
	}

	for d, t := range p.ActionThresholds {
		if !d.Valid() {
			problems = append(problems, fmt.Sprintf("unknown action threshold dimension %q", d))
			continue
		}
		if t < 0 || t > 100 {
			problems = append(problems, fmt.Sprintf("action threshold for %s out of range: %d", d, t))
		}
	}

	n := p.Narrative
	if n.GapBelow < 0 || n.StrengthAt > 100 || n.GapBelow >= n.StrengthAt {
		problems = append(problems, fmt.Sprintf(
			"narrative marks must satisfy 0 <= gap_below (%d) < strength_at (%d) <= 100",
			n.GapBelow, n.StrengthAt))
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return errors.New("invalid policy: " + strings.Join(problems, "; "))
}

// ParsePolicy decodes and validates a YAML policy. Unknown fields are rejected
// so a typo cannot silently fall back to a zero weight.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPolicy reads a policy file from disk.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// LoadBuiltin loads an embedded policy by name (without extension).
func LoadBuiltin(name string) (*Policy, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in policy %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return ParsePolicy(data)
}

// BuiltinNames lists the embedded policies in sorted order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Default returns the canonical built-in policy. It panics if the embedded
// file is invalid, which the package tests guard against.
func Default() *Policy {
	p, err := LoadBuiltin(DefaultPolicyName)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve picks a policy: an explicit file path wins, then a built-in name,
// then the default.
func Resolve(pathOrName string) (*Policy, error) {
	if pathOrName == "" {
		return LoadBuiltin(DefaultPolicyName)
	}
	if _, err := os.Stat(pathOrName); err == nil {
		return LoadPolicy(pathOrName)
	}
	return LoadBuiltin(pathOrName)
}

// EncodeYAML renders p as a YAML document.
func (p *Policy) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
