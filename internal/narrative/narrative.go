// Package narrative turns dimension scores into a short, deterministic prose
// summary of a repository's strengths and gaps.
package narrative

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/repoeval/internal/rubric"
)

// phrase holds the strength and gap wording for one dimension.
type phrase struct {
	dimension rubric.Dimension
	strength  string
	gap       string
}

// phrases is ordered by narrative priority: earlier entries are mentioned
// first and win the two gap slots.
var phrases = []phrase{
	{rubric.Documentation, "comprehensive documentation", "improve README with setup and usage instructions"},
	{rubric.Testing, "solid test coverage", "add unit and integration tests"},
	{rubric.Commits, "consistent commit history", "establish more consistent commit practices"},
	{rubric.Structure, "a well-organized project structure", "better organize project structure"},
	{rubric.Versioning, "disciplined release versioning", "create releases and version tags"},
	{rubric.Community, "good community engagement", "grow community engagement"},
	{rubric.Languages, "a mainstream language stack", "consolidate around well-supported languages"},
}

// maxGaps caps how many gaps the summary names.
const maxGaps = 2

// Input is everything the summary needs.
type Input struct {
	Scores      rubric.Scores
	Level       rubric.Level
	Language    string
	Stars       int
	CommitCount int
	Marks       rubric.NarrativeMarks
}

// Summarize builds the summary: an opening naming the language and level, an
// optional strengths sentence, a gaps sentence (or a well-maintained note when
// there are none), and a closing sentence citing stars and commits.
func Summarize(in Input) string {
	var strengths, gaps []string
	for _, p := range phrases {
		score := in.Scores.Of(p.dimension)
		switch {
		case score >= in.Marks.StrengthAt:
			strengths = append(strengths, p.strength)
		case score < in.Marks.GapBelow:
			gaps = append(gaps, p.gap)
		}
	}

	language := in.Language
	if language == "" {
		language = "general"
	}

	sentences := []string{
		fmt.Sprintf("This %s repository demonstrates %s %s-level project.",
			language, article(in.Level), strings.ToLower(string(in.Level))),
	}

	if len(strengths) > 0 {
		sentences = append(sentences, fmt.Sprintf("Strengths include: %s.", strings.Join(strengths, ", ")))
	}

	if len(gaps) > 0 {
		if len(gaps) > maxGaps {
			gaps = gaps[:maxGaps]
		}
		sentences = append(sentences, fmt.Sprintf("To improve, focus on: %s.", strings.Join(gaps, " and ")))
	} else {
		sentences = append(sentences, "This is a well-maintained project with good practices applied.")
	}

	sentences = append(sentences, fmt.Sprintf("The repository has %s and %s.",
		count(in.Stars, "star"), count(in.CommitCount, "analyzed commit")))

	return strings.Join(sentences, " ")
}

// article returns the indefinite article for a level name.
func article(l rubric.Level) string {
	switch l {
	case rubric.LevelAdvanced, rubric.LevelIntermediate:
		return "an"
	default:
		return "a"
	}
}

// count formats n with thousands separators and a naively pluralized noun.
func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
