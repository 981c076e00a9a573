package output

import (
	"fmt"
	"strings"
)

// ruleWidth is the length of the horizontal rule under section headers.
const ruleWidth = 66

// ScoreBar renders a visual progress bar for a 0-100 score.
// Example: "████████░░  80/100"
func ScoreBar(score, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := score * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", scoreStyle(score).Render(bar), StyleMuted.Render(fmt.Sprintf("%3d/100", score)))
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", ruleWidth))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
