// Package output provides styled terminal rendering helpers for repoeval.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/repoeval/internal/rubric"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for strong scores and low-priority items.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for weak scores and high-priority items.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for middling scores and medium-priority items.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	applyStyles(false)
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally by reassigning every
// package-level style.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// IsTerminal reports whether w is an interactive terminal. Anything that is
// not an *os.File, such as a buffer or a pipe wrapper, is not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	if plain {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleMuted = base
		StyleBold = base
		StyleLabel = base.Width(16)
		StyleValue = base.Width(12)
		return
	}
	StyleHeader = base.Foreground(ColorPrimary).Bold(true)
	StyleSuccess = base.Foreground(ColorSuccess)
	StyleError = base.Foreground(ColorError)
	StyleWarning = base.Foreground(ColorWarning)
	StyleMuted = base.Foreground(ColorMuted)
	StyleBold = base.Bold(true)
	StyleLabel = base.Width(16)
	StyleValue = base.Bold(true).Width(12)
}

// scoreStyle picks the style for a 0-100 score band.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return StyleSuccess
	case score >= 40:
		return StyleWarning
	default:
		return StyleError
	}
}

// PriorityStyle returns the style used for a roadmap priority badge.
func PriorityStyle(p rubric.Priority) lipgloss.Style {
	switch p {
	case rubric.PriorityHigh:
		return StyleError
	case rubric.PriorityMedium:
		return StyleWarning
	default:
		return StyleSuccess
	}
}

// LevelStyle returns the style used for a level label.
func LevelStyle(l rubric.Level) lipgloss.Style {
	switch l {
	case rubric.LevelAdvanced:
		return StyleSuccess.Bold(!noColor)
	case rubric.LevelIntermediate:
		return StyleWarning.Bold(!noColor)
	default:
		return StyleError.Bold(!noColor)
	}
}
