package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/rubric"
)

const barWidth = 20

// RenderReport writes a human-readable evaluation report to w. width bounds
// the wrapped summary and roadmap text; values below 40 fall back to 80.
func RenderReport(w io.Writer, res *evaluate.Result, width int) error {
	if width < 40 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width - 4)

	var sb strings.Builder
	md := res.Metadata

	sb.WriteString(Section("Repository Evaluation: " + md.Name))
	sb.WriteString("\n")
	writeField(&sb, "URL", md.URL)
	language := md.Language
	if language == "" {
		language = StyleMuted.Render("unknown")
	}
	writeField(&sb, "Language", language)
	writeField(&sb, "Stars", humanize.Comma(int64(md.Stars)))
	writeField(&sb, "Forks", humanize.Comma(int64(md.Forks)))
	writeField(&sb, "Policy", StyleMuted.Render(res.Policy))
	sb.WriteString("\n")
	writeField(&sb, "Overall", ScoreBar(res.Score, barWidth)+"  "+LevelStyle(res.Level).Render(string(res.Level)))

	sb.WriteString(Section("Dimension Scores"))
	sb.WriteString("\n")
	tbl := NewTable("Dimension", "Score")
	for _, d := range rubric.Dimensions {
		tbl.AddRow(dimensionLabel(d), ScoreBar(res.Scores.Of(d), barWidth))
	}
	sb.WriteString(indent(tbl.Render(), " "))

	sb.WriteString(Section("Summary"))
	sb.WriteString("\n")
	sb.WriteString(indent(wrap.Render(res.Summary), " "))
	sb.WriteString("\n")

	sb.WriteString(Section("Improvement Roadmap"))
	sb.WriteString("\n")
	for i, item := range res.Roadmap {
		badge := PriorityStyle(item.Priority).Render(fmt.Sprintf("[%s]", item.Priority))
		fmt.Fprintf(&sb, " %d. %s %s\n", i+1, badge, StyleBold.Render(item.Title))
		sb.WriteString(indent(wrap.Render(item.Description), "    "))
		sb.WriteString("\n")
		sb.WriteString(indent(StyleMuted.Render(wrap.Render("Impact: "+item.Impact)), "    "))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderPolicy writes the policy's weights and thresholds as a table.
func RenderPolicy(w io.Writer, p *rubric.Policy) error {
	var sb strings.Builder
	sb.WriteString(Section("Policy " + p.ID()))
	sb.WriteString("\n")
	if p.Description != "" {
		sb.WriteString(" " + StyleMuted.Render(p.Description) + "\n\n")
	}

	tbl := NewTable("Dimension", "Weight", "Roadmap below").AlignRight(1, 2)
	for _, d := range rubric.Dimensions {
		threshold := StyleMuted.Render("-")
		if t, ok := p.ActionThreshold(d); ok {
			threshold = fmt.Sprintf("%d", t)
		}
		tbl.AddRow(dimensionLabel(d), fmt.Sprintf("%.0f%%", p.Weights[d]*100), threshold)
	}
	sb.WriteString(indent(tbl.Render(), " "))
	sb.WriteString("\n")

	writeField(&sb, "Advanced", fmt.Sprintf(">= %d", p.Levels.Advanced))
	writeField(&sb, "Intermediate", fmt.Sprintf(">= %d", p.Levels.Intermediate))
	writeField(&sb, "Strength at", fmt.Sprintf(">= %d", p.Narrative.StrengthAt))
	writeField(&sb, "Gap below", fmt.Sprintf("< %d", p.Narrative.GapBelow))

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(" " + StyleLabel.Render(label) + value + "\n")
}

// dimensionLabel capitalizes a dimension name for display.
func dimensionLabel(d rubric.Dimension) string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
