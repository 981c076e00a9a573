package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnGap separates adjacent columns.
const columnGap = "  "

// Table renders aligned columns for the terminal. Cells may carry ANSI
// styling; widths are measured on visible characters only.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   []bool
}

// NewTable creates a table with the given column headers. Columns are
// left-aligned until AlignRight says otherwise.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		widths:  make([]int, len(headers)),
		right:   make([]bool, len(headers)),
	}
	t.grow(headers)
	return t
}

// AlignRight right-aligns the given zero-based columns. Out-of-range indexes
// are ignored.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
	return t
}

// AddRow appends a row. Missing trailing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.grow(row)
	t.rows = append(t.rows, row)
}

func (t *Table) grow(cells []string) {
	for i, c := range cells {
		t.widths[i] = max(t.widths[i], visualLen(c))
	}
}

// Render returns the formatted table: header, rule, then rows. A table with
// no columns renders as the empty string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	var sb strings.Builder
	t.writeLine(&sb, t.headers, StyleHeader.Render)

	rule := make([]string, len(t.widths))
	for i, w := range t.widths {
		rule[i] = strings.Repeat("─", w)
	}
	t.writeLine(&sb, rule, StyleMuted.Render)

	for _, row := range t.rows {
		t.writeLine(&sb, row, nil)
	}
	return sb.String()
}

// writeLine pads each cell to its column and applies style, if any, to the
// padded cell.
func (t *Table) writeLine(sb *strings.Builder, cells []string, style func(...string) string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		cell := padLeft(c, t.widths[i])
		if !t.right[i] {
			cell = pad(c, t.widths[i])
		}
		if style != nil {
			cell = style(cell)
		}
		sb.WriteString(cell)
	}
	sb.WriteByte('\n')
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.Render()
}

// Fprint writes the rendered table to w.
func (t *Table) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, t.Render())
	return err
}

// visualLen returns the printed width of s, ignoring ANSI escape sequences.
func visualLen(s string) int {
	return lipgloss.Width(s)
}

// pad right-pads s to the given visible width. Longer strings are returned
// unchanged.
func pad(s string, width int) string {
	if n := visualLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft is pad for right-aligned columns.
func padLeft(s string, width int) string {
	if n := visualLen(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
