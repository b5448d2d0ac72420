package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	markerWidth = 4 // "[x] "
	columnGap   = 1
	headerLines = 2 // header + rule
)

type TableColumn struct {
	Label string
	// Glyph is the sort indicator; empty for unsortable columns.
	Glyph   string
	Width   int // 0 shares the remaining width
	Align   lipgloss.Position
	Focused bool
}

type TableRow struct {
	Cells    []string
	Selected bool
	// Placeholder rows draw Cells[0] centred across the whole table.
	Placeholder bool
}

// Table draws a header, a rule, a window of body rows starting at Top and an
// optional footer line. Cursor is an index into Rows, -1 for none.
type Table struct {
	Columns    []TableColumn
	Rows       []TableRow
	Cursor     int
	Top        int
	Selectable bool
	Footer     string
}

var (
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(ColorSubtext0).Bold(true)
	tableFocusStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).Underline(true)
	tableRuleStyle    = lipgloss.NewStyle().Foreground(ColorSurface2)
	placeholderStyle  = lipgloss.NewStyle().Foreground(ColorOverlay1).Italic(true)
	tableFooterStyle  = lipgloss.NewStyle().Foreground(ColorOverlay1)
	selectMarkerStyle = lipgloss.NewStyle().Foreground(ColorGreen)
)

// VisibleRows is how many body rows fit in height.
func (t Table) VisibleRows(height int) int {
	n := height - headerLines
	if t.Footer != "" {
		n--
	}
	return max(0, n)
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	widths := t.columnWidths(width)
	lines := make([]string, 0, height)
	lines = append(lines, padRightANSI(t.renderHeader(widths), width))
	if height > 1 {
		lines = append(lines, tableRuleStyle.Render(strings.Repeat("─", width)))
	}

	visible := t.VisibleRows(height)
	end := min(len(t.Rows), t.Top+visible)
	for i := max(0, t.Top); i < end; i++ {
		lines = append(lines, t.renderRow(t.Rows[i], i == t.Cursor, widths, width))
	}
	if t.Footer != "" && len(lines) < height {
		for len(lines) < height-1 {
			lines = append(lines, "")
		}
		footer := t.Footer
		if len(t.Rows) > visible && visible > 0 {
			footer += fmt.Sprintf("  ── rows %d-%d of %d ──", t.Top+1, end, len(t.Rows))
		}
		lines = append(lines, tableFooterStyle.Render(ansi.Truncate(footer, width, "…")))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (t Table) renderHeader(widths []int) string {
	var b strings.Builder
	if t.Selectable {
		b.WriteString(strings.Repeat(" ", markerWidth))
	}
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		label := c.Label
		if c.Glyph != "" {
			label += " " + c.Glyph
		}
		style := tableHeaderStyle
		if c.Focused {
			style = tableFocusStyle
		}
		b.WriteString(style.Render(alignCell(label, widths[i], c.Align)))
	}
	return b.String()
}

func (t Table) renderRow(row TableRow, isCursor bool, widths []int, width int) string {
	if row.Placeholder {
		text := ""
		if len(row.Cells) > 0 {
			text = row.Cells[0]
		}
		return placeholderStyle.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, ansi.Truncate(text, width, "…")))
	}

	bg, bold := rowBackground(row.Selected, isCursor)
	cell := lipgloss.NewStyle().Background(bg).Bold(bold)
	var b strings.Builder
	if t.Selectable {
		marker := "[ ] "
		if row.Selected {
			marker = selectMarkerStyle.Background(bg).Render("[x]") + cell.Render(" ")
		} else {
			marker = cell.Render(marker)
		}
		b.WriteString(marker)
	}
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(cell.Render(strings.Repeat(" ", columnGap)))
		}
		text := ""
		if i < len(row.Cells) {
			text = row.Cells[i]
		}
		b.WriteString(cell.Render(alignCell(text, widths[i], c.Align)))
	}
	line := ansi.Truncate(b.String(), width, "")
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += cell.Render(strings.Repeat(" ", pad))
	}
	return line
}

func alignCell(text string, width int, pos lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	return lipgloss.PlaceHorizontal(width, pos, text)
}

func (t Table) columnWidths(width int) []int {
	widths := make([]int, len(t.Columns))
	if len(t.Columns) == 0 {
		return widths
	}
	avail := width - columnGap*(len(t.Columns)-1)
	if t.Selectable {
		avail -= markerWidth
	}
	flex := 0
	for i, c := range t.Columns {
		if c.Width > 0 {
			widths[i] = c.Width
			avail -= c.Width
		} else {
			flex++
		}
	}
	if flex == 0 {
		return widths
	}
	shares := splitWidths(max(flex, avail), flex, nil)
	j := 0
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = max(1, shares[j])
			j++
		}
	}
	return widths
}

// ColumnAt maps an x offset inside a table of the given width to a column
// index, or -1 for the marker area, gaps and space past the last column.
func (t Table) ColumnAt(x, width int) int {
	start := 0
	if t.Selectable {
		start = markerWidth
	}
	for i, w := range t.columnWidths(width) {
		if x >= start && x < start+w {
			return i
		}
		start += w + columnGap
	}
	return -1
}

// RowAt maps a y offset to an index into Rows, or -1 for the header, the
// footer and empty space.
func (t Table) RowAt(y, height int) int {
	if y < headerLines {
		return -1
	}
	offset := y - headerLines
	if offset >= t.VisibleRows(height) {
		return -1
	}
	idx := max(0, t.Top) + offset
	if idx >= len(t.Rows) {
		return -1
	}
	return idx
}

// OnMarker reports whether x hits the selection marker of a body row.
func (t Table) OnMarker(x int) bool {
	return t.Selectable && x >= 0 && x < markerWidth
}

// IsHeader reports whether y is the header line.
func (t Table) IsHeader(y int) bool { return y == 0 }
