package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func sampleTable() Table {
	return Table{
		Columns: []TableColumn{
			{Label: "Property", Glyph: "▲", Width: 14},
			{Label: "Location", Glyph: "↕"},
			{Label: "Revenue", Glyph: "↕", Width: 10, Align: lipgloss.Right, Focused: true},
		},
		Rows: []TableRow{
			{Cells: []string{"Grand Hotel", "New York, NY", "$1,250,000.00"}, Selected: true},
			{Cells: []string{"Seaside Resort", "Miami, FL", "$1,850,000.00"}},
			{Cells: []string{"Mountain Lodge", "Denver, CO", "$950,000.00"}},
		},
		Cursor:     1,
		Selectable: true,
		Footer:     "1 selected",
	}
}

func TestTableRenderLayout(t *testing.T) {
	tbl := sampleTable()
	out := tbl.Render(50, 7)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("line count = %d, want 7:\n%s", len(lines), ansi.Strip(out))
	}
	header := ansi.Strip(lines[0])
	if !strings.Contains(header, "Property ▲") || !strings.Contains(header, "Location ↕") {
		t.Fatalf("header missing glyphs: %q", header)
	}
	if !strings.HasPrefix(ansi.Strip(lines[2]), "[x] Grand Hotel") {
		t.Fatalf("selected row marker missing: %q", ansi.Strip(lines[2]))
	}
	if !strings.HasPrefix(ansi.Strip(lines[3]), "[ ] Seaside Resort") {
		t.Fatalf("unselected row marker missing: %q", ansi.Strip(lines[3]))
	}
	if !strings.HasSuffix(ansi.Strip(lines[4]), "$950,000.…") && !strings.HasSuffix(ansi.Strip(lines[4]), "$950,000.00") {
		t.Fatalf("revenue not right aligned: %q", ansi.Strip(lines[4]))
	}
	for i, line := range lines[:5] {
		if w := ansi.StringWidth(line); w != 50 {
			t.Fatalf("line %d width = %d, want 50", i, w)
		}
	}
	if !strings.HasPrefix(ansi.Strip(lines[6]), "1 selected") {
		t.Fatalf("footer = %q", ansi.Strip(lines[6]))
	}
}

func TestTableScrollWindowAndFooterRange(t *testing.T) {
	tbl := sampleTable()
	tbl.Top = 1
	out := ansi.Strip(tbl.Render(50, 5))
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("line count = %d", len(lines))
	}
	if !strings.Contains(lines[2], "Seaside Resort") || !strings.Contains(lines[3], "Mountain Lodge") {
		t.Fatalf("unexpected window:\n%s", out)
	}
	if !strings.Contains(lines[4], "rows 2-3 of 3") {
		t.Fatalf("footer range missing: %q", lines[4])
	}
}

func TestTablePlaceholderIsCentered(t *testing.T) {
	tbl := Table{
		Columns: []TableColumn{{Label: "Property"}, {Label: "Location"}},
		Rows:    []TableRow{{Cells: []string{"No data available"}, Placeholder: true}},
		Cursor:  -1,
	}
	lines := strings.Split(ansi.Strip(tbl.Render(41, 3)), "\n")
	body := lines[2]
	if strings.TrimSpace(body) != "No data available" {
		t.Fatalf("placeholder = %q", body)
	}
	if !strings.HasPrefix(body, "        ") {
		t.Fatalf("placeholder not centred: %q", body)
	}
}

func TestTableHitTesting(t *testing.T) {
	tbl := sampleTable()
	// marker 4, Property 14, gap, Location flex, gap, Revenue 10 at width 50.
	cases := []struct {
		x    int
		want int
	}{
		{0, -1},
		{4, 0},
		{17, 0},
		{18, -1},
		{19, 1},
		{38, 1},
		{40, 2},
		{49, 2},
	}
	for _, tc := range cases {
		if got := tbl.ColumnAt(tc.x, 50); got != tc.want {
			t.Errorf("ColumnAt(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}

	if !tbl.IsHeader(0) || tbl.IsHeader(2) {
		t.Fatalf("IsHeader mismatch")
	}
	if got := tbl.RowAt(1, 7); got != -1 {
		t.Fatalf("rule line mapped to row %d", got)
	}
	if got := tbl.RowAt(3, 7); got != 1 {
		t.Fatalf("RowAt(3) = %d, want 1", got)
	}
	if got := tbl.RowAt(5, 7); got != -1 {
		t.Fatalf("empty space mapped to row %d", got)
	}
	tbl.Top = 2
	if got := tbl.RowAt(2, 7); got != 2 {
		t.Fatalf("scrolled RowAt(2) = %d, want 2", got)
	}
}

func TestTableVisibleRows(t *testing.T) {
	tbl := Table{}
	if got := tbl.VisibleRows(10); got != 8 {
		t.Fatalf("VisibleRows = %d, want 8", got)
	}
	tbl.Footer = "x"
	if got := tbl.VisibleRows(10); got != 7 {
		t.Fatalf("VisibleRows with footer = %d, want 7", got)
	}
	if got := tbl.VisibleRows(1); got != 0 {
		t.Fatalf("VisibleRows(1) = %d, want 0", got)
	}
}
