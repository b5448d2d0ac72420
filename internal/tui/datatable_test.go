package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/innkeeper/internal/tabular"
)

type room struct {
	ID     string
	Name   string
	City   string
	Nights int
}

type roomEvents struct {
	activated []room
	exported  []tabular.ExportFormat
	deleted   [][]room
	edited    []room
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newRoomTable(t *testing.T) (*DataTable[room], *roomEvents, *fakeClipboard) {
	t.Helper()
	fields := []tabular.Field[room]{
		{Name: "id", Value: func(r room) any { return r.ID }},
		{Name: "name", Value: func(r room) any { return r.Name }},
		{Name: "city", Value: func(r room) any { return r.City }},
		{Name: "nights", Value: func(r room) any { return r.Nights }},
	}
	ev := &roomEvents{}
	cb := &fakeClipboard{}
	view := tabular.New(tabular.Config[room]{
		Schema: tabular.Schema[room]{Key: tabular.KeyField(fields, "id"), Fields: fields},
		Columns: []tabular.Column[room]{
			{Key: "name", Header: "Name"},
			{Key: "city", Header: "City", Unsortable: true},
			{Key: "nights", Header: "Nights", Align: tabular.AlignRight},
		},
		Title:           "Rooms",
		ShowToolbar:     true,
		ShowContextMenu: true,
		Clipboard:       cb,
		Actions: tabular.ActionFuncs[room]{
			OnActivate:   func(r room) { ev.activated = append(ev.activated, r) },
			OnExport:     func(f tabular.ExportFormat) { ev.exported = append(ev.exported, f) },
			OnDeleteRows: func(rows []room) { ev.deleted = append(ev.deleted, rows) },
			OnEditRow:    func(r room) { ev.edited = append(ev.edited, r) },
		},
	})
	d := NewDataTable(view, nil)
	d.SetSize(60, 12)
	d.SetRows([]room{
		{ID: "r1", Name: "Zed", City: "Denver", Nights: 3},
		{ID: "r2", Name: "Amy", City: "Miami", Nights: 1},
		{ID: "r3", Name: "Bob", City: "Seattle", Nights: 7},
	})
	return d, ev, cb
}

func press(d *DataTable[room], keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		last = d.Update(keyMsg(k))
	}
	return last
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func click(d *DataTable[room], button tea.MouseButton, x, y int) tea.Cmd {
	return d.Update(tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionPress})
}

func names(rows []room) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestDataTableSortKeys(t *testing.T) {
	d, _, _ := newRoomTable(t)

	press(d, "s")
	if diff := cmp.Diff([]string{"Amy", "Bob", "Zed"}, names(d.Tabular().Displayed())); diff != "" {
		t.Fatalf("ascending (-want +got):\n%s", diff)
	}
	press(d, "s")
	if diff := cmp.Diff([]string{"Zed", "Bob", "Amy"}, names(d.Tabular().Displayed())); diff != "" {
		t.Fatalf("descending (-want +got):\n%s", diff)
	}

	// City is unsortable; the click is ignored.
	press(d, "l", "s")
	require.Equal(t, tabular.SortedDescending("name"), d.Tabular().Sort())

	press(d, "0")
	require.Equal(t, []string{"Zed", "Amy", "Bob"}, names(d.Tabular().Displayed()))
}

func TestDataTableSearchFiltersOnEveryKeystroke(t *testing.T) {
	d, _, _ := newRoomTable(t)

	press(d, "/")
	require.True(t, d.Capturing())
	press(d, "m")
	require.Equal(t, []string{"Amy"}, names(d.Tabular().Displayed()))
	press(d, "i")
	require.Equal(t, "mi", d.Tabular().Query())

	press(d, "esc")
	require.False(t, d.Capturing())
	require.Equal(t, "mi", d.Tabular().Query())

	press(d, "esc")
	require.Equal(t, "", d.Tabular().Query())
	require.Len(t, d.Tabular().Displayed(), 3)
}

func TestDataTableSelectionAndBulkDelete(t *testing.T) {
	d, ev, _ := newRoomTable(t)

	press(d, "D")
	require.Empty(t, ev.deleted, "delete without selection")

	press(d, "space", "down", "space")
	require.Equal(t, 2, d.Tabular().SelectionCount())
	press(d, "D")
	require.Len(t, ev.deleted, 1)
	require.ElementsMatch(t, []string{"Zed", "Amy"}, names(ev.deleted[0]))

	press(d, "A")
	require.Zero(t, d.Tabular().SelectionCount())
	press(d, "a")
	require.Equal(t, 3, d.Tabular().SelectionCount())
}

func TestDataTableActivateCurrentRow(t *testing.T) {
	d, ev, _ := newRoomTable(t)
	press(d, "j", "enter")
	require.Equal(t, []string{"Amy"}, names(ev.activated))

	press(d, "G")
	require.Equal(t, 2, d.Cursor())
	press(d, "g")
	require.Equal(t, 0, d.Cursor())
}

func TestDataTableMouseHeaderAndRows(t *testing.T) {
	d, ev, _ := newRoomTable(t)
	d.SetOrigin(2, 1)

	// Toolbar on screen row 1, header on 2, rule on 3, body from 4.
	click(d, tea.MouseButtonLeft, 2+5, 2)
	require.Equal(t, tabular.SortedAscending("name"), d.Tabular().Sort())

	click(d, tea.MouseButtonLeft, 2+10, 5)
	require.Equal(t, []string{"Bob"}, names(ev.activated))
	require.Equal(t, 1, d.Cursor())

	click(d, tea.MouseButtonLeft, 2+1, 4)
	require.True(t, d.Tabular().IsSelected(room{ID: "r2"}))
	require.Len(t, ev.activated, 1, "marker click must not activate")

	click(d, tea.MouseButtonLeft, 2+10, 10)
	require.Len(t, ev.activated, 1, "click below the rows")
}

func TestDataTableContextMenu(t *testing.T) {
	d, ev, cb := newRoomTable(t)

	press(d, "space")
	click(d, tea.MouseButtonRight, 10, 4)
	require.True(t, d.Capturing())
	require.Equal(t, tabular.MenuEdit, d.menu[d.menuCursor].Action)

	rect := d.popupRect()
	require.Nil(t, click(d, tea.MouseButtonLeft, rect.X+rect.ContentX, rect.Y+rect.ContentY))
	require.False(t, d.Capturing())
	require.Equal(t, []string{"Zed"}, names(ev.edited))

	press(d, "m", "j")
	cmd := press(d, "enter")
	require.NotNil(t, cmd)
	require.Equal(t, statusMsg("Copied 1 row(s) to clipboard"), cmd())
	require.Contains(t, cb.text, "Zed")

	press(d, "m", "j", "j", "enter")
	require.Len(t, ev.deleted, 1)
	require.Equal(t, []string{"Zed"}, names(ev.deleted[0]))
}

func TestDataTableContextMenuDisabledEntries(t *testing.T) {
	d, ev, _ := newRoomTable(t)
	press(d, "m", "enter")
	require.Empty(t, ev.edited)
	require.True(t, d.Capturing(), "disabled entries keep the menu open")
	press(d, "esc")
	require.False(t, d.Capturing())
}

func TestDataTableExportMenu(t *testing.T) {
	d, ev, _ := newRoomTable(t)
	press(d, "x", "j", "enter")
	require.Equal(t, []tabular.ExportFormat{tabular.ExportCSV}, ev.exported)

	press(d, "x")
	out := ansi.Strip(d.View())
	require.Contains(t, out, "Export to PDF")
	press(d, "esc")
	require.Len(t, ev.exported, 1)
}

func TestDataTableViewStates(t *testing.T) {
	d, _, _ := newRoomTable(t)
	out := ansi.Strip(d.View())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	require.Contains(t, lines[0], "Rooms")
	require.Contains(t, lines[1], "Name ↕")
	require.Contains(t, out, "Seattle")
	require.Contains(t, lines[len(lines)-1], "Showing 3 of 3")

	press(d, "space")
	require.Contains(t, ansi.Strip(d.View()), "1 selected")

	require.NotNil(t, d.SetLoading(true))
	require.Contains(t, ansi.Strip(d.View()), tabular.LoadingText)
	_, ok := d.Current()
	require.False(t, ok)

	d.SetRows(nil)
	require.Contains(t, ansi.Strip(d.View()), tabular.EmptyText)
}

func TestDataTableSearchColumnMenu(t *testing.T) {
	d, _, _ := newRoomTable(t)

	press(d, "c")
	require.True(t, d.Capturing())
	out := ansi.Strip(d.View())
	require.Contains(t, out, "Show All")
	require.Contains(t, out, "Filter by City")

	press(d, "j", "enter")
	require.False(t, d.Capturing())
	require.Equal(t, "name", d.Tabular().QueryColumn())

	press(d, "/", "e", "enter")
	require.Equal(t, []string{"Zed"}, names(d.Tabular().Displayed()))
	require.Contains(t, ansi.Strip(d.View()), "Name:")

	press(d, "c")
	require.Equal(t, 1, d.popupCursor())
	press(d, "k", "enter")
	require.Equal(t, "", d.Tabular().QueryColumn())
	require.Equal(t, []string{"Zed", "Bob"}, names(d.Tabular().Displayed()))
}
