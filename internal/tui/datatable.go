package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/innkeeper/internal/tabular"
	"github.com/jask/innkeeper/widgets"
)

type tableMode int

const (
	modeBrowse tableMode = iota
	modeSearch
	modeMenu
	modeExport
	modeFilter
)

var (
	toolbarTitleStyle = lipgloss.NewStyle().Foreground(widgets.ColorText).Bold(true)
	toolbarHintStyle  = lipgloss.NewStyle().Foreground(widgets.ColorOverlay1)
)

// DataTable is the interactive shell around a tabular.View: keyboard and
// mouse input, the search field, popups and the scroll window. All table
// semantics stay in the view.
type DataTable[T any] struct {
	// PageSize is the pgup/pgdown step; zero pages by the visible height.
	PageSize int

	view    *tabular.View[T]
	keys    *KeyRegistry
	search  textinput.Model
	spinner spinner.Model
	mode    tableMode

	cursor int
	top    int
	column int

	menu       []tabular.MenuItem
	menuCursor int
	menuX      int
	menuY      int

	exportCursor int
	filterCursor int

	width   int
	height  int
	originX int
	originY int
}

func NewDataTable[T any](view *tabular.View[T], keys *KeyRegistry) *DataTable[T] {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(widgets.ColorAccent)

	if keys == nil {
		keys = NewKeyRegistry()
	}
	return &DataTable[T]{view: view, keys: keys, search: ti, spinner: sp}
}

func (d *DataTable[T]) Init() tea.Cmd {
	if d.view.Loading() {
		return d.spinner.Tick
	}
	return nil
}

// Tabular exposes the wrapped view.
func (d *DataTable[T]) Tabular() *tabular.View[T] { return d.view }

func (d *DataTable[T]) SetSize(width, height int) {
	d.width, d.height = width, height
	d.search.Width = max(10, width/3)
	d.clamp()
}

// SetOrigin records the screen cell of the table's top-left corner so mouse
// events can be translated.
func (d *DataTable[T]) SetOrigin(x, y int) {
	d.originX, d.originY = x, y
}

func (d *DataTable[T]) SetRows(rows []T) {
	d.view.SetRows(rows)
	d.view.SetLoading(false)
	d.clamp()
}

func (d *DataTable[T]) SetLoading(loading bool) tea.Cmd {
	d.view.SetLoading(loading)
	if loading {
		return d.spinner.Tick
	}
	return nil
}

// Capturing reports whether the table owns every key, so the caller must
// not interpret global bindings.
func (d *DataTable[T]) Capturing() bool { return d.mode != modeBrowse }

// Current is the row under the cursor.
func (d *DataTable[T]) Current() (T, bool) {
	var zero T
	rows := d.view.Displayed()
	if d.view.Loading() || d.cursor < 0 || d.cursor >= len(rows) {
		return zero, false
	}
	return rows[d.cursor], true
}

func (d *DataTable[T]) Cursor() int { return d.cursor }

// HelpScope is the key scope of the current mode.
func (d *DataTable[T]) HelpScope() string {
	switch d.mode {
	case modeSearch:
		return scopeSearch
	case modeMenu, modeExport, modeFilter:
		return scopeMenu
	}
	return scopeTable
}

func (d *DataTable[T]) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case spinner.TickMsg:
		if !d.view.Loading() {
			return nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(m)
		return cmd
	case tea.KeyMsg:
		switch d.mode {
		case modeSearch:
			return d.handleSearchKey(m)
		case modeMenu, modeExport, modeFilter:
			return d.handlePopupKey(m)
		}
		return d.handleKey(m)
	case tea.MouseMsg:
		return d.handleMouse(m)
	}
	return nil
}

func (d *DataTable[T]) handleKey(m tea.KeyMsg) tea.Cmd {
	b := d.keys.Lookup(m.String(), scopeTable)
	if b == nil {
		return nil
	}
	page := d.PageSize
	if page <= 0 {
		page = max(1, d.table().VisibleRows(d.tableHeight()))
	}
	switch b.Action {
	case actionUp:
		d.moveCursor(-1)
	case actionDown:
		d.moveCursor(1)
	case actionPageUp:
		d.moveCursor(-page)
	case actionPageDown:
		d.moveCursor(page)
	case actionJumpTop:
		d.cursor = 0
		d.clamp()
	case actionJumpBottom:
		d.cursor = len(d.view.Displayed()) - 1
		d.clamp()
	case actionLeft:
		d.column = moveBoundedCursor(d.column, len(d.view.Columns()), -1)
	case actionRight:
		d.column = moveBoundedCursor(d.column, len(d.view.Columns()), 1)
	case actionSearch:
		if !d.view.ShowToolbar() {
			return nil
		}
		d.mode = modeSearch
		return d.search.Focus()
	case actionClearSearch:
		if d.view.Query() != "" {
			d.search.SetValue("")
			d.view.SetQuery("")
			d.clamp()
		}
	case actionSort:
		if col, ok := d.view.Column(d.column); ok {
			d.view.ClickHeader(col.Key)
		}
	case actionResetSort:
		d.view.ResetSort()
	case actionToggle:
		if row, ok := d.Current(); ok {
			d.view.Toggle(row)
		}
	case actionSelectAll:
		d.view.SelectAll()
	case actionDeselectAll:
		d.view.DeselectAll()
	case actionActivate:
		if row, ok := d.Current(); ok {
			d.view.Activate(row)
		}
	case actionMenu:
		d.openMenu(markerWidth, d.toolbarLines()+headerLines+d.cursor-d.top+1)
	case actionDelete:
		d.view.DeleteSelected()
	case actionExport:
		if d.view.ShowToolbar() {
			d.mode = modeExport
			d.exportCursor = 0
		}
	case actionFilter:
		if d.view.ShowToolbar() {
			d.openFilterMenu()
		}
	}
	return nil
}

func (d *DataTable[T]) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	if d.keys.IsLocal(key, scopeSearch, actionConfirm) || d.keys.IsLocal(key, scopeSearch, actionClose) {
		d.search.Blur()
		d.mode = modeBrowse
		return nil
	}
	var cmd tea.Cmd
	d.search, cmd = d.search.Update(m)
	if q := d.search.Value(); q != d.view.Query() {
		d.view.SetQuery(q)
		d.cursor = 0
		d.clamp()
	}
	return cmd
}

func (d *DataTable[T]) handlePopupKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	n := len(d.popupEntries())
	switch {
	case d.keys.IsLocal(key, scopeMenu, actionUp):
		d.movePopupCursor(-1, n)
	case d.keys.IsLocal(key, scopeMenu, actionDown):
		d.movePopupCursor(1, n)
	case d.keys.IsLocal(key, scopeMenu, actionSelect):
		return d.choosePopup(d.popupCursor())
	case d.keys.IsLocal(key, scopeMenu, actionClose):
		d.closePopup()
	}
	return nil
}

func (d *DataTable[T]) handleMouse(m tea.MouseMsg) tea.Cmd {
	x, y := m.X-d.originX, m.Y-d.originY
	if d.popupOpen() {
		if m.Action != tea.MouseActionPress {
			return nil
		}
		rect := d.popupRect()
		if m.Button == tea.MouseButtonLeft && rect.Contains(x, y) {
			if line := rect.Line(y) - d.popupTitleLines(); line >= 0 && line < len(d.popupEntries()) {
				return d.choosePopup(line)
			}
			return nil
		}
		d.closePopup()
		return nil
	}
	if d.mode == modeSearch && m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft {
		d.search.Blur()
		d.mode = modeBrowse
	}
	if m.Action != tea.MouseActionPress {
		return nil
	}

	switch m.Button {
	case tea.MouseButtonWheelUp:
		d.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		d.moveCursor(1)
		return nil
	}

	if d.view.ShowToolbar() && y == 0 {
		if m.Button == tea.MouseButtonLeft {
			d.mode = modeSearch
			return d.search.Focus()
		}
		return nil
	}

	tbl := d.table()
	ty := y - d.toolbarLines()
	if tbl.IsHeader(ty) {
		if m.Button != tea.MouseButtonLeft {
			return nil
		}
		if col := tbl.ColumnAt(x, d.width); col >= 0 {
			d.column = col
			if c, ok := d.view.Column(col); ok {
				d.view.ClickHeader(c.Key)
			}
		}
		return nil
	}

	idx := tbl.RowAt(ty, d.tableHeight())
	row, hit := d.rowAt(idx)
	switch m.Button {
	case tea.MouseButtonLeft:
		if !hit {
			return nil
		}
		d.cursor = idx
		if tbl.OnMarker(x) {
			d.view.Toggle(row)
			return nil
		}
		d.view.Activate(row)
	case tea.MouseButtonRight:
		if hit {
			d.cursor = idx
		}
		d.openMenu(x, y)
	}
	return nil
}

func (d *DataTable[T]) rowAt(idx int) (T, bool) {
	var zero T
	rows := d.view.Displayed()
	if d.view.Loading() || idx < 0 || idx >= len(rows) {
		return zero, false
	}
	return rows[idx], true
}

func (d *DataTable[T]) openMenu(x, y int) {
	items := d.view.ContextMenu()
	if len(items) == 0 {
		return
	}
	d.menu = items
	d.menuCursor = 0
	for i, it := range items {
		if it.Enabled {
			d.menuCursor = i
			break
		}
	}
	d.menuX, d.menuY = x, y
	d.mode = modeMenu
}

// openFilterMenu lists "Show All" followed by one entry per filterable
// column, with the cursor on the current choice.
func (d *DataTable[T]) openFilterMenu() {
	d.filterCursor = 0
	for i, c := range d.view.FilterableColumns() {
		if c.Key == d.view.QueryColumn() {
			d.filterCursor = i + 1
		}
	}
	d.mode = modeFilter
}

func (d *DataTable[T]) chooseFilter(i int) {
	cols := d.view.FilterableColumns()
	if i < 0 || i > len(cols) {
		return
	}
	d.closePopup()
	prompt := "/ "
	if i == 0 {
		d.view.SetQueryColumn("")
	} else {
		d.view.SetQueryColumn(cols[i-1].Key)
		prompt = "/ " + cols[i-1].Header + ": "
	}
	d.search.Prompt = prompt
	d.cursor = 0
	d.clamp()
}

func (d *DataTable[T]) popupOpen() bool {
	return d.mode == modeMenu || d.mode == modeExport || d.mode == modeFilter
}

func (d *DataTable[T]) closePopup() {
	d.mode = modeBrowse
	d.menu = nil
}

func (d *DataTable[T]) popupCursor() int {
	switch d.mode {
	case modeExport:
		return d.exportCursor
	case modeFilter:
		return d.filterCursor
	}
	return d.menuCursor
}

func (d *DataTable[T]) movePopupCursor(delta, n int) {
	switch d.mode {
	case modeExport:
		d.exportCursor = moveBoundedCursor(d.exportCursor, n, delta)
	case modeFilter:
		d.filterCursor = moveBoundedCursor(d.filterCursor, n, delta)
	default:
		d.menuCursor = moveBoundedCursor(d.menuCursor, n, delta)
	}
}

func (d *DataTable[T]) choosePopup(i int) tea.Cmd {
	if d.mode == modeFilter {
		d.chooseFilter(i)
		return nil
	}
	if d.mode == modeExport {
		if i < 0 || i >= len(tabular.ExportFormats) {
			return nil
		}
		d.closePopup()
		d.view.Export(tabular.ExportFormats[i])
		return nil
	}
	if i < 0 || i >= len(d.menu) || !d.menu[i].Enabled {
		return nil
	}
	item := d.menu[i]
	n := d.view.SelectionCount()
	d.closePopup()
	if err := d.view.Invoke(item.Action); err != nil {
		return errCmd(fmt.Errorf("copy rows: %w", err))
	}
	if item.Action == tabular.MenuCopy {
		return statusCmd(fmt.Sprintf("Copied %d row(s) to clipboard", n))
	}
	return nil
}

func (d *DataTable[T]) popupEntries() []widgets.MenuEntry {
	if d.mode == modeFilter {
		cols := d.view.FilterableColumns()
		out := make([]widgets.MenuEntry, 0, len(cols)+1)
		out = append(out, widgets.MenuEntry{Label: "Show All"})
		for _, c := range cols {
			out = append(out, widgets.MenuEntry{Label: "Filter by " + c.Header})
		}
		return out
	}
	if d.mode == modeExport {
		out := make([]widgets.MenuEntry, len(tabular.ExportFormats))
		for i, f := range tabular.ExportFormats {
			out[i] = widgets.MenuEntry{Label: f.Label()}
		}
		return out
	}
	out := make([]widgets.MenuEntry, len(d.menu))
	for i, it := range d.menu {
		out[i] = widgets.MenuEntry{Label: it.Label, Disabled: !it.Enabled}
	}
	return out
}

func (d *DataTable[T]) popupTitle() string {
	switch d.mode {
	case modeExport:
		return "Export"
	case modeFilter:
		return "Search in"
	}
	return ""
}

func (d *DataTable[T]) popupTitleLines() int {
	if d.popupTitle() == "" {
		return 0
	}
	return 2
}

func (d *DataTable[T]) popupContent() string {
	return widgets.RenderMenu(d.popupTitle(), d.popupEntries(), d.popupCursor())
}

func (d *DataTable[T]) popupRect() widgets.PopupRect {
	if d.mode == modeExport || d.mode == modeFilter {
		return widgets.CenteredPopupRect(d.popupContent(), d.width, d.height)
	}
	return widgets.PopupRectAt(d.popupContent(), d.menuX, d.menuY, d.width, d.height)
}

func (d *DataTable[T]) moveCursor(delta int) {
	d.cursor += delta
	d.clamp()
}

// clamp keeps the cursor on a displayed row and the window around it.
func (d *DataTable[T]) clamp() {
	n := len(d.view.Displayed())
	d.cursor = max(0, min(d.cursor, n-1))
	d.column = max(0, min(d.column, len(d.view.Columns())-1))
	visible := d.table().VisibleRows(d.tableHeight())
	if visible <= 0 {
		d.top = d.cursor
		return
	}
	if d.cursor < d.top {
		d.top = d.cursor
	}
	if d.cursor >= d.top+visible {
		d.top = d.cursor - visible + 1
	}
	d.top = max(0, min(d.top, n-visible))
}

func (d *DataTable[T]) toolbarLines() int {
	if d.view.ShowToolbar() {
		return 1
	}
	return 0
}

func (d *DataTable[T]) tableHeight() int {
	return max(0, d.height-d.toolbarLines())
}

const (
	markerWidth = 4
	headerLines = 2
)

func (d *DataTable[T]) table() widgets.Table {
	header := d.view.Header()
	cols := make([]widgets.TableColumn, len(header))
	for i, h := range header {
		cols[i] = widgets.TableColumn{
			Label:   h.Label,
			Glyph:   h.Glyph,
			Width:   h.Width,
			Align:   lipglossAlign(h.Align),
			Focused: i == d.column,
		}
	}

	body := d.view.Body()
	rows := make([]widgets.TableRow, len(body))
	cursor := d.cursor
	for i, r := range body {
		if r.IsPlaceholder() {
			text := r.Placeholder
			if d.view.Loading() {
				text = d.spinner.View() + " " + text
			}
			rows[i] = widgets.TableRow{Cells: []string{text}, Placeholder: true}
			cursor = -1
			continue
		}
		rows[i] = widgets.TableRow{Cells: r.Cells, Selected: r.Selected}
	}

	footer := d.view.Footer()
	text := footer.Text
	if footer.DeleteEnabled {
		text += "  ·  D delete selected"
	}
	return widgets.Table{
		Columns:    cols,
		Rows:       rows,
		Cursor:     cursor,
		Top:        d.top,
		Selectable: true,
		Footer:     text,
	}
}

func lipglossAlign(a tabular.Align) lipgloss.Position {
	switch a {
	case tabular.AlignCenter:
		return lipgloss.Center
	case tabular.AlignRight:
		return lipgloss.Right
	}
	return lipgloss.Left
}

func (d *DataTable[T]) renderToolbar() string {
	left := toolbarTitleStyle.Render(d.view.Title()) + "  " + d.search.View()
	right := toolbarHintStyle.Render("c column  x export")
	gap := d.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (d *DataTable[T]) View() string {
	if d.width <= 0 || d.height <= 0 {
		return ""
	}
	out := d.table().Render(d.width, d.tableHeight())
	if d.view.ShowToolbar() {
		out = d.renderToolbar() + "\n" + out
	}
	switch d.mode {
	case modeMenu:
		out = widgets.RenderPopupAt(out, d.popupContent(), d.menuX, d.menuY, d.width, d.height)
	case modeExport, modeFilter:
		out = widgets.RenderPopup(out, d.popupContent(), d.width, d.height)
	}
	return out
}

func moveBoundedCursor(cursor, size, delta int) int {
	if size <= 0 {
		return 0
	}
	return max(0, min(cursor+delta, size-1))
}
