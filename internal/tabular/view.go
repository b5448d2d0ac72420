package tabular

import (
	"fmt"
	"slices"
	"strings"
)

const (
	LoadingText = "Loading data..."
	EmptyText   = "No data available"
)

// Config is the construction-time configuration of a View.
type Config[T any] struct {
	Schema          Schema[T]
	Columns         []Column[T]
	Title           string
	ShowToolbar     bool
	ShowContextMenu bool
	Loading         bool
	Actions         RowActions[T]
	Clipboard       Clipboard
}

// View owns the filtered/sorted sequence and the selection for a caller's
// rows. It never mutates the rows; every mutation goes through Actions.
type View[T any] struct {
	schema          Schema[T]
	columns         []Column[T]
	title           string
	showToolbar     bool
	showContextMenu bool
	loading         bool
	actions         RowActions[T]
	clipboard       Clipboard

	rows      []T
	displayed []T
	query     string
	queryCol  string
	sort      SortState
	selected  map[string]struct{}
}

func New[T any](cfg Config[T]) *View[T] {
	v := &View[T]{
		schema:          cfg.Schema,
		columns:         slices.Clone(cfg.Columns),
		title:           cfg.Title,
		showToolbar:     cfg.ShowToolbar,
		showContextMenu: cfg.ShowContextMenu,
		loading:         cfg.Loading,
		actions:         cfg.Actions,
		clipboard:       cfg.Clipboard,
		selected:        make(map[string]struct{}),
	}
	if v.title == "" {
		v.title = "Data Table"
	}
	if v.actions == nil {
		v.actions = NopActions[T]{}
	}
	if v.clipboard == nil {
		v.clipboard = nopClipboard{}
	}
	return v
}

func (v *View[T]) Title() string              { return v.title }
func (v *View[T]) Columns() []Column[T]       { return v.columns }
func (v *View[T]) ShowToolbar() bool          { return v.showToolbar }
func (v *View[T]) ShowContextMenu() bool      { return v.showContextMenu }
func (v *View[T]) Loading() bool              { return v.loading }
func (v *View[T]) SetLoading(loading bool)    { v.loading = loading }
func (v *View[T]) SetActions(a RowActions[T]) { v.actions = a }
func (v *View[T]) Query() string              { return v.query }
func (v *View[T]) Sort() SortState            { return v.sort }
func (v *View[T]) Rows() []T                  { return v.rows }
func (v *View[T]) Displayed() []T             { return v.displayed }
func (v *View[T]) Total() int                 { return len(v.rows) }
func (v *View[T]) SelectionCount() int        { return len(v.selected) }
func (v *View[T]) SetClipboard(c Clipboard)   { v.clipboard = c }
func (v *View[T]) Schema() Schema[T]          { return v.schema }

func (v *View[T]) Column(i int) (Column[T], bool) {
	if i < 0 || i >= len(v.columns) {
		return Column[T]{}, false
	}
	return v.columns[i], true
}

// SetRows replaces the caller's collection. The displayed sequence is
// rebuilt from it with the current query and sort, and selected keys that no
// longer exist are dropped.
func (v *View[T]) SetRows(rows []T) {
	v.rows = rows
	v.pruneSelection()
	v.refresh()
}

// SetQuery filters the collection by case-insensitive substring over every
// schema field, or over one column's cell text when SetQueryColumn narrowed
// it. The active sort is re-applied to the result.
func (v *View[T]) SetQuery(query string) {
	v.query = query
	v.refresh()
}

// SetQueryColumn limits the query to the displayed text of one filterable
// column. An empty key searches every field again. It reports false, and
// changes nothing, for unknown or unfilterable columns.
func (v *View[T]) SetQueryColumn(key string) bool {
	if key != "" {
		col, ok := v.columnByKey(key)
		if !ok || !col.Filterable() {
			return false
		}
	}
	v.queryCol = key
	v.refresh()
	return true
}

// QueryColumn is the column the query is limited to, or "" for every field.
func (v *View[T]) QueryColumn() string { return v.queryCol }

// ClickHeader applies a header click to the column with the given key.
// Unknown and unsortable columns are ignored.
func (v *View[T]) ClickHeader(key string) SortState {
	col, ok := v.columnByKey(key)
	if !ok || !col.Sortable() {
		return v.sort
	}
	v.sort = v.sort.Click(key)
	v.applySort()
	return v.sort
}

// ResetSort returns to caller order within the current filter.
func (v *View[T]) ResetSort() {
	v.sort = Unsorted
	v.refresh()
}

func (v *View[T]) refresh() {
	v.displayed = v.filter()
	v.applySort()
}

func (v *View[T]) filter() []T {
	if v.query == "" {
		return slices.Clone(v.rows)
	}
	q := strings.ToLower(v.query)
	out := make([]T, 0, len(v.rows))
	for _, row := range v.rows {
		if v.matches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

func (v *View[T]) matches(row T, lowered string) bool {
	if v.queryCol != "" {
		return strings.Contains(strings.ToLower(v.CellText(row, v.queryCol)), lowered)
	}
	for _, f := range v.schema.Fields {
		if f.Value == nil {
			continue
		}
		if strings.Contains(strings.ToLower(DisplayText(f.Value(row))), lowered) {
			return true
		}
	}
	return false
}

func (v *View[T]) applySort() {
	if !v.sort.Active() {
		return
	}
	value := v.sortValue(v.sort.Column())
	desc := v.sort.Direction() == Descending
	slices.SortStableFunc(v.displayed, func(a, b T) int {
		c := Compare(value(a), value(b))
		if desc {
			return -c
		}
		return c
	})
}

func (v *View[T]) sortValue(key string) func(T) any {
	if f, ok := v.schema.field(key); ok && f.Value != nil {
		return f.Value
	}
	if col, ok := v.columnByKey(key); ok && col.Render != nil {
		return func(row T) any { return col.Render(row) }
	}
	return func(T) any { return nil }
}

func (v *View[T]) columnByKey(key string) (Column[T], bool) {
	for _, c := range v.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// FilterableColumns lists the columns SetQueryColumn accepts, in column
// order.
func (v *View[T]) FilterableColumns() []Column[T] {
	out := make([]Column[T], 0, len(v.columns))
	for _, c := range v.columns {
		if c.Filterable() {
			out = append(out, c)
		}
	}
	return out
}

// Key returns the row key. Rows without one cannot be selected.
func (v *View[T]) Key(row T) (string, bool) {
	return v.schema.key(row)
}

func (v *View[T]) IsSelected(row T) bool {
	k, ok := v.schema.key(row)
	if !ok {
		return false
	}
	_, sel := v.selected[k]
	return sel
}

// Toggle flips the selection of one row. Rows without a key are ignored.
func (v *View[T]) Toggle(row T) {
	k, ok := v.schema.key(row)
	if !ok {
		return
	}
	v.ToggleKey(k)
}

func (v *View[T]) ToggleKey(key string) {
	if _, ok := v.selected[key]; ok {
		delete(v.selected, key)
		return
	}
	v.selected[key] = struct{}{}
}

// SelectAll selects every row currently displayed.
func (v *View[T]) SelectAll() {
	for _, row := range v.displayed {
		if k, ok := v.schema.key(row); ok {
			v.selected[k] = struct{}{}
		}
	}
}

func (v *View[T]) DeselectAll() {
	clear(v.selected)
}

// SelectedRows returns one row per selected key, in collection order. When
// several rows share a key, the last of them in the collection stands for
// it.
func (v *View[T]) SelectedRows() []T {
	last := make(map[string]int, len(v.selected))
	for i, row := range v.rows {
		if k, ok := v.schema.key(row); ok {
			if _, sel := v.selected[k]; sel {
				last[k] = i
			}
		}
	}
	out := make([]T, 0, len(last))
	for i, row := range v.rows {
		k, ok := v.schema.key(row)
		if !ok {
			continue
		}
		if at, sel := last[k]; sel && at == i {
			out = append(out, row)
		}
	}
	return out
}

func (v *View[T]) pruneSelection() {
	if len(v.selected) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(v.rows))
	for _, row := range v.rows {
		if k, ok := v.schema.key(row); ok {
			keep[k] = struct{}{}
		}
	}
	for k := range v.selected {
		if _, ok := keep[k]; !ok {
			delete(v.selected, k)
		}
	}
}

// HeaderCell is one header column ready to draw.
type HeaderCell struct {
	Key      string
	Label    string
	Glyph    string
	Sortable bool
	Align    Align
	Width    int
}

func (v *View[T]) Header() []HeaderCell {
	out := make([]HeaderCell, len(v.columns))
	for i, c := range v.columns {
		cell := HeaderCell{Key: c.Key, Label: c.Header, Sortable: c.Sortable(), Align: c.Align, Width: c.Width}
		if cell.Sortable {
			cell.Glyph = v.sort.Glyph(c.Key)
		}
		out[i] = cell
	}
	return out
}

// BodyRow is one drawn body line. Placeholder rows span every column and
// carry their text in Placeholder.
type BodyRow struct {
	Key         string
	HasKey      bool
	Index       int
	Cells       []string
	Selected    bool
	Placeholder string
}

func (r BodyRow) IsPlaceholder() bool { return r.Placeholder != "" }

// Body returns the rows to draw. Loading takes precedence over the empty
// state; both produce a single placeholder row.
func (v *View[T]) Body() []BodyRow {
	if v.loading {
		return []BodyRow{{Index: -1, Placeholder: LoadingText}}
	}
	if len(v.displayed) == 0 {
		return []BodyRow{{Index: -1, Placeholder: EmptyText}}
	}
	out := make([]BodyRow, len(v.displayed))
	for i, row := range v.displayed {
		cells := make([]string, len(v.columns))
		for j, c := range v.columns {
			cells[j] = v.cellText(row, c)
		}
		k, ok := v.schema.key(row)
		out[i] = BodyRow{Key: k, HasKey: ok, Index: i, Cells: cells, Selected: v.IsSelected(row)}
	}
	return out
}

// CellText is the display value of one column for a row.
func (v *View[T]) CellText(row T, key string) string {
	col, ok := v.columnByKey(key)
	if !ok {
		return ""
	}
	return v.cellText(row, col)
}

func (v *View[T]) cellText(row T, c Column[T]) string {
	if c.Render != nil {
		return c.Render(row)
	}
	f, ok := v.schema.field(c.Key)
	if !ok || f.Value == nil {
		return ""
	}
	return DisplayText(f.Value(row))
}

// Footer is the summary line and bulk delete state.
type Footer struct {
	Text          string
	DeleteEnabled bool
}

func (v *View[T]) Footer() Footer {
	if n := len(v.selected); n > 0 {
		return Footer{Text: fmt.Sprintf("%d selected", n), DeleteEnabled: true}
	}
	return Footer{Text: fmt.Sprintf("Showing %d of %d", len(v.displayed), len(v.rows))}
}

// Activate forwards a primary click on a row.
func (v *View[T]) Activate(row T) {
	v.actions.Activate(row)
}

func (v *View[T]) Export(format ExportFormat) {
	v.actions.Export(format)
}

// DeleteSelected is the footer bulk delete. It does nothing when the
// selection is empty.
func (v *View[T]) DeleteSelected() {
	rows := v.SelectedRows()
	if len(rows) == 0 {
		return
	}
	v.actions.DeleteRows(rows)
}

// ContextMenu lists the secondary-click actions.
func (v *View[T]) ContextMenu() []MenuItem {
	if !v.showContextMenu {
		return nil
	}
	n := len(v.SelectedRows())
	return []MenuItem{
		{Action: MenuEdit, Label: "Edit", Enabled: n == 1},
		{Action: MenuCopy, Label: "Copy", Enabled: n > 0},
		{Action: MenuDelete, Label: "Delete", Enabled: n > 0},
	}
}

// Invoke runs a context menu action against the selection. Only Copy can
// fail, when the clipboard rejects the text.
func (v *View[T]) Invoke(action MenuAction) error {
	rows := v.SelectedRows()
	switch action {
	case MenuEdit:
		if len(rows) == 1 {
			v.actions.EditRow(rows[0])
		}
	case MenuCopy:
		text, err := v.CopyText()
		if err != nil {
			return err
		}
		return v.clipboard.WriteAll(text)
	case MenuDelete:
		v.actions.DeleteRows(rows)
	}
	return nil
}
