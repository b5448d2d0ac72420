package tabular

import (
	"fmt"
	"strings"
)

// ExportFormat is the format signalled to RowActions.Export. The table never
// generates files itself.
type ExportFormat string

const (
	ExportExcel ExportFormat = "excel"
	ExportCSV   ExportFormat = "csv"
	ExportPDF   ExportFormat = "pdf"
)

// ExportFormats lists the formats in menu order.
var ExportFormats = []ExportFormat{ExportExcel, ExportCSV, ExportPDF}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportExcel, ExportCSV, ExportPDF:
		return f, nil
	case "xlsx":
		return ExportExcel, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Label is the menu text for the format.
func (f ExportFormat) Label() string {
	switch f {
	case ExportExcel:
		return "Export to Excel"
	case ExportCSV:
		return "Export to CSV"
	case ExportPDF:
		return "Export to PDF"
	}
	return string(f)
}

// RowActions receives every mutation the table asks for. Calls are fire and
// forget: the table does not wait on or observe their outcome.
type RowActions[T any] interface {
	Activate(row T)
	Export(format ExportFormat)
	DeleteRows(rows []T)
	EditRow(row T)
}

// NopActions ignores every action.
type NopActions[T any] struct{}

func (NopActions[T]) Activate(T)          {}
func (NopActions[T]) Export(ExportFormat) {}
func (NopActions[T]) DeleteRows([]T)      {}
func (NopActions[T]) EditRow(T)           {}

// ActionFuncs adapts plain functions to RowActions. Nil funcs are no-ops.
type ActionFuncs[T any] struct {
	OnActivate   func(T)
	OnExport     func(ExportFormat)
	OnDeleteRows func([]T)
	OnEditRow    func(T)
}

func (a ActionFuncs[T]) Activate(row T) {
	if a.OnActivate != nil {
		a.OnActivate(row)
	}
}

func (a ActionFuncs[T]) Export(format ExportFormat) {
	if a.OnExport != nil {
		a.OnExport(format)
	}
}

func (a ActionFuncs[T]) DeleteRows(rows []T) {
	if a.OnDeleteRows != nil {
		a.OnDeleteRows(rows)
	}
}

func (a ActionFuncs[T]) EditRow(row T) {
	if a.OnEditRow != nil {
		a.OnEditRow(row)
	}
}

// Clipboard receives copied selections.
type Clipboard interface {
	WriteAll(text string) error
}

type nopClipboard struct{}

func (nopClipboard) WriteAll(string) error { return nil }

// MenuAction identifies a context menu entry.
type MenuAction int

const (
	MenuEdit MenuAction = iota
	MenuCopy
	MenuDelete
)

func (a MenuAction) String() string {
	switch a {
	case MenuEdit:
		return "Edit"
	case MenuCopy:
		return "Copy"
	case MenuDelete:
		return "Delete"
	}
	return fmt.Sprintf("MenuAction(%d)", int(a))
}

// MenuItem is one row of the context menu.
type MenuItem struct {
	Action  MenuAction
	Label   string
	Enabled bool
}
