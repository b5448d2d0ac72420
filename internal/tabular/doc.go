// Package tabular holds the view state of a sortable, filterable, selectable
// data table.
//
// Allowed here:
// - filtering, sorting and selection over caller-owned rows
// - the data needed to draw a header, body and footer
// - delegating edit/delete/export/activate to a RowActions implementation
//
// Not allowed here:
// - terminal drawing, key handling, persistence or any other I/O
package tabular
