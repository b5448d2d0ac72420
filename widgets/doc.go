// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (table grid, pane chrome, stacks, popup overlay compositor)
// - hit testing that mirrors the drawing layout (Table.ColumnAt, Table.RowAt)
//
// Not allowed here:
// - key handling, app state transitions, sorting/filtering/selection policy
package widgets
