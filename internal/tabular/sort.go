package tabular

import (
	"cmp"
	"reflect"
	"time"
)

// Direction is the order of an active sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is either Unsorted or a column with a direction. The zero value
// is Unsorted.
type SortState struct {
	column    string
	direction Direction
}

// Unsorted is the state before any header has been clicked.
var Unsorted = SortState{}

func SortedAscending(column string) SortState {
	return SortState{column: column, direction: Ascending}
}

func SortedDescending(column string) SortState {
	return SortState{column: column, direction: Descending}
}

func (s SortState) Active() bool         { return s.column != "" }
func (s SortState) Column() string       { return s.column }
func (s SortState) Direction() Direction { return s.direction }

// IsActive reports whether column is the one being sorted on.
func (s SortState) IsActive(column string) bool {
	return s.column != "" && s.column == column
}

// Click returns the state after clicking the header of column: a different
// column always starts ascending, the active column flips direction.
func (s SortState) Click(column string) SortState {
	if !s.IsActive(column) {
		return SortedAscending(column)
	}
	if s.direction == Ascending {
		return SortedDescending(column)
	}
	return SortedAscending(column)
}

func (s SortState) String() string {
	if !s.Active() {
		return "unsorted"
	}
	return s.column + " " + s.direction.String()
}

// Glyph is the header indicator for column under this state.
func (s SortState) Glyph(column string) string {
	if !s.IsActive(column) {
		return GlyphUnsorted
	}
	if s.direction == Descending {
		return GlyphDescending
	}
	return GlyphAscending
}

const (
	GlyphUnsorted   = "↕"
	GlyphAscending  = "▲"
	GlyphDescending = "▼"
)

// Compare orders two field values by their natural ordering. Numbers compare
// numerically, strings lexicographically, times chronologically. Values of
// mixed or non-comparable types fall back to comparing their display text.
func Compare(a, b any) int {
	da, db := deref(a), deref(b)
	if c, ok := compareNumbers(da, db); ok {
		return c
	}
	switch x := da.(type) {
	case string:
		if y, ok := db.(string); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := db.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := db.(bool); ok {
			return compareBool(x, y)
		}
	}
	if sameKind(da, db, reflect.String) {
		return cmp.Compare(reflect.ValueOf(da).String(), reflect.ValueOf(db).String())
	}
	return cmp.Compare(DisplayText(da), DisplayText(db))
}

type numberClass int

const (
	notNumber numberClass = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func classify(rv reflect.Value) numberClass {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	}
	return notNumber
}

// compareNumbers orders two numeric values of any width. Integers compare
// exactly; only comparisons involving a float go through float64.
func compareNumbers(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	ca, cb := classify(ra), classify(rb)
	if ca == notNumber || cb == notNumber {
		return 0, false
	}
	switch {
	case ca == signedNumber && cb == signedNumber:
		return cmp.Compare(ra.Int(), rb.Int()), true
	case ca == unsignedNumber && cb == unsignedNumber:
		return cmp.Compare(ra.Uint(), rb.Uint()), true
	case ca == signedNumber && cb == unsignedNumber:
		if ra.Int() < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(ra.Int()), rb.Uint()), true
	case ca == unsignedNumber && cb == signedNumber:
		if rb.Int() < 0 {
			return 1, true
		}
		return cmp.Compare(ra.Uint(), uint64(rb.Int())), true
	}
	return cmp.Compare(asFloat(ra, ca), asFloat(rb, cb)), true
}

func asFloat(rv reflect.Value, c numberClass) float64 {
	switch c {
	case signedNumber:
		return float64(rv.Int())
	case unsignedNumber:
		return float64(rv.Uint())
	}
	return rv.Float()
}

func sameKind(a, b any, kind reflect.Kind) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Kind() == kind && reflect.ValueOf(b).Kind() == kind
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
