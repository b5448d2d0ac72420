package tabular

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Field is a named, typed accessor into a row.
type Field[T any] struct {
	Name  string
	Value func(T) any
}

// Schema describes the fields of a row type and how to derive its key.
// Key returns ok=false when a row carries no usable key.
type Schema[T any] struct {
	Key    func(T) (string, bool)
	Fields []Field[T]
}

// KeyField builds a Schema.Key from the named field. Rows whose field value
// is missing have no key.
func KeyField[T any](fields []Field[T], name string) func(T) (string, bool) {
	var accessor func(T) any
	for _, f := range fields {
		if f.Name == name {
			accessor = f.Value
			break
		}
	}
	return func(row T) (string, bool) {
		if accessor == nil {
			return "", false
		}
		v := accessor(row)
		if isMissing(v) {
			return "", false
		}
		return DisplayText(v), true
	}
}

func (s Schema[T]) field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

func (s Schema[T]) key(row T) (string, bool) {
	if s.Key == nil {
		return "", false
	}
	return s.Key(row)
}

// Align is a horizontal alignment hint for a column.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column describes how one field is labelled and drawn. The zero values of
// Unsortable and Unfilterable leave the column sortable and filterable.
type Column[T any] struct {
	Key          string
	Header       string
	Render       func(T) string
	Unsortable   bool
	Unfilterable bool
	Width        int
	Align        Align
}

func (c Column[T]) Sortable() bool   { return !c.Unsortable }
func (c Column[T]) Filterable() bool { return !c.Unfilterable }

// DisplayText coerces a field value to display text. Missing values (nil,
// nil pointers) render as the empty string.
func DisplayText(v any) string {
	if isMissing(v) {
		return ""
	}
	v = deref(v)
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.DateOnly)
	case fmt.Stringer:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
