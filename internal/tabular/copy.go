package tabular

import (
	"bytes"

	"github.com/goccy/go-json"
)

// CopyText renders the selection as an indented JSON array with one object
// per row, keyed by schema field name in schema order.
func (v *View[T]) CopyText() (string, error) {
	rows := v.SelectedRows()
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, f := range v.schema.Fields {
			if j > 0 {
				buf.WriteString(",")
			}
			name, err := json.Marshal(f.Name)
			if err != nil {
				return "", err
			}
			var value any
			if f.Value != nil {
				value = deref(f.Value(row))
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return "", err
			}
			buf.WriteString("\n    ")
			buf.Write(name)
			buf.WriteString(": ")
			buf.Write(encoded)
		}
		if len(v.schema.Fields) > 0 {
			buf.WriteString("\n  ")
		}
		buf.WriteString("}")
	}
	if len(rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]")
	return buf.String(), nil
}
