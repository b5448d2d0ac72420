package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one label/value line of a List.
type Field struct {
	Label string
	Value string
}

// List draws aligned "Label  value" lines under an optional title.
type List struct {
	Title  string
	Fields []Field
}

var (
	listTitleStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	listLabelStyle = lipgloss.NewStyle().Foreground(ColorSubtext0)
	listValueStyle = lipgloss.NewStyle().Foreground(ColorText)
)

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	labelW := 0
	for _, f := range l.Fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}
	rows := make([]string, 0, len(l.Fields)+2)
	if l.Title != "" {
		rows = append(rows, listTitleStyle.Render(l.Title), "")
	}
	for _, f := range l.Fields {
		value := f.Value
		if value == "" {
			value = "-"
		}
		line := listLabelStyle.Render(padRight(f.Label, labelW)) + "  " + listValueStyle.Render(value)
		rows = append(rows, padRightANSI(line, width))
	}
	if len(rows) > height {
		rows = rows[:height]
	}
	return strings.Join(rows, "\n")
}
