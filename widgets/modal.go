package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// MenuEntry is one line of a popup menu.
type MenuEntry struct {
	Label    string
	Disabled bool
}

var (
	menuCursorStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	menuDisabledStyle = lipgloss.NewStyle().Foreground(ColorOverlay0)
	menuTitleStyle    = lipgloss.NewStyle().Foreground(ColorSubtext0).Bold(true)
)

// RenderMenu draws entries with a "> " cursor. Disabled entries are dimmed.
func RenderMenu(title string, entries []MenuEntry, cursor int) string {
	lines := make([]string, 0, len(entries)+2)
	if title != "" {
		lines = append(lines, menuTitleStyle.Render(title), "")
	}
	for i, e := range entries {
		prefix := "  "
		if i == cursor {
			prefix = menuCursorStyle.Render("> ")
		}
		label := e.Label
		if e.Disabled {
			label = menuDisabledStyle.Render(label)
		} else if i == cursor {
			label = menuCursorStyle.Render(label)
		}
		lines = append(lines, prefix+label)
	}
	return strings.Join(lines, "\n")
}

// PopupRect is the placement of a popup card on the canvas. ContentX and
// ContentY locate the first cell of the popup text inside the card.
type PopupRect struct {
	X, Y, W, H         int
	ContentX, ContentY int
}

// Contains reports whether (x, y) falls on the card.
func (r PopupRect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Line maps y to a line index of the popup text, or -1.
func (r PopupRect) Line(y int) int {
	line := y - r.Y - r.ContentY
	if line < 0 || y >= r.Y+r.H-r.ContentY {
		return -1
	}
	return line
}

// CenteredPopupRect is where RenderPopup places popup.
func CenteredPopupRect(popup string, width, height int) PopupRect {
	r := cardRect(popup, 1)
	r.X = max(0, (width-r.W)/2)
	r.Y = max(0, (height-r.H)/2)
	return r
}

// PopupRectAt is where RenderPopupAt places popup for the requested corner.
func PopupRectAt(popup string, x, y, width, height int) PopupRect {
	r := cardRect(popup, 0)
	r.X = max(0, min(x, width-r.W))
	r.Y = max(0, min(y, height-r.H))
	return r
}

func cardRect(popup string, vpad int) PopupRect {
	lines := splitToLines(popup, 0)
	return PopupRect{
		W:        maxLineWidth(lines) + 2 + 2*popupHPad,
		H:        len(lines) + 2 + 2*vpad,
		ContentX: 1 + popupHPad,
		ContentY: 1 + vpad,
	}
}

// RenderPopup draws popup in a bordered card centred over base.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	r := CenteredPopupRect(popup, width, height)
	return overlayAt(fitCanvas(base, width, height), popupCard(popup, 1), r.X, r.Y, width, height)
}

// RenderPopupAt draws popup in a compact card with its top-left corner at
// (x, y), shifted back inside the canvas when it would overflow.
func RenderPopupAt(base, popup string, x, y, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	r := PopupRectAt(popup, x, y, width, height)
	return overlayAt(fitCanvas(base, width, height), popupCard(popup, 0), r.X, r.Y, width, height)
}

const popupHPad = 2

func popupCard(content string, vpad int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(vpad, popupHPad).
		Render(content)
}

func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if leftWidth := ansi.StringWidth(left); leftWidth < x {
			left += strings.Repeat(" ", x-leftWidth)
		}

		overlayLine := padRightANSI(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := dropColumns(target, pos)
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}
	return strings.Join(baseLines, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// splitToLines pads or cuts to height lines; height 0 keeps every line.
func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
