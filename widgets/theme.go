package widgets

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, https://catppuccin.com/palette
const (
	ColorPink     lipgloss.Color = "#f5c2e7"
	ColorRed      lipgloss.Color = "#f38ba8"
	ColorPeach    lipgloss.Color = "#fab387"
	ColorYellow   lipgloss.Color = "#f9e2af"
	ColorGreen    lipgloss.Color = "#a6e3a1"
	ColorTeal     lipgloss.Color = "#94e2d5"
	ColorSapphire lipgloss.Color = "#74c7ec"
	ColorBlue     lipgloss.Color = "#89b4fa"
	ColorLavender lipgloss.Color = "#b4befe"

	ColorText     lipgloss.Color = "#cdd6f4"
	ColorSubtext1 lipgloss.Color = "#bac2de"
	ColorSubtext0 lipgloss.Color = "#a6adc8"
	ColorOverlay1 lipgloss.Color = "#7f849c"
	ColorOverlay0 lipgloss.Color = "#6c7086"
	ColorSurface2 lipgloss.Color = "#585b70"
	ColorSurface1 lipgloss.Color = "#45475a"
	ColorSurface0 lipgloss.Color = "#313244"
	ColorMantle   lipgloss.Color = "#181825"
)

const (
	ColorAccent  = ColorPink
	ColorFocus   = ColorLavender
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorWarning = ColorYellow
)

// rowBackground picks the body row background for the selection/cursor
// combination and reports whether the row should be bold.
func rowBackground(selected, isCursor bool) (lipgloss.Color, bool) {
	switch {
	case isCursor && selected:
		return ColorBlue, true
	case isCursor:
		return ColorSurface2, true
	case selected:
		return ColorSurface0, false
	default:
		return "", false
	}
}
