package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Pane frames Content in a rounded border with the title set into the top
// edge and an optional Badge right-aligned on the same edge.
type Pane struct {
	Title   string
	Badge   string
	Content string
	Focused bool
}

func (p Pane) Render(width, height int) string {
	if width < 4 || height < 3 {
		return ""
	}
	border := ColorOverlay0
	if p.Focused {
		border = ColorFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	titleText := " " + ansi.Truncate(strings.TrimSpace(p.Title), max(1, innerWidth-2), "") + " "
	badgeText := ""
	if p.Badge != "" {
		badgeText = " " + p.Badge + " "
	}
	dashes := innerWidth - ansi.StringWidth(titleText) - ansi.StringWidth(badgeText)
	if badgeText != "" && dashes < 2 {
		badgeText = ""
		dashes = max(0, innerWidth-ansi.StringWidth(titleText))
	}
	leftDash := min(1, dashes)
	rightDash := dashes - leftDash
	if badgeText != "" {
		rightDash = max(0, rightDash-1)
	}

	top := borderStyle.Render("╭"+strings.Repeat("─", leftDash)) +
		titleStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat("─", rightDash)) +
		badgeText
	if badgeText != "" {
		top += borderStyle.Render("─")
	}
	top += borderStyle.Render("╮")

	v := borderStyle.Render("│")
	contentLines := strings.Split(p.Content, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows, v+" "+padRightANSI(line, contentWidth)+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(rows, "\n")
}

// Inner reports the content area a Pane of the given size leaves.
func (Pane) Inner(width, height int) (int, int) {
	return max(0, width-4), max(0, height-2)
}
