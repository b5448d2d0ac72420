package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func baseCanvas() string {
	rows := make([]string, 9)
	for i := range rows {
		rows[i] = "row-" + string(rune('0'+i)) + "................"
	}
	return strings.Join(rows, "\n")
}

func TestRenderPopupOverlaysWithoutDroppingBase(t *testing.T) {
	out := RenderPopup(baseCanvas(), "Popup", 20, 9)
	lines := strings.Split(out, "\n")
	if len(lines) != 9 {
		t.Fatalf("line count = %d, want 9", len(lines))
	}
	if !strings.Contains(out, "Popup") {
		t.Fatalf("expected popup content in output")
	}
	if !strings.Contains(lines[0], "row-0") {
		t.Fatalf("expected top base row preserved, got %q", lines[0])
	}
	if !strings.Contains(lines[8], "row-8") {
		t.Fatalf("expected bottom base row preserved, got %q", lines[8])
	}
}

func TestRenderPopupAtClampsInsideCanvas(t *testing.T) {
	out := RenderPopupAt(baseCanvas(), "Copy", 100, 100, 20, 9)
	lines := strings.Split(out, "\n")
	if len(lines) != 9 {
		t.Fatalf("line count = %d, want 9", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 20 {
			t.Fatalf("line %d width = %d, want 20", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(lines[7]), "Copy") {
		t.Fatalf("expected menu near the bottom edge, got %q", ansi.Strip(out))
	}
	if !strings.HasPrefix(lines[0], "row-0") {
		t.Fatalf("expected untouched first row, got %q", lines[0])
	}
}

func TestRenderMenuMarksCursorAndDisabled(t *testing.T) {
	out := ansi.Strip(RenderMenu("Actions", []MenuEntry{
		{Label: "Edit", Disabled: true},
		{Label: "Copy"},
		{Label: "Delete"},
	}, 1))
	lines := strings.Split(out, "\n")
	if lines[0] != "Actions" {
		t.Fatalf("title line = %q", lines[0])
	}
	if lines[2] != "  Edit" || lines[3] != "> Copy" || lines[4] != "  Delete" {
		t.Fatalf("unexpected menu:\n%s", out)
	}
}

func TestPopupRectAtMatchesRenderedCard(t *testing.T) {
	menu := "Edit\nCopy"
	r := PopupRectAt(menu, 100, 100, 20, 9)
	if r.W != 10 || r.H != 4 {
		t.Fatalf("card size = %dx%d, want 10x4", r.W, r.H)
	}
	if r.X != 10 || r.Y != 5 {
		t.Fatalf("card origin = (%d,%d), want (10,5)", r.X, r.Y)
	}
	lines := strings.Split(ansi.Strip(RenderPopupAt(baseCanvas(), menu, 100, 100, 20, 9)), "\n")
	if got := string([]rune(lines[r.Y+r.ContentY+1])[r.X+r.ContentX:]); !strings.HasPrefix(got, "Copy") {
		t.Fatalf("second entry not at computed offset, got %q", got)
	}
	if r.Line(r.Y+r.ContentY+1) != 1 || r.Line(r.Y) != -1 || r.Line(r.Y+r.H-1) != -1 {
		t.Fatalf("unexpected line mapping")
	}
	if !r.Contains(r.X, r.Y) || r.Contains(r.X+r.W, r.Y) {
		t.Fatalf("unexpected bounds")
	}
}
