package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/innkeeper/widgets"
)

var (
	loginTitleStyle = lipgloss.NewStyle().Foreground(widgets.ColorAccent).Bold(true)
	loginLabelStyle = lipgloss.NewStyle().Foreground(widgets.ColorSubtext0)
	loginErrStyle   = lipgloss.NewStyle().Foreground(widgets.ColorError)
	loginCardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(widgets.ColorFocus).
			Padding(1, 3)
)

// loginForm is the username/password gate shown while the session is not
// authenticated.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	message  string
	busy     bool
}

func newLoginForm() loginForm {
	u := textinput.New()
	u.Placeholder = "username"
	u.Prompt = ""
	u.CharLimit = 64
	u.Width = 24

	p := textinput.New()
	p.Placeholder = "password"
	p.Prompt = ""
	p.CharLimit = 128
	p.Width = 24
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	f := loginForm{username: u, password: p}
	f.username.Focus()
	return f
}

func (f *loginForm) reset(message string) tea.Cmd {
	f.username.SetValue("")
	f.password.SetValue("")
	f.message = message
	f.busy = false
	f.focus = 0
	f.password.Blur()
	return f.username.Focus()
}

func (f *loginForm) credentials() (string, string) {
	return strings.TrimSpace(f.username.Value()), f.password.Value()
}

func (f *loginForm) nextField() tea.Cmd {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.password.Blur()
		return f.username.Focus()
	}
	f.username.Blur()
	return f.password.Focus()
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (f loginForm) view(width, height int) string {
	lines := []string{
		loginTitleStyle.Render("Hotel Admin"),
		"",
		loginLabelStyle.Render("Username"),
		f.username.View(),
		"",
		loginLabelStyle.Render("Password"),
		f.password.View(),
	}
	switch {
	case f.busy:
		lines = append(lines, "", loginLabelStyle.Render("Signing in..."))
	case f.message != "":
		lines = append(lines, "", loginErrStyle.Render(f.message))
	}
	card := loginCardStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
