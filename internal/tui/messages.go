package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/innkeeper/internal/service"
	"github.com/jask/innkeeper/internal/session"
)

type statusMsg string

type errMsg struct{ error }

type rowsMsg []service.ComparisonRow

type loginMsg struct {
	session session.Session
	err     error
}

type exportDoneMsg struct {
	path string
}

type deletedMsg struct {
	count int64
}

type renamedMsg struct {
	id   string
	name string
}

type syncDoneMsg struct {
	rows []service.ComparisonRow
	err  error
}

// idleTickMsg drives the periodic session expiry check.
type idleTickMsg time.Time

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg(text) }
}
