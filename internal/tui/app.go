package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/config"
	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/logging"
	"github.com/jask/innkeeper/internal/service"
	"github.com/jask/innkeeper/internal/session"
	"github.com/jask/innkeeper/internal/tabular"
	"github.com/jask/innkeeper/widgets"
)

// idleCheckInterval is how often an untouched session is tested for expiry.
const idleCheckInterval = 15 * time.Second

// App ties together the login gate, the comparison table and the property
// detail screen.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	keys     *KeyRegistry
	logger   *zap.Logger

	session session.Session
	state   appState
	modal   modalState

	login  loginForm
	table  *DataTable[service.ComparisonRow]
	rows   []service.ComparisonRow
	preset int
	detail service.ComparisonRow
	help   help.Model

	renameInput   textinput.Model
	renameID      string
	pendingDelete []service.ComparisonRow

	// queued collects commands requested by table callbacks during Update.
	queued []tea.Cmd

	status    string
	statusErr bool
	width     int
	height    int
}

type Services struct {
	Comparison *service.ComparisonService
	Properties *service.PropertyService
	Exporter   *service.Exporter
	Sync       *service.SyncMonitor
	Sessions   *session.Manager
}

type appState string

const (
	viewLogin      appState = "login"
	viewProperties appState = "properties"
	viewDetail     appState = "detail"
)

type modalState string

const (
	modalNone          modalState = ""
	modalRename        modalState = "rename"
	modalConfirmDelete modalState = "confirmDelete"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle    = lipgloss.NewStyle().Foreground(widgets.ColorSubtext0)
	statusErrStyle = lipgloss.NewStyle().Foreground(widgets.ColorError)
	hintStyle      = lipgloss.NewStyle().Foreground(widgets.ColorWarning)
	badgeStyles    = map[repository.PropertyStatus]lipgloss.Style{
		repository.StatusOnline:  lipgloss.NewStyle().Foreground(widgets.ColorSuccess),
		repository.StatusOffline: lipgloss.NewStyle().Foreground(widgets.ColorError),
		repository.StatusSyncing: lipgloss.NewStyle().Foreground(widgets.ColorWarning),
	}
)

func New(ctx context.Context, cfg config.Config, services Services, keys *KeyRegistry, logger *zap.Logger) *App {
	if keys == nil {
		keys = NewKeyRegistry()
	}
	if services.Sync == nil {
		services.Sync = service.NewSyncMonitor(nil, logger)
	}
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		keys:     keys,
		logger:   logging.OrNop(logger),
		state:    viewLogin,
		login:    newLoginForm(),
		help:     help.New(),
	}

	view := tabular.New(tabular.Config[service.ComparisonRow]{
		Schema:          comparisonSchema(),
		Columns:         comparisonColumns(cfg.UI.CurrencySymbol),
		Title:           "Property Comparison",
		ShowToolbar:     true,
		ShowContextMenu: true,
		Loading:         true,
		Clipboard:       systemClipboard{},
	})
	view.SetActions(tabular.ActionFuncs[service.ComparisonRow]{
		OnActivate:   a.openDetail,
		OnExport:     a.requestExport,
		OnDeleteRows: a.confirmDelete,
		OnEditRow:    a.openRename,
	})
	a.table = NewDataTable(view, keys)
	a.table.PageSize = cfg.UI.PageSize

	ri := textinput.New()
	ri.Prompt = "> "
	ri.CharLimit = 80
	ri.Width = 40
	a.renameInput = ri
	return a
}

// WithSession starts the app already signed in.
func (a *App) WithSession(s session.Session) *App {
	if s.Active() {
		a.session = s
		a.state = viewProperties
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.idleTick()}
	if a.state != viewLogin {
		cmds = append(cmds, a.table.SetLoading(true), a.loadRows())
	}
	return tea.Batch(cmds...)
}

func (a *App) idleTick() tea.Cmd {
	return tea.Tick(idleCheckInterval, func(t time.Time) tea.Msg { return idleTickMsg(t) })
}

func (a *App) loadRows() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.services.Comparison.Rows(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return rowsMsg(rows)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layout()
		return a, nil
	case tea.KeyMsg:
		if a.state == viewLogin {
			return a, a.handleLoginKey(m)
		}
		if cmd, expired := a.touch(); expired {
			return a, cmd
		}
		return a, a.handleKey(m)
	case tea.MouseMsg:
		if a.state != viewProperties || a.modal != modalNone {
			return a, nil
		}
		if cmd, expired := a.touch(); expired {
			return a, cmd
		}
		cmd := a.table.Update(m)
		return a, tea.Batch(append(a.drain(), cmd)...)
	case idleTickMsg:
		return a, tea.Batch(a.checkIdle(), a.idleTick())
	case loginMsg:
		a.login.busy = false
		if m.err != nil {
			a.login.message = loginError(m.err)
			return a, nil
		}
		a.session = m.session
		a.state = viewProperties
		a.login.reset("")
		a.setStatus("Signed in as "+m.session.Username, false)
		return a, tea.Batch(a.table.SetLoading(true), a.loadRows())
	case rowsMsg:
		a.rows = m
		a.applyRows()
		return a, nil
	case syncDoneMsg:
		a.services.Sync.Complete(m.err)
		if m.err != nil {
			a.table.SetLoading(false)
			a.setStatus(a.services.Sync.Tooltip(), true)
			return a, nil
		}
		a.setStatus(a.services.Sync.Tooltip(), false)
		a.rows = m.rows
		a.applyRows()
		return a, nil
	case exportDoneMsg:
		a.setStatus("Exported to "+m.path, false)
		return a, nil
	case deletedMsg:
		a.setStatus(fmt.Sprintf("Deleted %d %s", m.count, plural(m.count, "property", "properties")), false)
		return a, a.loadRows()
	case renamedMsg:
		if a.detail.ID == m.id {
			a.detail.Name = m.name
		}
		a.setStatus("Renamed to "+m.name, false)
		return a, a.loadRows()
	case statusMsg:
		a.setStatus(string(m), false)
		return a, nil
	case errMsg:
		a.table.SetLoading(false)
		a.logger.Warn("ui error", zap.Error(m.error))
		a.setStatus(m.Error(), true)
		return a, nil
	}

	if a.state != viewLogin {
		cmd := a.table.Update(msg)
		return a, cmd
	}
	return a, a.login.update(msg)
}

// touch records activity and sends an idle session back to the login gate.
func (a *App) touch() (tea.Cmd, bool) {
	s, err := a.services.Sessions.Touch(a.session)
	a.session = s
	if errors.Is(err, session.ErrExpired) {
		return a.expire(), true
	}
	return nil, false
}

func (a *App) checkIdle() tea.Cmd {
	if a.state == viewLogin {
		return nil
	}
	s, err := a.services.Sessions.Check(a.session)
	a.session = s
	if errors.Is(err, session.ErrExpired) {
		return a.expire()
	}
	return nil
}

func (a *App) expire() tea.Cmd {
	a.state = viewLogin
	a.modal = modalNone
	a.table.Tabular().DeselectAll()
	return a.login.reset("Session expired. Sign in again.")
}

func loginError(err error) string {
	if errors.Is(err, session.ErrInvalidCredentials) {
		return "Invalid username or password"
	}
	return err.Error()
}

func (a *App) handleLoginKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	switch {
	case a.keys.IsLocal(key, scopeLogin, actionQuit):
		return tea.Quit
	case a.keys.IsLocal(key, scopeLogin, actionNextField):
		return a.login.nextField()
	case a.keys.IsLocal(key, scopeLogin, actionConfirm):
		if a.login.busy {
			return nil
		}
		user, pass := a.login.credentials()
		a.login.busy = true
		a.login.message = ""
		return func() tea.Msg {
			s, err := a.services.Sessions.Login(a.ctx, user, pass)
			return loginMsg{session: s, err: err}
		}
	}
	return a.login.update(m)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	switch a.modal {
	case modalRename:
		return a.handleRenameKey(m)
	case modalConfirmDelete:
		return a.handleConfirmKey(key)
	}

	if a.state == viewDetail {
		return a.handleDetailKey(key)
	}

	if !a.table.Capturing() {
		switch {
		case a.keys.Is(key, scopeTable, actionQuit):
			return tea.Quit
		case a.keys.Is(key, scopeTable, actionLogout):
			a.session = a.services.Sessions.Logout(a.session)
			a.state = viewLogin
			a.table.Tabular().DeselectAll()
			return a.login.reset("Signed out")
		case a.keys.Is(key, scopeTable, actionRefresh):
			return a.refresh()
		case a.keys.IsLocal(key, scopeTable, actionPreset):
			a.preset = (a.preset + 1) % len(service.Presets)
			a.applyRows()
			a.setStatus("Filter: "+service.Presets[a.preset].Label, false)
			return nil
		}
	}

	cmd := a.table.Update(m)
	return tea.Batch(append(a.drain(), cmd)...)
}

func (a *App) handleDetailKey(key string) tea.Cmd {
	switch {
	case a.keys.IsLocal(key, scopeDetail, actionBack):
		a.state = viewProperties
	case a.keys.IsLocal(key, scopeDetail, actionEdit):
		a.openRename(a.detail)
		return tea.Batch(a.drain()...)
	case a.keys.IsLocal(key, scopeDetail, actionDelete):
		a.confirmDelete([]service.ComparisonRow{a.detail})
	case a.keys.Is(key, scopeDetail, actionQuit):
		return tea.Quit
	case a.keys.Is(key, scopeDetail, actionRefresh):
		return a.refresh()
	}
	return nil
}

func (a *App) handleRenameKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	switch {
	case a.keys.IsLocal(key, scopeEdit, actionCancel):
		a.modal = modalNone
		a.renameInput.Blur()
		return nil
	case a.keys.IsLocal(key, scopeEdit, actionConfirm):
		name := strings.TrimSpace(a.renameInput.Value())
		if name == "" {
			a.setStatus("Name cannot be empty", true)
			return nil
		}
		id := a.renameID
		a.modal = modalNone
		a.renameInput.Blur()
		return func() tea.Msg {
			if err := a.services.Properties.Rename(a.ctx, id, name); err != nil {
				return errMsg{err}
			}
			return renamedMsg{id: id, name: name}
		}
	}
	var cmd tea.Cmd
	a.renameInput, cmd = a.renameInput.Update(m)
	return cmd
}

func (a *App) handleConfirmKey(key string) tea.Cmd {
	switch {
	case a.keys.IsLocal(key, scopeConfirm, actionConfirm):
		ids := make([]string, len(a.pendingDelete))
		for i, r := range a.pendingDelete {
			ids[i] = r.ID
		}
		a.modal = modalNone
		a.pendingDelete = nil
		if a.state == viewDetail {
			a.state = viewProperties
		}
		return func() tea.Msg {
			n, err := a.services.Properties.Delete(a.ctx, ids)
			if err != nil {
				return errMsg{err}
			}
			return deletedMsg{count: n}
		}
	case a.keys.IsLocal(key, scopeConfirm, actionCancel):
		a.modal = modalNone
		a.pendingDelete = nil
	}
	return nil
}

// refresh runs a sync round: the badge shows syncing for the configured
// delay before the rows are reloaded.
func (a *App) refresh() tea.Cmd {
	if !a.services.Sync.Begin() {
		return nil
	}
	a.setStatus(a.services.Sync.Tooltip(), false)
	return tea.Batch(
		a.table.SetLoading(true),
		tea.Tick(a.cfg.Sync.Delay, func(time.Time) tea.Msg {
			rows, err := a.services.Comparison.Rows(a.ctx)
			return syncDoneMsg{rows: rows, err: err}
		}),
	)
}

func (a *App) applyRows() {
	a.table.SetRows(service.Presets[a.preset].Apply(a.rows))
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.queued = append(a.queued, cmd)
	}
}

func (a *App) drain() []tea.Cmd {
	cmds := a.queued
	a.queued = nil
	return cmds
}

// Table callbacks. They run synchronously inside DataTable.Update.

func (a *App) openDetail(row service.ComparisonRow) {
	a.detail = row
	a.state = viewDetail
}

func (a *App) requestExport(format tabular.ExportFormat) {
	rows := append([]service.ComparisonRow(nil), a.table.Tabular().Displayed()...)
	a.setStatus("Exporting "+format.Label()+"...", false)
	a.queue(func() tea.Msg {
		path, err := a.services.Exporter.Export(a.ctx, format, rows)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path: path}
	})
}

func (a *App) confirmDelete(rows []service.ComparisonRow) {
	if len(rows) == 0 {
		return
	}
	a.pendingDelete = rows
	a.modal = modalConfirmDelete
}

func (a *App) openRename(row service.ComparisonRow) {
	a.renameID = row.ID
	a.renameInput.SetValue(row.Name)
	a.renameInput.CursorEnd()
	a.modal = modalRename
	a.queue(a.renameInput.Focus())
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// Layout and rendering.

const chromeLines = 2 // status + help

func (a *App) layout() {
	w, h := widgets.Pane{}.Inner(a.width, max(0, a.height-chromeLines))
	a.table.SetSize(w, h)
	a.table.SetOrigin(2, 1)
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	if a.state == viewLogin {
		return a.login.view(a.width, a.height)
	}

	paneH := max(0, a.height-chromeLines)
	var body string
	switch a.state {
	case viewDetail:
		body = a.renderDetail(paneH)
	default:
		body = a.renderProperties(paneH)
	}
	switch a.modal {
	case modalRename:
		body = widgets.RenderPopup(body, a.renderRenameModal(), a.width, paneH)
	case modalConfirmDelete:
		body = widgets.RenderPopup(body, a.renderConfirmModal(), a.width, paneH)
	}
	return body + "\n" + a.renderStatus() + "\n" + a.renderHelp()
}

func (a *App) renderProperties(height int) string {
	title := "Property Comparison"
	if p := service.Presets[a.preset]; p.Label != service.AllProperties.Label {
		title += " · " + p.Label
	}
	return widgets.Pane{
		Title:   title,
		Badge:   a.syncBadge(),
		Content: a.table.View(),
		Focused: a.modal == modalNone,
	}.Render(a.width, height)
}

func (a *App) syncBadge() string {
	sync := a.services.Sync
	style, ok := badgeStyles[sync.Status()]
	if !ok {
		style = statusStyle
	}
	return style.Render("● " + sync.Label())
}

func (a *App) renderDetail(height int) string {
	r := a.detail
	money := func(c *int64) string { return service.FormatMoney(c, a.cfg.UI.CurrencySymbol) }
	overview := widgets.List{
		Title: titleStyle.Render(r.Name),
		Fields: []widgets.Field{
			{Label: "Location", Value: r.Location},
			{Label: "Rooms", Value: fmt.Sprint(r.Rooms)},
			{Label: "Status", Value: statusLabel(r.Status)},
			{Label: "Period", Value: r.Period},
		},
	}
	financials := widgets.List{
		Title: titleStyle.Render("Financials"),
		Fields: []widgets.Field{
			{Label: "Occupancy", Value: service.FormatPercent(r.OccupancyRate)},
			{Label: "ADR", Value: money(r.AvgDailyRate)},
			{Label: "RevPAR", Value: money(r.RevPAR)},
			{Label: "Revenue", Value: money(r.Revenue)},
			{Label: "Expenses", Value: money(r.Expenses)},
			{Label: "Profit", Value: money(r.Profit)},
		},
	}
	body := widgets.HStack{Widgets: []widgets.Widget{overview, financials}, Gap: 2}
	w, h := widgets.Pane{}.Inner(a.width, height)
	return widgets.Pane{
		Title:   "Property",
		Badge:   a.syncBadge(),
		Content: body.Render(w, h),
		Focused: a.modal == modalNone,
	}.Render(a.width, height)
}

func (a *App) renderRenameModal() string {
	return titleStyle.Render("Rename property") + "\n\n" + a.renameInput.View() + "\n\n[enter] Save  [esc] Cancel"
}

func (a *App) renderConfirmModal() string {
	n := int64(len(a.pendingDelete))
	head := fmt.Sprintf("Delete %d %s?", n, plural(n, "property", "properties"))
	if n == 1 {
		head = fmt.Sprintf("Delete %q?", a.pendingDelete[0].Name)
	}
	return titleStyle.Render(head) + "\nThis removes its metrics too.\n\n[y] Yes  [n] No"
}

func (a *App) renderStatus() string {
	if a.statusErr {
		return statusErrStyle.Render(truncate(a.status, a.width))
	}
	if hint := a.suggestion(); hint != "" {
		return hintStyle.Render(truncate(hint, a.width))
	}
	text := a.status
	if text == "" {
		text = a.services.Sync.Tooltip()
	}
	return statusStyle.Render(truncate(text, a.width))
}

// suggestion offers the closest property name when the search matches nothing.
func (a *App) suggestion() string {
	view := a.table.Tabular()
	if a.state != viewProperties || view.Query() == "" || len(view.Displayed()) > 0 || a.services.Properties == nil {
		return ""
	}
	names := make([]string, len(a.rows))
	for i, r := range a.rows {
		names[i] = r.Name
	}
	if name, ok := a.services.Properties.Suggest(view.Query(), names); ok {
		return fmt.Sprintf("No match for %q. Did you mean %q?", view.Query(), name)
	}
	return ""
}

func (a *App) renderHelp() string {
	scope := a.table.HelpScope()
	switch {
	case a.modal == modalRename:
		scope = scopeEdit
	case a.modal == modalConfirmDelete:
		scope = scopeConfirm
	case a.state == viewDetail:
		scope = scopeDetail
	}
	a.help.Width = a.width
	return a.help.ShortHelpView(a.keys.HelpBindings(scope))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:max(0, width-1)]
	}
	return string(r) + "…"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// systemClipboard backs the table's Copy action with the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
