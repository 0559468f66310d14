// Package tui is the terminal dashboard. It renders the dashboard controller and runs its
// effects as bubbletea commands, so gateway calls never block the update loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketadmin/internal/dashboard"
	"marketadmin/internal/model"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeDescribe
)

// eventMsg an effect finished
type eventMsg struct{ ev dashboard.Event }

// loggedOutMsg the session store was cleared
type loggedOutMsg struct{ err error }

// LogoutFunc clears the persisted session
type LogoutFunc func(ctx context.Context) error

// Model the bubbletea model around one dashboard controller
type Model struct {
	ctx    context.Context
	ctrl   *dashboard.Controller
	logout LogoutFunc

	keys   keyMap
	help   help.Model
	table  table.Model
	search textinput.Model
	form   formView

	mode     mode
	rows     []model.Record
	status   string
	describe *model.Product
	width    int
	height   int
	quitting bool
}

// New the controller must hold an authenticated session
func New(ctx context.Context, ctrl *dashboard.Controller, logout LogoutFunc) Model {
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "name, description, email..."

	t := table.New(table.WithFocused(true), table.WithHeight(15))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(accent)
	t.SetStyles(styles)

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		logout: logout,
		keys:   newKeyMap(),
		help:   help.New(),
		table:  t,
		search: search,
	}
	m.syncTable()
	return m
}

// Init mounts the dashboard
func (m Model) Init() tea.Cmd {
	return m.run(m.ctrl.Mount()...)
}

// run each effect becomes a command whose result comes back as an eventMsg
func (m Model) run(effects ...dashboard.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		if eff == nil {
			continue
		}
		eff := eff
		cmds = append(cmds, func() tea.Msg {
			return eventMsg{ev: eff(m.ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// ==================== Update ====================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(5, msg.Height-10))
		m.syncTable()
		return m, nil

	case eventMsg:
		follow := m.ctrl.Handle(msg.ev)
		m.afterEvent(msg.ev)
		m.syncTable()
		return m, m.run(follow...)

	case loggedOutMsg:
		m.quitting = true
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeDescribe:
			if key.Matches(msg, m.keys.Cancel, m.keys.View, m.keys.Quit) {
				m.mode = modeBrowse
				m.describe = nil
			}
			return m, nil
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) afterEvent(ev dashboard.Event) {
	switch ev := ev.(type) {
	case dashboard.SubmittedEvent:
		if m.mode == modeForm && !m.ctrl.Form().IsOpen() {
			m.mode = modeBrowse
			m.status = ev.Kind.Singular() + " saved"
		} else if m.mode == modeForm {
			m.form.sync(m.ctrl)
		}
	case dashboard.DeletedEvent:
		if ev.Err == nil {
			m.status = ev.Kind.Singular() + " deleted"
		}
	case dashboard.ApprovedEvent:
		if ev.Err == nil {
			m.status = "product approved"
		}
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(key.Matches(msg, m.keys.NextTab))

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.ctrl.Query())
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		m.cycleFilter()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.ctrl.Refresh()...)

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissNotices()

	case key.Matches(msg, m.keys.New):
		if err := m.ctrl.OpenCreate(); err != nil {
			m.status = err.Error()
			break
		}
		m.openForm()
		cmd := m.form.focusCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		r := m.selected()
		if r == nil {
			break
		}
		if err := m.ctrl.OpenEdit(r.RecordID()); err != nil {
			m.status = err.Error()
			break
		}
		m.openForm()
		cmd := m.form.focusCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if r := m.selected(); r != nil {
			if err := m.ctrl.RequestDelete(r.RecordID()); err != nil {
				m.status = err.Error()
				break
			}
			m.mode = modeConfirm
		}

	case key.Matches(msg, m.keys.Approve):
		if r := m.selected(); r != nil {
			eff, err := m.ctrl.Approve(r.RecordID())
			if err != nil {
				m.status = err.Error()
				break
			}
			m.status = "approving..."
			return m, m.run(eff)
		}

	case key.Matches(msg, m.keys.View):
		if r := m.selected(); r != nil && r.Kind() == model.KindProduct {
			p, err := m.ctrl.Describe(r.RecordID())
			if err == nil {
				m.describe = &p
				m.mode = modeDescribe
			}
		}

	case key.Matches(msg, m.keys.Logout):
		m.ctrl.Logout()
		logout := m.logout
		ctx := m.ctx
		return m, func() tea.Msg {
			if logout == nil {
				return loggedOutMsg{}
			}
			return loggedOutMsg{err: logout(ctx)}
		}

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	m.syncTable()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		eff, err := m.ctrl.ConfirmDelete()
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.run(eff)
	case key.Matches(msg, m.keys.Decline):
		m.ctrl.CancelDelete()
		m.mode = modeBrowse
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelForm()
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		eff, err := m.ctrl.Submit()
		if err != nil {
			if errors.Is(err, dashboard.ErrInvalidDraft) {
				m.form.attempted = true
			} else {
				m.status = err.Error()
			}
			return m, nil
		}
		m.status = "saving..."
		return m, m.run(eff)

	case key.Matches(msg, m.keys.NextFld):
		cmd := m.form.move(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevFld):
		cmd := m.form.move(-1)
		return m, cmd
	case key.Matches(msg, m.keys.NextOpt):
		if m.form.cycleOption(m.ctrl, 1) {
			return m, nil
		}
	case key.Matches(msg, m.keys.PrevOpt):
		if m.form.cycleOption(m.ctrl, -1) {
			return m, nil
		}
	}

	cmd := m.form.input(m.ctrl, msg)
	return m, cmd
}

// ==================== helpers ====================

func (m *Model) openForm() {
	m.mode = modeForm
	m.form = newFormView(m.ctrl)
}

func (m *Model) cycleTab(forward bool) {
	tabs := m.ctrl.Tabs()
	if len(tabs) < 2 {
		return
	}
	i := 0
	for idx, k := range tabs {
		if k == m.ctrl.Active() {
			i = idx
		}
	}
	if forward {
		i = (i + 1) % len(tabs)
	} else {
		i = (i - 1 + len(tabs)) % len(tabs)
	}
	if err := m.ctrl.SelectTab(tabs[i]); err == nil {
		m.search.SetValue("")
		m.table.SetCursor(0)
		m.syncTable()
	}
}

func (m *Model) cycleFilter() {
	opts := m.ctrl.FilterOptions()
	if len(opts) == 0 {
		return
	}
	next := opts[0]
	for i, o := range opts {
		if o == m.ctrl.Filter() {
			next = opts[(i+1)%len(opts)]
		}
	}
	_ = m.ctrl.SetFilter(next)
	m.table.SetCursor(0)
	m.syncTable()
}

func (m Model) selected() model.Record {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// syncTable rebuilds the table from the controller's current rows
func (m *Model) syncTable() {
	m.rows = m.ctrl.Rows()
	titles := append(m.ctrl.Columns(), "Actions")

	width := m.width
	if width <= 0 {
		width = 120
	}
	colWidth := max(8, (width-4)/len(titles))
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		cols[i] = table.Column{Title: title, Width: colWidth}
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, append(m.ctrl.Cells(r), actionLabel(m.ctrl.Actions(r))))
	}

	// rows first: a narrower row under wider columns would be indexed out of range
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func actionLabel(a dashboard.RowActions) string {
	var parts []string
	if a.Edit {
		parts = append(parts, "e")
	}
	if a.Delete {
		parts = append(parts, "d")
	}
	if a.Approve {
		parts = append(parts, "a")
	}
	return strings.Join(parts, " ")
}

// ==================== View ====================

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.form.view(m.ctrl))
		b.WriteString("\n")
		b.WriteString(m.help.View(formHelp{k: m.keys}))
	case modeDescribe:
		b.WriteString(m.describeView())
	case modeConfirm:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if pd := m.ctrl.PendingDelete(); pd != nil {
			b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %s %q? (y/n)", pd.Kind.Singular(), pd.Label)))
		}
	default:
		b.WriteString(m.toolbar())
		b.WriteString("\n")
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}

	for _, n := range m.ctrl.Notices() {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("! " + n.Message))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}

func (m Model) header() string {
	id := m.ctrl.Identity()
	who := "logged out"
	if id != nil {
		who = fmt.Sprintf("%s (%s)", id.Username, id.Role)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("Marketplace Admin"), "  ", userStyle.Render(who))
}

func (m Model) tabs() string {
	var parts []string
	for _, k := range m.ctrl.Tabs() {
		label := k.Title()
		if m.ctrl.Loading(k) {
			label += " …"
		}
		if k == m.ctrl.Active() {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) toolbar() string {
	var parts []string
	if m.mode == modeSearch {
		parts = append(parts, m.search.View())
	} else if q := m.ctrl.Query(); q != "" {
		parts = append(parts, "search: "+q)
	}
	if len(m.ctrl.FilterOptions()) > 0 {
		parts = append(parts, "filter: "+m.ctrl.Filter())
	}
	if m.ctrl.CanCreate() {
		parts = append(parts, "n: new "+m.ctrl.Active().Singular())
	}
	return statusStyle.Render(strings.Join(parts, "   "))
}

func (m Model) describeView() string {
	p := m.describe
	if p == nil {
		return ""
	}
	width := 72
	if m.width > 10 && m.width-6 < width {
		width = m.width - 6
	}
	body := lipgloss.NewStyle().Width(width).Render(p.Description)
	meta := fmt.Sprintf("$%s · %s · %s · by %s", p.Price, p.Status.Label(), p.BusinessName, p.CreatedByName)
	return boxStyle.Render(titleStyle.Render(p.Name) + "\n" + userStyle.Render(meta) + "\n\n" + body)
}
