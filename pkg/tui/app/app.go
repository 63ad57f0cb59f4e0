// Package teaui hosts the Bubble Tea program for the board TUI.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/board/pkg/app"
	"tableflip.dev/board/pkg/board"
	"tableflip.dev/board/pkg/category"
	"tableflip.dev/board/pkg/dispatch"
	"tableflip.dev/board/pkg/entry"
	"tableflip.dev/board/pkg/form"
	"tableflip.dev/board/pkg/session"
	"tableflip.dev/board/pkg/tui/theme"
	"tableflip.dev/board/pkg/view"
)

// Model contains UI state
type Model struct {
	ctx        context.Context
	store      *board.Store
	dispatcher *dispatch.Dispatcher
	session    *session.Session
	router     *view.Router
	theme      theme.Theme

	cursor map[category.Category]int

	fields []category.Field
	inputs []textinput.Model
	focus  int
	// formGen numbers each opened form so a late save result only closes
	// the form it came from.
	formGen int

	confirmDelete *entry.Entry
	busy          bool

	status    string
	statusErr bool

	termWidth  int
	termHeight int
}

// New creates a new UI model backed by an open client.
func New(ctx context.Context, c *app.Client) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Model{
		ctx:        ctx,
		store:      c.Store,
		dispatcher: c.Dispatcher,
		session:    c.Session,
		router:     c.Router,
		theme:      theme.Default(),
		cursor:     make(map[category.Category]int),
		termWidth:  80,
		termHeight: 24,
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, c *app.Client) error {
	p := tea.NewProgram(New(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// messages
type changeMsg struct{ change board.Change }
type changesClosedMsg struct{}
type submittedMsg struct {
	id      string
	editing bool
	formGen int
	err     error
}
type deletedMsg struct {
	id  string
	err error
}

// Init starts listening for store changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), textinput.Blink)
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.store.Changes()
	return func() tea.Msg {
		if c, ok := <-ch; ok {
			return changeMsg{change: c}
		}
		return changesClosedMsg{}
	}
}

// Update handles messages and keybindings
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.resizeInputs()
	case changeMsg:
		if msg.change.Err != nil {
			meta := view.MetaFor(msg.change.Category)
			m.setError(fmt.Sprintf("%s stopped updating: %v", meta.Title, msg.change.Err))
		}
		m.clampCursor(m.router.Active())
		cmds = append(cmds, m.waitForChange())
	case changesClosedMsg:
		return m, tea.Quit
	case submittedMsg:
		m.busy = false
		if msg.formGen != m.formGen || !m.router.FormVisible() {
			// The form was discarded while saving; leave the open one alone.
			if msg.err != nil {
				m.setError("Earlier save failed: " + msg.err.Error())
			} else {
				m.setStatus("Earlier save finished")
			}
			break
		}
		if msg.err != nil {
			// The draft stays so the user can retry.
			m.setError("Save failed: " + msg.err.Error())
			break
		}
		m.router.CloseForm()
		m.clearInputs()
		if msg.editing {
			m.setStatus("Saved changes")
		} else {
			m.setStatus("Posted")
		}
	case deletedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("Delete failed: " + msg.err.Error())
			break
		}
		m.setStatus("Deleted")
	case tea.KeyMsg:
		if m.handleKeyPress(msg, &cmds) {
			return m, tea.Quit
		}
	}

	if m.router.FormVisible() && m.focus < len(m.inputs) {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// handleKeyPress routes a key and reports whether the program should quit.
func (m *Model) handleKeyPress(msg tea.KeyMsg, cmds *[]tea.Cmd) bool {
	if msg.Type == tea.KeyCtrlC {
		return true
	}
	switch {
	case m.confirmDelete != nil:
		m.handleConfirmKey(msg, cmds)
		return false
	case m.router.FormVisible():
		m.handleFormKey(msg, cmds)
		return false
	}
	return m.handleListKey(msg, cmds)
}

func (m *Model) handleListKey(msg tea.KeyMsg, cmds *[]tea.Cmd) bool {
	active := m.router.Active()
	switch msg.String() {
	case "q":
		return true
	case "tab", "right", "l":
		m.router.Next()
		m.clampCursor(m.router.Active())
	case "shift+tab", "left", "h":
		m.router.Prev()
		m.clampCursor(m.router.Active())
	case "1", "2", "3", "4":
		i, _ := strconv.Atoi(msg.String())
		_ = m.router.Select(category.All()[i-1])
		m.clampCursor(m.router.Active())
	case "up", "k":
		if m.cursor[active] > 0 {
			m.cursor[active]--
		}
	case "down", "j":
		if m.cursor[active] < m.store.Count(active)-1 {
			m.cursor[active]++
		}
	case "a":
		if m.session.ToggleAdmin() {
			m.setStatus("Admin mode on")
		} else {
			m.setStatus("Admin mode off")
		}
	case "n":
		if !m.canCreate(active) {
			m.setError("Turn on admin mode (a) to post here")
			break
		}
		if err := m.router.OpenCreate(); err != nil {
			m.setError(err.Error())
			break
		}
		*cmds = append(*cmds, m.openInputs())
	case "e", "enter":
		e := m.selected()
		if e == nil {
			break
		}
		if !m.session.Admin() {
			m.setError("Turn on admin mode (a) to edit")
			break
		}
		if err := m.router.OpenEdit(e); err != nil {
			m.setError(err.Error())
			break
		}
		*cmds = append(*cmds, m.openInputs())
	case "d", "x":
		e := m.selected()
		if e == nil {
			break
		}
		if !m.session.Admin() {
			m.setError("Turn on admin mode (a) to delete")
			break
		}
		m.confirmDelete = e
		m.setStatus(fmt.Sprintf("Delete %q? (y/n)", e.Title))
	}
	return false
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	target := m.confirmDelete
	m.confirmDelete = nil
	switch msg.String() {
	case "y", "Y":
		m.busy = true
		m.setStatus("Deleting…")
		*cmds = append(*cmds, m.deleteCmd(m.router.Active(), target.ID))
	default:
		m.setStatus("Delete cancelled")
	}
}

func (m *Model) handleFormKey(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.router.CloseForm()
		m.clearInputs()
		m.setStatus("Discarded")
		return
	case "tab", "down":
		m.moveFocus(1, cmds)
		return
	case "shift+tab", "up":
		m.moveFocus(-1, cmds)
		return
	case "ctrl+s":
		m.submit(cmds)
		return
	case "enter":
		if m.focus == len(m.inputs)-1 {
			m.submit(cmds)
		} else {
			m.moveFocus(1, cmds)
		}
		return
	}
	if m.focus >= len(m.inputs) {
		return
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.router.Form().SetField(m.fields[m.focus].Name, m.inputs[m.focus].Value())
	*cmds = append(*cmds, cmd)
}

func (m *Model) submit(cmds *[]tea.Cmd) {
	if m.busy {
		return
	}
	f := m.router.Form()
	fields, err := f.Normalized()
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.busy = true
	m.setStatus("Saving…")
	*cmds = append(*cmds, m.submitCmd(f.Category(), fields, f.EditingID()))
}

func (m *Model) submitCmd(c category.Category, fields map[string]any, editingID string) tea.Cmd {
	d := m.dispatcher
	ctx := m.ctx
	gen := m.formGen
	return func() tea.Msg {
		id, err := d.Submit(ctx, c, fields, editingID)
		return submittedMsg{id: id, editing: editingID != "", formGen: gen, err: err}
	}
}

func (m *Model) deleteCmd(c category.Category, id string) tea.Cmd {
	d := m.dispatcher
	ctx := m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: d.Delete(ctx, c, id)}
	}
}

func (m *Model) canCreate(c category.Category) bool {
	return m.session.Admin() || c == category.Feedback
}

func (m *Model) selected() *entry.Entry {
	active := m.router.Active()
	all := m.store.Entries(active)
	i := m.cursor[active]
	if i < 0 || i >= len(all) {
		return nil
	}
	return all[i]
}

func (m *Model) clampCursor(c category.Category) {
	n := m.store.Count(c)
	switch {
	case n == 0:
		m.cursor[c] = 0
	case m.cursor[c] >= n:
		m.cursor[c] = n - 1
	}
}

// openInputs builds one text input per field of the open form.
func (m *Model) openInputs() tea.Cmd {
	f := m.router.Form()
	d := category.MustDescribe(f.Category())
	m.fields = d.Fields
	m.formGen++
	m.inputs = make([]textinput.Model, len(d.Fields))
	for i, field := range d.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder(field)
		in.SetValue(f.Field(field.Name))
		m.inputs[i] = in
	}
	m.resizeInputs()
	m.focus = 0
	return m.inputs[0].Focus()
}

func (m *Model) clearInputs() {
	m.fields = nil
	m.inputs = nil
	m.focus = 0
}

func (m *Model) resizeInputs() {
	w := m.termWidth - 20
	if w < 20 {
		w = 20
	}
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
}

func (m *Model) moveFocus(d int, cmds *[]tea.Cmd) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + d + len(m.inputs)) % len(m.inputs)
	*cmds = append(*cmds, m.inputs[m.focus].Focus())
}

func placeholder(f category.Field) string {
	switch f.Kind {
	case category.KindDate:
		return "YYYY-MM-DD, blank for today"
	case category.KindTime:
		return "HH:MM"
	case category.KindEnum:
		return strings.Join(f.Options, " / ")
	case category.KindRating:
		return fmt.Sprintf("%d-%d", category.MinRating, category.MaxRating)
	}
	return ""
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

// View renders the tabs, the active list or form, and the footer.
func (m *Model) View() string {
	sections := []string{m.renderTabs()}
	if m.router.FormVisible() {
		sections = append(sections, m.renderForm())
	} else {
		sections = append(sections, m.renderList())
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	var tabs []string
	active := m.router.Active()
	for i, c := range category.All() {
		meta := view.MetaFor(c)
		label := fmt.Sprintf("%d %s %s", i+1, meta.Icon, meta.Title)
		count := m.theme.Tabs.Count.Render(fmt.Sprintf(" %d", m.store.Count(c)))
		if c == active {
			style := m.theme.Tabs.Active.Foreground(theme.Accent(meta.Accent)).BorderForeground(theme.Accent(meta.Accent))
			tabs = append(tabs, style.Render(label+count))
		} else {
			tabs = append(tabs, m.theme.Tabs.Inactive.Render(label+count))
		}
	}
	return m.theme.Tabs.Bar.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
}

func (m *Model) renderList() string {
	active := m.router.Active()
	th := m.theme.List

	if active == category.Default && m.store.Loading() {
		return th.Empty.Render("Loading…")
	}
	var b strings.Builder
	if err := m.store.Err(active); err != nil {
		b.WriteString(th.Error.Render("Not updating: "+err.Error()) + "\n\n")
	}

	all := m.store.Entries(active)
	if len(all) == 0 {
		b.WriteString(th.Empty.Render("Nothing posted yet."))
		return b.String()
	}

	width := m.termWidth - 4
	if width < 20 {
		width = 20
	}
	cur := m.cursor[active]
	for i, e := range all {
		title := e.Title
		if badge, ok := view.BadgeFor(active, e); ok {
			title += "  " + theme.Badge(badge.Color, badge.Text)
		}
		title = truncate.StringWithTail(title, uint(width), "…")
		if i == cur {
			b.WriteString(th.Selected.Render("› " + title))
		} else {
			b.WriteString(th.Title.Render("  " + title))
		}
		b.WriteString("\n")
		b.WriteString(th.Content.Render(wordwrap.String(e.Content, width-2)))
		b.WriteString("\n")
		b.WriteString(th.Meta.Render(metaLine(active, e)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func metaLine(c category.Category, e *entry.Entry) string {
	parts := []string{e.Date, "by " + e.Author}
	switch c {
	case category.Events:
		if e.Time != "" {
			parts = append(parts, e.Time)
		}
		if e.Location != "" {
			parts = append(parts, "@ "+e.Location)
		}
	case category.LostFound:
		if e.Contact != "" {
			parts = append(parts, "contact: "+e.Contact)
		}
	}
	return strings.Join(parts, " · ")
}

func (m *Model) renderForm() string {
	f := m.router.Form()
	th := m.theme.Form
	meta := view.MetaFor(f.Category())

	heading := "New " + meta.Title
	if f.Mode() == form.Edit {
		heading = "Edit " + meta.Title
	}
	rows := []string{th.Title.Foreground(theme.Accent(meta.Accent)).Render(meta.Icon + " " + heading)}
	for i, field := range m.fields {
		label := th.Label
		if i == m.focus {
			label = th.Focused
		}
		name := field.Label
		if field.Required {
			name += th.Required.Render("*")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), " ", m.inputs[i].View()))
	}
	rows = append(rows, th.Hint.Render("tab next · enter on last field or ctrl+s save · esc discard"))
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderFooter() string {
	th := m.theme.Footer
	var help string
	switch {
	case m.confirmDelete != nil:
		help = "y confirm · any other key cancels"
	case m.router.FormVisible():
		help = "tab/shift+tab move · ctrl+s save · esc discard"
	case m.session.Admin():
		help = "1-4/tab switch · j/k move · n new · e edit · d delete · a admin off · q quit"
	default:
		help = "1-4/tab switch · j/k move · n new feedback · a admin · q quit"
	}

	var parts []string
	if m.session.Admin() {
		parts = append(parts, th.Admin.Render("ADMIN"))
	}
	if uid, ok := m.session.UserID(); ok {
		parts = append(parts, th.Status.Render(truncate.StringWithTail(uid, 12, "…")))
	} else if m.session.Ready() {
		parts = append(parts, th.Error.Render("signed out"))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, th.Error.Render(m.status))
		} else {
			parts = append(parts, th.Status.Render(m.status))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(parts, " "), th.Help.Render(help))
}
