package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/todos"
)

// Messages produced by dashboard commands. Fetch results carry the
// sequence token issued by the controller so stale responses can be
// recognized and dropped.
type pageMsg struct {
	seq  uint64
	page model.Page
}

type pageErrMsg struct {
	seq uint64
	err error
}

// searchTickMsg is the debounce timer firing. Only the token armed last
// still matches the controller's slot.
type searchTickMsg struct {
	token uint64
}

type savedMsg struct {
	created bool
}

type statusSetMsg struct{}

type mutationErrMsg struct {
	verb string
	err  error
}

type deletedMsg struct {
	id string
}

type deleteErrMsg struct {
	id  string
	err error
}

// loggedOutMsg bubbles up to the root model, which flips the session and
// routes back to login.
type loggedOutMsg struct{}

type dashModel struct {
	client *api.Client
	ctl    *todos.Controller

	spin   spinner.Model
	pager  paginator.Model
	search textinput.Model

	filterIdx int // 0 = all, 1.. = model.Statuses
	cursor    int

	form    *formModel
	confirm model.Todo // pending delete confirmation; zero ID means none

	note    string // transient status line, the toast stand-in
	noteErr bool

	width, height int
}

func newDashModel(client *api.Client, pageSize int) dashModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.PerPage = pageSize

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search todos…"
	search.CharLimit = 200

	return dashModel{
		client: client,
		ctl:    todos.NewController(pageSize),
		spin:   sp,
		pager:  pg,
		search: search,
	}
}

// enter (re)activates the dashboard after login and starts the first
// fetch. The previous session's list state is discarded wholesale so a
// fresh login never shows another session's items while its fetch is in
// flight.
func (m dashModel) enter(w, h int) (dashModel, tea.Cmd) {
	m.width, m.height = w, h
	m.ctl = todos.NewController(m.pager.PerPage)
	m.pager.Page = 0
	m.pager.TotalPages = 1
	m.search.Reset()
	m.search.Blur()
	m.filterIdx = 0
	m.cursor = 0
	m.note = ""
	m.noteErr = false
	m.form = nil
	m.confirm = model.Todo{}
	return m.runEffect(m.ctl.Refresh(), 0)
}

func (m dashModel) resize(w, h int) (dashModel, tea.Cmd) {
	m.width, m.height = w, h
	return m, nil
}

// runEffect turns a controller effect into the matching command.
func (m dashModel) runEffect(eff todos.Effect, token uint64) (dashModel, tea.Cmd) {
	switch eff {
	case todos.EffectFetch:
		return m, tea.Batch(m.fetchCmd(), m.spin.Tick)
	case todos.EffectDebounce:
		return m, tea.Tick(todos.SearchDebounce, func(time.Time) tea.Msg {
			return searchTickMsg{token: token}
		})
	}
	return m, nil
}

func (m dashModel) fetchCmd() tea.Cmd {
	q, seq := m.ctl.BeginFetch()
	client := m.client
	return func() tea.Msg {
		page, err := client.ListTodos(context.Background(), q)
		if err != nil {
			return pageErrMsg{seq: seq, err: err}
		}
		return pageMsg{seq: seq, page: page}
	}
}

func saveCmd(client *api.Client, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if d.EditingID == "" {
			_, err = client.CreateTodo(ctx, d.Title, d.Description, d.Status)
		} else {
			_, err = client.UpdateTodo(ctx, d.EditingID, d.Title, d.Description, d.Status)
		}
		if err != nil {
			verb := "create"
			if d.EditingID != "" {
				verb = "update"
			}
			return mutationErrMsg{verb: verb, err: err}
		}
		return savedMsg{created: d.EditingID == ""}
	}
}

func setStatusCmd(client *api.Client, id string, status model.Status) tea.Cmd {
	return func() tea.Msg {
		if err := client.UpdateStatus(context.Background(), id, status); err != nil {
			return mutationErrMsg{verb: "update status of", err: err}
		}
		return statusSetMsg{}
	}
}

func deleteCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteTodo(context.Background(), id); err != nil {
			return deleteErrMsg{id: id, err: err}
		}
		return deletedMsg{id: id}
	}
}

func (m dashModel) update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pageMsg:
		if m.ctl.ApplyPage(msg.seq, msg.page) {
			q := m.ctl.Query()
			m.pager.TotalPages = m.ctl.Page().TotalPages
			m.pager.Page = q.Page - 1
			if n := len(m.ctl.Page().Items); m.cursor >= n {
				m.cursor = max(0, n-1)
			}
		}
		return m, nil

	case pageErrMsg:
		// prior page stays on screen untouched
		m.ctl.FetchFailed(msg.seq)
		m.noteErr = true
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.note = "Unauthorized. Please log in again."
		} else {
			m.note = "Something went wrong. Try again later."
		}
		return m, nil

	case searchTickMsg:
		return m.runEffect(m.ctl.DebounceFire(msg.token), 0)

	case savedMsg:
		m.form = nil
		if msg.created {
			// fresh items live on the first page
			m.setNote("Todo created successfully!", false)
			return m.runEffect(m.ctl.SetPage(1), 0)
		}
		m.setNote("Todo updated successfully!", false)
		return m.runEffect(m.ctl.Refresh(), 0)

	case statusSetMsg:
		m.setNote("Todo status updated.", false)
		return m.runEffect(m.ctl.Refresh(), 0)

	case mutationErrMsg:
		if m.form != nil {
			// submit stays open for retry
			m.form.saving = false
			m.form.err = friendlyError(msg.err, "Failed to "+msg.verb+" todo.")
			return m, nil
		}
		m.setNote(friendlyError(msg.err, "Failed to "+msg.verb+" todo."), true)
		return m, nil

	case deletedMsg:
		m.setNote("Todo deleted.", false)
		eff := m.ctl.DeleteSucceeded(msg.id)
		if n := len(m.ctl.Page().Items); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		return m.runEffect(eff, 0)

	case deleteErrMsg:
		m.ctl.DeleteFailed(msg.id)
		m.setNote(friendlyError(msg.err, "Failed to delete todo."), true)
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m dashModel) handleKey(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	// modal form first: it swallows everything while open
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	// delete confirmation prompt
	if m.confirm.ID != "" {
		switch msg.String() {
		case "y", "enter":
			id := m.confirm.ID
			m.confirm = model.Todo{}
			m.ctl.DeleteIssued(id)
			return m, deleteCmd(m.client, id)
		case "n", "esc":
			m.confirm = model.Todo{}
		}
		return m, nil
	}

	// search input captures keys while focused
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		}
		prev := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != prev {
			token, eff := m.ctl.SetSearch(v)
			var m2 dashModel
			var effCmd tea.Cmd
			m2, effCmd = m.runEffect(eff, token)
			return m2, tea.Batch(cmd, effCmd)
		}
		return m, cmd
	}

	items := m.ctl.Page().Items
	q := m.ctl.Query()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		return m, m.search.Focus()
	case "f":
		m.filterIdx = (m.filterIdx + 1) % (len(model.Statuses) + 1)
		m.cursor = 0
		return m.runEffect(m.ctl.SetFilter(m.filterStatus()), 0)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "left", "h":
		// controls are simply inert at the edges
		if q.Page > 1 {
			m.cursor = 0
			return m.runEffect(m.ctl.SetPage(q.Page-1), 0)
		}
	case "right", "l":
		if q.Page < m.ctl.Page().TotalPages {
			m.cursor = 0
			return m.runEffect(m.ctl.SetPage(q.Page+1), 0)
		}
	case "g":
		if q.Page != 1 {
			m.cursor = 0
			return m.runEffect(m.ctl.SetPage(1), 0)
		}
	case "G":
		if last := m.ctl.Page().TotalPages; q.Page != last {
			m.cursor = 0
			return m.runEffect(m.ctl.SetPage(last), 0)
		}
	case "a":
		f := newFormModel(model.Draft{Status: model.StatusPending})
		m.form = &f
		return m, f.focusCmd()
	case "e":
		if t, ok := m.current(); ok {
			f := newFormModel(model.Draft{
				Title:       t.Title,
				Description: t.Description,
				Status:      t.Status,
				EditingID:   t.ID,
			})
			m.form = &f
			return m, f.focusCmd()
		}
	case "d":
		if t, ok := m.current(); ok {
			m.confirm = t
		}
	case "1", "2", "3":
		if t, ok := m.current(); ok {
			want := model.Statuses[int(msg.String()[0]-'1')]
			if t.Status != want {
				return m, setStatusCmd(m.client, t.ID, want)
			}
		}
	case "r":
		return m.runEffect(m.ctl.Refresh(), 0)
	case "ctrl+l":
		return m, func() tea.Msg { return loggedOutMsg{} }
	}
	return m, nil
}

func (m dashModel) handleFormKey(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		// discard the draft
		m.form = nil
		return m, nil
	case "ctrl+s":
		cleaned, err := m.ctl.ValidateDraft(m.form.draft())
		if err != nil {
			// validation failures never reach the network; the modal
			// stays open
			m.form.err = err.Error()
			return m, nil
		}
		m.form.saving = true
		m.form.err = ""
		return m, saveCmd(m.client, cleaned)
	}
	var cmd tea.Cmd
	*m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m *dashModel) setNote(note string, isErr bool) {
	m.note = note
	m.noteErr = isErr
}

func (m dashModel) current() (model.Todo, bool) {
	items := m.ctl.Page().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.Todo{}, false
	}
	return items[m.cursor], true
}

func (m dashModel) filterStatus() *model.Status {
	if m.filterIdx == 0 {
		return nil
	}
	s := model.Statuses[m.filterIdx-1]
	return &s
}

func (m dashModel) filterLabel() string {
	if s := m.filterStatus(); s != nil {
		return s.Label()
	}
	return "All"
}

func (m dashModel) view() string {
	if m.form != nil {
		return centered(m.width, m.height, m.form.view())
	}

	page := m.ctl.Page()
	q := m.ctl.Query()
	width := max(40, m.width-6)

	var b strings.Builder

	// header
	head := fmt.Sprintf("%s   %s %d %s   %s %s",
		titleStyle.Render("My Todos"),
		accentStyle.Render("Total"), page.TotalItems,
		mutedStyle.Render("items"),
		mutedStyle.Render("filter:"), m.filterLabel(),
	)
	if m.ctl.Loading() {
		head += "  " + m.spin.View()
	}
	b.WriteString(head + "\n")
	b.WriteString(m.search.View() + "\n\n")

	// rows
	if len(page.Items) == 0 && !m.ctl.Loading() {
		if q.Search != "" || q.Status != nil {
			b.WriteString(mutedStyle.Render("No todos found. Try adjusting your search or filter.") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("No todos yet. Press a to create your first one.") + "\n")
		}
	}
	for i, t := range page.Items {
		prefix := "  "
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s  %s", prefix, statusBadge(t.Status), truncate(t.Title, width/2))
		if t.Description != "" {
			line += "  " + mutedStyle.Render(truncate(t.Description, width/3))
		}
		b.WriteString(line + "\n")
		owner := "Unknown User"
		if t.Owner != nil && t.Owner.Name != "" {
			owner = t.Owner.Name
		}
		b.WriteString("    " + mutedStyle.Render(owner+" • "+t.CreatedAt.Format("Jan 2, 2006")) + "\n")
	}

	// pagination strip
	if page.TotalPages > 1 {
		from := (q.Page-1)*q.Limit + 1
		to := min(q.Page*q.Limit, page.TotalItems)
		prev, next := "← prev", "next →"
		if q.Page <= 1 {
			prev = mutedStyle.Render(prev)
		}
		if q.Page >= page.TotalPages {
			next = mutedStyle.Render(next)
		}
		b.WriteString(fmt.Sprintf("\n%s  %s %s  %s\n",
			mutedStyle.Render(fmt.Sprintf("Showing %d–%d of %d", from, to, page.TotalItems)),
			prev, m.pager.View(), next,
		))
	}

	// status line + confirm prompt
	if m.confirm.ID != "" {
		b.WriteString("\n" + pendingStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.confirm.Title)) + "\n")
	} else if m.note != "" {
		style := successStyle
		if m.noteErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.note) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(
		"a add • e edit • d delete • 1/2/3 set status • / search • f filter • ←/→ page • r refresh • ctrl+l logout • q quit"))

	return panelString(b.String())
}

func friendlyError(err error, fallback string) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "Unauthorized. Please log in again."
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
