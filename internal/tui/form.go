package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// formModel is the create/edit modal. Create and edit share the same
// draft buffer; a non-empty editing id turns submit into an update.
type formModel struct {
	title  textinput.Model
	desc   textarea.Model
	status model.Status

	editingID string
	focus     int // 0 title, 1 description, 2 status
	saving    bool
	err       string
}

func newFormModel(d model.Draft) formModel {
	title := textinput.New()
	title.Prompt = "> "
	title.Placeholder = "Enter todo title"
	title.CharLimit = 200
	title.SetValue(d.Title)

	desc := textarea.New()
	desc.Placeholder = "Optional details…"
	desc.SetHeight(4)
	desc.CharLimit = 2000
	desc.SetValue(d.Description)

	status := d.Status
	if !status.Valid() {
		status = model.StatusPending
	}

	return formModel{
		title:     title,
		desc:      desc,
		status:    status,
		editingID: d.EditingID,
	}
}

func (f *formModel) focusCmd() tea.Cmd {
	return f.title.Focus()
}

func (f formModel) draft() model.Draft {
	return model.Draft{
		Title:       f.title.Value(),
		Description: f.desc.Value(),
		Status:      f.status,
		EditingID:   f.editingID,
	}
}

// update handles everything except esc and ctrl+s, which the dashboard
// intercepts.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			return f.setFocus((f.focus + 1) % 3)
		case "shift+tab":
			return f.setFocus((f.focus + 2) % 3)
		}
		if f.focus == 2 {
			switch key.String() {
			case "left", "h":
				f.status = cycleStatus(f.status, -1)
				return f, nil
			case "right", "l", " ":
				f.status = cycleStatus(f.status, 1)
				return f, nil
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.title, cmd = f.title.Update(msg)
	case 1:
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

func (f formModel) setFocus(i int) (formModel, tea.Cmd) {
	f.focus = i
	f.title.Blur()
	f.desc.Blur()
	switch i {
	case 0:
		return f, f.title.Focus()
	case 1:
		return f, f.desc.Focus()
	}
	return f, nil
}

func cycleStatus(s model.Status, dir int) model.Status {
	idx := 0
	for i, v := range model.Statuses {
		if v == s {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(model.Statuses)) % len(model.Statuses)
	return model.Statuses[idx]
}

func (f formModel) view() string {
	heading := "Create Todo"
	if f.editingID != "" {
		heading = "Edit Todo"
	}

	status := f.status.Label()
	if f.focus == 2 {
		status = selectedStyle.Render(" " + status + " ")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading) + "\n\n")
	b.WriteString(labelStyle.Render("Title") + "\n" + f.title.View() + "\n\n")
	b.WriteString(labelStyle.Render("Description") + "\n" + f.desc.View() + "\n\n")
	b.WriteString(labelStyle.Render("Status") + "  " + status + "\n")
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+f.err) + "\n")
	}
	if f.saving {
		b.WriteString("\n" + mutedStyle.Render("Saving…") + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("ctrl+s save • tab next field • ←/→ change status • esc cancel"))
	return panelString(b.String())
}
