package tui

import (
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testPage(ids ...string) model.Page {
	p := model.Page{TotalItems: len(ids), TotalPages: 1}
	for _, id := range ids {
		p.Items = append(p.Items, model.Todo{ID: id, Title: "todo " + id, Status: model.StatusPending})
	}
	return p
}

// applyFetch drives one fetch round trip through the dashboard without a
// network: it consumes the sequence the controller just issued.
func applyFetch(t *testing.T, m dashModel, page model.Page) dashModel {
	t.Helper()
	_, seq := m.ctl.BeginFetch()
	m, _ = m.update(pageMsg{seq: seq, page: page})
	return m
}

func TestShortTitleKeepsModalOpenAndOffNetwork(t *testing.T) {
	m := newDashModel(nil, 8)

	m, _ = m.handleKey(keyRune('a'))
	require.NotNil(t, m.form)
	m.form.title.SetValue("ok") // two characters

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlS})
	// no command means no network call was scheduled
	assert.Nil(t, cmd)
	require.NotNil(t, m.form, "modal must stay open")
	assert.Contains(t, m.form.err, "at least 3 characters")
	assert.False(t, m.form.saving)
}

func TestEscapeDiscardsDraft(t *testing.T) {
	m := newDashModel(nil, 8)
	m, _ = m.handleKey(keyRune('a'))
	m.form.title.SetValue("half-written thought")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.form)
}

func TestUnauthorizedFetchKeepsPriorPage(t *testing.T) {
	m := newDashModel(nil, 8)
	m = applyFetch(t, m, testPage("a", "b"))

	_, seq := m.ctl.BeginFetch()
	m, _ = m.update(pageErrMsg{seq: seq, err: &api.APIError{StatusCode: 401}})

	assert.Equal(t, "Unauthorized. Please log in again.", m.note)
	assert.True(t, m.noteErr)
	assert.Len(t, m.ctl.Page().Items, 2)
}

func TestGenericFetchFailureNote(t *testing.T) {
	m := newDashModel(nil, 8)

	_, seq := m.ctl.BeginFetch()
	m, _ = m.update(pageErrMsg{seq: seq, err: &api.APIError{StatusCode: 500}})

	assert.Equal(t, "Something went wrong. Try again later.", m.note)
}

func TestPageMsgSyncsPaginator(t *testing.T) {
	m := newDashModel(nil, 8)
	m.ctl.SetPage(2)

	page := testPage("9", "10")
	page.TotalItems, page.TotalPages = 10, 2
	m = applyFetch(t, m, page)

	assert.Equal(t, 2, m.pager.TotalPages)
	assert.Equal(t, 1, m.pager.Page) // paginator pages are 0-based
	assert.True(t, m.pager.OnLastPage())
}

func TestNextKeyInertOnLastPage(t *testing.T) {
	m := newDashModel(nil, 8)
	m.ctl.SetPage(2)
	page := testPage("9", "10")
	page.TotalItems, page.TotalPages = 10, 2
	m = applyFetch(t, m, page)

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd, "next must be disabled on the last page")
	assert.Equal(t, 2, m.ctl.Query().Page)
}

func TestPrevKeyInertOnFirstPage(t *testing.T) {
	m := newDashModel(nil, 8)
	m = applyFetch(t, m, testPage("a"))

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.ctl.Query().Page)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := newDashModel(nil, 8)
	m = applyFetch(t, m, testPage("a", "b"))

	m, cmd := m.handleKey(keyRune('d'))
	assert.Nil(t, cmd, "no request before the user confirms")
	assert.Equal(t, "a", m.confirm.ID)

	// declining puts everything back
	m, _ = m.handleKey(keyRune('n'))
	assert.Empty(t, m.confirm.ID)
	assert.Len(t, m.ctl.Page().Items, 2)
}

func TestConfirmedDeleteSplicesImmediately(t *testing.T) {
	m := newDashModel(nil, 8)
	m = applyFetch(t, m, testPage("a", "b"))

	m, cmd := m.handleKey(keyRune('d'))
	require.Nil(t, cmd)
	m, cmd = m.handleKey(keyRune('y'))
	require.NotNil(t, cmd, "confirmation issues the delete request")

	// the server acknowledged; the row disappears before the resync
	m, _ = m.update(deletedMsg{id: "a"})
	require.Len(t, m.ctl.Page().Items, 1)
	assert.Equal(t, "b", m.ctl.Page().Items[0].ID)
}

func TestFilterKeyCyclesAndRefetches(t *testing.T) {
	m := newDashModel(nil, 8)
	m.ctl.SetPage(3)

	m, cmd := m.handleKey(keyRune('f'))
	assert.NotNil(t, cmd, "filter change fetches immediately, no debounce")
	require.NotNil(t, m.ctl.Query().Status)
	assert.Equal(t, model.StatusPending, *m.ctl.Query().Status)
	assert.Equal(t, 1, m.ctl.Query().Page)

	// a full cycle returns to All
	for i := 0; i < len(model.Statuses); i++ {
		m, _ = m.handleKey(keyRune('f'))
	}
	assert.Nil(t, m.ctl.Query().Status)
}

func TestSearchTypingDebounces(t *testing.T) {
	m := newDashModel(nil, 8)
	m, _ = m.handleKey(keyRune('/'))
	require.True(t, m.search.Focused())

	m, cmd := m.handleKey(keyRune('m'))
	assert.NotNil(t, cmd, "typing arms the debounce timer")
	assert.Equal(t, "m", m.ctl.Query().Search)

	// the timer firing with the live token triggers the fetch
	m2, fetchCmd := m.update(searchTickMsg{token: 1})
	assert.NotNil(t, fetchCmd)
	assert.Equal(t, 1, m2.ctl.Query().Page)

	// a stale token is ignored
	_, stale := m2.update(searchTickMsg{token: 0})
	assert.Nil(t, stale)
}

func TestStatusKeySkipsNoop(t *testing.T) {
	m := newDashModel(nil, 8)
	m = applyFetch(t, m, testPage("a")) // status PENDING

	_, cmd := m.handleKey(keyRune('1'))
	assert.Nil(t, cmd, "already pending, nothing to send")

	_, cmd = m.handleKey(keyRune('3'))
	assert.NotNil(t, cmd, "transition to done goes to the server")
}

func TestCycleStatus(t *testing.T) {
	assert.Equal(t, model.StatusInProgress, cycleStatus(model.StatusPending, 1))
	assert.Equal(t, model.StatusPending, cycleStatus(model.StatusDone, 1))
	assert.Equal(t, model.StatusDone, cycleStatus(model.StatusPending, -1))
}

func TestEnterDiscardsPreviousSessionState(t *testing.T) {
	m := newDashModel(nil, 8)
	m, _ = m.handleKey(keyRune('/'))
	m, _ = m.handleKey(keyRune('m'))
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = m.handleKey(keyRune('f'))
	m = applyFetch(t, m, testPage("a", "b"))
	require.Len(t, m.ctl.Page().Items, 2)

	// a new login re-enters the dashboard; nothing from the previous
	// session may still be visible
	m, cmd := m.enter(80, 24)
	require.NotNil(t, cmd, "re-entering starts a fresh fetch")
	assert.Empty(t, m.ctl.Page().Items)
	assert.Equal(t, 1, m.ctl.Query().Page)
	assert.Empty(t, m.ctl.Query().Search)
	assert.Nil(t, m.ctl.Query().Status)
	assert.Empty(t, m.search.Value())
	assert.False(t, m.search.Focused())
	assert.Equal(t, "All", m.filterLabel())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long…", truncate("long title here", 5))
	assert.Equal(t, "unchanged", truncate("unchanged", 0))
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// 6 runes, 12 bytes: a byte-indexed cut would land mid-rune
	got := truncate("héllo wörld", 6)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "héllo…", got)

	assert.Equal(t, "日本語のタスク", truncate("日本語のタスク", 7))
	assert.Equal(t, "日本語…", truncate("日本語のタスク", 4))
}
