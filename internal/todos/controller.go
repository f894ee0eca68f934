// Package todos owns the list-query state machine: filter, search, and
// pagination kept consistent with the remote paginated todo resource.
//
// The Controller is deliberately synchronous and network-free. Every
// mutator returns an Effect telling the caller (the TUI event loop) what
// has to happen next, so the fetch-after-change dependency is explicit
// instead of hidden in the view layer. Fetches are correlated through
// sequence tokens: a result that arrives for superseded query state is
// dropped rather than allowed to clobber a newer one.
package todos

import (
	"fmt"
	"strings"
	"time"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// SearchDebounce is the quiet period after the last search keystroke
// before a fetch is issued.
const SearchDebounce = 400 * time.Millisecond

// Effect is what the caller must do after a state change.
type Effect int

const (
	// EffectNone: nothing to schedule.
	EffectNone Effect = iota
	// EffectFetch: issue a fetch for the current query state now.
	EffectFetch
	// EffectDebounce: schedule a SearchDebounce timer carrying the token
	// returned alongside; fire it through DebounceFire.
	EffectDebounce
)

// ValidationError is a locally rejected draft. It never reaches the
// network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Controller holds the query state and the last applied page.
type Controller struct {
	query model.ListQuery
	page  model.Page

	seq     uint64 // last issued fetch
	applied uint64 // last fetch whose result was applied
	settled uint64 // last fetch that finished, either way

	searchSlot uint64 // current debounce token; older timers are stale

	deleting map[string]struct{} // ids with an optimistic delete in flight
}

// NewController returns a controller at page 1 with an empty result.
func NewController(limit int) *Controller {
	return &Controller{
		query:    model.ListQuery{Page: 1, Limit: limit},
		page:     model.Page{TotalPages: 1},
		deleting: map[string]struct{}{},
	}
}

// Query returns the current query state.
func (c *Controller) Query() model.ListQuery { return c.query }

// Page returns the last applied page result.
func (c *Controller) Page() model.Page { return c.page }

// Loading reports whether any issued fetch has not finished yet.
func (c *Controller) Loading() bool { return c.settled < c.seq }

// SetFilter switches the status filter (nil means all) and rewinds to the
// first page. Setting the filter it already has is a no-op.
func (c *Controller) SetFilter(status *model.Status) Effect {
	if statusEq(c.query.Status, status) {
		return EffectNone
	}
	c.query.Status = status
	c.query.Page = 1
	return EffectFetch
}

// SetSearch records the search text and arms the single-slot debounce
// timer. The returned token must be handed back via DebounceFire when the
// timer elapses; arming a new timer implicitly cancels unexpired older
// ones because their tokens go stale.
func (c *Controller) SetSearch(text string) (uint64, Effect) {
	c.query.Search = text
	c.searchSlot++
	return c.searchSlot, EffectDebounce
}

// DebounceFire resolves an elapsed debounce timer. Only the most recently
// armed timer produces a fetch; anything older is ignored.
func (c *Controller) DebounceFire(token uint64) Effect {
	if token != c.searchSlot {
		return EffectNone
	}
	c.query.Page = 1
	return EffectFetch
}

// SetPage jumps to page n. The controller does not clamp; views disable
// navigation past the edges.
func (c *Controller) SetPage(n int) Effect {
	c.query.Page = n
	return EffectFetch
}

// Refresh requests a re-fetch of the current query state, used after a
// successful mutation.
func (c *Controller) Refresh() Effect { return EffectFetch }

// BeginFetch snapshots the query state and issues a sequence token for
// the fetch about to go out.
func (c *Controller) BeginFetch() (model.ListQuery, uint64) {
	c.seq++
	return c.query, c.seq
}

// ApplyPage installs a fetched page, replacing the previous one
// wholesale. It reports false, leaving state untouched, when a newer
// fetch has already been applied. Items with a delete still in flight are
// withheld so a slow resync cannot transiently resurrect them.
func (c *Controller) ApplyPage(seq uint64, page model.Page) bool {
	c.settle(seq)
	if seq <= c.applied {
		return false
	}
	c.applied = seq

	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	if len(c.deleting) > 0 {
		kept := page.Items[:0]
		seen := map[string]struct{}{}
		for _, t := range page.Items {
			if _, gone := c.deleting[t.ID]; gone {
				seen[t.ID] = struct{}{}
				continue
			}
			kept = append(kept, t)
		}
		page.Items = kept
		// deletes the server has caught up on are finished
		for id := range c.deleting {
			if _, still := seen[id]; !still {
				delete(c.deleting, id)
			}
		}
	}
	c.page = page
	return true
}

// FetchFailed settles a fetch that errored. The previously applied page
// stays on screen.
func (c *Controller) FetchFailed(seq uint64) {
	c.settle(seq)
}

func (c *Controller) settle(seq uint64) {
	if seq > c.settled {
		c.settled = seq
	}
}

// ValidateDraft trims the draft and checks it locally. The returned draft
// is the one to submit; the error, when non-nil, is a *ValidationError
// and the draft must not be sent.
func (c *Controller) ValidateDraft(d model.Draft) (model.Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if len(d.Title) < 3 {
		return d, &ValidationError{Field: "title", Reason: "must be at least 3 characters"}
	}
	if !d.Status.Valid() {
		d.Status = model.StatusPending
	}
	return d, nil
}

// DeleteIssued marks id as having a delete request in flight.
func (c *Controller) DeleteIssued(id string) {
	c.deleting[id] = struct{}{}
}

// DeleteSucceeded splices id out of the visible page immediately, without
// waiting for the server to confirm via resync, and asks for the resync fetch
// that brings counts and pagination back in line.
func (c *Controller) DeleteSucceeded(id string) Effect {
	items := c.page.Items
	for i, t := range items {
		if t.ID == id {
			c.page.Items = append(items[:i], items[i+1:]...)
			break
		}
	}
	return EffectFetch
}

// DeleteFailed clears the in-flight mark; the item was never removed.
func (c *Controller) DeleteFailed(id string) {
	delete(c.deleting, id)
}

func statusEq(a, b *model.Status) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
