package model

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a todo as the server spells it.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label renders a status for humans: "PENDING" -> "Pending",
// "IN_PROGRESS" -> "In progress".
func (s Status) Label() string {
	w := strings.ReplaceAll(string(s), "_", " ")
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// Owner is the user a todo belongs to, as far as the client cares.
type Owner struct {
	Name string `json:"name"`
}

// Todo is the server-owned entity. The client only ever holds the copies
// belonging to the currently displayed page.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Owner       *Owner    `json:"user,omitempty"`
}

// ListQuery is the state that drives which page of todos is fetched.
type ListQuery struct {
	Page   int
	Limit  int
	Status *Status // nil means all statuses
	Search string
}

// Page is one fetched page of todos plus pagination metadata. It is
// replaced wholesale on every successful fetch, never merged.
type Page struct {
	Items      []Todo
	TotalItems int
	TotalPages int
}

// Draft is the ephemeral buffer behind the create/edit form. A non-empty
// EditingID means the submit updates that todo instead of creating one.
type Draft struct {
	Title       string
	Description string
	Status      Status
	EditingID   string
}
