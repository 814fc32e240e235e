package models

import "time"

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

// Ticket lifecycle states. The allowed transitions are
// open → in_progress → resolved → closed, with reopening permitted
// from resolved back to in_progress.
const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// Valid reports whether s is one of the known ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a ticket in status s may move to next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	switch s {
	case StatusOpen:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusResolved || next == StatusOpen
	case StatusResolved:
		return next == StatusClosed || next == StatusInProgress
	case StatusClosed:
		return false
	}
	return false
}

// TicketPriority orders tickets for triage.
type TicketPriority string

// Ticket priorities from least to most urgent.
const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket is a single support request moving through the helpdesk
// lifecycle. The server copy is authoritative; agent replicas are refreshed
// wholesale by reconciliation and carry no independent lifecycle.
type Ticket struct {
	// ID is the unique identifier of the ticket (UUID).
	ID string `json:"id"`

	// Number is the human-facing sequential identifier, e.g. "FIX-000042".
	Number string `json:"number"`

	// Title is a short summary shown in ticket lists.
	Title string `json:"title"`

	// Description is the full problem statement from the requester.
	Description string `json:"description"`

	// Category groups tickets for routing and reporting
	// (e.g. "hardware", "network", "accounts").
	Category string `json:"category"`

	Status   TicketStatus   `json:"status"`
	Priority TicketPriority `json:"priority"`

	// CreatorID is the account that opened the ticket.
	CreatorID string `json:"creator_id"`

	// AssigneeID is the technician currently responsible, empty while the
	// ticket is unassigned.
	AssigneeID string `json:"assignee_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ResolvedAt is set when the ticket first enters the resolved state
	// and cleared again if the ticket is reopened.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// ClosedAt is set when the ticket is closed.
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the Ticket model.
func (t Ticket) TableName() string {
	return "tickets"
}

// Comment is a note attached to a ticket by its requester or a technician.
// Internal comments are visible to technicians and administrators only.
type Comment struct {
	ID       string `json:"id"`
	TicketID string `json:"ticket_id"`
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`

	// Internal hides the comment from the ticket's requester.
	Internal bool `json:"internal"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Comment model.
func (c Comment) TableName() string {
	return "ticket_comments"
}
