// Package entities contains core business entities.
package entities

import "time"

// TicketStatus enumerates ticket lifecycle states.
type TicketStatus string

const (
	// StatusOpen marks a new or reopened ticket.
	StatusOpen TicketStatus = "OPEN"
	// StatusInProgress marks a ticket someone is working on.
	StatusInProgress TicketStatus = "IN_PROGRESS"
	// StatusResolved marks a ticket waiting for confirmation.
	StatusResolved TicketStatus = "RESOLVED"
	// StatusClosed marks a finished ticket.
	StatusClosed TicketStatus = "CLOSED"
)

// TicketStatuses lists statuses in workflow order.
var TicketStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

var transitions = map[TicketStatus][]TicketStatus{
	StatusOpen:       {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusOpen, StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed, StatusOpen},
	StatusClosed:     {StatusOpen},
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a ticket may move from s to next.
// Staying in the same status is always allowed.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TicketPriority enumerates ticket urgency.
type TicketPriority string

const (
	// PriorityLow is for cosmetic issues.
	PriorityLow TicketPriority = "LOW"
	// PriorityNormal is the default.
	PriorityNormal TicketPriority = "NORMAL"
	// PriorityHigh needs attention soon.
	PriorityHigh TicketPriority = "HIGH"
	// PriorityUrgent blocks somebody.
	PriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a support request filed inside a project.
type Ticket struct {
	ID          string
	ProjectID   string
	AuthorID    string
	AssigneeID  *string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	ProjectID string
	AuthorID  string
	Status    *TicketStatus
	Limit     int
	Offset    int
}

// Matches reports whether t passes the filter, ignoring pagination.
func (f TicketFilter) Matches(t Ticket) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.AuthorID != "" && t.AuthorID != f.AuthorID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

// Comment is a reply on a ticket.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// Attachment is a file stored with a ticket as base64 text.
type Attachment struct {
	ID         string
	TicketID   string
	UploaderID string
	FileName   string
	MimeType   string
	Size       int64
	Data       string
	CreatedAt  time.Time
}
