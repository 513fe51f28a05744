package ticket

import (
	"fmt"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	ticketDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/ticket"
)

// Status is the closed set of support ticket states.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Clearing the assignee reverts to open and rerouting re-enters
// assigned, both also from in_progress since a reply may have advanced
// the ticket before the admin touches it; resolved can reopen to
// in_progress when the reporter pushes back. open and assigned are
// never set through the generic status update, only via Assign.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusAssigned, StatusInProgress, StatusClosed},
	StatusAssigned:   {StatusOpen, StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusAssigned, StatusResolved, StatusClosed},
	StatusResolved:   {StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Transition(from, to Status) error {
	if !to.Valid() {
		return internal.NewValidationError(
			fmt.Sprintf("unknown ticket status %q", to),
			internal.ErrCodeInvalidStatus)
	}
	if !CanTransition(from, to) {
		return internal.NewValidationError(
			fmt.Sprintf("cannot move ticket from %q to %q", from, to),
			internal.ErrCodeIllegalTransition)
	}
	return nil
}

type Ticket struct {
	ID               int64      `json:"id"`
	CreatedByID      int64      `json:"created_by_id"`
	AssignedToUserID *int64     `json:"assigned_to_user_id,omitempty"`
	OrganizationID   int64      `json:"organization_id"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description,omitempty"`
	Category         string     `json:"category,omitempty"`
	Priority         string     `json:"priority"`
	Status           Status     `json:"status"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	SenderID  int64     `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(t *ticketDatamodel.Ticket) *Ticket {
	return &Ticket{
		ID:               t.ID,
		CreatedByID:      t.CreatedByID,
		AssignedToUserID: t.AssignedToUserID,
		OrganizationID:   t.OrganizationID,
		Subject:          t.Subject,
		Description:      t.Description,
		Category:         t.Category,
		Priority:         t.Priority,
		Status:           Status(t.Status),
		ResolvedAt:       t.ResolvedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*ticketDatamodel.Ticket) []*Ticket {
	result := make([]*Ticket, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

func MessageFromDataModel(m *ticketDatamodel.Message) *Message {
	return &Message{
		ID:        m.ID,
		TicketID:  m.TicketID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func MessagesFromDataModel(rows []*ticketDatamodel.Message) []*Message {
	result := make([]*Message, len(rows))
	for i, row := range rows {
		result[i] = MessageFromDataModel(row)
	}
	return result
}
