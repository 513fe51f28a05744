package ticket

import "github.com/talentgrid/hiring-management/internal"

var validPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

type CreateTicketDTO struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (d *CreateTicketDTO) Validate() error {
	if d.Subject == "" {
		return internal.NewValidationFieldError("subject", "subject is required", internal.ErrCodeValidationFailed)
	}
	if d.Priority == "" {
		d.Priority = "medium"
	}
	if !validPriorities[d.Priority] {
		return internal.NewValidationFieldError("priority", "priority must be one of low, medium, high, urgent", internal.ErrCodeValidationFailed)
	}
	return nil
}

// AssignTicketDTO with a nil assignee clears the assignment.
type AssignTicketDTO struct {
	AssigneeID *int64 `json:"assignee_id"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	if d.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeValidationFailed)
	}
	if !Status(d.Status).Valid() {
		return internal.NewValidationFieldError("status", "unknown ticket status", internal.ErrCodeValidationFailed)
	}
	return nil
}

type PostMessageDTO struct {
	Body string `json:"body"`
}

func (d PostMessageDTO) Validate() error {
	if d.Body == "" {
		return internal.NewValidationFieldError("body", "body is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
