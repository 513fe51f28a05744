package candidate

import (
	"fmt"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
)

// Status is the closed set of candidate pipeline states.
type Status string

const (
	StatusDelivered          Status = "delivered"
	StatusViewed             Status = "viewed"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusSelected           Status = "selected"
	StatusRejected           Status = "rejected"
	StatusHired              Status = "hired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDelivered, StatusViewed, StatusInterviewScheduled,
		StatusSelected, StatusRejected, StatusHired:
		return true
	}
	return false
}

// transitions is the legal edge set. viewed is reachable only through
// the read path and interview_scheduled only through interview creation,
// so both also appear as sources for the client-driven decisions.
// A second interview keeps the candidate in interview_scheduled.
var transitions = map[Status][]Status{
	StatusDelivered:          {StatusViewed, StatusInterviewScheduled, StatusRejected},
	StatusViewed:             {StatusInterviewScheduled, StatusSelected, StatusRejected},
	StatusInterviewScheduled: {StatusInterviewScheduled, StatusSelected, StatusRejected},
	StatusSelected:           {StatusHired, StatusRejected},
	StatusRejected:           {},
	StatusHired:              {},
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
			fmt.Sprintf("unknown candidate status %q", to),
			internal.ErrCodeInvalidStatus)
	}
	if !CanTransition(from, to) {
		return internal.NewValidationError(
			fmt.Sprintf("cannot move candidate from %q to %q", from, to),
			internal.ErrCodeIllegalTransition)
	}
	return nil
}

type Candidate struct {
	ID           int64     `json:"id"`
	JobRequestID int64     `json:"job_request_id"`
	UserID       *int64    `json:"user_id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	LinkedinURL  string    `json:"linkedin_url,omitempty"`
	PortfolioURL string    `json:"portfolio_url,omitempty"`
	ResumeURL    string    `json:"resume_url,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromDataModel(c *candidateDatamodel.Candidate) *Candidate {
	return &Candidate{
		ID:           c.ID,
		JobRequestID: c.JobRequestID,
		UserID:       c.UserID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		LinkedinURL:  c.LinkedinURL,
		PortfolioURL: c.PortfolioURL,
		ResumeURL:    c.ResumeURL,
		Status:       Status(c.Status),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*candidateDatamodel.Candidate) []*Candidate {
	result := make([]*Candidate, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
