package interview

import (
	"fmt"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	interviewDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/interview"
)

// Status is the closed set of interview states.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
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
			fmt.Sprintf("unknown interview status %q", to),
			internal.ErrCodeInvalidStatus)
	}
	if !CanTransition(from, to) {
		return internal.NewValidationError(
			fmt.Sprintf("cannot move interview from %q to %q", from, to),
			internal.ErrCodeIllegalTransition)
	}
	return nil
}

type Participant struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type Interview struct {
	ID              int64         `json:"id"`
	JobRequestID    int64         `json:"job_request_id"`
	CandidateID     int64         `json:"candidate_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	MeetingLink     string        `json:"meeting_link,omitempty"`
	MeetingPlatform string        `json:"meeting_platform,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          Status        `json:"status"`
	CreatedByID     int64         `json:"created_by_id"`
	Participants    []Participant `json:"participants,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func FromDataModel(row *interviewDatamodel.Interview, participants []*interviewDatamodel.Participant) *Interview {
	result := &Interview{
		ID:              row.ID,
		JobRequestID:    row.JobRequestID,
		CandidateID:     row.CandidateID,
		ScheduledAt:     row.ScheduledAt,
		DurationMinutes: row.DurationMinutes,
		MeetingLink:     row.MeetingLink,
		MeetingPlatform: row.MeetingPlatform,
		Notes:           row.Notes,
		Status:          Status(row.Status),
		CreatedByID:     row.CreatedByID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	for _, p := range participants {
		result.Participants = append(result.Participants, Participant{UserID: p.UserID, Role: p.Role})
	}
	return result
}
