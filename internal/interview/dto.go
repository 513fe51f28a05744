package interview

import (
	"time"

	"github.com/talentgrid/hiring-management/internal"
)

const defaultDurationMinutes = 60

type CreateInterviewDTO struct {
	JobRequestID       int64   `json:"job_request_id"`
	CandidateID        int64   `json:"candidate_id"`
	ScheduledAt        string  `json:"scheduled_at"`
	DurationMinutes    int     `json:"duration_minutes"`
	MeetingLink        string  `json:"meeting_link"`
	MeetingPlatform    string  `json:"meeting_platform"`
	Notes              string  `json:"notes"`
	ParticipantUserIDs []int64 `json:"participant_user_ids"`

	scheduledAt time.Time
}

func (d *CreateInterviewDTO) Validate() error {
	if d.JobRequestID <= 0 {
		return internal.NewValidationFieldError("job_request_id", "job_request_id is required", internal.ErrCodeValidationFailed)
	}
	if d.CandidateID <= 0 {
		return internal.NewValidationFieldError("candidate_id", "candidate_id is required", internal.ErrCodeValidationFailed)
	}
	if d.ScheduledAt == "" {
		return internal.NewValidationFieldError("scheduled_at", "scheduled_at is required", internal.ErrCodeValidationFailed)
	}

	// RFC3339 carries an explicit offset, so datetimes without a zone
	// fail here.
	at, err := time.Parse(time.RFC3339, d.ScheduledAt)
	if err != nil {
		return internal.NewValidationFieldError("scheduled_at", "scheduled_at must be an RFC3339 datetime with a timezone offset", internal.ErrCodeValidationFailed)
	}
	d.scheduledAt = at

	if d.DurationMinutes < 0 {
		return internal.NewValidationFieldError("duration_minutes", "duration_minutes must be positive", internal.ErrCodeValidationFailed)
	}
	if d.DurationMinutes == 0 {
		d.DurationMinutes = defaultDurationMinutes
	}
	return nil
}

// ScheduledTime is valid only after Validate.
func (d *CreateInterviewDTO) ScheduledTime() time.Time {
	return d.scheduledAt
}

type UpdateInterviewDTO struct {
	ScheduledAt     *string `json:"scheduled_at"`
	DurationMinutes *int    `json:"duration_minutes"`
	MeetingLink     *string `json:"meeting_link"`
	MeetingPlatform *string `json:"meeting_platform"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`

	scheduledAt *time.Time
}

func (d *UpdateInterviewDTO) Validate() error {
	if d.ScheduledAt != nil {
		at, err := time.Parse(time.RFC3339, *d.ScheduledAt)
		if err != nil {
			return internal.NewValidationFieldError("scheduled_at", "scheduled_at must be an RFC3339 datetime with a timezone offset", internal.ErrCodeValidationFailed)
		}
		d.scheduledAt = &at
	}
	if d.DurationMinutes != nil && *d.DurationMinutes <= 0 {
		return internal.NewValidationFieldError("duration_minutes", "duration_minutes must be positive", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !Status(*d.Status).Valid() {
		return internal.NewValidationFieldError("status", "unknown interview status", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d *UpdateInterviewDTO) ScheduledTime() *time.Time {
	return d.scheduledAt
}

type AddParticipantDTO struct {
	UserID int64 `json:"user_id"`
}

func (d AddParticipantDTO) Validate() error {
	if d.UserID <= 0 {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
