package jobrequest

import (
	"github.com/talentgrid/hiring-management/internal"
)

// MaxCandidatesPerPush caps a single candidate delivery. The cap is per
// call; a cumulative cap per job request is a product decision that has
// not been made.
const MaxCandidatesPerPush = 5

var validPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

type CreateJobRequestDTO struct {
	DepartmentID        *int64 `json:"department_id,omitempty"`
	HiringManagerUserID *int64 `json:"hiring_manager_user_id,omitempty"`
	Title               string `json:"title"`
	JobDescription      string `json:"job_description,omitempty"`
	Requirements        string `json:"requirements,omitempty"`
	TimelineToHire      string `json:"timeline_to_hire,omitempty"`
	Priority            string `json:"priority,omitempty"`
}

func (dto CreateJobRequestDTO) Validate() error {
	if dto.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Priority != "" && !validPriorities[dto.Priority] {
		return internal.NewValidationFieldError("priority", "priority must be one of low, medium, high, urgent", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateJobRequestDTO covers the generic partial update. Status is
// deliberately absent: lifecycle moves go through UpdateStatus, AssignHR
// and PushCandidates.
type UpdateJobRequestDTO struct {
	DepartmentID        *int64  `json:"department_id,omitempty"`
	HiringManagerUserID *int64  `json:"hiring_manager_user_id,omitempty"`
	Title               *string `json:"title,omitempty"`
	JobDescription      *string `json:"job_description,omitempty"`
	Requirements        *string `json:"requirements,omitempty"`
	TimelineToHire      *string `json:"timeline_to_hire,omitempty"`
	Priority            *string `json:"priority,omitempty"`
}

func (dto UpdateJobRequestDTO) Validate() error {
	if dto.Title != nil && *dto.Title == "" {
		return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Priority != nil && !validPriorities[*dto.Priority] {
		return internal.NewValidationFieldError("priority", "priority must be one of low, medium, high, urgent", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignHRDTO struct {
	HRUserID int64 `json:"hr_user_id"`
}

func (dto AssignHRDTO) Validate() error {
	if dto.HRUserID <= 0 {
		return internal.NewValidationFieldError("hr_user_id", "hr_user_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type PushCandidatesDTO struct {
	CandidateUserIDs []int64 `json:"candidate_user_ids"`
}

func (dto PushCandidatesDTO) Validate() error {
	if len(dto.CandidateUserIDs) == 0 {
		return internal.NewValidationFieldError("candidate_user_ids", "at least one candidate user id is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.CandidateUserIDs) > MaxCandidatesPerPush {
		return internal.NewValidationFieldError("candidate_user_ids", "at most 5 candidates may be pushed per call", internal.ErrCodeValidationFailed)
	}
	return nil
}

// StatisticsView reports job request counts per lifecycle status.
type StatisticsView struct {
	OrganizationID int64            `json:"organization_id"`
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
}
