package jobrequest

import (
	"time"

	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
)

type JobRequest struct {
	ID                    int64      `json:"id"`
	OrganizationID        int64      `json:"organization_id"`
	DepartmentID          *int64     `json:"department_id,omitempty"`
	RequesterID           int64      `json:"requester_id"`
	HiringManagerUserID   *int64     `json:"hiring_manager_user_id,omitempty"`
	AssignedToHRUserID    *int64     `json:"assigned_to_hr_user_id,omitempty"`
	Title                 string     `json:"title"`
	JobDescription        string     `json:"job_description,omitempty"`
	Requirements          string     `json:"requirements,omitempty"`
	TimelineToHire        string     `json:"timeline_to_hire,omitempty"`
	Priority              string     `json:"priority"`
	Status                Status     `json:"status"`
	AssignedAt            *time.Time `json:"assigned_at,omitempty"`
	CandidatesDeliveredAt *time.Time `json:"candidates_delivered_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func ToDataModel(j *JobRequest) *jobRequestDatamodel.JobRequest {
	return &jobRequestDatamodel.JobRequest{
		ID:                    j.ID,
		OrganizationID:        j.OrganizationID,
		DepartmentID:          j.DepartmentID,
		RequesterID:           j.RequesterID,
		HiringManagerUserID:   j.HiringManagerUserID,
		AssignedToHRUserID:    j.AssignedToHRUserID,
		Title:                 j.Title,
		JobDescription:        j.JobDescription,
		Requirements:          j.Requirements,
		TimelineToHire:        j.TimelineToHire,
		Priority:              j.Priority,
		Status:                string(j.Status),
		AssignedAt:            j.AssignedAt,
		CandidatesDeliveredAt: j.CandidatesDeliveredAt,
		CreatedAt:             j.CreatedAt,
		UpdatedAt:             j.UpdatedAt,
	}
}

func FromDataModel(j *jobRequestDatamodel.JobRequest) *JobRequest {
	return &JobRequest{
		ID:                    j.ID,
		OrganizationID:        j.OrganizationID,
		DepartmentID:          j.DepartmentID,
		RequesterID:           j.RequesterID,
		HiringManagerUserID:   j.HiringManagerUserID,
		AssignedToHRUserID:    j.AssignedToHRUserID,
		Title:                 j.Title,
		JobDescription:        j.JobDescription,
		Requirements:          j.Requirements,
		TimelineToHire:        j.TimelineToHire,
		Priority:              j.Priority,
		Status:                Status(j.Status),
		AssignedAt:            j.AssignedAt,
		CandidatesDeliveredAt: j.CandidatesDeliveredAt,
		CreatedAt:             j.CreatedAt,
		UpdatedAt:             j.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*jobRequestDatamodel.JobRequest) []*JobRequest {
	result := make([]*JobRequest, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
