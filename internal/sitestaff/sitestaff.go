package sitestaff

import (
	"time"

	sitestaffDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/sitestaff"
)

type SiteStaff struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	OrganizationID int64      `json:"organization_id"`
	JobRequestID   *int64     `json:"job_request_id,omitempty"`
	Position       string     `json:"position,omitempty"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	ResignedAt     *time.Time `json:"resigned_at,omitempty"`
}

func FromDataModel(s *sitestaffDatamodel.SiteStaff) *SiteStaff {
	return &SiteStaff{
		ID:             s.ID,
		UserID:         s.UserID,
		OrganizationID: s.OrganizationID,
		JobRequestID:   s.JobRequestID,
		Position:       s.Position,
		Status:         s.Status,
		StartedAt:      s.StartedAt,
		ResignedAt:     s.ResignedAt,
	}
}

func FromDataModelSlice(rows []*sitestaffDatamodel.SiteStaff) []*SiteStaff {
	result := make([]*SiteStaff, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
