package jobrequest

import "time"

type JobRequest struct {
	ID                    int64      `gorm:"primaryKey"`
	OrganizationID        int64      `gorm:"column:organization_id;not null;index"`
	DepartmentID          *int64     `gorm:"column:department_id"`
	RequesterID           int64      `gorm:"column:requester_id;not null"`
	HiringManagerUserID   *int64     `gorm:"column:hiring_manager_user_id"`
	AssignedToHRUserID    *int64     `gorm:"column:assigned_to_hr_user_id;index"`
	Title                 string     `gorm:"column:title;not null"`
	JobDescription        string     `gorm:"column:job_description"`
	Requirements          string     `gorm:"column:requirements"`
	TimelineToHire        string     `gorm:"column:timeline_to_hire"`
	Priority              string     `gorm:"column:priority;default:medium"`
	Status                string     `gorm:"column:status;default:received;index"`
	AssignedAt            *time.Time `gorm:"column:assigned_at"`
	CandidatesDeliveredAt *time.Time `gorm:"column:candidates_delivered_at"`
	CreatedAt             time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;default:now()"`
}

func (JobRequest) TableName() string {
	return "job_requests"
}
