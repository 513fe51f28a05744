package sitestaff

import "time"

const (
	StatusActive   = "active"
	StatusResigned = "resigned"
)

type SiteStaff struct {
	ID             int64      `gorm:"primaryKey"`
	UserID         int64      `gorm:"column:user_id;not null;index"`
	OrganizationID int64      `gorm:"column:organization_id;not null;index"`
	JobRequestID   *int64     `gorm:"column:job_request_id"`
	Position       string     `gorm:"column:position"`
	Status         string     `gorm:"column:status;default:active"`
	StartedAt      time.Time  `gorm:"column:started_at;default:now()"`
	ResignedAt     *time.Time `gorm:"column:resigned_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (SiteStaff) TableName() string {
	return "site_staff"
}
