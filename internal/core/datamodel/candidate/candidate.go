package candidate

import "time"

type Candidate struct {
	ID           int64  `gorm:"primaryKey"`
	JobRequestID int64  `gorm:"column:job_request_id;not null;uniqueIndex:idx_candidates_job_user"`
	UserID       *int64 `gorm:"column:user_id;uniqueIndex:idx_candidates_job_user"`

	// snapshot of the candidate user at push time; later user edits
	// do not propagate
	Name         string `gorm:"column:name;not null"`
	Email        string `gorm:"column:email;not null"`
	Phone        string `gorm:"column:phone"`
	LinkedinURL  string `gorm:"column:linkedin_url"`
	PortfolioURL string `gorm:"column:portfolio_url"`
	ResumeURL    string `gorm:"column:resume_url"`

	Status    string    `gorm:"column:status;default:delivered;index"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Candidate) TableName() string {
	return "candidates"
}
