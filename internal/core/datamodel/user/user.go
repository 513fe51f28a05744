package user

import "time"

const (
	TypeAdmin     = "admin"
	TypeHR        = "hr"
	TypeClient    = "client"
	TypeCandidate = "candidate"
)

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	UserType     string    `gorm:"column:user_type;not null"`
	Phone        string    `gorm:"column:phone"`
	IsActive     bool      `gorm:"column:is_active;default:true"`

	// candidate profile fields
	LinkedinURL  string `gorm:"column:linkedin_url"`
	PortfolioURL string `gorm:"column:portfolio_url"`
	ResumeURL    string `gorm:"column:resume_url"`

	// client company fields
	CompanyName  string `gorm:"column:company_name"`
	CompanyTitle string `gorm:"column:company_title"`

	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
