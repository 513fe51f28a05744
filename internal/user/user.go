package user

import (
	"time"

	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// Profile is the user's own view of their account. The password hash
// never leaves the service layer.
type Profile struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	UserType     string    `json:"user_type"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"is_active"`
	LinkedinURL  string    `json:"linkedin_url,omitempty"`
	PortfolioURL string    `json:"portfolio_url,omitempty"`
	ResumeURL    string    `json:"resume_url,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	CompanyTitle string    `json:"company_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ProfileFromDataModel(u *userDatamodel.User) *Profile {
	return &Profile{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		UserType:     u.UserType,
		Phone:        u.Phone,
		IsActive:     u.IsActive,
		LinkedinURL:  u.LinkedinURL,
		PortfolioURL: u.PortfolioURL,
		ResumeURL:    u.ResumeURL,
		CompanyName:  u.CompanyName,
		CompanyTitle: u.CompanyTitle,
		CreatedAt:    u.CreatedAt,
	}
}
