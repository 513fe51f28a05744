package auth

import (
	"strings"

	"github.com/talentgrid/hiring-management/internal"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "email is invalid", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshDTO) Validate() error {
	if dto.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterDTO covers self-registration. Clients must name their company;
// the first client to register gets a fresh organization with a coo
// membership. Admin and hr accounts are never self-registered.
type RegisterDTO struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	UserType     string `json:"user_type"`
	Phone        string `json:"phone,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	CompanyTitle string `json:"company_title,omitempty"`
	LinkedinURL  string `json:"linkedin_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	ResumeURL    string `json:"resume_url,omitempty"`
}

func (dto RegisterDTO) Validate() error {
	if dto.Email == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	switch dto.UserType {
	case userDatamodel.TypeClient:
		if dto.CompanyName == "" {
			return internal.NewValidationFieldError("company_name", "company name is required for client accounts", internal.ErrCodeValidationFailed)
		}
	case userDatamodel.TypeCandidate:
	default:
		return internal.NewValidationFieldError("user_type", "user type must be client or candidate", internal.ErrCodeValidationFailed)
	}
	return nil
}
