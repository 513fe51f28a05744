package organization

import (
	"strings"

	"github.com/talentgrid/hiring-management/internal"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
)

type UpdateOrganizationDTO struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	Website  *string `json:"website"`
}

func (d UpdateOrganizationDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateDepartmentDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

var invitableRoles = map[string]bool{
	orgDatamodel.RoleCOO:           true,
	orgDatamodel.RoleHRCoordinator: true,
	orgDatamodel.RoleHRCOO:         true,
	orgDatamodel.RoleMember:        true,
}

type CreateInvitationDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (d *CreateInvitationDTO) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if d.Role == "" {
		d.Role = orgDatamodel.RoleMember
	}
	if !invitableRoles[d.Role] {
		return internal.NewValidationFieldError("role", "unknown organization role", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ReviewInvitationDTO struct {
	Approve bool `json:"approve"`
}

type AcceptInvitationDTO struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d AcceptInvitationDTO) Validate() error {
	if d.Token == "" {
		return internal.NewValidationFieldError("token", "token is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationFieldError("password", "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
