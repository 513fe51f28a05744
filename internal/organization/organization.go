package organization

import (
	"time"

	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
)

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Website   string    `json:"website,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Department struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Member is a membership row joined with the user it belongs to.
type Member struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsPrimary bool   `json:"is_primary"`
}

type Invitation struct {
	ID             int64      `json:"id"`
	OrganizationID int64      `json:"organization_id"`
	InvitedByID    int64      `json:"invited_by_id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	return &Organization{
		ID:        o.ID,
		Name:      o.Name,
		Industry:  o.Industry,
		Website:   o.Website,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func DepartmentFromDataModel(d *orgDatamodel.Department) *Department {
	return &Department{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
	}
}

func DepartmentsFromDataModel(rows []*orgDatamodel.Department) []*Department {
	result := make([]*Department, len(rows))
	for i, row := range rows {
		result[i] = DepartmentFromDataModel(row)
	}
	return result
}

func InvitationFromDataModel(inv *orgDatamodel.Invitation) *Invitation {
	return &Invitation{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		InvitedByID:    inv.InvitedByID,
		Email:          inv.Email,
		Role:           inv.Role,
		Status:         inv.Status,
		ExpiresAt:      inv.ExpiresAt,
		AcceptedAt:     inv.AcceptedAt,
		CreatedAt:      inv.CreatedAt,
	}
}

func InvitationsFromDataModel(rows []*orgDatamodel.Invitation) []*Invitation {
	result := make([]*Invitation, len(rows))
	for i, row := range rows {
		result[i] = InvitationFromDataModel(row)
	}
	return result
}
