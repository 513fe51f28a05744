package organization

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	RoleCOO           = "coo"
	RoleHRCoordinator = "hr_coordinator"
	RoleHRCOO         = "hr_coo"
	RoleMember        = "member"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusApproved = "approved"
	InvitationStatusRejected = "rejected"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
)

type Organization struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Industry  string    `gorm:"column:industry"`
	Website   string    `gorm:"column:website"`
	Status    string    `gorm:"column:status;default:active"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Organization) TableName() string {
	return "organizations"
}

type Department struct {
	ID             int64     `gorm:"primaryKey"`
	OrganizationID int64     `gorm:"column:organization_id;not null;uniqueIndex:idx_departments_org_name"`
	Name           string    `gorm:"column:name;not null;uniqueIndex:idx_departments_org_name"`
	Description    string    `gorm:"column:description"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (Department) TableName() string {
	return "departments"
}

type Membership struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:idx_memberships_user_org"`
	OrganizationID int64     `gorm:"column:organization_id;not null;uniqueIndex:idx_memberships_user_org"`
	Role           string    `gorm:"column:role;not null"`
	IsPrimary      bool      `gorm:"column:is_primary;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;default:now()"`
}

func (Membership) TableName() string {
	return "user_organizations"
}

type Invitation struct {
	ID             int64      `gorm:"primaryKey"`
	OrganizationID int64      `gorm:"column:organization_id;not null"`
	InvitedByID    int64      `gorm:"column:invited_by_id;not null"`
	Email          string     `gorm:"column:email;not null"`
	Role           string     `gorm:"column:role;not null"`
	Token          string     `gorm:"column:token;uniqueIndex;not null"`
	Status         string     `gorm:"column:status;default:pending"`
	ExpiresAt      time.Time  `gorm:"column:expires_at;not null"`
	AcceptedAt     *time.Time `gorm:"column:accepted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Invitation) TableName() string {
	return "user_invitations"
}
