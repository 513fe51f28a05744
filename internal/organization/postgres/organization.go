package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/organization"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.Repository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*orgDatamodel.Organization, error) {
	var row orgDatamodel.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, row *orgDatamodel.Organization) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *OrganizationRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&orgDatamodel.Organization{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *OrganizationRepository) ListAll(ctx context.Context, limit, offset int) ([]*orgDatamodel.Organization, error) {
	var rows []*orgDatamodel.Organization
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *OrganizationRepository) GetDepartmentByName(ctx context.Context, organizationID int64, name string) (*orgDatamodel.Department, error) {
	var row orgDatamodel.Department
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND name = ?", organizationID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrganizationRepository) CreateDepartment(ctx context.Context, row *orgDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *OrganizationRepository) ListDepartments(ctx context.Context, organizationID int64) ([]*orgDatamodel.Department, error) {
	var rows []*orgDatamodel.Department
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *OrganizationRepository) DeleteDepartment(ctx context.Context, organizationID, departmentID int64) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, departmentID).
		Delete(&orgDatamodel.Department{}).Error
}

func (r *OrganizationRepository) ListMembers(ctx context.Context, organizationID int64) ([]*organization.Member, error) {
	var rows []*organization.Member
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Membership{}).
		Select("user_organizations.user_id, users.name, users.email, user_organizations.role, user_organizations.is_primary").
		Joins("JOIN users ON users.id = user_organizations.user_id").
		Where("user_organizations.organization_id = ?", organizationID).
		Order("user_organizations.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *OrganizationRepository) CreateInvitation(ctx context.Context, row *orgDatamodel.Invitation) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *OrganizationRepository) GetInvitationByID(ctx context.Context, id int64) (*orgDatamodel.Invitation, error) {
	var row orgDatamodel.Invitation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrganizationRepository) GetInvitationByToken(ctx context.Context, token string) (*orgDatamodel.Invitation, error) {
	var row orgDatamodel.Invitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *OrganizationRepository) UpdateInvitationStatus(ctx context.Context, id int64, status string, acceptedAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if acceptedAt != nil {
		updates["accepted_at"] = *acceptedAt
	}
	return r.db.WithContext(ctx).Model(&orgDatamodel.Invitation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *OrganizationRepository) ListInvitations(ctx context.Context, organizationID int64) ([]*orgDatamodel.Invitation, error) {
	var rows []*orgDatamodel.Invitation
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// AcceptInvitation commits the new user, their membership and the
// invitation status flip as one unit.
func (r *OrganizationRepository) AcceptInvitation(ctx context.Context, invitation *orgDatamodel.Invitation, user *userDatamodel.User) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		membership := &orgDatamodel.Membership{
			UserID:         user.ID,
			OrganizationID: invitation.OrganizationID,
			Role:           invitation.Role,
			IsPrimary:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		return tx.Model(&orgDatamodel.Invitation{}).
			Where("id = ?", invitation.ID).
			Updates(map[string]interface{}{
				"status":      orgDatamodel.InvitationStatusAccepted,
				"accepted_at": now,
				"updated_at":  now,
			}).Error
	})
}

func (r *OrganizationRepository) GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
