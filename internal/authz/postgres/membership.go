package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/talentgrid/hiring-management/internal/authz"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
)

// MembershipRepository implements authz.MembershipReader using GORM.
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) authz.MembershipReader {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetMembership(ctx context.Context, userID, organizationID int64) (*orgDatamodel.Membership, error) {
	var membership orgDatamodel.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *MembershipRepository) GetOrganizationStatus(ctx context.Context, organizationID int64) (string, error) {
	var org orgDatamodel.Organization
	err := r.db.WithContext(ctx).
		Select("status").
		Where("id = ?", organizationID).
		First(&org).Error
	if err != nil {
		return "", err
	}
	return org.Status, nil
}
