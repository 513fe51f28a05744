package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	sitestaffDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/sitestaff"
	"github.com/talentgrid/hiring-management/internal/sitestaff"
)

type SiteStaffRepository struct {
	db *gorm.DB
}

func NewSiteStaffRepository(db *gorm.DB) sitestaff.Repository {
	return &SiteStaffRepository{db: db}
}

func (r *SiteStaffRepository) GetActiveByUserAndOrganization(ctx context.Context, userID, organizationID int64) (*sitestaffDatamodel.SiteStaff, error) {
	var row sitestaffDatamodel.SiteStaff
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND status = ?", userID, organizationID, sitestaffDatamodel.StatusActive).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SiteStaffRepository) Create(ctx context.Context, row *sitestaffDatamodel.SiteStaff) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *SiteStaffRepository) GetByID(ctx context.Context, id int64) (*sitestaffDatamodel.SiteStaff, error) {
	var row sitestaffDatamodel.SiteStaff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SiteStaffRepository) SetResigned(ctx context.Context, id int64, resignedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&sitestaffDatamodel.SiteStaff{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      sitestaffDatamodel.StatusResigned,
			"resigned_at": resignedAt,
			"updated_at":  time.Now(),
		}).Error
}

func (r *SiteStaffRepository) ListByOrganization(ctx context.Context, organizationID int64) ([]*sitestaffDatamodel.SiteStaff, error) {
	var rows []*sitestaffDatamodel.SiteStaff
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("started_at DESC").
		Find(&rows).Error
	return rows, err
}

// GetActiveByUser returns the user's active record in any organization,
// or nil when there is none.
func (r *SiteStaffRepository) GetActiveByUser(ctx context.Context, userID int64) (*sitestaffDatamodel.SiteStaff, error) {
	var row sitestaffDatamodel.SiteStaff
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, sitestaffDatamodel.StatusActive).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SiteStaffRepository) HasActiveRecord(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sitestaffDatamodel.SiteStaff{}).
		Where("user_id = ? AND status = ?", userID, sitestaffDatamodel.StatusActive).
		Count(&count).Error
	return count > 0, err
}
