package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
)

// JobRequestRepository implements jobrequest.Repository using GORM.
type JobRequestRepository struct {
	db *gorm.DB
}

func NewJobRequestRepository(db *gorm.DB) jobrequest.Repository {
	return &JobRequestRepository{db: db}
}

func (r *JobRequestRepository) Create(ctx context.Context, row *jobRequestDatamodel.JobRequest) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *JobRequestRepository) GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error) {
	var row jobRequestDatamodel.JobRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *JobRequestRepository) Update(ctx context.Context, row *jobRequestDatamodel.JobRequest) error {
	row.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *JobRequestRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&jobRequestDatamodel.JobRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// SetAssignedHR overwrites any prior assignment and forces the status
// back to assigned_to_hr.
func (r *JobRequestRepository) SetAssignedHR(ctx context.Context, id, hrUserID int64, assignedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&jobRequestDatamodel.JobRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to_hr_user_id": hrUserID,
			"assigned_at":            assignedAt,
			"status":                 "assigned_to_hr",
			"updated_at":             time.Now(),
		}).Error
}

func (r *JobRequestRepository) ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var rows []*jobRequestDatamodel.JobRequest
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *JobRequestRepository) ListAssignedToHR(ctx context.Context, hrUserID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var rows []*jobRequestDatamodel.JobRequest
	err := r.db.WithContext(ctx).
		Where("assigned_to_hr_user_id = ?", hrUserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *JobRequestRepository) ListAll(ctx context.Context, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var rows []*jobRequestDatamodel.JobRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *JobRequestRepository) CountByStatus(ctx context.Context, organizationID int64) (map[string]int64, error) {
	type bucket struct {
		Status string
		Count  int64
	}

	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&jobRequestDatamodel.JobRequest{}).
		Select("status, count(*) as count").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Status] = b.Count
	}
	return counts, nil
}
