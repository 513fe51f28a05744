package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	sitestaffDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/sitestaff"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// CandidateRepository implements candidate.Repository and the delivery
// store used by the job request service.
type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error) {
	var row candidateDatamodel.Candidate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CandidateRepository) ListByJobRequest(ctx context.Context, jobRequestID int64) ([]*candidateDatamodel.Candidate, error) {
	var rows []*candidateDatamodel.Candidate
	err := r.db.WithContext(ctx).
		Where("job_request_id = ?", jobRequestID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// MarkViewed only touches rows still in delivered, so a concurrent or
// repeated read cannot clobber a later status.
func (r *CandidateRepository) MarkViewed(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&candidateDatamodel.Candidate{}).
		Where("id = ? AND status = ?", id, "delivered").
		Updates(map[string]interface{}{
			"status":     "viewed",
			"updated_at": time.Now(),
		}).Error
}

func (r *CandidateRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&candidateDatamodel.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *CandidateRepository) ListUserIDsForJobRequest(ctx context.Context, jobRequestID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&candidateDatamodel.Candidate{}).
		Where("job_request_id = ? AND user_id IS NOT NULL", jobRequestID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// DeliverBatch inserts the candidate rows and flips the job request to
// candidates_delivered in one transaction, so a partial delivery never
// becomes visible.
func (r *CandidateRepository) DeliverBatch(ctx context.Context, jobRequestID int64, rows []*candidateDatamodel.Candidate, deliveredAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&jobRequestDatamodel.JobRequest{}).
			Where("id = ?", jobRequestID).
			Updates(map[string]interface{}{
				"status":                  "candidates_delivered",
				"candidates_delivered_at": deliveredAt,
				"updated_at":              time.Now(),
			}).Error
	})
}

// ListCandidatePool returns candidate accounts with no active site
// staff record.
func (r *CandidateRepository) ListCandidatePool(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	sub := r.db.Model(&sitestaffDatamodel.SiteStaff{}).
		Select("user_id").
		Where("status = ?", sitestaffDatamodel.StatusActive)
	err := r.db.WithContext(ctx).
		Where("user_type = ? AND is_active = ?", userDatamodel.TypeCandidate, true).
		Where("id NOT IN (?)", sub).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}
