package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	notificationDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/notification"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// NotificationRepository backs both the notification store and the
// recipient resolution used by fan-out.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, rows []*notificationDatamodel.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*notificationDatamodel.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var rows []*notificationDatamodel.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64, readAt time.Time) error {
	return r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", readAt).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error {
	return r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", readAt).Error
}

func (r *NotificationRepository) CreateAuditLog(ctx context.Context, row *notificationDatamodel.AuditLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *NotificationRepository) ListAuditLog(ctx context.Context, entityType string, entityID int64) ([]*notificationDatamodel.AuditLog, error) {
	var rows []*notificationDatamodel.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) ListAdminIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("user_type = ? AND is_active = ?", userDatamodel.TypeAdmin, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) ListOrganizationMemberIDs(ctx context.Context, organizationID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Membership{}).
		Where("organization_id = ?", organizationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) ListOrganizationRoleIDs(ctx context.Context, organizationID int64, roles ...string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&orgDatamodel.Membership{}).
		Where("organization_id = ? AND role IN ?", organizationID, roles).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *NotificationRepository) AssignedHRForJobRequest(ctx context.Context, jobRequestID int64) (*int64, error) {
	var row jobRequestDatamodel.JobRequest
	err := r.db.WithContext(ctx).
		Select("assigned_to_hr_user_id").
		Where("id = ?", jobRequestID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.AssignedToHRUserID, nil
}

func (r *NotificationRepository) EmailsForUserIDs(ctx context.Context, userIDs []int64) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var emails []string
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id IN ? AND is_active = ?", userIDs, true).
		Pluck("email", &emails).Error
	return emails, err
}
