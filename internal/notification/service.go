package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	notificationDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/notification"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []*notificationDatamodel.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error
	CreateAuditLog(ctx context.Context, row *notificationDatamodel.AuditLog) error
	ListAuditLog(ctx context.Context, entityType string, entityID int64) ([]*notificationDatamodel.AuditLog, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateForUsers writes one notification row per recipient, deduplicating
// the recipient list first.
func (s *Service) CreateForUsers(ctx context.Context, userIDs []int64, kind, title, body, entityType string, entityID int64) error {
	seen := make(map[int64]bool, len(userIDs))
	now := time.Now()
	var rows []*notificationDatamodel.Notification
	for _, userID := range userIDs {
		if userID == 0 || seen[userID] {
			continue
		}
		seen[userID] = true
		rows = append(rows, &notificationDatamodel.Notification{
			UserID:     userID,
			Kind:       kind,
			Title:      title,
			Body:       body,
			EntityType: entityType,
			EntityID:   entityID,
			CreatedAt:  now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.Error("failed to write notifications", "error", err, "kind", kind, "recipients", len(rows))
		return err
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, actor *auth.User, unreadOnly bool, limit, offset int) ([]*Notification, error) {
	rows, err := s.repo.ListByUser(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) MarkRead(ctx context.Context, actor *auth.User, notificationID int64) error {
	if err := s.repo.MarkRead(ctx, actor.ID, notificationID, time.Now()); err != nil {
		s.logger.Error("failed to mark notification read", "error", err, "notification_id", notificationID)
		return internal.NewInternalError("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor *auth.User) error {
	if err := s.repo.MarkAllRead(ctx, actor.ID, time.Now()); err != nil {
		s.logger.Error("failed to mark notifications read", "error", err, "user_id", actor.ID)
		return internal.NewInternalError("failed to mark notifications read", err)
	}
	return nil
}

// RecordAudit appends a transition row to the audit trail.
func (s *Service) RecordAudit(ctx context.Context, entityType string, entityID, actorID int64, action, fromStatus, toStatus string) error {
	row := &notificationDatamodel.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateAuditLog(ctx, row); err != nil {
		s.logger.Error("failed to write audit log",
			"error", err,
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action)
		return err
	}
	return nil
}
