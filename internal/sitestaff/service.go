package sitestaff

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	sitestaffDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/sitestaff"
)

var ErrSiteStaffNotFound = internal.NewNotFoundError("Site staff record not found", internal.ErrCodeSiteStaffNotFound)

type Repository interface {
	GetActiveByUserAndOrganization(ctx context.Context, userID, organizationID int64) (*sitestaffDatamodel.SiteStaff, error)
	Create(ctx context.Context, row *sitestaffDatamodel.SiteStaff) error
	GetByID(ctx context.Context, id int64) (*sitestaffDatamodel.SiteStaff, error)
	SetResigned(ctx context.Context, id int64, resignedAt time.Time) error
	ListByOrganization(ctx context.Context, organizationID int64) ([]*sitestaffDatamodel.SiteStaff, error)
	HasActiveRecord(ctx context.Context, userID int64) (bool, error)
	GetActiveByUser(ctx context.Context, userID int64) (*sitestaffDatamodel.SiteStaff, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Activate creates an active employment record. A user already active
// in the organization keeps the existing record untouched.
func (s *Service) Activate(ctx context.Context, userID, organizationID int64, jobRequestID *int64, position string) error {
	existing, err := s.repo.GetActiveByUserAndOrganization(ctx, userID, organizationID)
	if err != nil {
		return internal.NewInternalError("failed to check existing site staff", err)
	}
	if existing != nil {
		return nil
	}

	row := &sitestaffDatamodel.SiteStaff{
		UserID:         userID,
		OrganizationID: organizationID,
		JobRequestID:   jobRequestID,
		Position:       position,
		Status:         sitestaffDatamodel.StatusActive,
		StartedAt:      time.Now(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return internal.NewInternalError("failed to create site staff record", err)
	}

	s.logger.Info("site staff activated",
		"user_id", userID,
		"organization_id", organizationID,
		"position", position)
	return nil
}

// Resign closes an active record. Admins may resign anyone; a staff
// member may resign their own record.
func (s *Service) Resign(ctx context.Context, actor *auth.User, id int64) (*SiteStaff, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrSiteStaffNotFound
	}
	if row.Status != sitestaffDatamodel.StatusActive {
		return nil, internal.NewValidationError(
			"site staff record is not active",
			internal.ErrCodeIllegalTransition)
	}
	if !actor.IsAdmin() && actor.ID != row.UserID {
		return nil, internal.NewForbiddenError("Only admins can resign other staff", internal.ErrCodeAdminRequired)
	}

	resignedAt := time.Now()
	if err := s.repo.SetResigned(ctx, id, resignedAt); err != nil {
		s.logger.Error("failed to resign site staff", "error", err, "site_staff_id", id)
		return nil, internal.NewInternalError("failed to resign site staff", err)
	}

	row.Status = sitestaffDatamodel.StatusResigned
	row.ResignedAt = &resignedAt

	s.logger.Info("site staff resigned", "site_staff_id", id, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) ListByOrganization(ctx context.Context, actor *auth.User, organizationID int64) ([]*SiteStaff, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can list site staff", internal.ErrCodeAdminRequired)
	}
	rows, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list site staff", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to list site staff", err)
	}
	return FromDataModelSlice(rows), nil
}

// HasActiveRecord reports whether the user is active site staff in any
// organization.
func (s *Service) HasActiveRecord(ctx context.Context, userID int64) (bool, error) {
	return s.repo.HasActiveRecord(ctx, userID)
}
