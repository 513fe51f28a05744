package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

var ErrUserNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Update(ctx context.Context, row *userDatamodel.User) error
}

// UpdateProfileDTO covers the self-service editable fields. Email and
// user_type are immutable.
type UpdateProfileDTO struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	LinkedinURL  *string `json:"linkedin_url"`
	PortfolioURL *string `json:"portfolio_url"`
	ResumeURL    *string `json:"resume_url"`
	CompanyName  *string `json:"company_name"`
	CompanyTitle *string `json:"company_title"`
}

func (d UpdateProfileDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetProfile(ctx context.Context, actor *auth.User) (*Profile, error) {
	row, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return ProfileFromDataModel(row), nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *auth.User, dto UpdateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Phone != nil {
		row.Phone = *dto.Phone
	}
	if dto.LinkedinURL != nil {
		row.LinkedinURL = *dto.LinkedinURL
	}
	if dto.PortfolioURL != nil {
		row.PortfolioURL = *dto.PortfolioURL
	}
	if dto.ResumeURL != nil {
		row.ResumeURL = *dto.ResumeURL
	}
	if dto.CompanyName != nil {
		row.CompanyName = *dto.CompanyName
	}
	if dto.CompanyTitle != nil {
		row.CompanyTitle = *dto.CompanyTitle
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	return ProfileFromDataModel(row), nil
}
