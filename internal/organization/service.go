package organization

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
)

var (
	ErrOrganizationNotFound = internal.NewNotFoundError("Organization not found", internal.ErrCodeOrganizationNotFound)
	ErrInvitationNotFound   = internal.NewNotFoundError("Invitation not found", internal.ErrCodeInvitationNotFound)
	ErrDuplicateDepartment  = internal.NewConflictError("A department with this name already exists", internal.ErrCodeDuplicateDepartment)
	ErrDuplicateEmail       = internal.NewConflictError("A user with this email already exists", internal.ErrCodeDuplicateEmail)
	ErrInvitationExpired    = internal.NewGoneError("This invitation has expired", internal.ErrCodeInvitationExpired)
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*orgDatamodel.Organization, error)
	Update(ctx context.Context, row *orgDatamodel.Organization) error
	SetStatus(ctx context.Context, id int64, status string) error
	ListAll(ctx context.Context, limit, offset int) ([]*orgDatamodel.Organization, error)

	GetDepartmentByName(ctx context.Context, organizationID int64, name string) (*orgDatamodel.Department, error)
	CreateDepartment(ctx context.Context, row *orgDatamodel.Department) error
	ListDepartments(ctx context.Context, organizationID int64) ([]*orgDatamodel.Department, error)
	DeleteDepartment(ctx context.Context, organizationID, departmentID int64) error

	ListMembers(ctx context.Context, organizationID int64) ([]*Member, error)

	CreateInvitation(ctx context.Context, row *orgDatamodel.Invitation) error
	GetInvitationByID(ctx context.Context, id int64) (*orgDatamodel.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*orgDatamodel.Invitation, error)
	UpdateInvitationStatus(ctx context.Context, id int64, status string, acceptedAt *time.Time) error
	ListInvitations(ctx context.Context, organizationID int64) ([]*orgDatamodel.Invitation, error)
	// AcceptInvitation creates the user, their membership and marks the
	// invitation accepted in one transaction.
	AcceptInvitation(ctx context.Context, invitation *orgDatamodel.Invitation, user *userDatamodel.User) error

	GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo          Repository
	authorizer    Authorizer
	bus           EventPublisher
	invitationTTL time.Duration
	bcryptCost    int
	logger        *slog.Logger
}

func NewService(repo Repository, authorizer Authorizer, bus EventPublisher, invitationTTL time.Duration, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:          repo,
		authorizer:    authorizer,
		bus:           bus,
		invitationTTL: invitationTTL,
		bcryptCost:    bcryptCost,
		logger:        logger,
	}
}

func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*Organization, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrganizationNotFound
	}

	if err := s.authorizer.Authorize(ctx, actor, authz.ActionOrganizationView, authz.Scope{OrganizationID: id}); err != nil {
		return nil, err
	}

	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor *auth.User, id int64, dto UpdateOrganizationDTO) (*Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrganizationNotFound
	}

	if err := s.authorizer.Authorize(ctx, actor, authz.ActionOrganizationUpdate, authz.Scope{OrganizationID: id}); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Industry != nil {
		row.Industry = *dto.Industry
	}
	if dto.Website != nil {
		row.Website = *dto.Website
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update organization", "error", err, "organization_id", id)
		return nil, internal.NewInternalError("failed to update organization", err)
	}

	return FromDataModel(row), nil
}

// SetStatus activates or deactivates an organization. Admin only; an
// inactive organization blocks all client-portal mutations.
func (s *Service) SetStatus(ctx context.Context, actor *auth.User, id int64, status string) (*Organization, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can change organization status", internal.ErrCodeAdminRequired)
	}
	if status != orgDatamodel.StatusActive && status != orgDatamodel.StatusInactive {
		return nil, internal.NewValidationFieldError("status", "status must be active or inactive", internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrOrganizationNotFound
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("failed to set organization status", "error", err, "organization_id", id)
		return nil, internal.NewInternalError("failed to set organization status", err)
	}
	row.Status = status

	s.logger.Info("organization status changed", "organization_id", id, "status", status, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) ListAll(ctx context.Context, actor *auth.User, limit, offset int) ([]*Organization, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can list all organizations", internal.ErrCodeAdminRequired)
	}

	rows, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		return nil, internal.NewInternalError("failed to list organizations", err)
	}

	result := make([]*Organization, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result, nil
}

// CreateDepartment enforces name uniqueness inside the organization with
// a 409 on duplicates.
func (s *Service) CreateDepartment(ctx context.Context, actor *auth.User, organizationID int64, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, actor, authz.ActionDepartmentManage, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetDepartmentByName(ctx, organizationID, dto.Name)
	if err != nil {
		s.logger.Error("failed to check department name", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to check department name", err)
	}
	if existing != nil {
		return nil, ErrDuplicateDepartment
	}

	now := time.Now()
	row := &orgDatamodel.Department{
		OrganizationID: organizationID,
		Name:           dto.Name,
		Description:    dto.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateDepartment(ctx, row); err != nil {
		s.logger.Error("failed to create department", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	return DepartmentFromDataModel(row), nil
}

func (s *Service) ListDepartments(ctx context.Context, actor *auth.User, organizationID int64) ([]*Department, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionOrganizationView, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListDepartments(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return DepartmentsFromDataModel(rows), nil
}

func (s *Service) DeleteDepartment(ctx context.Context, actor *auth.User, organizationID, departmentID int64) error {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionDepartmentManage, authz.Scope{OrganizationID: organizationID}); err != nil {
		return err
	}

	if err := s.repo.DeleteDepartment(ctx, organizationID, departmentID); err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", departmentID)
		return internal.NewInternalError("failed to delete department", err)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, actor *auth.User, organizationID int64) ([]*Member, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionMemberList, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list members", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to list members", err)
	}
	return members, nil
}

// CreateInvitation issues a tokenized invite that expires after the
// configured TTL.
func (s *Service) CreateInvitation(ctx context.Context, actor *auth.User, organizationID int64, dto *CreateInvitationDTO) (*Invitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInvitationCreate, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByEmail(ctx, dto.Email)
	if err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate invitation token", err)
	}

	now := time.Now()
	row := &orgDatamodel.Invitation{
		OrganizationID: organizationID,
		InvitedByID:    actor.ID,
		Email:          dto.Email,
		Role:           dto.Role,
		Token:          token,
		Status:         orgDatamodel.InvitationStatusPending,
		ExpiresAt:      now.Add(s.invitationTTL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateInvitation(ctx, row); err != nil {
		s.logger.Error("failed to create invitation", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to create invitation", err)
	}

	s.bus.Publish(ctx, events.NewInvitationCreatedEvent(row.ID, organizationID, dto.Email, token))

	s.logger.Info("invitation created",
		"invitation_id", row.ID,
		"organization_id", organizationID,
		"actor_id", actor.ID)
	return InvitationFromDataModel(row), nil
}

func (s *Service) ListInvitations(ctx context.Context, actor *auth.User, organizationID int64) ([]*Invitation, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInvitationReview, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListInvitations(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to list invitations", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to list invitations", err)
	}

	for _, row := range rows {
		s.lazilyExpire(ctx, row)
	}
	return InvitationsFromDataModel(rows), nil
}

// ReviewInvitation approves or rejects a pending invitation.
func (s *Service) ReviewInvitation(ctx context.Context, actor *auth.User, organizationID, invitationID int64, dto ReviewInvitationDTO) (*Invitation, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInvitationReview, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	row, err := s.repo.GetInvitationByID(ctx, invitationID)
	if err != nil || row.OrganizationID != organizationID {
		return nil, ErrInvitationNotFound
	}

	s.lazilyExpire(ctx, row)
	if row.Status != orgDatamodel.InvitationStatusPending {
		return nil, internal.NewValidationError(
			"only pending invitations can be reviewed",
			internal.ErrCodeInvalidStatus)
	}

	status := orgDatamodel.InvitationStatusRejected
	if dto.Approve {
		status = orgDatamodel.InvitationStatusApproved
	}
	if err := s.repo.UpdateInvitationStatus(ctx, invitationID, status, nil); err != nil {
		s.logger.Error("failed to review invitation", "error", err, "invitation_id", invitationID)
		return nil, internal.NewInternalError("failed to review invitation", err)
	}
	row.Status = status

	return InvitationFromDataModel(row), nil
}

// AcceptInvitation is the unauthenticated token redemption. It creates
// the invited user with the membership role in one transaction.
func (s *Service) AcceptInvitation(ctx context.Context, dto AcceptInvitationDTO) (*Invitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetInvitationByToken(ctx, dto.Token)
	if err != nil {
		return nil, ErrInvitationNotFound
	}

	s.lazilyExpire(ctx, row)
	switch row.Status {
	case orgDatamodel.InvitationStatusApproved:
		// ready for redemption
	case orgDatamodel.InvitationStatusExpired:
		return nil, ErrInvitationExpired
	default:
		return nil, internal.NewValidationError(
			"this invitation is not approved for acceptance",
			internal.ErrCodeInvalidStatus)
	}

	existing, err := s.repo.GetUserByEmail(ctx, row.Email)
	if err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &userDatamodel.User{
		Email:        row.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		UserType:     userDatamodel.TypeClient,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.AcceptInvitation(ctx, row, user); err != nil {
		s.logger.Error("failed to accept invitation", "error", err, "invitation_id", row.ID)
		return nil, internal.NewInternalError("failed to accept invitation", err)
	}

	row.Status = orgDatamodel.InvitationStatusAccepted
	row.AcceptedAt = &now

	s.logger.Info("invitation accepted", "invitation_id", row.ID, "user_id", user.ID)
	return InvitationFromDataModel(row), nil
}

// lazilyExpire flips a pending or approved invitation past its deadline
// to expired on read. Write failures only log; the caller still sees the
// expired status.
func (s *Service) lazilyExpire(ctx context.Context, row *orgDatamodel.Invitation) {
	if row.Status != orgDatamodel.InvitationStatusPending && row.Status != orgDatamodel.InvitationStatusApproved {
		return
	}
	if time.Now().Before(row.ExpiresAt) {
		return
	}
	if err := s.repo.UpdateInvitationStatus(ctx, row.ID, orgDatamodel.InvitationStatusExpired, nil); err != nil {
		s.logger.Error("failed to expire invitation", "error", err, "invitation_id", row.ID)
	}
	row.Status = orgDatamodel.InvitationStatusExpired
}
