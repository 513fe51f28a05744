package candidate

import (
	"context"
	"log/slog"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
)

var (
	ErrCandidateNotFound = internal.NewNotFoundError("Candidate not found", internal.ErrCodeCandidateNotFound)
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error)
	ListByJobRequest(ctx context.Context, jobRequestID int64) ([]*candidateDatamodel.Candidate, error)
	// MarkViewed flips delivered to viewed; it is a no-op when the row
	// is already past delivered, which makes the read-path transition
	// idempotent.
	MarkViewed(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) error
	ListCandidatePool(ctx context.Context, limit, offset int) ([]*userDatamodel.User, error)
}

// JobRequestReader resolves a candidate's parent for authorization and
// cascades.
type JobRequestReader interface {
	GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error)
}

// SiteStaffActivator materializes a hire as an active employment record.
type SiteStaffActivator interface {
	Activate(ctx context.Context, userID, organizationID int64, jobRequestID *int64, position string) error
}

type Authorizer interface {
	Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	jobRequests JobRequestReader
	siteStaff   SiteStaffActivator
	authorizer  Authorizer
	bus         EventPublisher
	logger      *slog.Logger
}

func NewService(repo Repository, jobRequests JobRequestReader, siteStaff SiteStaffActivator, authorizer Authorizer, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		jobRequests: jobRequests,
		siteStaff:   siteStaff,
		authorizer:  authorizer,
		bus:         bus,
		logger:      logger,
	}
}

// GetByID returns a candidate. The first read of a delivered candidate
// moves it to viewed; reading it again changes nothing.
func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*Candidate, error) {
	row, parent, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionCandidateView, scope); err != nil {
		return nil, err
	}

	if Status(row.Status) == StatusDelivered {
		if err := s.repo.MarkViewed(ctx, id); err != nil {
			// the read still succeeds; the transition is retried on the
			// next read
			s.logger.Error("failed to mark candidate viewed", "error", err, "candidate_id", id)
		} else {
			row.Status = string(StatusViewed)
		}
	}

	return FromDataModel(row), nil
}

func (s *Service) ListByJobRequest(ctx context.Context, actor *auth.User, jobRequestID int64) ([]*Candidate, error) {
	parent, err := s.jobRequests.GetByID(ctx, jobRequestID)
	if err != nil {
		return nil, internal.NewNotFoundError("Job request not found", internal.ErrCodeJobRequestNotFound)
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionCandidateView, scope); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByJobRequest(ctx, jobRequestID)
	if err != nil {
		s.logger.Error("failed to list candidates", "error", err, "job_request_id", jobRequestID)
		return nil, internal.NewInternalError("failed to list candidates", err)
	}

	return FromDataModelSlice(rows), nil
}

// UpdateStatus moves a candidate through the pipeline table. selected
// and hired fire downstream fan-out; hired also materializes a site
// staff record when the candidate is linked to a user account.
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Candidate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, parent, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionCandidateUpdateStatus, scope); err != nil {
		return nil, err
	}

	requested := Status(dto.Status)
	current := Status(row.Status)

	if err := Transition(current, requested); err != nil {
		s.logger.Warn("illegal candidate transition rejected",
			"candidate_id", id,
			"from", current,
			"to", requested,
			"actor_id", actor.ID)
		return nil, err
	}

	switch requested {
	case StatusViewed, StatusInterviewScheduled:
		return nil, internal.NewValidationError(
			"this status is set by the system, not a direct update",
			internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.SetStatus(ctx, id, string(requested)); err != nil {
		s.logger.Error("failed to update candidate status", "error", err, "candidate_id", id)
		return nil, internal.NewInternalError("failed to update candidate status", err)
	}
	row.Status = string(requested)

	switch requested {
	case StatusSelected:
		s.bus.Publish(ctx, events.NewCandidateSelectedEvent(row.ID, row.JobRequestID, parent.OrganizationID, actor.ID))
	case StatusHired:
		if row.UserID != nil {
			jobID := row.JobRequestID
			if err := s.siteStaff.Activate(ctx, *row.UserID, parent.OrganizationID, &jobID, parent.Title); err != nil {
				s.logger.Error("failed to create site staff record",
					"error", err,
					"candidate_id", id,
					"user_id", *row.UserID)
			}
		}
		s.bus.Publish(ctx, events.NewCandidateHiredEvent(row.ID, row.JobRequestID, parent.OrganizationID, actor.ID))
	}

	s.logger.Info("candidate status updated",
		"candidate_id", id,
		"from", current,
		"to", requested,
		"actor_id", actor.ID)

	return FromDataModel(row), nil
}

// ListCandidatePool is the admin view of candidate accounts that are not
// currently active site staff anywhere.
func (s *Service) ListCandidatePool(ctx context.Context, actor *auth.User, limit, offset int) ([]*PoolEntry, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can list the candidate pool", internal.ErrCodeAdminRequired)
	}

	users, err := s.repo.ListCandidatePool(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list candidate pool", "error", err)
		return nil, internal.NewInternalError("failed to list candidate pool", err)
	}

	entries := make([]*PoolEntry, len(users))
	for i, u := range users {
		entries[i] = &PoolEntry{
			UserID:      u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Phone:       u.Phone,
			LinkedinURL: u.LinkedinURL,
			ResumeURL:   u.ResumeURL,
		}
	}
	return entries, nil
}

func (s *Service) load(ctx context.Context, id int64) (*candidateDatamodel.Candidate, *jobRequestDatamodel.JobRequest, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, ErrCandidateNotFound
	}

	parent, err := s.jobRequests.GetByID(ctx, row.JobRequestID)
	if err != nil {
		s.logger.Error("candidate references missing job request",
			"candidate_id", id,
			"job_request_id", row.JobRequestID)
		return nil, nil, internal.NewInternalError("candidate references missing job request", err)
	}

	return row, parent, nil
}
