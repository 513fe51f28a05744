package jobrequest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
)

var (
	ErrJobRequestNotFound = internal.NewNotFoundError("Job request not found", internal.ErrCodeJobRequestNotFound)
)

// Repository defines the data access methods for job requests.
type Repository interface {
	Create(ctx context.Context, row *jobRequestDatamodel.JobRequest) error
	GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error)
	Update(ctx context.Context, row *jobRequestDatamodel.JobRequest) error
	SetStatus(ctx context.Context, id int64, status string) error
	SetAssignedHR(ctx context.Context, id, hrUserID int64, assignedAt time.Time) error
	ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error)
	ListAssignedToHR(ctx context.Context, hrUserID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error)
	ListAll(ctx context.Context, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error)
	CountByStatus(ctx context.Context, organizationID int64) (map[string]int64, error)
}

// CandidateStore is the slice of the candidate repository this service
// needs for delivery. DeliverBatch must write the candidate rows and the
// job status flip in one transaction.
type CandidateStore interface {
	ListUserIDsForJobRequest(ctx context.Context, jobRequestID int64) ([]int64, error)
	DeliverBatch(ctx context.Context, jobRequestID int64, rows []*candidateDatamodel.Candidate, deliveredAt time.Time) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       Repository
	candidates CandidateStore
	users      UserReader
	authorizer Authorizer
	bus        EventPublisher
	logger     *slog.Logger
}

func NewService(repo Repository, candidates CandidateStore, users UserReader, authorizer Authorizer, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		users:      users,
		authorizer: authorizer,
		bus:        bus,
		logger:     logger,
	}
}

// Create opens a new job request for the organization with status received.
func (s *Service) Create(ctx context.Context, actor *auth.User, organizationID int64, dto CreateJobRequestDTO) (*JobRequest, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestCreate, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("job request validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	priority := dto.Priority
	if priority == "" {
		priority = "medium"
	}

	row := &jobRequestDatamodel.JobRequest{
		OrganizationID:      organizationID,
		DepartmentID:        dto.DepartmentID,
		RequesterID:         actor.ID,
		HiringManagerUserID: dto.HiringManagerUserID,
		Title:               dto.Title,
		JobDescription:      dto.JobDescription,
		Requirements:        dto.Requirements,
		TimelineToHire:      dto.TimelineToHire,
		Priority:            priority,
		Status:              string(StatusReceived),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create job request", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create job request", err)
	}

	s.bus.Publish(ctx, events.NewJobRequestCreatedEvent(row.ID, organizationID, actor.ID, row.Title))

	s.logger.Info("job request created",
		"job_request_id", row.ID,
		"organization_id", organizationID,
		"requester_id", actor.ID)

	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*JobRequest, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrJobRequestNotFound
	}

	scope := authz.Scope{OrganizationID: row.OrganizationID, AssignedToHRUserID: row.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestView, scope); err != nil {
		return nil, err
	}

	return FromDataModel(row), nil
}

// List returns job requests visible to the actor: admin sees everything,
// HR sees their assignments, org members see their organization.
func (s *Service) List(ctx context.Context, actor *auth.User, organizationID int64, limit, offset int) ([]*JobRequest, error) {
	var (
		rows []*jobRequestDatamodel.JobRequest
		err  error
	)

	switch {
	case actor.IsAdmin() && organizationID == 0:
		rows, err = s.repo.ListAll(ctx, limit, offset)
	case actor.IsHR():
		rows, err = s.repo.ListAssignedToHR(ctx, actor.ID, limit, offset)
	default:
		if authErr := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestView, authz.Scope{OrganizationID: organizationID}); authErr != nil {
			return nil, authErr
		}
		rows, err = s.repo.ListByOrganization(ctx, organizationID, limit, offset)
	}

	if err != nil {
		s.logger.Error("failed to list job requests", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list job requests", err)
	}

	return FromDataModelSlice(rows), nil
}

// Update applies a partial update to the mutable fields. Status is not
// among them.
func (s *Service) Update(ctx context.Context, actor *auth.User, id int64, dto UpdateJobRequestDTO) (*JobRequest, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrJobRequestNotFound
	}

	scope := authz.Scope{OrganizationID: row.OrganizationID, AssignedToHRUserID: row.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestUpdate, scope); err != nil {
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.DepartmentID != nil {
		row.DepartmentID = dto.DepartmentID
	}
	if dto.HiringManagerUserID != nil {
		row.HiringManagerUserID = dto.HiringManagerUserID
	}
	if dto.Title != nil {
		row.Title = *dto.Title
	}
	if dto.JobDescription != nil {
		row.JobDescription = *dto.JobDescription
	}
	if dto.Requirements != nil {
		row.Requirements = *dto.Requirements
	}
	if dto.TimelineToHire != nil {
		row.TimelineToHire = *dto.TimelineToHire
	}
	if dto.Priority != nil {
		row.Priority = *dto.Priority
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update job request", "error", err, "job_request_id", id)
		return nil, internal.NewInternalError("failed to update job request", err)
	}

	s.bus.Publish(ctx, events.NewJobRequestUpdatedEvent(row.ID, row.OrganizationID, actor.ID, row.Title, row.Status))

	return FromDataModel(row), nil
}

// UpdateStatus moves a job request through the lifecycle table. Only the
// states without a dedicated operation are settable here; assignment and
// candidate delivery must go through AssignHR and PushCandidates.
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*JobRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrJobRequestNotFound
	}

	scope := authz.Scope{OrganizationID: row.OrganizationID, AssignedToHRUserID: row.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestUpdate, scope); err != nil {
		return nil, err
	}

	requested := Status(dto.Status)
	current := Status(row.Status)

	if err := Transition(current, requested); err != nil {
		s.logger.Warn("illegal job request transition rejected",
			"job_request_id", id,
			"from", current,
			"to", requested,
			"actor_id", actor.ID)
		return nil, err
	}

	switch requested {
	case StatusShortlisting:
		if !actor.IsAdmin() && !actor.IsHR() {
			return nil, internal.NewForbiddenError("Only the assigned HR can start shortlisting", internal.ErrCodeNotAssignedHR)
		}
	case StatusSelectionPending, StatusHired:
		if actor.IsHR() {
			return nil, internal.NewForbiddenError("Only the organization can mark selections", internal.ErrCodeInsufficientRole)
		}
	default:
		return nil, internal.NewValidationError(
			fmt.Sprintf("status %q is set by a dedicated operation, not a direct update", requested),
			internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.SetStatus(ctx, id, string(requested)); err != nil {
		s.logger.Error("failed to update job request status", "error", err, "job_request_id", id)
		return nil, internal.NewInternalError("failed to update job request status", err)
	}

	row.Status = string(requested)
	row.UpdatedAt = time.Now()

	s.bus.Publish(ctx, events.NewJobRequestUpdatedEvent(row.ID, row.OrganizationID, actor.ID, row.Title, row.Status))

	s.logger.Info("job request status updated",
		"job_request_id", id,
		"from", current,
		"to", requested,
		"actor_id", actor.ID)

	return FromDataModel(row), nil
}

// AssignHR is admin-only. Assignment is always legal, including over an
// existing assignment: the new HR and assigned_to_hr status overwrite
// whatever was there.
func (s *Service) AssignHR(ctx context.Context, actor *auth.User, id int64, dto AssignHRDTO) (*JobRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrJobRequestNotFound
	}

	scope := authz.Scope{OrganizationID: row.OrganizationID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestAssignHR, scope); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, dto.HRUserID)
	if err != nil {
		return nil, internal.NewValidationError("hr_user_id does not reference an existing user", internal.ErrCodeValidationFailed)
	}
	if target.UserType != userDatamodel.TypeHR {
		return nil, internal.NewValidationError("assignee must be an HR user", internal.ErrCodeValidationFailed)
	}

	assignedAt := time.Now()
	if err := s.repo.SetAssignedHR(ctx, id, dto.HRUserID, assignedAt); err != nil {
		s.logger.Error("failed to assign HR", "error", err, "job_request_id", id, "hr_user_id", dto.HRUserID)
		return nil, internal.NewInternalError("failed to assign HR", err)
	}

	row.AssignedToHRUserID = &dto.HRUserID
	row.AssignedAt = &assignedAt
	row.Status = string(StatusAssignedToHR)
	row.UpdatedAt = assignedAt

	s.bus.Publish(ctx, events.NewHRAssignedEvent(row.ID, row.OrganizationID, dto.HRUserID, actor.ID))

	s.logger.Info("HR assigned to job request",
		"job_request_id", id,
		"hr_user_id", dto.HRUserID,
		"actor_id", actor.ID)

	return FromDataModel(row), nil
}

// PushCandidatesResult reports what a delivery call actually did.
type PushCandidatesResult struct {
	Candidates []*CandidateView `json:"candidates"`
	Message    string           `json:"message"`
}

type CandidateView struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// PushCandidates delivers up to five candidate users to a job request.
// Ids already delivered to this job are skipped; if every id is a
// duplicate the call succeeds with an empty list and callers must check
// the list length. Snapshot fields are copied from the user at call
// time.
func (s *Service) PushCandidates(ctx context.Context, actor *auth.User, id int64, dto PushCandidatesDTO) (*PushCandidatesResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrJobRequestNotFound
	}

	scope := authz.Scope{OrganizationID: row.OrganizationID, AssignedToHRUserID: row.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestPushCandidates, scope); err != nil {
		return nil, err
	}

	existing, err := s.candidates.ListUserIDsForJobRequest(ctx, id)
	if err != nil {
		s.logger.Error("failed to load existing candidates", "error", err, "job_request_id", id)
		return nil, internal.NewInternalError("failed to load existing candidates", err)
	}
	existingSet := make(map[int64]bool, len(existing))
	for _, userID := range existing {
		existingSet[userID] = true
	}

	seen := make(map[int64]bool, len(dto.CandidateUserIDs))
	var newIDs []int64
	for _, userID := range dto.CandidateUserIDs {
		if existingSet[userID] || seen[userID] {
			continue
		}
		seen[userID] = true
		newIDs = append(newIDs, userID)
	}

	if len(newIDs) == 0 {
		s.logger.Info("push skipped: all candidates already delivered",
			"job_request_id", id,
			"actor_id", actor.ID)
		return &PushCandidatesResult{
			Candidates: []*CandidateView{},
			Message:    "All candidates were already delivered to this job request",
		}, nil
	}

	rows := make([]*candidateDatamodel.Candidate, 0, len(newIDs))
	for _, userID := range newIDs {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, internal.NewValidationError(
				fmt.Sprintf("candidate user %d does not exist", userID),
				internal.ErrCodeValidationFailed)
		}
		if user.UserType != userDatamodel.TypeCandidate {
			return nil, internal.NewValidationError(
				fmt.Sprintf("user %d is not a candidate account", userID),
				internal.ErrCodeValidationFailed)
		}

		uid := userID
		rows = append(rows, &candidateDatamodel.Candidate{
			JobRequestID: id,
			UserID:       &uid,
			Name:         user.Name,
			Email:        user.Email,
			Phone:        user.Phone,
			LinkedinURL:  user.LinkedinURL,
			PortfolioURL: user.PortfolioURL,
			ResumeURL:    user.ResumeURL,
			Status:       "delivered",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
	}

	deliveredAt := time.Now()
	if err := s.candidates.DeliverBatch(ctx, id, rows, deliveredAt); err != nil {
		s.logger.Error("failed to deliver candidates", "error", err, "job_request_id", id)
		return nil, internal.NewInternalError("failed to deliver candidates", err)
	}

	candidateIDs := make([]int64, len(rows))
	views := make([]*CandidateView, len(rows))
	for i, c := range rows {
		candidateIDs[i] = c.ID
		views[i] = &CandidateView{
			ID:     c.ID,
			UserID: c.UserID,
			Name:   c.Name,
			Email:  c.Email,
			Status: c.Status,
		}
	}

	s.bus.Publish(ctx, events.NewCandidatesDeliveredEvent(id, row.OrganizationID, actor.ID, candidateIDs))

	s.logger.Info("candidates delivered",
		"job_request_id", id,
		"count", len(rows),
		"actor_id", actor.ID)

	return &PushCandidatesResult{
		Candidates: views,
		Message:    fmt.Sprintf("%d candidate(s) delivered", len(rows)),
	}, nil
}

// Statistics counts job requests per status. Organizations with no job
// requests get all-zero buckets, not an error.
func (s *Service) Statistics(ctx context.Context, actor *auth.User, organizationID int64) (*StatisticsView, error) {
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionJobRequestStatistics, authz.Scope{OrganizationID: organizationID}); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx, organizationID)
	if err != nil {
		s.logger.Error("failed to count job requests", "error", err, "organization_id", organizationID)
		return nil, internal.NewInternalError("failed to count job requests", err)
	}

	view := &StatisticsView{
		OrganizationID: organizationID,
		ByStatus:       make(map[string]int64, len(AllStatuses)),
	}
	for _, status := range AllStatuses {
		count := counts[string(status)]
		view.ByStatus[string(status)] = count
		view.Total += count
	}

	return view, nil
}
