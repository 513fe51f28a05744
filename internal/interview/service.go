package interview

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	"github.com/talentgrid/hiring-management/internal/candidate"
	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	interviewDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/interview"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	"github.com/talentgrid/hiring-management/internal/core/events"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
)

var ErrInterviewNotFound = internal.NewNotFoundError("Interview not found", internal.ErrCodeInterviewNotFound)

// Filter is the single parameterized query surface for interviews. Nil
// fields are not applied.
type Filter struct {
	OrganizationID    *int64
	JobRequestID      *int64
	AssignedHRUserID  *int64
	ParticipantUserID *int64
	Statuses          []string
	From              *time.Time
	To                *time.Time
}

type Repository interface {
	// ScheduleCascade inserts the interview and its participants, moves
	// the candidate to interview_scheduled and, when markJobRequest is
	// set, the job request to interviews_scheduled, all in one
	// transaction.
	ScheduleCascade(ctx context.Context, row *interviewDatamodel.Interview, participants []*interviewDatamodel.Participant, markJobRequest bool) error
	GetByID(ctx context.Context, id int64) (*interviewDatamodel.Interview, error)
	Update(ctx context.Context, row *interviewDatamodel.Interview) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*interviewDatamodel.Interview, error)
	ListParticipants(ctx context.Context, interviewID int64) ([]*interviewDatamodel.Participant, error)
	AddParticipant(ctx context.Context, row *interviewDatamodel.Participant) error
	RemoveParticipant(ctx context.Context, interviewID, userID int64) error
}

type CandidateReader interface {
	GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error)
}

type JobRequestReader interface {
	GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        Repository
	candidates  CandidateReader
	jobRequests JobRequestReader
	authorizer  Authorizer
	bus         EventPublisher
	logger      *slog.Logger
}

func NewService(repo Repository, candidates CandidateReader, jobRequests JobRequestReader, authorizer Authorizer, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		candidates:  candidates,
		jobRequests: jobRequests,
		authorizer:  authorizer,
		bus:         bus,
		logger:      logger,
	}
}

// Create schedules an interview. The interview row, its participants,
// the candidate's move to interview_scheduled and the job request's move
// to interviews_scheduled commit together or not at all.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto *CreateInterviewDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	parent, err := s.jobRequests.GetByID(ctx, dto.JobRequestID)
	if err != nil {
		return nil, internal.NewNotFoundError("Job request not found", internal.ErrCodeJobRequestNotFound)
	}

	candidateRow, err := s.candidates.GetByID(ctx, dto.CandidateID)
	if err != nil {
		return nil, internal.NewNotFoundError("Candidate not found", internal.ErrCodeCandidateNotFound)
	}

	// rejected before any write happens
	if candidateRow.JobRequestID != dto.JobRequestID {
		return nil, internal.NewValidationError(
			"candidate does not belong to this job request",
			internal.ErrCodeValidationFailed)
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewCreate, scope); err != nil {
		return nil, err
	}

	if err := candidate.Transition(candidate.Status(candidateRow.Status), candidate.StatusInterviewScheduled); err != nil {
		return nil, err
	}

	jobStatus := jobrequest.Status(parent.Status)
	markJobRequest := false
	switch jobStatus {
	case jobrequest.StatusCandidatesDelivered:
		markJobRequest = true
	case jobrequest.StatusInterviewsScheduled:
		// already there, second interview on the same job
	default:
		return nil, internal.NewValidationError(
			"job request is not in a state that allows scheduling interviews",
			internal.ErrCodeIllegalTransition)
	}

	now := time.Now()
	row := &interviewDatamodel.Interview{
		JobRequestID:    dto.JobRequestID,
		CandidateID:     dto.CandidateID,
		ScheduledAt:     dto.ScheduledTime(),
		DurationMinutes: dto.DurationMinutes,
		MeetingLink:     dto.MeetingLink,
		MeetingPlatform: dto.MeetingPlatform,
		Notes:           dto.Notes,
		Status:          string(StatusScheduled),
		CreatedByID:     actor.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// the creator is always the sole organizer, even when listed among
	// the requested participants
	participants := []*interviewDatamodel.Participant{
		{UserID: actor.ID, Role: interviewDatamodel.ParticipantRoleOrganizer, CreatedAt: now},
	}
	seen := map[int64]bool{actor.ID: true}
	for _, userID := range dto.ParticipantUserIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		participants = append(participants, &interviewDatamodel.Participant{
			UserID:    userID,
			Role:      interviewDatamodel.ParticipantRoleAttendee,
			CreatedAt: now,
		})
	}

	if err := s.repo.ScheduleCascade(ctx, row, participants, markJobRequest); err != nil {
		s.logger.Error("failed to schedule interview", "error", err, "job_request_id", dto.JobRequestID)
		return nil, internal.NewInternalError("failed to schedule interview", err)
	}

	s.bus.Publish(ctx, events.NewInterviewScheduledEvent(row.ID, row.JobRequestID, row.CandidateID, parent.OrganizationID, actor.ID))

	s.logger.Info("interview scheduled",
		"interview_id", row.ID,
		"job_request_id", row.JobRequestID,
		"candidate_id", row.CandidateID,
		"actor_id", actor.ID)

	return FromDataModel(row, participants), nil
}

func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*Interview, error) {
	row, parent, participants, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// participants see their own interviews regardless of membership
	if !isParticipant(participants, actor.ID) {
		scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
		if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewView, scope); err != nil {
			return nil, err
		}
	}

	return FromDataModel(row, participants), nil
}

// Update edits schedule details and drives status through the
// transition table. Cancellations and completions publish distinct
// events.
func (s *Service) Update(ctx context.Context, actor *auth.User, id int64, dto *UpdateInterviewDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, parent, participants, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewUpdate, scope); err != nil {
		return nil, err
	}

	statusChanged := false
	previous := Status(row.Status)
	if dto.Status != nil && Status(*dto.Status) != previous {
		if err := Transition(previous, Status(*dto.Status)); err != nil {
			return nil, err
		}
		row.Status = *dto.Status
		statusChanged = true
	}

	if at := dto.ScheduledTime(); at != nil {
		row.ScheduledAt = *at
	}
	if dto.DurationMinutes != nil {
		row.DurationMinutes = *dto.DurationMinutes
	}
	if dto.MeetingLink != nil {
		row.MeetingLink = *dto.MeetingLink
	}
	if dto.MeetingPlatform != nil {
		row.MeetingPlatform = *dto.MeetingPlatform
	}
	if dto.Notes != nil {
		row.Notes = *dto.Notes
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update interview", "error", err, "interview_id", id)
		return nil, internal.NewInternalError("failed to update interview", err)
	}

	if statusChanged && Status(row.Status) == StatusCancelled {
		s.bus.Publish(ctx, events.NewInterviewCancelledEvent(row.ID, row.JobRequestID, row.CandidateID, parent.OrganizationID, actor.ID))
	} else {
		s.bus.Publish(ctx, events.NewInterviewUpdatedEvent(row.ID, row.JobRequestID, row.CandidateID, parent.OrganizationID, actor.ID, row.Status))
	}

	return FromDataModel(row, participants), nil
}

// AddParticipant attaches a user as attendee. Adding an existing
// participant is a no-op.
func (s *Service) AddParticipant(ctx context.Context, actor *auth.User, id int64, dto AddParticipantDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, parent, participants, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewManageParticipants, scope); err != nil {
		return nil, err
	}

	if !isParticipant(participants, dto.UserID) {
		participant := &interviewDatamodel.Participant{
			InterviewID: id,
			UserID:      dto.UserID,
			Role:        interviewDatamodel.ParticipantRoleAttendee,
			CreatedAt:   time.Now(),
		}
		if err := s.repo.AddParticipant(ctx, participant); err != nil {
			s.logger.Error("failed to add participant", "error", err, "interview_id", id, "user_id", dto.UserID)
			return nil, internal.NewInternalError("failed to add participant", err)
		}
		participants = append(participants, participant)
	}

	return FromDataModel(row, participants), nil
}

func (s *Service) RemoveParticipant(ctx context.Context, actor *auth.User, id, userID int64) (*Interview, error) {
	row, parent, participants, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope{OrganizationID: parent.OrganizationID, AssignedToHRUserID: parent.AssignedToHRUserID}
	if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewManageParticipants, scope); err != nil {
		return nil, err
	}

	if userID == row.CreatedByID {
		return nil, internal.NewValidationError(
			"the organizer cannot be removed from an interview",
			internal.ErrCodeValidationFailed)
	}

	if err := s.repo.RemoveParticipant(ctx, id, userID); err != nil {
		s.logger.Error("failed to remove participant", "error", err, "interview_id", id, "user_id", userID)
		return nil, internal.NewInternalError("failed to remove participant", err)
	}

	remaining := participants[:0]
	for _, p := range participants {
		if p.UserID != userID {
			remaining = append(remaining, p)
		}
	}

	return FromDataModel(row, remaining), nil
}

// List serves every interview query through one filter. Non-admin
// callers get the filter narrowed to what they may see: HR to their
// assignments, candidates to their own participation, clients to
// organizations they belong to.
func (s *Service) List(ctx context.Context, actor *auth.User, filter Filter, limit, offset int) ([]*Interview, error) {
	switch {
	case actor.IsAdmin():
		// unrestricted
	case actor.IsHR():
		filter.AssignedHRUserID = &actor.ID
	case actor.IsCandidate():
		filter.ParticipantUserID = &actor.ID
	default:
		if filter.OrganizationID == nil {
			return nil, internal.NewValidationFieldError("organization_id", "organization_id is required", internal.ErrCodeValidationFailed)
		}
		scope := authz.Scope{OrganizationID: *filter.OrganizationID}
		if err := s.authorizer.Authorize(ctx, actor, authz.ActionInterviewView, scope); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list interviews", "error", err)
		return nil, internal.NewInternalError("failed to list interviews", err)
	}

	result := make([]*Interview, len(rows))
	for i, row := range rows {
		participants, err := s.repo.ListParticipants(ctx, row.ID)
		if err != nil {
			s.logger.Error("failed to load participants", "error", err, "interview_id", row.ID)
			return nil, internal.NewInternalError("failed to load participants", err)
		}
		result[i] = FromDataModel(row, participants)
	}
	return result, nil
}

// Upcoming is the calendar view: scheduled or confirmed interviews from
// now onward.
func (s *Service) Upcoming(ctx context.Context, actor *auth.User, filter Filter, limit, offset int) ([]*Interview, error) {
	now := time.Now()
	filter.From = &now
	filter.Statuses = []string{string(StatusScheduled), string(StatusConfirmed)}
	return s.List(ctx, actor, filter, limit, offset)
}

func (s *Service) load(ctx context.Context, id int64) (*interviewDatamodel.Interview, *jobRequestDatamodel.JobRequest, []*interviewDatamodel.Participant, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, ErrInterviewNotFound
	}

	parent, err := s.jobRequests.GetByID(ctx, row.JobRequestID)
	if err != nil {
		s.logger.Error("interview references missing job request",
			"interview_id", id,
			"job_request_id", row.JobRequestID)
		return nil, nil, nil, internal.NewInternalError("interview references missing job request", err)
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, nil, nil, internal.NewInternalError("failed to load participants", err)
	}

	return row, parent, participants, nil
}

func isParticipant(participants []*interviewDatamodel.Participant, userID int64) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
