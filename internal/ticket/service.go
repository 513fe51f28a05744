package ticket

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	sitestaffDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/sitestaff"
	ticketDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/ticket"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
)

var ErrTicketNotFound = internal.NewNotFoundError("Ticket not found", internal.ErrCodeTicketNotFound)

type Repository interface {
	Create(ctx context.Context, row *ticketDatamodel.Ticket) error
	GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error)
	Update(ctx context.Context, row *ticketDatamodel.Ticket) error
	ListByCreator(ctx context.Context, creatorID int64, limit, offset int) ([]*ticketDatamodel.Ticket, error)
	ListByAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*ticketDatamodel.Ticket, error)
	ListAll(ctx context.Context, limit, offset int) ([]*ticketDatamodel.Ticket, error)
	CreateMessage(ctx context.Context, row *ticketDatamodel.Message) error
	ListMessages(ctx context.Context, ticketID int64) ([]*ticketDatamodel.Message, error)
}

// StaffReader confirms the caller is active site staff; only employed
// candidates raise tickets.
type StaffReader interface {
	GetActiveByUser(ctx context.Context, userID int64) (*sitestaffDatamodel.SiteStaff, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	staff  StaffReader
	users  UserReader
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, staff StaffReader, users UserReader, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		staff:  staff,
		users:  users,
		bus:    bus,
		logger: logger,
	}
}

// Create opens a ticket for the caller. The caller must be a candidate
// account with an active site staff record; the ticket binds to that
// record's organization.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto *CreateTicketDTO) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !actor.IsCandidate() {
		return nil, internal.NewForbiddenError("Only site staff can open tickets", internal.ErrCodeInsufficientRole)
	}

	record, err := s.staff.GetActiveByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to check site staff record", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to check site staff record", err)
	}
	if record == nil {
		return nil, internal.NewForbiddenError("Only active site staff can open tickets", internal.ErrCodeInsufficientRole)
	}

	now := time.Now()
	row := &ticketDatamodel.Ticket{
		CreatedByID:    actor.ID,
		OrganizationID: record.OrganizationID,
		Subject:        dto.Subject,
		Description:    dto.Description,
		Category:       dto.Category,
		Priority:       dto.Priority,
		Status:         string(StatusOpen),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create ticket", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to create ticket", err)
	}

	s.logger.Info("ticket created", "ticket_id", row.ID, "creator_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, actor *auth.User, id int64) (*Ticket, error) {
	row, err := s.authorizedTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Assign routes a ticket to an hr-type user, or clears the assignment
// when assigneeID is nil. Admin only.
func (s *Service) Assign(ctx context.Context, actor *auth.User, id int64, dto AssignTicketDTO) (*Ticket, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can assign tickets", internal.ErrCodeAdminRequired)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrTicketNotFound
	}

	current := Status(row.Status)

	if dto.AssigneeID == nil {
		if err := Transition(current, StatusOpen); err != nil {
			return nil, err
		}
		row.AssignedToUserID = nil
		row.Status = string(StatusOpen)
	} else {
		assignee, err := s.users.GetByID(ctx, *dto.AssigneeID)
		if err != nil {
			return nil, internal.NewValidationError("assignee does not exist", internal.ErrCodeUserNotFound)
		}
		if assignee.UserType != userDatamodel.TypeHR {
			return nil, internal.NewValidationError("tickets can only be assigned to HR users", internal.ErrCodeValidationFailed)
		}
		if current != StatusAssigned {
			if err := Transition(current, StatusAssigned); err != nil {
				return nil, err
			}
		}
		row.AssignedToUserID = dto.AssigneeID
		row.Status = string(StatusAssigned)
	}

	row.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to assign ticket", "error", err, "ticket_id", id)
		return nil, internal.NewInternalError("failed to assign ticket", err)
	}

	if row.AssignedToUserID != nil {
		s.bus.Publish(ctx, events.NewTicketAssignedEvent(row.ID, *row.AssignedToUserID, row.CreatedByID, actor.ID))
	}

	s.logger.Info("ticket assignment changed", "ticket_id", id, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.authorizedTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	current := Status(row.Status)
	requested := Status(dto.Status)

	if requested == StatusAssigned || requested == StatusOpen {
		return nil, internal.NewValidationError(
			"this status is set through assignment, not a direct update",
			internal.ErrCodeInvalidStatus)
	}
	if err := Transition(current, requested); err != nil {
		return nil, err
	}

	row.Status = string(requested)
	if requested == StatusResolved {
		now := time.Now()
		row.ResolvedAt = &now
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update ticket status", "error", err, "ticket_id", id)
		return nil, internal.NewInternalError("failed to update ticket status", err)
	}

	s.logger.Info("ticket status updated",
		"ticket_id", id,
		"from", current,
		"to", requested,
		"actor_id", actor.ID)
	return FromDataModel(row), nil
}

// PostMessage appends to the ticket thread. The first reply from anyone
// other than the reporter moves an open ticket to in_progress.
func (s *Service) PostMessage(ctx context.Context, actor *auth.User, id int64, dto PostMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.authorizedTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	message := &ticketDatamodel.Message{
		TicketID:  id,
		SenderID:  actor.ID,
		Body:      dto.Body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		s.logger.Error("failed to post ticket message", "error", err, "ticket_id", id)
		return nil, internal.NewInternalError("failed to post ticket message", err)
	}

	if actor.ID != row.CreatedByID {
		if Status(row.Status) == StatusOpen || Status(row.Status) == StatusAssigned {
			row.Status = string(StatusInProgress)
			row.UpdatedAt = time.Now()
			if err := s.repo.Update(ctx, row); err != nil {
				s.logger.Error("failed to move ticket to in_progress", "error", err, "ticket_id", id)
			}
		}
		s.bus.Publish(ctx, events.NewTicketRepliedEvent(row.ID, row.CreatedByID, actor.ID))
	}

	return MessageFromDataModel(message), nil
}

func (s *Service) ListMessages(ctx context.Context, actor *auth.User, id int64) ([]*Message, error) {
	if _, err := s.authorizedTicket(ctx, actor, id); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		s.logger.Error("failed to list ticket messages", "error", err, "ticket_id", id)
		return nil, internal.NewInternalError("failed to list ticket messages", err)
	}
	return MessagesFromDataModel(rows), nil
}

func (s *Service) ListMine(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error) {
	rows, err := s.repo.ListByCreator(ctx, actor.ID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list tickets", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list tickets", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) ListAssigned(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error) {
	if !actor.IsHR() && !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only HR users have an assignment queue", internal.ErrCodeInsufficientRole)
	}
	rows, err := s.repo.ListByAssignee(ctx, actor.ID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list assigned tickets", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list assigned tickets", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) ListAll(ctx context.Context, actor *auth.User, limit, offset int) ([]*Ticket, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("Only admins can list all tickets", internal.ErrCodeAdminRequired)
	}
	rows, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list tickets", "error", err)
		return nil, internal.NewInternalError("failed to list tickets", err)
	}
	return FromDataModelSlice(rows), nil
}

// authorizedTicket loads the ticket and enforces the access rule:
// creator on their own, HR on assigned, admin on any.
func (s *Service) authorizedTicket(ctx context.Context, actor *auth.User, id int64) (*ticketDatamodel.Ticket, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrTicketNotFound
	}

	if actor.IsAdmin() {
		return row, nil
	}
	if actor.ID == row.CreatedByID {
		return row, nil
	}
	if row.AssignedToUserID != nil && actor.ID == *row.AssignedToUserID {
		return row, nil
	}

	return nil, internal.NewForbiddenError("You do not have access to this ticket", internal.ErrCodeInsufficientRole)
}
