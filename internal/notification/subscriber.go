package notification

import (
	"context"
	"fmt"
	"log/slog"

	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	"github.com/talentgrid/hiring-management/internal/core/events"
)

// Recipients resolves the audiences that fan-out targets.
type Recipients interface {
	ListAdminIDs(ctx context.Context) ([]int64, error)
	ListOrganizationMemberIDs(ctx context.Context, organizationID int64) ([]int64, error)
	ListOrganizationRoleIDs(ctx context.Context, organizationID int64, roles ...string) ([]int64, error)
	AssignedHRForJobRequest(ctx context.Context, jobRequestID int64) (*int64, error)
	EmailsForUserIDs(ctx context.Context, userIDs []int64) ([]string, error)
}

// Subscriber turns lifecycle events into notification rows, audit trail
// entries and emails. Every handler runs off the request path on the
// bus; failures are logged by the bus and never reach the publisher.
type Subscriber struct {
	service    *Service
	recipients Recipients
	mailer     EmailSender
	mailFrom   string
	baseURL    string
	logger     *slog.Logger
}

func NewSubscriber(service *Service, recipients Recipients, mailer EmailSender, mailFrom, baseURL string, logger *slog.Logger) *Subscriber {
	if mailer == nil {
		mailer = NoopSender{}
	}
	return &Subscriber{
		service:    service,
		recipients: recipients,
		mailer:     mailer,
		mailFrom:   mailFrom,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Register wires every handler onto the bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeJobRequestCreated, s.onJobRequestCreated)
	bus.Subscribe(events.EventTypeJobRequestUpdated, s.onJobRequestUpdated)
	bus.Subscribe(events.EventTypeHRAssigned, s.onHRAssigned)
	bus.Subscribe(events.EventTypeCandidatesDelivered, s.onCandidatesDelivered)
	bus.Subscribe(events.EventTypeCandidateSelected, s.onCandidateStatus)
	bus.Subscribe(events.EventTypeCandidateHired, s.onCandidateStatus)
	bus.Subscribe(events.EventTypeInterviewScheduled, s.onInterview)
	bus.Subscribe(events.EventTypeInterviewCancelled, s.onInterview)
	bus.Subscribe(events.EventTypeInterviewUpdated, s.onInterview)
	bus.Subscribe(events.EventTypeTicketAssigned, s.onTicketAssigned)
	bus.Subscribe(events.EventTypeTicketReplied, s.onTicketReplied)
	bus.Subscribe(events.EventTypeInvitationCreated, s.onInvitationCreated)
}

// New job requests go to the admin team, who route them to HR.
func (s *Subscriber) onJobRequestCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.JobRequestEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "job_request", e.JobRequestID, e.ActorID, "created", "", e.Status)

	admins, err := s.recipients.ListAdminIDs(ctx)
	if err != nil {
		return err
	}
	return s.service.CreateForUsers(ctx, admins, e.EventType(),
		"New job request",
		fmt.Sprintf("Job request %q was submitted and needs an HR assignment.", e.Title),
		"job_request", e.JobRequestID)
}

// Updates go to the organization plus the assigned HR.
func (s *Subscriber) onJobRequestUpdated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.JobRequestEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "job_request", e.JobRequestID, e.ActorID, "updated", "", e.Status)

	recipients, err := s.organizationAndHR(ctx, e.OrganizationID, e.JobRequestID)
	if err != nil {
		return err
	}
	return s.service.CreateForUsers(ctx, recipients, e.EventType(),
		"Job request updated",
		fmt.Sprintf("Job request %q was updated.", e.Title),
		"job_request", e.JobRequestID)
}

func (s *Subscriber) onHRAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.HRAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "job_request", e.JobRequestID, e.ActorID, "hr_assigned", "", "assigned_to_hr")

	return s.service.CreateForUsers(ctx, []int64{e.HRUserID}, e.EventType(),
		"Job request assigned to you",
		"A job request was assigned to you for sourcing.",
		"job_request", e.JobRequestID)
}

// Delivery notifies the organization's COOs in-app and by email.
func (s *Subscriber) onCandidatesDelivered(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CandidatesDeliveredEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "job_request", e.JobRequestID, e.ActorID, "candidates_delivered", "", "candidates_delivered")

	coos, err := s.recipients.ListOrganizationRoleIDs(ctx, e.OrganizationID,
		orgDatamodel.RoleCOO, orgDatamodel.RoleHRCOO)
	if err != nil {
		return err
	}
	if err := s.service.CreateForUsers(ctx, coos, e.EventType(),
		"Candidates delivered",
		fmt.Sprintf("%d candidate(s) were delivered to your job request.", len(e.CandidateIDs)),
		"job_request", e.JobRequestID); err != nil {
		return err
	}

	emails, err := s.recipients.EmailsForUserIDs(ctx, coos)
	if err != nil || len(emails) == 0 {
		return err
	}
	return s.mailer.Send(ctx, EmailMessage{
		From:    s.mailFrom,
		To:      emails,
		Subject: "Candidates delivered to your job request",
		Body: fmt.Sprintf("%d candidate(s) are ready for review.\n\nReview them at %s/job-requests/%d\n",
			len(e.CandidateIDs), s.baseURL, e.JobRequestID),
	})
}

// Selection decisions go to the organization and the assigned HR,
// deduplicated when the HR also holds a membership.
func (s *Subscriber) onCandidateStatus(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CandidateStatusEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "candidate", e.CandidateID, e.ActorID, "status_changed", "", e.Status)

	recipients, err := s.organizationAndHR(ctx, e.OrganizationID, e.JobRequestID)
	if err != nil {
		return err
	}
	return s.service.CreateForUsers(ctx, recipients, e.EventType(),
		fmt.Sprintf("Candidate %s", e.Status),
		fmt.Sprintf("A candidate moved to %s.", e.Status),
		"candidate", e.CandidateID)
}

func (s *Subscriber) onInterview(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.InterviewEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "interview", e.InterviewID, e.ActorID, event.EventType(), "", e.Status)

	recipients, err := s.organizationAndHR(ctx, e.OrganizationID, e.JobRequestID)
	if err != nil {
		return err
	}
	title := "Interview updated"
	switch event.EventType() {
	case events.EventTypeInterviewScheduled:
		title = "Interview scheduled"
	case events.EventTypeInterviewCancelled:
		title = "Interview cancelled"
	}
	return s.service.CreateForUsers(ctx, recipients, e.EventType(),
		title,
		fmt.Sprintf("An interview for one of your job requests is now %s.", e.Status),
		"interview", e.InterviewID)
}

func (s *Subscriber) onTicketAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TicketEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	s.audit(ctx, "ticket", e.TicketID, e.ActorID, "assigned", "", "assigned")

	return s.service.CreateForUsers(ctx, []int64{e.AssigneeID}, e.EventType(),
		"Ticket assigned to you",
		"A support ticket was routed to your queue.",
		"ticket", e.TicketID)
}

func (s *Subscriber) onTicketReplied(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TicketEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	return s.service.CreateForUsers(ctx, []int64{e.CreatorID}, e.EventType(),
		"New reply on your ticket",
		"Your support ticket has a new reply.",
		"ticket", e.TicketID)
}

// Invitations only email; the invitee has no account yet.
func (s *Subscriber) onInvitationCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.InvitationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	return s.mailer.Send(ctx, EmailMessage{
		From:    s.mailFrom,
		To:      []string{e.Email},
		Subject: "You are invited to join an organization",
		Body: fmt.Sprintf("You have been invited to join an organization.\n\nAccept the invitation at %s/invitations/accept?token=%s\n",
			s.baseURL, e.Token),
	})
}

func (s *Subscriber) organizationAndHR(ctx context.Context, organizationID, jobRequestID int64) ([]int64, error) {
	members, err := s.recipients.ListOrganizationMemberIDs(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	hrUserID, err := s.recipients.AssignedHRForJobRequest(ctx, jobRequestID)
	if err != nil {
		return nil, err
	}
	if hrUserID != nil {
		members = append(members, *hrUserID)
	}
	return members, nil
}

// audit failures are logged inside the service; fan-out keeps going.
func (s *Subscriber) audit(ctx context.Context, entityType string, entityID, actorID int64, action, from, to string) {
	if err := s.service.RecordAudit(ctx, entityType, entityID, actorID, action, from, to); err != nil {
		s.logger.Error("audit record failed", "error", err, "entity_type", entityType, "entity_id", entityID)
	}
}
