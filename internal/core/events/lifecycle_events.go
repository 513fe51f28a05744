package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeJobRequestCreated   = "job_request.created"
	EventTypeJobRequestUpdated   = "job_request.updated"
	EventTypeHRAssigned          = "job_request.hr_assigned"
	EventTypeCandidatesDelivered = "job_request.candidates_delivered"
	EventTypeCandidateSelected   = "candidate.selected"
	EventTypeCandidateHired      = "candidate.hired"
	EventTypeInterviewScheduled  = "interview.scheduled"
	EventTypeInterviewCancelled  = "interview.cancelled"
	EventTypeInterviewUpdated    = "interview.updated"
	EventTypeTicketAssigned      = "ticket.assigned"
	EventTypeTicketReplied       = "ticket.replied"
	EventTypeInvitationCreated   = "invitation.created"
)

type JobRequestEvent struct {
	BaseEvent
	JobRequestID   int64  `json:"job_request_id"`
	OrganizationID int64  `json:"organization_id"`
	ActorID        int64  `json:"actor_id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
}

func newJobRequestEvent(eventType string, jobRequestID, organizationID, actorID int64, title, status string) *JobRequestEvent {
	return &JobRequestEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"job_request_id":  jobRequestID,
				"organization_id": organizationID,
				"actor_id":        actorID,
				"title":           title,
				"status":          status,
			},
		},
		JobRequestID:   jobRequestID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		Title:          title,
		Status:         status,
	}
}

func NewJobRequestCreatedEvent(jobRequestID, organizationID, actorID int64, title string) *JobRequestEvent {
	return newJobRequestEvent(EventTypeJobRequestCreated, jobRequestID, organizationID, actorID, title, "received")
}

func NewJobRequestUpdatedEvent(jobRequestID, organizationID, actorID int64, title, status string) *JobRequestEvent {
	return newJobRequestEvent(EventTypeJobRequestUpdated, jobRequestID, organizationID, actorID, title, status)
}

type HRAssignedEvent struct {
	BaseEvent
	JobRequestID   int64 `json:"job_request_id"`
	OrganizationID int64 `json:"organization_id"`
	HRUserID       int64 `json:"hr_user_id"`
	ActorID        int64 `json:"actor_id"`
}

func NewHRAssignedEvent(jobRequestID, organizationID, hrUserID, actorID int64) *HRAssignedEvent {
	return &HRAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeHRAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"job_request_id":  jobRequestID,
				"organization_id": organizationID,
				"hr_user_id":      hrUserID,
				"actor_id":        actorID,
			},
		},
		JobRequestID:   jobRequestID,
		OrganizationID: organizationID,
		HRUserID:       hrUserID,
		ActorID:        actorID,
	}
}

type CandidatesDeliveredEvent struct {
	BaseEvent
	JobRequestID   int64   `json:"job_request_id"`
	OrganizationID int64   `json:"organization_id"`
	ActorID        int64   `json:"actor_id"`
	CandidateIDs   []int64 `json:"candidate_ids"`
}

func NewCandidatesDeliveredEvent(jobRequestID, organizationID, actorID int64, candidateIDs []int64) *CandidatesDeliveredEvent {
	return &CandidatesDeliveredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCandidatesDelivered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"job_request_id":  jobRequestID,
				"organization_id": organizationID,
				"actor_id":        actorID,
				"candidate_ids":   candidateIDs,
			},
		},
		JobRequestID:   jobRequestID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		CandidateIDs:   candidateIDs,
	}
}

type CandidateStatusEvent struct {
	BaseEvent
	CandidateID    int64  `json:"candidate_id"`
	JobRequestID   int64  `json:"job_request_id"`
	OrganizationID int64  `json:"organization_id"`
	ActorID        int64  `json:"actor_id"`
	Status         string `json:"status"`
}

func newCandidateStatusEvent(eventType string, candidateID, jobRequestID, organizationID, actorID int64, status string) *CandidateStatusEvent {
	return &CandidateStatusEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"candidate_id":    candidateID,
				"job_request_id":  jobRequestID,
				"organization_id": organizationID,
				"actor_id":        actorID,
				"status":          status,
			},
		},
		CandidateID:    candidateID,
		JobRequestID:   jobRequestID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		Status:         status,
	}
}

func NewCandidateSelectedEvent(candidateID, jobRequestID, organizationID, actorID int64) *CandidateStatusEvent {
	return newCandidateStatusEvent(EventTypeCandidateSelected, candidateID, jobRequestID, organizationID, actorID, "selected")
}

func NewCandidateHiredEvent(candidateID, jobRequestID, organizationID, actorID int64) *CandidateStatusEvent {
	return newCandidateStatusEvent(EventTypeCandidateHired, candidateID, jobRequestID, organizationID, actorID, "hired")
}

type InterviewEvent struct {
	BaseEvent
	InterviewID    int64  `json:"interview_id"`
	JobRequestID   int64  `json:"job_request_id"`
	CandidateID    int64  `json:"candidate_id"`
	OrganizationID int64  `json:"organization_id"`
	ActorID        int64  `json:"actor_id"`
	Status         string `json:"status"`
}

func newInterviewEvent(eventType string, interviewID, jobRequestID, candidateID, organizationID, actorID int64, status string) *InterviewEvent {
	return &InterviewEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"interview_id":    interviewID,
				"job_request_id":  jobRequestID,
				"candidate_id":    candidateID,
				"organization_id": organizationID,
				"actor_id":        actorID,
				"status":          status,
			},
		},
		InterviewID:    interviewID,
		JobRequestID:   jobRequestID,
		CandidateID:    candidateID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		Status:         status,
	}
}

func NewInterviewScheduledEvent(interviewID, jobRequestID, candidateID, organizationID, actorID int64) *InterviewEvent {
	return newInterviewEvent(EventTypeInterviewScheduled, interviewID, jobRequestID, candidateID, organizationID, actorID, "scheduled")
}

func NewInterviewCancelledEvent(interviewID, jobRequestID, candidateID, organizationID, actorID int64) *InterviewEvent {
	return newInterviewEvent(EventTypeInterviewCancelled, interviewID, jobRequestID, candidateID, organizationID, actorID, "cancelled")
}

func NewInterviewUpdatedEvent(interviewID, jobRequestID, candidateID, organizationID, actorID int64, status string) *InterviewEvent {
	return newInterviewEvent(EventTypeInterviewUpdated, interviewID, jobRequestID, candidateID, organizationID, actorID, status)
}

type TicketEvent struct {
	BaseEvent
	TicketID   int64 `json:"ticket_id"`
	ActorID    int64 `json:"actor_id"`
	AssigneeID int64 `json:"assignee_id,omitempty"`
	CreatorID  int64 `json:"creator_id"`
}

func NewTicketAssignedEvent(ticketID, assigneeID, creatorID, actorID int64) *TicketEvent {
	return &TicketEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":   ticketID,
				"assignee_id": assigneeID,
				"creator_id":  creatorID,
				"actor_id":    actorID,
			},
		},
		TicketID:   ticketID,
		ActorID:    actorID,
		AssigneeID: assigneeID,
		CreatorID:  creatorID,
	}
}

func NewTicketRepliedEvent(ticketID, creatorID, actorID int64) *TicketEvent {
	return &TicketEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketReplied,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":  ticketID,
				"creator_id": creatorID,
				"actor_id":   actorID,
			},
		},
		TicketID:  ticketID,
		ActorID:   actorID,
		CreatorID: creatorID,
	}
}

type InvitationCreatedEvent struct {
	BaseEvent
	InvitationID   int64  `json:"invitation_id"`
	OrganizationID int64  `json:"organization_id"`
	Email          string `json:"email"`
	Token          string `json:"token"`
}

func NewInvitationCreatedEvent(invitationID, organizationID int64, email, token string) *InvitationCreatedEvent {
	return &InvitationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInvitationCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"invitation_id":   invitationID,
				"organization_id": organizationID,
				"email":           email,
			},
		},
		InvitationID:   invitationID,
		OrganizationID: organizationID,
		Email:          email,
		Token:          token,
	}
}
