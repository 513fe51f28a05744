package interview_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	interviewDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/interview"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	"github.com/talentgrid/hiring-management/internal/core/events"
	"github.com/talentgrid/hiring-management/internal/interview"
)

func TestInterview(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Interview Suite")
}

type mockInterviewRepository struct {
	rows           map[int64]*interviewDatamodel.Interview
	participants   map[int64][]*interviewDatamodel.Participant
	nextID         int64
	cascadeCalls   int
	markedJob      bool
	cascadeError   error
	removedUserIDs []int64
}

func newMockInterviewRepository() *mockInterviewRepository {
	return &mockInterviewRepository{
		rows:         make(map[int64]*interviewDatamodel.Interview),
		participants: make(map[int64][]*interviewDatamodel.Participant),
		nextID:       1,
	}
}

func (m *mockInterviewRepository) ScheduleCascade(ctx context.Context, row *interviewDatamodel.Interview, participants []*interviewDatamodel.Participant, markJobRequest bool) error {
	if m.cascadeError != nil {
		return m.cascadeError
	}
	m.cascadeCalls++
	m.markedJob = markJobRequest
	row.ID = m.nextID
	m.nextID++
	m.rows[row.ID] = row
	for _, p := range participants {
		p.InterviewID = row.ID
	}
	m.participants[row.ID] = participants
	return nil
}

func (m *mockInterviewRepository) GetByID(ctx context.Context, id int64) (*interviewDatamodel.Interview, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return row, nil
}

func (m *mockInterviewRepository) Update(ctx context.Context, row *interviewDatamodel.Interview) error {
	m.rows[row.ID] = row
	return nil
}

func (m *mockInterviewRepository) List(ctx context.Context, filter interview.Filter, limit, offset int) ([]*interviewDatamodel.Interview, error) {
	var out []*interviewDatamodel.Interview
	for _, row := range m.rows {
		if filter.ParticipantUserID != nil {
			found := false
			for _, p := range m.participants[row.ID] {
				if p.UserID == *filter.ParticipantUserID {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *mockInterviewRepository) ListParticipants(ctx context.Context, interviewID int64) ([]*interviewDatamodel.Participant, error) {
	return m.participants[interviewID], nil
}

func (m *mockInterviewRepository) AddParticipant(ctx context.Context, row *interviewDatamodel.Participant) error {
	m.participants[row.InterviewID] = append(m.participants[row.InterviewID], row)
	return nil
}

func (m *mockInterviewRepository) RemoveParticipant(ctx context.Context, interviewID, userID int64) error {
	m.removedUserIDs = append(m.removedUserIDs, userID)
	kept := m.participants[interviewID][:0]
	for _, p := range m.participants[interviewID] {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	m.participants[interviewID] = kept
	return nil
}

type mockCandidateReader struct {
	rows map[int64]*candidateDatamodel.Candidate
}

func (m *mockCandidateReader) GetByID(ctx context.Context, id int64) (*candidateDatamodel.Candidate, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return row, nil
}

type mockJobRequestReader struct {
	rows map[int64]*jobRequestDatamodel.JobRequest
}

func (m *mockJobRequestReader) GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return row, nil
}

type mockAuthorizer struct {
	denyError error
	calls     int
}

func (m *mockAuthorizer) Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error {
	m.calls++
	return m.denyError
}

type mockEventBus struct {
	published []events.Event
}

func (m *mockEventBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockEventBus) typesPublished() []string {
	types := make([]string, len(m.published))
	for i, e := range m.published {
		types[i] = e.EventType()
	}
	return types
}

var _ = Describe("InterviewService", func() {
	var (
		service     *interview.Service
		repo        *mockInterviewRepository
		candidates  *mockCandidateReader
		jobRequests *mockJobRequestReader
		authorizer  *mockAuthorizer
		bus         *mockEventBus
		ctx         context.Context
		actor       *auth.User
	)

	scheduledAt := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	BeforeEach(func() {
		repo = newMockInterviewRepository()
		candidates = &mockCandidateReader{rows: map[int64]*candidateDatamodel.Candidate{
			5: {ID: 5, JobRequestID: 1, Status: "viewed"},
		}}
		jobRequests = &mockJobRequestReader{rows: map[int64]*jobRequestDatamodel.JobRequest{
			1: {ID: 1, OrganizationID: 10, Title: "Backend Engineer", Status: "candidates_delivered"},
		}}
		authorizer = &mockAuthorizer{}
		bus = &mockEventBus{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = interview.NewService(repo, candidates, jobRequests, authorizer, bus, logger)
		ctx = context.Background()
		actor = &auth.User{ID: 2, UserType: "client", IsActive: true}
	})

	Describe("Create", func() {
		It("schedules the cascade and flips the job request", func() {
			result, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(interview.StatusScheduled))
			Expect(result.DurationMinutes).To(Equal(60))
			Expect(repo.cascadeCalls).To(Equal(1))
			Expect(repo.markedJob).To(BeTrue())
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeInterviewScheduled))
		})

		It("does not flip a job request already in interviews_scheduled", func() {
			jobRequests.rows[1].Status = "interviews_scheduled"
			candidates.rows[5].Status = "interview_scheduled"

			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.markedJob).To(BeFalse())
		})

		It("rejects a job request that has no delivered candidates yet", func() {
			jobRequests.rows[1].Status = "shortlisting"

			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
			Expect(repo.cascadeCalls).To(Equal(0))
		})

		It("rejects a candidate belonging to another job request before any write", func() {
			candidates.rows[5].JobRequestID = 99

			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			Expect(repo.cascadeCalls).To(Equal(0))
		})

		It("rejects a naive datetime without an offset", func() {
			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  "2026-09-15T10:00:00",
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("makes the creator the sole organizer and deduplicates attendees", func() {
			result, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID:       1,
				CandidateID:        5,
				ScheduledAt:        scheduledAt,
				ParticipantUserIDs: []int64{actor.ID, 7, 7, 8},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Participants).To(HaveLen(3))

			organizers := 0
			for _, p := range result.Participants {
				if p.Role == "organizer" {
					organizers++
					Expect(p.UserID).To(Equal(actor.ID))
				}
			}
			Expect(organizers).To(Equal(1))
		})

		It("rejects a rejected candidate", func() {
			candidates.rows[5].Status = "rejected"

			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})

	Describe("Update", func() {
		var interviewID int64

		BeforeEach(func() {
			result, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})
			Expect(err).ToNot(HaveOccurred())
			interviewID = result.ID
			bus.published = nil
		})

		It("moves scheduled to confirmed and publishes an update event", func() {
			status := "confirmed"
			result, err := service.Update(ctx, actor, interviewID, &interview.UpdateInterviewDTO{Status: &status})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(interview.StatusConfirmed))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeInterviewUpdated))
		})

		It("publishes a distinct event on cancellation", func() {
			status := "cancelled"
			_, err := service.Update(ctx, actor, interviewID, &interview.UpdateInterviewDTO{Status: &status})

			Expect(err).ToNot(HaveOccurred())
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeInterviewCancelled))
		})

		It("rejects reopening a completed interview", func() {
			status := "completed"
			_, err := service.Update(ctx, actor, interviewID, &interview.UpdateInterviewDTO{Status: &status})
			Expect(err).ToNot(HaveOccurred())

			status = "scheduled"
			_, err = service.Update(ctx, actor, interviewID, &interview.UpdateInterviewDTO{Status: &status})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})
	})

	Describe("Participants", func() {
		var interviewID int64

		BeforeEach(func() {
			result, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID:       1,
				CandidateID:        5,
				ScheduledAt:        scheduledAt,
				ParticipantUserIDs: []int64{7},
			})
			Expect(err).ToNot(HaveOccurred())
			interviewID = result.ID
		})

		It("adds an attendee", func() {
			result, err := service.AddParticipant(ctx, actor, interviewID, interview.AddParticipantDTO{UserID: 8})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Participants).To(HaveLen(3))
		})

		It("is a no-op for an existing participant", func() {
			result, err := service.AddParticipant(ctx, actor, interviewID, interview.AddParticipantDTO{UserID: 7})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Participants).To(HaveLen(2))
		})

		It("removes an attendee", func() {
			result, err := service.RemoveParticipant(ctx, actor, interviewID, 7)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Participants).To(HaveLen(1))
			Expect(repo.removedUserIDs).To(ConsistOf(int64(7)))
		})

		It("refuses to remove the organizer", func() {
			_, err := service.RemoveParticipant(ctx, actor, interviewID, actor.ID)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			Expect(repo.removedUserIDs).To(BeEmpty())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, actor, &interview.CreateInterviewDTO{
				JobRequestID: 1,
				CandidateID:  5,
				ScheduledAt:  scheduledAt,
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("narrows candidate callers to their own participation", func() {
			candidateActor := &auth.User{ID: 77, UserType: "candidate", IsActive: true}

			result, err := service.List(ctx, candidateActor, interview.Filter{}, 20, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(BeEmpty())
		})

		It("requires organization_id for client callers", func() {
			_, err := service.List(ctx, actor, interview.Filter{}, 20, 0)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("gives admins the unrestricted filter", func() {
			admin := &auth.User{ID: 1, UserType: "admin", IsActive: true}

			result, err := service.List(ctx, admin, interview.Filter{}, 20, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
		})
	})
})
