package jobrequest_test

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
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
)

func TestJobRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "JobRequest Suite")
}

type mockJobRequestRepository struct {
	rows        map[int64]*jobRequestDatamodel.JobRequest
	nextID      int64
	createError error
	getError    error
}

func newMockJobRequestRepository() *mockJobRequestRepository {
	return &mockJobRequestRepository{
		rows:   make(map[int64]*jobRequestDatamodel.JobRequest),
		nextID: 1,
	}
}

func (m *mockJobRequestRepository) Create(ctx context.Context, row *jobRequestDatamodel.JobRequest) error {
	if m.createError != nil {
		return m.createError
	}
	row.ID = m.nextID
	m.nextID++
	m.rows[row.ID] = row
	return nil
}

func (m *mockJobRequestRepository) GetByID(ctx context.Context, id int64) (*jobRequestDatamodel.JobRequest, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return row, nil
}

func (m *mockJobRequestRepository) Update(ctx context.Context, row *jobRequestDatamodel.JobRequest) error {
	m.rows[row.ID] = row
	return nil
}

func (m *mockJobRequestRepository) SetStatus(ctx context.Context, id int64, status string) error {
	if row, ok := m.rows[id]; ok {
		row.Status = status
	}
	return nil
}

func (m *mockJobRequestRepository) SetAssignedHR(ctx context.Context, id, hrUserID int64, assignedAt time.Time) error {
	if row, ok := m.rows[id]; ok {
		row.AssignedToHRUserID = &hrUserID
		row.AssignedAt = &assignedAt
		row.Status = string(jobrequest.StatusAssignedToHR)
	}
	return nil
}

func (m *mockJobRequestRepository) ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var out []*jobRequestDatamodel.JobRequest
	for _, row := range m.rows {
		if row.OrganizationID == organizationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockJobRequestRepository) ListAssignedToHR(ctx context.Context, hrUserID int64, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var out []*jobRequestDatamodel.JobRequest
	for _, row := range m.rows {
		if row.AssignedToHRUserID != nil && *row.AssignedToHRUserID == hrUserID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockJobRequestRepository) ListAll(ctx context.Context, limit, offset int) ([]*jobRequestDatamodel.JobRequest, error) {
	var out []*jobRequestDatamodel.JobRequest
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *mockJobRequestRepository) CountByStatus(ctx context.Context, organizationID int64) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, row := range m.rows {
		if row.OrganizationID == organizationID {
			counts[row.Status]++
		}
	}
	return counts, nil
}

type mockCandidateStore struct {
	delivered    map[int64][]int64
	batchRows    []*candidateDatamodel.Candidate
	deliverError error
	nextID       int64
}

func newMockCandidateStore() *mockCandidateStore {
	return &mockCandidateStore{
		delivered: make(map[int64][]int64),
		nextID:    100,
	}
}

func (m *mockCandidateStore) ListUserIDsForJobRequest(ctx context.Context, jobRequestID int64) ([]int64, error) {
	return m.delivered[jobRequestID], nil
}

func (m *mockCandidateStore) DeliverBatch(ctx context.Context, jobRequestID int64, rows []*candidateDatamodel.Candidate, deliveredAt time.Time) error {
	if m.deliverError != nil {
		return m.deliverError
	}
	for _, row := range rows {
		row.ID = m.nextID
		m.nextID++
		if row.UserID != nil {
			m.delivered[jobRequestID] = append(m.delivered[jobRequestID], *row.UserID)
		}
	}
	m.batchRows = append(m.batchRows, rows...)
	return nil
}

type mockUserReader struct {
	users map[int64]*userDatamodel.User
}

func newMockUserReader() *mockUserReader {
	return &mockUserReader{users: make(map[int64]*userDatamodel.User)}
}

func (m *mockUserReader) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type mockAuthorizer struct {
	denyError error
	calls     []authz.Action
}

func (m *mockAuthorizer) Authorize(ctx context.Context, actor *auth.User, action authz.Action, scope authz.Scope) error {
	m.calls = append(m.calls, action)
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

var _ = Describe("JobRequestService", func() {
	var (
		service    *jobrequest.Service
		repo       *mockJobRequestRepository
		candidates *mockCandidateStore
		users      *mockUserReader
		authorizer *mockAuthorizer
		bus        *mockEventBus
		ctx        context.Context

		adminActor  *auth.User
		clientActor *auth.User
		hrActor     *auth.User
	)

	BeforeEach(func() {
		repo = newMockJobRequestRepository()
		candidates = newMockCandidateStore()
		users = newMockUserReader()
		authorizer = &mockAuthorizer{}
		bus = &mockEventBus{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = jobrequest.NewService(repo, candidates, users, authorizer, bus, logger)
		ctx = context.Background()

		adminActor = &auth.User{ID: 1, UserType: "admin", IsActive: true}
		clientActor = &auth.User{ID: 2, UserType: "client", IsActive: true}
		hrActor = &auth.User{ID: 3, UserType: "hr", IsActive: true}

		users.users[3] = &userDatamodel.User{ID: 3, Name: "Recruiter", Email: "hr@x.io", UserType: "hr"}
	})

	seedJobRequest := func(status string) *jobRequestDatamodel.JobRequest {
		row := &jobRequestDatamodel.JobRequest{
			OrganizationID: 10,
			RequesterID:    clientActor.ID,
			Title:          "Backend Engineer",
			Priority:       "medium",
			Status:         status,
		}
		Expect(repo.Create(ctx, row)).To(Succeed())
		return row
	}

	Describe("Create", func() {
		It("creates the job request in received status and publishes an event", func() {
			result, err := service.Create(ctx, clientActor, 10, jobrequest.CreateJobRequestDTO{
				Title: "Backend Engineer",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(jobrequest.StatusReceived))
			Expect(result.Priority).To(Equal("medium"))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeJobRequestCreated))
		})

		It("rejects a missing title", func() {
			_, err := service.Create(ctx, clientActor, 10, jobrequest.CreateJobRequestDTO{})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("propagates an authorization denial", func() {
			authorizer.denyError = internal.NewForbiddenError("no", internal.ErrCodeNoMembership)

			_, err := service.Create(ctx, clientActor, 10, jobrequest.CreateJobRequestDTO{Title: "x"})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNoMembership))
			Expect(bus.published).To(BeEmpty())
		})
	})

	Describe("UpdateStatus", func() {
		It("rejects an illegal transition", func() {
			row := seedJobRequest(string(jobrequest.StatusReceived))

			_, err := service.UpdateStatus(ctx, adminActor, row.ID, jobrequest.UpdateStatusDTO{
				Status: string(jobrequest.StatusHired),
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeIllegalTransition))
		})

		It("rejects an unknown status", func() {
			row := seedJobRequest(string(jobrequest.StatusReceived))

			_, err := service.UpdateStatus(ctx, adminActor, row.ID, jobrequest.UpdateStatusDTO{
				Status: "on_hold",
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})

		It("rejects statuses owned by dedicated operations", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))

			_, err := service.UpdateStatus(ctx, hrActor, row.ID, jobrequest.UpdateStatusDTO{
				Status: string(jobrequest.StatusCandidatesDelivered),
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})

		It("lets the assigned HR start shortlisting", func() {
			row := seedJobRequest(string(jobrequest.StatusAssignedToHR))

			result, err := service.UpdateStatus(ctx, hrActor, row.ID, jobrequest.UpdateStatusDTO{
				Status: string(jobrequest.StatusShortlisting),
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(jobrequest.StatusShortlisting))
		})

		It("blocks HR from marking a hire", func() {
			row := seedJobRequest(string(jobrequest.StatusSelectionPending))

			_, err := service.UpdateStatus(ctx, hrActor, row.ID, jobrequest.UpdateStatusDTO{
				Status: string(jobrequest.StatusHired),
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientRole))
		})
	})

	Describe("AssignHR", func() {
		It("assigns an HR user and flips the status", func() {
			row := seedJobRequest(string(jobrequest.StatusReceived))

			result, err := service.AssignHR(ctx, adminActor, row.ID, jobrequest.AssignHRDTO{HRUserID: 3})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(jobrequest.StatusAssignedToHR))
			Expect(result.AssignedToHRUserID).ToNot(BeNil())
			Expect(*result.AssignedToHRUserID).To(Equal(int64(3)))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeHRAssigned))
		})

		It("overwrites an existing assignment without a transition error", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))
			prev := int64(99)
			row.AssignedToHRUserID = &prev

			result, err := service.AssignHR(ctx, adminActor, row.ID, jobrequest.AssignHRDTO{HRUserID: 3})

			Expect(err).ToNot(HaveOccurred())
			Expect(*result.AssignedToHRUserID).To(Equal(int64(3)))
			Expect(result.Status).To(Equal(jobrequest.StatusAssignedToHR))
		})

		It("rejects a non-HR assignee", func() {
			row := seedJobRequest(string(jobrequest.StatusReceived))
			users.users[5] = &userDatamodel.User{ID: 5, UserType: "client"}

			_, err := service.AssignHR(ctx, adminActor, row.ID, jobrequest.AssignHRDTO{HRUserID: 5})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("PushCandidates", func() {
		seedCandidateUsers := func(ids ...int64) {
			for _, id := range ids {
				users.users[id] = &userDatamodel.User{
					ID:       id,
					Name:     "Candidate",
					Email:    "cand@mail.io",
					UserType: "candidate",
				}
			}
		}

		It("delivers new candidates with snapshot fields", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))
			seedCandidateUsers(20, 21)

			result, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{20, 21},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Candidates).To(HaveLen(2))
			Expect(result.Candidates[0].Status).To(Equal("delivered"))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTypeCandidatesDelivered))
		})

		It("caps a single push at five candidates", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))

			_, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{20, 21, 22, 23, 24, 25},
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("skips candidates already delivered to the same job request", func() {
			row := seedJobRequest(string(jobrequest.StatusCandidatesDelivered))
			seedCandidateUsers(20, 21)
			candidates.delivered[row.ID] = []int64{20}

			result, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{20, 21},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Candidates).To(HaveLen(1))
			Expect(*result.Candidates[0].UserID).To(Equal(int64(21)))
		})

		It("succeeds with an empty list when every id is a duplicate", func() {
			row := seedJobRequest(string(jobrequest.StatusCandidatesDelivered))
			candidates.delivered[row.ID] = []int64{20, 21}

			result, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{20, 21},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Candidates).To(BeEmpty())
			Expect(result.Message).To(ContainSubstring("already delivered"))
			Expect(bus.published).To(BeEmpty())
		})

		It("deduplicates repeated ids within one call", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))
			seedCandidateUsers(20)

			result, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{20, 20, 20},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Candidates).To(HaveLen(1))
		})

		It("rejects a non-candidate user id", func() {
			row := seedJobRequest(string(jobrequest.StatusShortlisting))
			users.users[30] = &userDatamodel.User{ID: 30, UserType: "client"}

			_, err := service.PushCandidates(ctx, hrActor, row.ID, jobrequest.PushCandidatesDTO{
				CandidateUserIDs: []int64{30},
			})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("Statistics", func() {
		It("returns zero buckets for an empty organization", func() {
			view, err := service.Statistics(ctx, adminActor, 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Total).To(Equal(int64(0)))
			Expect(view.ByStatus).To(HaveLen(len(jobrequest.AllStatuses)))
			for _, count := range view.ByStatus {
				Expect(count).To(Equal(int64(0)))
			}
		})

		It("counts per pipeline status", func() {
			seedJobRequest(string(jobrequest.StatusReceived))
			seedJobRequest(string(jobrequest.StatusReceived))
			seedJobRequest(string(jobrequest.StatusHired))

			view, err := service.Statistics(ctx, adminActor, 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(view.Total).To(Equal(int64(3)))
			Expect(view.ByStatus[string(jobrequest.StatusReceived)]).To(Equal(int64(2)))
			Expect(view.ByStatus[string(jobrequest.StatusHired)]).To(Equal(int64(1)))
		})
	})
})
