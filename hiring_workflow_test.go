package main_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/authz"
	authzPostgres "github.com/talentgrid/hiring-management/internal/authz/postgres"
	"github.com/talentgrid/hiring-management/internal/candidate"
	candidatePostgres "github.com/talentgrid/hiring-management/internal/candidate/postgres"
	orgDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/organization"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
	"github.com/talentgrid/hiring-management/internal/core/events"
	"github.com/talentgrid/hiring-management/internal/interview"
	interviewPostgres "github.com/talentgrid/hiring-management/internal/interview/postgres"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
	jobRequestPostgres "github.com/talentgrid/hiring-management/internal/jobrequest/postgres"
	"github.com/talentgrid/hiring-management/internal/sitestaff"
	sitestaffPostgres "github.com/talentgrid/hiring-management/internal/sitestaff/postgres"
	userPostgres "github.com/talentgrid/hiring-management/internal/user/postgres"
)

type SQLiteWorkflowUser struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	UserType     string    `gorm:"column:user_type;not null"`
	Phone        string    `gorm:"column:phone"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	LinkedinURL  string    `gorm:"column:linkedin_url"`
	PortfolioURL string    `gorm:"column:portfolio_url"`
	ResumeURL    string    `gorm:"column:resume_url"`
	CompanyName  string    `gorm:"column:company_name"`
	CompanyTitle string    `gorm:"column:company_title"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkflowUser) TableName() string { return "users" }

type SQLiteWorkflowOrganization struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Industry  string    `gorm:"column:industry"`
	Website   string    `gorm:"column:website"`
	Status    string    `gorm:"column:status;default:'active'"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkflowOrganization) TableName() string { return "organizations" }

type SQLiteWorkflowMembership struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null"`
	OrganizationID int64     `gorm:"column:organization_id;not null"`
	Role           string    `gorm:"column:role;not null"`
	IsPrimary      bool      `gorm:"column:is_primary;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkflowMembership) TableName() string { return "user_organizations" }

type SQLiteWorkflowJobRequest struct {
	ID                    int64      `gorm:"primaryKey"`
	OrganizationID        int64      `gorm:"column:organization_id;not null"`
	DepartmentID          *int64     `gorm:"column:department_id"`
	RequesterID           int64      `gorm:"column:requester_id;not null"`
	HiringManagerUserID   *int64     `gorm:"column:hiring_manager_user_id"`
	AssignedToHRUserID    *int64     `gorm:"column:assigned_to_hr_user_id"`
	Title                 string     `gorm:"column:title;not null"`
	JobDescription        string     `gorm:"column:job_description"`
	Requirements          string     `gorm:"column:requirements"`
	TimelineToHire        string     `gorm:"column:timeline_to_hire"`
	Priority              string     `gorm:"column:priority;default:'medium'"`
	Status                string     `gorm:"column:status;default:'received'"`
	AssignedAt            *time.Time `gorm:"column:assigned_at"`
	CandidatesDeliveredAt *time.Time `gorm:"column:candidates_delivered_at"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (SQLiteWorkflowJobRequest) TableName() string { return "job_requests" }

type SQLiteWorkflowCandidate struct {
	ID           int64     `gorm:"primaryKey"`
	JobRequestID int64     `gorm:"column:job_request_id;not null"`
	UserID       *int64    `gorm:"column:user_id"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null"`
	Phone        string    `gorm:"column:phone"`
	LinkedinURL  string    `gorm:"column:linkedin_url"`
	PortfolioURL string    `gorm:"column:portfolio_url"`
	ResumeURL    string    `gorm:"column:resume_url"`
	Status       string    `gorm:"column:status;default:'delivered'"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkflowCandidate) TableName() string { return "candidates" }

type SQLiteWorkflowInterview struct {
	ID              int64     `gorm:"primaryKey"`
	JobRequestID    int64     `gorm:"column:job_request_id;not null"`
	CandidateID     int64     `gorm:"column:candidate_id;not null"`
	ScheduledAt     time.Time `gorm:"column:scheduled_at;not null"`
	DurationMinutes int       `gorm:"column:duration_minutes;default:60"`
	MeetingLink     string    `gorm:"column:meeting_link"`
	MeetingPlatform string    `gorm:"column:meeting_platform"`
	Notes           string    `gorm:"column:notes"`
	Status          string    `gorm:"column:status;default:'scheduled'"`
	CreatedByID     int64     `gorm:"column:created_by_id;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (SQLiteWorkflowInterview) TableName() string { return "interviews" }

type SQLiteWorkflowParticipant struct {
	ID          int64     `gorm:"primaryKey"`
	InterviewID int64     `gorm:"column:interview_id;not null"`
	UserID      int64     `gorm:"column:user_id;not null"`
	Role        string    `gorm:"column:role;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (SQLiteWorkflowParticipant) TableName() string { return "interview_participants" }

type SQLiteWorkflowSiteStaff struct {
	ID             int64      `gorm:"primaryKey"`
	UserID         int64      `gorm:"column:user_id;not null"`
	OrganizationID int64      `gorm:"column:organization_id;not null"`
	JobRequestID   *int64     `gorm:"column:job_request_id"`
	Position       string     `gorm:"column:position"`
	Status         string     `gorm:"column:status;default:'active'"`
	StartedAt      time.Time  `gorm:"column:started_at"`
	ResignedAt     *time.Time `gorm:"column:resigned_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (SQLiteWorkflowSiteStaff) TableName() string { return "site_staff" }

// Walks one job request through the whole pipeline against real
// repositories, the real resolver and the real cascades.
var _ = Describe("Hiring workflow", func() {
	var (
		db  *gorm.DB
		ctx context.Context

		jobRequestService *jobrequest.Service
		candidateService  *candidate.Service
		interviewService  *interview.Service
		siteStaffService  *sitestaff.Service

		org       *orgDatamodel.Organization
		client    *auth.User
		admin     *auth.User
		hr        *auth.User
		seekerIDs []int64
	)

	seedUser := func(email, name, userType string) *userDatamodel.User {
		row := &userDatamodel.User{
			Email:        email,
			Name:         name,
			PasswordHash: "x",
			UserType:     userType,
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		Expect(db.Create(row).Error).NotTo(HaveOccurred())
		return row
	}

	asActor := func(u *userDatamodel.User) *auth.User {
		return &auth.User{ID: u.ID, Email: u.Email, Name: u.Name, UserType: u.UserType, IsActive: true}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteWorkflowUser{},
			&SQLiteWorkflowOrganization{},
			&SQLiteWorkflowMembership{},
			&SQLiteWorkflowJobRequest{},
			&SQLiteWorkflowCandidate{},
			&SQLiteWorkflowInterview{},
			&SQLiteWorkflowParticipant{},
			&SQLiteWorkflowSiteStaff{},
		)
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(logger)

		jobRequestRepo := jobRequestPostgres.NewJobRequestRepository(db)
		candidateRepo := candidatePostgres.NewCandidateRepository(db)
		interviewRepo := interviewPostgres.NewInterviewRepository(db)
		siteStaffRepo := sitestaffPostgres.NewSiteStaffRepository(db)
		userRepo := userPostgres.NewUserRepository(db)
		membershipRepo := authzPostgres.NewMembershipRepository(db)

		resolver := authz.NewResolver(membershipRepo, logger)
		siteStaffService = sitestaff.NewService(siteStaffRepo, logger)
		jobRequestService = jobrequest.NewService(jobRequestRepo, candidateRepo, userRepo, resolver, bus, logger)
		candidateService = candidate.NewService(candidateRepo, jobRequestRepo, siteStaffService, resolver, bus, logger)
		interviewService = interview.NewService(interviewRepo, candidateRepo, jobRequestRepo, resolver, bus, logger)

		org = &orgDatamodel.Organization{
			Name:      "Acme Corp",
			Status:    "active",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		Expect(db.Create(org).Error).NotTo(HaveOccurred())

		clientUser := seedUser("coo@acme.example", "Acme COO", userDatamodel.TypeClient)
		Expect(db.Create(&orgDatamodel.Membership{
			UserID:         clientUser.ID,
			OrganizationID: org.ID,
			Role:           orgDatamodel.RoleCOO,
			IsPrimary:      true,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}).Error).NotTo(HaveOccurred())

		adminUser := seedUser("admin@talentgrid.io", "Platform Admin", userDatamodel.TypeAdmin)
		hrUser := seedUser("hr.one@talentgrid.io", "HR One", userDatamodel.TypeHR)

		client = asActor(clientUser)
		admin = asActor(adminUser)
		hr = asActor(hrUser)

		seekerIDs = nil
		for _, seed := range []struct{ email, name string }{
			{"ayu@mail.example", "Ayu Lestari"},
			{"budi@mail.example", "Budi Santoso"},
		} {
			row := seedUser(seed.email, seed.name, userDatamodel.TypeCandidate)
			seekerIDs = append(seekerIDs, row.ID)
		}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("walks a job request from intake to a hired placement", func() {
		By("the client creating a job request")
		created, err := jobRequestService.Create(ctx, client, org.ID, jobrequest.CreateJobRequestDTO{
			Title:          "Site Supervisor",
			JobDescription: "Run the night shift",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.Status).To(Equal(jobrequest.StatusReceived))

		By("an admin assigning an HR user")
		assigned, err := jobRequestService.AssignHR(ctx, admin, created.ID, jobrequest.AssignHRDTO{HRUserID: hr.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(assigned.Status).To(Equal(jobrequest.StatusAssignedToHR))
		Expect(*assigned.AssignedToHRUserID).To(Equal(hr.ID))

		By("the assigned HR starting shortlisting")
		shortlisting, err := jobRequestService.UpdateStatus(ctx, hr, created.ID, jobrequest.UpdateStatusDTO{Status: "shortlisting"})
		Expect(err).NotTo(HaveOccurred())
		Expect(shortlisting.Status).To(Equal(jobrequest.StatusShortlisting))

		By("the assigned HR pushing candidates")
		delivery, err := jobRequestService.PushCandidates(ctx, hr, created.ID, jobrequest.PushCandidatesDTO{
			CandidateUserIDs: seekerIDs,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(delivery.Candidates).To(HaveLen(2))

		delivered, err := jobRequestService.GetByID(ctx, client, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(delivered.Status).To(Equal(jobrequest.StatusCandidatesDelivered))
		Expect(delivered.CandidatesDeliveredAt).NotTo(BeNil())

		By("the client reading a candidate, which marks it viewed")
		pick := delivery.Candidates[0]
		viewed, err := candidateService.GetByID(ctx, client, pick.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(viewed.Status).To(Equal(candidate.StatusViewed))

		By("the client scheduling an interview")
		scheduled, err := interviewService.Create(ctx, client, &interview.CreateInterviewDTO{
			JobRequestID:       created.ID,
			CandidateID:        pick.ID,
			ScheduledAt:        time.Now().Add(72 * time.Hour).Format(time.RFC3339),
			DurationMinutes:    45,
			MeetingPlatform:    "meet",
			ParticipantUserIDs: []int64{hr.ID},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(scheduled.Status).To(Equal(interview.StatusScheduled))
		Expect(scheduled.CreatedByID).To(Equal(client.ID))

		inInterview, err := candidateService.GetByID(ctx, client, pick.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(inInterview.Status).To(Equal(candidate.StatusInterviewScheduled))

		afterCascade, err := jobRequestService.GetByID(ctx, client, created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(afterCascade.Status).To(Equal(jobrequest.StatusInterviewsScheduled))

		By("the client selecting the candidate")
		selected, err := candidateService.UpdateStatus(ctx, client, pick.ID, candidate.UpdateStatusDTO{Status: "selected"})
		Expect(err).NotTo(HaveOccurred())
		Expect(selected.Status).To(Equal(candidate.StatusSelected))

		By("the hire materializing a site staff record")
		hired, err := candidateService.UpdateStatus(ctx, client, pick.ID, candidate.UpdateStatusDTO{Status: "hired"})
		Expect(err).NotTo(HaveOccurred())
		Expect(hired.Status).To(Equal(candidate.StatusHired))

		placed, err := siteStaffService.HasActiveRecord(ctx, *pick.UserID)
		Expect(err).NotTo(HaveOccurred())
		Expect(placed).To(BeTrue())

		By("the passed-over candidate still being readable, moving only to viewed")
		other, err := candidateService.GetByID(ctx, client, delivery.Candidates[1].ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Status).To(Equal(candidate.StatusViewed))
	})
})
