package postgres

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
)

func TestJobRequestRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "JobRequestRepository Suite")
}

type SQLiteJobRequest struct {
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

func (SQLiteJobRequest) TableName() string {
	return "job_requests"
}

var _ = Describe("JobRequestRepository", func() {
	var (
		db   *gorm.DB
		repo jobrequest.Repository
		ctx  context.Context
	)

	newJobRequest := func(orgID int64, status string) *jobRequestDatamodel.JobRequest {
		return &jobRequestDatamodel.JobRequest{
			OrganizationID: orgID,
			RequesterID:    7,
			Title:          "Senior Backend Engineer",
			JobDescription: "Build and operate services",
			Status:         status,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteJobRequest{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewJobRequestRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should create a job request and assign an ID", func() {
			row := newJobRequest(1, "received")

			err := repo.Create(ctx, row)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ID).To(BeNumerically(">", 0))
		})
	})

	Describe("GetByID", func() {
		var created *jobRequestDatamodel.JobRequest

		BeforeEach(func() {
			created = newJobRequest(1, "received")
			err := repo.Create(ctx, created)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should retrieve the job request by ID", func() {
			retrieved, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved).NotTo(BeNil())
			Expect(retrieved.ID).To(Equal(created.ID))
			Expect(retrieved.Title).To(Equal(created.Title))
			Expect(retrieved.Status).To(Equal("received"))
		})

		It("should return gorm.ErrRecordNotFound for a missing ID", func() {
			retrieved, err := repo.GetByID(ctx, 99999)
			Expect(err).To(MatchError(gorm.ErrRecordNotFound))
			Expect(retrieved).To(BeNil())
		})
	})

	Describe("SetStatus", func() {
		var created *jobRequestDatamodel.JobRequest

		BeforeEach(func() {
			created = newJobRequest(1, "assigned_to_hr")
			err := repo.Create(ctx, created)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should persist the new status", func() {
			err := repo.SetStatus(ctx, created.ID, "shortlisting")
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal("shortlisting"))
		})
	})

	Describe("SetAssignedHR", func() {
		var created *jobRequestDatamodel.JobRequest

		BeforeEach(func() {
			created = newJobRequest(1, "received")
			err := repo.Create(ctx, created)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should record the assignment and flip status to assigned_to_hr", func() {
			assignedAt := time.Now()

			err := repo.SetAssignedHR(ctx, created.ID, 42, assignedAt)
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.AssignedToHRUserID).NotTo(BeNil())
			Expect(*retrieved.AssignedToHRUserID).To(Equal(int64(42)))
			Expect(retrieved.AssignedAt).NotTo(BeNil())
			Expect(retrieved.AssignedAt.Unix()).To(Equal(assignedAt.Unix()))
			Expect(retrieved.Status).To(Equal("assigned_to_hr"))
		})

		It("should overwrite a previous assignment", func() {
			err := repo.SetAssignedHR(ctx, created.ID, 42, time.Now())
			Expect(err).NotTo(HaveOccurred())

			err = repo.SetAssignedHR(ctx, created.ID, 43, time.Now())
			Expect(err).NotTo(HaveOccurred())

			retrieved, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*retrieved.AssignedToHRUserID).To(Equal(int64(43)))
		})
	})

	Describe("ListByOrganization", func() {
		BeforeEach(func() {
			for i := 0; i < 3; i++ {
				row := newJobRequest(1, "received")
				row.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
				Expect(repo.Create(ctx, row)).To(Succeed())
			}
			Expect(repo.Create(ctx, newJobRequest(2, "received"))).To(Succeed())
		})

		It("should only return rows for the requested organization", func() {
			rows, err := repo.ListByOrganization(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			for _, row := range rows {
				Expect(row.OrganizationID).To(Equal(int64(1)))
			}
		})

		It("should order newest first and honor limit and offset", func() {
			rows, err := repo.ListByOrganization(ctx, 1, 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].CreatedAt.After(rows[1].CreatedAt)).To(BeTrue())

			rest, err := repo.ListByOrganization(ctx, 1, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(HaveLen(1))
		})
	})

	Describe("ListAssignedToHR", func() {
		It("should only return requests assigned to the given HR user", func() {
			assigned := newJobRequest(1, "received")
			Expect(repo.Create(ctx, assigned)).To(Succeed())
			Expect(repo.SetAssignedHR(ctx, assigned.ID, 42, time.Now())).To(Succeed())

			other := newJobRequest(1, "received")
			Expect(repo.Create(ctx, other)).To(Succeed())

			rows, err := repo.ListAssignedToHR(ctx, 42, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(assigned.ID))
		})
	})

	Describe("CountByStatus", func() {
		BeforeEach(func() {
			Expect(repo.Create(ctx, newJobRequest(1, "received"))).To(Succeed())
			Expect(repo.Create(ctx, newJobRequest(1, "received"))).To(Succeed())
			Expect(repo.Create(ctx, newJobRequest(1, "shortlisting"))).To(Succeed())
			Expect(repo.Create(ctx, newJobRequest(2, "received"))).To(Succeed())
		})

		It("should bucket counts per status for one organization", func() {
			counts, err := repo.CountByStatus(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(HaveKeyWithValue("received", int64(2)))
			Expect(counts).To(HaveKeyWithValue("shortlisting", int64(1)))
			Expect(counts).NotTo(HaveKey("hired"))
		})

		It("should return an empty map when the organization has no requests", func() {
			counts, err := repo.CountByStatus(ctx, 99)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(BeEmpty())
		})
	})
})
