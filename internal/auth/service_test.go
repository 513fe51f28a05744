package auth

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentgrid/hiring-management/internal"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockAuthRepository struct {
	usersByEmail  map[string]*userDatamodel.User
	usersByID     map[int64]*userDatamodel.User
	nextID        int64
	createdOrgs   []string
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	active := &userDatamodel.User{
		ID:           1,
		Email:        "coo@acme.example",
		Name:         "Acme COO",
		PasswordHash: string(hashedPassword),
		UserType:     userDatamodel.TypeClient,
		IsActive:     true,
	}
	inactive := &userDatamodel.User{
		ID:           2,
		Email:        "former@acme.example",
		Name:         "Former Employee",
		PasswordHash: string(hashedPassword),
		UserType:     userDatamodel.TypeClient,
		IsActive:     false,
	}

	return &mockAuthRepository{
		usersByEmail: map[string]*userDatamodel.User{
			active.Email:   active,
			inactive.Email: inactive,
		},
		usersByID: map[int64]*userDatamodel.User{
			active.ID:   active,
			inactive.ID: inactive,
		},
		nextID: 10,
	}
}

func (m *mockAuthRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if user, exists := m.usersByEmail[email]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockAuthRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if user, exists := m.usersByID[id]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockAuthRepository) CreateClientWithOrganization(user *userDatamodel.User, orgName string) (int64, error) {
	if m.returnError {
		return 0, m.errorToReturn
	}
	m.nextID++
	user.ID = m.nextID
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	m.createdOrgs = append(m.createdOrgs, orgName)
	return int64(len(m.createdOrgs)), nil
}

func (m *mockAuthRepository) CreateCandidate(user *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.nextID++
	user.ID = m.nextID
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost, logger)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "coo@acme.example",
				Password: "correct_password",
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())

			claims, err := tokenGen.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "coo@acme.example",
				Password: "wrong_password",
			})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject an unknown email with the same error as a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "nobody@acme.example",
				Password: "correct_password",
			})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject an inactive account even with the right password", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "former@acme.example",
				Password: "correct_password",
			})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
		})

		ginkgo.It("should reject a malformed email before touching the repository", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("repo should not be called")

			_, err := service.Authenticate(LoginDTO{
				Email:    "not-an-email",
				Password: "correct_password",
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate the pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "coo@acme.example",
				Password: "correct_password",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			rotated, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rotated.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(rotated.RefreshToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("should reject an access token used as a refresh token", func() {
			accessToken, err := tokenGen.GenerateAccessToken(1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(accessToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("should reject an expired refresh token", func() {
			expiredGen := NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, -time.Minute)
			refreshToken, err := expiredGen.GenerateRefreshToken(1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(refreshToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})

		ginkgo.It("should reject a refresh token for a deactivated account", func() {
			refreshToken, err := tokenGen.GenerateRefreshToken(2)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(refreshToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create a client together with their organization", func() {
			user, err := service.Register(RegisterDTO{
				Email:       "founder@globex.example",
				Password:    "password123",
				Name:        "Globex Founder",
				UserType:    userDatamodel.TypeClient,
				CompanyName: "Globex Corp",
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(user.UserType).To(gomega.Equal(userDatamodel.TypeClient))
			gomega.Expect(mockRepo.createdOrgs).To(gomega.ConsistOf("Globex Corp"))
		})

		ginkgo.It("should create a candidate without an organization", func() {
			user, err := service.Register(RegisterDTO{
				Email:    "dev@mail.example",
				Password: "password123",
				Name:     "Job Seeker",
				UserType: userDatamodel.TypeCandidate,
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.UserType).To(gomega.Equal(userDatamodel.TypeCandidate))
			gomega.Expect(mockRepo.createdOrgs).To(gomega.BeEmpty())
		})

		ginkgo.It("should store a bcrypt hash, never the raw password", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "dev@mail.example",
				Password: "password123",
				Name:     "Job Seeker",
				UserType: userDatamodel.TypeCandidate,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			stored := mockRepo.usersByEmail["dev@mail.example"]
			gomega.Expect(stored.PasswordHash).NotTo(gomega.Equal("password123"))
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123"))).To(gomega.Succeed())
		})

		ginkgo.It("should reject a duplicate email", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "coo@acme.example",
				Password: "password123",
				Name:     "Duplicate",
				UserType: userDatamodel.TypeCandidate,
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeDuplicateEmail))
		})

		ginkgo.It("should reject a client registration without a company name", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "founder@globex.example",
				Password: "password123",
				Name:     "Globex Founder",
				UserType: userDatamodel.TypeClient,
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("should reject self-registration of admin accounts", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "sneaky@mail.example",
				Password: "password123",
				Name:     "Sneaky",
				UserType: userDatamodel.TypeAdmin,
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("should reject a short password", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "dev@mail.example",
				Password: "short",
				Name:     "Job Seeker",
				UserType: userDatamodel.TypeCandidate,
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})
	})

	ginkgo.Describe("GetUser", func() {
		ginkgo.It("should return the caller identity", func() {
			user, err := service.GetUser(1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.Email).To(gomega.Equal("coo@acme.example"))
		})

		ginkgo.It("should return a not found error for an unknown ID", func() {
			_, err := service.GetUser(99999)

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeUserNotFound))
		})
	})
})
