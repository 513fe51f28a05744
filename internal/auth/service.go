package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentgrid/hiring-management/internal"
	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

type Repository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	// CreateClientWithOrganization creates the user, the organization and
	// the coo membership in one transaction.
	CreateClientWithOrganization(user *userDatamodel.User, orgName string) (orgID int64, err error)
	CreateCandidate(user *userDatamodel.User) error
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and returns a token pair.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login rejected for inactive account", "user_id", user.ID)
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(user.ID)
}

// RefreshTokens validates a refresh token and rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !user.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issueTokens(user.ID)
}

func (s *Service) issueTokens(userID int64) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a client or candidate account. Registering a client
// also creates their organization and coo membership atomically.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("An account with this email already exists", internal.ErrCodeDuplicateEmail)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	record := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		UserType:     dto.UserType,
		Phone:        dto.Phone,
		IsActive:     true,
		LinkedinURL:  dto.LinkedinURL,
		PortfolioURL: dto.PortfolioURL,
		ResumeURL:    dto.ResumeURL,
		CompanyName:  dto.CompanyName,
		CompanyTitle: dto.CompanyTitle,
	}

	switch dto.UserType {
	case userDatamodel.TypeClient:
		orgID, err := s.repo.CreateClientWithOrganization(record, dto.CompanyName)
		if err != nil {
			s.logger.Error("client registration failed", "error", err, "email", dto.Email)
			return nil, internal.NewInternalError("failed to register client", err)
		}
		s.logger.Info("client registered",
			"user_id", record.ID,
			"organization_id", orgID)
	case userDatamodel.TypeCandidate:
		if err := s.repo.CreateCandidate(record); err != nil {
			s.logger.Error("candidate registration failed", "error", err, "email", dto.Email)
			return nil, internal.NewInternalError("failed to register candidate", err)
		}
		s.logger.Info("candidate registered", "user_id", record.ID)
	}

	return &User{
		ID:       record.ID,
		Email:    record.Email,
		Name:     record.Name,
		UserType: record.UserType,
		IsActive: record.IsActive,
	}, nil
}

// GetUser loads the caller identity for middleware and /users/me.
func (s *Service) GetUser(userID int64) (*User, error) {
	record, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	return &User{
		ID:       record.ID,
		Email:    record.Email,
		Name:     record.Name,
		UserType: record.UserType,
		IsActive: record.IsActive,
	}, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID int64) (string, error) {
	return j.sign(userID, j.AccessTokenSecret, j.AccessTokenTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID int64) (string, error) {
	return j.sign(userID, j.RefreshTokenSecret, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) sign(userID int64, secret []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}

// GenerateRandomToken returns a cryptographically secure 32-byte hex token.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
