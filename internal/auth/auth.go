package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/user"
)

// User is the authenticated caller as seen by every downstream service.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
	IsActive bool   `json:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.UserType == userDatamodel.TypeAdmin
}

func (u *User) IsHR() bool {
	return u.UserType == userDatamodel.TypeHR
}

func (u *User) IsClient() bool {
	return u.UserType == userDatamodel.TypeClient
}

func (u *User) IsCandidate() bool {
	return u.UserType == userDatamodel.TypeCandidate
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenGenerator interface {
	GenerateAccessToken(userID int64) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type ctxKey string

const contextUserKey ctxKey = "auth.user"

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(contextUserKey).(*User)
	return user, ok
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
