package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/slateworks/slate/internal/auth"
	"github.com/slateworks/slate/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Sites() domain.SiteRepository
	Users() domain.UserRepository
	Roles() domain.RoleRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (*auth.RecoveryToken, error)
	RedeemRecoveryToken(token string) (string, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// SiteCache fronts public site lookups. *redis.Cache satisfies this
// interface. Route registration accepts a nil cache, which disables caching.
type SiteCache interface {
	GetSite(ctx context.Context, slug string) *domain.Site
	SetSite(ctx context.Context, s *domain.Site)
	Invalidate(ctx context.Context, slug string)
}

// Authorizer answers capability checks. *auth.Gate satisfies this interface.
type Authorizer interface {
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) bool
}
