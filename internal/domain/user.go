package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoleSuperAdmin grants unrestricted cross-site access to the admin API.
// Roles live in their own table rather than on the user row so that granting
// one is an explicit, auditable insert.
const RoleSuperAdmin = "super_admin"

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// RoleRepository answers capability lookups. HasRole must fail closed: a
// lookup error and a missing row are both reported as false by callers.
type RoleRepository interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	Grant(ctx context.Context, userID uuid.UUID, role string) error
}
