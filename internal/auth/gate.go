package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/domain"
)

// Gate resolves an identity to the super-admin capability. It fails closed:
// a missing role row and a lookup error are both "not super admin", so a
// degraded role store can never widen access.
type Gate struct {
	roles domain.RoleRepository
}

func NewGate(roles domain.RoleRepository) *Gate {
	return &Gate{roles: roles}
}

func (g *Gate) IsSuperAdmin(ctx context.Context, userID uuid.UUID) bool {
	ok, err := g.roles.HasRole(ctx, userID, domain.RoleSuperAdmin)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("auth: role lookup failed, denying")
		return false
	}
	return ok
}
