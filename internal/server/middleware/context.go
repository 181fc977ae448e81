package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/slateworks/slate/internal/auth"
)

type contextKey string

const (
	ContextKeyUserID       contextKey = "user_id"
	ContextKeySessionState contextKey = "session_state"
)

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func SessionStateFromContext(ctx context.Context) (auth.SessionState, bool) {
	v, ok := ctx.Value(ContextKeySessionState).(auth.SessionState)
	return v, ok
}
