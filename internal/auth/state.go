package auth

import "fmt"

// SessionState models the client-visible authentication state machine.
// Recovery mode is a first-class state rather than a mutable flag checked
// from a callback, which removes the race between the role check and the
// post-sign-in navigation decision.
type SessionState string

const (
	// StateUnauthenticated: no valid session.
	StateUnauthenticated SessionState = "unauthenticated"
	// StateAuthenticatingRecovery: the user arrived through a recovery link
	// and holds a recovery-type token. The only legal operation is setting a
	// new password; signing in normally leaves the state.
	StateAuthenticatingRecovery SessionState = "authenticating_recovery"
	// StateAuthenticated: a normal signed-in session.
	StateAuthenticated SessionState = "authenticated"
)

// ValidTransition reports whether moving from s to next is legal.
//
//	unauthenticated -> authenticated            (login, refresh)
//	unauthenticated -> authenticating_recovery  (recovery token redeemed)
//	authenticating_recovery -> authenticated    (password updated, re-login)
//	authenticating_recovery -> unauthenticated  (recovery abandoned)
//	authenticated -> unauthenticated            (sign-out, token expiry)
func (s SessionState) ValidTransition(next SessionState) bool {
	switch s {
	case StateUnauthenticated:
		return next == StateAuthenticated || next == StateAuthenticatingRecovery
	case StateAuthenticatingRecovery:
		return next == StateAuthenticated || next == StateUnauthenticated
	case StateAuthenticated:
		return next == StateUnauthenticated
	default:
		return false
	}
}

// StateForTokenType maps a validated token type to the session state it
// establishes.
func StateForTokenType(tokenType string) (SessionState, error) {
	switch tokenType {
	case TokenTypeAccess, TokenTypeRefresh:
		return StateAuthenticated, nil
	case TokenTypeRecovery:
		return StateAuthenticatingRecovery, nil
	default:
		return StateUnauthenticated, fmt.Errorf("auth.StateForTokenType: unknown token type %q: %w", tokenType, ErrInvalidToken)
	}
}
