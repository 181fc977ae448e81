package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrRecoveryTokenExpired is returned when a recovery token is not found,
// already consumed, or past its expiry.
var ErrRecoveryTokenExpired = errors.New("auth: recovery token expired or not found")

const (
	recoveryTokenBytes  = 32
	recoveryTokenExpiry = 15 * time.Minute
	// recoveryJWTTTL bounds how long a redeemed recovery session may take to
	// actually set the new password.
	recoveryJWTTTL = 10 * time.Minute
)

// RecoveryToken is a single-use, out-of-band token for the password-recovery
// flow. It is held in memory only; restarting the process invalidates all
// outstanding recovery links, which simply forces the user to request a new
// one.
type RecoveryToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// RequestPasswordReset issues a recovery token for the account with the given
// email and hands it to the caller for out-of-band delivery. Unknown emails
// return (nil, nil): the HTTP surface answers identically either way, so the
// endpoint cannot be used to probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*RecoveryToken, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Debug().Str("email", email).Msg("auth: password reset requested for unknown email")
		return nil, nil
	}

	raw := make([]byte, recoveryTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("auth.RequestPasswordReset: %w", err)
	}

	rt := &RecoveryToken{
		Token:     hex.EncodeToString(raw),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(recoveryTokenExpiry),
	}

	s.recoveryTokens.Store(rt.Token, rt)

	return rt, nil
}

// RedeemRecoveryToken consumes a recovery token and returns a short-lived JWT
// of type "recovery", honored only by the update-password operation. The
// token is deleted on first use regardless of what the caller does next.
func (s *Service) RedeemRecoveryToken(token string) (string, error) {
	val, ok := s.recoveryTokens.LoadAndDelete(token)
	if !ok {
		return "", fmt.Errorf("auth.RedeemRecoveryToken: %w", ErrRecoveryTokenExpired)
	}

	rt, ok := val.(*RecoveryToken)
	if !ok {
		return "", fmt.Errorf("auth.RedeemRecoveryToken: %w", ErrRecoveryTokenExpired)
	}

	if time.Now().After(rt.ExpiresAt) {
		return "", fmt.Errorf("auth.RedeemRecoveryToken: %w", ErrRecoveryTokenExpired)
	}

	jwt, err := IssueRecoveryToken(s.jwtSecret, rt.UserID, recoveryJWTTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RedeemRecoveryToken: %w", err)
	}

	return jwt, nil
}
