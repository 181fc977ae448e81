package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/auth"
	"github.com/slateworks/slate/internal/domain"
	"github.com/slateworks/slate/internal/server/middleware"
)

type RegisterInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" format:"email" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		FullName string `json:"full_name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RecoverInput struct {
	Body struct {
		Email string `json:"email" minLength:"3" maxLength:"255" doc:"Account email"`
	}
}

type RecoverOutput struct {
	Body struct {
		// Accepted is always true; the response never reveals whether the
		// email maps to an account.
		Accepted bool `json:"accepted"`
	}
}

type RedeemRecoveryInput struct {
	Body struct {
		Token string `json:"token" minLength:"1" doc:"Single-use recovery token"` //nolint:gosec // G117: recovery DTO
	}
}

type RedeemRecoveryOutput struct {
	Body struct {
		RecoveryToken string `json:"recovery_token"` //nolint:gosec // G117: recovery DTO
	}
}

type UpdatePasswordInput struct {
	Body struct {
		NewPassword string `json:"new_password" minLength:"8" maxLength:"128" doc:"New password"` //nolint:gosec // G117: credential DTO
	}
}

type UpdatePasswordOutput struct {
	Body struct {
		Updated bool `json:"updated"`
	}
}

type GetMeOutput struct {
	Body struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
}

func RegisterAuthRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		_, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.FullName)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			if errors.Is(err, auth.ErrWeakPassword) {
				return nil, huma.Error400BadRequest("password does not meet requirements")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		out := &RegisterOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		accessToken, refreshToken, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.Refresh(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recover-password",
		Method:      http.MethodPost,
		Path:        "/auth/recover",
		Summary:     "Request a password recovery token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RecoverInput) (*RecoverOutput, error) {
		// The token is delivered out of band; the response is identical
		// whether or not the account exists.
		_, err := authSvc.RequestPasswordReset(ctx, input.Body.Email)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to process recovery request", err)
		}

		out := &RecoverOutput{}
		out.Body.Accepted = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "redeem-recovery",
		Method:      http.MethodPost,
		Path:        "/auth/recover/redeem",
		Summary:     "Exchange a recovery token for a recovery session",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, input *RedeemRecoveryInput) (*RedeemRecoveryOutput, error) {
		jwt, err := authSvc.RedeemRecoveryToken(input.Body.Token)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired recovery token")
		}

		out := &RedeemRecoveryOutput{}
		out.Body.RecoveryToken = jwt
		return out, nil
	})
}

// RegisterPasswordRoutes registers the password update endpoint. It sits on
// the authenticated group rather than the public auth group: both a full
// session and a recovery session may call it, which is how a recovery flow
// completes.
func RegisterPasswordRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "update-password",
		Method:      http.MethodPut,
		Path:        "/auth/password",
		Summary:     "Set a new password for the current user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *UpdatePasswordInput) (*UpdatePasswordOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		err := authSvc.UpdatePassword(ctx, userID, input.Body.NewPassword)
		if err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				return nil, huma.Error400BadRequest("password does not meet requirements")
			}
			return nil, huma.Error500InternalServerError("failed to update password", err)
		}

		log.Info().Str("user_id", userID.String()).Msg("password updated")

		out := &UpdatePasswordOutput{}
		out.Body.Updated = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the current user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*GetMeOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		user, err := authSvc.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error401Unauthorized("account no longer exists")
			}
			return nil, huma.Error500InternalServerError("failed to load user", err)
		}

		out := &GetMeOutput{}
		out.Body.ID = user.ID.String()
		out.Body.Email = user.Email
		out.Body.FullName = user.FullName
		return out, nil
	})
}
