package services

import (
	"context"
	"errors"
	"strings"

	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/provider"
	"github.com/codegoddy/skincare/internal/domain/lockout"
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
	"github.com/codegoddy/skincare/internal/platform/storage"
)

// AuthService drives the credential flows: login under the lockout policy,
// signup, logout, refresh and password recovery.
type AuthService struct {
	auth     provider.Authenticator
	tracker  lockout.Tracker
	profiles *storage.ProfileRepository
	logger   identity.Logger
}

// NewAuthService wires the credential flows.
func NewAuthService(auth provider.Authenticator, tracker lockout.Tracker, profiles *storage.ProfileRepository, logger identity.Logger) *AuthService {
	return &AuthService{auth: auth, tracker: tracker, profiles: profiles, logger: logger}
}

// Login authenticates the credentials under the lockout policy. The lockout
// check runs before the provider is consulted; a locked account is rejected
// without touching the provider. Failures are recorded, success clears the
// account's history.
func (s *AuthService) Login(ctx context.Context, email, password string) (provider.Session, error) {
	const op = "auth.Login"
	account := normalizeAccount(email)

	locked, retrySecs, err := s.tracker.IsLocked(ctx, account)
	if err != nil {
		return provider.Session{}, platformerrors.Wrap(platformerrors.KindStorage, op, "lockout check", err)
	}
	if locked {
		return provider.Session{}, platformerrors.NewLockedOut(op, retrySecs)
	}

	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			return provider.Session{}, platformerrors.Wrap(platformerrors.KindUpstream, op, "identity provider unavailable", err)
		}
		if recordErr := s.tracker.RecordFailure(ctx, account); recordErr != nil {
			s.logger.Warn("record login failure for %s: %v", account, recordErr)
		}
		if nowLocked, secs, lockErr := s.tracker.IsLocked(ctx, account); lockErr == nil && nowLocked {
			return provider.Session{}, platformerrors.NewLockedOut(op, secs)
		}
		return provider.Session{}, platformerrors.Wrap(platformerrors.KindAuth, op, "invalid email or password", err)
	}

	if err := s.tracker.Reset(ctx, account); err != nil {
		s.logger.Warn("reset login attempts for %s: %v", account, err)
	}

	if _, err := s.profiles.Ensure(ctx, session.Identity.SubjectID, session.Identity.Email, fullName(session.Identity.Metadata)); err != nil {
		s.logger.Warn("ensure profile for %s: %v", session.Identity.SubjectID, err)
	}
	return session, nil
}

// Signup registers the credentials and provisions the profile row.
func (s *AuthService) Signup(ctx context.Context, email, password string, metadata map[string]any) (provider.Session, error) {
	const op = "auth.Signup"
	session, err := s.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			return provider.Session{}, platformerrors.Wrap(platformerrors.KindUpstream, op, "identity provider unavailable", err)
		}
		return provider.Session{}, platformerrors.Wrap(platformerrors.KindValidation, op, "signup rejected", err)
	}
	if session.Identity.SubjectID != "" {
		if _, err := s.profiles.Ensure(ctx, session.Identity.SubjectID, session.Identity.Email, fullName(metadata)); err != nil {
			s.logger.Warn("ensure profile for %s: %v", session.Identity.SubjectID, err)
		}
	}
	return session, nil
}

// Logout revokes the session best-effort: provider failures are logged and
// swallowed so the client always ends up signed out.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.auth.SignOut(ctx, token); err != nil {
		s.logger.Debug("sign out: %v", err)
	}
}

// Refresh exchanges a refresh token for a new session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (provider.Session, error) {
	const op = "auth.Refresh"
	session, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			return provider.Session{}, platformerrors.Wrap(platformerrors.KindUpstream, op, "identity provider unavailable", err)
		}
		return provider.Session{}, platformerrors.Wrap(platformerrors.KindAuth, op, "could not refresh session", err)
	}
	return session, nil
}

// RequestPasswordReset dispatches the recovery mail best-effort. The outcome
// is identical whether or not the account exists or the provider answered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	if err := s.auth.Recover(ctx, email); err != nil {
		s.logger.Debug("password recovery dispatch: %v", err)
	}
}

// UpdatePassword sets a new password for the authenticated session and
// clears any lockout on the account.
func (s *AuthService) UpdatePassword(ctx context.Context, token, email, newPassword string) error {
	const op = "auth.UpdatePassword"
	if err := s.auth.UpdatePassword(ctx, token, newPassword); err != nil {
		if errors.Is(err, provider.ErrUnavailable) {
			return platformerrors.Wrap(platformerrors.KindUpstream, op, "identity provider unavailable", err)
		}
		return platformerrors.Wrap(platformerrors.KindAuth, op, "could not update password", err)
	}
	if email != "" {
		if err := s.tracker.Reset(ctx, normalizeAccount(email)); err != nil {
			s.logger.Warn("reset login attempts for %s: %v", email, err)
		}
	}
	return nil
}

// RemainingAttempts reports how many failures the account has left before
// it locks.
func (s *AuthService) RemainingAttempts(ctx context.Context, email string) (int, error) {
	return s.tracker.Remaining(ctx, normalizeAccount(email))
}

func normalizeAccount(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fullName(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata["full_name"].(string); ok {
		return v
	}
	return ""
}
