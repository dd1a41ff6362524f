package provider

import (
	"context"
	"errors"
	"time"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
)

// Validator resolves an opaque bearer token into an identity record.
type Validator interface {
	Validate(ctx context.Context, token string) (model.Identity, error)
}

// Session is the token bundle returned by credential-based operations.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Identity     model.Identity
}

// Authenticator exposes the provider's credential operations used by the
// login, signup and recovery flows. Only the remote driver implements it.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (Session, error)
	SignOut(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Recover(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, token, newPassword string) error
}

// Driver identifiers supported by the identity domain.
const (
	DriverRemote = "remote"
	DriverJWT    = "jwt"
)

// Sentinel errors distinguishing rejection from unavailability. Callers that
// surface results to clients collapse both into a uniform response.
var (
	ErrInvalidToken       = errors.New("token rejected by identity provider")
	ErrInvalidCredentials = errors.New("credentials rejected by identity provider")
	ErrUnavailable        = errors.New("identity provider unavailable")
)

// Config describes the provider selection parameters.
type Config struct {
	Driver     string
	BaseURL    string
	APIKey     string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
}
