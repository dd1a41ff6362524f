package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
)

// Remote talks to the managed identity provider over HTTP. The endpoint
// shapes follow the GoTrue API the storefront deploys against.
type Remote struct {
	baseURL    string
	apiKey     string
	serviceKey string
	client     *http.Client
}

// NewRemote builds the HTTP-backed provider client.
func NewRemote(cfg Config) (*Remote, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("identity provider base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    string         `json:"created_at"`
}

type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         *userPayload `json:"user"`
}

func (u *userPayload) identity() model.Identity {
	issued, _ := time.Parse(time.RFC3339, u.CreatedAt)
	return model.Identity{
		SubjectID: u.ID,
		Email:     u.Email,
		Metadata:  u.UserMetadata,
		IssuedAt:  issued,
	}
}

// Validate asks the provider to resolve the bearer token.
func (r *Remote) Validate(ctx context.Context, token string) (model.Identity, error) {
	var user userPayload
	err := r.do(ctx, http.MethodGet, "/auth/v1/user", nil, token, &user)
	if err != nil {
		return model.Identity{}, err
	}
	if user.ID == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return user.identity(), nil
}

// SignIn performs a password grant.
func (r *Remote) SignIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	var payload sessionPayload
	err := r.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, "", &payload)
	if err != nil {
		return Session{}, err
	}
	return payload.session()
}

// SignUp registers a new account with the provider.
func (r *Remote) SignUp(ctx context.Context, email, password string, metadata map[string]any) (Session, error) {
	body := map[string]any{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	var payload sessionPayload
	err := r.do(ctx, http.MethodPost, "/auth/v1/signup", body, "", &payload)
	if err != nil {
		return Session{}, err
	}
	return payload.session()
}

// SignOut revokes the session behind the token.
func (r *Remote) SignOut(ctx context.Context, token string) error {
	return r.do(ctx, http.MethodPost, "/auth/v1/logout", nil, token, nil)
}

// Refresh exchanges a refresh token for a fresh session.
func (r *Remote) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var payload sessionPayload
	err := r.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body, "", &payload)
	if err != nil {
		return Session{}, err
	}
	return payload.session()
}

// Recover triggers the provider's password-reset email dispatch.
func (r *Remote) Recover(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return r.do(ctx, http.MethodPost, "/auth/v1/recover", body, "", nil)
}

// UpdatePassword sets a new password for the session behind the token.
func (r *Remote) UpdatePassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return r.do(ctx, http.MethodPut, "/auth/v1/user", body, token, nil)
}

func (p *sessionPayload) session() (Session, error) {
	if p.AccessToken == "" || p.User == nil {
		return Session{}, ErrInvalidCredentials
	}
	expires := p.ExpiresIn
	if expires <= 0 {
		expires = 3600
	}
	return Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    expires,
		Identity:     p.User.identity(),
	}, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		if bearer != "" {
			return ErrInvalidToken
		}
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	}
}
