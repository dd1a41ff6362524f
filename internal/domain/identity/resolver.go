package identity

import (
	"context"
	"strings"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
	"github.com/codegoddy/skincare/internal/domain/identity/provider"
	"github.com/codegoddy/skincare/internal/platform/errors"
)

type (
	// Identity re-exports the shared entity for callers.
	Identity = model.Identity
	// Role re-exports the role enumeration.
	Role = model.Role
	// Logger re-exports the logging contract used across the domain.
	Logger = model.Logger
)

const (
	RoleCustomer = model.RoleCustomer
	RoleAdmin    = model.RoleAdmin
)

// Resolver validates bearer credentials against the identity provider. It
// holds no state; every request is resolved fresh.
type Resolver struct {
	validator provider.Validator
	logger    Logger
}

// NewResolver wires a Resolver with its provider backend.
func NewResolver(validator provider.Validator, logger Logger) (*Resolver, error) {
	if validator == nil {
		return nil, errors.New(errors.KindConfig, "identity.resolver", "validator is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "identity.resolver", "logger is required")
	}
	return &Resolver{validator: validator, logger: logger}, nil
}

// Token extracts the bearer credential from the raw Authorization header
// value and cookie token. The header wins when both are present.
func Token(authorization, cookie string) string {
	header := strings.TrimSpace(authorization)
	if header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return header
	}
	return strings.TrimSpace(cookie)
}

// Resolve validates the supplied credential sources and returns the caller's
// identity. A missing credential, a provider rejection and a provider outage
// all surface as the same authentication failure; the distinction is logged
// but never leaked to the client.
func (r *Resolver) Resolve(ctx context.Context, authorization, cookie string) (Identity, error) {
	token := Token(authorization, cookie)
	if token == "" {
		return Identity{}, errors.New(errors.KindAuth, "identity.resolve", "not authenticated")
	}

	id, err := r.validator.Validate(ctx, token)
	if err != nil {
		r.logger.Debug("token validation failed: %v", err)
		return Identity{}, errors.Wrap(errors.KindAuth, "identity.resolve", "could not validate credentials", err)
	}
	return id, nil
}

// ResolveOptional behaves like Resolve but reports no error when the request
// carries no usable credential; unauthenticated callers get a zero Identity.
func (r *Resolver) ResolveOptional(ctx context.Context, authorization, cookie string) (Identity, bool) {
	id, err := r.Resolve(ctx, authorization, cookie)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}
