package identity

import (
	"context"
	stderrors "errors"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
	"github.com/codegoddy/skincare/internal/platform/errors"
)

// ErrProfileNotFound is returned by RoleStore implementations when the
// subject has no profile row. The gate interprets it as the customer role.
var ErrProfileNotFound = stderrors.New("profile not found")

// RoleStore reads the subject's role from the external profile store.
type RoleStore interface {
	GetRole(ctx context.Context, subjectID string) (model.Role, error)
}

// Gate enforces role-gated access on top of an already-resolved identity.
// The role is fetched fresh on every call; freshness is traded for latency.
type Gate struct {
	roles  RoleStore
	logger Logger
}

// NewGate wires the authorization gate.
func NewGate(roles RoleStore, logger Logger) (*Gate, error) {
	if roles == nil {
		return nil, errors.New(errors.KindConfig, "identity.gate", "role store is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "identity.gate", "logger is required")
	}
	return &Gate{roles: roles, logger: logger}, nil
}

// ResolveRole annotates the identity with its current role. A missing
// profile row defaults to customer; a store failure propagates as an
// upstream error because the authorization decision must fail closed.
func (g *Gate) ResolveRole(ctx context.Context, id Identity) (Identity, error) {
	role, err := g.roles.GetRole(ctx, id.SubjectID)
	switch {
	case err == nil:
		if !role.Valid() {
			role = model.RoleCustomer
		}
		id.Role = role
	case stderrors.Is(err, ErrProfileNotFound):
		id.Role = model.RoleCustomer
	default:
		g.logger.Warn("role lookup failed for %s: %v", id.SubjectID, err)
		return Identity{}, errors.Wrap(errors.KindUpstream, "identity.gate", "profile store unavailable", err)
	}
	return id, nil
}

// RequireAdmin verifies the identity carries the admin role.
func (g *Gate) RequireAdmin(ctx context.Context, id Identity) (Identity, error) {
	annotated, err := g.ResolveRole(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	if annotated.Role != model.RoleAdmin {
		return Identity{}, errors.New(errors.KindForbidden, "identity.gate", "admin access required")
	}
	return annotated, nil
}
