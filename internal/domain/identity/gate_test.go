package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
	"github.com/codegoddy/skincare/internal/platform/errors"
)

type fakeRoleStore struct {
	roles map[string]model.Role
	err   error
}

func (f *fakeRoleStore) GetRole(_ context.Context, subjectID string) (model.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[subjectID]
	if !ok {
		return "", ErrProfileNotFound
	}
	return role, nil
}

func TestGate_DefaultsToCustomer(t *testing.T) {
	gate, err := NewGate(&fakeRoleStore{roles: map[string]model.Role{}}, nopLogger{})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	id, err := gate.ResolveRole(context.Background(), Identity{SubjectID: "no-profile"})
	if err != nil {
		t.Fatalf("ResolveRole: %v", err)
	}
	if id.Role != RoleCustomer {
		t.Fatalf("expected customer role, got %s", id.Role)
	}
}

func TestGate_RequireAdmin(t *testing.T) {
	store := &fakeRoleStore{roles: map[string]model.Role{
		"admin-user":    RoleAdmin,
		"customer-user": RoleCustomer,
	}}
	gate, _ := NewGate(store, nopLogger{})
	ctx := context.Background()

	id, err := gate.RequireAdmin(ctx, Identity{SubjectID: "admin-user"})
	if err != nil {
		t.Fatalf("admin should pass: %v", err)
	}
	if id.Role != RoleAdmin {
		t.Fatalf("expected admin annotation, got %s", id.Role)
	}

	_, err = gate.RequireAdmin(ctx, Identity{SubjectID: "customer-user"})
	if !errors.IsKind(err, errors.KindForbidden) {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}

	_, err = gate.RequireAdmin(ctx, Identity{SubjectID: "no-profile"})
	if !errors.IsKind(err, errors.KindForbidden) {
		t.Fatalf("expected forbidden for missing profile, got %v", err)
	}
}

func TestGate_FailsClosedOnStoreError(t *testing.T) {
	gate, _ := NewGate(&fakeRoleStore{err: fmt.Errorf("connection reset")}, nopLogger{})

	_, err := gate.RequireAdmin(context.Background(), Identity{SubjectID: "whoever"})
	if !errors.IsKind(err, errors.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", err)
	}
}
