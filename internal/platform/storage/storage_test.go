package storage

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/model"
	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

func newDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return db
}

func TestProfileRepository_RoleLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newDBForTest(t))

	if _, err := repo.GetRole(ctx, "missing"); !errors.Is(err, identity.ErrProfileNotFound) {
		t.Fatalf("GetRole(missing) = %v, want ErrProfileNotFound", err)
	}

	profile, err := repo.Ensure(ctx, "u-1", "a@x.com", "Ada")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if profile.Role != string(model.RoleCustomer) {
		t.Fatalf("new profile role = %q, want customer", profile.Role)
	}

	role, err := repo.GetRole(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if role != model.RoleCustomer {
		t.Fatalf("role = %q, want customer", role)
	}
}

func TestProfileRepository_EnsureKeepsRole(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newDBForTest(t))

	if _, err := repo.Ensure(ctx, "u-1", "a@x.com", "Ada"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := repo.SetRole(ctx, "u-1", model.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}

	// A later sign-in re-runs Ensure; the promoted role must survive.
	profile, err := repo.Ensure(ctx, "u-1", "new@x.com", "Ada")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if profile.Role != string(model.RoleAdmin) {
		t.Fatalf("role after re-ensure = %q, want admin", profile.Role)
	}
	if profile.Email != "new@x.com" {
		t.Fatalf("email not refreshed: %q", profile.Email)
	}
}

func TestProfileRepository_SetRoleRejectsUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newDBForTest(t))
	if _, err := repo.SetRole(ctx, "u-1", "superuser"); !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Fatalf("SetRole(superuser) = %v, want validation error", err)
	}
}

func TestProductRepository_CRUDAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newDBForTest(t))

	serum := &Product{Name: "Glow Serum", Description: "vitamin c serum", Price: 29.9, ProductType: "Serum", IsActive: true}
	if err := repo.Create(ctx, serum); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if serum.ID == "" {
		t.Fatal("Create should assign an id")
	}
	mask := &Product{Name: "Clay Mask", Price: 15, ProductType: "Mask", IsActive: false}
	if err := repo.Create(ctx, mask); err != nil {
		t.Fatalf("Create: %v", err)
	}

	products, total, err := repo.List(ctx, ProductFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != serum.ID {
		t.Fatalf("active listing = %d/%d, want the serum only", len(products), total)
	}

	products, _, err = repo.List(ctx, ProductFilter{Search: "VITAMIN"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("search matched %d products, want 1", len(products))
	}

	updated, err := repo.Update(ctx, serum.ID, map[string]any{"price": 24.9, "stock": 10})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 24.9 || updated.Stock != 10 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := repo.Delete(ctx, serum.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, serum.ID); !platformerrors.IsKind(err, platformerrors.KindNotFound) {
		t.Fatalf("Get after delete = %v, want not_found", err)
	}
	if err := repo.Delete(ctx, serum.ID); !platformerrors.IsKind(err, platformerrors.KindNotFound) {
		t.Fatalf("second Delete = %v, want not_found", err)
	}
}

func TestOrderRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newDBForTest(t))

	order := &Order{
		UserID:   "u-1",
		Status:   OrderStatusPending,
		Subtotal: 40, Shipping: 5, Tax: 4, Total: 49,
		Items: []OrderItem{
			{ProductID: "p-1", Name: "Glow Serum", Price: 20, Quantity: 2},
		},
	}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("items not loaded: %+v", got.Items)
	}

	mine, err := repo.ListByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("user has %d orders, want 1", len(mine))
	}
	other, err := repo.ListByUser(ctx, "u-2")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(other) != 0 {
		t.Fatal("orders must not leak between users")
	}

	shipped, err := repo.UpdateStatus(ctx, order.ID, OrderStatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if shipped.Status != OrderStatusShipped {
		t.Fatalf("status = %q, want shipped", shipped.Status)
	}

	if _, err := repo.UpdateStatus(ctx, order.ID, "teleported"); !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Fatalf("invalid status = %v, want validation error", err)
	}
}

func TestWishlistRepository_AddListRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewWishlistRepository(newDBForTest(t))

	item := &WishlistItem{UserID: "u-1", ProductID: "p-1", Name: "Glow Serum", Price: 29.9}
	if err := repo.Add(ctx, item); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dup := &WishlistItem{UserID: "u-1", ProductID: "p-1", Name: "Glow Serum", Price: 29.9}
	if err := repo.Add(ctx, dup); !platformerrors.IsKind(err, platformerrors.KindConflict) {
		t.Fatalf("duplicate Add = %v, want conflict", err)
	}

	items, err := repo.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("wishlist has %d items, want 1", len(items))
	}

	if err := repo.Remove(ctx, "u-1", "p-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := repo.Remove(ctx, "u-1", "p-1"); !platformerrors.IsKind(err, platformerrors.KindNotFound) {
		t.Fatalf("second Remove = %v, want not_found", err)
	}
}

func TestSettingsRepository_DefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newDBForTest(t))

	settings, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.MaintenanceMode {
		t.Fatal("maintenance mode must default to off")
	}

	updated, err := repo.Update(ctx, map[string]any{"maintenance_mode": true, "store_name": "Dewy"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.MaintenanceMode || updated.StoreName != "Dewy" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !repo.MaintenanceMode(ctx) {
		t.Fatal("MaintenanceMode should read the updated flag")
	}
}
