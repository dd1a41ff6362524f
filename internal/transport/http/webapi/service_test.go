package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	evbus "github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/app/services"
	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/model"
	"github.com/codegoddy/skincare/internal/domain/identity/provider"
	"github.com/codegoddy/skincare/internal/domain/lockout"
	"github.com/codegoddy/skincare/internal/domain/ratelimit"
	"github.com/codegoddy/skincare/internal/platform/storage"
	platformtesting "github.com/codegoddy/skincare/internal/platform/testing"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

// fakeValidator maps bearer tokens to identities.
type fakeValidator struct {
	tokens map[string]model.Identity
}

func (f *fakeValidator) Validate(_ context.Context, token string) (model.Identity, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return model.Identity{}, provider.ErrInvalidToken
}

// fakeAuthenticator scripts credential outcomes.
type fakeAuthenticator struct {
	password string
	identity model.Identity
}

func (f *fakeAuthenticator) SignIn(_ context.Context, email, password string) (provider.Session, error) {
	if password != f.password {
		return provider.Session{}, provider.ErrInvalidCredentials
	}
	id := f.identity
	if id.SubjectID == "" {
		id = model.Identity{SubjectID: "u-1", Email: email}
	}
	return provider.Session{AccessToken: "token-cust", RefreshToken: "rt", ExpiresIn: 3600, Identity: id}, nil
}

func (f *fakeAuthenticator) SignUp(_ context.Context, email, _ string, _ map[string]any) (provider.Session, error) {
	return provider.Session{AccessToken: "token-new", ExpiresIn: 3600, Identity: model.Identity{SubjectID: "u-new", Email: email}}, nil
}

func (f *fakeAuthenticator) SignOut(context.Context, string) error { return nil }

func (f *fakeAuthenticator) Refresh(context.Context, string) (provider.Session, error) {
	return provider.Session{AccessToken: "token-cust", ExpiresIn: 3600}, nil
}

func (f *fakeAuthenticator) Recover(context.Context, string) error { return nil }

func (f *fakeAuthenticator) UpdatePassword(context.Context, string, string) error { return nil }

type testEnv struct {
	engine   *gin.Engine
	db       *storage.ProfileRepository
	settings *services.SettingsService
}

func newEnvForTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := platformtesting.SetupTestLogger(t)
	db := platformtesting.SetupTestDB(t)
	profiles := storage.NewProfileRepository(db)

	ctx := context.Background()
	if _, err := profiles.Ensure(ctx, "u-1", "cust@x.com", ""); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if _, err := profiles.Ensure(ctx, "u-admin", "admin@x.com", ""); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := profiles.SetRole(ctx, "u-admin", model.RoleAdmin); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	validator := &fakeValidator{tokens: map[string]model.Identity{
		"token-cust":  {SubjectID: "u-1", Email: "cust@x.com"},
		"token-admin": {SubjectID: "u-admin", Email: "admin@x.com"},
	}}
	resolver, err := identity.NewResolver(validator, logger)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	gate, err := identity.NewGate(profiles, logger)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	tracker := lockout.NewMemory(lockout.Config{})
	t.Cleanup(func() { _ = tracker.Close(context.Background()) })

	bus := evbus.New()
	settingsSvc := services.NewSettingsService(storage.NewSettingsRepository(db), bus)

	deps := Deps{
		Auth:     services.NewAuthService(&fakeAuthenticator{password: "correct-pw"}, tracker, profiles, logger),
		Catalog:  services.NewCatalogService(storage.NewProductRepository(db), bus),
		Orders:   services.NewOrderService(storage.NewOrderRepository(db), storage.NewSettingsRepository(db), bus),
		Settings: settingsSvc,
		Profiles: profiles,
		Wishlist: storage.NewWishlistRepository(db),
		Logger:   logger,
	}

	router, err := httptransport.Build(httptransport.Options{LogLevel: "error", Logger: logger})
	if err != nil {
		t.Fatalf("http.Build: %v", err)
	}

	limiter := ratelimit.NewMemory()
	NewService(deps).Register(router, Middlewares{
		RequireAuth:  httptransport.RequireAuth(resolver),
		OptionalAuth: httptransport.OptionalAuth(resolver),
		RequireAdmin: httptransport.RequireAdmin(gate),
		RateLimit:    httptransport.RateLimit(limiter, 100, logger),
		Maintenance: httptransport.Maintenance(func(c *gin.Context) bool {
			return settingsSvc.MaintenanceMode(c.Request.Context())
		}, gate),
	})

	return &testEnv{engine: router.Engine, db: profiles, settings: settingsSvc}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestAPI_LoginAndLockout(t *testing.T) {
	env := newEnvForTest(t)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "cust@x.com", "password": "correct-pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}

	for i := 0; i < lockout.DefaultMaxAttempts-1; i++ {
		w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "cust@x.com", "password": "wrong"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("failure %d = %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "cust@x.com", "password": "wrong"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("fifth failure = %d, want 429: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("lockout response should carry Retry-After")
	}

	// Correct credentials make no difference while locked.
	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "cust@x.com", "password": "correct-pw"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("locked login = %d, want 429", w.Code)
	}
}

func TestAPI_MissingTokenIsUnauthorized(t *testing.T) {
	env := newEnvForTest(t)

	for _, path := range []string{"/api/auth/me", "/api/orders", "/api/wishlist"} {
		w := env.request(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token = %d, want 401", path, w.Code)
		}
	}

	w := env.request(t, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token = %d, want 401", w.Code)
	}
}

func TestAPI_AdminGate(t *testing.T) {
	env := newEnvForTest(t)
	product := gin.H{"name": "Glow Serum", "price": 29.9}

	w := env.request(t, http.MethodPost, "/api/admin/products", "token-cust", product)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer create = %d, want 403: %s", w.Code, w.Body.String())
	}

	w = env.request(t, http.MethodPost, "/api/admin/products", "token-admin", product)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin create = %d, want 201: %s", w.Code, w.Body.String())
	}

	w = env.request(t, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public listing = %d: %s", w.Code, w.Body.String())
	}
}

func TestAPI_MaintenanceMode(t *testing.T) {
	env := newEnvForTest(t)

	w := env.request(t, http.MethodPatch, "/api/admin/settings", "token-admin", gin.H{"maintenance_mode": true})
	if w.Code != http.StatusOK {
		t.Fatalf("enable maintenance = %d: %s", w.Code, w.Body.String())
	}

	w = env.request(t, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("storefront during maintenance = %d, want 503", w.Code)
	}
	w = env.request(t, http.MethodGet, "/api/products", "token-cust", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("customer during maintenance = %d, want 503", w.Code)
	}

	// Admins stay in so they can turn it off again.
	w = env.request(t, http.MethodGet, "/api/products", "token-admin", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin during maintenance = %d, want 200", w.Code)
	}

	// The admin surface itself never locks out.
	w = env.request(t, http.MethodPatch, "/api/admin/settings", "token-admin", gin.H{"maintenance_mode": false})
	if w.Code != http.StatusOK {
		t.Fatalf("disable maintenance = %d", w.Code)
	}
	w = env.request(t, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("storefront after maintenance = %d, want 200", w.Code)
	}
}

func TestAPI_OrdersAreScopedToUser(t *testing.T) {
	env := newEnvForTest(t)

	order := gin.H{"items": []gin.H{{"product_id": "p-1", "name": "Glow Serum", "price": 20.0, "quantity": 2}}}
	w := env.request(t, http.MethodPost, "/api/orders", "token-cust", order)
	if w.Code != http.StatusCreated {
		t.Fatalf("place order = %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	w = env.request(t, http.MethodGet, "/api/orders/"+created.Data.ID, "token-cust", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get order = %d", w.Code)
	}

	// Another customer sees nothing, not even that the order exists.
	w = env.request(t, http.MethodGet, "/api/orders/"+created.Data.ID, "token-admin", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("other user get order = %d, want 404", w.Code)
	}

	// The admin surface lists everything.
	w = env.request(t, http.MethodGet, "/api/admin/orders", "token-admin", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list orders = %d", w.Code)
	}
}

func TestAPI_ForgotPasswordIsUniform(t *testing.T) {
	env := newEnvForTest(t)

	a := env.request(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "cust@x.com"})
	b := env.request(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "ghost@x.com"})
	if a.Code != http.StatusOK || b.Code != http.StatusOK {
		t.Fatalf("forgot-password = %d/%d, want 200/200", a.Code, b.Code)
	}
	if a.Body.String() != b.Body.String() {
		t.Fatal("response must not reveal whether the account exists")
	}
}

func TestAPI_WishlistRoundTrip(t *testing.T) {
	env := newEnvForTest(t)
	item := gin.H{"product_id": "p-1", "name": "Glow Serum", "price": 29.9}

	w := env.request(t, http.MethodPost, "/api/wishlist", "token-cust", item)
	if w.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", w.Code, w.Body.String())
	}
	w = env.request(t, http.MethodPost, "/api/wishlist", "token-cust", item)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate add = %d, want 409", w.Code)
	}
	w = env.request(t, http.MethodDelete, "/api/wishlist/p-1", "token-cust", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove = %d", w.Code)
	}
}
