package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestProvider(t *testing.T, handler http.Handler) (*Remote, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	remote, err := NewRemote(Config{BaseURL: srv.URL, APIKey: "anon-key"})
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	return remote, srv
}

func TestRemote_Validate(t *testing.T) {
	remote, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("unexpected apikey header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "sub-1",
			"email":         "a@x.com",
			"created_at":    "2025-01-02T03:04:05Z",
			"user_metadata": map[string]any{"full_name": "Ada"},
		})
	}))

	id, err := remote.Validate(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id.SubjectID != "sub-1" || id.Email != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.IssuedAt.IsZero() {
		t.Fatal("expected issued_at to parse")
	}
}

func TestRemote_ValidateRejected(t *testing.T) {
	remote, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := remote.Validate(context.Background(), "bad-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRemote_ValidateUpstreamDown(t *testing.T) {
	remote, srv := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := remote.Validate(context.Background(), "tok")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for 5xx, got %v", err)
	}

	srv.Close()
	_, err = remote.Validate(context.Background(), "tok")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for closed server, got %v", err)
	}
}

func TestRemote_SignIn(t *testing.T) {
	remote, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.URL.RawQuery)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@x.com" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"user": map[string]any{
				"id":    "sub-1",
				"email": "a@x.com",
			},
		})
	}))

	sess, err := remote.SignIn(context.Background(), "a@x.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.AccessToken != "access-1" || sess.Identity.SubjectID != "sub-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	_, err = remote.SignIn(context.Background(), "b@x.com", "nope")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRemote_RecoverSwallowsNothing(t *testing.T) {
	called := false
	remote, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/auth/v1/recover" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := remote.Recover(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if !called {
		t.Fatal("expected recover call to reach the provider")
	}
}
