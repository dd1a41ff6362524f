package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTValidator_Validate(t *testing.T) {
	const secret = "test-signing-secret"
	validator, err := NewJWT(Config{JWTSecret: secret})
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}

	issued := time.Now().Add(-time.Minute).Truncate(time.Second)
	token := signToken(t, secret, jwt.MapClaims{
		"sub":   "sub-42",
		"email": "a@x.com",
		"iat":   issued.Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{
			"full_name": "Ada",
		},
	})

	id, err := validator.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id.SubjectID != "sub-42" || id.Email != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !id.IssuedAt.Equal(issued) {
		t.Fatalf("expected issued at %s, got %s", issued, id.IssuedAt)
	}
	if id.Metadata["full_name"] != "Ada" {
		t.Fatalf("expected metadata to round-trip, got %v", id.Metadata)
	}
}

func TestJWTValidator_Rejects(t *testing.T) {
	validator, _ := NewJWT(Config{JWTSecret: "right-secret"})
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "wrong secret",
			token: signToken(t, "wrong-secret", jwt.MapClaims{
				"sub": "sub-1",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "expired",
			token: signToken(t, "right-secret", jwt.MapClaims{
				"sub": "sub-1",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "missing subject",
			token: signToken(t, "right-secret", jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name:  "garbage",
			token: "not-a-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(ctx, tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewJWT_RequiresSecret(t *testing.T) {
	if _, err := NewJWT(Config{}); err == nil {
		t.Fatal("expected error without secret")
	}
}
