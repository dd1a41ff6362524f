package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codegoddy/skincare/internal/domain/identity/model"
)

// jwtValidator verifies provider-issued HS256 tokens locally using the
// shared signing secret. It avoids a network round trip per request for
// deployments that co-own the key; the remote driver stays the default.
type jwtValidator struct {
	secret []byte
}

// NewJWT builds the local token validator.
func NewJWT(cfg Config) (Validator, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt driver requires a signing secret")
	}
	return &jwtValidator{secret: []byte(cfg.JWTSecret)}, nil
}

type providerClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (v *jwtValidator) Validate(_ context.Context, token string) (model.Identity, error) {
	var claims providerClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return model.Identity{}, ErrInvalidToken
	}

	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	return model.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Metadata:  claims.UserMetadata,
		IssuedAt:  issued,
	}, nil
}
