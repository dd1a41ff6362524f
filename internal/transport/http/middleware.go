package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/ratelimit"
	"github.com/codegoddy/skincare/internal/platform/logging"
)

const identityKey = "request.identity"

// sessionCookie is the fallback token location for browser clients.
const sessionCookie = "access_token"

// CurrentIdentity returns the identity attached by the auth middlewares.
func CurrentIdentity(c *gin.Context) (identity.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return identity.Identity{}, false
	}
	id, ok := v.(identity.Identity)
	return id, ok
}

func cookieToken(c *gin.Context) string {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}

// RequireAuth resolves the bearer token and rejects the request when no
// valid identity can be established.
func RequireAuth(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"), cookieToken(c))
		if err != nil {
			RespondFromError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuth attaches an identity when one resolves and lets anonymous
// requests pass untouched.
func OptionalAuth(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := resolver.ResolveOptional(c.Request.Context(), c.GetHeader("Authorization"), cookieToken(c)); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// RequireAdmin annotates the identity with its role and rejects
// non-admins. Must run after RequireAuth.
func RequireAdmin(gate *identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
			c.Abort()
			return
		}
		id, err := gate.RequireAdmin(c.Request.Context(), id)
		if err != nil {
			RespondFromError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RateLimit computes the partition key and consults the limiter. Counter
// failures let the request through so the storefront never hard-fails on
// the limiter backend.
func RateLimit(limiter ratelimit.Limiter, limit int, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key string
		if id, ok := CurrentIdentity(c); ok {
			key = ratelimit.Key(&id, c.ClientIP())
		} else {
			key = ratelimit.Key(nil, c.ClientIP())
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if !allowed {
			RespondError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Maintenance rejects storefront traffic while maintenance mode is on.
// Admins pass through so they can turn it back off.
func Maintenance(check func(c *gin.Context) bool, gate *identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !check(c) {
			c.Next()
			return
		}
		if id, ok := CurrentIdentity(c); ok {
			if _, err := gate.RequireAdmin(c.Request.Context(), id); err == nil {
				c.Next()
				return
			}
		}
		RespondError(c, http.StatusServiceUnavailable, "store is under maintenance", nil)
		c.Abort()
	}
}
