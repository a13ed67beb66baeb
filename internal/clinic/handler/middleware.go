package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/security/ratelimit"
)

const claimsKey = "claims"

// RateLimit rejects requests whose source address has exhausted the fixed
// window. Rejections carry no identity information.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			m.RateLimited.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return c.Next()
	}
}

// RequireAuth verifies the bearer access token and stores its claims for
// downstream guards and handlers. Missing or invalid credentials yield an
// authentication challenge, not a hard failure.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return unauthorized(c)
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole allows only callers whose role exactly matches. Denials are
// always audited.
func RequireRole(role string, rec audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromCtx(c)
		if claims == nil {
			return unauthorized(c)
		}
		if claims.Role != role {
			return forbidden(c, rec, claims, []string{role})
		}
		return c.Next()
	}
}

// RequireAnyRole allows callers whose role is a member of the designated set.
func RequireAnyRole(rec audit.Recorder, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFromCtx(c)
		if claims == nil {
			return unauthorized(c)
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return forbidden(c, rec, claims, roles)
	}
}

func claimsFromCtx(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(claimsKey).(*service.JWTCustomClaims)
	return claims
}

// actorFromCtx resolves the audited actor for the current request.
func actorFromCtx(c *fiber.Ctx) audit.Actor {
	actor := audit.Actor{IP: c.IP()}
	if claims := claimsFromCtx(c); claims != nil {
		actor.ID = claims.UserID
	}
	return actor
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}

func forbidden(c *fiber.Ctx, rec audit.Recorder, claims *service.JWTCustomClaims, required []string) error {
	rec.Record(claims.UserID, c.IP(), "access_denied", map[string]any{
		"path":          c.Path(),
		"required_role": strings.Join(required, ","),
		"role":          claims.Role,
	})
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "forbidden",
	})
}
