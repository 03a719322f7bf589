package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/auth"
)

// ClaimsLocalKey holds the *auth.Claims of an authenticated request.
const ClaimsLocalKey = "claims"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth admits requests with a valid "Authorization: Bearer <token>" header.
// Failures are returned as auth errors for the app's error handler to render.
func RequireAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := v.Verify(bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return err
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the identity stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
