package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID is the fiber.Ctx locals key holding the authenticated user id.
const LocalUserID = "userId"

// bearer accepts "Bearer <token>" or a bare token.
func bearer(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}

// NewAuthMiddleware rejects requests without a valid bearer token and stores
// the token subject under LocalUserID.
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	v := NewVerifier(secret, expectedIssuer)
	return func(c *fiber.Ctx) error {
		raw := bearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "missing Authorization header"})
		}
		_, uid, err := v.Verify(raw)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		c.Locals(LocalUserID, uid.String())
		return c.Next()
	}
}
