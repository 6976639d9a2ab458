package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/pkg/util"
)

// RequireAdmin guards routes behind the admin capability cookie.
func RequireAdmin(gate *SessionGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !gate.Validate(c.Cookies(CookieName)) {
			return util.NewUnauthorized()
		}
		return c.Next()
	}
}
