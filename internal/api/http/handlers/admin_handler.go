package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-admin/internal/api/dto"
	"github.com/spec-kit/clinic-admin/internal/auth"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

// AdminHandler exposes the admin session gate over HTTP.
type AdminHandler struct {
	gate   *auth.SessionGate
	logger *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(gate *auth.SessionGate, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{gate: gate, logger: logger}
}

// Login handles POST /admin-login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("admin login failed", zap.Error(err))
		return util.NewInternalError(err)
	}

	if err := h.gate.Authenticate(req.Password); err != nil {
		return err
	}

	c.Cookie(h.gate.IssueCookie())
	return c.JSON(fiber.Map{"success": true})
}

// Logout handles DELETE /admin-login. It unconditionally clears the cookie.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.gate.ExpireCookie())
	return c.JSON(fiber.Map{"success": true})
}
