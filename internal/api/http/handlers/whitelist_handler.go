package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/internal/api/dto"
	"github.com/spec-kit/clinic-admin/internal/domain"
	"github.com/spec-kit/clinic-admin/internal/service"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

// WhitelistHandler exposes the sign-in whitelist.
type WhitelistHandler struct {
	directory *service.DirectoryService
}

// NewWhitelistHandler constructs handler.
func NewWhitelistHandler(directory *service.DirectoryService) *WhitelistHandler {
	return &WhitelistHandler{directory: directory}
}

// Emails handles GET /whitelist. The response strips entries down to their
// raw email strings; an unknown provider value is passed through and simply
// matches nothing.
func (h *WhitelistHandler) Emails(c *fiber.Ctx) error {
	entries := h.directory.ListWhitelist(c.UserContext(), providerFilter(c))

	emails := make([]string, 0, len(entries))
	for _, entry := range entries {
		emails = append(emails, entry.Email)
	}
	return c.JSON(fiber.Map{"emails": emails})
}

// List handles GET /admin/whitelist with full entries.
func (h *WhitelistHandler) List(c *fiber.Ctx) error {
	entries := h.directory.ListWhitelist(c.UserContext(), providerFilter(c))
	return c.JSON(fiber.Map{"entries": entries})
}

// Add handles POST /admin/whitelist.
func (h *WhitelistHandler) Add(c *fiber.Ctx) error {
	var req dto.WhitelistMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" {
		return util.NewValidationError("email is required")
	}

	provider := domain.ProviderEmail
	if req.Provider != "" {
		parsed, ok := domain.ParseProvider(req.Provider)
		if !ok {
			return util.NewValidationError("unknown provider")
		}
		provider = parsed
	}

	if err := h.directory.AddWhitelistEmail(c.UserContext(), req.Email, provider); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /admin/whitelist.
func (h *WhitelistHandler) Delete(c *fiber.Ctx) error {
	var req dto.WhitelistMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" {
		return util.NewValidationError("email is required")
	}

	if err := h.directory.DeleteWhitelistEmail(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func providerFilter(c *fiber.Ctx) *domain.Provider {
	raw := c.Query("provider")
	if raw == "" {
		return nil
	}
	provider := domain.Provider(raw)
	return &provider
}
