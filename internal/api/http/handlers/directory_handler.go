package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/internal/api/dto"
	"github.com/spec-kit/clinic-admin/internal/domain"
	"github.com/spec-kit/clinic-admin/internal/service"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

// DirectoryHandler exposes doctor and nurse directory management.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListDoctors handles GET /admin/doctors.
func (h *DirectoryHandler) ListDoctors(c *fiber.Ctx) error {
	names := h.directory.ListStaff(c.UserContext(), domain.StaffKindDoctor)
	return c.JSON(fiber.Map{"doctors": names})
}

// AddDoctor handles POST /admin/doctors.
func (h *DirectoryHandler) AddDoctor(c *fiber.Ctx) error {
	return h.addStaff(c, domain.StaffKindDoctor)
}

// DeleteDoctor handles DELETE /admin/doctors.
func (h *DirectoryHandler) DeleteDoctor(c *fiber.Ctx) error {
	return h.deleteStaff(c, domain.StaffKindDoctor)
}

// ListNurses handles GET /admin/nurses.
func (h *DirectoryHandler) ListNurses(c *fiber.Ctx) error {
	names := h.directory.ListStaff(c.UserContext(), domain.StaffKindNurse)
	return c.JSON(fiber.Map{"nurses": names})
}

// AddNurse handles POST /admin/nurses.
func (h *DirectoryHandler) AddNurse(c *fiber.Ctx) error {
	return h.addStaff(c, domain.StaffKindNurse)
}

// DeleteNurse handles DELETE /admin/nurses.
func (h *DirectoryHandler) DeleteNurse(c *fiber.Ctx) error {
	return h.deleteStaff(c, domain.StaffKindNurse)
}

func (h *DirectoryHandler) addStaff(c *fiber.Ctx, kind domain.StaffKind) error {
	name, err := parseStaffName(c)
	if err != nil {
		return err
	}
	if err := h.directory.AddStaff(c.UserContext(), kind, name); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *DirectoryHandler) deleteStaff(c *fiber.Ctx, kind domain.StaffKind) error {
	name, err := parseStaffName(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteStaff(c.UserContext(), kind, name); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func parseStaffName(c *fiber.Ctx) (string, error) {
	var req dto.StaffMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return "", util.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return "", util.NewValidationError("name is required")
	}
	return req.Name, nil
}
