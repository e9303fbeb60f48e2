package delivery

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"spmb/config"
	"spmb/domain"
	"spmb/middleware"
)

type settingsHandler struct {
	suc domain.SettingsUseCase
}

func NewSettingsDelivery(app *fiber.App, uc domain.SettingsUseCase) {
	handler := &settingsHandler{
		suc: uc,
	}

	route := app.Group("/settings")
	route.Get("/logo", handler.deliveryGetLogo)
	route.Put("/logo", middleware.AuthRequired(), middleware.RoleRequired("admin"), handler.deliveryUpdateLogo)
}

// deliveryGetLogo never fails: a missing or unreachable logo comes back as an
// empty string and the client falls back to its bundled default.
func (sh *settingsHandler) deliveryGetLogo(c *fiber.Ctx) error {
	logo, err := sh.suc.Logo(c.Context())
	if err != nil {
		logo = ""
	}

	config.PrintLogInfo(nil, fiber.StatusOK, "GetLogo")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"logo":    logo,
	})
}

func (sh *settingsHandler) deliveryUpdateLogo(c *fiber.Ctx) error {
	username := adminUsername(c)

	var req struct {
		Logo string `json:"logo"`
	}
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateLogo")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}

	if req.Logo == "" || !strings.HasPrefix(req.Logo, "data:image/") {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateLogo")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Logo harus berupa data URI gambar",
		})
	}

	if err := sh.suc.UpdateLogo(c.Context(), req.Logo); err != nil {
		config.PrintLogInfo(username, fiber.StatusInternalServerError, "UpdateLogo")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update logo",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "UpdateLogo")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logo sekolah diperbarui",
	})
}
