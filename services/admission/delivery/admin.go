package delivery

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"spmb/config"
	"spmb/domain"
	"spmb/middleware"
)

type adminHandler struct {
	ruc domain.RegistrationUseCase
}

func NewAdminDelivery(app *fiber.App, uc domain.RegistrationUseCase) {
	handler := &adminHandler{
		ruc: uc,
	}

	route := app.Group("/admin")
	route.Use(middleware.AuthRequired())
	route.Use(middleware.RoleRequired("admin"))
	route.Get("/registrations", handler.deliveryListRegistrations)
	route.Put("/registrations/:id/status", handler.deliveryUpdateStatus)
	route.Post("/reset", handler.deliveryReset)
}

func adminUsername(c *fiber.Ctx) *string {
	claims, ok := c.Locals("user").(*domain.Claims)
	if !ok {
		return nil
	}
	return &claims.Username
}

func (ah *adminHandler) deliveryListRegistrations(c *fiber.Ctx) error {
	username := adminUsername(c)

	registrations, err := ah.ruc.ListAll(c.Context())
	if err != nil {
		config.PrintLogInfo(username, fiber.StatusInternalServerError, "ListRegistrations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get all registrations",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "ListRegistrations")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "All registrations retrieved",
		"data":    registrations,
		"total":   len(*registrations),
	})
}

// deliveryUpdateStatus covers accept, reject and revert-to-pending. The
// response carries the refetched list so the dashboard redraws from the
// store's truth instead of patching its own copy.
func (ah *adminHandler) deliveryUpdateStatus(c *fiber.Ctx) error {
	username := adminUsername(c)

	var req struct {
		Status domain.RegistrationStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateStatus")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}

	if !req.Status.Valid() {
		config.PrintLogInfo(username, fiber.StatusBadRequest, "UpdateStatus")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Status harus PENDING, ACCEPTED, atau REJECTED",
		})
	}

	registrations, err := ah.ruc.Decide(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		config.PrintLogInfo(username, status, "UpdateStatus")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update registration status",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(username, fiber.StatusOK, "UpdateStatus")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Status pendaftaran diperbarui",
		"data":    registrations,
		"total":   len(*registrations),
	})
}

// deliveryReset always refuses. The wipe-everything button was retired after
// a near miss; the endpoint stays so old dashboards get a clear answer.
func (ah *adminHandler) deliveryReset(c *fiber.Ctx) error {
	username := adminUsername(c)

	config.PrintLogInfo(username, fiber.StatusForbidden, "ResetData")
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Fitur 'Reset Data' dinonaktifkan untuk keamanan data. Hubungi pengelola sistem bila data benar-benar perlu dihapus.",
	})
}
