package delivery

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spmb/config"
	"spmb/domain"
	"spmb/middleware"
)

type userHandler struct {
	db *gorm.DB
}

func NewUserAuthDelivery(app *fiber.App, db *gorm.DB) {
	handler := &userHandler{
		db: db,
	}

	route := app.Group("/login")
	route.Post("/user", handler.deliveryLogin)
}

func (h *userHandler) deliveryLogin(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "Login")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	if h.db == nil {
		config.PrintLogInfo(&req.Username, fiber.StatusInternalServerError, "Login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": domain.ErrStoreNotConfigured.Error(),
		})
	}

	var user domain.User
	err := h.db.WithContext(c.Context()).Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusUnauthorized, "Login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "invalid username or password",
		})
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	if err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusUnauthorized, "Login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "invalid username or password",
		})
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Username, user.Role)
	if err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusInternalServerError, "Login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to generate token",
		})
	}

	config.PrintLogInfo(&req.Username, fiber.StatusOK, "Login")
	return c.Status(fiber.StatusOK).JSON(domain.LoginResponse{
		Token: token,
		Role:  user.Role,
	})
}
