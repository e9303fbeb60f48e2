package delivery

import (
	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"

	"spmb/config"
	"spmb/domain"
)

type chatHandler struct {
	cuc domain.ChatUseCase
}

func NewChatDelivery(app *fiber.App, uc domain.ChatUseCase) {
	handler := &chatHandler{
		cuc: uc,
	}

	route := app.Group("/chat")
	route.Post("/ask", handler.deliveryAsk)
}

// deliveryAsk always answers 200 with a reply string. Assistant failures are
// already folded into fixed apology replies by the usecase.
func (ch *chatHandler) deliveryAsk(c *fiber.Ctx) error {
	var req domain.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "ChatAsk")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid data",
			"error":   err.Error(),
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "ChatAsk")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	reply := ch.cuc.Ask(c.Context(), &req)

	config.PrintLogInfo(nil, fiber.StatusOK, "ChatAsk")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"reply":   reply,
	})
}
