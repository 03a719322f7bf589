package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/service"
)

// ListMessages returns the newest chat messages, oldest first.
//
// @Summary   Chat history
// @Tags      chat
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} model.ChatMessage
// @Router    /api/messages [get]
func ListMessages(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		msgs, err := svc.Recent(c.UserContext(), service.HistoryLimit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(msgs)
	}
}
