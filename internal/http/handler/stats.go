package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/http/middleware"
	"travelapi/internal/service"
)

// GetStats summarises the caller's todos, files and chat activity.
//
// @Summary   Usage statistics
// @Tags      stats
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} model.Stats
// @Router    /api/stats [get]
func GetStats(svc service.StatsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.ForUser(c.UserContext(), middleware.ClaimsFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(st)
	}
}
