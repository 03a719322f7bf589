package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns it with a token.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body registerRequest true "account"
// @Success  200 {object} service.AuthResult
// @Failure  400 {object} errorPayload
// @Router   /api/auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		res, err := svc.Register(c.UserContext(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// Login exchanges credentials for a token.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} service.AuthResult
// @Failure  401 {object} errorPayload
// @Router   /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
