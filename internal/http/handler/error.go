package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/auth"
	"travelapi/internal/http/middleware"
	"travelapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// classify maps an error onto status, code and a message that is safe to show.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, service.ErrDuplicateEmail):
		return fiber.StatusBadRequest, "DUPLICATE_EMAIL", "email already registered"
	case errors.Is(err, service.ErrDuplicateUsername):
		return fiber.StatusBadRequest, "DUPLICATE_USERNAME", "username already taken"
	case errors.Is(err, service.ErrUnsupportedType):
		return fiber.StatusBadRequest, "UNSUPPORTED_TYPE", "only images, PDF, Word and text files are allowed"
	case errors.Is(err, service.ErrReaderNil):
		return fiber.StatusBadRequest, "FILE_REQUIRED", "file is required"
	case errors.Is(err, service.ErrFileTooLarge):
		return fiber.StatusBadRequest, "FILE_TOO_LARGE", "file exceeds the upload size limit"
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	case errors.Is(err, auth.ErrMissingToken):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "access token required"
	case errors.Is(err, auth.ErrTokenExpired):
		return fiber.StatusForbidden, "TOKEN_EXPIRED", "token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return fiber.StatusForbidden, "FORBIDDEN", "invalid token"
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "resource not found"
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusBadRequest:
			return fe.Code, "BAD_REQUEST", "bad request"
		case fiber.StatusUnauthorized:
			return fe.Code, "UNAUTHORIZED", "unauthorized"
		case fiber.StatusForbidden:
			return fe.Code, "FORBIDDEN", "forbidden"
		case fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND", "resource not found"
		case fiber.StatusMethodNotAllowed:
			return fe.Code, "METHOD_NOT_ALLOWED", "method not allowed"
		case fiber.StatusRequestEntityTooLarge:
			return fe.Code, "PAYLOAD_TOO_LARGE", "request body too large"
		case fiber.StatusUpgradeRequired:
			return fe.Code, "UPGRADE_REQUIRED", "websocket upgrade required"
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

// respondError renders err in the standard envelope. Unexpected errors are logged, never echoed.
func respondError(c *fiber.Ctx, err error) error {
	status, code, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Default().ErrorContext(c.UserContext(), "request failed",
			"request_id", middleware.RequestIDFrom(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return writeError(c, status, code, message)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return respondError(c, err)
	}
}
