package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"travelapi/internal/auth"
	"travelapi/internal/model"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace an oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))

		resp, _ := app.Test(req)

		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test?q=1", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "INFO", logData["level"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "WARN", logData["level"])

	buf.Reset()
	resp, _ = app.Test(httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, "ERROR", logData["level"])
}

func TestLogger_TraceID(t *testing.T) {
	var buf bytes.Buffer
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
		c.SetUserContext(trace.ContextWithSpanContext(c.UserContext(), sc))
		return c.Next()
	})
	app.Use(LoggerWithWriter(&buf, time.UTC))
	app.Get("/traced", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err = app.Test(httptest.NewRequest("GET", "/traced", nil))
	require.NoError(t, err)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, traceID.String(), logData["trace_id"])
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header, want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bearerToken(tt.header), tt.header)
	}
}

func TestRequireAuth(t *testing.T) {
	tm := auth.NewTokenManager("mw-secret", time.Hour)
	token, err := tm.Issue(&model.User{ID: "u1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				return c.SendStatus(fiber.StatusUnauthorized)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
				return c.SendStatus(fiber.StatusForbidden)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/me", RequireAuth(tm), func(c *fiber.Ctx) error {
		return c.SendString(ClaimsFrom(c).UserID)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Token " + token, fiber.StatusUnauthorized},
		{"tampered", "Bearer " + token + "x", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				buf := new(bytes.Buffer)
				buf.ReadFrom(resp.Body)
				assert.Equal(t, "u1", buf.String())
			}
		})
	}
}

func TestClaimsFrom_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, ClaimsFrom(c))
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
