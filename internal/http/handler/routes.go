package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"travelapi/internal/http/middleware"
	"travelapi/internal/service"
)

// Deps are the collaborators the HTTP routes need.
type Deps struct {
	Health   Pinger
	Tokens   middleware.TokenVerifier
	Auth     service.AuthService
	Todos    service.TodoService
	Files    service.FileService
	Stats    service.StatsService
	Chat     service.ChatService
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches the HTTP routes to app. Everything under /api except
// /api/auth requires a bearer token.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Health))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get(middleware.MetricsPath, Metrics(d.Gatherer))
	}
	app.Get(service.UploadsPath+"/:filename", ServeUpload(d.Files))

	api := app.Group("/api")
	api.Post("/auth/register", Register(d.Auth))
	api.Post("/auth/login", Login(d.Auth))

	requireAuth := middleware.RequireAuth(d.Tokens)

	api.Get("/todos", requireAuth, ListTodos(d.Todos))
	api.Post("/todos", requireAuth, CreateTodo(d.Todos))
	api.Put("/todos/:id", requireAuth, UpdateTodo(d.Todos))
	api.Delete("/todos/:id", requireAuth, DeleteTodo(d.Todos))

	api.Post("/upload", requireAuth, UploadFile(d.Files))
	api.Get("/files", requireAuth, ListFiles(d.Files))
	api.Delete("/files/:id", requireAuth, DeleteFile(d.Files))

	api.Get("/stats", requireAuth, GetStats(d.Stats))
	api.Get("/messages", requireAuth, ListMessages(d.Chat))
}
