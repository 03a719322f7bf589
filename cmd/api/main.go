package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"travelapi/docs"
	"travelapi/internal/auth"
	"travelapi/internal/config"
	handlers "travelapi/internal/http/handler"
	"travelapi/internal/http/middleware"
	"travelapi/internal/logging"
	apiotel "travelapi/internal/otel"
	"travelapi/internal/realtime"
	"travelapi/internal/service"
)

const serviceName = "travelapi"

// @title Travel API
// @version 1.0
// @description Accounts, todos, uploads, statistics and chat for the Kyoto travel guide.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.Location(), slog.LevelInfo)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := apiotel.Init(ctx, log, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(store.Users(), tokens)
	todoSvc := service.NewTodoService(store.Todos())
	fileSvc := service.NewFileService(store.Files(), blobs, cfg.Upload.MaxBytes)
	chatSvc := service.NewChatService(store.Messages())
	statsSvc := service.NewStatsService(store.Todos(), store.Files(), store.Messages())

	seedAdmin(ctx, authSvc, cfg.Admin, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}
	chatMetrics, err := realtime.NewMetrics(reg)
	if err != nil {
		return err
	}
	chat := realtime.NewServer(chatSvc, tokens, chatMetrics, log, realtime.Options{})

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(cfg.Upload.MaxBytes + 1<<20),
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader,
	}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	// Panics surface as errors to the middleware above, so they are logged and counted.
	app.Use(recover.New())

	handlers.RegisterRoutes(app, handlers.Deps{
		Health:   store,
		Tokens:   tokens,
		Auth:     authSvc,
		Todos:    todoSvc,
		Files:    fileSvc,
		Stats:    statsSvc,
		Chat:     chatSvc,
		Gatherer: reg,
	})
	chat.Register(app, "/ws")

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		app.Static("/", cfg.StaticDir)
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()
	log.Info("server listening", "addr", addr, "app_host", cfg.AppHost)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// seedAdmin creates the configured admin account once. An existing account is left alone.
func seedAdmin(ctx context.Context, svc service.AuthService, admin config.AdminConfig, log *slog.Logger) {
	if admin.Password == "" {
		return
	}

	_, err := svc.Register(ctx, service.RegisterInput{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		Name:     admin.Name,
	})
	switch {
	case err == nil:
		log.Info("admin account seeded", "username", admin.Username)
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrDuplicateUsername):
		log.Info("admin account already present", "username", admin.Username)
	default:
		log.Warn("admin account not seeded", "error", err)
	}
}
