package server

import (
	"context"
	"fmt"
	"log"
	"os"

	"studygroup/apperrors"
	"studygroup/config"
	"studygroup/pkg/metrics"
	"studygroup/server/middleware/limiter"
	"studygroup/server/routes"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	App *fiber.App
	cfg *config.Config
}

func NewServer(cfg *config.Config, svc routes.Services) (*Server, error) {
	errLogger, err := setupErrorLogging(cfg.Server.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to setup error logging: %w", err)
	}

	errorConfig := apperrors.HandlerConfig{
		Logger:             errLogger,
		ShowInternalErrors: os.Getenv("APP_ENV") == "development",
	}

	// Create Fiber app with custom error handler
	app := fiber.New(fiber.Config{
		AppName:      "StudyGroup",
		ServerHeader: "StudyGroupServer",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: apperrors.Handler(errorConfig),
	})

	app.Use(requestID())

	if err := setupLogging(app, cfg.Server.LogFile); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	app.Use(metrics.HTTPMetricsMiddleware())

	app.Use(limiter.New(limiter.Config{
		Capacity:     cfg.RateLimit.Capacity,
		RefillRate:   cfg.RateLimit.RefillRate,
		RefillPeriod: cfg.RateLimit.RefillPeriod,
		LimitReachedHandler: func(c *fiber.Ctx) error {
			return apperrors.NewRateLimitError()
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.RegisterRoutes(app, svc)

	return &Server{
		App: app,
		cfg: cfg,
	}, nil
}

func (s *Server) Start() error {
	addr := s.cfg.ServerAddress()
	log.Printf("Starting server on %s", addr)
	return s.App.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	return s.App.ShutdownWithContext(ctx)
}
