// Package main provides the FlowPulse API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/flowpulse/flowpulse/pkg/monitor"
	"github.com/flowpulse/flowpulse/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	monitor  *monitor.Monitor
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, m *monitor.Monitor) *API {
	return &API{
		logger:   logger,
		monitor:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewHandlers(a.monitor, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("FlowPulse API")
	})

	app.Get("/workflows/active", handlers.GetActiveWorkflows)
	app.Get("/workflows/:id/errors", handlers.GetErrorExecutions)
	app.Get("/executions", handlers.GetWorkflowExecutions)
	app.Get("/health-report", handlers.GetHealthReport)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
