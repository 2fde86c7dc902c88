// Package main provides the Flowdesk API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/registry"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger           *slog.Logger
	registry         *registry.Registry
	validate         *validator.Validate
	flowService      *services.Flow
	dashboardService *services.Dashboard
}

// NewAPI wires the services; eventBus may be nil, in which case flow
// lifecycle events are not published.
func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventPublisher,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:           logger,
		registry:         registry,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		flowService:      services.NewFlow(persistence, registry, eventBus, tracer, logger),
		dashboardService: services.NewDashboard(persistence, tracer),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.flowService, a.dashboardService, a.validate, a.registry, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowdesk API")
	})

	handlers.Register(app)

	return app
}

// Start serves the API until ctx is done.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		if err := app.Shutdown(); err != nil {
			a.logger.Error("Failed to shut down API", "error", err)
		}
	}()

	a.logger.InfoContext(ctx, "Flowdesk API listening", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
