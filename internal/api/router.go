package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/cargo-tracking/docs"
	"github.com/99minutos/cargo-tracking/internal/api/handler"
	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Shipments  ports.ShipmentService
	Tracking   ports.TrackingService
	Dispatcher handler.EventDispatcher
	// Checks are the readiness probes keyed by dependency name.
	Checks map[string]handler.CheckFunc
	Logger zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// default Prometheus registry, which also holds the tracking metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cargo_tracking",
		Registerer: registerer,
	}))

	// --- Health probes and tooling ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Shipments ---
	shipments := handler.NewShipmentHandler(deps.Shipments)
	tracking := handler.NewTrackingHandler(deps.Tracking)

	v1 := e.Group("/v1")
	v1.POST("/shipments", shipments.Create)
	v1.GET("/shipments", shipments.List)
	v1.GET("/shipments/:id", shipments.Get)
	v1.PUT("/shipments/:id", shipments.Update)
	v1.DELETE("/shipments/:id", shipments.Delete)
	v1.POST("/shipments/:id/update-location", tracking.UpdateLocation)
	v1.GET("/shipments/:id/eta", shipments.ETA)
	v1.GET("/shipments/:id/route", shipments.Route)

	// --- Asynchronous ingestion ---
	events := handler.NewEventHandler(deps.Dispatcher)
	v1.POST("/events", events.Receive)
	v1.POST("/events/batch", events.ReceiveBatch)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			evt.
				Err(v.Error).
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
