// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mealsmith/v1/internal/infrastructure/config"
	"github.com/mealsmith/v1/internal/infrastructure/http/handlers"
	"github.com/mealsmith/v1/internal/infrastructure/http/middleware"
	"github.com/mealsmith/v1/internal/infrastructure/monitoring"
	"github.com/mealsmith/v1/internal/ports/inbound"
)

// APIServer serves the meal-planning JSON API
type APIServer struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	plannerService inbound.PlannerService
	metrics        *monitoring.MetricsCollector
	openAPIHandler *OpenAPIHandler
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	plannerService inbound.PlannerService,
	metrics *monitoring.MetricsCollector,
) *APIServer {
	server := &APIServer{
		config:         cfg,
		logger:         log,
		plannerService: plannerService,
		metrics:        metrics,
		openAPIHandler: NewOpenAPIHandler(log),
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	if s.config.RateLimit.Enable {
		r.Use(middleware.RateLimit(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize))
	}

	r.Use(chimiddleware.Timeout(30 * time.Second))
	if s.config.Server.EnableCompression {
		r.Use(chimiddleware.Compress(5))
	}
	r.Use(middleware.JSONOnly())

	// Operational endpoints stay outside the API prefix
	r.Get(s.healthPath(), s.handleHealthCheck)
	if s.config.Monitoring.EnableMetrics && s.metrics != nil {
		r.Method(http.MethodGet, s.metricsPath(), s.metrics.Handler())
	}

	r.Get("/api/v1/openapi.yaml", s.openAPIHandler.ServeOpenAPISpec)
	r.Get("/api/v1/docs", s.openAPIHandler.ServeSwaggerUI)

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := handlers.NewPlannerHandlers(s.plannerService, s.logger)

	r.Route("/mealplan", func(r chi.Router) {
		r.Post("/", h.GenerateMealPlan)
		r.Post("/alternative", h.FindAlternative)
		r.Post("/usage", h.RecordUsage)
		r.Post("/feedback", h.RecordFeedback)
	})
}

func (s *APIServer) healthPath() string {
	if s.config.Monitoring.HealthCheckPath != "" {
		return s.config.Monitoring.HealthCheckPath
	}
	return "/health"
}

func (s *APIServer) metricsPath() string {
	if s.config.Monitoring.MetricsPath != "" {
		return s.config.Monitoring.MetricsPath
	}
	return "/metrics"
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// handleHealthCheck provides the health check endpoint
func (s *APIServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, `{"status":"healthy","service":"%s","version":"%s","timestamp":%d}`,
		s.config.App.Name, s.config.App.Version, time.Now().Unix())
}
