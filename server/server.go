// Package server provides HTTP server management and lifecycle handling for the
// calculation API: middleware, routes and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/giygas/pedcalc-api/config"
	"github.com/giygas/pedcalc-api/data"
	"github.com/giygas/pedcalc-api/handlers"
	"github.com/giygas/pedcalc-api/health"
	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/metrics"
	"github.com/giygas/pedcalc-api/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const rateLimiterCleanupInterval = 30 * time.Minute

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	dataContainer *data.DataContainer
	config        *config.Config
	httpHandler   interfaces.HTTPHandler
	healthChecker interfaces.HealthChecker
	rateLimiter   *RateLimiter
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataContainer *data.DataContainer) *Server {
	router := chi.NewRouter()
	healthChecker := health.NewHealthChecker(dataContainer, cfg.ReloadTimes)

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		dataContainer: dataContainer,
		config:        cfg,
		healthChecker: healthChecker,
		httpHandler:   handlers.NewHTTPHandler(dataContainer, validation.NewDataValidator(), healthChecker),
		rateLimiter:   NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(BlockDirectAccessMiddleware) // Put BEFORE RealIPMiddleware to see original RemoteAddr
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(s.rateLimiter.Handler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	h := s.httpHandler

	s.router.Get("/health", h.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/drugs", h.ListDrugs)
		r.Get("/drugs/{id}", h.GetDrug)
		r.Get("/drugs/{id}/doses", h.DrugDoses)

		r.Route("/calc", func(r chi.Router) {
			r.Get("/dose", h.CalcDose)
			r.Get("/max-dose", h.CalcMaxDose)
			r.Get("/map", h.CalcMAP)
			r.Get("/gfr", h.CalcGFR)
			r.Get("/ett", h.CalcETT)
			r.Get("/umbilical", h.CalcUmbilical)
			r.Get("/gir", h.CalcGIR)
			r.Post("/fluids", h.CalcFluids)
			r.Get("/exchange", h.CalcExchange)
			r.Post("/ballard", h.CalcBallard)
		})

		r.Route("/classify", func(r chi.Router) {
			r.Get("/bp", h.ClassifyBP)
			r.Get("/neonatal-bp", h.ClassifyNeonatalBP)
			r.Get("/growth", h.ClassifyGrowth)
			r.Get("/jaundice", h.ClassifyJaundice)
		})

		r.Get("/charts/growth", h.GrowthChart)
	})
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == config.EnvDevelopment {
		s.startProfilingServer()
	}
	s.rateLimiter.StartCleanup(rateLimiterCleanupInterval)

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")
	s.rateLimiter.Stop()

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Warn("Profiling server failed", "error", err)
		}
	}()
}
