package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/api/handlers"
	"github.com/echotube/echotube/pkg/dashboard"
	"github.com/echotube/echotube/pkg/session"
)

// Service defines the API service interface
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	app       *fiber.App
	server    *http.Server
	config    *Config
	dashboard dashboard.Service
	sessions  *session.Manager
	log       logrus.FieldLogger
}

// NewService creates a new API service
func NewService(cfg *Config, dashboardService dashboard.Service, sessions *session.Manager, log logrus.FieldLogger) Service {
	return &service{
		config:    cfg,
		dashboard: dashboardService,
		sessions:  sessions,
		log:       log.WithField("service", "api"),
	}
}

// Start initializes and starts the API server
func (s *service) Start(_ context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API service is disabled")
		return nil
	}

	// Create Fiber app with custom error handler
	s.app = fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		AppName:      "EchoTube API",
	})

	// Setup middleware
	setupMiddleware(s.app, s.config.AllowedOrigins)

	// Register dashboard routes
	server := handlers.NewServer(s.dashboard, s.sessions, s.config.SessionCookie, s.log)
	server.Register(s.app)

	// Create HTTP server with the Fiber app
	fiberHandler := adaptor.FiberApp(s.app)
	s.server = &http.Server{
		Addr:              s.config.Addr,
		Handler:           fiberHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		s.log.WithField("addr", s.config.Addr).Info("Starting API server")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()

	return nil
}

// Stop gracefully shuts down the API server
func (s *service) Stop() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
