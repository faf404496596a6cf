package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/creasty/defaults"
	r "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/echotube/echotube/pkg/api"
	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/dashboard"
	"github.com/echotube/echotube/pkg/fallback"
	"github.com/echotube/echotube/pkg/observability"
	"github.com/echotube/echotube/pkg/redis"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/worker"
	"github.com/echotube/echotube/pkg/youtube"
)

// Server wires the dashboard components and runs them as one process.
type Server struct {
	log    logrus.FieldLogger
	config *Config

	redis *r.Client
	queue *worker.Queue

	apiService    api.Service
	workerService worker.Service

	pprofServer  *http.Server
	healthServer *http.Server
}

// NewServer creates a new server instance
func NewServer(_ context.Context, log logrus.FieldLogger, config *Config) (*Server, error) {
	if err := fillDefaults(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	redisClient, err := redis.New(config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	store, err := cache.NewStore(redisClient, config.Redis.Prefix, config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	sessionSecrets, err := session.LoadSecrets()
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(sessionSecrets, config.SessionLifetime)
	if err != nil {
		return nil, err
	}

	oauthSecrets, err := youtube.LoadOAuthSecrets()
	if err != nil {
		return nil, err
	}

	factory, err := youtube.NewClientFactory(config.YouTube, oauthSecrets, log)
	if err != nil {
		return nil, err
	}

	redisOpt, err := redis.Options(config.Redis)
	if err != nil {
		return nil, err
	}
	asynqOpt := redis.NewAsynqRedisOptions(redisOpt)

	var (
		queue    *worker.Queue
		enqueuer fallback.Enqueuer
	)

	if config.Worker.Enabled {
		queue, err = worker.NewQueue(asynqOpt, config.Worker, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create refresh queue: %w", err)
		}

		enqueuer = queue
	}

	policy := fallback.NewPolicy(store, enqueuer, log)

	dashboardService := dashboard.NewService(
		func(ctx context.Context, sess *session.Session) dashboard.Source {
			return factory.ForSession(ctx, sess)
		},
		policy, store, log,
	)

	s := &Server{
		log:        log,
		config:     config,
		redis:      redisClient,
		queue:      queue,
		apiService: api.NewService(config.API, dashboardService, sessions, log),
	}

	if config.Worker.Enabled {
		workerService, err := worker.NewService(log, config.Worker, dashboardService, sessions, asynqOpt)
		if err != nil {
			return nil, err
		}

		s.workerService = workerService
	}

	return s, nil
}

// fillDefaults allocates absent component configs with their defaults.
// Configs the caller populated are left untouched; defaults.Set cannot
// tell an explicit false from an unset field and would flip disabled
// components back on.
func fillDefaults(config *Config) error {
	if config.Cache == nil {
		config.Cache = &cache.Config{}
		if err := defaults.Set(config.Cache); err != nil {
			return err
		}
	}
	if config.YouTube == nil {
		config.YouTube = &youtube.Config{}
		if err := defaults.Set(config.YouTube); err != nil {
			return err
		}
	}
	if config.API == nil {
		config.API = &api.Config{}
		if err := defaults.Set(config.API); err != nil {
			return err
		}
	}
	if config.Worker == nil {
		config.Worker = &worker.Config{}
		if err := defaults.Set(config.Worker); err != nil {
			return err
		}
	}

	return nil
}

// Start starts the server and all its components
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start metrics server
	g.Go(func() error {
		observability.StartMetricsServer(s.config.MetricsAddr)
		<-ctx.Done()

		return nil
	})

	// Start pprof server if configured
	if s.config.PProfAddr != nil {
		g.Go(func() error {
			if err := s.startPProf(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	// Start health check server if configured
	if s.config.HealthCheckAddr != nil {
		g.Go(func() error {
			if err := s.startHealthCheck(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-ctx.Done()

			return nil
		})
	}

	if err := s.apiService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API service: %w", err)
	}

	if s.workerService != nil {
		if err := s.workerService.Start(ctx); err != nil {
			return fmt.Errorf("failed to start refresh worker: %w", err)
		}
	}

	// Wait for shutdown signal
	g.Go(func() error {
		<-ctx.Done()

		// Use a fresh context for cleanup since the current one is canceled
		return s.stopAll(context.Background())
	})

	return g.Wait()
}

func (s *Server) stopAll(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	if err := s.apiService.Stop(); err != nil {
		s.log.WithError(err).Error("failed to stop API service")
	}

	if s.workerService != nil {
		if err := s.workerService.Stop(); err != nil {
			s.log.WithError(err).Error("failed to stop refresh worker")
		}
	}

	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			s.log.WithError(err).Error("failed to close refresh queue")
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.WithError(err).Error("failed to close redis")
		}
	}

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}

func (s *Server) startPProf() error {
	s.log.WithField("addr", *s.config.PProfAddr).Info("Starting pprof server")

	s.pprofServer = &http.Server{
		Addr:              *s.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.pprofServer.ListenAndServe()
}

func (s *Server) startHealthCheck() error {
	s.log.WithField("addr", *s.config.HealthCheckAddr).Info("Starting healthcheck server")

	s.healthServer = &http.Server{
		Addr:              *s.config.HealthCheckAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	s.healthServer.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s.healthServer.ListenAndServe()
}
