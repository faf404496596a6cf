package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/dashboard"
	"github.com/echotube/echotube/pkg/observability"
	"github.com/echotube/echotube/pkg/session"
	"github.com/echotube/echotube/pkg/youtube"
)

// Service defines the public interface for the refresh worker
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error
}

type service struct {
	config    *Config
	log       logrus.FieldLogger
	dashboard dashboard.Service
	sessions  *session.Manager
	redisOpt  *asynq.RedisClientOpt

	schedule cron.Schedule
	location *time.Location

	server *asynq.Server
}

// NewService creates a new refresh worker
func NewService(log logrus.FieldLogger, cfg *Config, dashboardService dashboard.Service, sessions *session.Manager, redisOpt *asynq.RedisClientOpt) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	schedule, err := cron.ParseStandard(cfg.QuotaResetSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid quota reset schedule: %w", err)
	}

	location, err := time.LoadLocation(cfg.QuotaResetTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid quota reset timezone: %w", err)
	}

	return &service{
		config:    cfg,
		log:       log.WithField("service", "worker"),
		dashboard: dashboardService,
		sessions:  sessions,
		redisOpt:  redisOpt,
		schedule:  schedule,
		location:  location,
	}, nil
}

// Start runs the Asynq server in the background.
func (s *service) Start(_ context.Context) error {
	srv := asynq.NewServer(*s.redisOpt, asynq.Config{
		Concurrency:    s.config.Concurrency,
		RetryDelayFunc: s.retryDelay,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDashboardRefresh, s.handleRefresh)

	go func() {
		if err := srv.Run(mux); err != nil {
			s.log.WithError(err).Fatal("Failed to run refresh worker")
		}
	}()

	s.server = srv

	s.log.WithField("concurrency", s.config.Concurrency).Info("Started refresh worker")

	return nil
}

// Stop gracefully shuts down the worker service
func (s *service) Stop() error {
	if s.server != nil {
		s.server.Shutdown()
	}

	return nil
}

// retryDelay defers quota-failed retries to the next quota reset instead of
// exponential backoff; retrying sooner cannot succeed.
func (s *service) retryDelay(n int, err error, t *asynq.Task) time.Duration {
	if errors.Is(err, youtube.ErrQuotaExceeded) {
		return time.Until(s.schedule.Next(time.Now().In(s.location)))
	}

	return asynq.DefaultRetryDelayFunc(n, err, t)
}

// handleRefresh rebuilds one cache entry from the live source.
func (s *service) handleRefresh(ctx context.Context, t *asynq.Task) error {
	var payload RefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		observability.RecordRefreshTask("unknown", "unmarshal_error")
		return fmt.Errorf("failed to unmarshal refresh payload: %w: %w", err, asynq.SkipRetry)
	}

	log := s.log.WithFields(logrus.Fields{
		"category":   payload.Category,
		"caller_key": payload.CallerKey,
	})

	sess, err := s.sessions.Parse(payload.SessionToken)
	if err != nil {
		// The session expired before the quota reset. Nothing to refresh
		// with; the next authenticated request repopulates the cache.
		if errors.Is(err, session.ErrNotAuthenticated) {
			log.Warn("Session expired before deferred refresh, dropping task")
			observability.RecordRefreshTask(payload.Category, "session_expired")

			return nil
		}

		observability.RecordRefreshTask(payload.Category, "error")

		return err
	}

	if err := s.dashboard.Refresh(ctx, sess, payload.Category); err != nil {
		observability.RecordRefreshTask(payload.Category, "error")

		return fmt.Errorf("failed to refresh %s cache: %w", payload.Category, err)
	}

	observability.RecordRefreshTask(payload.Category, "success")
	log.Info("Refreshed cache entry after quota reset")

	return nil
}
