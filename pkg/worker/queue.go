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
)

// Queue enqueues deferred refresh tasks. It implements fallback.Enqueuer.
type Queue struct {
	client   *asynq.Client
	schedule cron.Schedule
	location *time.Location
	log      logrus.FieldLogger

	now func() time.Time
}

// NewQueue creates a refresh task queue
func NewQueue(redisOpt *asynq.RedisClientOpt, cfg *Config, log logrus.FieldLogger) (*Queue, error) {
	schedule, err := cron.ParseStandard(cfg.QuotaResetSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid quota reset schedule: %w", err)
	}

	location, err := time.LoadLocation(cfg.QuotaResetTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid quota reset timezone: %w", err)
	}

	return &Queue{
		client:   asynq.NewClient(*redisOpt),
		schedule: schedule,
		location: location,
		log:      log.WithField("component", "refresh-queue"),
		now:      time.Now,
	}, nil
}

// EnqueueRefresh schedules a cache rebuild for the next quota reset.
func (q *Queue) EnqueueRefresh(ctx context.Context, category, callerKey, sessionToken string) error {
	payload := RefreshPayload{
		Category:     category,
		CallerKey:    callerKey,
		SessionToken: sessionToken,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode refresh payload: %w", err)
	}

	runAt := q.nextReset()

	task := asynq.NewTask(TypeDashboardRefresh, data)

	_, err = q.client.EnqueueContext(ctx, task,
		asynq.TaskID(payload.UniqueID()),
		asynq.ProcessAt(runAt),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		// A duplicate means this entry already has a pending refresh
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}

		return err
	}

	q.log.WithFields(logrus.Fields{
		"category": category,
		"run_at":   runAt,
	}).Info("Scheduled deferred cache refresh")

	return nil
}

// nextReset returns the next quota reset after now, evaluated in the
// configured timezone.
func (q *Queue) nextReset() time.Time {
	return q.schedule.Next(q.now().In(q.location))
}

// Close closes the queue
func (q *Queue) Close() error {
	return q.client.Close()
}
