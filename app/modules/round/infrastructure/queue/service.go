package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/opmetrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const metricsService = "river"

// Publisher is the publishing half of the event bus.
type Publisher interface {
	Publish(topic string, msgs ...*message.Message) error
}

// QueueService defines the contract for achievement posting.
type QueueService interface {
	// PostAchievement enqueues an achievement for the social feed.
	PostAchievement(ctx context.Context, round roundevents.RoundRef, a rounddomain.Achievement) error
	// PendingJobs lists achievement jobs for a round, newest last.
	PendingJobs(ctx context.Context, roundID uuid.UUID) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	// Start starts the queue service
	Start(ctx context.Context) error
	// Stop stops the queue service
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Config tunes the River client.
type Config struct {
	DSN        string
	MaxWorkers int
}

// Service posts achievements through River jobs.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics opmetrics.OperationMetrics
}

// NewService creates a River client on its own pgx pool and registers the
// achievement worker, which publishes through publisher.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, cfg Config, metrics opmetrics.OperationMetrics, publisher Publisher) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = opmetrics.NewNoop()
	}
	ctxLogger := logger.With(
		attr.String("operation", "new_achievement_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", metricsService)

	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", metricsService)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", metricsService)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", metricsService)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAchievementWorker(ctxLogger, publisher))

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueAchievements: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", metricsService)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", metricsService)
	metrics.RecordOperationDuration(ctx, "initialize_service", metricsService, time.Since(start))
	ctxLogger.Info("Achievement queue service initialized")

	return &Service{client: client, pool: pool, logger: ctxLogger, db: bunDB, metrics: metrics}, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", metricsService)
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", metricsService)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", metricsService)
	s.logger.Info("Achievement queue service started")
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", metricsService)
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", metricsService)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", metricsService)
	s.logger.Info("Achievement queue service stopped")
	return nil
}

// PostAchievement inserts an achievement job. A duplicate of a job already
// queued or completed is skipped by River and is not an error.
func (s *Service) PostAchievement(ctx context.Context, round roundevents.RoundRef, a rounddomain.Achievement) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "post_achievement", metricsService)

	res, err := s.client.Insert(ctx, NewAchievementJob(round, a), nil)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "post_achievement", metricsService)
		return fmt.Errorf("failed to insert achievement job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "post_achievement", metricsService)
	s.metrics.RecordOperationDuration(ctx, "post_achievement", metricsService, time.Since(start))
	s.logger.InfoContext(ctx, "Achievement job queued",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("round_id", round.RoundID),
		attr.String("kind", string(a.Kind)),
		attr.Int("hole", a.Hole),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// PendingJobs returns the achievement jobs recorded for a round.
func (s *Service) PendingJobs(ctx context.Context, roundID uuid.UUID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64     `bun:"id"`
		Kind        string    `bun:"kind"`
		State       string    `bun:"state"`
		CreatedAt   time.Time `bun:"created_at"`
		Attempt     int16     `bun:"attempt"`
		MaxAttempts int16     `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "created_at", "attempt", "max_attempts").
		Where("kind = ?", achievementJobKind).
		Where("args->>'round_id' = ?", roundID.String()).
		Order("created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement jobs: %w", err)
	}

	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		out[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			RoundID:     roundID.String(),
			State:       job.State,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
