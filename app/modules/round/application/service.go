package roundservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/opmetrics"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RoundService"

// RoundService implements Service.
type RoundService struct {
	repo        rounddb.Repository
	tournaments TournamentReader
	poster      AchievementPoster
	publisher   EventPublisher
	logger      *slog.Logger
	metrics     opmetrics.OperationMetrics
	tracer      trace.Tracer
	db          *bun.DB
	now         func() time.Time
}

// NewRoundService creates a new RoundService. poster and publisher may be nil.
func NewRoundService(
	repo rounddb.Repository,
	tournaments TournamentReader,
	poster AchievementPoster,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics opmetrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundService{
		repo:        repo,
		tournaments: tournaments,
		poster:      poster,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
		now:         time.Now,
	}
}

// scoringContext is what a round is scored against.
type scoringContext struct {
	group  tournamenttypes.Group
	course tournamenttypes.Course
}

func (s *RoundService) loadScoringContext(ctx context.Context, db bun.IDB, groupID uuid.UUID) (*scoringContext, error) {
	group, err := s.tournaments.GetGroup(ctx, db, groupID)
	if err != nil {
		return nil, setupErr("load group", groupID, err)
	}
	course, err := s.tournaments.GetCourse(ctx, db, group.CourseID)
	if err != nil {
		return nil, setupErr("load course", group.CourseID, err)
	}
	return &scoringContext{group: group, course: course}, nil
}

func setupErr(op string, id uuid.UUID, err error) error {
	if errors.Is(err, tournamenttypes.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return &rounddomain.PersistenceError{Op: op, Err: err}
}

// loadRoundByID returns the round with its derived values rebuilt from the course.
func (s *RoundService) loadRoundByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddomain.Round, *scoringContext, error) {
	round, err := s.repo.GetByID(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, nil, rounddomain.ErrRoundNotFound
		}
		return nil, nil, &rounddomain.PersistenceError{Op: "load round", Err: err}
	}
	sc, err := s.loadScoringContext(ctx, db, round.GroupID)
	if err != nil {
		return nil, nil, err
	}
	round.Recalculate(sc.course)
	return round, sc, nil
}

// update persists round. A stale version becomes ErrVersionConflict.
func (s *RoundService) update(ctx context.Context, db bun.IDB, op string, round *rounddomain.Round) error {
	err := s.repo.Update(ctx, db, round)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rounddb.ErrStaleVersion):
		return rounddomain.ErrVersionConflict
	default:
		return &rounddomain.PersistenceError{Op: op, Err: err}
	}
}

func checkVersion(round *rounddomain.Round, expected *int64) error {
	if expected != nil && *expected != round.Version {
		return rounddomain.ErrVersionConflict
	}
	return nil
}

// fail routes err to the result: store failures propagate as errors and roll
// the transaction back, everything else is a domain failure.
func fail[S any](err error) (results.OperationResult[S, error], error) {
	var pe *rounddomain.PersistenceError
	if errors.As(err, &pe) {
		return results.OperationResult[S, error]{}, err
	}
	return results.FailureResult[S, error](err), nil
}

// publish emits an event after commit. Failures are logged and dropped.
func (s *RoundService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	msg, err := eventbus.NewMessage(ctx, payload)
	if err == nil {
		err = s.publisher.Publish(topic, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

// unwrap turns an operation result into the public (value, error) pair.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, errors.New("operation returned no result")
	}
	return *result.Success, nil
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RoundService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RoundService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
