package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	leaderboardevents "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain/events"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/opmetrics"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeaderboardService"

// LeaderboardService implements Service.
type LeaderboardService struct {
	rounds      RoundReader
	tournaments TournamentStore
	publisher   EventPublisher
	palette     ChartPalette
	logger      *slog.Logger
	metrics     opmetrics.OperationMetrics
	tracer      trace.Tracer
	db          *bun.DB
	now         func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService. publisher may be nil.
func NewLeaderboardService(
	rounds RoundReader,
	tournaments TournamentStore,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics opmetrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = opmetrics.NewNoop()
	}
	return &LeaderboardService{
		rounds:      rounds,
		tournaments: tournaments,
		publisher:   publisher,
		palette:     DefaultPalette,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
		now:         time.Now,
	}
}

// observe runs op inside a span and records operation metrics.
func observe[T any](s *LeaderboardService, ctx context.Context, operation string, id uuid.UUID, op func(ctx context.Context) (T, error)) (T, error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation, trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("tournament_id", id.String()),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
	}()

	out, err := op(ctx)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "Operation failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operation),
			attr.UUID("tournament_id", id),
			attr.Error(err),
		)
		return out, fmt.Errorf("%s: %w", operation, err)
	}
	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	return out, nil
}

// snapshot is one consistent read of everything a ranking needs.
type snapshot struct {
	tournament tournamenttypes.Tournament
	rounds     []*rounddomain.Round
	players    []tournamenttypes.Player
	groups     []tournamenttypes.Group
	courses    []tournamenttypes.Course
}

// load reads the tournament inside a read-only transaction so a ranking never
// mixes rounds from before and after a concurrent save.
func (s *LeaderboardService) load(ctx context.Context, tournamentID uuid.UUID) (*snapshot, error) {
	read := func(ctx context.Context, db bun.IDB) (*snapshot, error) {
		var (
			snap snapshot
			err  error
		)
		if snap.tournament, err = s.tournaments.GetTournament(ctx, db, tournamentID); err != nil {
			return nil, fmt.Errorf("failed to load tournament: %w", err)
		}
		if snap.rounds, err = s.rounds.ListByTournament(ctx, db, tournamentID); err != nil {
			return nil, fmt.Errorf("failed to list rounds: %w", err)
		}
		if snap.players, err = s.tournaments.ListPlayers(ctx, db, tournamentID); err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		if snap.groups, err = s.tournaments.ListGroups(ctx, db, tournamentID); err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", err)
		}
		if snap.courses, err = s.tournaments.ListCourses(ctx, db, tournamentID); err != nil {
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		return &snap, nil
	}

	if s.db == nil {
		return read(ctx, s.conn())
	}

	var snap *snapshot
	err := s.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		snap, err = read(ctx, tx)
		return err
	})
	return snap, err
}

// conn returns the shared connection, or nil so repositories fall back to
// their own.
func (s *LeaderboardService) conn() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

// checkTournament rejects tokens scoped to another tournament.
func checkTournament(sess session.Session, tournamentID uuid.UUID) error {
	if sess.TournamentID != uuid.Nil && sess.TournamentID != tournamentID {
		return ErrForbidden
	}
	return nil
}

func isAdminOf(sess session.Session, tournamentID uuid.UUID) bool {
	return sess.IsAdmin() && checkTournament(sess, tournamentID) == nil
}

func (s *LeaderboardService) RevealStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID) error {
	_, err := observe(s, ctx, "RevealStandings", tournamentID, func(ctx context.Context) (struct{}, error) {
		if !isAdminOf(sess, tournamentID) {
			return struct{}{}, ErrForbidden
		}
		t, err := s.tournaments.GetTournament(ctx, s.conn(), tournamentID)
		if err != nil {
			return struct{}{}, err
		}
		if t.Revealed {
			return struct{}{}, nil
		}
		if err := s.tournaments.SetRevealed(ctx, s.conn(), tournamentID, true); err != nil {
			return struct{}{}, fmt.Errorf("failed to set revealed: %w", err)
		}

		s.logger.InfoContext(ctx, "Standings revealed",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("tournament_id", tournamentID),
			attr.UUID("revealed_by", sess.PlayerID),
		)
		s.publish(ctx, leaderboardevents.RevealedV1, leaderboardevents.RevealedPayloadV1{
			TournamentID: tournamentID,
			RevealedBy:   sess.PlayerID,
			RevealedAt:   s.now().UTC(),
		})
		return struct{}{}, nil
	})
	return err
}

// publish emits an event. Failures are logged and dropped.
func (s *LeaderboardService) publish(ctx context.Context, topic string, payload any) {
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
