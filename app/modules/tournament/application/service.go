package tournamentservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tournamentdb "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories"
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

const serviceName = "TournamentService"

// TournamentService implements Service.
type TournamentService struct {
	repo    tournamentdb.Repository
	parser  *TeeTimeParser
	logger  *slog.Logger
	metrics opmetrics.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
	now     func() time.Time
}

func NewTournamentService(
	repo tournamentdb.Repository,
	logger *slog.Logger,
	metrics opmetrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = opmetrics.NewNoop()
	}
	return &TournamentService{
		repo:    repo,
		parser:  NewTeeTimeParser(),
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		now:     time.Now,
	}
}

// observe runs op inside a span and records operation metrics.
func observe[T any](s *TournamentService, ctx context.Context, operation string, id uuid.UUID, op func(ctx context.Context) (T, error)) (T, error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation, trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("identifier", id.String()),
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
			attr.UUID("identifier", id),
			attr.Error(err),
		)
		return out, fmt.Errorf("%s: %w", operation, err)
	}
	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	return out, nil
}

func requireAdmin(sess session.Session, tournamentID uuid.UUID) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if sess.TournamentID != uuid.Nil && sess.TournamentID != tournamentID {
		return ErrForbidden
	}
	return nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, req CreateTournamentRequest) (tournamenttypes.Tournament, error) {
	t := tournamenttypes.Tournament{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		ScoringMode: req.ScoringMode,
		Days:        req.Days,
		HasDayZero:  req.HasDayZero,
	}
	return observe(s, ctx, "CreateTournament", t.ID, func(ctx context.Context) (tournamenttypes.Tournament, error) {
		if t.ScoringMode == "" {
			t.ScoringMode = tournamenttypes.ModeHandicap
		}
		if t.Name == "" || t.Days < 1 || !t.ScoringMode.IsValid() {
			return tournamenttypes.Tournament{}, fmt.Errorf("%w: name, days >= 1 and a known scoring mode are required", ErrInvalidRequest)
		}
		if err := s.repo.CreateTournament(ctx, s.db, t); err != nil {
			return tournamenttypes.Tournament{}, err
		}
		return t, nil
	})
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (tournamenttypes.Tournament, error) {
	return observe(s, ctx, "GetTournament", id, func(ctx context.Context) (tournamenttypes.Tournament, error) {
		return s.repo.GetTournament(ctx, s.db, id)
	})
}

func (s *TournamentService) RegisterPlayer(ctx context.Context, sess session.Session, req RegisterPlayerRequest) (tournamenttypes.Player, error) {
	return observe(s, ctx, "RegisterPlayer", req.TournamentID, func(ctx context.Context) (tournamenttypes.Player, error) {
		if err := requireAdmin(sess, req.TournamentID); err != nil {
			return tournamenttypes.Player{}, err
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || req.HandicapIndex < 0 {
			return tournamenttypes.Player{}, fmt.Errorf("%w: player needs a name and a non-negative handicap", ErrInvalidRequest)
		}
		if _, err := s.repo.GetTournament(ctx, s.db, req.TournamentID); err != nil {
			return tournamenttypes.Player{}, err
		}

		p := tournamenttypes.Player{
			ID:            uuid.New(),
			TournamentID:  req.TournamentID,
			Name:          name,
			HandicapIndex: req.HandicapIndex,
		}
		if err := s.repo.CreatePlayer(ctx, s.db, p); err != nil {
			return tournamenttypes.Player{}, err
		}
		return p, nil
	})
}
