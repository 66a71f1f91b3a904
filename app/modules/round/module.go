package round

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	roundservice "github.com/Black-And-White-Club/golf-tournament/app/modules/round/application"
	roundhandlers "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/handlers"
	roundqueue "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/queue"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the round module.
type Module struct {
	Repository   rounddb.Repository
	RoundService *roundservice.RoundService
	Queue        *roundqueue.Service
	handlers     *roundhandlers.RoundHandlers
	logger       *slog.Logger
	mu           sync.Mutex
	cancelFunc   context.CancelFunc
}

// NewRoundModule wires the round service to its repository, the achievement
// queue and the event bus.
func NewRoundModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	tournaments roundservice.TournamentReader,
	eventBus eventbus.EventBus,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer
	logger.InfoContext(ctx, "round.NewRoundModule called")

	queue, err := roundqueue.NewService(ctx, db, logger, roundqueue.Config{
		DSN:        cfg.Postgres.DSN,
		MaxWorkers: cfg.Queue.MaxWorkers,
	}, obs.Registry.QueueMetrics, eventBus)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement queue: %w", err)
	}

	repo := rounddb.NewRepository(db)
	service := roundservice.NewRoundService(repo, tournaments, queue, eventBus, logger, obs.Registry.RoundMetrics, tracer, db)

	return &Module{
		Repository:   repo,
		RoundService: service,
		Queue:        queue,
		handlers:     roundhandlers.NewRoundHandlers(service, logger, tracer).WithAchievementJobs(queue),
		logger:       logger,
	}, nil
}

// Routes registers the round endpoints.
func (m *Module) Routes(r chi.Router, player, admin func(http.Handler) http.Handler) {
	m.handlers.Routes(r, player, admin)
}

// Run starts the achievement workers and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	m.logger.InfoContext(ctx, "Starting round module")

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer cancel()

	if err := m.Queue.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Achievement queue failed to start", attr.Error(err))
		return
	}

	<-ctx.Done()
	m.logger.Info("Round module goroutine stopped")
}

// Close stops the achievement workers.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping round module")
	m.mu.Lock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()
	if err := m.Queue.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop achievement queue: %w", err)
	}
	m.logger.Info("Round module stopped")
	return nil
}
