package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/infrastructure/handlers"
	leaderboardlive "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/infrastructure/live"
	leaderboardrouter "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService *leaderboardservice.LeaderboardService
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Hub                *leaderboardlive.Hub
	handlers           *leaderboardhandlers.LeaderboardHandlers
	logger             *slog.Logger
	mu                 sync.Mutex
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	rounds leaderboardservice.RoundReader,
	tournaments leaderboardservice.TournamentStore,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	service := leaderboardservice.NewLeaderboardService(rounds, tournaments, eventBus, logger, obs.Registry.LeaderboardMetrics, tracer, db)
	hub := leaderboardlive.NewHub(service, cfg.Leaderboard.PollInterval, cfg.HTTP.AllowedOrigins, logger)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, tracer, obs.Provider.Prometheus)
	if err := lbRouter.Configure(ctx, hub); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	return &Module{
		LeaderboardService: service,
		LeaderboardRouter:  lbRouter,
		Hub:                hub,
		handlers:           leaderboardhandlers.NewLeaderboardHandlers(service, hub, logger, tracer),
		logger:             logger,
	}, nil
}

// Routes registers the leaderboard endpoints.
func (m *Module) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	m.handlers.Routes(r, admin)
}

// Run keeps the live feeds alive until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer cancel()

	m.Hub.Run(ctx)
	m.logger.Info("Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	m.mu.Lock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()
	m.Hub.Close()
	m.logger.Info("Leaderboard module stopped")
	return nil
}
