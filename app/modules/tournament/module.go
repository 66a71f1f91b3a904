package tournament

import (
	"context"
	"log/slog"
	"net/http"

	tournamentservice "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/application"
	tournamenthandlers "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/handlers"
	tournamentdb "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module owns tournament setup: players, courses and groups.
type Module struct {
	Repository tournamentdb.Repository
	Service    *tournamentservice.TournamentService
	handlers   *tournamenthandlers.TournamentHandlers
	logger     *slog.Logger
}

func NewTournamentModule(ctx context.Context, obs observability.Observability, db *bun.DB) *Module {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer
	logger.InfoContext(ctx, "tournament.NewTournamentModule called")

	repo := tournamentdb.NewRepository(db)
	service := tournamentservice.NewTournamentService(repo, logger, obs.Registry.TournamentMetrics, tracer, db)

	return &Module{
		Repository: repo,
		Service:    service,
		handlers:   tournamenthandlers.NewTournamentHandlers(service, logger, tracer),
		logger:     logger,
	}
}

// Routes registers the tournament endpoints; admin guards setup changes.
func (m *Module) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	m.handlers.Routes(r, admin)
}

func (m *Module) Close() error {
	m.logger.Info("Tournament module stopped")
	return nil
}
