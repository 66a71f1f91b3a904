package leaderboardrouter

import (
	"context"
	"log/slog"

	leaderboardevents "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain/events"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
)

// Handlers turns events into feed notifications.
type Handlers struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewHandlers(notifier Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{notifier: notifier, logger: logger}
}

func (h *Handlers) HandleHoleSaved(ctx context.Context, p roundevents.HoleSavedPayloadV1) error {
	h.logger.DebugContext(ctx, "Hole saved",
		attr.UUID("round_id", p.RoundID),
		attr.Int("hole", p.Hole),
	)
	h.notifier.Notify(p.TournamentID)
	return nil
}

func (h *Handlers) HandleRoundSubmitted(ctx context.Context, p roundevents.RoundSubmittedPayloadV1) error {
	h.logger.InfoContext(ctx, "Round submitted",
		attr.UUID("round_id", p.RoundID),
		attr.UUID("tournament_id", p.TournamentID),
	)
	h.notifier.Notify(p.TournamentID)
	return nil
}

func (h *Handlers) HandleRoundUnlocked(ctx context.Context, p roundevents.RoundUnlockedPayloadV1) error {
	h.logger.InfoContext(ctx, "Round unlocked",
		attr.UUID("round_id", p.RoundID),
		attr.UUID("tournament_id", p.TournamentID),
	)
	h.notifier.Notify(p.TournamentID)
	return nil
}

func (h *Handlers) HandleRevealed(ctx context.Context, p leaderboardevents.RevealedPayloadV1) error {
	h.logger.InfoContext(ctx, "Leaderboard revealed", attr.UUID("tournament_id", p.TournamentID))
	h.notifier.Notify(p.TournamentID)
	return nil
}
