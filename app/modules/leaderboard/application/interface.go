package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service is the read side of the tournament: rankings, reveal and per-player
// progress. Nothing here mutates a round.
type Service interface {
	// GetStandings ranks the tournament. A nil mode uses the tournament's own.
	GetStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*Standings, error)

	// RevealStandings lifts the top-of-board blur. Admin only.
	RevealStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID) error

	// PlayerProgress returns a player's hole-by-hole running total.
	PlayerProgress(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) (*Progress, error)

	// ProgressChart renders PlayerProgress as a PNG.
	ProgressChart(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) ([]byte, error)

	// ExportStandings renders the standings and each day's ranking as XLSX.
	ExportStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, mode *tournamenttypes.ScoringMode) ([]byte, error)
}

// RoundReader lists persisted rounds.
type RoundReader interface {
	ListByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]*rounddomain.Round, error)
}

// TournamentStore is the slice of tournament persistence the leaderboard
// reads, plus the reveal flag it owns.
type TournamentStore interface {
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Tournament, error)
	SetRevealed(ctx context.Context, db bun.IDB, id uuid.UUID, revealed bool) error
	ListCourses(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Course, error)
	ListGroups(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Group, error)
	ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Player, error)
}

// EventPublisher is the publishing half of the event bus.
type EventPublisher interface {
	Publish(topic string, msgs ...*message.Message) error
}
