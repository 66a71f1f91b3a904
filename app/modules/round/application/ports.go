package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TournamentReader resolves the setup data a round is scored against.
// Lookup misses must match tournamenttypes.ErrNotFound.
type TournamentReader interface {
	GetGroup(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Group, error)
	GetCourse(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Course, error)
	GetPlayer(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Player, error)
}

// AchievementPoster hands a detected achievement to the social feed.
// Callers do not wait on delivery and never fail because of it.
type AchievementPoster interface {
	PostAchievement(ctx context.Context, round roundevents.RoundRef, a rounddomain.Achievement) error
}

// EventPublisher is the publishing half of the event bus.
type EventPublisher interface {
	Publish(topic string, msgs ...*message.Message) error
}
