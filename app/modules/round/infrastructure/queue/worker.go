package roundqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/riverqueue/river"
)

// AchievementWorker publishes achievement.posted.v1 for each job.
type AchievementWorker struct {
	river.WorkerDefaults[AchievementJob]
	logger    *slog.Logger
	publisher Publisher
	now       func() time.Time
}

func NewAchievementWorker(logger *slog.Logger, publisher Publisher) *AchievementWorker {
	return &AchievementWorker{logger: logger, publisher: publisher, now: time.Now}
}

func (w *AchievementWorker) Work(ctx context.Context, job *river.Job[AchievementJob]) error {
	payload := job.Args.Payload()
	payload.PostedAt = w.now().UTC()

	msg, err := eventbus.NewMessage(ctx, payload)
	if err != nil {
		return river.JobCancel(err)
	}
	if err := w.publisher.Publish(roundevents.AchievementPostedV1, msg); err != nil {
		return fmt.Errorf("failed to publish achievement: %w", err)
	}

	w.logger.InfoContext(ctx, "Achievement posted",
		attr.Int64("job_id", job.ID),
		attr.UUID("player_id", job.Args.PlayerID),
		attr.String("kind", string(job.Args.AchievementKind)),
		attr.Int("hole", job.Args.Hole),
	)
	return nil
}

// Timeout bounds a single publish attempt.
func (w *AchievementWorker) Timeout(*river.Job[AchievementJob]) time.Duration {
	return 10 * time.Second
}
