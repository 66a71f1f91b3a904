package roundqueue

import (
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

const (
	// QueueAchievements is the River queue achievement posts run on.
	QueueAchievements = "achievements"

	achievementJobKind = "achievement_post"
)

// AchievementJob posts one achievement to the social feed. Uniqueness is by
// args, so a retried save cannot post the same achievement twice.
type AchievementJob struct {
	RoundID         uuid.UUID                   `json:"round_id"`
	TournamentID    uuid.UUID                   `json:"tournament_id"`
	GroupID         uuid.UUID                   `json:"group_id"`
	PlayerID        uuid.UUID                   `json:"player_id"`
	Day             int                         `json:"day"`
	AchievementKind rounddomain.AchievementKind `json:"kind"`
	Hole            int                         `json:"hole"`
	Strokes         int                         `json:"strokes"`
	Par             int                         `json:"par"`
	Streak          int                         `json:"streak,omitempty"`
}

// Kind returns the job type identifier for River
func (AchievementJob) Kind() string { return achievementJobKind }

// InsertOpts applies to every insert of this job kind.
func (AchievementJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueAchievements,
		MaxAttempts: 5,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}

// NewAchievementJob builds job args for a detected achievement.
func NewAchievementJob(ref roundevents.RoundRef, a rounddomain.Achievement) AchievementJob {
	return AchievementJob{
		RoundID:         ref.RoundID,
		TournamentID:    ref.TournamentID,
		GroupID:         ref.GroupID,
		PlayerID:        ref.PlayerID,
		Day:             ref.Day,
		AchievementKind: a.Kind,
		Hole:            a.Hole,
		Strokes:         a.Strokes,
		Par:             a.Par,
		Streak:          a.Streak,
	}
}

// Payload is the event the worker publishes for this job.
func (j AchievementJob) Payload() roundevents.AchievementPostedPayloadV1 {
	return roundevents.AchievementPostedPayloadV1{
		RoundRef: roundevents.RoundRef{
			RoundID:      j.RoundID,
			TournamentID: j.TournamentID,
			GroupID:      j.GroupID,
			PlayerID:     j.PlayerID,
			Day:          j.Day,
		},
		Kind:    j.AchievementKind,
		Hole:    j.Hole,
		Strokes: j.Strokes,
		Par:     j.Par,
		Streak:  j.Streak,
	}
}

// JobInfo represents information about a queued job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	RoundID     string `json:"round_id"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
