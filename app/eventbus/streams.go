package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Stream names. Every topic is prefixed by its stream name.
const (
	RoundStream       = "round"
	AchievementStream = "achievement"
	LeaderboardStream = "leaderboard"
)

// StreamConfigs lists the JetStream streams the service publishes into.
func StreamConfigs() []jetstream.StreamConfig {
	names := []string{RoundStream, AchievementStream, LeaderboardStream}
	out := make([]jetstream.StreamConfig, 0, len(names))
	for _, name := range names {
		out = append(out, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{name + ".>"},
		})
	}
	return out
}

// InitializeStreams creates any missing stream from StreamConfigs.
func InitializeStreams(ctx context.Context, conn *nc.Conn, logger *slog.Logger) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	for _, cfg := range StreamConfigs() {
		_, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", attr.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}
