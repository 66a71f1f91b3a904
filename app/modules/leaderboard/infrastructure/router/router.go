package leaderboardrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	leaderboardevents "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain/events"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// Notifier is told which tournament's board may have moved.
type Notifier interface {
	Notify(tournamentID uuid.UUID)
}

// LeaderboardRouter consumes round and leaderboard events and nudges the live
// feeds. It never publishes.
type LeaderboardRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *LeaderboardRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && !inTestEnv {
		b := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &b
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

// Configure sets up the middlewares and registers the event handlers.
func (r *LeaderboardRouter) Configure(_ context.Context, notifier Notifier) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		eventbus.TraceHandler(r.tracer),
	)

	h := NewHandlers(notifier, r.logger)
	registerHandler(r, roundevents.HoleSavedV1, h.HandleHoleSaved)
	registerHandler(r, roundevents.RoundSubmittedV1, h.HandleRoundSubmitted)
	registerHandler(r, roundevents.RoundUnlockedV1, h.HandleRoundUnlocked)
	registerHandler(r, leaderboardevents.RevealedV1, h.HandleRevealed)
	return nil
}

// registerHandler decodes T from each message before calling handler. A
// payload that does not decode is logged and acked; redelivery cannot fix it.
func registerHandler[T any](r *LeaderboardRouter, topic string, handler func(context.Context, T) error) {
	handlerName := "leaderboard." + topic

	r.Router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.subscriber,
		func(msg *message.Message) error {
			payload, err := eventbus.Decode[T](msg)
			if err != nil {
				r.logger.Error("Dropping undecodable message",
					attr.String("handler", handlerName),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil
			}
			return handler(msg.Context(), payload)
		},
	)
}

func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
