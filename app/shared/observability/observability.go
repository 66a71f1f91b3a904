// Package observability builds the logger, tracer and metrics handed to every
// module.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/opmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const ServiceName = "golf-tournament"

// Config selects log format and level.
type Config struct {
	Environment string
	LogLevel    string
}

// Provider owns process-wide backends.
type Provider struct {
	Logger     *slog.Logger
	Prometheus *prometheus.Registry
}

// Registry holds the per-module instruments.
type Registry struct {
	Tracer             trace.Tracer
	Logger             *slog.Logger
	RoundMetrics       opmetrics.OperationMetrics
	TournamentMetrics  opmetrics.OperationMetrics
	LeaderboardMetrics opmetrics.OperationMetrics
	QueueMetrics       opmetrics.OperationMetrics
}

type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds JSON logging outside development plus a Prometheus registry
// carrying the Go runtime collectors.
func Init(cfg Config) (Observability, error) {
	logger := NewLogger(os.Stdout, cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := make(map[string]opmetrics.OperationMetrics, 4)
	for _, ns := range []string{"round", "tournament", "leaderboard", "queue"} {
		m, err := opmetrics.NewPrometheus(reg, ns)
		if err != nil {
			return Observability{}, fmt.Errorf("failed to register %s metrics: %w", ns, err)
		}
		metrics[ns] = m
	}

	return Observability{
		Provider: &Provider{Logger: logger, Prometheus: reg},
		Registry: &Registry{
			Tracer:             otel.Tracer(ServiceName),
			Logger:             logger,
			RoundMetrics:       metrics["round"],
			TournamentMetrics:  metrics["tournament"],
			LeaderboardMetrics: metrics["leaderboard"],
			QueueMetrics:       metrics["queue"],
		},
	}, nil
}

// NewNoop discards logs, spans and metrics.
func NewNoop() Observability {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Observability{
		Provider: &Provider{Logger: logger},
		Registry: &Registry{
			Tracer:             noop.NewTracerProvider().Tracer("test"),
			Logger:             logger,
			RoundMetrics:       opmetrics.NewNoop(),
			TournamentMetrics:  opmetrics.NewNoop(),
			LeaderboardMetrics: opmetrics.NewNoop(),
			QueueMetrics:       opmetrics.NewNoop(),
		},
	}
}

// NewLogger writes text in development and JSON everywhere else.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var handler slog.Handler
	switch strings.ToLower(cfg.Environment) {
	case "", "dev", "development", "local":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", ServiceName))
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
