package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/go-chi/chi/v5"
)

// Module turns bearer tokens into sessions and issues tokens.
type Module struct {
	Service  authservice.Service
	handlers *authhandlers.AuthHandlers
	logger   *slog.Logger
}

// NewModule creates the auth module. It refuses to start without a signing
// secret.
func NewModule(ctx context.Context, cfg *config.Config, obs observability.Observability) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	logger.InfoContext(ctx, "auth.NewModule called")

	provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
	service := authservice.NewService(provider, authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL}, logger, tracer)

	return &Module{
		Service:  service,
		handlers: authhandlers.NewAuthHandlers(service, logger, tracer),
		logger:   logger,
	}, nil
}

// SessionMiddleware attaches the caller's session to every request.
func (m *Module) SessionMiddleware() func(http.Handler) http.Handler {
	return authhandlers.SessionMiddleware(m.Service)
}

// Routes mounts /auth.
func (m *Module) Routes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", m.handlers.HandleHTTPSession)
		r.With(authhandlers.RequireAdmin).Post("/tokens", m.handlers.HandleHTTPIssueToken)
	})
}

func (m *Module) Close() error {
	m.logger.Info("Auth module stopped")
	return nil
}
