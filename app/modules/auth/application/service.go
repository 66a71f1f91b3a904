package authservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
}

// DefaultTokenTTL applies when Config.DefaultTTL is unset.
const DefaultTokenTTL = 24 * time.Hour

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service.
func NewService(jwtProvider authjwt.Provider, config Config, logger *slog.Logger, tracer trace.Tracer) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	return &service{
		jwtProvider: jwtProvider,
		config:      config,
		logger:      logger,
		tracer:      tracer,
	}
}

// IssueToken signs a token for a tournament participant.
func (s *service) IssueToken(ctx context.Context, req IssueTokenRequest) (*TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	claims := &authdomain.Claims{
		PlayerID:     req.PlayerID,
		TournamentID: req.TournamentID,
		Role:         req.Role,
	}
	if err := claims.Validate(); err != nil {
		return nil, err
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}
	token, err := s.jwtProvider.GenerateToken(claims, ttl)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "Issued token",
		attr.UUID("player_id", req.PlayerID),
		attr.UUID("tournament_id", req.TournamentID),
		attr.String("role", req.Role.String()),
		attr.Duration("ttl", ttl),
	)
	return &TokenResponse{Token: token, ExpiresAt: time.Now().Add(ttl)}, nil
}

// Authenticate validates a bearer token and returns the caller's session.
func (s *service) Authenticate(ctx context.Context, token string) (session.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	claims, err := s.jwtProvider.ValidateToken(token)
	if err != nil {
		s.logger.DebugContext(ctx, "Token rejected", attr.Error(err))
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := claims.Validate(); err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return session.FromClaims(claims), nil
}
