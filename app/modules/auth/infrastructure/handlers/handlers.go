package authhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authservice "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// AuthHandlers serves the auth HTTP endpoints.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer) *AuthHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type sessionResponse struct {
	PlayerID     *uuid.UUID      `json:"player_id,omitempty"`
	TournamentID *uuid.UUID      `json:"tournament_id,omitempty"`
	Role         authdomain.Role `json:"role"`
}

// HandleHTTPSession echoes the caller's session.
func (h *AuthHandlers) HandleHTTPSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resp := sessionResponse{Role: sess.Role}
	if sess.PlayerID != uuid.Nil {
		resp.PlayerID = &sess.PlayerID
	}
	if sess.TournamentID != uuid.Nil {
		resp.TournamentID = &sess.TournamentID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type issueTokenRequest struct {
	PlayerID     uuid.UUID       `json:"player_id"`
	TournamentID uuid.UUID       `json:"tournament_id"`
	Role         authdomain.Role `json:"role"`
	TTLSeconds   int             `json:"ttl_seconds"`
}

// HandleHTTPIssueToken mints a token for a participant. Admins may only issue
// tokens for their own tournament.
func (h *AuthHandlers) HandleHTTPIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := session.FromContext(ctx)

	var body issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if sess.TournamentID != uuid.Nil && body.TournamentID != sess.TournamentID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	resp, err := h.service.IssueToken(ctx, authservice.IssueTokenRequest{
		PlayerID:     body.PlayerID,
		TournamentID: body.TournamentID,
		Role:         body.Role,
		TTL:          time.Duration(body.TTLSeconds) * time.Second,
	})
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidRole) || errors.Is(err, authservice.ErrPlayerRequired) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.ErrorContext(ctx, "Token issue failed", attr.ExtractCorrelationID(ctx), attr.Error(err))
		http.Error(w, "token issue failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}
