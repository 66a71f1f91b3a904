package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LiveServer streams standings over a websocket.
type LiveServer interface {
	Serve(w http.ResponseWriter, r *http.Request, tournamentID uuid.UUID, sess session.Session, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode)
}

// LeaderboardHandlers exposes standings, progress and the reveal over HTTP.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	live    LiveServer
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers. live may be nil,
// in which case the live endpoint answers 503.
func NewLeaderboardHandlers(service leaderboardservice.Service, live LiveServer, logger *slog.Logger, tracer trace.Tracer) *LeaderboardHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{service: service, live: live, logger: logger, tracer: tracer}
}

// Routes registers the leaderboard endpoints. Paths are flat so they share
// the /tournaments/{tournamentID} prefix with the tournament module.
func (h *LeaderboardHandlers) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	const base = "/tournaments/{tournamentID}"
	r.Get(base+"/leaderboard", h.HandleGetStandings)
	r.Get(base+"/leaderboard/export.xlsx", h.HandleExport)
	r.Get(base+"/leaderboard/live", h.HandleLive)
	r.Get(base+"/players/{playerID}/progress", h.HandleProgress)
	r.Get(base+"/players/{playerID}/progress.png", h.HandleProgressChart)
	r.With(admin).Post(base+"/reveal", h.HandleReveal)
}

func (h *LeaderboardHandlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "HTTP GetStandings")
		defer span.End()
	}

	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	scope, mode, err := boardQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("tournament_id", tournamentID.String()),
		attribute.String("scope", scope.String()),
	)

	board, err := h.service.GetStandings(ctx, sessionFrom(r), tournamentID, scope, mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	_, mode, err := boardQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := h.service.ExportStandings(r.Context(), sessionFrom(r), tournamentID, mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leaderboard-"+tournamentID.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleLive checks access with a one-off ranking before upgrading, so a
// refused caller gets a plain HTTP error rather than a closed socket.
func (h *LeaderboardHandlers) HandleLive(w http.ResponseWriter, r *http.Request) {
	if h.live == nil {
		http.Error(w, "live standings are not available", http.StatusServiceUnavailable)
		return
	}
	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	scope, mode, err := boardQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sess := sessionFrom(r)
	if _, err := h.service.GetStandings(r.Context(), sess, tournamentID, scope, mode); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.live.Serve(w, r, tournamentID, sess, scope, mode)
}

func (h *LeaderboardHandlers) HandleProgress(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID")
	if !ok {
		return
	}

	p, err := h.service.PlayerProgress(r.Context(), sessionFrom(r), tournamentID, playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *LeaderboardHandlers) HandleProgressChart(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID")
	if !ok {
		return
	}

	png, err := h.service.ProgressChart(r.Context(), sessionFrom(r), tournamentID, playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *LeaderboardHandlers) HandleReveal(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := uuidParam(w, r, "tournamentID")
	if !ok {
		return
	}
	if err := h.service.RevealStandings(r.Context(), sessionFrom(r), tournamentID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// boardQuery reads ?scope= and ?mode=. An absent mode means the tournament's
// own scoring mode.
func boardQuery(r *http.Request) (leaderboarddomain.Scope, *tournamenttypes.ScoringMode, error) {
	q := r.URL.Query()
	scope, err := leaderboarddomain.ParseScope(q.Get("scope"))
	if err != nil {
		return leaderboarddomain.Scope{}, nil, err
	}
	if v := q.Get("mode"); v != "" {
		mode := tournamenttypes.ScoringMode(v)
		return scope, &mode, nil
	}
	return scope, nil, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *LeaderboardHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, leaderboardservice.ErrForbidden), errors.Is(err, leaderboardservice.ErrWithheld):
		status = http.StatusForbidden
	case errors.Is(err, leaderboardservice.ErrInvalidMode), errors.Is(err, leaderboarddomain.ErrInvalidScope):
		status = http.StatusBadRequest
	case errors.Is(err, tournamenttypes.ErrNotFound):
		status = http.StatusNotFound
	}

	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func sessionFrom(r *http.Request) session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
