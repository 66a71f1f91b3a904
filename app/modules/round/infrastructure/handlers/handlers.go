package roundhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	roundservice "github.com/Black-And-White-Club/golf-tournament/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundqueue "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/queue"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxUpload = 4 << 20

// AchievementJobs lists the queued achievement posts for a round.
type AchievementJobs interface {
	PendingJobs(ctx context.Context, roundID uuid.UUID) ([]roundqueue.JobInfo, error)
}

// RoundHandlers exposes the round lifecycle over HTTP.
type RoundHandlers struct {
	service roundservice.Service
	jobs    AchievementJobs
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRoundHandlers creates a new RoundHandlers.
func NewRoundHandlers(service roundservice.Service, logger *slog.Logger, tracer trace.Tracer) *RoundHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundHandlers{service: service, logger: logger, tracer: tracer}
}

// WithAchievementJobs enables the admin view of a round's achievement queue.
func (h *RoundHandlers) WithAchievementJobs(jobs AchievementJobs) *RoundHandlers {
	h.jobs = jobs
	return h
}

// Routes registers the round endpoints. player guards score entry and admin
// guards the corrections.
func (h *RoundHandlers) Routes(r chi.Router, player, admin func(http.Handler) http.Handler) {
	r.Route("/rounds", func(r chi.Router) {
		r.Get("/groups/{groupID}/players/{playerID}", h.HandleGetRound)

		r.Group(func(r chi.Router) {
			r.Use(player)
			r.Put("/groups/{groupID}/players/{playerID}/holes/{hole}", h.HandleSaveHole)
			r.Post("/{roundID}/submit", h.HandleSubmitRound)
			r.Put("/{roundID}/reference", h.HandleSetReference)
			r.Post("/{roundID}/reference/xlsx", h.HandleImportReference)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/{roundID}/unlock", h.HandleUnlockRound)
			r.Put("/{roundID}/handicap", h.HandleOverrideHandicap)
			r.Get("/{roundID}/achievements", h.HandleAchievementJobs)
		})
	})
}

func (h *RoundHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	groupID, ok := uuidParam(w, r, "groupID")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID")
	if !ok {
		return
	}

	round, err := h.service.GetRound(r.Context(), sessionFrom(r), groupID, playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(round))
}

func (h *RoundHandlers) HandleSaveHole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "HTTP SaveHole")
		defer span.End()
	}

	groupID, ok := uuidParam(w, r, "groupID")
	if !ok {
		return
	}
	playerID, ok := uuidParam(w, r, "playerID")
	if !ok {
		return
	}
	hole, err := strconv.Atoi(chi.URLParam(r, "hole"))
	if err != nil {
		http.Error(w, "invalid hole number", http.StatusBadRequest)
		return
	}

	var body saveHoleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, rounddomain.ErrInvalidStrokes) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("group_id", groupID.String()),
		attribute.Int("hole", hole),
	)

	out, err := h.service.SaveHole(ctx, sessionFrom(r), roundservice.SaveHoleRequest{
		TournamentID:    body.TournamentID,
		GroupID:         groupID,
		PlayerID:        playerID,
		Hole:            hole,
		Strokes:         body.Strokes,
		ExpectedVersion: body.ExpectedVersion,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := toResponse(out.Round)
	resp.Changed = &out.Changed
	resp.Achievements = out.Achievements
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (h *RoundHandlers) HandleSubmitRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	var body submitBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	out, err := h.service.SubmitRound(r.Context(), sessionFrom(r), roundservice.SubmitRequest{
		RoundID:         roundID,
		Confirm:         body.Confirm,
		ExpectedVersion: body.ExpectedVersion,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out.Round))
}

func (h *RoundHandlers) HandleUnlockRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	round, err := h.service.UnlockRound(r.Context(), sessionFrom(r), roundID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(round))
}

// HandleAchievementJobs shows where each achievement post for a round sits in
// the queue.
func (h *RoundHandlers) HandleAchievementJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		http.Error(w, "achievement queue is not available", http.StatusServiceUnavailable)
		return
	}
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	jobs, err := h.jobs.PendingJobs(r.Context(), roundID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []roundqueue.JobInfo{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *RoundHandlers) HandleOverrideHandicap(w http.ResponseWriter, r *http.Request) {
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	var body handicapBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Handicap == nil {
		http.Error(w, "body must carry a handicap", http.StatusBadRequest)
		return
	}
	round, err := h.service.OverrideHandicap(r.Context(), sessionFrom(r), roundID, *body.Handicap)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(round))
}

func (h *RoundHandlers) HandleSetReference(w http.ResponseWriter, r *http.Request) {
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	var body referenceBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	round, err := h.service.SetReferenceCard(r.Context(), sessionFrom(r), roundID, body.Holes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(round))
}

// HandleImportReference reads the partner card from an XLSX upload; the
// "player" query parameter names the row to take.
func (h *RoundHandlers) HandleImportReference(w http.ResponseWriter, r *http.Request) {
	roundID, ok := uuidParam(w, r, "roundID")
	if !ok {
		return
	}
	name := r.URL.Query().Get("player")
	if name == "" {
		http.Error(w, "player query parameter is required", http.StatusBadRequest)
		return
	}
	data, err := readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	round, err := h.service.ImportReferenceCard(r.Context(), sessionFrom(r), roundID, data, name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(round))
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

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err == nil {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("multipart upload needs a \"file\" field")
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("upload too large or unreadable")
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
