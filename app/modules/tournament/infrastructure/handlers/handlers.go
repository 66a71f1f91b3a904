package tournamenthandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	tournamentservice "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/application"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// maxUpload bounds scorecard uploads.
const maxUpload = 4 << 20

// TournamentHandlers serves tournament setup over HTTP.
type TournamentHandlers struct {
	service tournamentservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewTournamentHandlers(service tournamentservice.Service, logger *slog.Logger, tracer trace.Tracer) *TournamentHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentHandlers{service: service, logger: logger, tracer: tracer}
}

// Routes registers the public and admin routes. admin wraps handlers that
// need the admin capability.
func (h *TournamentHandlers) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/tournaments/{tournamentID}", h.HandleGetTournament)
	r.Group(func(r chi.Router) {
		r.Use(admin)
		r.Post("/tournaments/{tournamentID}/players", h.HandleRegisterPlayer)
		r.Post("/tournaments/{tournamentID}/courses/import", h.HandleImportCourse)
		r.Post("/tournaments/{tournamentID}/groups", h.HandleScheduleGroup)
	})
}

type tournamentResponse struct {
	ID          uuid.UUID                   `json:"id"`
	Name        string                      `json:"name"`
	ScoringMode tournamenttypes.ScoringMode `json:"scoring_mode"`
	Days        int                         `json:"days"`
	HasDayZero  bool                        `json:"has_day_zero"`
	Revealed    bool                        `json:"revealed"`
}

func (h *TournamentHandlers) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tournamentID(w, r)
	if !ok {
		return
	}
	t, err := h.service.GetTournament(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tournamentResponse{
		ID:          t.ID,
		Name:        t.Name,
		ScoringMode: t.ScoringMode,
		Days:        t.Days,
		HasDayZero:  t.HasDayZero,
		Revealed:    t.Revealed,
	})
}

type registerPlayerBody struct {
	Name          string `json:"name"`
	HandicapIndex int    `json:"handicap_index"`
}

func (h *TournamentHandlers) HandleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tournamentID(w, r)
	if !ok {
		return
	}
	var body registerPlayerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, _ := session.FromContext(r.Context())
	p, err := h.service.RegisterPlayer(r.Context(), sess, tournamentservice.RegisterPlayerRequest{
		TournamentID:  id,
		Name:          body.Name,
		HandicapIndex: body.HandicapIndex,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"handicap_index": p.HandicapIndex,
	})
}

// HandleImportCourse accepts either a multipart "file" field or a raw XLSX body.
func (h *TournamentHandlers) HandleImportCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tournamentID(w, r)
	if !ok {
		return
	}
	data, err := readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := tournamentservice.ImportCourseRequest{
		TournamentID: id,
		Name:         r.URL.Query().Get("name"),
		XLSX:         data,
	}
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		if req.CourseID, err = uuid.Parse(raw); err != nil {
			http.Error(w, "invalid course_id", http.StatusBadRequest)
			return
		}
	}

	sess, _ := session.FromContext(r.Context())
	course, err := h.service.ImportCourse(r.Context(), sess, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    course.ID,
		"name":  course.Name,
		"holes": course.Holes,
	})
}

type scheduleGroupBody struct {
	CourseID  uuid.UUID   `json:"course_id"`
	Name      string      `json:"name"`
	Day       int         `json:"day"`
	TeeTime   string      `json:"tee_time"`
	Timezone  string      `json:"timezone"`
	PlayerIDs []uuid.UUID `json:"player_ids"`
}

func (h *TournamentHandlers) HandleScheduleGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tournamentID(w, r)
	if !ok {
		return
	}
	var body scheduleGroupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, _ := session.FromContext(r.Context())
	g, err := h.service.ScheduleGroup(r.Context(), sess, tournamentservice.ScheduleGroupRequest{
		TournamentID: id,
		CourseID:     body.CourseID,
		Name:         body.Name,
		Day:          body.Day,
		TeeTime:      body.TeeTime,
		Timezone:     body.Timezone,
		PlayerIDs:    body.PlayerIDs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         g.ID,
		"course_id":  g.CourseID,
		"name":       g.Name,
		"day":        g.Day,
		"tee_time":   g.TeeTime,
		"player_ids": g.PlayerIDs,
	})
}

func (h *TournamentHandlers) tournamentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tournamentID"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TournamentHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tournamentservice.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, tournamenttypes.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tournamenttypes.ErrInvalidCourse),
		errors.Is(err, tournamenttypes.ErrEmptyCourse),
		errors.Is(err, tournamentservice.ErrInvalidRequest),
		errors.Is(err, tournamentservice.ErrInvalidDay),
		errors.Is(err, tournamentservice.ErrInvalidTeeTime),
		errors.Is(err, tournamentservice.ErrInvalidTimezone),
		errors.Is(err, tournamentservice.ErrWrongTournament):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Tournament request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		http.Error(w, "internal error", status)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
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
