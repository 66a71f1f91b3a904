package roundhandlers

import (
	"errors"
	"net/http"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
)

type errorBody struct {
	Error         string                    `json:"error"`
	MissingHoles  []int                     `json:"missing_holes,omitempty"`
	Discrepancies []rounddomain.Discrepancy `json:"discrepancies,omitempty"`
	Retryable     bool                      `json:"retryable,omitempty"`
}

// writeError maps service errors onto HTTP statuses.
func (h *RoundHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation  *rounddomain.ValidationError
		discrepancy *rounddomain.DiscrepancyWarning
		state       *rounddomain.StateError
		persistence *rounddomain.PersistenceError
	)

	body := errorBody{Error: err.Error()}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &validation):
		status = http.StatusUnprocessableEntity
		body.MissingHoles = validation.MissingHoles
	case errors.As(err, &discrepancy):
		status = http.StatusConflict
		body.Discrepancies = discrepancy.Discrepancies
	case errors.As(err, &state):
		status = http.StatusLocked
	case errors.Is(err, rounddomain.ErrVersionConflict):
		status = http.StatusConflict
		body.Retryable = true
	case errors.Is(err, rounddomain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, rounddomain.ErrRoundNotFound), errors.Is(err, tournamenttypes.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rounddomain.ErrInvalidHole),
		errors.Is(err, rounddomain.ErrInvalidStrokes),
		errors.Is(err, rounddomain.ErrInvalidHandicap),
		errors.Is(err, rounddomain.ErrInvalidReference):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &persistence):
		status = http.StatusServiceUnavailable
		body = errorBody{Error: "scores could not be saved, try again", Retryable: true}
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Round request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		if status == http.StatusInternalServerError {
			body = errorBody{Error: "internal error"}
		}
	}
	writeJSON(w, status, body)
}
