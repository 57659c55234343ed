// Package handler provides the HTTP command surface for Openlatch.
// Expected validation failures are converted to structured envelopes and
// never propagate; only infrastructure unavailability surfaces as 5xx.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/repository"
	"github.com/openlatch/openlatch/internal/service"
	"github.com/openlatch/openlatch/internal/validation"
)

// Handler exposes the user, schedule and access services over HTTP.
type Handler struct {
	users     *service.UserService
	schedules *service.ScheduleService
	access    *service.AccessService
	logger    zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(users *service.UserService, schedules *service.ScheduleService,
	access *service.AccessService, logger zerolog.Logger) *Handler {
	return &Handler{
		users:     users,
		schedules: schedules,
		access:    access,
		logger:    logger.With().Str("component", "handler").Logger(),
	}
}

// envelope is the generic command response.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// validateResponse is the response of the validate endpoints.
type validateResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Reason   string `json:"reason"`
	Source   string `json:"source"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to status codes and failure envelopes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: verr.Message})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrScheduleNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Error: err.Error()})
	case errors.Is(err, repository.ErrStorageUnavailable):
		h.logger.Error().Err(err).Msg("storage unavailable")
		writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Error: "storage unavailable"})
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal error"})
	}
}

// decode parses a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: message})
}
