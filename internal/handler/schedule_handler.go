package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/service"
)

type createScheduleRequest struct {
	UserID    string `json:"user_id"`
	DayOfWeek *int   `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    *bool  `json:"active,omitempty"`
}

type scheduleResponse struct {
	Success  bool             `json:"success"`
	Schedule *schedulePayload `json:"schedule,omitempty"`
}

type schedulePayload struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toSchedulePayload(s *domain.Schedule) *schedulePayload {
	return &schedulePayload{
		ID:        s.ID,
		UserID:    s.UserID,
		DayOfWeek: s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateSchedule handles POST /api/v1/schedules.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.badRequest(w, "user_id is required")
		return
	}
	if req.DayOfWeek == nil {
		h.badRequest(w, "day_of_week is required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	schedule, err := h.schedules.Create(r.Context(), service.CreateScheduleInput{
		UserID:    req.UserID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    active,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, scheduleResponse{Success: true, Schedule: toSchedulePayload(schedule)})
}

type updateScheduleRequest struct {
	DayOfWeek *int    `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// UpdateSchedule handles PATCH /api/v1/schedules/{id}.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")

	var req updateScheduleRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	schedule, err := h.schedules.Update(r.Context(), scheduleID, service.UpdateScheduleInput{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    req.Active,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{Success: true, Schedule: toSchedulePayload(schedule)})
}

// RemoveSchedule handles DELETE /api/v1/schedules/{id}.
func (h *Handler) RemoveSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if err := h.schedules.Remove(r.Context(), scheduleID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type listSchedulesResponse struct {
	Success   bool               `json:"success"`
	Schedules []*schedulePayload `json:"schedules"`
}

// ListSchedules handles GET /api/v1/schedules with an optional user_id
// filter. Order is evaluation order.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	var (
		schedules []*domain.Schedule
		err       error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		schedules, err = h.schedules.GetByUserID(r.Context(), userID)
	} else {
		schedules, err = h.schedules.GetAll(r.Context())
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload := make([]*schedulePayload, 0, len(schedules))
	for _, schedule := range schedules {
		payload = append(payload, toSchedulePayload(schedule))
	}
	writeJSON(w, http.StatusOK, listSchedulesResponse{Success: true, Schedules: payload})
}
