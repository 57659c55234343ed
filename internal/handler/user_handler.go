package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openlatch/openlatch/internal/domain"
	"github.com/openlatch/openlatch/internal/service"
)

type addUserRequest struct {
	Name   string  `json:"name"`
	Code   *string `json:"code,omitempty"`
	Tag    *string `json:"tag,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *userPayload `json:"user,omitempty"`
}

type userPayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HasCode    bool    `json:"has_code"`
	Tag        *string `json:"tag,omitempty"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
	LastUsedAt *string `json:"last_used_at,omitempty"`
}

func toUserPayload(u *domain.User) *userPayload {
	p := &userPayload{
		ID:        u.ID,
		Name:      u.Name,
		HasCode:   u.HasCode(),
		Tag:       u.Tag,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if u.LastUsedAt != nil {
		s := u.LastUsedAt.Format(time.RFC3339)
		p.LastUsedAt = &s
	}
	return p
}

// AddUser handles POST /api/v1/users.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserInput{
		Name:   req.Name,
		Code:   req.Code,
		Tag:    req.Tag,
		Active: req.Active,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{Success: true, User: toUserPayload(user)})
}

type updateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Code   *string `json:"code,omitempty"`
	Tag    *string `json:"tag,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// UpdateUser handles PATCH /api/v1/users/{id}. Each present field maps to
// its dedicated update operation, so every path re-validates the whole
// entity. A blank code or tag removes that access method.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	if req.Name == nil && req.Code == nil && req.Tag == nil && req.Active == nil {
		h.badRequest(w, "no fields to update")
		return
	}

	var user *domain.User
	var err error
	if req.Name != nil {
		if user, err = h.users.UpdateName(r.Context(), userID, *req.Name); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Code != nil {
		if user, err = h.users.UpdateCode(r.Context(), userID, req.Code); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Tag != nil {
		if user, err = h.users.UpdateTag(r.Context(), userID, req.Tag); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Active != nil {
		if user, err = h.users.SetActive(r.Context(), userID, *req.Active); err != nil {
			h.writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: toUserPayload(user)})
}

// RemoveUser handles DELETE /api/v1/users/{id}. Removal cascades to the
// user's schedules; removing an absent user still succeeds.
func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.Remove(r.Context(), userID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type listUsersResponse struct {
	Success bool                    `json:"success"`
	Users   map[string]*userPayload `json:"users"`
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload := make(map[string]*userPayload, len(users))
	for id, user := range users {
		payload[id] = toUserPayload(user)
	}
	writeJSON(w, http.StatusOK, listUsersResponse{Success: true, Users: payload})
}
