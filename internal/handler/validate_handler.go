package handler

import (
	"net/http"

	"github.com/openlatch/openlatch/internal/domain"
)

type validateCodeRequest struct {
	Code   string `json:"code"`
	Source string `json:"source"`
}

type validateTagRequest struct {
	Tag    string `json:"tag"`
	Source string `json:"source"`
}

// ValidateByCode handles POST /api/v1/validate/code.
func (h *Handler) ValidateByCode(w http.ResponseWriter, r *http.Request) {
	var req validateCodeRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	if req.Code == "" {
		h.badRequest(w, "code is required")
		return
	}
	h.evaluate(w, r, domain.CredentialCode, req.Code, req.Source)
}

// ValidateByTag handles POST /api/v1/validate/tag.
func (h *Handler) ValidateByTag(w http.ResponseWriter, r *http.Request) {
	var req validateTagRequest
	if err := decode(r, &req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}
	if req.Tag == "" {
		h.badRequest(w, "tag is required")
		return
	}
	h.evaluate(w, r, domain.CredentialTag, req.Tag, req.Source)
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request,
	kind domain.CredentialKind, value, source string) {
	if source == "" {
		source = "unknown"
	}

	outcome, err := h.access.Evaluate(r.Context(), kind, value, source)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    outcome.Granted,
		UserID:   outcome.UserID,
		UserName: outcome.UserName,
		Reason:   outcome.Reason,
		Source:   outcome.Source,
	})
}
