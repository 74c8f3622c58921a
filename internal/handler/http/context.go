package http

import (
	"net/http"

	"github.com/acidvertigo/cart/pkg/validator"
)

// SetContextRequest is the JSON request body for switching the current context.
type SetContextRequest struct {
	ID string `json:"id" validate:"required,min=1,max=128"`
}

// ContextResponse is the payload for context reads and switches.
type ContextResponse struct {
	Current string `json:"current"`
}

// GetContext handles GET /api/v1/context
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: ContextResponse{
		Current: h.manager.Current(),
	}})
}

// SetContext handles PUT /api/v1/context
func (h *Handler) SetContext(w http.ResponseWriter, r *http.Request) {
	var req SetContextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	if err := h.manager.SetCurrent(req.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: ContextResponse{
		Current: h.manager.Current(),
	}})
}
