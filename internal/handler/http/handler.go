// Package http exposes the cart manager over a chi-based JSON API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acidvertigo/cart/internal/manager"
	apperrors "github.com/acidvertigo/cart/pkg/errors"
	"github.com/acidvertigo/cart/pkg/validator"
)

// Handler handles HTTP requests for cart manager endpoints.
type Handler struct {
	manager *manager.Manager
	logger  *slog.Logger
}

// NewHandler creates a new cart manager HTTP handler.
func NewHandler(m *manager.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: m,
		logger:  logger,
	}
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// --- Helpers ---

// instanceID extracts the {id} URL parameter. The literal "current" resolves
// through the manager's context, which an empty ID triggers downstream.
func instanceID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if id == "current" {
		return ""
	}
	return id
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	if errors.Is(err, apperrors.ErrNotFound) {
		code = "NOT_FOUND"
		message = "resource not found"
		status = http.StatusNotFound
	} else if errors.Is(err, apperrors.ErrInvalidInput) {
		code = "INVALID_INPUT"
		message = err.Error()
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: code, Message: message},
	})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}
