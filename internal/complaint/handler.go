package complaint

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler exposes the complaint submission endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type successEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type errorEnvelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

// Submit handles POST /businesses/{id}/complaints.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid complaint payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid payload"})
		return
	}

	ref, err := h.svc.Submit(r.Context(), businessID, req)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			h.writeJSON(w, http.StatusBadRequest, errorEnvelope{
				Message: "Invalid complaint",
				Error:   verrs,
			})
		case errors.Is(err, ErrBusinessNotFound):
			h.writeJSON(w, http.StatusNotFound, errorEnvelope{Message: "business not found"})
		case errors.Is(err, ErrDuplicate):
			h.writeJSON(w, http.StatusConflict, errorEnvelope{Message: "duplicate complaint"})
		default:
			h.logger.Errorw("submit complaint failed", "businessId", businessID, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, errorEnvelope{Message: "internal server error"})
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, successEnvelope{
		Success:   true,
		Data:      map[string]string{"reference": ref},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
