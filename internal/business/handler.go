package business

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler exposes HTTP endpoints for the business directory read paths.
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

// errorEnvelope is the failure body. The observed API uses "ok" here while
// the success body uses "success"; the asymmetry is part of the contract.
type errorEnvelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

// List handles GET /businesses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, verrs := ParseListParams(r.URL.Query())
	if verrs != nil {
		h.logger.Debugw("rejected list query", "errors", verrs)
		h.writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Message: "Invalid query parameters",
			Error:   verrs,
		})
		return
	}

	result, err := h.svc.List(r.Context(), params)
	if err != nil {
		h.logger.Errorw("list businesses failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, errorEnvelope{Message: "internal server error"})
		return
	}
	h.writeSuccess(w, result)
}

// Detail handles GET /businesses/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorEnvelope{Message: "business not found"})
			return
		}
		h.logger.Errorw("get business failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, errorEnvelope{Message: "internal server error"})
		return
	}
	h.writeSuccess(w, view)
}

func (h *Handler) writeSuccess(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusOK, successEnvelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
