package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	repo domain.Repository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(repo domain.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListRecords handles GET /api/audit
func (h *AuditHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := domain.Filter{
		Actor:      q.Get("actor"),
		Action:     q.Get("action"),
		ObjectType: q.Get("object_type"),
		ObjectID:   q.Get("object_id"),
		Limit:      limit,
		Offset:     offset,
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = t
		}
	}

	records, err := h.repo.List(r.Context(), filter)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list audit records")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list audit records"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: records})
}

// RegisterRoutes registers all audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/audit", h.ListRecords).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
