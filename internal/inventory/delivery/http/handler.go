package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/inventory/usecase/query"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// InventoryHandler handles HTTP requests for the stock ledger
type InventoryHandler struct {
	addStock     *command.AddStockHandler
	removeStock  *command.RemoveStockHandler
	adjustStock  *command.AdjustStockHandler
	returnStock  *command.ReturnStockHandler
	reserve      *command.ReserveStockHandler
	release      *command.ReleaseReservationHandler
	commit       *command.CommitReservationHandler
	thresholds   *command.SetThresholdsHandler
	discontinued *command.SetDiscontinuedHandler

	getStock       *query.GetStockHandler
	listStocks     *query.ListStocksHandler
	getReservation *query.GetReservationHandler
	listMovements  *query.ListMovementsHandler
	listReorder    *query.ListReorderNeededHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	addStock *command.AddStockHandler,
	removeStock *command.RemoveStockHandler,
	adjustStock *command.AdjustStockHandler,
	returnStock *command.ReturnStockHandler,
	reserve *command.ReserveStockHandler,
	release *command.ReleaseReservationHandler,
	commit *command.CommitReservationHandler,
	thresholds *command.SetThresholdsHandler,
	discontinued *command.SetDiscontinuedHandler,
	getStock *query.GetStockHandler,
	listStocks *query.ListStocksHandler,
	getReservation *query.GetReservationHandler,
	listMovements *query.ListMovementsHandler,
	listReorder *query.ListReorderNeededHandler,
) *InventoryHandler {
	return &InventoryHandler{
		addStock:       addStock,
		removeStock:    removeStock,
		adjustStock:    adjustStock,
		returnStock:    returnStock,
		reserve:        reserve,
		release:        release,
		commit:         commit,
		thresholds:     thresholds,
		discontinued:   discontinued,
		getStock:       getStock,
		listStocks:     listStocks,
		getReservation: getReservation,
		listMovements:  listMovements,
		listReorder:    listReorder,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// statusForError maps ledger errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrStockNotFound),
		errors.Is(err, domain.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConsistencyViolation):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "anonymous"
}

// GetStock handles GET /api/inventory/{product_id}
func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	stock, err := h.getStock.Handle(r.Context(), query.GetStockQuery{ProductID: productID})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stock})
}

// ListStocks handles GET /api/inventory
func (h *InventoryHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	stocks, err := h.listStocks.Handle(r.Context(), query.ListStocksQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stocks")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list stocks"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stocks})
}

// AddStock handles POST /api/inventory/{product_id}/add
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err = h.addStock.Handle(r.Context(), command.AddStockCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Actor:     actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock added successfully"})
}

// RemoveStock handles POST /api/inventory/{product_id}/remove
func (h *InventoryHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err = h.removeStock.Handle(r.Context(), command.RemoveStockCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Actor:     actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock removed successfully"})
}

// AdjustStock handles POST /api/inventory/{product_id}/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	var req struct {
		NewQuantity int    `json:"new_quantity"`
		Category    string `json:"category"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err = h.adjustStock.Handle(r.Context(), command.AdjustStockCommand{
		ProductID:   productID,
		NewQuantity: req.NewQuantity,
		Category:    domain.AdjustmentCategory(req.Category),
		Reason:      req.Reason,
		Actor:       actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock adjusted successfully"})
}

// SetThresholds handles PATCH /api/inventory/{product_id}/thresholds
func (h *InventoryHandler) SetThresholds(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	var req struct {
		MinQuantity     int  `json:"min_quantity"`
		MaxQuantity     int  `json:"max_quantity"`
		ReorderQuantity int  `json:"reorder_quantity"`
		AutoReorder     bool `json:"auto_reorder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err = h.thresholds.Handle(r.Context(), command.SetThresholdsCommand{
		ProductID:       productID,
		MinQuantity:     req.MinQuantity,
		MaxQuantity:     req.MaxQuantity,
		ReorderQuantity: req.ReorderQuantity,
		AutoReorder:     req.AutoReorder,
		Actor:           actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Thresholds updated successfully"})
}

// SetDiscontinued handles PATCH /api/inventory/{product_id}/discontinued
func (h *InventoryHandler) SetDiscontinued(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUint(r, "product_id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	var req struct {
		Discontinued bool `json:"discontinued"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err = h.discontinued.Handle(r.Context(), command.SetDiscontinuedCommand{
		ProductID:    productID,
		Discontinued: req.Discontinued,
		Actor:        actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Discontinued flag updated"})
}

// Reserve handles POST /api/reservations
func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID  uint   `json:"product_id"`
		Quantity   int    `json:"quantity"`
		OrderRef   string `json:"order_ref"`
		TTLSeconds int    `json:"ttl_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	reservation, err := h.reserve.Handle(r.Context(), command.ReserveStockCommand{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		OrderRef:  req.OrderRef,
		TTL:       time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Stock reserved successfully", Data: reservation})
}

// GetReservation handles GET /api/reservations/{id}
func (h *InventoryHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid reservation ID"})
		return
	}

	reservation, err := h.getReservation.Handle(r.Context(), query.GetReservationQuery{ReservationID: id})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: reservation})
}

// Release handles POST /api/reservations/{id}/release
func (h *InventoryHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid reservation ID"})
		return
	}

	err = h.release.Handle(r.Context(), command.ReleaseReservationCommand{
		ReservationID: id,
		Actor:         actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Reservation released"})
}

// Commit handles POST /api/reservations/{id}/commit
func (h *InventoryHandler) Commit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid reservation ID"})
		return
	}

	err = h.commit.Handle(r.Context(), command.CommitReservationCommand{
		ReservationID: id,
		Actor:         actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Reservation committed"})
}

// ListMovements handles GET /api/inventory/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, _ := strconv.ParseUint(q.Get("product_id"), 10, 32)
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := domain.MovementFilter{
		ProductID: uint(productID),
		Actor:     q.Get("actor"),
		Limit:     limit,
		Offset:    offset,
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

	movements, err := h.listMovements.Handle(r.Context(), query.ListMovementsQuery{Filter: filter})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list movements")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list movements"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: movements})
}

// ListReorderNeeded handles GET /api/inventory/reorder
func (h *InventoryHandler) ListReorderNeeded(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.listReorder.Handle(r.Context(), query.ListReorderNeededQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list reorder candidates")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list reorder candidates"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stocks})
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory", h.ListStocks).Methods("GET")
	router.HandleFunc("/api/inventory/movements", h.ListMovements).Methods("GET")
	router.HandleFunc("/api/inventory/reorder", h.ListReorderNeeded).Methods("GET")
	router.HandleFunc("/api/inventory/{product_id}", h.GetStock).Methods("GET")
	router.HandleFunc("/api/inventory/{product_id}/add", h.AddStock).Methods("POST")
	router.HandleFunc("/api/inventory/{product_id}/remove", h.RemoveStock).Methods("POST")
	router.HandleFunc("/api/inventory/{product_id}/adjust", h.AdjustStock).Methods("POST")
	router.HandleFunc("/api/inventory/{product_id}/thresholds", h.SetThresholds).Methods("PATCH")
	router.HandleFunc("/api/inventory/{product_id}/discontinued", h.SetDiscontinued).Methods("PATCH")
	router.HandleFunc("/api/reservations", h.Reserve).Methods("POST")
	router.HandleFunc("/api/reservations/{id}", h.GetReservation).Methods("GET")
	router.HandleFunc("/api/reservations/{id}/release", h.Release).Methods("POST")
	router.HandleFunc("/api/reservations/{id}/commit", h.Commit).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Backoffice service is healthy"})
	}).Methods("GET")
}

func pathUint(r *http.Request, key string) (uint, error) {
	v, err := strconv.ParseUint(mux.Vars(r)[key], 10, 32)
	return uint(v), err
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
