package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	"github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/order/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order/usecase/query"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	create  *command.CreateOrderHandler
	ship    *command.ShipOrderHandler
	deliver *command.DeliverOrderHandler
	cancel  *command.CancelOrderHandler
	ret     *command.ReturnOrderHandler

	get  *query.GetOrderHandler
	list *query.ListOrdersHandler
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	create *command.CreateOrderHandler,
	ship *command.ShipOrderHandler,
	deliver *command.DeliverOrderHandler,
	cancel *command.CancelOrderHandler,
	ret *command.ReturnOrderHandler,
	get *query.GetOrderHandler,
	list *query.ListOrdersHandler,
) *OrderHandler {
	return &OrderHandler{
		create:  create,
		ship:    ship,
		deliver: deliver,
		cancel:  cancel,
		ret:     ret,
		get:     get,
		list:    list,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, invdomain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, invdomain.ErrInvalidQuantity):
		return http.StatusBadRequest
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

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID      uint    `json:"customer_id"`
		PaymentMethod   string  `json:"payment_method"`
		DeliveryAddress string  `json:"delivery_address"`
		DeliveryPhone   string  `json:"delivery_phone"`
		DeliveryNotes   string  `json:"delivery_notes"`
		DeliveryFee     float64 `json:"delivery_fee"`
		Items           []struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	cmd := command.CreateOrderCommand{
		CustomerID:      req.CustomerID,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
		DeliveryNotes:   req.DeliveryNotes,
		DeliveryFee:     req.DeliveryFee,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Order created successfully", Data: order})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	q := query.GetOrderQuery{}
	raw := mux.Vars(r)["id"]
	if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
		q.OrderID = uint(id)
	} else {
		q.OrderNumber = raw
	}

	order, err := h.get.Handle(r.Context(), q)
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.ParseUint(r.URL.Query().Get("customer_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.list.Handle(r.Context(), query.ListOrdersQuery{
		CustomerID: uint(customerID),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list orders")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list orders"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// ShipOrder handles POST /api/orders/{id}/ship
func (h *OrderHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	if err := h.ship.Handle(r.Context(), command.ShipOrderCommand{OrderID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order shipped"})
}

// DeliverOrder handles POST /api/orders/{id}/deliver
func (h *OrderHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	if err := h.deliver.Handle(r.Context(), command.DeliverOrderCommand{OrderID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order delivered"})
}

// CancelOrder handles POST /api/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = json.NewDecoder(r.Body).Decode(&req)

	err = h.cancel.Handle(r.Context(), command.CancelOrderCommand{
		OrderID: uint(id),
		Reason:  req.Reason,
		Actor:   actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order cancelled"})
}

// ReturnOrder handles POST /api/orders/{id}/return
func (h *OrderHandler) ReturnOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	if err := h.ret.Handle(r.Context(), command.ReturnOrderCommand{OrderID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order returned"})
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders", h.ListOrders).Methods("GET")
	router.HandleFunc("/api/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods("GET")
	router.HandleFunc("/api/orders/{id}/ship", h.ShipOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}/deliver", h.DeliverOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}/cancel", h.CancelOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}/return", h.ReturnOrder).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
