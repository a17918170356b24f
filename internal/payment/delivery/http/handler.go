package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/internal/payment/usecase/command"
	"github.com/boutiquegn/backoffice/internal/payment/usecase/query"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments and refunds
type PaymentHandler struct {
	initiate  *command.InitiatePaymentHandler
	authorize *command.AuthorizePaymentHandler
	capture   *command.CapturePaymentHandler
	failPay   *command.FailPaymentHandler

	requestRefund  *command.RequestRefundHandler
	processRefund  *command.ProcessRefundHandler
	completeRefund *command.CompleteRefundHandler
	failRefund     *command.FailRefundHandler

	getPayment   *query.GetPaymentHandler
	listPayments *query.ListPaymentsHandler
	getRefund    *query.GetRefundHandler
	listRefunds  *query.ListRefundsHandler
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	initiate *command.InitiatePaymentHandler,
	authorize *command.AuthorizePaymentHandler,
	capture *command.CapturePaymentHandler,
	failPay *command.FailPaymentHandler,
	requestRefund *command.RequestRefundHandler,
	processRefund *command.ProcessRefundHandler,
	completeRefund *command.CompleteRefundHandler,
	failRefund *command.FailRefundHandler,
	getPayment *query.GetPaymentHandler,
	listPayments *query.ListPaymentsHandler,
	getRefund *query.GetRefundHandler,
	listRefunds *query.ListRefundsHandler,
) *PaymentHandler {
	return &PaymentHandler{
		initiate:       initiate,
		authorize:      authorize,
		capture:        capture,
		failPay:        failPay,
		requestRefund:  requestRefund,
		processRefund:  processRefund,
		completeRefund: completeRefund,
		failRefund:     failRefund,
		getPayment:     getPayment,
		listPayments:   listPayments,
		getRefund:      getRefund,
		listRefunds:    listRefunds,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func statusForError(err error) int {
	if errors.Is(err, domain.ErrInvalidTransition) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "anonymous"
}

// InitiatePayment handles POST /api/payments
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID uint   `json:"order_id"`
		Method  string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	payment, err := h.initiate.Handle(r.Context(), command.InitiatePaymentCommand{
		OrderID: req.OrderID,
		Method:  req.Method,
		Actor:   actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Payment initiated", Data: payment})
}

// AuthorizePayment handles POST /api/payments/{id}/authorize
func (h *PaymentHandler) AuthorizePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payment ID"})
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	err = h.authorize.Handle(r.Context(), command.AuthorizePaymentCommand{
		PaymentID:     uint(id),
		TransactionID: req.TransactionID,
		Actor:         actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment authorized"})
}

// CapturePayment handles POST /api/payments/{id}/capture
func (h *PaymentHandler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payment ID"})
		return
	}

	if err := h.capture.Handle(r.Context(), command.CapturePaymentCommand{PaymentID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment captured"})
}

// FailPayment handles POST /api/payments/{id}/fail
func (h *PaymentHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payment ID"})
		return
	}

	if err := h.failPay.Handle(r.Context(), command.FailPaymentCommand{PaymentID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment failed"})
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid payment ID"})
		return
	}

	payment, err := h.getPayment.Handle(r.Context(), query.GetPaymentQuery{PaymentID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payment})
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.ParseUint(r.URL.Query().Get("order_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listPayments.Handle(r.Context(), query.ListPaymentsQuery{
		OrderID: uint(orderID),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payments")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list payments"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payments})
}

// RequestRefund handles POST /api/refunds
func (h *PaymentHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID           uint    `json:"order_id"`
		Amount            float64 `json:"amount"`
		Reason            string  `json:"reason"`
		ReasonDescription string  `json:"reason_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	refund, err := h.requestRefund.Handle(r.Context(), command.RequestRefundCommand{
		OrderID:           req.OrderID,
		Amount:            req.Amount,
		Reason:            req.Reason,
		ReasonDescription: req.ReasonDescription,
		RequestedBy:       actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Refund requested", Data: refund})
}

// ProcessRefund handles POST /api/refunds/{id}/process
func (h *PaymentHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid refund ID"})
		return
	}

	err = h.processRefund.Handle(r.Context(), command.ProcessRefundCommand{
		RefundID:  uint(id),
		Processor: actorFrom(r),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Refund processing started"})
}

// CompleteRefund handles POST /api/refunds/{id}/complete
func (h *PaymentHandler) CompleteRefund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid refund ID"})
		return
	}

	if err := h.completeRefund.Handle(r.Context(), command.CompleteRefundCommand{RefundID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Refund completed"})
}

// FailRefund handles POST /api/refunds/{id}/fail
func (h *PaymentHandler) FailRefund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid refund ID"})
		return
	}

	if err := h.failRefund.Handle(r.Context(), command.FailRefundCommand{RefundID: uint(id), Actor: actorFrom(r)}); err != nil {
		respondJSON(w, statusForError(err), Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Refund failed"})
}

// GetRefund handles GET /api/refunds/{id}
func (h *PaymentHandler) GetRefund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid refund ID"})
		return
	}

	refund, err := h.getRefund.Handle(r.Context(), query.GetRefundQuery{RefundID: uint(id)})
	if err != nil {
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: refund})
}

// ListRefunds handles GET /api/refunds
func (h *PaymentHandler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.ParseUint(r.URL.Query().Get("order_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	refunds, err := h.listRefunds.Handle(r.Context(), query.ListRefundsQuery{
		OrderID: uint(orderID),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list refunds")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list refunds"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: refunds})
}

// RegisterRoutes registers all payment and refund routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/payments", h.ListPayments).Methods("GET")
	router.HandleFunc("/api/payments", h.InitiatePayment).Methods("POST")
	router.HandleFunc("/api/payments/{id}", h.GetPayment).Methods("GET")
	router.HandleFunc("/api/payments/{id}/authorize", h.AuthorizePayment).Methods("POST")
	router.HandleFunc("/api/payments/{id}/capture", h.CapturePayment).Methods("POST")
	router.HandleFunc("/api/payments/{id}/fail", h.FailPayment).Methods("POST")
	router.HandleFunc("/api/refunds", h.ListRefunds).Methods("GET")
	router.HandleFunc("/api/refunds", h.RequestRefund).Methods("POST")
	router.HandleFunc("/api/refunds/{id}", h.GetRefund).Methods("GET")
	router.HandleFunc("/api/refunds/{id}/process", h.ProcessRefund).Methods("POST")
	router.HandleFunc("/api/refunds/{id}/complete", h.CompleteRefund).Methods("POST")
	router.HandleFunc("/api/refunds/{id}/fail", h.FailRefund).Methods("POST")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
