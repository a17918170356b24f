package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/boutiquegn/backoffice/internal/product/domain"
	"github.com/boutiquegn/backoffice/pkg/logger"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	repo domain.ProductRepository
}

// NewProductHandler creates a new product handler
func NewProductHandler(repo domain.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		SKU         string  `json:"sku"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Name == "" || req.SKU == "" {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "name and sku are required"})
		return
	}
	if req.Price < 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "price cannot be negative"})
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Category:    req.Category,
		IsActive:    true,
	}
	if err := h.repo.Create(r.Context(), product); err != nil {
		logger.Error(r.Context()).Err(err).Str("sku", req.SKU).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Product created successfully", Data: product})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	product, err := h.repo.FindByID(r.Context(), uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	products, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to list products"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	product, err := h.repo.FindByID(r.Context(), uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		respondJSON(w, status, Response{Success: false, Error: err.Error()})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "price cannot be negative"})
			return
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), product); err != nil {
		logger.Error(r.Context()).Err(err).Uint("product_id", product.ID).Msg("Failed to update product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product updated successfully", Data: product})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	if err := h.repo.Delete(r.Context(), uint(id)); err != nil {
		logger.Error(r.Context()).Err(err).Uint64("product_id", id).Msg("Failed to delete product")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted successfully"})
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/products", h.CreateProduct).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.GetProduct).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.UpdateProduct).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.DeleteProduct).Methods("DELETE")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
