package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/service"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the POST /products body.
type CreateProductRequest struct {
	SellerID string          `json:"seller_id" validate:"required"`
	Title    string          `json:"title" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"gte=0"`
	IsActive *bool           `json:"is_active"`
}

// UpdateProductRequest is the PATCH /products/{id} body; absent fields are
// left untouched.
type UpdateProductRequest struct {
	SellerID *string          `json:"seller_id"`
	Title    *string          `json:"title"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock" validate:"omitempty,gte=0"`
	IsActive *bool            `json:"is_active"`
}

// CreateProductHandler handles POST /products
func CreateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "validation error"})
			return
		}
		if req.Price.IsNegative() {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "price must not be negative"})
			return
		}

		product, err := productService.CreateProduct(r.Context(), service.CreateProductInput{
			SellerID: req.SellerID,
			Title:    req.Title,
			Price:    req.Price,
			Stock:    req.Stock,
			IsActive: req.IsActive,
		})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, product)
	}
}

// ListProductsHandler handles GET /products?sellerId&isActive
func ListProductsHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		filter := storage.ProductFilter{
			SellerID: r.URL.Query().Get("sellerId"),
		}
		if raw := r.URL.Query().Get("isActive"); raw != "" {
			isActive, err := strconv.ParseBool(raw)
			if err != nil {
				writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid isActive parameter"})
				return
			}
			filter.IsActive = &isActive
		}

		products, err := productService.ListProducts(r.Context(), filter)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}
		writeJSON(logger, w, http.StatusOK, products)
	}
}

// UpdateProductHandler handles PATCH /products/{id}
func UpdateProductHandler(log *slog.Logger, productService service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "id parameter is required"})
			return
		}

		var req UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "validation error"})
			return
		}
		if req.Price != nil && req.Price.IsNegative() {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "price must not be negative"})
			return
		}

		product, err := productService.UpdateProduct(r.Context(), id, storage.ProductUpdate{
			SellerID: req.SellerID,
			Title:    req.Title,
			Price:    req.Price,
			Stock:    req.Stock,
			IsActive: req.IsActive,
		})
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, product)
	}
}
