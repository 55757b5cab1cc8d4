package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/service"
)

// SellerRequest is the body for seller create and update.
type SellerRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateSellerHandler handles POST /sellers
func CreateSellerHandler(log *slog.Logger, sellerService service.SellerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateSellerHandler"
		logger := log.With(slog.String("op", op))

		var req SellerRequest
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

		seller, err := sellerService.CreateSeller(r.Context(), req.Name)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, seller)
	}
}

// ListSellersHandler handles GET /sellers
func ListSellersHandler(log *slog.Logger, sellerService service.SellerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListSellersHandler"
		logger := log.With(slog.String("op", op))

		sellers, err := sellerService.ListSellers(r.Context())
		if err != nil {
			writeError(logger, w, err)
			return
		}
		if sellers == nil {
			sellers = []*models.Seller{}
		}
		writeJSON(logger, w, http.StatusOK, sellers)
	}
}

// UpdateSellerHandler handles PATCH /sellers/{id}
func UpdateSellerHandler(log *slog.Logger, sellerService service.SellerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateSellerHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "id parameter is required"})
			return
		}

		var req SellerRequest
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

		seller, err := sellerService.UpdateSeller(r.Context(), id, req.Name)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, seller)
	}
}

// DeleteSellerHandler handles DELETE /sellers/{id}
func DeleteSellerHandler(log *slog.Logger, sellerService service.SellerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteSellerHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "id parameter is required"})
			return
		}

		if err := sellerService.DeleteSeller(r.Context(), id); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, map[string]string{"message": "seller deleted"})
	}
}
