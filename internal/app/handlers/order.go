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
)

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	BuyerEmail string                   `json:"buyer_email" validate:"required,email"`
	Items      []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderHandler handles POST /orders
func CreateOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		var req CreateOrderRequest
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

		items := make([]service.OrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, service.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := orderService.CreateOrder(r.Context(), req.BuyerEmail, items)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusCreated, order)
	}
}

// GetOrderHandler handles GET /orders/{id}
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "id parameter is required"})
			return
		}

		order, err := orderService.GetOrder(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, order)
	}
}

// ListOrdersHandler handles GET /orders?page&limit&buyerEmail&status
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		page, ok := queryInt(r, "page", 1)
		if !ok {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid page parameter"})
			return
		}
		limit, ok := queryInt(r, "limit", 20)
		if !ok {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit parameter"})
			return
		}

		filter := storage.OrderFilter{
			BuyerEmail: r.URL.Query().Get("buyerEmail"),
		}
		if status := r.URL.Query().Get("status"); status != "" {
			switch models.OrderStatus(status) {
			case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusCancelled:
				filter.Status = models.OrderStatus(status)
			default:
				writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid status parameter"})
				return
			}
		}

		orders, err := orderService.ListOrders(r.Context(), filter, page, limit)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}
		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// CancelOrderHandler handles PATCH /orders/{id}/cancel
func CancelOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelOrderHandler"
		logger := log.With(slog.String("op", op))

		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "id parameter is required"})
			return
		}

		order, err := orderService.CancelOrder(r.Context(), id)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, order)
	}
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}
