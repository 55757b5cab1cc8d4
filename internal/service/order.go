package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemInput is one (product, quantity) pair of a creation request.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type OrderService interface {
	CreateOrder(ctx context.Context, buyerEmail string, items []OrderItemInput) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter storage.OrderFilter, page, limit int) ([]*models.Order, error)
	CancelOrder(ctx context.Context, id string) (*models.Order, error)
}

type orderService struct {
	log         *slog.Logger
	db          *gorm.DB
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
}

func NewOrderService(log *slog.Logger, db *gorm.DB, productRepo storage.ProductStorage, orderRepo storage.OrderStorage) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// CreateOrder validates stock, computes the decimal total, decrements
// product stocks and inserts the PENDING order with its item snapshots.
// Everything runs in one transaction; on any error nothing is persisted.
func (s *orderService) CreateOrder(ctx context.Context, buyerEmail string, items []OrderItemInput) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.String("buyerEmail", buyerEmail))
	logger.Info("starting order creation", slog.Int("items", len(items)))

	if len(items) == 0 {
		return nil, NewValidationError("order must contain at least one item")
	}

	// Distinct product ids, request order preserved.
	seen := make(map[string]struct{}, len(items))
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	var created *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.FindProductsForUpdate(ctx, tx, productIDs)
		if err != nil {
			return fmt.Errorf("%s: failed to load products: %w", op, err)
		}
		if len(products) != len(productIDs) {
			return NewValidationError("some products not found")
		}

		productByID := make(map[string]*models.Product, len(products))
		for _, product := range products {
			productByID[product.ID] = product
		}

		// Validate and price in request-item order: the first failing
		// item wins, failures are not aggregated. Stock is checked against
		// the running total per product so duplicate lines for the same
		// product cannot oversell a sufficient-looking snapshot.
		total := decimal.Zero
		required := make(map[string]int, len(productIDs))
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product, ok := productByID[item.ProductID]
			if !ok {
				return NewValidationError(fmt.Sprintf("product %s not found", item.ProductID))
			}
			if !product.IsActive {
				return NewValidationError(fmt.Sprintf("product %s is inactive", item.ProductID))
			}
			required[item.ProductID] += item.Quantity
			if product.Stock < required[item.ProductID] {
				return NewValidationError(fmt.Sprintf("not enough stock for product %s", item.ProductID))
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
				Subtotal:  subtotal,
			})
		}

		for _, item := range items {
			if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return fmt.Errorf("%s: failed to decrement stock: %w", op, err)
			}
		}

		order := &models.Order{
			BuyerEmail:  buyerEmail,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
			Items:       orderItems,
		}
		created, err = s.orderRepo.CreateOrder(ctx, tx, order)
		if err != nil {
			return fmt.Errorf("%s: failed to create order: %w", op, err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("order creation failed", slog.Any("error", err))
		return nil, err
	}

	logger.Info("order created",
		slog.String("orderID", created.ID),
		slog.String("total", created.TotalAmount.String()),
	)
	return created, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"

	order, err := s.orderRepo.GetOrderByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, NewNotFoundError("order not found")
		}
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter storage.OrderFilter, page, limit int) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.orderRepo.ListOrders(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

// CancelOrder restocks every item and moves the order to CANCELLED in one
// transaction. Cancelling an already cancelled order is an idempotent
// no-op; a paid order cannot be cancelled.
func (s *orderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "service.OrderService.CancelOrder"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", id))
	logger.Info("starting order cancellation")

	var result *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetOrderByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				return NewNotFoundError("order not found")
			}
			return fmt.Errorf("%s: failed to load order: %w", op, err)
		}

		if order.Status == models.OrderStatusCancelled {
			logger.Info("order already cancelled")
			result = order
			return nil
		}
		if order.Status != models.OrderStatusPending {
			return NewConflictError("cannot cancel order in status " + string(order.Status))
		}

		for _, item := range order.Items {
			if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("%s: failed to restock product: %w", op, err)
			}
		}

		if err := s.orderRepo.UpdateOrderStatus(ctx, tx, id, models.OrderStatusCancelled); err != nil {
			return fmt.Errorf("%s: failed to update order status: %w", op, err)
		}
		order.Status = models.OrderStatusCancelled
		result = order
		return nil
	})
	if err != nil {
		logger.Warn("order cancellation failed", slog.Any("error", err))
		return nil, err
	}

	logger.Info("order cancelled")
	return result, nil
}
