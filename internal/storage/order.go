package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/linemk/marketplace/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows ListOrders results.
type OrderFilter struct {
	BuyerEmail string
	Status     models.OrderStatus
}

// OrderStorage describes persistence for orders and their items.
type OrderStorage interface {
	// CreateOrder inserts the order together with its items inside the
	// caller's transaction.
	CreateOrder(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id string, withItems bool) (*models.Order, error)
	// GetOrderByIDForUpdate locks the order row for the duration of the
	// caller's transaction and loads its items.
	GetOrderByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, tx *gorm.DB, id string, status models.OrderStatus) error
	// MarkOrderPaid sets the PAID status together with the gateway
	// references delivered by the webhook.
	MarkOrderPaid(ctx context.Context, tx *gorm.DB, id string, sessionID, paymentIntentID string) error
	ListOrders(ctx context.Context, filter OrderFilter, page, limit int) ([]*models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := tx.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string, withItems bool) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if withItems {
		query = query.Preload("Items")
	}

	var order models.Order
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOrderByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	// Items are loaded separately: FOR UPDATE cannot be combined with the
	// Preload join and the item rows themselves are never locked.
	if err := tx.WithContext(ctx).Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx *gorm.DB, id string, status models.OrderStatus) error {
	res := tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) MarkOrderPaid(ctx context.Context, tx *gorm.DB, id string, sessionID, paymentIntentID string) error {
	res := tx.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":            models.OrderStatusPaid,
		"stripe_session_id": sessionID,
		"payment_intent_id": paymentIntentID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter OrderFilter, page, limit int) ([]*models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.BuyerEmail != "" {
		query = query.Where("buyer_email = ?", filter.BuyerEmail)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []*models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
