package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Order lifecycle: PENDING -> PAID (webhook) or PENDING -> CANCELLED (explicit cancel).
// PAID and CANCELLED are terminal.
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is the aggregate root for a purchase. TotalAmount is always the
// exact decimal sum of its items' subtotals.
type Order struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	BuyerEmail      string          `gorm:"not null;type:varchar(254);index" json:"buyer_email"`
	Status          OrderStatus     `gorm:"not null;type:varchar(20);index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total_amount"`
	StripeSessionID string          `gorm:"type:varchar(255)" json:"stripe_session_id,omitempty"`
	PaymentIntentID string          `gorm:"type:varchar(255)" json:"payment_intent_id,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem snapshots the product price at purchase time; it is not
// live-linked to the product row.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID   string          `gorm:"not null;type:uuid;index" json:"order_id"`
	ProductID string          `gorm:"not null;type:uuid" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price"`
	Subtotal  decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
