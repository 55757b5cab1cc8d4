package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item owned by a seller.
// Price is stored as an exact decimal, never as a float.
type Product struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	SellerID  string          `gorm:"not null;type:uuid;index" json:"seller_id"`
	Title     string          `gorm:"not null;type:varchar(200)" json:"title"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price"`
	Stock     int             `gorm:"not null" json:"stock"`
	IsActive  bool            `gorm:"not null" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
