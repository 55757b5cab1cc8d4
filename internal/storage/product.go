package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows ListProducts results.
type ProductFilter struct {
	SellerID string
	IsActive *bool
}

// ProductUpdate carries the mutable product fields; nil means "leave as is".
type ProductUpdate struct {
	SellerID *string
	Title    *string
	Price    *decimal.Decimal
	Stock    *int
	IsActive *bool
}

// ProductStorage describes persistence for products. Methods that take a tx
// handle must run inside the transaction owned by the calling workflow.
type ProductStorage interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*models.Product, error)
	// FindProductsForUpdate loads the given products with a row-level lock
	// so concurrent orders cannot race on stock.
	FindProductsForUpdate(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Product, error)
	// AdjustStock shifts a product's stock by delta (negative on order
	// creation, positive on cancellation restock).
	AdjustStock(ctx context.Context, tx *gorm.DB, id string, delta int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.SellerID != "" {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var products []*models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*models.Product, error) {
	fields := map[string]interface{}{}
	if update.SellerID != nil {
		fields["seller_id"] = *update.SellerID
	}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Stock != nil {
		fields["stock"] = *update.Stock
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrProductNotFound
		}
	}
	return r.GetProductByID(ctx, id)
}

func (r *productRepository) FindProductsForUpdate(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Product, error) {
	var products []*models.Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, tx *gorm.DB, id string, delta int) error {
	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
