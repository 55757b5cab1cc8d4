package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/linemk/marketplace/internal/domain/models"
	"gorm.io/gorm"
)

var ErrSellerNotFound = errors.New("seller not found")

// SellerStorage describes persistence for sellers.
type SellerStorage interface {
	CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error)
	GetSellerByID(ctx context.Context, id string) (*models.Seller, error)
	ListSellers(ctx context.Context) ([]*models.Seller, error)
	UpdateSeller(ctx context.Context, id string, name string) (*models.Seller, error)
	DeleteSeller(ctx context.Context, id string) error
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerStorage {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) CreateSeller(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(seller).Error; err != nil {
		return nil, err
	}
	return seller, nil
}

func (r *sellerRepository) GetSellerByID(ctx context.Context, id string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) ListSellers(ctx context.Context) ([]*models.Seller, error) {
	var sellers []*models.Seller
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

func (r *sellerRepository) UpdateSeller(ctx context.Context, id string, name string) (*models.Seller, error) {
	res := r.db.WithContext(ctx).Model(&models.Seller{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrSellerNotFound
	}
	return r.GetSellerByID(ctx, id)
}

func (r *sellerRepository) DeleteSeller(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Seller{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSellerNotFound
	}
	return nil
}
