package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries a new product's attributes.
type CreateProductInput struct {
	SellerID string
	Title    string
	Price    decimal.Decimal
	Stock    int
	IsActive *bool
}

type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id string, update storage.ProductUpdate) (*models.Product, error)
}

type productService struct {
	log         *slog.Logger
	sellerRepo  storage.SellerStorage
	productRepo storage.ProductStorage
}

func NewProductService(log *slog.Logger, sellerRepo storage.SellerStorage, productRepo storage.ProductStorage) ProductService {
	return &productService{
		log:         log,
		sellerRepo:  sellerRepo,
		productRepo: productRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"

	if _, err := s.sellerRepo.GetSellerByID(ctx, input.SellerID); err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, NewNotFoundError("seller not found")
		}
		return nil, fmt.Errorf("%s: failed to check seller: %w", op, err)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product, err := s.productRepo.CreateProduct(ctx, &models.Product{
		SellerID: input.SellerID,
		Title:    input.Title,
		Price:    input.Price,
		Stock:    input.Stock,
		IsActive: isActive,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}
	s.log.Info("product created", slog.String("op", op), slog.String("productID", product.ID))
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, update storage.ProductUpdate) (*models.Product, error) {
	const op = "service.ProductService.UpdateProduct"

	product, err := s.productRepo.UpdateProduct(ctx, id, update)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, NewNotFoundError("product not found")
		}
		return nil, fmt.Errorf("%s: failed to update product: %w", op, err)
	}
	return product, nil
}
