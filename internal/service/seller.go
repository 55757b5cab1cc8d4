package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/storage"
)

type SellerService interface {
	CreateSeller(ctx context.Context, name string) (*models.Seller, error)
	ListSellers(ctx context.Context) ([]*models.Seller, error)
	UpdateSeller(ctx context.Context, id, name string) (*models.Seller, error)
	DeleteSeller(ctx context.Context, id string) error
}

type sellerService struct {
	log        *slog.Logger
	sellerRepo storage.SellerStorage
}

func NewSellerService(log *slog.Logger, sellerRepo storage.SellerStorage) SellerService {
	return &sellerService{log: log, sellerRepo: sellerRepo}
}

func (s *sellerService) CreateSeller(ctx context.Context, name string) (*models.Seller, error) {
	const op = "service.SellerService.CreateSeller"

	seller, err := s.sellerRepo.CreateSeller(ctx, &models.Seller{Name: name})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create seller: %w", op, err)
	}
	s.log.Info("seller created", slog.String("op", op), slog.String("sellerID", seller.ID))
	return seller, nil
}

func (s *sellerService) ListSellers(ctx context.Context) ([]*models.Seller, error) {
	const op = "service.SellerService.ListSellers"

	sellers, err := s.sellerRepo.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list sellers: %w", op, err)
	}
	return sellers, nil
}

func (s *sellerService) UpdateSeller(ctx context.Context, id, name string) (*models.Seller, error) {
	const op = "service.SellerService.UpdateSeller"

	seller, err := s.sellerRepo.UpdateSeller(ctx, id, name)
	if err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return nil, NewNotFoundError("seller not found")
		}
		return nil, fmt.Errorf("%s: failed to update seller: %w", op, err)
	}
	return seller, nil
}

func (s *sellerService) DeleteSeller(ctx context.Context, id string) error {
	const op = "service.SellerService.DeleteSeller"

	if err := s.sellerRepo.DeleteSeller(ctx, id); err != nil {
		if errors.Is(err, storage.ErrSellerNotFound) {
			return NewNotFoundError("seller not found")
		}
		return fmt.Errorf("%s: failed to delete seller: %w", op, err)
	}
	return nil
}
