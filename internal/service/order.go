package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/internal/repo"
)

// OrderService serves the order-history read side. The pipeline only
// writes orders; these reads exist for the confirmation and history
// pages.
type OrderService struct {
	Repo *repo.GormRepo
}

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

func (s *OrderService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = defaultOrderPageSize
	}
	if limit > maxOrderPageSize {
		limit = maxOrderPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*PlacedOrder, error) {
	order, items, err := s.Repo.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return &PlacedOrder{Order: order, Items: items}, nil
}
