package repo

import (
	"context"

	"github.com/nstrelkov/bookshop/internal/models"
)

// CreateOrder inserts the order header and its lines. Meant to run on a
// transaction-bound repo so the header and lines land atomically.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, nil, err
	}

	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

func (r *GormRepo) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
