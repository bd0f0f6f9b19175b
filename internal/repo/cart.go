package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
)

// CartLine is one cart row joined with the current catalog data.
type CartLine struct {
	LineID         uint   `json:"line_id"`
	BookID         uint   `json:"book_id"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       uint   `json:"quantity"`
	StockQuantity  uint   `json:"stock_quantity"`
}

func (r *GormRepo) GetCartItem(ctx context.Context, userID, bookID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCartItem stores the absolute quantity for (user, book), creating
// the line when it does not exist yet.
func (r *GormRepo) SetCartItem(ctx context.Context, userID, bookID, quantity uint) (*models.CartItem, error) {
	item := &models.CartItem{UserID: userID, BookID: bookID, Quantity: quantity}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(item).Error
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteCartItem is idempotent: deleting an absent line is not an error.
func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, bookID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// CartSnapshot joins the user's cart with the books table. Ordered by
// line id so the projection is stable across reads.
func (r *GormRepo) CartSnapshot(ctx context.Context, userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS line_id, cart_items.book_id, books.title, books.author, books.price_cents AS unit_price_cents, cart_items.quantity, books.stock_quantity").
		Joins("JOIN books ON books.id = cart_items.book_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
