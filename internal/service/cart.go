package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/internal/repo"
)

type CartService struct {
	Repo      *repo.GormRepo
	TaxRateBP int64
}

// CartView is the read-only projection served to the storefront: the
// joined lines plus display totals. Checkout does not trust these
// numbers; it recomputes everything under its own transaction.
type CartView struct {
	Lines         []repo.CartLine `json:"lines"`
	SubtotalCents int64           `json:"subtotal_cents"`
	TaxCents      int64           `json:"tax_cents"`
	TotalCents    int64           `json:"total_cents"`
}

// AddItem inserts or increments the cart line after checking the
// cumulative quantity against the current stock snapshot. The check is
// advisory; the authoritative one happens under lock at checkout.
func (s *CartService) AddItem(ctx context.Context, userID, bookID, quantity uint) (*models.CartItem, error) {
	if bookID == 0 {
		return nil, fmt.Errorf("%w: book_id required", ErrValidation)
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	book, err := s.Repo.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
		}
		return nil, err
	}

	var existing uint
	if item, err := s.Repo.GetCartItem(ctx, userID, bookID); err == nil {
		existing = item.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Compared without summing so a huge requested quantity cannot wrap
	// the cumulative total below the stock gate.
	if quantity > book.StockQuantity || existing > book.StockQuantity-quantity {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrOutOfStock)
	}
	requested := existing + quantity

	item, err := s.Repo.SetCartItem(ctx, userID, bookID, requested)
	if err != nil {
		return nil, err
	}
	s.Repo.LogTransaction(ctx, userID, "cart_add", fmt.Sprintf("Added book %d to cart", bookID), "success", ClientIP(ctx))
	return item, nil
}

// UpdateQuantity replaces the stored quantity. Zero means removal and
// reports deleted=true.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, bookID, quantity uint) (*models.CartItem, bool, error) {
	if bookID == 0 {
		return nil, false, fmt.Errorf("%w: book_id required", ErrValidation)
	}
	if quantity == 0 {
		if err := s.RemoveItem(ctx, userID, bookID); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	book, err := s.Repo.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
		}
		return nil, false, err
	}
	if quantity > book.StockQuantity {
		return nil, false, fmt.Errorf("book %d: %w", bookID, ErrOutOfStock)
	}

	item, err := s.Repo.SetCartItem(ctx, userID, bookID, quantity)
	if err != nil {
		return nil, false, err
	}
	s.Repo.LogTransaction(ctx, userID, "cart_update", fmt.Sprintf("Set book %d quantity to %d", bookID, quantity), "success", ClientIP(ctx))
	return item, false, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, bookID uint) error {
	if bookID == 0 {
		return fmt.Errorf("%w: book_id required", ErrValidation)
	}
	if err := s.Repo.DeleteCartItem(ctx, userID, bookID); err != nil {
		return err
	}
	s.Repo.LogTransaction(ctx, userID, "cart_remove", fmt.Sprintf("Removed book %d from cart", bookID), "success", ClientIP(ctx))
	return nil
}

func (s *CartService) Snapshot(ctx context.Context, userID uint) (*CartView, error) {
	lines, err := s.Repo.CartSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	subtotal, tax, total := computeTotals(lines, s.TaxRateBP)
	return &CartView{
		Lines:         lines,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
	}, nil
}
