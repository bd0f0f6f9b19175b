package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nstrelkov/bookshop/internal/models"
)

var ErrBookNotFound = errors.New("book not found")

// InsufficientStockError names the first book whose stock could not
// cover the requested quantity.
type InsufficientStockError struct {
	BookID    uint
	Requested uint
	Available uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %d: requested %d, available %d", e.BookID, e.Requested, e.Available)
}

type ReserveItem struct {
	BookID   uint
	Quantity uint
}

// ReserveAndDecrement locks the stock rows for every item, verifies
// sufficiency under the locks, and decrements them. It must be called on
// a repo bound to an open transaction (see Transact); on any error the
// caller's rollback leaves every row untouched.
//
// Rows are locked in ascending book id so two checkouts with overlapping
// carts cannot deadlock.
func (r *GormRepo) ReserveAndDecrement(ctx context.Context, items []ReserveItem) error {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]ReserveItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BookID < sorted[j].BookID })

	ids := make([]uint, 0, len(sorted))
	for _, it := range sorted {
		ids = append(ids, it.BookID)
	}

	var books []models.Book
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&books).Error; err != nil {
		return err
	}

	stock := make(map[uint]uint, len(books))
	for _, b := range books {
		stock[b.ID] = b.StockQuantity
	}

	// Verify the whole list before touching anything.
	for _, it := range sorted {
		available, ok := stock[it.BookID]
		if !ok {
			return fmt.Errorf("book %d: %w", it.BookID, ErrBookNotFound)
		}
		if available < it.Quantity {
			return &InsufficientStockError{BookID: it.BookID, Requested: it.Quantity, Available: available}
		}
	}

	for _, it := range sorted {
		res := r.DB.WithContext(ctx).Model(&models.Book{}).
			Where("id = ?", it.BookID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", it.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("book %d: %w", it.BookID, ErrBookNotFound)
		}
	}
	return nil
}

func (r *GormRepo) GetBook(ctx context.Context, bookID uint) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).First(&book, bookID).Error; err != nil {
		return nil, err
	}
	return &book, nil
}
