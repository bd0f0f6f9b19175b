package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/internal/notify"
	"github.com/nstrelkov/bookshop/internal/payment"
	"github.com/nstrelkov/bookshop/internal/repo"
)

type fakeNotifier struct {
	mu            sync.Mutex
	err           error
	confirmations []notify.OrderConfirmation
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, c notify.OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, c)
	return n.err
}

func (n *fakeNotifier) sent() []notify.OrderConfirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.OrderConfirmation(nil), n.confirmations...)
}

type declineGateway struct{}

func (declineGateway) Authorize(context.Context, uint, int64, string) error {
	return errors.New("card declined")
}

func newCheckoutService(db *gorm.DB, n notify.Notifier, g payment.Gateway) *CheckoutService {
	return &CheckoutService{
		Repo:      &repo.GormRepo{DB: db},
		Gateway:   g,
		Notifier:  n,
		TaxRateBP: 800,
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := initTestDB(t)
	svc := newCheckoutService(db, &fakeNotifier{}, payment.StubGateway{})
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, 1, "", "credit_card")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(ctx, 1, "12 Main St", "bitcoin")
	require.ErrorIs(t, err, ErrValidation)

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db := initTestDB(t)
	notifier := &fakeNotifier{}
	svc := newCheckoutService(db, notifier, payment.StubGateway{})

	_, err := svc.PlaceOrder(context.Background(), 1, "12 Main St", "credit_card")
	require.ErrorIs(t, err, ErrEmptyCart)

	var orders, items int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(0), items)
	assert.Empty(t, notifier.sent())
}

func TestPlaceOrder_PaymentDeclinedAborts(t *testing.T) {
	db := initTestDB(t)
	notifier := &fakeNotifier{}
	svc := newCheckoutService(db, notifier, declineGateway{})
	ctx := context.Background()

	db.Create(&models.Book{Title: "Dune", Author: "Herbert", PriceCents: 1000, StockQuantity: 5})
	db.Create(&models.CartItem{UserID: 1, BookID: 1, Quantity: 2})

	_, err := svc.PlaceOrder(ctx, 1, "12 Main St", "credit_card")
	require.ErrorIs(t, err, ErrPayment)

	// Nothing moved: stock intact, cart intact, no order rows.
	var book models.Book
	require.NoError(t, db.First(&book, 1).Error)
	assert.Equal(t, uint(5), book.StockQuantity)

	var carts, orders int64
	db.Model(&models.CartItem{}).Count(&carts)
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(1), carts)
	assert.Equal(t, int64(0), orders)
	assert.Empty(t, notifier.sent())
}

func TestClassifyCheckoutErr(t *testing.T) {
	t.Parallel()

	stockErr := &repo.InsufficientStockError{BookID: 7, Requested: 2, Available: 1}
	assert.Equal(t, error(stockErr), classifyCheckoutErr(stockErr))
	assert.ErrorIs(t, classifyCheckoutErr(ErrEmptyCart), ErrEmptyCart)

	wrapped := classifyCheckoutErr(errors.New("connection reset"))
	assert.ErrorIs(t, wrapped, ErrPersistence)
}
