package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/internal/notify"
	"github.com/nstrelkov/bookshop/internal/payment"
	"github.com/nstrelkov/bookshop/internal/repo"
	"github.com/nstrelkov/bookshop/pkg/logging"
)

var paymentMethods = map[string]struct{}{
	"credit_card":      {},
	"debit_card":       {},
	"paypal":           {},
	"cash_on_delivery": {},
}

type CheckoutService struct {
	Repo      *repo.GormRepo
	Gateway   payment.Gateway
	Notifier  notify.Notifier
	TaxRateBP int64
}

type PlacedOrder struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// PlaceOrder turns the user's cart into a durable order as one atomic
// unit: verify and decrement stock under row locks, write the order
// header and lines with prices read inside the transaction, clear the
// cart, commit. Any failure rolls the whole step back; stock, cart and
// orders are left exactly as before. The confirmation notification runs
// after commit and is fire-and-forget.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint, shippingAddress, paymentMethod string) (*PlacedOrder, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}
	if _, ok := paymentMethods[paymentMethod]; !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}

	var (
		order models.Order
		items []models.OrderItem
		lines []repo.CartLine
	)

	err := s.Repo.Transact(ctx, func(tx *repo.GormRepo) error {
		var err error
		lines, err = tx.CartSnapshot(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		subtotal, tax, total := computeTotals(lines, s.TaxRateBP)

		if err := s.Gateway.Authorize(ctx, userID, total, paymentMethod); err != nil {
			return fmt.Errorf("%w: %v", ErrPayment, err)
		}

		reserve := make([]repo.ReserveItem, 0, len(lines))
		for _, l := range lines {
			reserve = append(reserve, repo.ReserveItem{BookID: l.BookID, Quantity: l.Quantity})
		}
		if err := tx.ReserveAndDecrement(ctx, reserve); err != nil {
			return err
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			SubtotalCents:   subtotal,
			TaxCents:        tax,
			TotalCents:      total,
			TrackingNumber:  newTrackingNumber(),
			ShippingAddress: shippingAddress,
			PaymentMethod:   paymentMethod,
		}

		items = make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				BookID:         l.BookID,
				Quantity:       l.Quantity,
				UnitPriceCents: l.UnitPriceCents,
				LineTotalCents: int64(l.Quantity) * l.UnitPriceCents,
			})
		}
		if err := tx.CreateOrder(ctx, &order, items); err != nil {
			return err
		}

		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		err = classifyCheckoutErr(err)
		s.Repo.LogTransaction(ctx, userID, "order_failed", err.Error(), "failed", ClientIP(ctx))
		return nil, err
	}

	s.Repo.LogTransaction(ctx, userID, "order_placed",
		fmt.Sprintf("Order #%d placed - total %d cents", order.ID, order.TotalCents), "success", ClientIP(ctx))
	s.notifyPlaced(ctx, userID, &order, lines)

	return &PlacedOrder{Order: &order, Items: items}, nil
}

// classifyCheckoutErr keeps the domain failures verbatim and folds
// everything else into ErrPersistence.
func classifyCheckoutErr(err error) error {
	var stockErr *repo.InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrPayment),
		errors.Is(err, repo.ErrBookNotFound),
		errors.As(err, &stockErr):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}

// notifyPlaced sends the confirmation payload. At most one attempt;
// failure is logged and never surfaced to the caller.
func (s *CheckoutService) notifyPlaced(ctx context.Context, userID uint, order *models.Order, lines []repo.CartLine) {
	l := logging.FromContext(ctx)

	confirmation := notify.OrderConfirmation{
		OrderID:        order.ID,
		UserID:         userID,
		TrackingNumber: order.TrackingNumber,
		SubtotalCents:  order.SubtotalCents,
		TaxCents:       order.TaxCents,
		TotalCents:     order.TotalCents,
	}
	if user, err := s.Repo.GetUser(ctx, userID); err == nil {
		confirmation.UserEmail = user.Email
		confirmation.UserName = user.Username
	} else {
		l.Warn("order confirmation without user record", "order_id", order.ID, "user_id", userID, "error", err)
	}
	for _, line := range lines {
		confirmation.Items = append(confirmation.Items, notify.ConfirmationLine{
			Title:          line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	if err := s.Notifier.OrderPlaced(ctx, confirmation); err != nil {
		l.Error("order confirmation notify failed", "order_id", order.ID, "error", err)
	}
}

// newTrackingNumber builds an opaque customer-facing id: millisecond
// timestamp plus a random suffix, collision odds negligible.
func newTrackingNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("TRK%d%s", time.Now().UTC().UnixMilli(), suffix)
}
