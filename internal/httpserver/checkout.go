package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nstrelkov/bookshop/internal/service"
	"github.com/nstrelkov/bookshop/internal/transport"
	"github.com/nstrelkov/bookshop/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.place_order")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("place_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	placed, err := h.Svc.PlaceOrder(ctx, userID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return writeServiceError(c, l, "place_order_error", err)
	}

	l.Info("order_placed", "order_id", placed.Order.ID, "total_cents", placed.Order.TotalCents)
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{
		OrderID:        placed.Order.ID,
		TrackingNumber: placed.Order.TrackingNumber,
		SubtotalCents:  placed.Order.SubtotalCents,
		TaxCents:       placed.Order.TaxCents,
		TotalCents:     placed.Order.TotalCents,
		Status:         placed.Order.Status,
		PaymentStatus:  placed.Order.PaymentStatus,
	})
}
