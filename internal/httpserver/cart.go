package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nstrelkov/bookshop/internal/repo"
	"github.com/nstrelkov/bookshop/internal/service"
	"github.com/nstrelkov/bookshop/internal/transport"
	"github.com/nstrelkov/bookshop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.Snapshot(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("add_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(ctx, userID, req.BookID, req.Quantity)
	if err != nil {
		return writeServiceError(c, l, "add_item_error", err)
	}

	l.Info("cart_item_added", "book_id", req.BookID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("update_quantity_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, deleted, err := h.Svc.UpdateQuantity(ctx, userID, req.BookID, req.Quantity)
	if err != nil {
		return writeServiceError(c, l, "update_quantity_error", err)
	}
	if deleted {
		return c.JSON(http.StatusOK, transport.RemoveItemResponse{BookID: req.BookID, Deleted: true})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("remove_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	bookID, err := strconv.Atoi(c.Param("book_id"))
	if err != nil || bookID <= 0 {
		l.Warn("remove_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := h.Svc.RemoveItem(ctx, userID, uint(bookID)); err != nil {
		return writeServiceError(c, l, "remove_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.RemoveItemResponse{BookID: uint(bookID), Deleted: true})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Used by every handler so the mapping stays in one place.
func writeServiceError(c echo.Context, l *slog.Logger, event string, err error) error {
	var stockErr *repo.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmptyCart):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPayment):
		l.Warn(event, "status", 402, "error", err)
		return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repo.ErrBookNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOutOfStock):
		l.Warn(event, "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &stockErr):
		l.Warn(event, "status", 409, "book_id", stockErr.BookID, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
