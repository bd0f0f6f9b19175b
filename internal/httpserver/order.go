package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nstrelkov/bookshop/internal/service"
	"github.com/nstrelkov/bookshop/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.Svc.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		return writeServiceError(c, l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := GetUserID(c)
	if err != nil {
		l.Error("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		l.Warn("get_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	placed, err := h.Svc.GetOrder(ctx, userID, uint(orderID))
	if err != nil {
		return writeServiceError(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, placed)
}
