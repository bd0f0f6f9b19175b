package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/nstrelkov/bookshop/internal/service"
)

type Deps struct {
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	OrderHandler    *OrderHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", clientIP)

	cart := v1.Group("/cart", RequireUser(d.JWTSecret))
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:book_id", d.CartHandler.RemoveItem)

	v1.POST("/checkout", d.CheckoutHandler.PlaceOrder, RequireUser(d.JWTSecret))

	orders := v1.Group("/orders", RequireUser(d.JWTSecret))
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
}

// clientIP makes the caller's address reachable from the services for
// the audit trail.
func clientIP(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := service.WithClientIP(c.Request().Context(), c.RealIP())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
