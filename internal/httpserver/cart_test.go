package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nstrelkov/bookshop/internal/models"
	"github.com/nstrelkov/bookshop/internal/notify"
	"github.com/nstrelkov/bookshop/internal/payment"
	"github.com/nstrelkov/bookshop/internal/repo"
	"github.com/nstrelkov/bookshop/internal/service"
)

type testEnv struct {
	E        *echo.Echo
	DB       *gorm.DB
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Orders   *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Book{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.TransactionLog{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	return &testEnv{
		E:  echo.New(),
		DB: db,
		Cart: &CartHTTP{
			Svc: &service.CartService{Repo: gormRepo, TaxRateBP: 800},
		},
		Checkout: &CheckoutHTTP{
			Svc: &service.CheckoutService{
				Repo:      gormRepo,
				Gateway:   payment.StubGateway{},
				Notifier:  notify.Nop{},
				TaxRateBP: 800,
			},
		},
		Orders: &OrderHTTP{
			Svc: &service.OrderService{Repo: gormRepo},
		},
	}
}

func (env *testEnv) doJSON(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("user_id", "1")
	return rec, c
}

func TestCartHTTP_AddAndGet(t *testing.T) {
	env := newTestEnv(t)
	env.DB.Create(&models.Book{Title: "Dune", Author: "Herbert", PriceCents: 1000, StockQuantity: 5})

	rec, c := env.doJSON(http.MethodPost, "/api/v1/cart", map[string]uint{"book_id": 1, "quantity": 2})
	require.NoError(t, env.Cart.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, uint(1), item.UserID)
	assert.Equal(t, uint(2), item.Quantity)

	rec, c = env.doJSON(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2000), view.SubtotalCents)
	assert.Equal(t, int64(160), view.TaxCents)
	assert.Equal(t, int64(2160), view.TotalCents)
}

func TestCartHTTP_AddItemOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	env.DB.Create(&models.Book{Title: "Dune", Author: "Herbert", PriceCents: 1000, StockQuantity: 1})

	_, c := env.doJSON(http.MethodPost, "/api/v1/cart", map[string]uint{"book_id": 1, "quantity": 2})
	err := env.Cart.AddItem(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCartHTTP_RemoveItemIdempotent(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		rec, c := env.doJSON(http.MethodDelete, "/api/v1/cart/7", nil)
		c.SetParamNames("book_id")
		c.SetParamValues("7")
		require.NoError(t, env.Cart.RemoveItem(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCartHTTP_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	err := env.Cart.GetCart(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestCheckoutHTTP_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/api/v1/checkout", map[string]string{
		"shipping_address": "12 Main St",
		"payment_method":   "credit_card",
	})
	err := env.Checkout.PlaceOrder(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCheckoutHTTP_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodPost, "/api/v1/checkout", map[string]string{
		"shipping_address": "",
		"payment_method":   "credit_card",
	})
	err := env.Checkout.PlaceOrder(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestOrderHTTP_GetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSON(http.MethodGet, "/api/v1/orders/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	err := env.Orders.GetOrder(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
