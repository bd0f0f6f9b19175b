package models

import (
	"time"
)

type Book struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string `gorm:"not null"                 json:"title"`
	Author        string `gorm:"not null"                 json:"author"`
	Description   string `json:"description"`
	PriceCents    int64  `gorm:"not null"                 json:"price_cents"`
	StockQuantity uint   `gorm:"not null;default:0"       json:"stock_quantity"`
}

// User rows are written by the external auth service. This module only
// reads them to build the order confirmation payload.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"unique;not null"          json:"username"`
	Email    string `gorm:"not null"                 json:"email"`
}

type CartItem struct {
	ID       uint `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_user_book;not null"      json:"user_id"`
	BookID   uint `gorm:"uniqueIndex:idx_user_book;not null"      json:"book_id"`
	Quantity uint `gorm:"default:1;check:quantity>0"              json:"quantity"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Order struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"index;not null"           json:"user_id"`
	Status          string    `gorm:"not null"                 json:"status"`
	PaymentStatus   string    `gorm:"not null"                 json:"payment_status"`
	SubtotalCents   int64     `gorm:"not null"                 json:"subtotal_cents"`
	TaxCents        int64     `gorm:"not null"                 json:"tax_cents"`
	TotalCents      int64     `gorm:"not null"                 json:"total_cents"`
	TrackingNumber  string    `gorm:"uniqueIndex;not null"     json:"tracking_number"`
	ShippingAddress string    `gorm:"not null"                 json:"shipping_address"`
	PaymentMethod   string    `gorm:"not null"                 json:"payment_method"`
	CreatedAt       time.Time `json:"created_at"`
}

// OrderItem keeps the unit price read at order time. Catalog price
// changes must never alter a placed order.
type OrderItem struct {
	ID             uint  `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID        uint  `gorm:"index;not null"             json:"order_id"`
	BookID         uint  `gorm:"not null"                   json:"book_id"`
	Quantity       uint  `gorm:"default:1;check:quantity>0" json:"quantity"`
	UnitPriceCents int64 `gorm:"not null"                   json:"unit_price_cents"`
	LineTotalCents int64 `gorm:"not null"                   json:"line_total_cents"`
}

type TransactionLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Action    string    `gorm:"not null"                 json:"action"`
	Details   string    `json:"details"`
	Status    string    `gorm:"not null"                 json:"status"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
