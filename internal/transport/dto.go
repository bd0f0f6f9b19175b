package transport

type AddItemRequest struct {
	BookID   uint `json:"book_id"`
	Quantity uint `json:"quantity"`
}

type UpdateQuantityRequest struct {
	BookID   uint `json:"book_id"`
	Quantity uint `json:"quantity"`
}

type RemoveItemResponse struct {
	BookID  uint `json:"book_id"`
	Deleted bool `json:"deleted"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID        uint   `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	TaxCents       int64  `json:"tax_cents"`
	TotalCents     int64  `json:"total_cents"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
}
