package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type ConfirmationLine struct {
	Title          string `json:"title"`
	Quantity       uint   `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderConfirmation is the one-shot payload handed to the external
// mailer after an order commits.
type OrderConfirmation struct {
	OrderID        uint               `json:"order_id"`
	UserID         uint               `json:"user_id"`
	UserEmail      string             `json:"user_email"`
	UserName       string             `json:"user_name"`
	TrackingNumber string             `json:"tracking_number"`
	Items          []ConfirmationLine `json:"items"`
	SubtotalCents  int64              `json:"subtotal_cents"`
	TaxCents       int64              `json:"tax_cents"`
	TotalCents     int64              `json:"total_cents"`
}

type Notifier interface {
	OrderPlaced(ctx context.Context, confirmation OrderConfirmation) error
}

// Nop discards confirmations; used when no broker is configured.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, OrderConfirmation) error { return nil }

const orderTopic = "order_events"

type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(address []string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(address...),
			Topic:                  orderTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (n *KafkaNotifier) OrderPlaced(ctx context.Context, confirmation OrderConfirmation) error {
	event := struct {
		Type string `json:"type"`
		OrderConfirmation
	}{Type: "order_placed", OrderConfirmation: confirmation}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Keyed by user so all of a customer's confirmations land on one
	// partition and stay ordered.
	if err := n.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(fmt.Sprint(confirmation.UserID)),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
