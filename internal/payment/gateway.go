package payment

import "context"

// Gateway authorizes a charge synchronously. The checkout transaction
// aborts when Authorize returns an error.
type Gateway interface {
	Authorize(ctx context.Context, userID uint, amountCents int64, method string) error
}

// StubGateway stands in for a real payment provider and always
// authorizes. Swapping in a production adapter only touches the wiring
// in cmd/server.
type StubGateway struct{}

func (StubGateway) Authorize(ctx context.Context, userID uint, amountCents int64, method string) error {
	return nil
}
