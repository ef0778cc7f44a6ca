package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// KindPaymentReceived is emitted after a successful deposit.
	KindPaymentReceived = "payment_received"
	// KindRefunded is emitted after a payment is returned to its payer.
	KindRefunded = "refunded"
	// KindWithdrawn is emitted after the held balance is swept to the owner.
	KindWithdrawn = "withdrawn"
)

// Event is one ledger notification. Events are fire-and-forget: the ledger
// never depends on whether anyone is listening.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	TxID      uint64    `json:"tx_id,omitempty"`
	Account   string    `json:"account"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference,omitempty"`
	At        time.Time `json:"at"`
}

// PaymentReceived builds the event for a new deposit.
func PaymentReceived(txID uint64, payer string, amount int64, reference string, createdAt time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      KindPaymentReceived,
		TxID:      txID,
		Account:   payer,
		Amount:    amount,
		Reference: reference,
		At:        createdAt,
	}
}

// Refunded builds the event for a settled refund.
func Refunded(txID uint64, payer string, amount int64) Event {
	return Event{
		ID:      uuid.NewString(),
		Kind:    KindRefunded,
		TxID:    txID,
		Account: payer,
		Amount:  amount,
		At:      time.Now().UTC(),
	}
}

// Withdrawn builds the event for a balance sweep.
func Withdrawn(owner string, amount int64, at time.Time) Event {
	return Event{
		ID:      uuid.NewString(),
		Kind:    KindWithdrawn,
		Account: owner,
		Amount:  amount,
		At:      at,
	}
}

// Publisher delivers ledger events to downstream systems.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout publishes each event to every wrapped publisher, returning the
// first error after all have been attempted.
type Fanout []Publisher

// Publish delivers the event to all members.
func (f Fanout) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
