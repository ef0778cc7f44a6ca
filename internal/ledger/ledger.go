package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidAmount occurs when a deposit carries a zero or negative amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotFound indicates no transaction exists for the requested identifier.
	ErrNotFound = errors.New("transaction not found")

	// ErrAlreadySettled indicates the transaction already left the Paid state,
	// so refunding it again would pay out twice.
	ErrAlreadySettled = errors.New("transaction already settled")

	// ErrNothingToWithdraw indicates the held balance is zero.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
)

// Status is the settlement state of a transaction.
type Status int

const (
	// StatusPaid marks a deposit whose funds the ledger still holds.
	StatusPaid Status = iota
	// StatusRefunded marks a deposit returned to its payer. Terminal.
	StatusRefunded
)

// String renders the status for storage and API payloads.
func (s Status) String() string {
	switch s {
	case StatusPaid:
		return "paid"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored status string back to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "paid":
		return StatusPaid, nil
	case "refunded":
		return StatusRefunded, nil
	default:
		return 0, errors.New("unknown status: " + s)
	}
}

// Transaction is one recorded deposit. Ids are 1-based, strictly increasing
// and never reused.
type Transaction struct {
	ID        uint64
	Payer     string
	Amount    int64
	Reference string
	Status    Status
	CreatedAt time.Time
}

// Withdrawal records one full sweep of the held balance to the owner.
type Withdrawal struct {
	ID          uint64
	Amount      int64
	RequestedBy string
	CreatedAt   time.Time
}

// Store defines the contract implemented by ledger backends (e.g. Postgres).
// Authorization is the caller's concern; methods here only mutate or read
// state. Every mutation is all-or-nothing: a failed call leaves the ledger
// unchanged.
type Store interface {
	// Deposit records a payment, assigns the next id and credits the held
	// balance. Fails with ErrInvalidAmount when amount <= 0.
	Deposit(ctx context.Context, payer string, amount int64, reference string) (Transaction, error)

	// Refund flips a Paid transaction to Refunded and debits the held
	// balance by its amount. Fails with ErrNotFound or ErrAlreadySettled;
	// a second call on the same id always gets ErrAlreadySettled.
	Refund(ctx context.Context, id uint64) (Transaction, error)

	// Withdraw sweeps the entire held balance into a withdrawal record.
	// Fails with ErrNothingToWithdraw when the balance is zero. Individual
	// transactions are untouched.
	Withdraw(ctx context.Context, requestedBy string) (Withdrawal, error)

	// Balance returns the currently held balance.
	Balance(ctx context.Context) (int64, error)

	// Count returns the number of transactions ever created.
	Count(ctx context.Context) (uint64, error)

	// Recent returns the last limit transactions by id, oldest first
	// within the window.
	Recent(ctx context.Context, limit int) ([]Transaction, error)

	// ByPayer returns every transaction created by payer, in creation order.
	ByPayer(ctx context.Context, payer string) ([]Transaction, error)

	// Withdrawals returns every withdrawal ever made, in creation order.
	Withdrawals(ctx context.Context) ([]Withdrawal, error)
}
