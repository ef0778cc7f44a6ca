package payments

import (
	"context"

	"github.com/jetharam07/payledger/internal/authz"
	"github.com/jetharam07/payledger/internal/events"
	"github.com/jetharam07/payledger/internal/ledger"
)

// DefaultRecentWindow is the number of transactions returned by Recent when
// no window is configured.
const DefaultRecentWindow = 10

// Service composes the ledger store, the access gateway and the event
// publisher. It is the only caller of the store's mutating operations:
// authorization happens here, before any state is touched.
type Service struct {
	store        ledger.Store
	gateway      authz.Gateway
	publisher    events.Publisher
	owner        string
	recentWindow int
}

// NewService builds a payment service. The owner identity is fixed for the
// lifetime of the service; recentWindow falls back to DefaultRecentWindow
// when non-positive.
func NewService(store ledger.Store, gateway authz.Gateway, publisher events.Publisher, owner string, recentWindow int) *Service {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &Service{
		store:        store,
		gateway:      gateway,
		publisher:    publisher,
		owner:        owner,
		recentWindow: recentWindow,
	}
}

// DepositInput captures the data needed to record a payment.
type DepositInput struct {
	Payer     string
	Amount    int64
	Reference string
}

// Deposit records a payment and emits a PaymentReceived event.
func (s *Service) Deposit(ctx context.Context, input DepositInput) (ledger.Transaction, error) {
	tx, err := s.store.Deposit(ctx, input.Payer, input.Amount, input.Reference)
	if err != nil {
		return ledger.Transaction{}, err
	}
	s.publish(ctx, events.PaymentReceived(tx.ID, tx.Payer, tx.Amount, tx.Reference, tx.CreatedAt))
	return tx, nil
}

// Refund returns a payment to its payer. Only the owner may call it; the
// second refund of the same id always fails with ledger.ErrAlreadySettled.
func (s *Service) Refund(ctx context.Context, requester string, id uint64) (ledger.Transaction, error) {
	if err := s.gateway.Authorize(requester, authz.OpRefund); err != nil {
		return ledger.Transaction{}, err
	}
	tx, err := s.store.Refund(ctx, id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	s.publish(ctx, events.Refunded(tx.ID, tx.Payer, tx.Amount))
	return tx, nil
}

// Withdraw sweeps the entire held balance to the owner.
func (s *Service) Withdraw(ctx context.Context, requester string) (ledger.Withdrawal, error) {
	if err := s.gateway.Authorize(requester, authz.OpWithdraw); err != nil {
		return ledger.Withdrawal{}, err
	}
	w, err := s.store.Withdraw(ctx, requester)
	if err != nil {
		return ledger.Withdrawal{}, err
	}
	s.publish(ctx, events.Withdrawn(s.owner, w.Amount, w.CreatedAt))
	return w, nil
}

// Balance returns the currently held balance.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	return s.store.Balance(ctx)
}

// Recent returns the trailing window of transactions, oldest first.
func (s *Service) Recent(ctx context.Context) ([]ledger.Transaction, error) {
	return s.store.Recent(ctx, s.recentWindow)
}

// History returns the payer's full transaction history in creation order.
func (s *Service) History(ctx context.Context, payer string) ([]ledger.Transaction, error) {
	return s.store.ByPayer(ctx, payer)
}

// Withdrawals returns the full withdrawal history.
func (s *Service) Withdrawals(ctx context.Context) ([]ledger.Withdrawal, error) {
	return s.store.Withdrawals(ctx)
}

// Owner returns the privileged identity.
func (s *Service) Owner() string {
	return s.owner
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, event)
	}
}
