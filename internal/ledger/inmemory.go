package ledger

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu           sync.RWMutex
	transactions map[uint64]Transaction
	byPayer      map[string][]uint64
	withdrawals  []Withdrawal
	count        uint64
	balance      int64
}

// NewInMemory creates a concurrency-safe in-memory store used in development
// mode and unit tests. All mutations run under one lock so check-then-act
// sequences never race; reads return copies.
func NewInMemory() Store {
	return &memoryStore{
		transactions: make(map[uint64]Transaction),
		byPayer:      make(map[string][]uint64),
	}
}

func (s *memoryStore) Deposit(_ context.Context, payer string, amount int64, reference string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	tx := Transaction{
		ID:        s.count,
		Payer:     payer,
		Amount:    amount,
		Reference: reference,
		Status:    StatusPaid,
		CreatedAt: time.Now().UTC(),
	}

	s.transactions[tx.ID] = tx
	s.byPayer[payer] = append(s.byPayer[payer], tx.ID)
	s.balance += amount

	return tx, nil
}

func (s *memoryStore) Refund(_ context.Context, id uint64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	if tx.Status != StatusPaid {
		return Transaction{}, ErrAlreadySettled
	}

	tx.Status = StatusRefunded
	s.transactions[id] = tx
	s.balance -= tx.Amount

	return tx, nil
}

func (s *memoryStore) Withdraw(_ context.Context, requestedBy string) (Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balance == 0 {
		return Withdrawal{}, ErrNothingToWithdraw
	}

	w := Withdrawal{
		ID:          uint64(len(s.withdrawals) + 1),
		Amount:      s.balance,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	s.withdrawals = append(s.withdrawals, w)
	s.balance = 0

	return w, nil
}

func (s *memoryStore) Balance(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, nil
}

func (s *memoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

func (s *memoryStore) Recent(_ context.Context, limit int) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	first := uint64(1)
	if s.count > uint64(limit) {
		first = s.count - uint64(limit) + 1
	}

	out := make([]Transaction, 0, s.count-first+1)
	for id := first; id <= s.count; id++ {
		out = append(out, s.transactions[id])
	}
	return out, nil
}

func (s *memoryStore) ByPayer(_ context.Context, payer string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPayer[payer]
	out := make([]Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.transactions[id])
	}
	return out, nil
}

func (s *memoryStore) Withdrawals(_ context.Context) ([]Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Withdrawal, len(s.withdrawals))
	copy(out, s.withdrawals)
	return out, nil
}
