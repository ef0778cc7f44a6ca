package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/jetharam07/payledger/internal/authz"
	"github.com/jetharam07/payledger/internal/events"
	"github.com/jetharam07/payledger/internal/ledger"
)

type capturedEvents struct {
	all []events.Event
}

func (c *capturedEvents) Publish(_ context.Context, event events.Event) error {
	c.all = append(c.all, event)
	return nil
}

func (c *capturedEvents) last() events.Event {
	if len(c.all) == 0 {
		return events.Event{}
	}
	return c.all[len(c.all)-1]
}

func newTestService(recorder *capturedEvents) *Service {
	store := ledger.NewInMemory()
	gateway := authz.NewOwnerGateway("0xowner")
	return NewService(store, gateway, recorder, "0xowner", DefaultRecentWindow)
}

func TestDepositEmitsPaymentReceived(t *testing.T) {
	recorder := &capturedEvents{}
	svc := newTestService(recorder)
	ctx := context.Background()

	tx, err := svc.Deposit(ctx, DepositInput{Payer: "alice", Amount: 100, Reference: "order-1"})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if tx.ID != 1 {
		t.Fatalf("expected id 1, got %d", tx.ID)
	}

	event := recorder.last()
	if event.Kind != events.KindPaymentReceived {
		t.Fatalf("expected payment_received event, got %q", event.Kind)
	}
	if event.TxID != 1 || event.Account != "alice" || event.Amount != 100 || event.Reference != "order-1" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
}

func TestDepositInvalidAmountEmitsNothing(t *testing.T) {
	recorder := &capturedEvents{}
	svc := newTestService(recorder)

	if _, err := svc.Deposit(context.Background(), DepositInput{Payer: "alice", Amount: 0}); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(recorder.all) != 0 {
		t.Fatalf("failed deposit emitted events: %+v", recorder.all)
	}
}

func TestRefundRequiresOwner(t *testing.T) {
	recorder := &capturedEvents{}
	svc := newTestService(recorder)
	ctx := context.Background()

	tx, _ := svc.Deposit(ctx, DepositInput{Payer: "alice", Amount: 100, Reference: "order-1"})

	if _, err := svc.Refund(ctx, "0xintruder", tx.ID); !errors.Is(err, authz.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Denied call left the record and balance untouched.
	if balance, _ := svc.Balance(ctx); balance != 100 {
		t.Fatalf("denied refund changed balance: %d", balance)
	}

	refunded, err := svc.Refund(ctx, "0xowner", tx.ID)
	if err != nil {
		t.Fatalf("owner refund failed: %v", err)
	}
	if refunded.Status != ledger.StatusRefunded {
		t.Fatalf("expected refunded status, got %s", refunded.Status)
	}
	if event := recorder.last(); event.Kind != events.KindRefunded || event.Account != "alice" {
		t.Fatalf("unexpected refund event: %+v", event)
	}
}

func TestWithdrawRequiresOwner(t *testing.T) {
	recorder := &capturedEvents{}
	svc := newTestService(recorder)
	ctx := context.Background()

	svc.Deposit(ctx, DepositInput{Payer: "bob", Amount: 50, Reference: "order-2"})

	if _, err := svc.Withdraw(ctx, "0xintruder"); !errors.Is(err, authz.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if balance, _ := svc.Balance(ctx); balance != 50 {
		t.Fatalf("denied withdraw changed balance: %d", balance)
	}

	w, err := svc.Withdraw(ctx, "0xowner")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if w.Amount != 50 {
		t.Fatalf("expected sweep of 50, got %d", w.Amount)
	}

	event := recorder.last()
	if event.Kind != events.KindWithdrawn || event.Account != "0xowner" || event.Amount != 50 {
		t.Fatalf("unexpected withdrawn event: %+v", event)
	}

	if _, err := svc.Withdraw(ctx, "0xowner"); !errors.Is(err, ledger.ErrNothingToWithdraw) {
		t.Fatalf("expected ErrNothingToWithdraw, got %v", err)
	}
}

func TestEndToEndSettlementScenario(t *testing.T) {
	recorder := &capturedEvents{}
	svc := newTestService(recorder)
	ctx := context.Background()

	tx1, err := svc.Deposit(ctx, DepositInput{Payer: "alice", Amount: 100, Reference: "order-1"})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if balance, _ := svc.Balance(ctx); balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}

	if _, err := svc.Refund(ctx, "0xowner", tx1.ID); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if balance, _ := svc.Balance(ctx); balance != 0 {
		t.Fatalf("expected balance 0, got %d", balance)
	}

	if _, err := svc.Deposit(ctx, DepositInput{Payer: "bob", Amount: 50}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	w, err := svc.Withdraw(ctx, "0xowner")
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if w.Amount != 50 {
		t.Fatalf("expected sweep of 50, got %d", w.Amount)
	}

	if _, err := svc.Refund(ctx, "0xowner", tx1.ID); !errors.Is(err, ledger.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}

	kinds := make([]string, 0, len(recorder.all))
	for _, e := range recorder.all {
		kinds = append(kinds, e.Kind)
	}
	want := []string{
		events.KindPaymentReceived,
		events.KindRefunded,
		events.KindPaymentReceived,
		events.KindWithdrawn,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestServiceWorksWithoutPublisher(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store, authz.NewOwnerGateway("0xowner"), nil, "0xowner", 0)

	if _, err := svc.Deposit(context.Background(), DepositInput{Payer: "alice", Amount: 10}); err != nil {
		t.Fatalf("deposit without publisher failed: %v", err)
	}
}
