package authz

import (
	"errors"
	"testing"
)

func TestOwnerGatewayAllowsOwner(t *testing.T) {
	g := NewOwnerGateway("0xowner")

	for _, op := range []Operation{OpRefund, OpWithdraw} {
		if err := g.Authorize("0xowner", op); err != nil {
			t.Fatalf("owner denied %s: %v", op, err)
		}
	}
}

func TestOwnerGatewayDeniesOthers(t *testing.T) {
	g := NewOwnerGateway("0xowner")

	for _, requester := range []string{"", "0xother", "0xOWNER"} {
		if err := g.Authorize(requester, OpWithdraw); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("requester %q: expected ErrUnauthorized, got %v", requester, err)
		}
	}
}
