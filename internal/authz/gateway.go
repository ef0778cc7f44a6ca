package authz

import "errors"

// ErrUnauthorized indicates the requester is not permitted to perform the
// operation.
var ErrUnauthorized = errors.New("unauthorized")

// Operation names an elevated ledger operation.
type Operation string

const (
	// OpRefund returns a payment to its payer.
	OpRefund Operation = "refund"
	// OpWithdraw sweeps the held balance to the owner.
	OpWithdraw Operation = "withdraw"
)

// Gateway decides whether a requester may perform an operation. It is kept
// separate from storage so the policy can be swapped and tested on its own.
type Gateway interface {
	Authorize(requester string, op Operation) error
}

// OwnerGateway permits an operation iff the requester is the single owner
// identity fixed at construction. No roles, no delegation.
type OwnerGateway struct {
	owner string
}

// NewOwnerGateway builds a gateway bound to the given owner identity.
func NewOwnerGateway(owner string) *OwnerGateway {
	return &OwnerGateway{owner: owner}
}

// Authorize allows the call only when requester matches the owner.
func (g *OwnerGateway) Authorize(requester string, _ Operation) error {
	if requester == "" || requester != g.owner {
		return ErrUnauthorized
	}
	return nil
}

// Owner returns the owner identity the gateway enforces.
func (g *OwnerGateway) Owner() string {
	return g.owner
}
