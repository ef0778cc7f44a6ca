package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jetharam07/payledger/internal/payments"
)

// RegisterPaymentRoutes wires the ledger endpoints. Deposits carry the
// per-payer rate limiter; reads are unrestricted.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, depositLimit fiber.Handler) {
	r.Post("/payments/deposit", depositLimit, h.Deposit)
	r.Post("/payments/:id/refund", h.Refund)
	r.Post("/payments/withdraw", h.Withdraw)
	r.Get("/payments/balance", h.Balance)
	r.Get("/payments/recent", h.Recent)
	r.Get("/payments/payer/:payer", h.History)
	r.Get("/payments/withdrawals", h.Withdrawals)
	r.Get("/owner", h.Owner)
}
