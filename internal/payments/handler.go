package payments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jetharam07/payledger/internal/authz"
	"github.com/jetharam07/payledger/internal/ledger"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type depositRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type transactionResponse struct {
	ID        uint64 `json:"id"`
	Payer     string `json:"payer"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type withdrawalResponse struct {
	ID          uint64 `json:"id"`
	Amount      int64  `json:"amount"`
	RequestedBy string `json:"requested_by"`
	CreatedAt   int64  `json:"created_at"`
}

// Deposit records a payment for the calling identity.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	payer, _ := c.Locals("requester").(string)
	if payer == "" {
		return fiber.NewError(http.StatusBadRequest, "missing requester identity")
	}

	tx, err := h.service.Deposit(c.UserContext(), DepositInput{
		Payer:     payer,
		Amount:    req.Amount,
		Reference: req.Reference,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toTransactionResponse(tx))
}

// Refund returns a payment to its payer. Owner only.
func (h *Handler) Refund(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid transaction id")
	}
	requester, _ := c.Locals("requester").(string)

	tx, err := h.service.Refund(c.UserContext(), requester, id)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toTransactionResponse(tx))
}

// Withdraw sweeps the held balance to the owner. Owner only.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	requester, _ := c.Locals("requester").(string)

	w, err := h.service.Withdraw(c.UserContext(), requester)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toWithdrawalResponse(w))
}

// Balance returns the currently held balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.Balance(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"balance": balance})
}

// Recent returns the trailing transaction window, oldest first.
func (h *Handler) Recent(c *fiber.Ctx) error {
	txs, err := h.service.Recent(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": toTransactionResponses(txs)})
}

// History returns the full transaction history for one payer.
func (h *Handler) History(c *fiber.Ctx) error {
	payer := c.Params("payer")
	txs, err := h.service.History(c.UserContext(), payer)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"payer":        payer,
		"transactions": toTransactionResponses(txs),
	})
}

// Withdrawals returns the withdrawal history.
func (h *Handler) Withdrawals(c *fiber.Ctx) error {
	ws, err := h.service.Withdrawals(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	out := make([]withdrawalResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWithdrawalResponse(w))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"withdrawals": out})
}

// Owner returns the privileged identity.
func (h *Handler) Owner(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner": h.service.Owner()})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, authz.ErrUnauthorized):
		return fiber.NewError(http.StatusForbidden, "owner only")
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "transaction not found")
	case errors.Is(err, ledger.ErrAlreadySettled):
		return fiber.NewError(http.StatusConflict, "transaction already settled")
	case errors.Is(err, ledger.ErrNothingToWithdraw):
		return fiber.NewError(http.StatusConflict, "nothing to withdraw")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Payer:     tx.Payer,
		Amount:    tx.Amount,
		Reference: tx.Reference,
		Status:    tx.Status.String(),
		CreatedAt: tx.CreatedAt.Unix(),
	}
}

func toTransactionResponses(txs []ledger.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

func toWithdrawalResponse(w ledger.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount,
		RequestedBy: w.RequestedBy,
		CreatedAt:   w.CreatedAt.Unix(),
	}
}
