package payments

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/bank_account/internal/account"
	"github.com/congo-pay/bank_account/internal/httpx"
	"github.com/congo-pay/bank_account/internal/registry"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	FromAccountID string       `json:"from_account_id" validate:"required"`
	ToAccountID   string       `json:"to_account_id"`
	Amount        httpx.Amount `json:"amount" validate:"required"`
	ClientTxID    string       `json:"client_tx_id" validate:"omitempty,max=128"`
}

// P2P processes an account-to-account transfer.
func (h *Handler) P2P(c *fiber.Ctx) error {
	req, err := httpx.Bind[transferRequest](c)
	if err != nil {
		return httpx.BadRequest(c, err)
	}
	// Target errors take precedence over amount errors, as in the core transfer.
	if err := h.service.CheckTarget(c.UserContext(), req.ToAccountID); err != nil {
		return registry.ErrorStatus(err)
	}
	amount, err := account.ParseAmount(req.Amount.String())
	if err != nil {
		return registry.ErrorStatus(err)
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		ClientTxID:    req.ClientTxID,
	})
	if err != nil {
		return registry.ErrorStatus(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.TransactionID,
		"from_balance":   res.FromBalance.String(),
		"to_balance":     res.ToBalance.String(),
		"completed_at":   res.CompletedAt,
	})
}
