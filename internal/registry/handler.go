package registry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/bank_account/internal/account"
	"github.com/congo-pay/bank_account/internal/httpx"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type openRequest struct {
	ID             string       `json:"id" validate:"omitempty,max=64,printascii"`
	InitialBalance httpx.Amount `json:"initial_balance"`
}

type amountRequest struct {
	Amount httpx.Amount `json:"amount" validate:"required"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(rec Record) accountResponse {
	return accountResponse{
		ID:        rec.ID,
		Balance:   rec.Balance.String(),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// Open creates an account.
func (h *Handler) Open(c *fiber.Ctx) error {
	req, err := httpx.Bind[openRequest](c)
	if err != nil {
		return httpx.BadRequest(c, err)
	}

	initial := decimal.Zero
	if req.InitialBalance != "" {
		if initial, err = account.ParseAmount(req.InitialBalance.String()); err != nil {
			return ErrorStatus(err)
		}
	}

	rec, err := h.service.Open(c.UserContext(), OpenInput{ID: req.ID, InitialBalance: initial})
	if err != nil {
		return ErrorStatus(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(rec))
}

// List returns every account.
func (h *Handler) List(c *fiber.Ctx) error {
	recs, err := h.service.List(c.UserContext())
	if err != nil {
		return ErrorStatus(err)
	}
	out := make([]accountResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": out})
}

// Get returns one account.
func (h *Handler) Get(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return ErrorStatus(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(rec))
}

// Deposit credits the account named in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Deposit)
}

// Withdraw debits the account named in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.mutate(c, h.service.Withdraw)
}

type mutation func(ctx context.Context, id string, amount decimal.Decimal) (Record, error)

func (h *Handler) mutate(c *fiber.Ctx, op mutation) error {
	req, err := httpx.Bind[amountRequest](c)
	if err != nil {
		return httpx.BadRequest(c, err)
	}
	amount, err := account.ParseAmount(req.Amount.String())
	if err != nil {
		return ErrorStatus(err)
	}
	rec, err := op(c.UserContext(), c.Params("accountId"), amount)
	if err != nil {
		return ErrorStatus(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(rec))
}

// ErrorStatus maps account and registry errors onto HTTP errors.
func ErrorStatus(err error) error {
	switch {
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidID),
		errors.Is(err, account.ErrInvalidBalance),
		errors.Is(err, account.ErrInvalidTarget):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAccountExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
