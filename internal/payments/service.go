package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/bank_account/internal/notification"
	"github.com/congo-pay/bank_account/internal/registry"
)

// Service runs peer-to-peer transfers between stored accounts.
type Service struct {
	accounts *registry.Service
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a payment service. notifier may be nil.
func NewService(accounts *registry.Service, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, notifier: notifier, logger: logger}
}

// TransferInput captures the data needed to move funds between accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	ClientTxID    string
}

// TransferResult describes the outcome of a P2P transfer.
type TransferResult struct {
	TransactionID string
	FromBalance   decimal.Decimal
	ToBalance     decimal.Decimal
	CompletedAt   time.Time
}

// CheckTarget reports account.ErrInvalidTarget for an empty or unknown
// receiving account.
func (s *Service) CheckTarget(ctx context.Context, toAccountID string) error {
	return s.accounts.CheckTarget(ctx, toAccountID)
}

// Transfer withdraws from the source account and deposits into the target.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if input.ClientTxID == "" {
		input.ClientTxID = uuid.New().String()
	}

	from, to, err := s.accounts.Transfer(ctx, input.FromAccountID, input.ToAccountID, input.Amount)
	if err != nil {
		return TransferResult{}, err
	}

	outcome := TransferResult{
		TransactionID: input.ClientTxID,
		FromBalance:   from.Balance,
		ToBalance:     to.Balance,
		CompletedAt:   time.Now().UTC(),
	}

	if s.notifier != nil {
		err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransfer,
			Destination: to.ID,
			Body:        fmt.Sprintf("You received %s from account %s", input.Amount, from.ID),
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("transfer notification failed", slog.String("transaction_id", outcome.TransactionID), slog.Any("error", err))
		}
	}

	return outcome, nil
}
