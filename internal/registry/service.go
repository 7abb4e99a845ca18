package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/bank_account/internal/account"
	"github.com/congo-pay/bank_account/internal/notification"
)

// Service exposes account operations over a repository. Every mutating call
// holds the service lock for its whole duration, so operations on the same
// accounts never interleave within one process.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds an account service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// OpenInput captures data required to open an account.
type OpenInput struct {
	ID             string
	InitialBalance decimal.Decimal
}

// Open validates and stores a new account. An empty id gets a generated UUID.
func (s *Service) Open(ctx context.Context, input OpenInput) (Record, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	acc, err := account.New(id, input.InitialBalance)
	if err != nil {
		return Record{}, err
	}

	now := time.Now().UTC()
	rec := Record{
		ID:        acc.ID(),
		Balance:   acc.Balance(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get retrieves an account snapshot.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns every stored account.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Deposit credits amount to the account.
func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (Record, error) {
	rec, err := s.mutateOne(ctx, id, func(acc *account.Account) error {
		return acc.Deposit(amount)
	})
	if err != nil {
		return Record{}, err
	}
	s.notify(ctx, notification.Message{
		Kind:        notification.KindDeposit,
		Destination: id,
		Body:        fmt.Sprintf("Deposited %s, balance %s", amount, rec.Balance),
	})
	return rec, nil
}

// Withdraw debits amount from the account.
func (s *Service) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (Record, error) {
	rec, err := s.mutateOne(ctx, id, func(acc *account.Account) error {
		return acc.Withdraw(amount)
	})
	if err != nil {
		return Record{}, err
	}
	s.notify(ctx, notification.Message{
		Kind:        notification.KindWithdrawal,
		Destination: id,
		Body:        fmt.Sprintf("Withdrew %s, balance %s", amount, rec.Balance),
	})
	return rec, nil
}

// Transfer moves amount from one account to another. An unknown target is
// reported as account.ErrInvalidTarget before the source is touched.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (from Record, to Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.CheckTarget(ctx, toID); err != nil {
		return Record{}, Record{}, err
	}

	recs, err := s.repo.Update(ctx, []string{fromID, toID}, func(accts []*account.Account) error {
		return accts[0].Transfer(accts[1], amount)
	})
	if err != nil {
		return Record{}, Record{}, err
	}
	return recs[0], recs[1], nil
}

// CheckTarget returns account.ErrInvalidTarget when id is empty or names no
// stored account.
func (s *Service) CheckTarget(ctx context.Context, id string) error {
	if id == "" {
		return account.ErrInvalidTarget
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return fmt.Errorf("%w: %s", account.ErrInvalidTarget, id)
		}
		return err
	}
	return nil
}

func (s *Service) mutateOne(ctx context.Context, id string, fn func(*account.Account) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.repo.Update(ctx, []string{id}, func(accts []*account.Account) error {
		return fn(accts[0])
	})
	if err != nil {
		return Record{}, err
	}
	return recs[0], nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil && s.logger != nil {
		s.logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}
