package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/congo-pay/bank_account/internal/account"
	"github.com/congo-pay/bank_account/internal/logging"
	"github.com/congo-pay/bank_account/internal/notification"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewService(NewMemoryRepository(), n, logging.Discard()), n
}

func mustOpen(t *testing.T, svc *Service, id, balance string) Record {
	t.Helper()
	rec, err := svc.Open(context.Background(), OpenInput{ID: id, InitialBalance: account.MustAmount(balance)})
	if err != nil {
		t.Fatalf("open %s: %v", id, err)
	}
	return rec
}

func balanceOf(t *testing.T, svc *Service, id string) string {
	t.Helper()
	rec, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return rec.Balance.String()
}

func TestServiceOpenAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec := mustOpen(t, svc, "ACC123", "1000")
	if rec.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	fetched, err := svc.Get(ctx, "ACC123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != "ACC123" || !fetched.Balance.Equal(account.MustAmount("1000")) {
		t.Fatalf("unexpected record: %+v", fetched)
	}

	if _, err := svc.Open(ctx, OpenInput{ID: "ACC123"}); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if _, err := svc.Open(ctx, OpenInput{ID: "NEG", InitialBalance: account.MustAmount("-1")}); !errors.Is(err, account.ErrInvalidBalance) {
		t.Fatalf("expected ErrInvalidBalance, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestServiceOpenGeneratesID(t *testing.T) {
	svc, _ := newTestService(t)
	rec, err := svc.Open(context.Background(), OpenInput{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if rec.ID == "" || !rec.Balance.IsZero() {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestServiceDepositWithdraw(t *testing.T) {
	svc, n := newTestService(t)
	ctx := context.Background()
	mustOpen(t, svc, "A", "100")

	if _, err := svc.Deposit(ctx, "A", account.MustAmount("50")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := balanceOf(t, svc, "A"); got != "150" {
		t.Fatalf("expected 150, got %s", got)
	}

	if _, err := svc.Withdraw(ctx, "A", account.MustAmount("200")); !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if got := balanceOf(t, svc, "A"); got != "150" {
		t.Fatalf("expected 150 after failed withdraw, got %s", got)
	}

	if _, err := svc.Deposit(ctx, "A", account.MustAmount("0")); !errors.Is(err, account.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	rec, err := svc.Withdraw(ctx, "A", account.MustAmount("150"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !rec.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", rec.Balance)
	}

	if _, err := svc.Deposit(ctx, "missing", account.MustAmount("1")); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if len(n.msgs) != 2 || n.msgs[0].Kind != notification.KindDeposit || n.msgs[1].Kind != notification.KindWithdrawal {
		t.Fatalf("unexpected notifications: %+v", n.msgs)
	}
}

func TestServiceTransfer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustOpen(t, svc, "A", "300")
	mustOpen(t, svc, "B", "100")

	from, to, err := svc.Transfer(ctx, "A", "B", account.MustAmount("50"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if from.Balance.String() != "250" || to.Balance.String() != "150" {
		t.Fatalf("unexpected balances %s/%s", from.Balance, to.Balance)
	}

	if _, _, err := svc.Transfer(ctx, "A", "nobody", account.MustAmount("10")); !errors.Is(err, account.ErrInvalidTarget) {
		t.Fatalf("expected invalid target, got %v", err)
	}
	if _, _, err := svc.Transfer(ctx, "A", "", account.MustAmount("10")); !errors.Is(err, account.ErrInvalidTarget) {
		t.Fatalf("expected invalid target, got %v", err)
	}
	if _, _, err := svc.Transfer(ctx, "A", "B", account.MustAmount("1000")); !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if _, _, err := svc.Transfer(ctx, "nobody", "B", account.MustAmount("1")); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if got := balanceOf(t, svc, "A"); got != "250" {
		t.Fatalf("source changed by failed transfers: %s", got)
	}
	if got := balanceOf(t, svc, "B"); got != "150" {
		t.Fatalf("target changed by failed transfers: %s", got)
	}

	from, to, err = svc.Transfer(ctx, "A", "A", account.MustAmount("25"))
	if err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if from.Balance.String() != "250" || to.Balance.String() != "250" {
		t.Fatalf("self transfer changed balance: %s/%s", from.Balance, to.Balance)
	}
}

func TestServiceCheckTarget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustOpen(t, svc, "B", "0")

	if err := svc.CheckTarget(ctx, "B"); err != nil {
		t.Fatalf("known target: %v", err)
	}
	for _, id := range []string{"", "ghost"} {
		if err := svc.CheckTarget(ctx, id); !errors.Is(err, account.ErrInvalidTarget) {
			t.Fatalf("target %q: expected invalid target, got %v", id, err)
		}
	}
}

func TestServiceConcurrentTransfers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustOpen(t, svc, "A", "1000")
	mustOpen(t, svc, "B", "0")

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, dst := "A", "B"
			if i%2 == 1 {
				src, dst = "B", "A"
			}
			_, _, err := svc.Transfer(ctx, src, dst, account.MustAmount("5"))
			if err != nil && !errors.Is(err, account.ErrInsufficientFunds) {
				t.Errorf("transfer %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	a, _ := svc.Get(ctx, "A")
	b, _ := svc.Get(ctx, "B")
	if total := a.Balance.Add(b.Balance); !total.Equal(account.MustAmount("1000")) {
		t.Fatalf("balances not conserved, total=%s", total)
	}
}

func TestServiceList(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		mustOpen(t, svc, fmt.Sprintf("ACC%d", i), "1")
	}
	recs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(recs))
	}
}
