package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/congo-pay/bank_account/internal/account"
)

func TestMemoryRepositoryUpdateDiscardsOnError(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := repo.Create(ctx, Record{ID: "A", Balance: account.MustAmount("10"), CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err := repo.Update(ctx, []string{"A"}, func(accts []*account.Account) error {
		if err := accts[0].Withdraw(account.MustAmount("4")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	rec, err := repo.Get(ctx, "A")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Balance.Equal(account.MustAmount("10")) {
		t.Fatalf("expected balance to stay 10, got %s", rec.Balance)
	}
}

func TestMemoryRepositoryUpdateSharesRepeatedIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_ = repo.Create(ctx, Record{ID: "A", Balance: account.MustAmount("10")})

	recs, err := repo.Update(ctx, []string{"A", "A"}, func(accts []*account.Account) error {
		if accts[0] != accts[1] {
			t.Fatalf("expected repeated ids to share an account")
		}
		return accts[0].Deposit(account.MustAmount("1"))
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(recs) != 2 || !recs[1].Balance.Equal(account.MustAmount("11")) {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestLockOrder(t *testing.T) {
	got := lockOrder([]string{"b", "a", "b", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}
