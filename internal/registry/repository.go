package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/bank_account/internal/account"
)

var (
	// ErrAccountNotFound is returned when no account is stored under the given id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account whose id is taken.
	ErrAccountExists = errors.New("account already exists")
)

// UpdateFunc receives live accounts in the order their ids were requested.
// Repeated ids map to the same *account.Account.
type UpdateFunc func(accts []*account.Account) error

// Repository persists account snapshots.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	// Update loads the accounts, runs fn and stores the resulting balances
	// only when fn returns nil.
	Update(ctx context.Context, ids []string, fn UpdateFunc) ([]Record, error)
}

const schema = `CREATE TABLE IF NOT EXISTS bank_accounts (
    id         TEXT PRIMARY KEY,
    balance    NUMERIC NOT NULL CHECK (balance >= 0),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the accounts table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// Create inserts an account record.
func (r *PostgresRepository) Create(ctx context.Context, rec Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bank_accounts (id, balance, created_at, updated_at)
        VALUES ($1, $2::numeric, $3, $4)`, rec.ID, rec.Balance.String(), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAccountExists
	}
	return err
}

// Get fetches an account by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRow(ctx, `SELECT id, balance::text, created_at, updated_at
        FROM bank_accounts WHERE id = $1`, id)
	return scanRecord(row)
}

// List returns every account ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.Query(ctx, `SELECT id, balance::text, created_at, updated_at
        FROM bank_accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Update locks the rows in id order, applies fn and writes the new balances in
// the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, ids []string, fn UpdateFunc) ([]Record, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	locked := make(map[string]Record, len(ids))
	for _, id := range lockOrder(ids) {
		row := tx.QueryRow(ctx, `SELECT id, balance::text, created_at, updated_at
            FROM bank_accounts WHERE id = $1 FOR UPDATE`, id)
		rec, err := scanRecord(row)
		if err != nil {
			return nil, err
		}
		locked[id] = rec
	}

	live, accts, err := hydrate(ids, locked)
	if err != nil {
		return nil, err
	}
	if err := fn(accts); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for id, acc := range live {
		if _, err := tx.Exec(ctx, `UPDATE bank_accounts SET balance = $2::numeric, updated_at = $3 WHERE id = $1`,
			id, acc.Balance().String(), now); err != nil {
			return nil, fmt.Errorf("update account %s: %w", id, err)
		}
		rec := locked[id]
		rec.Balance = acc.Balance()
		rec.UpdatedAt = now
		locked[id] = rec
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return collect(ids, locked), nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var balance string
	if err := row.Scan(&rec.ID, &balance, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrAccountNotFound
		}
		return Record{}, err
	}
	d, err := decimal.NewFromString(balance)
	if err != nil {
		return Record{}, fmt.Errorf("decode balance of %s: %w", rec.ID, err)
	}
	rec.Balance = d
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

// lockOrder returns the distinct ids sorted so concurrent updates lock rows in
// the same order.
func lockOrder(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// hydrate builds one live account per distinct id and the ordered slice handed
// to an UpdateFunc.
func hydrate(ids []string, recs map[string]Record) (map[string]*account.Account, []*account.Account, error) {
	live := make(map[string]*account.Account, len(recs))
	accts := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		acc, ok := live[id]
		if !ok {
			rec, found := recs[id]
			if !found {
				return nil, nil, ErrAccountNotFound
			}
			var err error
			acc, err = account.New(rec.ID, rec.Balance)
			if err != nil {
				return nil, nil, fmt.Errorf("load account %s: %w", id, err)
			}
			live[id] = acc
		}
		accts = append(accts, acc)
	}
	return live, accts, nil
}

func collect(ids []string, recs map[string]Record) []Record {
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, recs[id])
	}
	return out
}
