package registry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a stored snapshot of an account.
type Record struct {
	ID        string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
