// Package account holds the single-account balance rules: deposits, withdrawals
// and transfers with amount validation and insufficient-funds protection.
//
// The package keeps no locks. Callers sharing an Account between goroutines
// must serialize access themselves.
package account

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Depositor is anything that can accept a deposit. It is the target of Transfer.
type Depositor interface {
	Deposit(amount decimal.Decimal) error
}

// Account is an identified balance. The balance never drops below zero through
// the operations defined here.
type Account struct {
	id      string
	balance decimal.Decimal
}

// New constructs an account with the given identifier and opening balance.
func New(id string, initial decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidID
	}
	if initial.IsNegative() {
		return nil, ErrInvalidBalance
	}
	return &Account{id: id, balance: initial}, nil
}

// Open constructs an account with a zero balance.
func Open(id string) (*Account, error) {
	return New(id, decimal.Zero)
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance. The amount is validated before the
// balance is checked, and nothing changes when either check fails.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// Transfer withdraws amount from a and deposits it into target.
//
// The two halves are applied in order with no compensation: if the target
// rejects the deposit after the withdrawal went through, a stays debited and
// the target's error is returned.
func (a *Account) Transfer(target Depositor, amount decimal.Decimal) error {
	if isNilTarget(target) {
		return ErrInvalidTarget
	}
	if err := a.Withdraw(amount); err != nil {
		return err
	}
	if err := target.Deposit(amount); err != nil {
		return fmt.Errorf("deposit into target: %w", err)
	}
	return nil
}

// String renders the account as "id: balance".
func (a *Account) String() string {
	return fmt.Sprintf("%s: %s", a.id, a.balance.String())
}

// isNilTarget reports an untyped nil target or an interface holding a nil
// pointer, map, slice, func, chan or interface.
func isNilTarget(target Depositor) bool {
	if target == nil {
		return true
	}
	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
