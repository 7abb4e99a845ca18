package account

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is not a positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the available balance.
	ErrInsufficientFunds = errors.New("Not enough funds to withdraw.")

	// ErrInvalidTarget is returned when a transfer target is missing.
	ErrInvalidTarget = errors.New("invalid transfer target")

	// ErrInvalidID is returned when an account is constructed without an identifier.
	ErrInvalidID = errors.New("account id is required")

	// ErrInvalidBalance is returned when an account is constructed with a negative balance.
	ErrInvalidBalance = errors.New("initial balance cannot be negative")
)
