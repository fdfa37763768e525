package service

import "errors"

// Workflow failures callers can branch on with errors.Is. Validation and
// precondition failures are detected before any mutation; anything else
// surfaces as a wrapped persistence error and the enclosing database
// transaction is rolled back, so callers never observe partial state.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrMonthlyLimitExceeded = errors.New("monthly plan limit exceeded")
	ErrRateLimited          = errors.New("withdrawal cooldown active")
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrValidation           = errors.New("validation failed")
	ErrUserNotFound         = errors.New("user not found")
)
