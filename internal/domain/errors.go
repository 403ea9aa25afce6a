package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrOracleUnavailable    = errors.New("price oracle unavailable")
	ErrLockHeld             = errors.New("lock already held")
)
