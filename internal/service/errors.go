package service

import "errors"

// Validation errors, rejected before any storage interaction.
var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrSelfTransfer      = errors.New("cannot transfer to the same account")
	ErrInvalidDateFilter = errors.New("invalid date filter, expected YYYY-MM-DD")
)
