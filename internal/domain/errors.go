package domain

import "errors"

// Error kinds handlers branch on with errors.Is. Business failures
// (not found, stock, duplicates, bad input) render as form messages;
// connection failures render as a 503 "try again" page.
var (
	ErrNotFound          = errors.New("book not found")
	ErrDuplicateID       = errors.New("book id already exists")
	ErrDuplicateUser     = errors.New("username already taken")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConnection        = errors.New("database unavailable")
	ErrPoolExhausted     = errors.New("connection pool exhausted")
	ErrPersistence       = errors.New("persistence failure")
)
