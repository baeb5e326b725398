package store

import "errors"

// Validation errors the API layer maps to client-facing status codes.
// Everything else coming out of the store is treated as internal.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrClientNotFound    = errors.New("client not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)
