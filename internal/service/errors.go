package service

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidSaleStatus  = errors.New("status must be sold or ordered")
	ErrUnknownReport      = errors.New("unknown report kind")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateSupplier  = errors.New("supplier already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
