package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest is used for both create and full update.
type ProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Quantity    int             `json:"quantity"    validate:"min=0"`
	SupplierID  *uint           `json:"supplier_id"`
}

type SellRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type SupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=120"`
	Contact *string `json:"contact" validate:"omitempty,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	SupplierID  *uint           `json:"supplier_id"`
	LowStock    bool            `json:"low_stock"`
}

type SupplierResponse struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
}
