package dto

import "time"

// Change event kinds published by the inventory service.
const (
	EventProductAdded     = "product.added"
	EventProductUpdated   = "product.updated"
	EventProductDeleted   = "product.deleted"
	EventProductSold      = "product.sold"
	EventProductRestocked = "product.restocked"
	EventStockLow         = "stock.low"
)

// ChangeEvent is fanned out to subscribers after a successful mutation.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	At        time.Time `json:"at"`
}
