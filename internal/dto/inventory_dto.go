package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type HistoryFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=500"`
}

type InventoryHistoryResponse struct {
	ProductID   uint      `json:"product_id"`
	Timestamp   time.Time `json:"timestamp"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
}

type InventoryHistoryListResponse struct {
	Data  []InventoryHistoryResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// SaleResult describes the outcome of selling a product.
type SaleResult struct {
	Sale      SalesEntryResponse `json:"sale"`
	Product   ProductResponse    `json:"product"`
	Restocked bool               `json:"restocked"`
	// RestockQuantity is the amount added back when Restocked is true.
	RestockQuantity int `json:"restock_quantity,omitempty"`
}

// LowStockAlert is raised for every product under the threshold.
type LowStockAlert struct {
	ProductID       uint            `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	RestockQuantity int             `json:"restock_quantity"`
	NewQuantity     int             `json:"new_quantity"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	Message         string          `json:"message"`
}
