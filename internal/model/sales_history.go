package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SaleStatusSold    = "sold"
	SaleStatusOrdered = "ordered"
)

// SalesHistoryEntry records a completed sale or a restock order.
// ProductName is copied, not referenced, so history survives product deletion.
type SalesHistoryEntry struct {
	OrderID     uint            `gorm:"column:order_id;primaryKey;autoIncrement"`
	ProductName string          `gorm:"column:product_name;not null;index"`
	Quantity    int             `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Timestamp   time.Time       `gorm:"not null;index"`
	Status      string          `gorm:"type:varchar(16);not null;index"`
}

func (SalesHistoryEntry) TableName() string { return "sales_history" }
