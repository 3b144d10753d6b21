package model

import "time"

// Reasons recorded on inventory history rows.
const (
	ReasonAdd     = "add"
	ReasonEdit    = "edit"
	ReasonSell    = "sell"
	ReasonRestock = "restock"
)

// InventoryHistoryEntry is an append-only snapshot of a product's quantity
// after a mutation. Rows go away only when their product is deleted.
type InventoryHistoryEntry struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	ProductID   uint      `gorm:"column:product_id;not null;index"`
	Timestamp   time.Time `gorm:"not null;index"`
	NewQuantity int       `gorm:"column:new_quantity;not null"`
	Reason      string    `gorm:"type:varchar(16);not null"`

	Product *Product `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE"`
}

func (InventoryHistoryEntry) TableName() string { return "inventory_history" }
