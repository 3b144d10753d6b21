package model

import "time"

// Supplier is the optional source a product is bought from.
type Supplier struct {
	SupplierID uint   `gorm:"column:supplier_id;primaryKey;autoIncrement"`
	Name       string `gorm:"uniqueIndex;not null"`
	Contact    *string
	CreatedAt  time.Time
}

func (Supplier) TableName() string { return "suppliers" }
