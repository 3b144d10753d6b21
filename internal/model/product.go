package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock-keeping item. ProductID is assigned by the store.
type Product struct {
	ProductID   uint            `gorm:"column:product_id;primaryKey;autoIncrement"`
	Name        string          `gorm:"index;not null"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0"`
	SupplierID  *uint           `gorm:"column:supplier_id;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID;references:SupplierID;constraint:OnDelete:SET NULL"`
}

func (Product) TableName() string { return "products" }
