package repository

import (
	"context"

	"ims/internal/model"

	"gorm.io/gorm"
)

// InventoryHistoryFilter defines filters for listing history rows.
type InventoryHistoryFilter struct {
	ProductID uint
	Page      int
	Limit     int
}

type InventoryHistoryRepository interface {
	CreateTx(tx *gorm.DB, e *model.InventoryHistoryEntry) error
	List(ctx context.Context, filter InventoryHistoryFilter) ([]model.InventoryHistoryEntry, int64, error)
}

type inventoryHistoryRepo struct{ db *gorm.DB }

func NewInventoryHistoryRepository(db *gorm.DB) InventoryHistoryRepository {
	return &inventoryHistoryRepo{db: db}
}

func (r *inventoryHistoryRepo) CreateTx(tx *gorm.DB, e *model.InventoryHistoryEntry) error {
	return tx.Create(e).Error
}

func (r *inventoryHistoryRepo) List(ctx context.Context, filter InventoryHistoryFilter) ([]model.InventoryHistoryEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryHistoryEntry{})
	if filter.ProductID != 0 {
		q = q.Where("product_id = ?", filter.ProductID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var entries []model.InventoryHistoryEntry
	err := q.Order("timestamp DESC, id DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return page, limit
}
