package repository

import (
	"context"
	"strings"

	"ims/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesHistoryFilter defines filters for listing sales rows.
type SalesHistoryFilter struct {
	Status      string
	ProductName string
	Page        int
	Limit       int
}

// LabelValue is one grouped aggregate row.
type LabelValue struct {
	Label string
	Value decimal.Decimal
}

type SalesHistoryRepository interface {
	Create(ctx context.Context, e *model.SalesHistoryEntry) error
	CreateTx(tx *gorm.DB, e *model.SalesHistoryEntry) error
	List(ctx context.Context, filter SalesHistoryFilter) ([]model.SalesHistoryEntry, int64, error)
	// SumQuantityByProduct and SumTotalByProduct group rows of one status by product name.
	SumQuantityByProduct(ctx context.Context, status string) ([]LabelValue, error)
	SumTotalByProduct(ctx context.Context, status string) ([]LabelValue, error)
}

type salesHistoryRepo struct{ db *gorm.DB }

func NewSalesHistoryRepository(db *gorm.DB) SalesHistoryRepository {
	return &salesHistoryRepo{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *salesHistoryRepo) Create(ctx context.Context, e *model.SalesHistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *salesHistoryRepo) CreateTx(tx *gorm.DB, e *model.SalesHistoryEntry) error {
	return tx.Create(e).Error
}

func (r *salesHistoryRepo) List(ctx context.Context, filter SalesHistoryFilter) ([]model.SalesHistoryEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SalesHistoryEntry{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProductName != "" {
		q = q.Where(`product_name ILIKE ? ESCAPE '\'`, containsPattern(filter.ProductName))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var entries []model.SalesHistoryEntry
	err := q.Order("timestamp DESC, order_id DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *salesHistoryRepo) SumQuantityByProduct(ctx context.Context, status string) ([]LabelValue, error) {
	return r.sumByProduct(ctx, "SUM(quantity)", status)
}

func (r *salesHistoryRepo) SumTotalByProduct(ctx context.Context, status string) ([]LabelValue, error) {
	return r.sumByProduct(ctx, "SUM(total)", status)
}

// aggregate is a fixed SQL fragment chosen by the two callers above, never user input.
func (r *salesHistoryRepo) sumByProduct(ctx context.Context, aggregate, status string) ([]LabelValue, error) {
	var rows []LabelValue
	err := r.db.WithContext(ctx).Model(&model.SalesHistoryEntry{}).
		Select("product_name AS label, COALESCE("+aggregate+", 0) AS value").
		Where("status = ?", status).
		Group("product_name").
		Order("product_name ASC").
		Scan(&rows).Error
	return rows, err
}
