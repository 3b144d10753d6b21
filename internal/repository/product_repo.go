package repository

import (
	"context"

	"ims/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface so unit tests can swap in an in-memory stub.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	// List returns every product ordered by id.
	List(ctx context.Context) ([]model.Product, error)
	// ListBelow returns products whose quantity is strictly under threshold.
	ListBelow(ctx context.Context, threshold int) ([]model.Product, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	UpdateTx(tx *gorm.DB, p *model.Product) error
	// FindByIDForUpdateTx locks the row until the transaction ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error)
	SetQuantityTx(tx *gorm.DB, id uint, quantity int) error
	DeleteTx(tx *gorm.DB, id uint) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("product_id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelow(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("product_id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	res := tx.Model(&model.Product{}).Where("product_id = ?", p.ProductID).Updates(map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"quantity":    p.Quantity,
		"supplier_id": p.SupplierID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productRepo) SetQuantityTx(tx *gorm.DB, id uint, quantity int) error {
	return tx.Model(&model.Product{}).Where("product_id = ?", id).Update("quantity", quantity).Error
}

// DeleteTx removes the product and its inventory history. The FK cascades as
// well; the explicit delete keeps behaviour the same on schemas created before
// the constraint existed.
func (r *productRepo) DeleteTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("product_id = ?", id).Delete(&model.InventoryHistoryEntry{}).Error; err != nil {
		return err
	}
	res := tx.Where("product_id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
