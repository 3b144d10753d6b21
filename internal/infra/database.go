package infra

import (
	"fmt"

	"ims/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a pooled GORM connection backed by pgx and brings the
// schema up to date. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables and then applies the SQL that
// AutoMigrate cannot express. Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.InventoryHistoryEntry{},
		&model.SalesHistoryEntry{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL guarded by IF NOT EXISTS.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// history is always read per product, newest first
		`CREATE INDEX IF NOT EXISTS idx_inventory_history_product_ts
		    ON inventory_history (product_id, timestamp DESC)`,
		// reports group sold rows by product name
		`CREATE INDEX IF NOT EXISTS idx_sales_history_sold_name
		    ON sales_history (product_name)
		    WHERE status = 'sold'`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_history_status') THEN
		    ALTER TABLE sales_history
		      ADD CONSTRAINT chk_sales_history_status CHECK (status IN ('sold', 'ordered'));
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
