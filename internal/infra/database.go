package infra

import (
	"fmt"

	"buyonline/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date with RunMigrations.
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the extension gen_random_uuid() needs on older
// Postgres versions, runs AutoMigrate for the catalog tables and then the
// idempotent patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.CategoryMetadataField{},
		&model.Product{},
		&model.ProductVariation{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that struct tags cannot
// describe. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"attributes containment index", `
CREATE INDEX IF NOT EXISTS idx_product_variations_attributes
    ON product_variations USING GIN (attributes)`},
		{"active products per category", `
CREATE INDEX IF NOT EXISTS idx_products_active_category
    ON products (category_id)
    WHERE state = 'active'`},
		{"lifecycle state check on products", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_state') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_state
      CHECK (state IN ('draft', 'active', 'inactive', 'deleted'));
  END IF;
END $$`},
		{"lifecycle state check on variations", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_product_variations_state') THEN
    ALTER TABLE product_variations ADD CONSTRAINT chk_product_variations_state
      CHECK (state IN ('draft', 'active', 'inactive', 'deleted'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
