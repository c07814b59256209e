package infra

import (
	"fmt"

	"procuretrack/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (sequences, partial indexes).
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

// RunMigrations creates / updates all tables and applies schema patches.
// Also used by integration tests against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.PurchaseRequest{},
		&model.PRItem{},
		&model.RequestForQuotation{},
		&model.ConsolidationLog{},
		&model.Bid{},
		&model.BidLine{},
		&model.AbstractOfQuotation{},
		&model.AOQLine{},
		&model.PurchaseOrder{},
		&model.ActionLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// pgcrypto provides gen_random_uuid() on Postgres < 13
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		// PO numbering sequence, consumed inside the award transaction
		`CREATE SEQUENCE IF NOT EXISTS purchase_orders_seq START 1`,
		// hot path of the dashboard and the PR list filter
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_prs_status') THEN
		    CREATE INDEX idx_prs_status ON purchase_requests (status);
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
