package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoice-backend/internal/config"
	"invoice-backend/internal/models"
)

// invoice_number_seq backs the invoice number column default; 40000 is the
// first number handed out.
const createInvoiceNumberSeq = `CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START WITH 40000`

func Open(cfg config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DbDsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DbMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DbMaxIdleConns)

	// The sequence must exist before AutoMigrate applies the column default.
	if err := database.Exec(createInvoiceNumberSeq).Error; err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.Invoice{},
		&models.InvoiceItem{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
