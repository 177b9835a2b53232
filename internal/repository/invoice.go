package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoice-backend/internal/apperrors"
	"invoice-backend/internal/models"
)

// InvoiceRepository is the only component that issues storage operations for
// invoices and their items. Every operation runs under a bounded timeout.
type InvoiceRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewInvoiceRepository(db *gorm.DB, timeout time.Duration) *InvoiceRepository {
	return &InvoiceRepository{db: db, timeout: timeout}
}

// WithTx rebinds the repository to a transaction handle so a unit of work can
// span several operations.
func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx, timeout: r.timeout}
}

func (r *InvoiceRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts one invoice row. The database fills in id, invoice number
// (from the sequence) and timestamps; RETURNING writes them back into the
// passed record. Items are inserted separately by CreateItems.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error; err != nil {
		return translate("could not save invoice", err)
	}
	return nil
}

// CreateItems bulk-inserts item rows in a single statement, so either all
// rows land or none do.
func (r *InvoiceRepository) CreateItems(ctx context.Context, items []models.InvoiceItem) ([]models.InvoiceItem, error) {
	if len(items) == 0 {
		return []models.InvoiceItem{}, nil
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.Wrap(apperrors.ErrValidation, "item references a nonexistent invoice", err)
		}
		return nil, translate("could not save invoice items", err)
	}
	return items, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var invoice models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "invoice not found", err)
		}
		return nil, translate("could not load invoice", err)
	}
	if invoice.Items == nil {
		invoice.Items = []models.InvoiceItem{}
	}
	return &invoice, nil
}

// FindAll returns every invoice with its items. No pagination: the dataset is
// demo scale.
func (r *InvoiceRepository) FindAll(ctx context.Context) ([]models.Invoice, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").Order("id").Find(&invoices).Error; err != nil {
		return nil, translate("could not load invoices", err)
	}
	for i := range invoices {
		if invoices[i].Items == nil {
			invoices[i].Items = []models.InvoiceItem{}
		}
	}
	return invoices, nil
}

// Update applies a partial column update and returns the fresh record.
func (r *InvoiceRepository) Update(ctx context.Context, id uint, updates map[string]any) (*models.Invoice, error) {
	opCtx, cancel := r.opContext(ctx)
	defer cancel()

	result := r.db.WithContext(opCtx).Model(&models.Invoice{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate("could not update invoice", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.New(apperrors.ErrNotFound, "invoice not found")
	}
	return r.FindByID(ctx, id)
}

// Delete removes an invoice; its items go with it via the ON DELETE CASCADE
// constraint on invoice_items.
func (r *InvoiceRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return translate("could not delete invoice", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "invoice not found")
	}
	return nil
}

// DeleteItems removes all items belonging to an invoice without touching the
// invoice row.
func (r *InvoiceRepository) DeleteItems(ctx context.Context, invoiceID uint) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return translate("could not delete invoice items", err)
	}
	return nil
}

// translate maps driver errors onto the error taxonomy. The raw error is kept
// for logging; the message is what clients may see.
func translate(message string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrTimeout, message, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Wrap(apperrors.ErrConflict, message, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Wrap(apperrors.ErrValidation, message, err)
	default:
		return apperrors.Wrap(apperrors.ErrStorage, message, err)
	}
}
