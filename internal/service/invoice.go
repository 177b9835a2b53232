package service

import (
	"context"

	"gorm.io/gorm"

	"invoice-backend/internal/models"
	"invoice-backend/internal/repository"
)

// InvoiceService expresses the invoice units of work on top of the
// repository. It holds the shared DB handle only to open transactions.
type InvoiceService struct {
	db   *gorm.DB
	repo *repository.InvoiceRepository
}

func NewInvoiceService(db *gorm.DB, repo *repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{db: db, repo: repo}
}

// CreateInvoice inserts the invoice and its items inside one transaction:
// both land or neither does. A failed item insert rolls the invoice back, so
// no orphaned invoice row can remain.
func (s *InvoiceService) CreateInvoice(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) (*models.Invoice, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.Create(ctx, invoice); err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		created, err := txRepo.CreateItems(ctx, items)
		if err != nil {
			return err
		}
		invoice.Items = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.repo.FindAll(ctx)
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateInvoice loads the current record, validates the partial update
// against it (the totals invariant is checked on the merged result) and
// persists the changed columns.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uint, input models.UpdateInvoiceInput) (*models.Invoice, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := input.Apply(current)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return current, nil
	}
	return s.repo.Update(ctx, id, updates)
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
