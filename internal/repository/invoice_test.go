package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoice-backend/internal/apperrors"
	"invoice-backend/internal/models"
	"invoice-backend/internal/repository"
)

func newTestRepo(t *testing.T) (*repository.InvoiceRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return repository.NewInvoiceRepository(db, 5*time.Second), mock
}

func TestCreatePopulatesGeneratedFields(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_number"}).AddRow(1, "40000"))

	invoice := &models.Invoice{
		InvoiceDate: time.Now(),
		PaymentDate: time.Now(),
		BillTo:      []byte(`{"name":"Acme"}`),
		SubTotal:    decimal.RequireFromString("100.00"),
		GrandTotal:  decimal.RequireFromString("100.00"),
	}
	require.NoError(t, repo.Create(context.Background(), invoice))

	assert.Equal(t, uint(1), invoice.ID)
	assert.Equal(t, "40000", invoice.InvoiceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateNumberIsConflict(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "invoices"`)).
		WillReturnError(gorm.ErrDuplicatedKey)

	err := repo.Create(context.Background(), &models.Invoice{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCreateDeadlineIsTimeout(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "invoices"`)).
		WillReturnError(context.DeadlineExceeded)

	err := repo.Create(context.Background(), &models.Invoice{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTimeout))
}

func TestCreateItemsEmptyIsNoop(t *testing.T) {
	repo, mock := newTestRepo(t)

	items, err := repo.CreateItems(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItemsForeignKeyViolationIsValidation(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "invoice_items"`)).
		WillReturnError(gorm.ErrForeignKeyViolated)

	_, err := repo.CreateItems(context.Background(), []models.InvoiceItem{
		{InvoiceID: 999, Name: "Consulting", Quantity: 1,
			Amount: decimal.RequireFromString("50.00"), Total: decimal.RequireFromString("50.00")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFindAllJoinsItemsAndDefaultsEmptySlice(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invoices"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_number", "sub_total", "grand_total"}).
			AddRow(1, "40000", "100.00", "100.00").
			AddRow(2, "40001", "25.50", "25.50"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invoice_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "name", "quantity", "amount", "total"}).
			AddRow(10, 1, "Consulting", 2, "50.00", "100.00"))

	invoices, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	require.Len(t, invoices[0].Items, 1)
	assert.Equal(t, "Consulting", invoices[0].Items[0].Name)
	assert.Equal(t, 2, invoices[0].Items[0].Quantity)

	// zero-item invoice serializes as an empty array, not null
	assert.NotNil(t, invoices[1].Items)
	assert.Empty(t, invoices[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "invoices"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 42, map[string]any{"notes": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteRemovesRow(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "invoices"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "invoices"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteItemsByInvoice(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "invoice_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteItems(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
