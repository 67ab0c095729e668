package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/ledger/internal/domain/billing"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockSalesInvoiceRepository(t *testing.T) (*GormSalesInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSalesInvoiceRepository(gormDB), mock, mockDB
}

func TestGormSalesInvoiceRepository_FindByID(t *testing.T) {
	t.Run("returns not found error for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "sales_invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByID(context.Background(), invoiceID)

		assert.Error(t, err)
		assert.Nil(t, invoice)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSalesInvoiceRepository_FindDueBefore(t *testing.T) {
	t.Run("selects sent invoices past their due date", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesInvoiceRepository(t)
		defer mockDB.Close()

		cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		invoiceID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "customer_name", "status", "due_date"}).
			AddRow(invoiceID, "INV-2024-001", "Acme Corp", string(billing.InvoiceStatusSent), cutoff.AddDate(0, 0, -10))

		mock.ExpectQuery(`SELECT \* FROM "sales_invoices" WHERE status = \$1 AND due_date < \$2 ORDER BY due_date ASC`).
			WithArgs(string(billing.InvoiceStatusSent), cutoff).
			WillReturnRows(rows)

		mock.ExpectQuery(`SELECT \* FROM "sales_invoice_lines" WHERE "sales_invoice_lines"\."invoice_id" = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id"}))

		invoices, err := repo.FindDueBefore(context.Background(), cutoff)

		assert.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "INV-2024-001", invoices[0].InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing is overdue", func(t *testing.T) {
		repo, mock, mockDB := newMockSalesInvoiceRepository(t)
		defer mockDB.Close()

		cutoff := time.Now().UTC()

		mock.ExpectQuery(`SELECT \* FROM "sales_invoices" WHERE status = \$1 AND due_date < \$2 ORDER BY due_date ASC`).
			WithArgs(string(billing.InvoiceStatusSent), cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		invoices, err := repo.FindDueBefore(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Empty(t, invoices)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
