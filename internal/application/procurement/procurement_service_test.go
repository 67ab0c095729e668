package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/procurement"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/testsupport/memrepo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	pos      *memrepo.PurchaseOrderRepo
	receipts *memrepo.GoodsReceiptRepo
	invoices *memrepo.SupplierInvoiceRepo
	svc      *ProcurementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		pos:      memrepo.NewPurchaseOrderRepo(),
		receipts: memrepo.NewGoodsReceiptRepo(),
		invoices: memrepo.NewSupplierInvoiceRepo(),
	}
	f.svc = NewProcurementService(f.pos, f.receipts, f.invoices,
		NewNoOpTransactionScope(f.pos, f.receipts, f.invoices))
	return f
}

func poLine(item string, qty, price int64) POLineRequest {
	return POLineRequest{
		Item:        item,
		Quantity:    decimal.NewFromInt(qty),
		Unit:        "pcs",
		UnitPriceHT: decimal.NewFromInt(price),
		TaxRate:     decimal.NewFromFloat(0.19),
	}
}

// sentPO creates a PO, validates it and marks it sent
func (f *fixture) sentPO(t *testing.T, number string, lines ...POLineRequest) *POResponse {
	t.Helper()
	ctx := context.Background()
	resp, err := f.svc.CreatePO(ctx, CreatePORequest{
		PONumber:          number,
		SupplierReference: "SUP-01",
		ExpectedDelivery:  time.Now().AddDate(0, 0, 14),
		Lines:             lines,
	})
	require.NoError(t, err)
	_, err = f.svc.SetPOStatus(ctx, resp.ID, SetPOStatusRequest{Status: string(procurement.POStatusValidated)})
	require.NoError(t, err)
	sent, err := f.svc.SetPOStatus(ctx, resp.ID, SetPOStatusRequest{Status: string(procurement.POStatusSent)})
	require.NoError(t, err)
	return sent
}

func TestProcurementService_CreatePO(t *testing.T) {
	t.Run("creates a draft PO with lines", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.CreatePO(context.Background(), CreatePORequest{
			PONumber:          "PO-001",
			SupplierReference: "SUP-01",
			Lines:             []POLineRequest{poLine("bolt-m8", 100, 2)},
		})
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.True(t, resp.TotalHT.Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects duplicate PO number", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreatePO(context.Background(), CreatePORequest{
			PONumber: "PO-001", SupplierReference: "SUP-01",
			Lines: []POLineRequest{poLine("bolt-m8", 1, 1)},
		})
		require.NoError(t, err)
		_, err = f.svc.CreatePO(context.Background(), CreatePORequest{
			PONumber: "PO-001", SupplierReference: "SUP-02",
			Lines: []POLineRequest{poLine("bolt-m8", 1, 1)},
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestProcurementService_SetPOStatus(t *testing.T) {
	t.Run("drives the validate/send path", func(t *testing.T) {
		f := newFixture(t)
		resp := f.sentPO(t, "PO-010", poLine("bolt-m8", 10, 2))
		assert.Equal(t, "SENT", resp.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.CreatePO(context.Background(), CreatePORequest{
			PONumber: "PO-011", SupplierReference: "SUP-01",
			Lines: []POLineRequest{poLine("bolt-m8", 1, 1)},
		})
		require.NoError(t, err)
		_, err = f.svc.SetPOStatus(context.Background(), resp.ID, SetPOStatusRequest{Status: "SHIPPED"})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects send before validate", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.CreatePO(context.Background(), CreatePORequest{
			PONumber: "PO-012", SupplierReference: "SUP-01",
			Lines: []POLineRequest{poLine("bolt-m8", 1, 1)},
		})
		require.NoError(t, err)
		_, err = f.svc.SetPOStatus(context.Background(), resp.ID, SetPOStatusRequest{Status: string(procurement.POStatusSent)})
		require.Error(t, err)
		assert.True(t, shared.IsPrecondition(err))
	})
}

func TestProcurementService_Receiving(t *testing.T) {
	ctx := context.Background()

	t.Run("opening a receipt flags the PO as partially received", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-020", poLine("bolt-m8", 10, 2))

		gr, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-020", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", gr.Status)
		require.Len(t, gr.Lines, 1)
		// lines are seeded with the full ordered quantity
		assert.True(t, gr.Lines[0].ReceivedQty.Equal(decimal.NewFromInt(10)))

		poAfter, err := f.svc.GetPO(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", poAfter.Status)
	})

	t.Run("validating a full receipt upgrades the PO to received", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-021", poLine("bolt-m8", 10, 2))
		gr, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-021", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)

		validated, err := f.svc.ValidateReceipt(ctx, gr.ID)
		require.NoError(t, err)
		assert.Equal(t, "VALIDATED", validated.Status)

		poAfter, err := f.svc.GetPO(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", poAfter.Status)
	})

	t.Run("partial receipts accumulate across validations", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-022", poLine("bolt-m8", 10, 2))

		gr1, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-022A", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.UpdateReceiptLine(ctx, gr1.ID, UpdateReceiptLineRequest{
			POLineID: gr1.Lines[0].POLineID, ReceivedQty: decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		_, err = f.svc.ValidateReceipt(ctx, gr1.ID)
		require.NoError(t, err)

		poAfter, err := f.svc.GetPO(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", poAfter.Status)

		gr2, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-022B", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.UpdateReceiptLine(ctx, gr2.ID, UpdateReceiptLineRequest{
			POLineID: gr2.Lines[0].POLineID, ReceivedQty: decimal.NewFromInt(6),
		})
		require.NoError(t, err)
		_, err = f.svc.ValidateReceipt(ctx, gr2.ID)
		require.NoError(t, err)

		poAfter, err = f.svc.GetPO(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", poAfter.Status)
	})

	t.Run("draft receipt lines do not count toward the PO", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-023", poLine("bolt-m8", 10, 2))

		gr1, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-023A", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.UpdateReceiptLine(ctx, gr1.ID, UpdateReceiptLineRequest{
			POLineID: gr1.Lines[0].POLineID, ReceivedQty: decimal.NewFromInt(4),
		})
		require.NoError(t, err)

		// second receipt validated alone covers only part of the order
		gr2, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-023B", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.UpdateReceiptLine(ctx, gr2.ID, UpdateReceiptLineRequest{
			POLineID: gr2.Lines[0].POLineID, ReceivedQty: decimal.NewFromInt(6),
		})
		require.NoError(t, err)
		_, err = f.svc.ValidateReceipt(ctx, gr2.ID)
		require.NoError(t, err)

		poAfter, err := f.svc.GetPO(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", poAfter.Status)
	})

	t.Run("receipts cannot be opened against a draft PO", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.CreatePO(ctx, CreatePORequest{
			PONumber: "PO-024", SupplierReference: "SUP-01",
			Lines: []POLineRequest{poLine("bolt-m8", 1, 1)},
		})
		require.NoError(t, err)

		_, err = f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-024", POID: resp.ID, ReceiptDate: time.Now(),
		})
		require.Error(t, err)
		assert.True(t, shared.IsPrecondition(err))
	})
}

func TestProcurementService_SupplierInvoices(t *testing.T) {
	ctx := context.Background()

	createInvoice := func(t *testing.T, f *fixture, number string, poID *uuid.UUID, refs []string) *SupplierInvoiceResponse {
		t.Helper()
		resp, err := f.svc.CreateSupplierInvoice(ctx, CreateSupplierInvoiceRequest{
			InvoiceNumber:     number,
			SupplierReference: "SUP-01",
			POID:              poID,
			ReceiptRefs:       refs,
			IssueDate:         time.Now(),
			DueDate:           time.Now().AddDate(0, 1, 0),
			Lines: []InvoiceLineRequest{{
				Item:        "bolt-m8",
				Quantity:    decimal.NewFromInt(10),
				UnitPriceHT: decimal.NewFromInt(2),
				TaxRate:     decimal.NewFromFloat(0.19),
			}},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("creates an invoice linked to a PO", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-030", poLine("bolt-m8", 10, 2))
		resp := createInvoice(t, f, "SI-030", &po.ID, []string{"GR-030"})

		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "PO-030", resp.PONumber)
		assert.Equal(t, []string{"GR-030"}, []string(resp.ReceiptRefs))
		assert.True(t, resp.Totals.HT.Equal(decimal.NewFromInt(20)))
		assert.True(t, resp.Totals.TTC.Equal(decimal.NewFromFloat(23.8)))
	})

	t.Run("drives the approval lifecycle", func(t *testing.T) {
		f := newFixture(t)
		inv := createInvoice(t, f, "SI-031", nil, nil)

		submitted, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "SUBMITTED"})
		require.NoError(t, err)
		assert.Equal(t, "SUBMITTED", submitted.Status)

		approved, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "APPROVED"})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", approved.Status)

		posted, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "POSTED"})
		require.NoError(t, err)
		assert.Equal(t, "POSTED", posted.Status)
	})

	t.Run("rejection requires a reason and is terminal", func(t *testing.T) {
		f := newFixture(t)
		inv := createInvoice(t, f, "SI-032", nil, nil)
		_, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "SUBMITTED"})
		require.NoError(t, err)

		_, err = f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "REJECTED"})
		require.Error(t, err)

		rejected, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "REJECTED", Reason: "price mismatch"})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", rejected.Status)

		_, err = f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "POSTED"})
		require.Error(t, err)
	})

	t.Run("payments clamp to the remaining due", func(t *testing.T) {
		f := newFixture(t)
		inv := createInvoice(t, f, "SI-033", nil, nil) // TTC 23.8
		_, err := f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "SUBMITTED"})
		require.NoError(t, err)
		_, err = f.svc.SetInvoiceStatus(ctx, inv.ID, SetInvoiceStatusRequest{Status: "APPROVED"})
		require.NoError(t, err)

		resp, applied, err := f.svc.AddPayment(ctx, inv.ID, AddPaymentRequest{Amount: decimal.NewFromInt(20)})
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromInt(20)))
		assert.True(t, resp.Totals.Due.Equal(decimal.NewFromFloat(3.8)))

		resp, applied, err = f.svc.AddPayment(ctx, inv.ID, AddPaymentRequest{Amount: decimal.NewFromInt(50)})
		require.NoError(t, err)
		assert.True(t, applied.Equal(decimal.NewFromFloat(3.8)))
		assert.True(t, resp.Totals.Due.IsZero())
	})
}

func TestProcurementService_MatchInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("OK when invoiced within ordered and received", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-040", poLine("bolt-m8", 10, 2))
		gr, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-040", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.ValidateReceipt(ctx, gr.ID)
		require.NoError(t, err)

		inv, err := f.svc.CreateSupplierInvoice(ctx, CreateSupplierInvoiceRequest{
			InvoiceNumber:     "SI-040",
			SupplierReference: "SUP-01",
			POID:              &po.ID,
			IssueDate:         time.Now(),
			DueDate:           time.Now().AddDate(0, 1, 0),
			Lines: []InvoiceLineRequest{{
				Item: "bolt-m8", Quantity: decimal.NewFromInt(10), UnitPriceHT: decimal.NewFromInt(2),
			}},
		})
		require.NoError(t, err)

		result, err := f.svc.MatchInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.VerdictOK, result.Verdict)
	})

	t.Run("MISSING_PO when the invoice has no PO link", func(t *testing.T) {
		f := newFixture(t)
		inv, err := f.svc.CreateSupplierInvoice(ctx, CreateSupplierInvoiceRequest{
			InvoiceNumber:     "SI-041",
			SupplierReference: "SUP-01",
			IssueDate:         time.Now(),
			DueDate:           time.Now().AddDate(0, 1, 0),
			Lines: []InvoiceLineRequest{{
				Item: "bolt-m8", Quantity: decimal.NewFromInt(1), UnitPriceHT: decimal.NewFromInt(2),
			}},
		})
		require.NoError(t, err)

		result, err := f.svc.MatchInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.VerdictMissingPO, result.Verdict)
	})

	t.Run("MISSING_RECEIPT when no validated receipt exists", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-042", poLine("bolt-m8", 10, 2))
		inv, err := f.svc.CreateSupplierInvoice(ctx, CreateSupplierInvoiceRequest{
			InvoiceNumber:     "SI-042",
			SupplierReference: "SUP-01",
			POID:              &po.ID,
			IssueDate:         time.Now(),
			DueDate:           time.Now().AddDate(0, 1, 0),
			Lines: []InvoiceLineRequest{{
				Item: "bolt-m8", Quantity: decimal.NewFromInt(10), UnitPriceHT: decimal.NewFromInt(2),
			}},
		})
		require.NoError(t, err)

		result, err := f.svc.MatchInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.VerdictMissingReceipt, result.Verdict)
	})

	t.Run("MISMATCH when the invoice over-bills", func(t *testing.T) {
		f := newFixture(t)
		po := f.sentPO(t, "PO-043", poLine("bolt-m8", 10, 2))
		gr, err := f.svc.CreateReceipt(ctx, CreateReceiptRequest{
			GRNumber: "GR-043", POID: po.ID, ReceiptDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = f.svc.ValidateReceipt(ctx, gr.ID)
		require.NoError(t, err)

		inv, err := f.svc.CreateSupplierInvoice(ctx, CreateSupplierInvoiceRequest{
			InvoiceNumber:     "SI-043",
			SupplierReference: "SUP-01",
			POID:              &po.ID,
			IssueDate:         time.Now(),
			DueDate:           time.Now().AddDate(0, 1, 0),
			Lines: []InvoiceLineRequest{{
				Item: "bolt-m8", Quantity: decimal.NewFromInt(12), UnitPriceHT: decimal.NewFromInt(2),
			}},
		})
		require.NoError(t, err)

		result, err := f.svc.MatchInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.VerdictMismatch, result.Verdict)
	})
}
