package stock

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/stock"
	"github.com/erp/ledger/internal/testsupport/memrepo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*StockService, *memrepo.ProductRepo, *memrepo.MovementRepo, *memrepo.EventRecorder) {
	t.Helper()
	productRepo := memrepo.NewProductRepo()
	movementRepo := memrepo.NewMovementRepo()
	svc := NewStockService(productRepo, movementRepo, NewNoOpTransactionScope(productRepo, movementRepo))
	recorder := memrepo.NewEventRecorder()
	svc.SetEventPublisher(recorder)
	return svc, productRepo, movementRepo, recorder
}

func seedProduct(t *testing.T, svc *StockService, reference string, onHand int64) *ProductResponse {
	t.Helper()
	resp, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Reference:    reference,
		Name:         "Test " + reference,
		Category:     "hardware",
		Unit:         "pcs",
		MinThreshold: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	if onHand > 0 {
		resp, err = svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: reference,
			Type:             stock.MovementTypeIn.String(),
			Quantity:         decimal.NewFromInt(onHand),
		})
		require.NoError(t, err)
	}
	return resp
}

func TestStockService_CreateProduct(t *testing.T) {
	t.Run("registers product", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		resp, err := svc.CreateProduct(context.Background(), CreateProductRequest{
			Reference: "PRD-001", Name: "Steel Bracket", Unit: "pcs",
		})
		require.NoError(t, err)
		assert.Equal(t, "PRD-001", resp.Reference)
		assert.True(t, resp.QuantityOnHand.IsZero())
	})

	t.Run("rejects duplicate reference", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		seedProduct(t, svc, "PRD-001", 0)
		_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
			Reference: "PRD-001", Name: "Other", Unit: "pcs",
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestStockService_RecordMovement(t *testing.T) {
	t.Run("IN movement updates balance and appends to the log", func(t *testing.T) {
		svc, _, movementRepo, _ := newTestService(t)
		seedProduct(t, svc, "PRD-010", 0)

		resp, err := svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: "PRD-010",
			Type:             stock.MovementTypeIn.String(),
			Quantity:         decimal.NewFromInt(12),
			RefDocument:      "GR-001",
		})
		require.NoError(t, err)
		assert.True(t, resp.QuantityOnHand.Equal(decimal.NewFromInt(12)))

		movements, err := movementRepo.FindAll(context.Background(), shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, stock.MovementTypeIn, movements[0].Type)
		assert.True(t, movements[0].BalanceBefore.IsZero())
		assert.True(t, movements[0].BalanceAfter.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, stock.MovementSourceManual, movements[0].Source)
		assert.Equal(t, "GR-001", movements[0].RefDocument)
	})

	t.Run("OUT movement clamps at zero and records the effective balance", func(t *testing.T) {
		svc, _, movementRepo, _ := newTestService(t)
		seedProduct(t, svc, "PRD-011", 4)

		resp, err := svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: "PRD-011",
			Type:             stock.MovementTypeOut.String(),
			Quantity:         decimal.NewFromInt(9),
		})
		require.NoError(t, err)
		assert.True(t, resp.QuantityOnHand.IsZero())

		movements, err := movementRepo.FindAll(context.Background(), shared.DefaultFilter())
		require.NoError(t, err)
		last := movements[len(movements)-1]
		assert.True(t, last.BalanceBefore.Equal(decimal.NewFromInt(4)))
		assert.True(t, last.BalanceAfter.IsZero())
	})

	t.Run("publishes movement recorded event", func(t *testing.T) {
		svc, _, _, recorder := newTestService(t)
		seedProduct(t, svc, "PRD-012", 0)
		recorderBefore := len(recorder.Events())

		_, err := svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: "PRD-012",
			Type:             stock.MovementTypeIn.String(),
			Quantity:         decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Contains(t, recorder.EventTypes()[recorderBefore:], stock.EventTypeMovementRecorded)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: "PRD-MISSING",
			Type:             stock.MovementTypeIn.String(),
			Quantity:         decimal.NewFromInt(1),
		})
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects invalid type without touching the log", func(t *testing.T) {
		svc, _, movementRepo, _ := newTestService(t)
		seedProduct(t, svc, "PRD-013", 3)
		countBefore, err := movementRepo.Count(context.Background(), shared.DefaultFilter())
		require.NoError(t, err)

		_, err = svc.RecordMovement(context.Background(), RecordMovementRequest{
			ProductReference: "PRD-013",
			Type:             "TRANSFER",
			Quantity:         decimal.NewFromInt(1),
		})
		require.Error(t, err)

		countAfter, err := movementRepo.Count(context.Background(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, countBefore, countAfter)
	})
}

func TestStockService_ListAlerts(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	seedProduct(t, svc, "PRD-020", 1) // below threshold of 2
	seedProduct(t, svc, "PRD-021", 10)
	seedProduct(t, svc, "PRD-022", 0) // out of stock

	alerts, err := svc.ListAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
	refs := []string{alerts[0].ProductReference, alerts[1].ProductReference}
	assert.Contains(t, refs, "PRD-020")
	assert.Contains(t, refs, "PRD-022")
}
