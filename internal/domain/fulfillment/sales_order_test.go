package fulfillment

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, orderNumber string) *SalesOrder {
	t.Helper()
	order, err := NewSalesOrder(orderNumber, "ACME Industries", time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	return order
}

func addTestLine(t *testing.T, order *SalesOrder, reference string, qty float64) {
	t.Helper()
	err := order.AddLine(uuid.New(), reference, "Product "+reference, decimal.NewFromFloat(qty), decimal.NewFromFloat(10))
	require.NoError(t, err)
}

func TestNewSalesOrder(t *testing.T) {
	tests := []struct {
		name        string
		orderNumber string
		customer    string
		wantErr     bool
	}{
		{
			name:        "valid order",
			orderNumber: "SO-2026-0001",
			customer:    "ACME Industries",
			wantErr:     false,
		},
		{
			name:        "empty order number",
			orderNumber: "",
			customer:    "ACME Industries",
			wantErr:     true,
		},
		{
			name:        "empty customer",
			orderNumber: "SO-2026-0001",
			customer:    "",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewSalesOrder(tt.orderNumber, tt.customer, time.Now().AddDate(0, 0, 7))

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, OrderStatusNew, order.Status)
				assert.Equal(t, StockStateNone, order.StockState)
				assert.Len(t, order.GetDomainEvents(), 1)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusReserved, false},
		{OrderStatusConfirmed, OrderStatusReserved, true},
		{OrderStatusConfirmed, OrderStatusShipped, false},
		{OrderStatusReserved, OrderStatusPrepared, true},
		{OrderStatusPrepared, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusClosed, false},
		{OrderStatusDelivered, OrderStatusClosed, true},
		{OrderStatusClosed, OrderStatusNew, false},
		{OrderStatusReserved, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSalesOrder_AddLine(t *testing.T) {
	t.Run("add line in NEW status", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 5)

		assert.Len(t, order.Lines, 1)
		assert.True(t, order.Lines[0].OrderedQty.Equal(decimal.NewFromInt(5)))
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		productID := uuid.New()
		require.NoError(t, order.AddLine(productID, "PRD-001", "Widget", decimal.NewFromInt(5), decimal.NewFromInt(10)))

		err := order.AddLine(productID, "PRD-001", "Widget", decimal.NewFromInt(3), decimal.NewFromInt(10))
		assert.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("add line after confirmation rejected", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 5)
		require.NoError(t, order.Confirm())

		err := order.AddLine(uuid.New(), "PRD-002", "Gadget", decimal.NewFromInt(1), decimal.NewFromInt(10))
		assert.Error(t, err)
		assert.True(t, shared.IsPrecondition(err))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		err := order.AddLine(uuid.New(), "PRD-001", "Widget", decimal.Zero, decimal.NewFromInt(10))
		assert.Error(t, err)
	})
}

func TestSalesOrder_Confirm(t *testing.T) {
	t.Run("confirm with lines", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 5)

		err := order.Confirm()

		require.NoError(t, err)
		assert.Equal(t, OrderStatusConfirmed, order.Status)
		assert.NotNil(t, order.ConfirmedAt)
	})

	t.Run("confirm without lines rejected", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")

		err := order.Confirm()

		assert.Error(t, err)
		assert.Equal(t, OrderStatusNew, order.Status)
	})
}

func TestSalesOrder_ApplyAllocation(t *testing.T) {
	t.Run("full availability reserves everything", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 10)
		require.NoError(t, order.Confirm())

		err := order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.NewFromInt(50)})

		require.NoError(t, err)
		assert.Equal(t, OrderStatusReserved, order.Status)
		assert.Equal(t, StockStateReserved, order.StockState)
		line := order.LineByReference("PRD-001")
		require.NotNil(t, line)
		assert.True(t, line.ReservedQty.Equal(decimal.NewFromInt(10)))
		assert.True(t, line.BackorderQty.IsZero())
	})

	t.Run("partial availability splits reserved and backorder", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 10)
		require.NoError(t, order.Confirm())

		err := order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.NewFromInt(3)})

		require.NoError(t, err)
		assert.Equal(t, StockStatePartial, order.StockState)
		line := order.LineByReference("PRD-001")
		assert.True(t, line.ReservedQty.Equal(decimal.NewFromInt(3)))
		assert.True(t, line.BackorderQty.Equal(decimal.NewFromInt(7)))
	})

	t.Run("no availability puts everything on backorder", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 10)
		require.NoError(t, order.Confirm())

		err := order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.Zero})

		require.NoError(t, err)
		assert.Equal(t, StockStateBackorder, order.StockState)
	})

	t.Run("two lines of same product drain availability in order", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 4)
		addTestLine(t, order, "PRD-002", 6)
		require.NoError(t, order.Confirm())

		err := order.ApplyAllocation(map[string]decimal.Decimal{
			"PRD-001": decimal.NewFromInt(4),
			"PRD-002": decimal.NewFromInt(2),
		})

		require.NoError(t, err)
		assert.Equal(t, StockStatePartial, order.StockState)
		assert.True(t, order.LineByReference("PRD-001").ReservedQty.Equal(decimal.NewFromInt(4)))
		assert.True(t, order.LineByReference("PRD-002").BackorderQty.Equal(decimal.NewFromInt(4)))
	})

	t.Run("reserve on NEW order rejected, status unchanged", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 10)

		err := order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.NewFromInt(10)})

		assert.Error(t, err)
		assert.True(t, shared.IsPrecondition(err))
		assert.Equal(t, OrderStatusNew, order.Status)
		assert.Equal(t, StockStateNone, order.StockState)
	})
}

func TestDeriveStockState(t *testing.T) {
	line := func(ordered, reserved, backorder int64) OrderLine {
		return OrderLine{
			OrderedQty:   decimal.NewFromInt(ordered),
			ReservedQty:  decimal.NewFromInt(reserved),
			BackorderQty: decimal.NewFromInt(backorder),
		}
	}

	tests := []struct {
		name  string
		lines []OrderLine
		want  StockState
	}{
		{
			name:  "no lines",
			lines: nil,
			want:  StockStateNone,
		},
		{
			name:  "all reserved",
			lines: []OrderLine{line(10, 10, 0)},
			want:  StockStateReserved,
		},
		{
			name:  "all backordered",
			lines: []OrderLine{line(10, 0, 10)},
			want:  StockStateBackorder,
		},
		{
			name:  "partially backordered",
			lines: []OrderLine{line(10, 3, 7)},
			want:  StockStatePartial,
		},
		{
			name:  "mixed lines fully reserved",
			lines: []OrderLine{line(5, 5, 0), line(3, 3, 0)},
			want:  StockStateReserved,
		},
		{
			name:  "one line short across two",
			lines: []OrderLine{line(5, 5, 0), line(5, 3, 2)},
			want:  StockStatePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStockState(tt.lines))
		})
	}
}

func TestSalesOrder_Lifecycle(t *testing.T) {
	order := newTestOrder(t, "SO-2026-0042")
	addTestLine(t, order, "PRD-001", 10)

	require.NoError(t, order.Confirm())
	require.NoError(t, order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.NewFromInt(10)}))
	require.NoError(t, order.MarkPrepared())
	require.NoError(t, order.Ship())
	require.NoError(t, order.MarkDelivered())
	require.NoError(t, order.Close())

	assert.Equal(t, OrderStatusClosed, order.Status)
	assert.NotNil(t, order.ShippedAt)
	assert.NotNil(t, order.DeliveredAt)
	assert.NotNil(t, order.ClosedAt)
	assert.True(t, order.IsDelivered())

	// closed orders accept no further commands
	assert.Error(t, order.Close())
	assert.Error(t, order.Reschedule(time.Now()))
}

func TestSalesOrder_Reschedule(t *testing.T) {
	t.Run("reschedule before shipping", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		newDate := time.Now().AddDate(0, 0, 14)

		err := order.Reschedule(newDate)

		require.NoError(t, err)
		assert.Equal(t, newDate, order.PromisedDate)
	})

	t.Run("reschedule after shipping rejected", func(t *testing.T) {
		order := newTestOrder(t, "SO-2026-0001")
		addTestLine(t, order, "PRD-001", 1)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.ApplyAllocation(map[string]decimal.Decimal{"PRD-001": decimal.NewFromInt(1)}))
		require.NoError(t, order.MarkPrepared())
		require.NoError(t, order.Ship())

		err := order.Reschedule(time.Now())

		assert.Error(t, err)
		assert.True(t, shared.IsPrecondition(err))
	})
}

func TestSalesOrder_Totals(t *testing.T) {
	order := newTestOrder(t, "SO-2026-0001")
	require.NoError(t, order.AddLine(uuid.New(), "PRD-001", "Widget", decimal.NewFromInt(3), decimal.NewFromFloat(2.5)))
	require.NoError(t, order.AddLine(uuid.New(), "PRD-002", "Gadget", decimal.NewFromInt(2), decimal.NewFromInt(10)))

	assert.True(t, order.TotalQuantity().Equal(decimal.NewFromInt(5)))
	assert.True(t, order.TotalAmount().Equal(decimal.NewFromFloat(27.5)))
}
