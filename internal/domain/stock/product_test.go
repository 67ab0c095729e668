package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		p, err := NewProduct("PRD-100", "Steel Bracket", "hardware", "pcs", decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Equal(t, "PRD-100", p.Reference)
		assert.Equal(t, "Steel Bracket", p.Name)
		assert.True(t, p.QuantityOnHand.IsZero())
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		_, err := NewProduct("", "Steel Bracket", "hardware", "pcs", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("PRD-100", "", "hardware", "pcs", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative threshold", func(t *testing.T) {
		_, err := NewProduct("PRD-100", "Steel Bracket", "hardware", "pcs", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestProduct_ApplyMovement(t *testing.T) {
	t.Run("IN adds quantity", func(t *testing.T) {
		p := newTestProduct(t, "PRD-101", 0, 2)
		before, after, err := p.ApplyMovement(MovementTypeIn, decimal.NewFromInt(8))
		require.NoError(t, err)
		assert.True(t, before.IsZero())
		assert.True(t, after.Equal(decimal.NewFromInt(8)))
		assert.True(t, p.QuantityOnHand.Equal(decimal.NewFromInt(8)))
	})

	t.Run("OUT subtracts quantity", func(t *testing.T) {
		p := newTestProduct(t, "PRD-102", 8, 2)
		_, after, err := p.ApplyMovement(MovementTypeOut, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(5)))
	})

	t.Run("OUT never drives quantity below zero", func(t *testing.T) {
		p := newTestProduct(t, "PRD-103", 4, 2)
		before, after, err := p.ApplyMovement(MovementTypeOut, decimal.NewFromInt(9))
		require.NoError(t, err)
		assert.True(t, before.Equal(decimal.NewFromInt(4)))
		assert.True(t, after.IsZero())
		assert.True(t, p.QuantityOnHand.IsZero())
	})

	t.Run("ADJUSTMENT applies signed delta", func(t *testing.T) {
		p := newTestProduct(t, "PRD-104", 10, 2)
		_, after, err := p.ApplyMovement(MovementTypeAdjustment, decimal.NewFromInt(-3))
		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(7)))

		_, after, err = p.ApplyMovement(MovementTypeAdjustment, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(12)))
	})

	t.Run("negative ADJUSTMENT floors at zero", func(t *testing.T) {
		p := newTestProduct(t, "PRD-105", 3, 2)
		_, after, err := p.ApplyMovement(MovementTypeAdjustment, decimal.NewFromInt(-10))
		require.NoError(t, err)
		assert.True(t, after.IsZero())
	})

	t.Run("rejects non-positive IN and OUT quantities", func(t *testing.T) {
		p := newTestProduct(t, "PRD-106", 3, 2)
		_, _, err := p.ApplyMovement(MovementTypeIn, decimal.Zero)
		assert.Error(t, err)
		_, _, err = p.ApplyMovement(MovementTypeOut, decimal.NewFromInt(-1))
		assert.Error(t, err)
		assert.True(t, p.QuantityOnHand.Equal(decimal.NewFromInt(3)), "failed movement must not mutate quantity")
	})

	t.Run("emits depletion event when stock reaches zero", func(t *testing.T) {
		p := newTestProduct(t, "PRD-107", 2, 2)
		p.ClearDomainEvents()
		_, _, err := p.ApplyMovement(MovementTypeOut, decimal.NewFromInt(2))
		require.NoError(t, err)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockDepleted, events[0].EventType())
	})

	t.Run("emits threshold event when stock falls to threshold", func(t *testing.T) {
		p := newTestProduct(t, "PRD-108", 10, 4)
		p.ClearDomainEvents()
		_, _, err := p.ApplyMovement(MovementTypeOut, decimal.NewFromInt(7))
		require.NoError(t, err)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
	})
}

func TestProduct_StockLevelPredicates(t *testing.T) {
	tests := []struct {
		name       string
		qty        int64
		threshold  int64
		outOfStock bool
		lowStock   bool
	}{
		{"zero quantity is out of stock", 0, 5, true, false},
		{"at threshold is low stock", 5, 5, false, true},
		{"below threshold is low stock", 2, 5, false, true},
		{"above threshold is neither", 9, 5, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct(t, "PRD-110", tt.qty, tt.threshold)
			assert.Equal(t, tt.outOfStock, p.IsOutOfStock())
			assert.Equal(t, tt.lowStock, p.IsLowStock())
		})
	}
}
