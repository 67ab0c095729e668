package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, reference string, qty, minThreshold int64) *Product {
	t.Helper()
	p, err := NewProduct(reference, "Test Product", "hardware", "pcs", decimal.NewFromInt(minThreshold))
	require.NoError(t, err)
	if qty > 0 {
		_, _, err = p.ApplyMovement(MovementTypeIn, decimal.NewFromInt(qty))
		require.NoError(t, err)
	}
	return p
}

func TestMovementType_IsValid(t *testing.T) {
	tests := []struct {
		movementType MovementType
		isValid      bool
	}{
		{MovementTypeIn, true},
		{MovementTypeOut, true},
		{MovementTypeAdjustment, true},
		{MovementType("TRANSFER"), false},
		{MovementType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.movementType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.movementType.IsValid())
		})
	}
}

func TestNewMovement(t *testing.T) {
	product := newTestProduct(t, "PRD-001", 10, 2)

	t.Run("creates movement with balances", func(t *testing.T) {
		before, after, err := product.ApplyMovement(MovementTypeOut, decimal.NewFromInt(4))
		require.NoError(t, err)

		m, err := NewMovement(product, MovementTypeOut, decimal.NewFromInt(4), before, after, MovementSourceShipment, "SHP-001")
		require.NoError(t, err)
		assert.Equal(t, product.ID, m.ProductID)
		assert.Equal(t, "PRD-001", m.ProductReference)
		assert.True(t, m.BalanceBefore.Equal(decimal.NewFromInt(10)))
		assert.True(t, m.BalanceAfter.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, "SHP-001", m.RefDocument)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewMovement(nil, MovementTypeIn, decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1), MovementSourceManual, "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity for IN and OUT", func(t *testing.T) {
		for _, mt := range []MovementType{MovementTypeIn, MovementTypeOut} {
			_, err := NewMovement(product, mt, decimal.Zero, decimal.Zero, decimal.Zero, MovementSourceManual, "")
			assert.Error(t, err)
			_, err = NewMovement(product, mt, decimal.NewFromInt(-3), decimal.Zero, decimal.Zero, MovementSourceManual, "")
			assert.Error(t, err)
		}
	})

	t.Run("accepts negative adjustment delta", func(t *testing.T) {
		m, err := NewMovement(product, MovementTypeAdjustment, decimal.NewFromInt(-3), decimal.NewFromInt(6), decimal.NewFromInt(3), MovementSourceInventory, "CNT-001")
		require.NoError(t, err)
		assert.True(t, m.SignedQuantity().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects zero adjustment delta", func(t *testing.T) {
		_, err := NewMovement(product, MovementTypeAdjustment, decimal.Zero, decimal.Zero, decimal.Zero, MovementSourceInventory, "")
		assert.Error(t, err)
	})

	t.Run("rejects empty source", func(t *testing.T) {
		_, err := NewMovement(product, MovementTypeIn, decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(1), "", "")
		assert.Error(t, err)
	})
}

func TestMovement_SignedQuantity(t *testing.T) {
	product := newTestProduct(t, "PRD-002", 10, 2)

	out, err := NewMovement(product, MovementTypeOut, decimal.NewFromInt(4), decimal.NewFromInt(10), decimal.NewFromInt(6), MovementSourceShipment, "")
	require.NoError(t, err)
	assert.True(t, out.SignedQuantity().Equal(decimal.NewFromInt(-4)))

	in, err := NewMovement(product, MovementTypeIn, decimal.NewFromInt(4), decimal.NewFromInt(6), decimal.NewFromInt(10), MovementSourceReceiving, "")
	require.NoError(t, err)
	assert.True(t, in.SignedQuantity().Equal(decimal.NewFromInt(4)))
}

func TestReplay(t *testing.T) {
	mk := func(mt MovementType, qty int64) Movement {
		return Movement{Type: mt, Quantity: decimal.NewFromInt(qty)}
	}

	t.Run("folds ordered movements into quantity on hand", func(t *testing.T) {
		movements := []Movement{
			mk(MovementTypeIn, 10),
			mk(MovementTypeOut, 3),
			mk(MovementTypeAdjustment, -2),
			mk(MovementTypeIn, 5),
		}
		assert.True(t, Replay(movements).Equal(decimal.NewFromInt(10)))
	})

	t.Run("OUT larger than stock floors at zero", func(t *testing.T) {
		movements := []Movement{
			mk(MovementTypeIn, 4),
			mk(MovementTypeOut, 9),
			mk(MovementTypeIn, 2),
		}
		assert.True(t, Replay(movements).Equal(decimal.NewFromInt(2)))
	})

	t.Run("negative adjustment floors at zero", func(t *testing.T) {
		movements := []Movement{
			mk(MovementTypeIn, 3),
			mk(MovementTypeAdjustment, -7),
		}
		assert.True(t, Replay(movements).IsZero())
	})

	t.Run("replay matches live application", func(t *testing.T) {
		product := newTestProduct(t, "PRD-003", 0, 2)
		log := make([]Movement, 0)

		steps := []struct {
			movementType MovementType
			qty          int64
		}{
			{MovementTypeIn, 10},
			{MovementTypeOut, 15},
			{MovementTypeIn, 7},
			{MovementTypeAdjustment, -2},
			{MovementTypeOut, 1},
		}
		for _, step := range steps {
			qty := decimal.NewFromInt(step.qty)
			before, after, err := product.ApplyMovement(step.movementType, qty)
			require.NoError(t, err)
			m, err := NewMovement(product, step.movementType, qty, before, after, MovementSourceManual, "")
			require.NoError(t, err)
			log = append(log, *m)
		}

		assert.True(t, Replay(log).Equal(product.QuantityOnHand))
	})
}
