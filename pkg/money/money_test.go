package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromString(t *testing.T) {
	t.Run("parses US format", func(t *testing.T) {
		m, err := NewFromString("1,234.56", EUR, false)
		require.NoError(t, err)
		assert.Equal(t, int64(123456), m.Amount())
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("parses European format", func(t *testing.T) {
		m, err := NewFromString("1.234,56", EUR, true)
		require.NoError(t, err)
		assert.Equal(t, int64(123456), m.Amount())
	})

	t.Run("strips currency symbols", func(t *testing.T) {
		m, err := NewFromString("€ 4.50", EUR, false)
		require.NoError(t, err)
		assert.Equal(t, int64(450), m.Amount())
	})

	t.Run("handles negatives and parentheses", func(t *testing.T) {
		m, err := NewFromString("-4.50", EUR, false)
		require.NoError(t, err)
		assert.Equal(t, int64(-450), m.Amount())

		m, err = NewFromString("(4.50)", EUR, false)
		require.NoError(t, err)
		assert.Equal(t, int64(-450), m.Amount())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewFromString("abc", EUR, false)
		assert.Error(t, err)
	})
}

func TestArithmetic(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		sum, err := New(1000, EUR).Add(New(2000, EUR))
		require.NoError(t, err)
		assert.Equal(t, int64(3000), sum.Amount())
	})

	t.Run("refuses mixed currencies", func(t *testing.T) {
		_, err := New(1000, EUR).Add(New(2000, USD))
		assert.Error(t, err)
	})

	t.Run("nil behaves as zero", func(t *testing.T) {
		var m *Money
		assert.True(t, m.IsZero())
		sum, err := m.Add(New(500, EUR))
		require.NoError(t, err)
		assert.Equal(t, int64(500), sum.Amount())
		assert.True(t, m.Equals(Zero(EUR)))
	})
}

func TestConvert(t *testing.T) {
	// 120.00 USD at 0.92 EUR per USD
	m := New(12000, USD)
	converted := m.Convert(EUR, decimal.NewFromFloat(0.92))
	assert.Equal(t, int64(11040), converted.Amount())
	assert.Equal(t, EUR, converted.Currency())
}

func TestString(t *testing.T) {
	assert.Equal(t, "30.00", New(3000, EUR).String())
	assert.Equal(t, "-4.50", New(-450, EUR).String())
}
