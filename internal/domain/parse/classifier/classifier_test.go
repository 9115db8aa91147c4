package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := New(Config{})

	tests := []struct {
		name string
		line string
		want LineClass
	}{
		{"blank", "   ", ClassBlank},
		{"empty", "", ClassBlank},
		{"pagination", "Page 1 of 2", ClassPagination},
		{"pagination continued", "continued on next page", ClassPagination},
		{"exchange", "Exchange Rate: USD = 0.92", ClassExchange},
		{"total", "Total: 30.00", ClassTotal},
		{"total without colon", "TOTAL 1.234,56", ClassTotal},
		{"entry local", "2026-01-15  Coffee beans  4.50", ClassEntryLocal},
		{"entry local tabs", "2026-01-15\tCoffee beans\t4.50", ClassEntryLocal},
		{"entry local slash date", "15/01/2026  Coffee beans  4.50", ClassEntryLocal},
		{"entry foreign", "2026-01-15  Consulting  USD 120.00", ClassEntryForeign},
		{"entry negative", "2026-01-15  Refund  -4.50", ClassEntryLocal},
		{"header invoice", "Invoice No: INV-1001", ClassHeader},
		{"header customer", "Customer: Acme GmbH", ClassHeader},
		{"header currency", "Currency: EUR", ClassHeader},
		{"unknown label", "Remarks: see attachment", ClassUnrecognized},
		{"garbage", "!!! lorem ipsum", ClassUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	c := New(Config{})

	t.Run("currency-prefixed amount is an entry, not a total", func(t *testing.T) {
		assert.Equal(t, ClassEntryForeign, c.Classify("2026-01-15  Fees  USD 10.00"))
	})

	t.Run("total wins over header label shape", func(t *testing.T) {
		// "Total: 30.00" also matches the label shape; the rule order must
		// classify it as total.
		assert.Equal(t, ClassTotal, c.Classify("Total: 30.00"))
	})

	t.Run("classification is stateless and repeatable", func(t *testing.T) {
		line := "2026-01-15  Coffee  4.50"
		first := c.Classify(line)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, c.Classify(line))
		}
	})
}

func TestClassifyFuzzyLabels(t *testing.T) {
	t.Run("off by default", func(t *testing.T) {
		c := New(Config{})
		assert.Equal(t, ClassUnrecognized, c.Classify("Totai: 25.00"))
	})

	t.Run("near-miss total", func(t *testing.T) {
		c := New(Config{FuzzyLabels: true})
		assert.Equal(t, ClassTotal, c.Classify("Totai: 25.00"))
	})

	t.Run("near-miss header label", func(t *testing.T) {
		c := New(Config{FuzzyLabels: true})
		assert.Equal(t, ClassHeader, c.Classify("Custmer: Acme GmbH"))
	})
}

func TestParseHelpers(t *testing.T) {
	t.Run("header field", func(t *testing.T) {
		name, value, ok := ParseHeaderField("Invoice No: INV-1001")
		require.True(t, ok)
		assert.Equal(t, "Invoice No", name)
		assert.Equal(t, "INV-1001", value)
	})

	t.Run("local entry", func(t *testing.T) {
		parts, ok := ParseEntry("2026-01-15  Coffee beans  4.50")
		require.True(t, ok)
		assert.Equal(t, "2026-01-15", parts.Date)
		assert.Equal(t, "Coffee beans", parts.Description)
		assert.Equal(t, "4.50", parts.Amount)
		assert.Empty(t, parts.Currency)
	})

	t.Run("foreign entry", func(t *testing.T) {
		parts, ok := ParseEntry("2026-01-15  Consulting  USD 120.00")
		require.True(t, ok)
		assert.Equal(t, "USD", parts.Currency)
		assert.Equal(t, "120.00", parts.Amount)
	})

	t.Run("total", func(t *testing.T) {
		amount, ok := ParseTotal("Total: 30.00")
		require.True(t, ok)
		assert.Equal(t, "30.00", amount)
	})

	t.Run("exchange rate", func(t *testing.T) {
		code, rate, ok := ParseExchangeRate("Exchange Rate: USD = 0.92")
		require.True(t, ok)
		assert.Equal(t, "USD", code)
		assert.Equal(t, "0.92", rate)
	})
}
