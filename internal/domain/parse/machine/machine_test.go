package machine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/classifier"
)

func wellFormedDoc() []string {
	return []string{
		"Invoice No: INV-1001",
		"Date: 2026-01-15",
		"Customer: Acme GmbH",
		"Currency: EUR",
		"",
		"2026-01-15  Coffee beans  10.00",
		"2026-01-16  Filter paper  20.00",
		"Total: 30.00",
	}
}

func TestParse(t *testing.T) {
	t.Run("well-formed document is valid with ordered entries", func(t *testing.T) {
		d := NewDriver(Config{})
		rec, verdict := d.Parse(wellFormedDoc())

		require.True(t, verdict.Valid())
		assert.Equal(t, StateTerminal, verdict.LastState)
		require.Len(t, rec.Entries, 2)
		assert.Equal(t, "Coffee beans", rec.Entries[0].Description)
		assert.Equal(t, "Filter paper", rec.Entries[1].Description)
		assert.Equal(t, int64(1000), rec.Entries[0].Amount.Amount())
		assert.Equal(t, int64(2000), rec.Entries[1].Amount.Amount())
		require.NotNil(t, rec.Total)
		assert.Equal(t, int64(3000), rec.Total.Amount())
	})

	t.Run("reparse is idempotent", func(t *testing.T) {
		d := NewDriver(Config{})
		rec1, v1 := d.Parse(wellFormedDoc())
		rec2, v2 := d.Parse(wellFormedDoc())

		assert.Equal(t, v1, v2)
		assert.Equal(t, rec1, rec2)
	})

	t.Run("repeated entries self-loop preserving order", func(t *testing.T) {
		lines := []string{"Invoice No: INV-2"}
		for i := 0; i < 50; i++ {
			lines = append(lines, "2026-01-15  Item  1.00")
		}
		lines = append(lines, "Total: 50.00")

		d := NewDriver(Config{})
		rec, verdict := d.Parse(lines)
		require.True(t, verdict.Valid())
		assert.Len(t, rec.Entries, 50)
		for i, e := range rec.Entries {
			assert.Equal(t, i+2, e.Line)
		}
	})

	t.Run("pagination block consumed when present", func(t *testing.T) {
		lines := []string{
			"Invoice No: INV-3",
			"2026-01-15  Item one  5.00",
			"Page 1 of 2",
			"Invoice No: INV-3",
			"2026-01-15  Item two  5.00",
			"Total: 10.00",
		}
		d := NewDriver(Config{})
		rec, verdict := d.Parse(lines)
		require.True(t, verdict.Valid())
		assert.Len(t, rec.Entries, 2)
		assert.Equal(t, 1, rec.Pages)
		// The repeated page header is consumed, not re-accumulated.
		assert.Len(t, rec.Header, 1)
	})

	t.Run("document without pagination still valid", func(t *testing.T) {
		d := NewDriver(Config{})
		_, verdict := d.Parse(wellFormedDoc())
		assert.True(t, verdict.Valid())
	})

	t.Run("truncated document reports last state", func(t *testing.T) {
		lines := []string{
			"Invoice No: INV-4",
			"2026-01-15  Item  5.00",
		}
		d := NewDriver(Config{})
		_, verdict := d.Parse(lines)
		require.False(t, verdict.Valid())
		assert.Equal(t, ReasonTruncated, verdict.Reason)
		assert.Equal(t, StateEntry, verdict.LastState)
		assert.Zero(t, verdict.Line)
	})

	t.Run("empty input is truncation at INIT", func(t *testing.T) {
		d := NewDriver(Config{})
		_, verdict := d.Parse(nil)
		require.False(t, verdict.Valid())
		assert.Equal(t, ReasonTruncated, verdict.Reason)
		assert.Equal(t, StateInit, verdict.LastState)
	})

	t.Run("content after total is structural", func(t *testing.T) {
		lines := append(wellFormedDoc(), "", "2026-01-17  Late item  1.00")
		d := NewDriver(Config{})
		_, verdict := d.Parse(lines)
		require.False(t, verdict.Valid())
		assert.Equal(t, ReasonNoTransition, verdict.Reason)
		assert.Equal(t, len(lines), verdict.Line)
		assert.Equal(t, classifier.ClassEntryLocal, verdict.Class)
		assert.Equal(t, StateError, verdict.LastState)
	})

	t.Run("halts at first structural error", func(t *testing.T) {
		lines := []string{
			"Invoice No: INV-5",
			"~~~ not a statement line ~~~",
			"2026-01-15  Never reached  5.00",
			"Total: 5.00",
		}
		d := NewDriver(Config{})
		rec, verdict := d.Parse(lines)
		require.False(t, verdict.Valid())
		assert.Equal(t, 2, verdict.Line)
		assert.Equal(t, classifier.ClassUnrecognized, verdict.Class)
		// Nothing past the failure line was consumed.
		assert.Empty(t, rec.Entries)
		assert.Nil(t, rec.Total)
	})
}

func TestParseCurrencyHandling(t *testing.T) {
	t.Run("currency header drives entry currency", func(t *testing.T) {
		lines := []string{
			"Currency: USD",
			"2026-01-15  Item  5.00",
			"Total: 5.00",
		}
		d := NewDriver(Config{})
		rec, verdict := d.Parse(lines)
		require.True(t, verdict.Valid())
		assert.Equal(t, "USD", rec.Currency)
		assert.Equal(t, "USD", rec.Entries[0].Amount.Currency())
		assert.Equal(t, "USD", rec.Total.Currency())
	})

	t.Run("foreign entries keep their currency and rates are recorded", func(t *testing.T) {
		lines := []string{
			"Currency: EUR",
			"2026-01-15  Consulting  USD 120.00",
			"Exchange Rate: USD = 0.92",
			"Total: 110.40",
		}
		d := NewDriver(Config{})
		rec, verdict := d.Parse(lines)
		require.True(t, verdict.Valid())
		require.Len(t, rec.Entries, 1)
		assert.Equal(t, EntryForeign, rec.Entries[0].Kind)
		assert.Equal(t, "USD", rec.Entries[0].Amount.Currency())
		rate, ok := rec.Rates["USD"]
		require.True(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromFloat(0.92)))
	})

	t.Run("european amounts", func(t *testing.T) {
		lines := []string{
			"Invoice No: INV-6",
			"2026-01-15  Grosse Lieferung  1.234,56",
			"Total: 1.234,56",
		}
		d := NewDriver(Config{EuropeanAmounts: true})
		rec, verdict := d.Parse(lines)
		require.True(t, verdict.Valid())
		assert.Equal(t, int64(123456), rec.Entries[0].Amount.Amount())
		assert.Equal(t, int64(123456), rec.Total.Amount())
	})

	t.Run("bad currency header is rejected with line context", func(t *testing.T) {
		lines := []string{"Currency: EURO"}
		d := NewDriver(Config{})
		_, verdict := d.Parse(lines)
		require.False(t, verdict.Valid())
		assert.Equal(t, 1, verdict.Line)
		assert.Contains(t, verdict.Reason, "currency")
	})
}

func TestWriteDOT(t *testing.T) {
	d := NewDriver(Config{})
	var sb strings.Builder
	require.NoError(t, d.WriteDOT(&sb))

	out := sb.String()
	assert.Contains(t, out, "digraph statement_parser {")
	assert.Contains(t, out, `INIT -> HEADER [label="header"];`)
	assert.Contains(t, out, `ENTRY -> TERMINAL [label="total"];`)

	// Deterministic output.
	var sb2 strings.Builder
	require.NoError(t, d.WriteDOT(&sb2))
	assert.Equal(t, out, sb2.String())
}
