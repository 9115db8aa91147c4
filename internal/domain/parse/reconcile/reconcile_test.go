package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/machine"
)

func parseDoc(t *testing.T, lines []string) *machine.ParseRecord {
	t.Helper()
	d := machine.NewDriver(machine.Config{})
	rec, verdict := d.Parse(lines)
	require.True(t, verdict.Valid(), "fixture must be structurally valid: %+v", verdict)
	return rec
}

func TestCheck(t *testing.T) {
	t.Run("matching total passes", func(t *testing.T) {
		rec := parseDoc(t, []string{
			"Invoice No: INV-1",
			"2026-01-15  First  10.00",
			"2026-01-16  Second  20.00",
			"Total: 30.00",
		})
		assert.Nil(t, Check(rec))
	})

	t.Run("mismatched total reports expected vs actual", func(t *testing.T) {
		rec := parseDoc(t, []string{
			"Invoice No: INV-2",
			"2026-01-15  First  10.00",
			"2026-01-16  Second  20.00",
			"Total: 25.00",
		})
		mismatch := Check(rec)
		require.NotNil(t, mismatch)
		assert.Equal(t, int64(3000), mismatch.Expected.Amount())
		assert.Equal(t, int64(2500), mismatch.Actual.Amount())
	})

	t.Run("negative entries are signed", func(t *testing.T) {
		rec := parseDoc(t, []string{
			"Invoice No: INV-3",
			"2026-01-15  Item  30.00",
			"2026-01-16  Credit note  -5.00",
			"Total: 25.00",
		})
		assert.Nil(t, Check(rec))
	})

	t.Run("foreign entry converted by recorded rate", func(t *testing.T) {
		rec := parseDoc(t, []string{
			"Currency: EUR",
			"2026-01-15  Consulting  USD 120.00",
			"Exchange Rate: USD = 0.92",
			"Total: 110.40",
		})
		assert.Nil(t, Check(rec))
	})

	t.Run("foreign entry without rate mismatches instead of guessing", func(t *testing.T) {
		rec := parseDoc(t, []string{
			"Currency: EUR",
			"2026-01-15  Local  10.00",
			"2026-01-16  Consulting  USD 120.00",
			"Total: 120.40",
		})
		mismatch := Check(rec)
		require.NotNil(t, mismatch)
		// Only the local sum could be computed.
		assert.Equal(t, int64(1000), mismatch.Expected.Amount())
	})

	t.Run("nil total is not checked", func(t *testing.T) {
		assert.Nil(t, Check(&machine.ParseRecord{Currency: "EUR"}))
		assert.Nil(t, Check(nil))
	})
}
