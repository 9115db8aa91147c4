// Package reconcile performs the post-parse semantic check: the sum of entry
// amounts must equal the stated total, exactly, in minor units of the
// document currency. A mismatch never invalidates the structural verdict; it
// is reported as a separate flag.
package reconcile

import (
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/machine"
	"github.com/FACorreiaa/invoice-parser/pkg/money"
)

// Check recomputes the entry sum of a structurally valid record and compares
// it against the stated total. Foreign entries are converted into the
// document currency using the exchange rate recorded in the document; when a
// rate is missing the foreign amount is left out of the sum rather than
// guessed, which surfaces as a mismatch.
//
// Returns nil when the totals agree or the record has no stated total.
func Check(rec *machine.ParseRecord) *machine.SemanticMismatch {
	if rec == nil || rec.Total == nil {
		return nil
	}

	sum := money.Zero(rec.Currency)
	for _, e := range rec.Entries {
		amount := e.Amount
		if e.Kind == machine.EntryForeign {
			rate, ok := rec.Rates[amount.Currency()]
			if !ok {
				continue
			}
			amount = amount.Convert(rec.Currency, rate)
		}
		next, err := sum.Add(amount)
		if err != nil {
			// Currency clash inside a structurally valid record; treat the
			// offending entry like a missing rate.
			continue
		}
		sum = next
	}

	if sum.Equals(rec.Total) {
		return nil
	}
	return &machine.SemanticMismatch{Expected: sum, Actual: rec.Total}
}
