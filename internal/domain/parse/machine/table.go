package machine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/classifier"
	"github.com/FACorreiaa/invoice-parser/pkg/money"
)

type transitionKey struct {
	state State
	class classifier.LineClass
}

// action mutates the record for one consumed line. Actions only append;
// nothing is ever removed from a ParseRecord.
type action func(d *Driver, rec *ParseRecord, line string, lineNum int) error

type transition struct {
	next  State
	apply action
}

type transitionTable map[transitionKey]transition

// buildTable declares the complete transition relation. Any (state, class)
// pair missing here is a structural error. Pagination and exchange blocks are
// optional: ENTRY has a "present" transition into them and direct transitions
// to TOTAL or further entries that skip them, each keyed by a distinct class.
func buildTable() transitionTable {
	return transitionTable{
		{StateInit, classifier.ClassBlank}:  {StateInit, nil},
		{StateInit, classifier.ClassHeader}: {StateHeader, applyHeader},

		{StateHeader, classifier.ClassHeader}:       {StateHeader, applyHeader},
		{StateHeader, classifier.ClassBlank}:        {StateHeader, nil},
		{StateHeader, classifier.ClassEntryLocal}:   {StateEntry, applyEntry},
		{StateHeader, classifier.ClassEntryForeign}: {StateEntry, applyEntry},

		{StateEntry, classifier.ClassEntryLocal}:   {StateEntry, applyEntry},
		{StateEntry, classifier.ClassEntryForeign}: {StateEntry, applyEntry},
		{StateEntry, classifier.ClassBlank}:        {StateEntry, nil},
		{StateEntry, classifier.ClassPagination}:   {StatePagination, applyPage},
		{StateEntry, classifier.ClassExchange}:     {StateExchange, applyExchange},
		{StateEntry, classifier.ClassTotal}:        {StateTerminal, applyTotal},

		// A page break may repeat the page header before entries resume.
		{StatePagination, classifier.ClassBlank}:        {StatePagination, nil},
		{StatePagination, classifier.ClassHeader}:       {StatePagination, nil},
		{StatePagination, classifier.ClassEntryLocal}:   {StateEntry, applyEntry},
		{StatePagination, classifier.ClassEntryForeign}: {StateEntry, applyEntry},
		{StatePagination, classifier.ClassTotal}:        {StateTerminal, applyTotal},

		{StateExchange, classifier.ClassExchange}:     {StateExchange, applyExchange},
		{StateExchange, classifier.ClassBlank}:        {StateExchange, nil},
		{StateExchange, classifier.ClassEntryLocal}:   {StateEntry, applyEntry},
		{StateExchange, classifier.ClassEntryForeign}: {StateEntry, applyEntry},
		{StateExchange, classifier.ClassTotal}:        {StateTerminal, applyTotal},

		// Trailing blank lines after the total are harmless.
		{StateTerminal, classifier.ClassBlank}: {StateTerminal, nil},
	}
}

func applyHeader(d *Driver, rec *ParseRecord, line string, _ int) error {
	name, value, ok := classifier.ParseHeaderField(line)
	if !ok {
		return fmt.Errorf("malformed header line %q", line)
	}
	rec.Header = append(rec.Header, HeaderField{Name: name, Value: value})

	if strings.EqualFold(name, "currency") {
		code := strings.ToUpper(strings.TrimSpace(value))
		if len(code) != 3 {
			return fmt.Errorf("invalid currency code %q", value)
		}
		rec.Currency = code
	}
	return nil
}

func applyEntry(d *Driver, rec *ParseRecord, line string, lineNum int) error {
	parts, ok := classifier.ParseEntry(line)
	if !ok {
		return fmt.Errorf("malformed entry line %q", line)
	}

	kind := EntryLocal
	currency := rec.Currency
	if parts.Currency != "" {
		kind = EntryForeign
		currency = parts.Currency
	}

	amount, err := money.NewFromString(parts.Amount, currency, d.cfg.EuropeanAmounts)
	if err != nil {
		return fmt.Errorf("entry amount: %w", err)
	}

	rec.Entries = append(rec.Entries, Entry{
		Date:        parts.Date,
		Description: parts.Description,
		Kind:        kind,
		Amount:      amount,
		Line:        lineNum,
	})
	return nil
}

func applyExchange(d *Driver, rec *ParseRecord, line string, _ int) error {
	code, rateStr, ok := classifier.ParseExchangeRate(line)
	if !ok {
		return fmt.Errorf("malformed exchange line %q", line)
	}
	if d.cfg.EuropeanAmounts {
		rateStr = strings.ReplaceAll(rateStr, ",", ".")
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return fmt.Errorf("exchange rate: %w", err)
	}
	rec.Rates[strings.ToUpper(code)] = rate
	return nil
}

func applyTotal(d *Driver, rec *ParseRecord, line string, _ int) error {
	amountStr, ok := classifier.ParseTotal(line)
	if !ok {
		return fmt.Errorf("malformed total line %q", line)
	}
	total, err := money.NewFromString(amountStr, rec.Currency, d.cfg.EuropeanAmounts)
	if err != nil {
		return fmt.Errorf("total amount: %w", err)
	}
	rec.Total = total
	return nil
}

func applyPage(_ *Driver, rec *ParseRecord, _ string, _ int) error {
	rec.Pages++
	return nil
}
