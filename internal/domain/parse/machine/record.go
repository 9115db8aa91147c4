package machine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-parser/pkg/money"
)

// EntryKind tags an entry as booked in the document currency or a foreign one.
type EntryKind string

const (
	EntryLocal   EntryKind = "local"
	EntryForeign EntryKind = "foreign"
)

// HeaderField is one extracted header line, order-preserving.
type HeaderField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Entry is one extracted line item.
type Entry struct {
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Kind        EntryKind    `json:"kind"`
	Amount      *money.Money `json:"amount"`
	Line        int          `json:"line"` // 1-based source line, for error reporting
}

// ParseRecord accumulates the structured output of one document parse.
// Fields only ever grow: entries are appended in input order and never
// removed or reordered. A fresh record is created per Parse call, so
// concurrent parses of different documents share nothing, and parsing the
// same lines twice yields identical records. Identity is a storage concern;
// the service assigns document ids when it persists an outcome.
type ParseRecord struct {
	Currency string                     `json:"currency"`
	Header   []HeaderField              `json:"header"`
	Entries  []Entry                    `json:"entries"`
	Total    *money.Money               `json:"total,omitempty"`
	Rates    map[string]decimal.Decimal `json:"rates,omitempty"`
	Pages    int                        `json:"pages"`
}

func newParseRecord(currency string) *ParseRecord {
	return &ParseRecord{
		Currency: currency,
		Header:   make([]HeaderField, 0, 8),
		Entries:  make([]Entry, 0, 32),
		Rates:    make(map[string]decimal.Decimal),
	}
}

// HeaderValue returns the value of the first header field with the given
// name, case-insensitively.
func (r *ParseRecord) HeaderValue(name string) (string, bool) {
	for _, f := range r.Header {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}
