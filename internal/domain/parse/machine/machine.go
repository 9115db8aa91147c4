// Package machine drives the line-oriented statement parse. It owns the
// current state, consumes (line, class) pairs in input order, and applies the
// transition declared for each pair. The transition table is first-class data
// (see table.go), so undeclared pairs fail loudly and the full relation can be
// tested and exported.
package machine

import (
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/classifier"
)

// State is one of the fixed parser states. INIT is the unique start state;
// TERMINAL and ERROR are absorbing.
type State string

const (
	StateInit       State = "INIT"
	StateHeader     State = "HEADER"
	StateEntry      State = "ENTRY"
	StatePagination State = "PAGINATION"
	StateExchange   State = "EXCHANGE"
	StateTerminal   State = "TERMINAL"
	StateError      State = "ERROR"
)

// AllStates returns every declared state.
func AllStates() []State {
	return []State{
		StateInit, StateHeader, StateEntry, StatePagination,
		StateExchange, StateTerminal, StateError,
	}
}

// Config controls a Driver. The zero value parses EUR documents in US number
// format with strict label matching.
type Config struct {
	// DefaultCurrency is used until a Currency header field overrides it.
	DefaultCurrency string
	// EuropeanAmounts selects 1.234,56 style amounts.
	EuropeanAmounts bool
	// Classifier is passed through to the line classifier.
	Classifier classifier.Config
}

// Driver parses one document per call. It carries no per-document state
// itself (State and ParseRecord live on the stack of Parse), so a single
// Driver is safe for concurrent parses of different documents.
type Driver struct {
	cfg      Config
	classify *classifier.Classifier
	table    transitionTable
}

// NewDriver builds a Driver with its classifier and transition table.
func NewDriver(cfg Config) *Driver {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "EUR"
	}
	return &Driver{
		cfg:      cfg,
		classify: classifier.New(cfg.Classifier),
		table:    buildTable(),
	}
}

// Parse consumes the document's lines in order and returns the accumulated
// record plus a structural verdict. The record is returned even on invalid
// documents: it holds everything extracted up to the failure point.
func (d *Driver) Parse(lines []string) (*ParseRecord, Verdict) {
	rec := newParseRecord(d.cfg.DefaultCurrency)
	state := StateInit

	for i, line := range lines {
		class := d.classify.Classify(line)

		tr, ok := d.table[transitionKey{state, class}]
		if !ok {
			return rec, Verdict{
				Kind:      VerdictInvalid,
				Reason:    ReasonNoTransition,
				Line:      i + 1,
				Class:     class,
				LastState: StateError,
			}
		}

		if tr.apply != nil {
			if err := tr.apply(d, rec, line, i+1); err != nil {
				return rec, Verdict{
					Kind:      VerdictInvalid,
					Reason:    err.Error(),
					Line:      i + 1,
					Class:     class,
					LastState: StateError,
				}
			}
		}
		state = tr.next
	}

	if state != StateTerminal {
		return rec, Verdict{
			Kind:      VerdictInvalid,
			Reason:    ReasonTruncated,
			LastState: state,
		}
	}
	return rec, Verdict{Kind: VerdictValid, LastState: StateTerminal}
}

// Declared reports whether a transition exists for the given pair.
func (d *Driver) Declared(state State, class classifier.LineClass) bool {
	_, ok := d.table[transitionKey{state, class}]
	return ok
}
