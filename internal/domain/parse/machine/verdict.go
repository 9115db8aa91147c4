package machine

import (
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/classifier"
	"github.com/FACorreiaa/invoice-parser/pkg/money"
)

// VerdictKind is the structural outcome of one parse call.
type VerdictKind string

const (
	VerdictValid   VerdictKind = "valid"
	VerdictInvalid VerdictKind = "invalid"
)

// Reasons carried on invalid verdicts.
const (
	ReasonNoTransition = "no transition defined"
	ReasonTruncated    = "unexpected end of input"
)

// SemanticMismatch flags a structurally valid document whose recomputed entry
// sum disagrees with the stated total. It never invalidates the structural
// verdict.
type SemanticMismatch struct {
	Expected *money.Money `json:"expected"` // sum recomputed from entries
	Actual   *money.Money `json:"actual"`   // total stated in the document
}

// Verdict is the explicit result of a parse call. Structural and truncation
// failures are returned here, never as panics or swallowed errors.
type Verdict struct {
	Kind      VerdictKind          `json:"kind"`
	Reason    string               `json:"reason,omitempty"`
	Line      int                  `json:"line,omitempty"` // 1-based offending line, 0 when not applicable
	Class     classifier.LineClass `json:"class,omitempty"`
	LastState State                `json:"last_state"`
	Semantic  *SemanticMismatch    `json:"semantic,omitempty"`
}

// Valid reports whether the document was structurally well-formed.
func (v Verdict) Valid() bool {
	return v.Kind == VerdictValid
}
