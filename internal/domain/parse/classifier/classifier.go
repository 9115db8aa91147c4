// Package classifier assigns a LineClass to each statement line.
// Classification is context-free: it looks at one line's content and never at
// parser state. Rules are an ordered table evaluated first-match-wins, so the
// priority between overlapping shapes (a total line is also an amount line) is
// fixed and documented in one place.
package classifier

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LineClass is the categorical label assigned to one input line.
type LineClass string

const (
	ClassBlank        LineClass = "blank"
	ClassPagination   LineClass = "pagination"
	ClassExchange     LineClass = "exchange"
	ClassTotal        LineClass = "total"
	ClassEntryForeign LineClass = "entry-foreign"
	ClassEntryLocal   LineClass = "entry-local"
	ClassHeader       LineClass = "header"
	ClassUnrecognized LineClass = "unrecognized"
)

// AllClasses returns every class the classifier can emit, in priority order.
func AllClasses() []LineClass {
	return []LineClass{
		ClassBlank, ClassPagination, ClassExchange, ClassTotal,
		ClassEntryForeign, ClassEntryLocal, ClassHeader, ClassUnrecognized,
	}
}

// Line shapes. Entry columns are separated by a tab or two-plus spaces.
var (
	reBlank      = regexp.MustCompile(`^\s*$`)
	rePagination = regexp.MustCompile(`(?i)^\s*(?:page\s+\d+(?:\s+of\s+\d+)?|continued on next page)\s*$`)
	reExchange   = regexp.MustCompile(`(?i)^\s*exchange\s+rate\s*:?\s*([A-Z]{3})\s*[=@]\s*(\d[\d.,]*)\s*$`)
	reTotal      = regexp.MustCompile(`(?i)^\s*total\s*:?\s*(-?\(?[\d.,]+\)?)\s*$`)

	entryDate      = `(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})`
	entrySep       = `(?:\t+|[ ]{2,})`
	reEntryForeign = regexp.MustCompile(`^\s*` + entryDate + entrySep + `(.+?)` + entrySep + `([A-Z]{3})[ ]+(-?\(?[\d.,]+\)?)\s*$`)
	reEntryLocal   = regexp.MustCompile(`^\s*` + entryDate + entrySep + `(.+?)` + entrySep + `(-?\(?[\d.,]+\)?)\s*$`)

	reLabel       = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ./-]*?)\s*:\s*(.+?)\s*$`)
	reLabelAmount = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z ]*?\s*:?\s*(-?\(?[\d.,]+\)?)\s*$`)
)

// headerLabels are the field labels recognized on header lines. The keyword
// scan runs over the label part only, so entry descriptions that happen to
// mention a customer never classify as header.
var headerLabels = []string{
	"INVOICE", "DATE", "DUE", "CUSTOMER", "VENDOR", "SUPPLIER",
	"ACCOUNT", "CURRENCY", "REFERENCE", "VAT", "TAX", "ADDRESS", "PERIOD",
}

// Config controls optional classifier behavior.
type Config struct {
	// FuzzyLabels enables approximate matching of section labels, catching
	// near misses like "Totai: 25.00". Off by default so the documented
	// priority list stays strictly deterministic.
	FuzzyLabels bool
	// FuzzyDistance is the maximum Levenshtein distance accepted when
	// FuzzyLabels is on. Zero means 2.
	FuzzyDistance int
}

// Classifier labels statement lines. Safe for concurrent use: it is built
// once and never mutated afterwards.
type Classifier struct {
	cfg    Config
	labels *ahocorasick.Matcher
}

// New builds a Classifier. The header label keywords are compiled into an
// Aho-Corasick matcher so label lookup stays a single pass regardless of how
// many labels are registered.
func New(cfg Config) *Classifier {
	if cfg.FuzzyDistance == 0 {
		cfg.FuzzyDistance = 2
	}
	return &Classifier{
		cfg:    cfg,
		labels: ahocorasick.NewStringMatcher(headerLabels),
	}
}

// Classify returns the LineClass for one line. Unrecognized lines are a valid
// outcome, never an error, and classification never depends on prior lines.
func (c *Classifier) Classify(line string) LineClass {
	switch {
	case reBlank.MatchString(line):
		return ClassBlank
	case rePagination.MatchString(line):
		return ClassPagination
	case reExchange.MatchString(line):
		return ClassExchange
	case reTotal.MatchString(line):
		return ClassTotal
	case reEntryForeign.MatchString(line):
		return ClassEntryForeign
	case reEntryLocal.MatchString(line):
		return ClassEntryLocal
	}

	if m := reLabel.FindStringSubmatch(line); m != nil {
		label := strings.ToUpper(strings.TrimSpace(m[1]))
		if len(c.labels.Match([]byte(label))) > 0 {
			return ClassHeader
		}
		if c.cfg.FuzzyLabels {
			return c.classifyFuzzyLabel(label)
		}
	}

	return ClassUnrecognized
}

// classifyFuzzyLabel rescues lines whose label is a near miss of a known one.
// A label close to TOTAL followed by a numeric value counts as a total line;
// a label close to any header keyword counts as header.
func (c *Classifier) classifyFuzzyLabel(label string) LineClass {
	if d := fuzzy.LevenshteinDistance(label, "TOTAL"); d >= 0 && d <= c.cfg.FuzzyDistance {
		return ClassTotal
	}
	for _, kw := range headerLabels {
		if d := fuzzy.LevenshteinDistance(label, kw); d >= 0 && d <= c.cfg.FuzzyDistance {
			return ClassHeader
		}
	}
	return ClassUnrecognized
}

// EntryParts holds the raw columns of an entry line. Currency is empty for
// local entries.
type EntryParts struct {
	Date        string
	Description string
	Currency    string
	Amount      string
}

// ParseHeaderField splits a header line into label and value.
func ParseHeaderField(line string) (name, value string, ok bool) {
	m := reLabel.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// ParseEntry extracts the columns of an entry line, foreign or local.
func ParseEntry(line string) (EntryParts, bool) {
	if m := reEntryForeign.FindStringSubmatch(line); m != nil {
		return EntryParts{Date: m[1], Description: m[2], Currency: m[3], Amount: m[4]}, true
	}
	if m := reEntryLocal.FindStringSubmatch(line); m != nil {
		return EntryParts{Date: m[1], Description: m[2], Amount: m[3]}, true
	}
	return EntryParts{}, false
}

// ParseTotal extracts the stated amount from a total line. It accepts any
// label-amount shape so fuzzily matched total lines parse too.
func ParseTotal(line string) (amount string, ok bool) {
	if m := reTotal.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := reLabelAmount.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseExchangeRate extracts the currency code and rate from an exchange line.
func ParseExchangeRate(line string) (code, rate string, ok bool) {
	m := reExchange.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
