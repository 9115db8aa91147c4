package service

import (
	"regexp"
	"strings"
)

// Dialect is the inferred regional amount format of a document.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectUS              // 1,234.56
	DialectEuropean        // 1.234,56
)

var reTrailingAmount = regexp.MustCompile(`(-?\d[\d.,]*)\s*$`)

// ProbeDialect scans the document's trailing amount tokens and currency
// symbols to infer whether amounts use the European comma-decimal format.
// Ambiguous documents return DialectUnknown and the caller's configured
// default applies.
func ProbeDialect(lines []string) Dialect {
	europeanHints := 0
	usHints := 0

	for _, line := range lines {
		if strings.Contains(line, "€") {
			europeanHints++
		}
		m := reTrailingAmount.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch hint := amountFormatHint(m[1]); {
		case hint > 0:
			europeanHints++
		case hint < 0:
			usHints++
		}
	}

	switch {
	case europeanHints > usHints:
		return DialectEuropean
	case usHints > europeanHints:
		return DialectUS
	default:
		return DialectUnknown
	}
}

// amountFormatHint returns >0 for European, <0 for US, 0 for ambiguous.
func amountFormatHint(val string) int {
	val = strings.TrimPrefix(val, "-")

	hasComma := strings.Contains(val, ",")
	hasDot := strings.Contains(val, ".")

	switch {
	case hasComma && hasDot:
		// Both present: the last separator is the decimal one.
		if strings.LastIndex(val, ",") > strings.LastIndex(val, ".") {
			return 1
		}
		return -1

	case hasComma:
		// A comma followed by at most two digits reads as a decimal.
		if len(val)-strings.LastIndex(val, ",") <= 3 {
			return 1
		}
		return 0

	case hasDot:
		if len(val)-strings.LastIndex(val, ".") <= 3 {
			return -1
		}
		return 0
	}
	return 0
}
