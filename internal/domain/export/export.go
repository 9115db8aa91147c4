// Package export renders a parse record's entries to CSV and XLSX for
// downstream spreadsheets. Rendering is read-only over the record.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/machine"
)

// entryRow is the flat CSV/XLSX shape of one entry.
type entryRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Kind        string `csv:"kind"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
}

func toRows(rec *machine.ParseRecord) []entryRow {
	rows := make([]entryRow, len(rec.Entries))
	for i, e := range rec.Entries {
		rows[i] = entryRow{
			Date:        e.Date,
			Description: e.Description,
			Kind:        string(e.Kind),
			Amount:      e.Amount.String(),
			Currency:    e.Amount.Currency(),
		}
	}
	return rows
}

// WriteCSV writes the record's entries as CSV, in original input order.
func WriteCSV(rec *machine.ParseRecord, w io.Writer) error {
	if err := gocsv.Marshal(toRows(rec), w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the record as a spreadsheet: header fields on top, then
// the entry table, then the stated total.
func WriteXLSX(rec *machine.ParseRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	row := 1

	for _, h := range rec.Header {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), h.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), h.Value)
		row++
	}
	row++

	for _, col := range []struct{ cell, title string }{
		{"A", "Date"}, {"B", "Description"}, {"C", "Kind"}, {"D", "Amount"}, {"E", "Currency"},
	} {
		_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col.cell, row), col.title)
	}
	row++

	for _, e := range rec.Entries {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.Date)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.Description)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(e.Kind))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Amount.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.Amount.Currency())
		row++
	}

	if rec.Total != nil {
		row++
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rec.Total.String())
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}
