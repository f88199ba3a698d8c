package exports

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// ErrNoRows is returned when a render is attempted with no journal rows.
var ErrNoRows = errors.New("no journal rows to render")

// XLSXRenderer renders journal rows into an xlsx workbook, one ledger line per
// spreadsheet row.
type XLSXRenderer struct{}

// NewXLSXRenderer creates a new XLSXRenderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

var _ portssvc.SpreadsheetRenderer = (*XLSXRenderer)(nil)

// Render produces the xlsx file bytes for the given rows.
func (r *XLSXRenderer) Render(rows []domain.JournalRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	// Add headers
	f.SetCellValue(sheetName, "A1", "Account")
	f.SetCellValue(sheetName, "B1", "Amount")
	f.SetCellValue(sheetName, "C1", "Description")

	// Add data
	for i, row := range rows {
		rowNo := i + 2
		f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), row.Account)
		// Decimal string keeps the amount exact; float64 would round it.
		f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), row.Amount.String())
		f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), row.Description)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
