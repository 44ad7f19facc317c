package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"flightdocs/internal/domain"
)

// SheetName is the worksheet holding the flight rows.
const SheetName = "Flights"

// WriteXLSX renders records as a single-sheet workbook and writes it to w.
func WriteXLSX(w io.Writer, records []domain.FlightRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("opening stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(columns), excelize.RowOpts{}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range Rows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// Write renders records in format to w. JSON is handled by the caller.
func Write(w io.Writer, format domain.ExportFormat, records []domain.FlightRecord) error {
	switch format {
	case domain.ExportCSV:
		return WriteCSV(w, records)
	case domain.ExportXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, format)
	}
}
