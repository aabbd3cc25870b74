// Package excel mirrors the water dataset as an XLSX workbook for
// operators who work in spreadsheets. The workbook shares its column
// schema with the CSV store so the two exports never diverge.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/minhtq/floodwatch/internal/adapter/csvstore"
	"github.com/minhtq/floodwatch/internal/domain"
)

const sheetName = "Water"

// Exporter writes the merged water dataset to a workbook path.
// It implements pipeline.Exporter.
type Exporter struct {
	path string
}

// NewExporter creates an exporter over the given .xlsx path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Path returns the workbook file path.
func (e *Exporter) Path() string { return e.path }

// Export replaces the workbook with one sheet holding the rows in
// csvstore.WaterColumns order, header row bolded.
func (e *Exporter) Export(rows []domain.Reading) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &csvstore.WaterColumns); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(csvstore.WaterColumns), 1)
	if err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}

	for i, r := range rows {
		record := csvstore.WaterRecord(r)
		cells := make([]any, len(record))
		for j, cell := range record {
			cells[j] = cell
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	return nil
}
