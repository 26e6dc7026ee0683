package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	hotSheet     = "Hot Branches"
)

// cellName returns the A1-style name of a cell; col and row start at 1.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// WriteXLSX writes s to an Excel workbook at path: a summary sheet and, when
// the summary has hot branches, a sheet listing them.
func WriteXLSX(path string, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})

	rows := [][2]any{
		{"Scheme", s.Scheme},
		{"Branches", s.Branches},
		{"Correct", s.Correct},
		{"Mispredictions", s.Mispredictions},
		{"Taken", s.Taken},
		{"Sites", s.Sites},
		{"Misprediction Rate (%)", s.MispredictionRate},
	}
	for i, r := range rows {
		row := i + 1
		_ = f.SetCellValue(summarySheet, cellName(1, row), r[0])
		_ = f.SetCellStyle(summarySheet, cellName(1, row), cellName(1, row), boldStyle)
		_ = f.SetCellValue(summarySheet, cellName(2, row), r[1])
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)

	if len(s.Hot) > 0 {
		if _, err := f.NewSheet(hotSheet); err != nil {
			return fmt.Errorf("failed to add hot branch sheet: %w", err)
		}

		headers := []string{"PC", "Executions", "Taken", "Mispredictions", "Misprediction Rate (%)"}
		for col, h := range headers {
			_ = f.SetCellValue(hotSheet, cellName(col+1, 1), h)
		}
		_ = f.SetCellStyle(hotSheet, cellName(1, 1), cellName(len(headers), 1), boldStyle)

		for i, e := range s.Hot {
			row := i + 2
			_ = f.SetCellValue(hotSheet, cellName(1, row), fmt.Sprintf("0x%08x", e.PC))
			_ = f.SetCellValue(hotSheet, cellName(2, row), e.Executions)
			_ = f.SetCellValue(hotSheet, cellName(3, row), e.Taken)
			_ = f.SetCellValue(hotSheet, cellName(4, row), e.Mispredictions)
			_ = f.SetCellValue(hotSheet, cellName(5, row), e.MispredictionRate())
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
