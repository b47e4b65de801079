package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders report rows as a one-sheet workbook and returns the file
// bytes. Column layout mirrors the on-screen grid: field, value, status.
func WriteXLSX(title string, rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Member Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, 1, title)
	filled, total := Completion(rows)
	write(1, 2, fmt.Sprintf("Filled %d of %d fields", filled, total))

	headers := []string{"Field", "Value", "Status"}
	for i, h := range headers {
		write(i+1, 4, h)
	}

	row := 5
	for _, r := range rows {
		write(1, row, r.Label)
		write(2, row, r.Value)
		if r.Missing {
			write(3, row, "Missing")
		} else {
			write(3, row, "Filled")
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 70)
	_ = f.SetColWidth(sheet, "C", "C", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
