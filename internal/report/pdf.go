package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// pdf column widths in mm on an A4 portrait page (190mm printable).
var pdfWidths = [3]float64{60, 110, 20}

// WritePDF renders report rows as a paginated two-column-plus-status table.
// The header band repeats on every page.
func WritePDF(title string, rows []Row) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 12, 10)
	doc.SetAutoPageBreak(true, 15)

	writeHeader := func() {
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(190, 8, title, "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(pdfWidths[0], 7, "Field", "1", 0, "L", true, 0, "")
		doc.CellFormat(pdfWidths[1], 7, "Value", "1", 0, "L", true, 0, "")
		doc.CellFormat(pdfWidths[2], 7, "Status", "1", 1, "C", true, 0, "")
	}

	doc.SetHeaderFunc(writeHeader)
	doc.AddPage()

	doc.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		value := r.Value
		status := "Filled"
		if r.Missing {
			status = "Missing"
		}

		lines := doc.SplitText(value, pdfWidths[1]-2)
		height := 6 * float64(maxInt(len(lines), 1))

		// keep each row on one page
		if doc.GetY()+height > 282 {
			doc.AddPage()
			doc.SetFont("Helvetica", "", 9)
		}

		x, y := doc.GetXY()
		doc.Rect(x, y, pdfWidths[0], height, "D")
		doc.Rect(x+pdfWidths[0], y, pdfWidths[1], height, "D")
		doc.Rect(x+pdfWidths[0]+pdfWidths[1], y, pdfWidths[2], height, "D")

		doc.MultiCell(pdfWidths[0], 6, r.Label, "", "L", false)
		doc.SetXY(x+pdfWidths[0], y)
		doc.MultiCell(pdfWidths[1], 6, value, "", "L", false)
		doc.SetXY(x+pdfWidths[0]+pdfWidths[1], y)
		if r.Missing {
			doc.SetTextColor(200, 30, 30)
		}
		doc.MultiCell(pdfWidths[2], 6, status, "", "C", false)
		doc.SetTextColor(0, 0, 0)
		doc.SetXY(x, y+height)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}
	return buf.Bytes(), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
