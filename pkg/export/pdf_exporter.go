package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFExporter renders tables into a paginated A4 document.
type PDFExporter struct {
	footer string
}

// NewPDFExporter constructs a PDF exporter. footer, when set, is printed
// on every page next to the page number.
func NewPDFExporter(footer string) *PDFExporter {
	return &PDFExporter{footer: footer}
}

// Extension is the file suffix for rendered output.
func (e *PDFExporter) Extension() string {
	return "pdf"
}

// Render lays the table out with column widths proportional to the
// longest cell of each column. The header row repeats on every page.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		text := fmt.Sprintf("Page %d/{nb}", pdf.PageNo())
		if e.footer != "" {
			text = e.footer + " - " + text
		}
		pdf.CellFormat(0, 8, text, "", 0, "C", false, 0, "")
	})

	widths := columnWidths(table)
	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 8, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, table.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range table.Rows {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(table Table) []float64 {
	weights := make([]float64, len(table.Columns))
	for i, col := range table.Columns {
		weights[i] = float64(len(col))
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if l := float64(len(cell)); l > weights[i] {
				weights[i] = l
			}
		}
	}
	var total float64
	for i := range weights {
		weights[i] += 2
		total += weights[i]
	}
	for i := range weights {
		weights[i] = pageWidth * weights[i] / total
	}
	return weights
}
