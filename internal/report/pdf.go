package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"shinobi-rh/internal/i18n"
)

var pdfColumnWidths = []float64{70, 50, 22, 22, 22, 22, 30, 35}

func WritePDF(ctx context.Context, w io.Writer, r *MonthlyReport) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title(ctx, r)))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	for i, h := range headers(ctx) {
		pdf.CellFormat(pdfColumnWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, l := range r.Lines {
		cells := []string{
			l.EmployeeName,
			l.Department,
			strconv.Itoa(l.Present),
			strconv.Itoa(l.Late),
			strconv.Itoa(l.Absent),
			strconv.Itoa(l.Excused),
			formatFloat(l.WorkedHours),
			formatFloat(l.AttendanceRate),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 7, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 8, tr(i18n.T(ctx, "report.generated_at", map[string]any{
		"Time": r.GeneratedAt.Format("2006-01-02 15:04"),
	})))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
