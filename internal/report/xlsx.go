package report

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

func WriteXLSX(ctx context.Context, w io.Writer, r *MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	f.SetCellValue(sheetName, "A1", title(ctx, r))
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	}

	hdr := headers(ctx)
	row := make([]any, len(hdr))
	for i, h := range hdr {
		row[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A3", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(hdr), 3)
		f.SetCellStyle(sheetName, "A3", last, headerStyle)
	}

	for i, l := range r.Lines {
		cell, _ := excelize.CoordinatesToCellName(1, 4+i)
		values := []any{
			l.EmployeeName,
			l.Department,
			l.Present,
			l.Late,
			l.Absent,
			l.Excused,
			l.WorkedHours,
			roundRate(l.AttendanceRate),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 28)
	f.SetColWidth(sheetName, "C", "H", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func roundRate(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
