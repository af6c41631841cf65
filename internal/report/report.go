// Package report renders the monthly per-employee attendance summary as
// XLSX, PDF or CSV.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"shinobi-rh/internal/i18n"
	"shinobi-rh/internal/model"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts xlsx, excel, pdf and csv (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// MonthlyReport is the data behind one export.
type MonthlyReport struct {
	Year        int
	Month       int
	Lines       []model.EmployeeMonthlySummary
	GeneratedAt time.Time
}

func (r *MonthlyReport) Period() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// Filename is the suggested attachment name, e.g. attendance_2026-10.xlsx.
func (r *MonthlyReport) Filename(f Format) string {
	return fmt.Sprintf("attendance_%s.%s", r.Period(), f)
}

// Write renders r in format f. Labels are localised from ctx.
func Write(ctx context.Context, w io.Writer, f Format, r *MonthlyReport) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(ctx, w, r)
	case FormatPDF:
		return WritePDF(ctx, w, r)
	case FormatCSV:
		return WriteCSV(ctx, w, r)
	}
	return fmt.Errorf("unsupported report format %q", f)
}

func headers(ctx context.Context) []string {
	return []string{
		i18n.T(ctx, "report.col.employee"),
		i18n.T(ctx, "report.col.department"),
		i18n.T(ctx, "report.col.present"),
		i18n.T(ctx, "report.col.late"),
		i18n.T(ctx, "report.col.absent"),
		i18n.T(ctx, "report.col.excused"),
		i18n.T(ctx, "report.col.worked_hours"),
		i18n.T(ctx, "report.col.attendance_rate"),
	}
}

func title(ctx context.Context, r *MonthlyReport) string {
	return i18n.T(ctx, "report.title", map[string]any{"Period": r.Period()})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
