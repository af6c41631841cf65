package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

func WriteCSV(ctx context.Context, w io.Writer, r *MonthlyReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers(ctx)); err != nil {
		return err
	}
	for _, l := range r.Lines {
		rec := []string{
			l.EmployeeName,
			l.Department,
			strconv.Itoa(l.Present),
			strconv.Itoa(l.Late),
			strconv.Itoa(l.Absent),
			strconv.Itoa(l.Excused),
			formatFloat(l.WorkedHours),
			formatFloat(l.AttendanceRate),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
