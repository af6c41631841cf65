package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shinobi-rh/internal/model"
)

var sixty = decimal.NewFromInt(60)

// EvaluateArrival derives status and delay of a check-in at the given time.
// A delay within the grace period is not recorded. Without a schedule every
// arrival is on time.
func EvaluateArrival(at model.Clock, sched *model.ScheduleSnapshot) (model.AttendanceStatus, int) {
	if sched == nil {
		return model.AttendanceStatusPresent, 0
	}
	delay := max(0, at.Minutes()-sched.StartTime.Minutes())
	if delay > sched.GracePeriodMinutes {
		return model.AttendanceStatusLate, delay
	}
	return model.AttendanceStatusPresent, 0
}

// WorkedHours returns out-in in hours rounded to two decimals. Both times are
// on the same day; overnight shifts are rejected as ErrCheckOutBeforeCheckIn.
func WorkedHours(in, out model.Clock) (float64, error) {
	if out.Before(in) {
		return 0, fmt.Errorf("%w: %s < %s", ErrCheckOutBeforeCheckIn, out, in)
	}
	minutes := decimal.NewFromInt(int64(out.Minutes() - in.Minutes()))
	hours, _ := minutes.Div(sixty).Round(2).Float64()
	return hours, nil
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, date)
	}
	return d, nil
}

// MonthRange returns the first and last date (YYYY-MM-DD) of a month.
func MonthRange(year, month int) (string, string, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return "", "", fmt.Errorf("%w: %04d-%02d", ErrInvalidPeriod, year, month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(time.DateOnly), last.Format(time.DateOnly), nil
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
