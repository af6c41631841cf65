package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shinobi-rh/internal/model"
)

func TestEvaluateArrival(t *testing.T) {
	sched := &model.ScheduleSnapshot{StartTime: "09:00", EndTime: "17:00", GracePeriodMinutes: 15}

	tests := []struct {
		at         model.Clock
		wantStatus model.AttendanceStatus
		wantDelay  int
	}{
		{"08:45", model.AttendanceStatusPresent, 0},
		{"09:00", model.AttendanceStatusPresent, 0},
		{"09:05", model.AttendanceStatusPresent, 0},
		{"09:15", model.AttendanceStatusPresent, 0},
		{"09:16", model.AttendanceStatusLate, 16},
		{"10:30", model.AttendanceStatusLate, 90},
	}
	for _, tt := range tests {
		t.Run(string(tt.at), func(t *testing.T) {
			status, delay := EvaluateArrival(tt.at, sched)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}

	t.Run("no schedule", func(t *testing.T) {
		status, delay := EvaluateArrival("11:00", nil)
		assert.Equal(t, model.AttendanceStatusPresent, status)
		assert.Equal(t, 0, delay)
	})

	t.Run("zero grace", func(t *testing.T) {
		status, delay := EvaluateArrival("08:01", &model.ScheduleSnapshot{StartTime: "08:00", EndTime: "16:00"})
		assert.Equal(t, model.AttendanceStatusLate, status)
		assert.Equal(t, 1, delay)
	})
}

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		in, out model.Clock
		want    float64
	}{
		{"09:05", "17:00", 7.92},
		{"09:00", "17:00", 8},
		{"08:00", "12:20", 4.33},
		{"13:00", "13:01", 0.02},
		{"10:00", "10:00", 0},
	}
	for _, tt := range tests {
		got, err := WorkedHours(tt.in, tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s-%s", tt.in, tt.out)
	}

	_, err := WorkedHours("09:00", "08:59")
	assert.ErrorIs(t, err, ErrCheckOutBeforeCheckIn)
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)

	from, to, err = MonthRange(2026, 12)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-01", from)
	assert.Equal(t, "2026-12-31", to)

	for _, m := range []int{0, 13} {
		_, _, err := MonthRange(2026, m)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Day())

	for _, bad := range []string{"", "2026-3-2", "02/03/2026", "2026-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, rate(3, 0))
	assert.Equal(t, 50.0, rate(1, 2))
	assert.Equal(t, 100.0, rate(4, 4))
}
