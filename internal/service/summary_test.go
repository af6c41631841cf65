package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shinobi-rh/internal/model"
)

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultScheduleDefaults)
	awa := f.employee(t, "Awa Diallo")
	moussa := f.employee(t, "Moussa Traoré")
	fatou := f.employee(t, "Fatou Ndiaye")
	f.employee(t, "Ibrahima Sow")

	_, err := f.svc.CheckIn(ctx, companyID, awa.ID, monday, "09:00", model.CheckInMeta{})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, companyID, moussa.ID, monday, "09:50", model.CheckInMeta{})
	require.NoError(t, err)
	rec, err := f.svc.EnsureDailyRecord(ctx, companyID, fatou.ID, monday)
	require.NoError(t, err)
	_, err = f.svc.Justify(ctx, companyID, rec.ID.Hex(), Actor{Manager: true}, JustifyInput{Notes: "sick leave", Excuse: true})
	require.NoError(t, err)

	summary, err := f.svc.DailySummary(ctx, companyID, monday)
	require.NoError(t, err)
	assert.Equal(t, &model.DailySummary{
		Date:    monday,
		Total:   4,
		Present: 1,
		Late:    1,
		Absent:  1,
		Excused: 1,
	}, summary)
	assert.Equal(t, summary.Total, summary.Present+summary.Late+summary.Absent+summary.Excused)

	t.Run("day off is not an absence", func(t *testing.T) {
		const saturday = "2026-03-07"
		g := newFixture(t, DefaultScheduleDefaults)
		g.employee(t, "Awa Diallo")
		guard := g.employee(t, "Moussa Traoré")

		summary, err := g.svc.DailySummary(ctx, companyID, saturday)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Total)
		assert.Zero(t, summary.Absent)

		schedules, err := g.scheduleSvc.List(ctx, companyID)
		require.NoError(t, err)
		assert.Empty(t, schedules, "summaries must not provision schedules")

		weekend := model.WeekdaysOnly
		weekend.Saturday = true
		sched, err := g.scheduleSvc.Create(ctx, companyID, ScheduleInput{Name: "Security", StartTime: "08:00", EndTime: "16:00", Workdays: &weekend})
		require.NoError(t, err)
		require.NoError(t, g.employeeSvc.AssignSchedule(ctx, companyID, guard.ID, sched.ID.Hex()))

		// The oldest company schedule now covers Saturday for everyone.
		summary, err = g.svc.DailySummary(ctx, companyID, saturday)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Absent)

		created, err := g.svc.MarkAbsentees(ctx, companyID, saturday)
		require.NoError(t, err)
		assert.Equal(t, summary.Absent, created)
	})

	t.Run("empty company", func(t *testing.T) {
		summary, err := f.svc.DailySummary(ctx, "nobody", monday)
		require.NoError(t, err)
		assert.Zero(t, summary.Total)
		assert.Zero(t, summary.Absent)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := f.svc.DailySummary(ctx, companyID, "yesterday")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func putRecord(f *fixture, employeeID, date string, status model.AttendanceStatus, hours float64) {
	f.records.Put(&model.AttendanceRecord{
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		Date:        date,
		Status:      status,
		WorkedHours: hours,
	})
}

func TestMonthlySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultScheduleDefaults)

	putRecord(f, "e1", "2026-03-02", model.AttendanceStatusPresent, 8)
	putRecord(f, "e1", "2026-03-03", model.AttendanceStatusPresent, 8)
	putRecord(f, "e2", "2026-03-02", model.AttendanceStatusLate, 7.5)
	putRecord(f, "e2", "2026-03-31", model.AttendanceStatusAbsent, 0)
	putRecord(f, "e1", "2026-04-01", model.AttendanceStatusAbsent, 0)
	f.records.Put(&model.AttendanceRecord{CompanyID: "other", EmployeeID: "x", Date: "2026-03-02", Status: model.AttendanceStatusAbsent})

	summary, err := f.svc.MonthlySummary(ctx, companyID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, 50.0, summary.PresentRate)
	assert.Equal(t, 25.0, summary.LateRate)
	assert.Equal(t, 25.0, summary.AbsentRate)
	assert.Equal(t, 0.0, summary.ExcusedRate)

	t.Run("month without records", func(t *testing.T) {
		summary, err := f.svc.MonthlySummary(ctx, companyID, 2026, 5)
		require.NoError(t, err)
		assert.Equal(t, &model.MonthlySummary{Year: 2026, Month: 5}, summary)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := f.svc.MonthlySummary(ctx, companyID, 2026, 13)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestEmployeeMonthlySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultScheduleDefaults)
	zoe := f.employee(t, "Zoé Kaboré")
	awa := f.employee(t, "Awa Diallo")
	left := f.employee(t, "Idle Former")
	f.employees.SetActive(left.ID, false)

	putRecord(f, awa.ID, "2026-03-02", model.AttendanceStatusPresent, 7.92)
	putRecord(f, awa.ID, "2026-03-03", model.AttendanceStatusLate, 7.33)
	putRecord(f, awa.ID, "2026-03-04", model.AttendanceStatusAbsent, 0)
	putRecord(f, awa.ID, "2026-03-05", model.AttendanceStatusExcused, 0)
	putRecord(f, left.ID, "2026-03-02", model.AttendanceStatusPresent, 8)

	lines, err := f.svc.EmployeeMonthlySummary(ctx, companyID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Awa Diallo", lines[0].EmployeeName)
	assert.Equal(t, "Ops", lines[0].Department)
	assert.Equal(t, 1, lines[0].Present)
	assert.Equal(t, 1, lines[0].Late)
	assert.Equal(t, 1, lines[0].Absent)
	assert.Equal(t, 1, lines[0].Excused)
	assert.Equal(t, 15.25, lines[0].WorkedHours)
	assert.Equal(t, 50.0, lines[0].AttendanceRate)

	assert.Equal(t, zoe.ID, lines[1].EmployeeID)
	assert.Zero(t, lines[1].Total())
	assert.Zero(t, lines[1].AttendanceRate)
	assert.Zero(t, lines[1].WorkedHours)
}
