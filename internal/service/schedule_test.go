package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shinobi-rh/internal/model"
)

func TestScheduleService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultScheduleDefaults)

	sched, err := f.scheduleSvc.Create(ctx, companyID, ScheduleInput{StartTime: "08:30", EndTime: "16:30:00"})
	require.NoError(t, err)
	assert.Equal(t, "08:30-16:30", sched.Name)
	assert.Equal(t, model.Clock("16:30"), sched.EndTime)
	assert.Equal(t, 15, sched.GracePeriodMinutes)
	assert.Equal(t, model.WeekdaysOnly, sched.Workdays)
	assert.False(t, sched.ID.IsZero())

	negative := -5
	tests := map[string]ScheduleInput{
		"bad start":      {StartTime: "8h", EndTime: "16:00"},
		"inverted":       {StartTime: "17:00", EndTime: "09:00"},
		"negative grace": {StartTime: "09:00", EndTime: "17:00", GracePeriodMinutes: &negative},
		"no workdays":    {StartTime: "09:00", EndTime: "17:00", Workdays: &model.Workdays{}},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.scheduleSvc.Create(ctx, companyID, in)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestScheduleService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions default once", func(t *testing.T) {
		f := newFixture(t, DefaultScheduleDefaults)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sched, err := f.scheduleSvc.Resolve(ctx, companyID, nil)
				assert.NoError(t, err)
				if assert.NotNil(t, sched) {
					assert.True(t, sched.IsDefault)
				}
			}()
		}
		wg.Wait()

		schedules, err := f.scheduleSvc.List(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, schedules, 1)
		assert.Equal(t, model.Clock("09:00"), schedules[0].StartTime)
		assert.Equal(t, model.Clock("17:00"), schedules[0].EndTime)
	})

	t.Run("oldest company schedule", func(t *testing.T) {
		f := newFixture(t, DefaultScheduleDefaults)
		first, err := f.scheduleSvc.Create(ctx, companyID, ScheduleInput{StartTime: "08:00", EndTime: "16:00"})
		require.NoError(t, err)
		_, err = f.scheduleSvc.Create(ctx, companyID, ScheduleInput{StartTime: "10:00", EndTime: "18:00"})
		require.NoError(t, err)

		got, err := f.scheduleSvc.Resolve(ctx, companyID, &model.Employee{ID: "e1", CompanyID: companyID})
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("disabled provisioning", func(t *testing.T) {
		defaults := DefaultScheduleDefaults
		defaults.AutoProvision = false
		f := newFixture(t, defaults)
		got, err := f.scheduleSvc.Resolve(ctx, companyID, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("explicit provisioning is idempotent", func(t *testing.T) {
		f := newFixture(t, DefaultScheduleDefaults)
		a, err := f.scheduleSvc.ProvisionDefault(ctx, companyID)
		require.NoError(t, err)
		b, err := f.scheduleSvc.ProvisionDefault(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("provisioning returns the default, not the oldest schedule", func(t *testing.T) {
		f := newFixture(t, DefaultScheduleDefaults)
		night, err := f.scheduleSvc.Create(ctx, companyID, ScheduleInput{Name: "Night", StartTime: "13:00", EndTime: "21:00"})
		require.NoError(t, err)
		def, err := f.scheduleSvc.ProvisionDefault(ctx, companyID)
		require.NoError(t, err)
		require.NotEqual(t, night.ID, def.ID)

		again, err := f.scheduleSvc.ProvisionDefault(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, def.ID, again.ID)
		assert.True(t, again.IsDefault)
	})
}

func TestEmployeeService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultScheduleDefaults)

	_, err := f.employeeSvc.Register(ctx, companyID, EmployeeInput{FullName: "   "})
	assert.ErrorIs(t, err, ErrInvalidEmployee)

	_, err = f.employeeSvc.Register(ctx, companyID, EmployeeInput{FullName: "Awa", ScheduleID: "nope"})
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	emp := f.employee(t, "Awa Diallo")
	assert.Len(t, emp.ID, 36)
	assert.True(t, emp.Active)

	got, err := f.employeeSvc.Get(ctx, companyID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Awa Diallo", got.FullName)

	_, err = f.employeeSvc.Get(ctx, "other", emp.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	sched, err := f.scheduleSvc.Create(ctx, companyID, ScheduleInput{StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)
	err = f.employeeSvc.AssignSchedule(ctx, companyID, "ghost", sched.ID.Hex())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	require.NoError(t, f.employeeSvc.AssignSchedule(ctx, companyID, emp.ID, sched.ID.Hex()))

	got, err = f.employeeSvc.Get(ctx, companyID, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ScheduleID)
	assert.Equal(t, sched.ID, *got.ScheduleID)
}
