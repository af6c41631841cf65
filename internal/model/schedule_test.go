package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkSchedule_Validate(t *testing.T) {
	valid := WorkSchedule{StartTime: "09:00", EndTime: "17:00", GracePeriodMinutes: 15, Workdays: WeekdaysOnly}
	assert.NoError(t, valid.Validate())

	tests := map[string]func(s *WorkSchedule){
		"missing start":  func(s *WorkSchedule) { s.StartTime = "" },
		"end before":     func(s *WorkSchedule) { s.EndTime = "08:00" },
		"equal bounds":   func(s *WorkSchedule) { s.EndTime = s.StartTime },
		"negative grace": func(s *WorkSchedule) { s.GracePeriodMinutes = -1 },
		"no workdays":    func(s *WorkSchedule) { s.Workdays = Workdays{} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := valid
			mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestWorkdays_Includes(t *testing.T) {
	assert.True(t, WeekdaysOnly.Includes(time.Monday))
	assert.True(t, WeekdaysOnly.Includes(time.Friday))
	assert.False(t, WeekdaysOnly.Includes(time.Saturday))
	assert.False(t, WeekdaysOnly.Includes(time.Sunday))

	weekend := Workdays{Saturday: true}
	assert.True(t, weekend.Includes(time.Saturday))
	assert.True(t, weekend.Any())
	assert.False(t, Workdays{}.Any())
}

func TestWorkSchedule_Snapshot(t *testing.T) {
	s := WorkSchedule{StartTime: "08:30", EndTime: "16:30", GracePeriodMinutes: 10}
	snap := s.Snapshot()
	assert.Equal(t, Clock("08:30"), snap.StartTime)
	assert.Equal(t, Clock("16:30"), snap.EndTime)
	assert.Equal(t, 10, snap.GracePeriodMinutes)
}
