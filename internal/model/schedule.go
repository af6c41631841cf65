package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Workdays flags the days of the week a schedule applies to.
type Workdays struct {
	Monday    bool `bson:"monday" json:"monday"`
	Tuesday   bool `bson:"tuesday" json:"tuesday"`
	Wednesday bool `bson:"wednesday" json:"wednesday"`
	Thursday  bool `bson:"thursday" json:"thursday"`
	Friday    bool `bson:"friday" json:"friday"`
	Saturday  bool `bson:"saturday" json:"saturday"`
	Sunday    bool `bson:"sunday" json:"sunday"`
}

// WeekdaysOnly is Monday to Friday.
var WeekdaysOnly = Workdays{Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true}

// Includes reports whether d is a working day.
func (w Workdays) Includes(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	}
	return false
}

// Any reports whether at least one day is flagged.
func (w Workdays) Any() bool {
	return w.Monday || w.Tuesday || w.Wednesday || w.Thursday || w.Friday || w.Saturday || w.Sunday
}

// WorkSchedule is the expected working window of a company.
type WorkSchedule struct {
	ID                 bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID          string        `bson:"company_id" json:"company_id"`
	Name               string        `bson:"name" json:"name"`
	StartTime          Clock         `bson:"start_time" json:"start_time"`
	EndTime            Clock         `bson:"end_time" json:"end_time"`
	GracePeriodMinutes int           `bson:"grace_period_minutes" json:"grace_period_minutes"`
	Workdays           Workdays      `bson:"workdays" json:"workdays"`
	IsDefault          bool          `bson:"is_default" json:"is_default"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updated_at"`
}

// Validate checks the schedule invariants.
func (s *WorkSchedule) Validate() error {
	start, end := s.StartTime.Minutes(), s.EndTime.Minutes()
	if start < 0 || end < 0 {
		return errors.New("start_time and end_time are required")
	}
	if start >= end {
		return errors.New("start_time must be before end_time")
	}
	if s.GracePeriodMinutes < 0 {
		return errors.New("grace_period_minutes must not be negative")
	}
	if !s.Workdays.Any() {
		return errors.New("at least one workday is required")
	}
	return nil
}

// Snapshot returns the copy stored on attendance records.
func (s *WorkSchedule) Snapshot() *ScheduleSnapshot {
	return &ScheduleSnapshot{
		ScheduleID:         s.ID,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		GracePeriodMinutes: s.GracePeriodMinutes,
	}
}
