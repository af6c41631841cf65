package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusAbsent, AttendanceStatusExcused:
		return true
	}
	return false
}

// ScheduleSnapshot is the copy of a WorkSchedule kept on an attendance record,
// so later schedule edits do not rewrite past days.
type ScheduleSnapshot struct {
	ScheduleID         bson.ObjectID `bson:"schedule_id" json:"schedule_id"`
	StartTime          Clock         `bson:"start_time" json:"start_time"`
	EndTime            Clock         `bson:"end_time" json:"end_time"`
	GracePeriodMinutes int           `bson:"grace_period_minutes" json:"grace_period_minutes"`
}

// AttendanceRecord is one employee's attendance for one calendar day.
// (company_id, employee_id, date) is unique.
type AttendanceRecord struct {
	ID           bson.ObjectID     `bson:"_id,omitempty" json:"id"`
	CompanyID    string            `bson:"company_id" json:"company_id"`
	EmployeeID   string            `bson:"employee_id" json:"employee_id"`
	Date         string            `bson:"date" json:"date"` // YYYY-MM-DD
	CheckIn      Clock             `bson:"check_in,omitempty" json:"check_in,omitempty"`
	CheckOut     Clock             `bson:"check_out,omitempty" json:"check_out,omitempty"`
	Status       AttendanceStatus  `bson:"status" json:"status"`
	DelayMinutes int               `bson:"delay_minutes" json:"delay_minutes"`
	WorkedHours  float64           `bson:"worked_hours" json:"worked_hours"`
	Notes        string            `bson:"notes,omitempty" json:"notes"`
	JustifiedBy  string            `bson:"justified_by,omitempty" json:"justified_by,omitempty"`
	IPAddress    string            `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	DeviceInfo   string            `bson:"device_info,omitempty" json:"device_info,omitempty"`
	Schedule     *ScheduleSnapshot `bson:"schedule,omitempty" json:"schedule,omitempty"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updated_at"`
}

// HasCheckedIn reports whether a check-in time is recorded.
func (r *AttendanceRecord) HasCheckedIn() bool { return !r.CheckIn.IsZero() }

// HasCheckedOut reports whether a check-out time is recorded.
func (r *AttendanceRecord) HasCheckedOut() bool { return !r.CheckOut.IsZero() }

// CheckInMeta carries the audit fields captured with a check-in.
type CheckInMeta struct {
	IPAddress  string
	DeviceInfo string
}
