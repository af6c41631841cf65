package service

import "errors"

var (
	ErrAlreadyCheckedIn      = errors.New("already checked in today")
	ErrAlreadyCheckedOut     = errors.New("already checked out today")
	ErrNotCheckedIn          = errors.New("not checked in today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time is earlier than check-in time")
	ErrRecordChanged         = errors.New("attendance record changed concurrently")

	ErrEmployeeNotFound = errors.New("employee not found")
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrScheduleNotFound = errors.New("work schedule not found")

	ErrInvalidSchedule = errors.New("invalid work schedule")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidEmployee = errors.New("invalid employee")

	ErrForbidden = errors.New("forbidden")
)
