package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"shinobi-rh/internal/i18n"
	"shinobi-rh/internal/model"
	"shinobi-rh/internal/store"
)

type AttendanceRepository interface {
	Get(ctx context.Context, companyID, employeeID, date string) (*model.AttendanceRecord, error)
	GetByID(ctx context.Context, companyID string, id bson.ObjectID) (*model.AttendanceRecord, error)
	Ensure(ctx context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error)
	SetCheckIn(ctx context.Context, rec *model.AttendanceRecord) error
	SetCheckOut(ctx context.Context, rec *model.AttendanceRecord) error
	SetNotes(ctx context.Context, rec *model.AttendanceRecord) error
	SetExcused(ctx context.Context, rec *model.AttendanceRecord, expected model.AttendanceStatus) error
	StatusCounts(ctx context.Context, companyID, from, to string) ([]model.StatusCount, error)
	ListByDateRange(ctx context.Context, companyID, from, to, employeeID string) ([]*model.AttendanceRecord, error)
}

// Notifier delivers attendance alerts to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type AttendanceService struct {
	records   AttendanceRepository
	employees EmployeeRepository
	schedules *ScheduleService
	notifier  Notifier // optional
}

func NewAttendanceService(records AttendanceRepository, employees EmployeeRepository, schedules *ScheduleService, notifier Notifier) *AttendanceService {
	return &AttendanceService{records: records, employees: employees, schedules: schedules, notifier: notifier}
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID     string
	EmployeeID string
	Manager    bool // admin or manager
}

// EnsureDailyRecord returns the employee's record for date, creating an
// absent placeholder with the resolved schedule attached when none exists.
// An existing record is returned as is.
func (s *AttendanceService) EnsureDailyRecord(ctx context.Context, companyID, employeeID, date string) (*model.AttendanceRecord, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	emp, err := s.activeEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	record, _, err := s.ensure(ctx, emp, date, nil)
	return record, err
}

// ensure creates the record for (emp, date) unless it exists. When sched is
// nil the schedule is resolved for the employee.
func (s *AttendanceService) ensure(ctx context.Context, emp *model.Employee, date string, sched *model.WorkSchedule) (*model.AttendanceRecord, bool, error) {
	record, err := s.records.Get(ctx, emp.CompanyID, emp.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("get record: %w", err)
	}
	if record != nil {
		return record, false, nil
	}

	if sched == nil {
		sched, err = s.schedules.Resolve(ctx, emp.CompanyID, emp)
		if err != nil {
			return nil, false, err
		}
	}

	record = &model.AttendanceRecord{
		CompanyID:  emp.CompanyID,
		EmployeeID: emp.ID,
		Date:       date,
		Status:     model.AttendanceStatusAbsent,
	}
	if sched != nil {
		record.Schedule = sched.Snapshot()
	}
	record, created, err := s.records.Ensure(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("create record: %w", err)
	}
	return record, created, nil
}

// RecordCheckIn stores the check-in time and derives status and delay from
// the record's schedule. A record that already has a check-in is rejected
// with ErrAlreadyCheckedIn and left untouched.
func (s *AttendanceService) RecordCheckIn(ctx context.Context, record *model.AttendanceRecord, at model.Clock, meta model.CheckInMeta) (*model.AttendanceRecord, error) {
	return s.recordCheckIn(ctx, record, nil, at, meta)
}

func (s *AttendanceService) recordCheckIn(ctx context.Context, record *model.AttendanceRecord, emp *model.Employee, at model.Clock, meta model.CheckInMeta) (*model.AttendanceRecord, error) {
	if at.Minutes() < 0 {
		return nil, fmt.Errorf("%w %q", ErrInvalidTime, at)
	}
	if record.HasCheckedIn() {
		return nil, ErrAlreadyCheckedIn
	}

	updated := *record
	updated.CheckIn = at
	updated.IPAddress = meta.IPAddress
	updated.DeviceInfo = meta.DeviceInfo
	updated.Status, updated.DelayMinutes = EvaluateArrival(at, record.Schedule)

	err := s.records.SetCheckIn(ctx, &updated)
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrAlreadyCheckedIn
	}
	if err != nil {
		return nil, fmt.Errorf("record check-in: %w", err)
	}

	if updated.Status == model.AttendanceStatusLate {
		s.notifyLate(ctx, &updated, emp)
	}
	return &updated, nil
}

// RecordCheckOut stores the check-out time and the worked hours.
func (s *AttendanceService) RecordCheckOut(ctx context.Context, record *model.AttendanceRecord, at model.Clock) (*model.AttendanceRecord, error) {
	if at.Minutes() < 0 {
		return nil, fmt.Errorf("%w %q", ErrInvalidTime, at)
	}
	if !record.HasCheckedIn() {
		return nil, ErrNotCheckedIn
	}
	if record.HasCheckedOut() {
		return nil, ErrAlreadyCheckedOut
	}

	hours, err := WorkedHours(record.CheckIn, at)
	if err != nil {
		return nil, err
	}

	updated := *record
	updated.CheckOut = at
	updated.WorkedHours = hours

	err = s.records.SetCheckOut(ctx, &updated)
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrAlreadyCheckedOut
	}
	if err != nil {
		return nil, fmt.Errorf("record check-out: %w", err)
	}
	return &updated, nil
}

// CheckIn ensures the employee's record for date and checks in.
func (s *AttendanceService) CheckIn(ctx context.Context, companyID, employeeID, date string, at model.Clock, meta model.CheckInMeta) (*model.AttendanceRecord, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	emp, err := s.activeEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	record, _, err := s.ensure(ctx, emp, date, nil)
	if err != nil {
		return nil, err
	}
	return s.recordCheckIn(ctx, record, emp, at, meta)
}

// CheckOut checks out the employee's record for date. It never creates a
// record.
func (s *AttendanceService) CheckOut(ctx context.Context, companyID, employeeID, date string, at model.Clock) (*model.AttendanceRecord, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	record, err := s.records.Get(ctx, companyID, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if record == nil {
		return nil, ErrNotCheckedIn
	}
	return s.RecordCheckOut(ctx, record, at)
}

type JustifyInput struct {
	Notes  string `json:"notes"`
	Excuse bool   `json:"excuse"`
}

// Justify sets the notes of a record. Employees may only annotate their own
// records; marking a record excused is reserved to managers.
func (s *AttendanceService) Justify(ctx context.Context, companyID, recordID string, actor Actor, in JustifyInput) (*model.AttendanceRecord, error) {
	id, err := bson.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	record, err := s.records.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if !actor.Manager && (in.Excuse || record.EmployeeID != actor.EmployeeID) {
		return nil, ErrForbidden
	}

	updated := *record
	updated.Notes = strings.TrimSpace(in.Notes)
	updated.JustifiedBy = actor.UserID
	if in.Excuse {
		// Only excuse the status the manager saw; a check-in in between wins.
		err = s.records.SetExcused(ctx, &updated, record.Status)
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrRecordChanged
		}
	} else {
		err = s.records.SetNotes(ctx, &updated)
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrRecordNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("justify record: %w", err)
	}

	current, err := s.records.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if current == nil {
		return nil, ErrRecordNotFound
	}
	return current, nil
}

// MarkAbsentees creates an absent record for every active employee without
// one on date, skipping employees whose schedule does not include that
// weekday. Returns the number of records created.
func (s *AttendanceService) MarkAbsentees(ctx context.Context, companyID, date string) (int, error) {
	day, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	employees, err := s.employees.ListActive(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list employees: %w", err)
	}

	created := 0
	for _, emp := range employees {
		existing, err := s.records.Get(ctx, companyID, emp.ID, date)
		if err != nil {
			return created, fmt.Errorf("get record: %w", err)
		}
		if existing != nil {
			continue
		}
		sched, err := s.schedules.Resolve(ctx, companyID, emp)
		if err != nil {
			return created, err
		}
		if sched != nil && !sched.Workdays.Includes(day.Weekday()) {
			continue
		}
		_, ok, err := s.ensure(ctx, emp, date, sched)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	log.Printf("Marked %d absentees for company %s on %s", created, companyID, date)
	return created, nil
}

// History lists the company's records between from and to, optionally for
// one employee.
func (s *AttendanceService) History(ctx context.Context, companyID, employeeID, from, to string) ([]*model.AttendanceRecord, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, from, to)
	}
	return s.records.ListByDateRange(ctx, companyID, from, to, employeeID)
}

// DailySummary counts the company's attendance for date. Total is the number
// of active employees. Absent counts active employees with an absent record,
// plus those without any record whose schedule covers the weekday, so a
// day off is not reported as an absence.
func (s *AttendanceService) DailySummary(ctx context.Context, companyID, date string) (*model.DailySummary, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	counts, err := s.records.StatusCounts(ctx, companyID, date, date)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	by := countByStatus(counts)
	summary := &model.DailySummary{
		Date:    date,
		Total:   len(employees),
		Present: by[model.AttendanceStatusPresent],
		Late:    by[model.AttendanceStatusLate],
		Excused: by[model.AttendanceStatusExcused],
	}

	status := make(map[string]model.AttendanceStatus, len(counts))
	for _, c := range counts {
		status[c.EmployeeID] = c.Status
	}
	for _, emp := range employees {
		st, ok := status[emp.ID]
		if ok {
			if st == model.AttendanceStatusAbsent {
				summary.Absent++
			}
			continue
		}
		sched, err := s.schedules.Peek(ctx, companyID, emp)
		if err != nil {
			return nil, err
		}
		if sched == nil || sched.Workdays.Includes(day.Weekday()) {
			summary.Absent++
		}
	}
	return summary, nil
}

// MonthlySummary returns status rates over all of the company's records in
// the month. A month without records yields zero rates.
func (s *AttendanceService) MonthlySummary(ctx context.Context, companyID string, year, month int) (*model.MonthlySummary, error) {
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	counts, err := s.records.StatusCounts(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	by := countByStatus(counts)
	total := 0
	for _, n := range by {
		total += n
	}
	return &model.MonthlySummary{
		Year:         year,
		Month:        month,
		TotalRecords: total,
		PresentRate:  rate(by[model.AttendanceStatusPresent], total),
		LateRate:     rate(by[model.AttendanceStatusLate], total),
		AbsentRate:   rate(by[model.AttendanceStatusAbsent], total),
		ExcusedRate:  rate(by[model.AttendanceStatusExcused], total),
	}, nil
}

// EmployeeMonthlySummary returns one line per active employee, in employee
// enumeration order.
func (s *AttendanceService) EmployeeMonthlySummary(ctx context.Context, companyID string, year, month int) ([]model.EmployeeMonthlySummary, error) {
	from, to, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	counts, err := s.records.StatusCounts(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	byEmployee := make(map[string][]model.StatusCount)
	for _, c := range counts {
		byEmployee[c.EmployeeID] = append(byEmployee[c.EmployeeID], c)
	}

	results := make([]model.EmployeeMonthlySummary, 0, len(employees))
	for _, emp := range employees {
		line := model.EmployeeMonthlySummary{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Department:   emp.Department,
		}
		hours := decimal.Zero
		for _, c := range byEmployee[emp.ID] {
			switch c.Status {
			case model.AttendanceStatusPresent:
				line.Present += c.Count
			case model.AttendanceStatusLate:
				line.Late += c.Count
			case model.AttendanceStatusAbsent:
				line.Absent += c.Count
			case model.AttendanceStatusExcused:
				line.Excused += c.Count
			}
			hours = hours.Add(decimal.NewFromFloat(c.WorkedHours))
		}
		line.WorkedHours, _ = hours.Round(2).Float64()
		line.AttendanceRate = rate(line.Present+line.Late, line.Total())
		results = append(results, line)
	}
	return results, nil
}

func (s *AttendanceService) activeEmployee(ctx context.Context, companyID, employeeID string) (*model.Employee, error) {
	emp, err := s.employees.Get(ctx, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if emp == nil || !emp.Active {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *AttendanceService) notifyLate(ctx context.Context, record *model.AttendanceRecord, emp *model.Employee) {
	if s.notifier == nil {
		return
	}
	name := record.EmployeeID
	if emp != nil {
		name = emp.FullName
	}
	msg := i18n.T(ctx, "attendance.notify.late", map[string]any{
		"Employee": name,
		"Date":     record.Date,
		"Time":     record.CheckIn.String(),
		"Delay":    record.DelayMinutes,
	})
	if err := s.notifier.Notify(ctx, msg); err != nil {
		log.Printf("ERROR notify late arrival of %s: %v", record.EmployeeID, err)
	}
}

func countByStatus(counts []model.StatusCount) map[model.AttendanceStatus]int {
	by := make(map[model.AttendanceStatus]int, 4)
	for _, c := range counts {
		by[c.Status] += c.Count
	}
	return by
}
