// Package storetest provides in-memory stores with the same contracts as the
// MongoDB stores: the (company, employee, date) uniqueness, conditional
// check-in/out updates and the single default schedule per company.
package storetest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shinobi-rh/internal/model"
	"shinobi-rh/internal/store"
)

type recordKey struct {
	companyID, employeeID, date string
}

type AttendanceStore struct {
	mu      sync.Mutex
	records map[bson.ObjectID]*model.AttendanceRecord
	byKey   map[recordKey]bson.ObjectID
	inserts int
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{
		records: make(map[bson.ObjectID]*model.AttendanceRecord),
		byKey:   make(map[recordKey]bson.ObjectID),
	}
}

// Len returns the number of stored records.
func (s *AttendanceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Inserts returns how many Ensure calls actually created a record.
func (s *AttendanceStore) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// Put stores rec as is, replacing any record with the same key.
func (s *AttendanceStore) Put(rec *model.AttendanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = bson.NewObjectID()
	}
	c := *rec
	s.records[c.ID] = &c
	s.byKey[recordKey{c.CompanyID, c.EmployeeID, c.Date}] = c.ID
}

func (s *AttendanceStore) Get(_ context.Context, companyID, employeeID, date string) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[recordKey{companyID, employeeID, date}]
	if !ok {
		return nil, nil
	}
	c := *s.records[id]
	return &c, nil
}

func (s *AttendanceStore) GetByID(_ context.Context, companyID string, id bson.ObjectID) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	c := *rec
	return &c, nil
}

func (s *AttendanceStore) Ensure(_ context.Context, rec *model.AttendanceRecord) (*model.AttendanceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{rec.CompanyID, rec.EmployeeID, rec.Date}
	if id, ok := s.byKey[key]; ok {
		c := *s.records[id]
		return &c, false, nil
	}

	now := time.Now()
	c := *rec
	c.ID = bson.NewObjectID()
	c.DelayMinutes = 0
	c.WorkedHours = 0
	c.CreatedAt = now
	c.UpdatedAt = now
	s.records[c.ID] = &c
	s.byKey[key] = c.ID
	s.inserts++

	out := c
	return &out, true, nil
}

func (s *AttendanceStore) SetCheckIn(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.ID]
	if !ok || cur.CompanyID != rec.CompanyID || cur.HasCheckedIn() {
		return store.ErrConflict
	}
	rec.UpdatedAt = time.Now()
	cur.CheckIn = rec.CheckIn
	cur.Status = rec.Status
	cur.DelayMinutes = rec.DelayMinutes
	cur.IPAddress = rec.IPAddress
	cur.DeviceInfo = rec.DeviceInfo
	cur.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *AttendanceStore) SetCheckOut(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.ID]
	if !ok || cur.CompanyID != rec.CompanyID || !cur.HasCheckedIn() || cur.HasCheckedOut() {
		return store.ErrConflict
	}
	rec.UpdatedAt = time.Now()
	cur.CheckOut = rec.CheckOut
	cur.WorkedHours = rec.WorkedHours
	cur.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *AttendanceStore) SetNotes(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.ID]
	if !ok || cur.CompanyID != rec.CompanyID {
		return store.ErrConflict
	}
	rec.UpdatedAt = time.Now()
	cur.Notes = rec.Notes
	cur.JustifiedBy = rec.JustifiedBy
	cur.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *AttendanceStore) SetExcused(_ context.Context, rec *model.AttendanceRecord, expected model.AttendanceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.records[rec.ID]
	if !ok || cur.CompanyID != rec.CompanyID || cur.Status != expected {
		return store.ErrConflict
	}
	rec.UpdatedAt = time.Now()
	cur.Notes = rec.Notes
	cur.Status = model.AttendanceStatusExcused
	cur.DelayMinutes = 0
	cur.JustifiedBy = rec.JustifiedBy
	cur.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *AttendanceStore) StatusCounts(_ context.Context, companyID, from, to string) ([]model.StatusCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type groupKey struct {
		employeeID string
		status     model.AttendanceStatus
	}
	groups := make(map[groupKey]*model.StatusCount)
	var order []groupKey
	for _, rec := range s.records {
		if rec.CompanyID != companyID || rec.Date < from || rec.Date > to {
			continue
		}
		k := groupKey{rec.EmployeeID, rec.Status}
		g, ok := groups[k]
		if !ok {
			g = &model.StatusCount{EmployeeID: rec.EmployeeID, Status: rec.Status}
			groups[k] = g
			order = append(order, k)
		}
		g.Count++
		g.WorkedHours += rec.WorkedHours
	}

	results := make([]model.StatusCount, 0, len(order))
	for _, k := range order {
		results = append(results, *groups[k])
	}
	return results, nil
}

func (s *AttendanceStore) ListByDateRange(_ context.Context, companyID, from, to, employeeID string) ([]*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var results []*model.AttendanceRecord
	for _, rec := range s.records {
		if rec.CompanyID != companyID || rec.Date < from || rec.Date > to {
			continue
		}
		if employeeID != "" && rec.EmployeeID != employeeID {
			continue
		}
		c := *rec
		results = append(results, &c)
	}
	slices.SortFunc(results, func(a, b *model.AttendanceRecord) int {
		if d := strings.Compare(a.Date, b.Date); d != 0 {
			return d
		}
		return strings.Compare(a.EmployeeID, b.EmployeeID)
	})
	return results, nil
}

type ScheduleStore struct {
	mu        sync.Mutex
	schedules []*model.WorkSchedule // creation order
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{}
}

// Create returns store.ErrConflict when a second default is inserted for a
// company.
func (s *ScheduleStore) Create(_ context.Context, sched *model.WorkSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sched.IsDefault {
		for _, existing := range s.schedules {
			if existing.CompanyID == sched.CompanyID && existing.IsDefault {
				return store.ErrConflict
			}
		}
	}
	sched.ID = bson.NewObjectID()
	sched.CreatedAt = time.Now()
	sched.UpdatedAt = sched.CreatedAt
	c := *sched
	s.schedules = append(s.schedules, &c)
	return nil
}

func (s *ScheduleStore) GetByID(_ context.Context, companyID string, id bson.ObjectID) (*model.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sched := range s.schedules {
		if sched.ID == id && sched.CompanyID == companyID {
			c := *sched
			return &c, nil
		}
	}
	return nil, nil
}

func (s *ScheduleStore) First(_ context.Context, companyID string) (*model.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sched := range s.schedules {
		if sched.CompanyID == companyID {
			c := *sched
			return &c, nil
		}
	}
	return nil, nil
}

func (s *ScheduleStore) Default(_ context.Context, companyID string) (*model.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sched := range s.schedules {
		if sched.CompanyID == companyID && sched.IsDefault {
			c := *sched
			return &c, nil
		}
	}
	return nil, nil
}

func (s *ScheduleStore) List(_ context.Context, companyID string) ([]*model.WorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var results []*model.WorkSchedule
	for _, sched := range s.schedules {
		if sched.CompanyID == companyID {
			c := *sched
			results = append(results, &c)
		}
	}
	return results, nil
}

type EmployeeStore struct {
	mu        sync.Mutex
	employees map[string]*model.Employee
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{employees: make(map[string]*model.Employee)}
}

func (s *EmployeeStore) Create(_ context.Context, emp *model.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = emp.CreatedAt
	c := *emp
	s.employees[c.ID] = &c
	return nil
}

// SetActive toggles the active flag of an employee.
func (s *EmployeeStore) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp, ok := s.employees[id]; ok {
		emp.Active = active
	}
}

func (s *EmployeeStore) Get(_ context.Context, companyID, id string) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok || emp.CompanyID != companyID {
		return nil, nil
	}
	c := *emp
	return &c, nil
}

func (s *EmployeeStore) ListActive(_ context.Context, companyID string) ([]*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var results []*model.Employee
	for _, emp := range s.employees {
		if emp.CompanyID == companyID && emp.Active {
			c := *emp
			results = append(results, &c)
		}
	}
	slices.SortFunc(results, func(a, b *model.Employee) int {
		if d := strings.Compare(a.FullName, b.FullName); d != 0 {
			return d
		}
		return strings.Compare(a.ID, b.ID)
	})
	return results, nil
}

func (s *EmployeeStore) SetSchedule(_ context.Context, companyID, id string, scheduleID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok || emp.CompanyID != companyID {
		return store.ErrConflict
	}
	emp.ScheduleID = &scheduleID
	emp.UpdatedAt = time.Now()
	return nil
}
