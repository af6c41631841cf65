package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"shinobi-rh/internal/model"
	"shinobi-rh/internal/store"
)

type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	Get(ctx context.Context, companyID, id string) (*model.Employee, error)
	ListActive(ctx context.Context, companyID string) ([]*model.Employee, error)
	SetSchedule(ctx context.Context, companyID, id string, scheduleID bson.ObjectID) error
}

type EmployeeService struct {
	employees EmployeeRepository
	schedules *ScheduleService
}

func NewEmployeeService(employees EmployeeRepository, schedules *ScheduleService) *EmployeeService {
	return &EmployeeService{employees: employees, schedules: schedules}
}

type EmployeeInput struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	ScheduleID string `json:"schedule_id"`
}

// Register creates an active employee in the company.
func (s *EmployeeService) Register(ctx context.Context, companyID string, in EmployeeInput) (*model.Employee, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrInvalidEmployee)
	}

	emp := &model.Employee{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		FullName:   name,
		Department: strings.TrimSpace(in.Department),
		Active:     true,
	}
	if in.ScheduleID != "" {
		sched, err := s.schedules.Get(ctx, companyID, in.ScheduleID)
		if err != nil {
			return nil, err
		}
		emp.ScheduleID = &sched.ID
	}

	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return emp, nil
}

func (s *EmployeeService) List(ctx context.Context, companyID string) ([]*model.Employee, error) {
	return s.employees.ListActive(ctx, companyID)
}

func (s *EmployeeService) Get(ctx context.Context, companyID, id string) (*model.Employee, error) {
	emp, err := s.employees.Get(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// AssignSchedule sets the individually assigned schedule of an employee.
// Records already created keep their schedule snapshot.
func (s *EmployeeService) AssignSchedule(ctx context.Context, companyID, employeeID, scheduleID string) error {
	sched, err := s.schedules.Get(ctx, companyID, scheduleID)
	if err != nil {
		return err
	}
	err = s.employees.SetSchedule(ctx, companyID, employeeID, sched.ID)
	if errors.Is(err, store.ErrConflict) {
		return ErrEmployeeNotFound
	}
	return err
}
