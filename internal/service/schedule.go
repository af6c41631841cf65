package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shinobi-rh/internal/model"
	"shinobi-rh/internal/store"
)

type ScheduleRepository interface {
	Create(ctx context.Context, sched *model.WorkSchedule) error
	GetByID(ctx context.Context, companyID string, id bson.ObjectID) (*model.WorkSchedule, error)
	First(ctx context.Context, companyID string) (*model.WorkSchedule, error)
	Default(ctx context.Context, companyID string) (*model.WorkSchedule, error)
	List(ctx context.Context, companyID string) ([]*model.WorkSchedule, error)
}

// ScheduleDefaults describes the schedule provisioned for companies that have
// none. With AutoProvision off, companies without a schedule get records
// without one and every check-in counts as on time.
type ScheduleDefaults struct {
	StartTime          model.Clock
	EndTime            model.Clock
	GracePeriodMinutes int
	AutoProvision      bool
}

// DefaultScheduleDefaults is 09:00-17:00 with a 15 minute grace period.
var DefaultScheduleDefaults = ScheduleDefaults{
	StartTime:          "09:00",
	EndTime:            "17:00",
	GracePeriodMinutes: 15,
	AutoProvision:      true,
}

type ScheduleService struct {
	schedules ScheduleRepository
	defaults  ScheduleDefaults
}

func NewScheduleService(schedules ScheduleRepository, defaults ScheduleDefaults) *ScheduleService {
	return &ScheduleService{schedules: schedules, defaults: defaults}
}

// ScheduleInput is the payload for creating a schedule. Nil grace and
// workdays fall back to the configured grace period and Monday to Friday.
type ScheduleInput struct {
	Name               string          `json:"name"`
	StartTime          string          `json:"start_time"`
	EndTime            string          `json:"end_time"`
	GracePeriodMinutes *int            `json:"grace_period_minutes"`
	Workdays           *model.Workdays `json:"workdays"`
}

func (s *ScheduleService) Create(ctx context.Context, companyID string, in ScheduleInput) (*model.WorkSchedule, error) {
	start, err := model.ParseClock(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", ErrInvalidSchedule, err)
	}
	end, err := model.ParseClock(in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", ErrInvalidSchedule, err)
	}

	sched := &model.WorkSchedule{
		CompanyID:          companyID,
		Name:               strings.TrimSpace(in.Name),
		StartTime:          start,
		EndTime:            end,
		GracePeriodMinutes: s.defaults.GracePeriodMinutes,
		Workdays:           model.WeekdaysOnly,
	}
	if in.GracePeriodMinutes != nil {
		sched.GracePeriodMinutes = *in.GracePeriodMinutes
	}
	if in.Workdays != nil {
		sched.Workdays = *in.Workdays
	}
	if sched.Name == "" {
		sched.Name = fmt.Sprintf("%s-%s", start, end)
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return sched, nil
}

func (s *ScheduleService) List(ctx context.Context, companyID string) ([]*model.WorkSchedule, error) {
	return s.schedules.List(ctx, companyID)
}

// Get returns a schedule of the company by hex ID.
func (s *ScheduleService) Get(ctx context.Context, companyID, id string) (*model.WorkSchedule, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}
	sched, err := s.schedules.GetByID(ctx, companyID, oid)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if sched == nil {
		return nil, ErrScheduleNotFound
	}
	return sched, nil
}

// Resolve picks the schedule that applies to an employee: the individually
// assigned one when it still exists, else the company's oldest schedule,
// else a provisioned default. Returns nil when the company has no schedule
// and auto-provisioning is off.
func (s *ScheduleService) Resolve(ctx context.Context, companyID string, emp *model.Employee) (*model.WorkSchedule, error) {
	sched, err := s.lookup(ctx, companyID, emp)
	if err != nil || sched != nil || !s.defaults.AutoProvision {
		return sched, err
	}
	return s.ProvisionDefault(ctx, companyID)
}

// Peek returns the schedule Resolve would pick without writing anything.
// When the default is not provisioned yet, its unsaved form is returned.
func (s *ScheduleService) Peek(ctx context.Context, companyID string, emp *model.Employee) (*model.WorkSchedule, error) {
	sched, err := s.lookup(ctx, companyID, emp)
	if err != nil || sched != nil || !s.defaults.AutoProvision {
		return sched, err
	}
	return s.defaultSchedule(companyID), nil
}

func (s *ScheduleService) lookup(ctx context.Context, companyID string, emp *model.Employee) (*model.WorkSchedule, error) {
	if emp != nil && emp.ScheduleID != nil {
		sched, err := s.schedules.GetByID(ctx, companyID, *emp.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("get assigned schedule: %w", err)
		}
		if sched != nil {
			return sched, nil
		}
	}

	sched, err := s.schedules.First(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("get company schedule: %w", err)
	}
	return sched, nil
}

func (s *ScheduleService) defaultSchedule(companyID string) *model.WorkSchedule {
	return &model.WorkSchedule{
		CompanyID:          companyID,
		Name:               "Default",
		StartTime:          s.defaults.StartTime,
		EndTime:            s.defaults.EndTime,
		GracePeriodMinutes: s.defaults.GracePeriodMinutes,
		Workdays:           model.WeekdaysOnly,
		IsDefault:          true,
	}
}

// ProvisionDefault creates the configured default schedule for a company.
// If another request provisioned it first, that schedule is returned.
func (s *ScheduleService) ProvisionDefault(ctx context.Context, companyID string) (*model.WorkSchedule, error) {
	sched := s.defaultSchedule(companyID)
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: default schedule: %v", ErrInvalidSchedule, err)
	}

	err := s.schedules.Create(ctx, sched)
	if errors.Is(err, store.ErrConflict) {
		existing, err := s.schedules.Default(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("get default schedule: %w", err)
		}
		if existing == nil {
			return nil, ErrScheduleNotFound
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("provision default schedule: %w", err)
	}

	log.Printf("Provisioned default schedule %s (%s-%s, grace %dm) for company %s",
		sched.ID.Hex(), sched.StartTime, sched.EndTime, sched.GracePeriodMinutes, companyID)
	return sched, nil
}
