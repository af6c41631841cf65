package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"shinobi-rh/internal/model"
	"shinobi-rh/internal/store/storetest"
)

const companyID = "acme"

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixture struct {
	records   *storetest.AttendanceStore
	schedules *storetest.ScheduleStore
	employees *storetest.EmployeeStore
	notifier  *recordingNotifier

	scheduleSvc *ScheduleService
	employeeSvc *EmployeeService
	svc         *AttendanceService
}

func newFixture(t *testing.T, defaults ScheduleDefaults) *fixture {
	t.Helper()
	f := &fixture{
		records:   storetest.NewAttendanceStore(),
		schedules: storetest.NewScheduleStore(),
		employees: storetest.NewEmployeeStore(),
		notifier:  &recordingNotifier{},
	}
	f.scheduleSvc = NewScheduleService(f.schedules, defaults)
	f.employeeSvc = NewEmployeeService(f.employees, f.scheduleSvc)
	f.svc = NewAttendanceService(f.records, f.employees, f.scheduleSvc, f.notifier)
	return f
}

func (f *fixture) employee(t *testing.T, name string) *model.Employee {
	t.Helper()
	emp, err := f.employeeSvc.Register(context.Background(), companyID, EmployeeInput{FullName: name, Department: "Ops"})
	require.NoError(t, err)
	return emp
}
