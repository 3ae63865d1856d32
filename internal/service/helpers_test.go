package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
	"timeclock/internal/models"
	"timeclock/internal/repository"
	"timeclock/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	employeeRep *repository.GormEmployeeRepository
	recordRepo  *repository.GormTimeRecordRepository
	employees   *EmployeeService
	records     *TimeRecordService
	reports     *ReportService
	clock       *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "timeclock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	recordRepo, err := repository.NewGormTimeRecordRepository(db)
	require.NoError(t, err)

	clock := &fakeClock{now: at(2026, time.March, 2, 9, 0)}

	return &testEnv{
		db:          db,
		employeeRep: employeeRepo,
		recordRepo:  recordRepo,
		employees:   NewEmployeeService(employeeRepo),
		records:     NewTimeRecordService(recordRepo, WithClock(clock.Now), WithLocation(time.UTC)),
		reports:     NewReportService(recordRepo, employeeRepo, time.UTC),
		clock:       clock,
	}
}

func (e *testEnv) register(t *testing.T, name string, position *string) *models.Employee {
	t.Helper()
	employee, err := e.employees.Register(context.Background(), name, position)
	require.NoError(t, err)
	return employee
}

// recordAt moves the clock and applies the event.
func (e *testEnv) recordAt(t *testing.T, employeeID uint, event EventType, when time.Time) *models.TimeRecord {
	t.Helper()
	e.clock.Set(when)
	record, err := e.records.Record(context.Background(), employeeID, event)
	require.NoError(t, err)
	return record
}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
