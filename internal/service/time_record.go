package service

import (
	"context"
	"sync"
	"time"
	"timeclock/internal/models"
	"timeclock/internal/repository"

	"github.com/sirupsen/logrus"
)

// EventType is one of the four time events an employee can register.
type EventType string

const (
	EventCheckIn    EventType = "check_in"
	EventCheckOut   EventType = "check_out"
	EventBreakStart EventType = "break_start"
	EventBreakEnd   EventType = "break_end"
)

func (e EventType) Valid() bool {
	switch e {
	case EventCheckIn, EventCheckOut, EventBreakStart, EventBreakEnd:
		return true
	}
	return false
}

type TimeRecordService struct {
	repo   repository.TimeRecordRepository
	locks  *employeeLocks
	now    func() time.Time
	loc    *time.Location
	logger *logrus.Logger
}

type TimeRecordOption func(*TimeRecordService)

// WithClock replaces time.Now as the source of "today" and of every written timestamp.
func WithClock(now func() time.Time) TimeRecordOption {
	return func(s *TimeRecordService) {
		s.now = now
	}
}

// WithLocation sets the zone in which the calendar day is evaluated.
func WithLocation(loc *time.Location) TimeRecordOption {
	return func(s *TimeRecordService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewTimeRecordService(repo repository.TimeRecordRepository, opts ...TimeRecordOption) *TimeRecordService {
	s := &TimeRecordService{
		repo:   repo,
		locks:  newEmployeeLocks(),
		now:    time.Now,
		loc:    time.Local,
		logger: newLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Record applies an event to the employee's latest record for today.
// An unknown employee is reported before the event type is checked.
// The lookup and the write run in one transaction while holding the
// employee's lock, so two concurrent check-ins cannot both succeed.
func (s *TimeRecordService) Record(ctx context.Context, employeeID uint, event EventType) (*models.TimeRecord, error) {
	unlock := s.locks.lock(employeeID)
	defer unlock()

	var record *models.TimeRecord
	err := s.repo.Atomic(ctx, func(repo repository.TimeRecordRepository) error {
		employee, err := repo.LockEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if employee == nil {
			return ErrEmployeeNotFound
		}
		if !event.Valid() {
			return ErrInvalidRecordType
		}

		now := s.now().In(s.loc)
		latest, err := repo.GetLatestByEmployeeAndDate(ctx, employeeID, now)
		if err != nil {
			return err
		}

		next, created, err := ApplyEvent(latest, event, now)
		if err != nil {
			return err
		}

		if created {
			next.EmployeeID = employeeID
			if err := repo.Create(ctx, next); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, next); err != nil {
			return err
		}

		record = next
		return nil
	})
	if err != nil {
		if KindOf(err) != 0 {
			s.logger.WithFields(logrus.Fields{
				"employee_id": employeeID,
				"type":        string(event),
			}).Warnf("Time event rejected: %s", err)
		} else {
			s.logger.WithError(err).Error("Failed to record time event")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":          record.ID,
		"employee_id": employeeID,
		"type":        string(event),
		"state":       string(record.State()),
	}).Info("Time event recorded")

	return record, nil
}

// ApplyEvent validates event against the latest record of the day (nil if
// there is none) and returns the record to persist. created is true when a
// new record must be inserted. latest is never modified.
func ApplyEvent(latest *models.TimeRecord, event EventType, now time.Time) (next *models.TimeRecord, created bool, err error) {
	switch event {
	case EventCheckIn:
		if latest != nil && latest.IsOpen() {
			return nil, false, ErrAlreadyCheckedIn
		}
		return &models.TimeRecord{
			Date:    models.DateOf(now),
			CheckIn: now,
		}, true, nil

	case EventCheckOut:
		if latest == nil || !latest.IsOpen() {
			return nil, false, ErrNotCheckedInOrCheckedOut
		}
		next = cloneRecord(latest)
		next.CheckOut = &now
		return next, false, nil

	case EventBreakStart:
		if latest == nil || !latest.IsOpen() {
			return nil, false, ErrNotCheckedIn
		}
		if latest.OnBreak() {
			return nil, false, ErrBreakAlreadyStarted
		}
		next = cloneRecord(latest)
		next.BreakStart = &now
		next.BreakEnd = nil
		return next, false, nil

	case EventBreakEnd:
		if latest == nil || latest.BreakStart == nil || latest.BreakEnd != nil {
			return nil, false, ErrBreakNotStarted
		}
		next = cloneRecord(latest)
		next.BreakEnd = &now
		return next, false, nil
	}

	return nil, false, ErrInvalidRecordType
}

func cloneRecord(tr *models.TimeRecord) *models.TimeRecord {
	c := *tr
	return &c
}

// ListByEmployee returns every record of the employee in creation order.
func (s *TimeRecordService) ListByEmployee(ctx context.Context, employeeID uint) ([]*models.TimeRecord, error) {
	s.logger.WithField("employee_id", employeeID).Debug("Listing time records")
	return s.repo.GetByEmployeeID(ctx, employeeID)
}

// Location is the zone used for calendar days and rendered timestamps.
func (s *TimeRecordService) Location() *time.Location {
	return s.loc
}

// employeeLocks serializes sequencer calls per employee within this process.
type employeeLocks struct {
	mu    sync.Mutex
	locks map[uint]*employeeLock
}

type employeeLock struct {
	mu   sync.Mutex
	refs int
}

func newEmployeeLocks() *employeeLocks {
	return &employeeLocks{locks: make(map[uint]*employeeLock)}
}

func (l *employeeLocks) lock(employeeID uint) func() {
	l.mu.Lock()
	el, ok := l.locks[employeeID]
	if !ok {
		el = &employeeLock{}
		l.locks[employeeID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()

	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, employeeID)
		}
		l.mu.Unlock()
	}
}
