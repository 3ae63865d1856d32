package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"timeclock/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportFilter selects records for the report. Dates are inclusive.
type ReportFilter struct {
	Start      time.Time
	End        time.Time
	EmployeeID *uint
}

type TimeRecordRepository interface {
	// Atomic runs fn inside a transaction; the repository passed to fn is bound to it.
	Atomic(ctx context.Context, fn func(repo TimeRecordRepository) error) error
	// LockEmployee loads the employee row with an update lock, or nil if it does not exist.
	LockEmployee(ctx context.Context, employeeID uint) (*models.Employee, error)
	GetLatestByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*models.TimeRecord, error)
	Create(ctx context.Context, record *models.TimeRecord) error
	Update(ctx context.Context, record *models.TimeRecord) error
	GetByEmployeeID(ctx context.Context, employeeID uint) ([]*models.TimeRecord, error)
	GetForReport(ctx context.Context, filter ReportFilter) ([]*models.TimeRecord, error)
	CountOpenByEmployeeID(ctx context.Context, employeeID uint) (int64, error)
}

type GormTimeRecordRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormTimeRecordRepository(db *gorm.DB) (*GormTimeRecordRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.TimeRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate time_records table")
		return nil, err
	}

	logger.Info("Time record repository initialized")

	return &GormTimeRecordRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormTimeRecordRepository) Atomic(ctx context.Context, fn func(repo TimeRecordRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTimeRecordRepository{db: tx, logger: r.logger})
	})
}

func (r *GormTimeRecordRepository) LockEmployee(ctx context.Context, employeeID uint) (*models.Employee, error) {
	var employee models.Employee
	// SQLite drops the FOR UPDATE clause; its writers are serialized by the connection pool.
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&employee, employeeID)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("employee_id", employeeID).Debug("Employee not found for lock")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to lock employee")
		return nil, fmt.Errorf("lock employee %d: %w", employeeID, result.Error)
	}

	return &employee, nil
}

func (r *GormTimeRecordRepository) GetLatestByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*models.TimeRecord, error) {
	var record models.TimeRecord
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, models.DateOf(date)).
		Order("id DESC").
		First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        date.Format("2006-01-02"),
		}).Debug("No time record for employee/date")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get latest time record")
		return nil, fmt.Errorf("get latest time record: %w", result.Error)
	}

	return &record, nil
}

func (r *GormTimeRecordRepository) Create(ctx context.Context, record *models.TimeRecord) error {
	r.logger.WithFields(logrus.Fields{
		"employee_id": record.EmployeeID,
		"date":        record.Date.Format("2006-01-02"),
	}).Info("Creating time record")

	if record.EmployeeID == 0 || record.CheckIn.IsZero() {
		r.logger.WithField("employee_id", record.EmployeeID).Warn("Invalid time record data")
		return errors.New("invalid time record: employee and check-in are required")
	}

	record.Date = models.DateOf(record.Date)

	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(record)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create time record")
		return fmt.Errorf("create time record: %w", result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"id":          record.ID,
		"employee_id": record.EmployeeID,
	}).Info("Time record created successfully")

	return nil
}

func (r *GormTimeRecordRepository) Update(ctx context.Context, record *models.TimeRecord) error {
	r.logger.WithFields(logrus.Fields{
		"id":          record.ID,
		"employee_id": record.EmployeeID,
	}).Info("Updating time record")

	if record.ID == 0 {
		return errors.New("invalid time record: missing id")
	}

	result := r.db.WithContext(ctx).Model(record).
		Select("check_out", "break_start", "break_end", "updated_at").
		Updates(map[string]interface{}{
			"check_out":   record.CheckOut,
			"break_start": record.BreakStart,
			"break_end":   record.BreakEnd,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update time record")
		return fmt.Errorf("update time record %d: %w", record.ID, result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", record.ID).Warn("Time record not found for update")
		return fmt.Errorf("time record %d not found", record.ID)
	}

	r.logger.WithField("id", record.ID).Info("Time record updated successfully")

	return nil
}

func (r *GormTimeRecordRepository) GetByEmployeeID(ctx context.Context, employeeID uint) ([]*models.TimeRecord, error) {
	var records []*models.TimeRecord
	result := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id").
		Find(&records)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get time records by employee ID")
		return nil, fmt.Errorf("list time records: %w", result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"count":       len(records),
	}).Debug("Retrieved time records by employee ID")

	return records, nil
}

func (r *GormTimeRecordRepository) GetForReport(ctx context.Context, filter ReportFilter) ([]*models.TimeRecord, error) {
	var records []*models.TimeRecord

	query := r.db.WithContext(ctx).
		Joins("Employee").
		Where("time_records.date BETWEEN ? AND ?", models.DateOf(filter.Start), models.DateOf(filter.End))

	if filter.EmployeeID != nil {
		query = query.Where("time_records.employee_id = ?", *filter.EmployeeID)
	}

	result := query.Order("time_records.id").Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get time records for report")
		return nil, fmt.Errorf("report query: %w", result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"start": filter.Start.Format("2006-01-02"),
		"end":   filter.End.Format("2006-01-02"),
		"count": len(records),
	}).Debug("Retrieved time records for report")

	return records, nil
}

func (r *GormTimeRecordRepository) CountOpenByEmployeeID(ctx context.Context, employeeID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.TimeRecord{}).
		Where("employee_id = ? AND check_out IS NULL", employeeID).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("count open time records: %w", result.Error)
	}

	return count, nil
}
