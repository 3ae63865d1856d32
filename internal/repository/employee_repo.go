package repository

import (
	"context"
	"errors"
	"fmt"
	"timeclock/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrDuplicateName is returned when an employee name is already taken.
var ErrDuplicateName = errors.New("employee name already exists")

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByName(ctx context.Context, name string) (*models.Employee, error)
	GetAll(ctx context.Context) ([]*models.Employee, error)
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := newLogger()

	// creates the table if missing
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	logger.Info("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	r.logger.WithField("name", employee.Name).Info("Creating employee")

	existing, err := r.GetByName(ctx, employee.Name)
	if err != nil {
		return err
	}

	if existing != nil {
		r.logger.WithField("name", employee.Name).Warn("Employee name already taken")
		return ErrDuplicateName
	}

	result := r.db.WithContext(ctx).Create(employee)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		r.logger.WithField("name", employee.Name).Warn("Employee name already taken")
		return ErrDuplicateName
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create employee")
		return fmt.Errorf("create employee: %w", result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"id":   employee.ID,
		"name": employee.Name,
	}).Info("Employee created successfully")

	return nil
}

func (r *GormEmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Employee not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by ID")
		return nil, fmt.Errorf("get employee %d: %w", id, result.Error)
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetByName(ctx context.Context, name string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by name")
		return nil, fmt.Errorf("get employee by name: %w", result.Error)
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.WithContext(ctx).Order("id").Find(&employees)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list employees")
		return nil, fmt.Errorf("list employees: %w", result.Error)
	}

	r.logger.WithField("count", len(employees)).Debug("Retrieved employees")

	return employees, nil
}
