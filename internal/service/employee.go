package service

import (
	"context"
	"errors"
	"strings"
	"timeclock/internal/models"
	"timeclock/internal/repository"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	repo   repository.EmployeeRepository
	logger *logrus.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		logger: newLogger(),
	}
}

// Register creates a new employee. Position is optional.
func (s *EmployeeService) Register(ctx context.Context, name string, position *string) (*models.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Warn("Employee registration without a name")
		return nil, ErrNameRequired
	}

	if position != nil {
		trimmed := strings.TrimSpace(*position)
		if trimmed == "" {
			position = nil
		} else {
			position = &trimmed
		}
	}

	employee := &models.Employee{Name: name, Position: position}

	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.logger.WithError(err).Error("Failed to register employee")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":   employee.ID,
		"name": employee.Name,
	}).Info("Employee registered")

	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	return employee, nil
}
