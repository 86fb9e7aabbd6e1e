package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-backend/internal/model"
)

func (s *gormStore) ListEmployees(ctx context.Context, f EmployeeFilter) ([]model.Employee, error) {
	q := s.db.WithContext(ctx)
	if f.Department != "" {
		q = q.Where("department = ?", f.Department).Order("name ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var employees []model.Employee
	if err := q.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *gormStore) GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	if err := first(s.db.WithContext(ctx), &e, id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *gormStore) CreateEmployee(ctx context.Context, e *model.Employee) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateEmployee(ctx context.Context, id uuid.UUID, changes Changes) (*model.Employee, error) {
	var e model.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateByID(tx, &e, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *gormStore) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Employee{}, id, "employee")
}
