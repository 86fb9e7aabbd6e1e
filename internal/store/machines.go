package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-backend/internal/model"
)

func (s *gormStore) ListMachines(ctx context.Context, f MachineFilter) ([]model.Machine, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status).Order("name ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var machines []model.Machine
	if err := q.Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

// ListMachinesWithSensors returns every machine with its sensors attached.
func (s *gormStore) ListMachinesWithSensors(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	err := s.db.WithContext(ctx).
		Preload("Sensors", func(db *gorm.DB) *gorm.DB { return db.Order("sensor_code ASC") }).
		Order("name ASC").
		Find(&machines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list machines with sensors: %w", err)
	}
	return machines, nil
}

func (s *gormStore) GetMachine(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	var m model.Machine
	if err := first(s.db.WithContext(ctx), &m, id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, id uuid.UUID, changes Changes) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateByID(tx, &m, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) DeleteMachine(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Machine{}, id, "machine")
}
