package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
)

func (s *gormStore) ListParts(ctx context.Context, f PartFilter) ([]model.Part, error) {
	q := s.db.WithContext(ctx)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category).Order("name ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var parts []model.Part
	if err := q.Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	return parts, nil
}

// ListLowStockParts returns parts flagged low on stock or at or below their
// minimum, emptiest first.
func (s *gormStore) ListLowStockParts(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	err := s.db.WithContext(ctx).
		Where("status = ? OR quantity <= min_stock", model.PartLowStock).
		Order("quantity ASC").
		Find(&parts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock parts: %w", err)
	}
	return parts, nil
}

func (s *gormStore) GetPart(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	if err := first(s.db.WithContext(ctx), &p, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePart stores p with its status derived from the stock level.
func (s *gormStore) CreatePart(ctx context.Context, p *model.Part) error {
	p.Status = status.PartStatusFor(p.Status, p.Quantity, p.MinStock)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	return nil
}

func (s *gormStore) UpdatePart(ctx context.Context, id uuid.UUID, changes Changes) (*model.Part, error) {
	var p model.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateByID(tx, &p, id, changes); err != nil {
			return err
		}
		return rederivePartStatus(tx, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStock sets the on-hand quantity and re-derives the status.
func (s *gormStore) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*model.Part, error) {
	return s.UpdatePart(ctx, id, Changes{"quantity": quantity})
}

func (s *gormStore) DeletePart(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.Part{}, id, "part")
}

// rederivePartStatus persists the stock-derived status of p if it drifted.
func rederivePartStatus(tx *gorm.DB, p *model.Part) error {
	next := status.PartStatusFor(p.Status, p.Quantity, p.MinStock)
	if next == p.Status {
		return nil
	}
	if err := tx.Model(p).Update("status", next).Error; err != nil {
		return fmt.Errorf("failed to update part status: %w", err)
	}
	p.Status = next
	return nil
}

// adjustStock moves the quantity of a part by delta inside tx.
func adjustStock(tx *gorm.DB, partID uuid.UUID, delta int) (*model.Part, error) {
	var p model.Part
	if err := first(tx, &p, partID); err != nil {
		return nil, err
	}
	if p.Quantity+delta < 0 {
		return nil, ErrInsufficientStock
	}
	p.Quantity += delta
	if err := tx.Model(&p).Update("quantity", p.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if err := rederivePartStatus(tx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
