package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/parse"
)

// withWorkOrderRelations preloads what the work order views display.
func withWorkOrderRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Machine").Preload("Assignee").Preload("Parts.Part")
}

func (s *gormStore) ListWorkOrders(ctx context.Context, f WorkOrderFilter) ([]model.WorkOrder, error) {
	q := withWorkOrderRelations(s.db.WithContext(ctx))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status).Order("scheduled_date ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var orders []model.WorkOrder
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return orders, nil
}

// ListPendingWorkOrders returns open orders, most urgent first, then by
// scheduled date.
func (s *gormStore) ListPendingWorkOrders(ctx context.Context) ([]model.WorkOrder, error) {
	// One clause: gorm drops the expression of an OrderBy merged with another.
	urgency := clause.OrderBy{Expression: clause.Expr{
		SQL: "CASE priority WHEN ? THEN 4 WHEN ? THEN 3 WHEN ? THEN 2 ELSE 1 END DESC, scheduled_date ASC",
		Vars: []any{
			model.PriorityCritical, model.PriorityHigh, model.PriorityMedium,
		},
		WithoutParentheses: true,
	}}
	var orders []model.WorkOrder
	err := withWorkOrderRelations(s.db.WithContext(ctx)).
		Where("status = ?", model.WorkOrderPending).
		Order(urgency).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending work orders: %w", err)
	}
	return orders, nil
}

func (s *gormStore) GetWorkOrder(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var w model.WorkOrder
	if err := first(withWorkOrderRelations(s.db.WithContext(ctx)), &w, id); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkOrder stores w, allocating the next OS-YYYY-NNN number for the
// current year when none is given.
func (s *gormStore) CreateWorkOrder(ctx context.Context, w *model.WorkOrder) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if strings.TrimSpace(w.OrderNumber) == "" {
			year := s.now().Year()
			var existing []string
			err := tx.Model(&model.WorkOrder{}).
				Where("order_number LIKE ?", fmt.Sprintf("%s-%04d-%%", parse.OrderPrefix, year)).
				Pluck("order_number", &existing).Error
			if err != nil {
				return err
			}
			w.OrderNumber = parse.NextOrderNumber(year, existing)
		}
		return tx.Omit(clause.Associations).Create(w).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateWorkOrder(ctx context.Context, id uuid.UUID, changes Changes) (*model.WorkOrder, error) {
	var w model.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateByID(tx, &w, id, changes)
	})
	if err != nil {
		return nil, err
	}
	return s.GetWorkOrder(ctx, w.ID)
}

func (s *gormStore) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.db, &model.WorkOrder{}, id, "work order")
}

// AddWorkOrderPart books quantity units of a part against a work order and
// takes them out of stock. Booking a part twice adds to the existing line.
func (s *gormStore) AddWorkOrderPart(ctx context.Context, workOrderID, partID uuid.UUID, quantity int) (*model.WorkOrderPart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	var line model.WorkOrderPart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &model.WorkOrder{}, workOrderID); err != nil {
			return err
		}
		part, err := adjustStock(tx, partID, -quantity)
		if err != nil {
			return err
		}

		err = tx.Where("work_order_id = ? AND part_id = ?", workOrderID, partID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = model.WorkOrderPart{WorkOrderID: workOrderID, PartID: partID, QuantityUsed: quantity}
			if err := tx.Omit("Part").Create(&line).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			line.QuantityUsed += quantity
			if err := tx.Model(&line).Update("quantity_used", line.QuantityUsed).Error; err != nil {
				return err
			}
		}
		line.Part = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveWorkOrderPart drops a part line from a work order and puts the
// quantity back in stock.
func (s *gormStore) RemoveWorkOrderPart(ctx context.Context, workOrderID, partID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line model.WorkOrderPart
		err := tx.Where("work_order_id = ? AND part_id = ?", workOrderID, partID).First(&line).Error
		if err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		_, err = adjustStock(tx, partID, line.QuantityUsed)
		return err
	})
}

// RecordProgress logs hours and notes against a work order and advances its
// status. The first progress moves a pending order to in_progress.
func (s *gormStore) RecordProgress(ctx context.Context, id uuid.UUID, p Progress) (*model.WorkOrder, error) {
	at := p.At
	if at.IsZero() {
		at = s.now()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w model.WorkOrder
		if err := first(tx, &w, id); err != nil {
			return err
		}
		if w.Status == model.WorkOrderCompleted || w.Status == model.WorkOrderCancelled {
			return ErrWorkOrderClosed
		}

		changes := Changes{}
		if p.HoursWorked > 0 {
			hours := p.HoursWorked
			if w.ActualHours != nil {
				hours += *w.ActualHours
			}
			changes["actual_hours"] = hours
		}
		if note := strings.TrimSpace(p.Notes); note != "" {
			if w.Notes != nil && *w.Notes != "" {
				note = *w.Notes + "\n" + note
			}
			changes["notes"] = note
		}
		if w.StartedAt == nil {
			changes["started_at"] = at
		}
		if p.Completed {
			changes["status"] = model.WorkOrderCompleted
			changes["completed_at"] = at
		} else {
			changes["status"] = model.WorkOrderInProgress
		}
		return tx.Model(&w).Updates(map[string]any(changes)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetWorkOrder(ctx, id)
}
