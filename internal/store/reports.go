package store

import (
	"context"
	"fmt"
	"time"
)

// ReportData loads every machine, part and sensor plus the work orders
// created, scheduled or completed since the given time. A zero since loads
// every work order.
func (s *gormStore) ReportData(ctx context.Context, since time.Time) (*ReportData, error) {
	db := s.db.WithContext(ctx)
	var data ReportData
	if err := db.Order("name ASC").Find(&data.Machines).Error; err != nil {
		return nil, fmt.Errorf("failed to load machines: %w", err)
	}
	if err := db.Order("category ASC, name ASC").Find(&data.Parts).Error; err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}
	if err := db.Order("sensor_code ASC").Find(&data.Sensors).Error; err != nil {
		return nil, fmt.Errorf("failed to load sensors: %w", err)
	}
	q := withWorkOrderRelations(db).Order("created_at ASC")
	if !since.IsZero() {
		q = q.Where("created_at >= ? OR scheduled_date >= ? OR completed_at >= ?", since, since, since)
	}
	if err := q.Find(&data.WorkOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}
	return &data, nil
}
