package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"maintenance-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ListMachines(ctx context.Context, f MachineFilter) ([]model.Machine, error)
	ListMachinesWithSensors(ctx context.Context) ([]model.Machine, error)
	GetMachine(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	CreateMachine(ctx context.Context, m *model.Machine) error
	UpdateMachine(ctx context.Context, id uuid.UUID, changes Changes) (*model.Machine, error)
	DeleteMachine(ctx context.Context, id uuid.UUID) error

	ListParts(ctx context.Context, f PartFilter) ([]model.Part, error)
	ListLowStockParts(ctx context.Context) ([]model.Part, error)
	GetPart(ctx context.Context, id uuid.UUID) (*model.Part, error)
	CreatePart(ctx context.Context, p *model.Part) error
	UpdatePart(ctx context.Context, id uuid.UUID, changes Changes) (*model.Part, error)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int) (*model.Part, error)
	DeletePart(ctx context.Context, id uuid.UUID) error

	ListSensors(ctx context.Context, f SensorFilter) ([]model.Sensor, error)
	GetSensor(ctx context.Context, id uuid.UUID) (*model.Sensor, error)
	CreateSensor(ctx context.Context, s *model.Sensor) error
	UpdateSensor(ctx context.Context, id uuid.UUID, changes Changes) (*model.Sensor, error)
	DeleteSensor(ctx context.Context, id uuid.UUID) error
	ListReadings(ctx context.Context, sensorID uuid.UUID, limit int) ([]model.SensorReading, error)
	AddReading(ctx context.Context, sensorID uuid.UUID, in ReadingInput) (*ReadingResult, error)
	AddReadingByCode(ctx context.Context, sensorCode string, in ReadingInput) (*ReadingResult, error)
	ListTriggeredAlerts(ctx context.Context, limit int) ([]model.SensorReading, error)
	ListLatestReadings(ctx context.Context, limit int) ([]model.SensorReading, error)

	ListEmployees(ctx context.Context, f EmployeeFilter) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	CreateEmployee(ctx context.Context, e *model.Employee) error
	UpdateEmployee(ctx context.Context, id uuid.UUID, changes Changes) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error

	ListWorkOrders(ctx context.Context, f WorkOrderFilter) ([]model.WorkOrder, error)
	ListPendingWorkOrders(ctx context.Context) ([]model.WorkOrder, error)
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, w *model.WorkOrder) error
	UpdateWorkOrder(ctx context.Context, id uuid.UUID, changes Changes) (*model.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) error
	AddWorkOrderPart(ctx context.Context, workOrderID, partID uuid.UUID, quantity int) (*model.WorkOrderPart, error)
	RemoveWorkOrderPart(ctx context.Context, workOrderID, partID uuid.UUID) error
	RecordProgress(ctx context.Context, id uuid.UUID, p Progress) (*model.WorkOrder, error)

	PutSubscription(ctx context.Context, sub *model.PushSubscription, machineIDs []uuid.UUID) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForMachine(ctx context.Context, machineID uuid.UUID) ([]model.PushSubscription, error)

	ReportData(ctx context.Context, since time.Time) (*ReportData, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// notFound translates GORM's missing-row error into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// first loads a row by primary key into dst.
func first(tx *gorm.DB, dst any, id uuid.UUID) error {
	if err := tx.First(dst, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	return nil
}

// updateByID applies changes to the row identified by id and reloads it into
// dst. Missing rows yield ErrNotFound.
func updateByID(tx *gorm.DB, dst any, id uuid.UUID, changes Changes) error {
	if err := first(tx, dst, id); err != nil {
		return err
	}
	if len(changes) > 0 {
		if err := tx.Model(dst).Updates(map[string]any(changes)).Error; err != nil {
			return err
		}
	}
	return first(tx, dst, id)
}

// deleteByID removes the row identified by id from model's table.
func deleteByID(ctx context.Context, db *gorm.DB, m any, id uuid.UUID, what string) error {
	res := db.WithContext(ctx).Delete(m, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", what, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
