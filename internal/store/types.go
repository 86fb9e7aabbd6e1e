package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"maintenance-backend/internal/model"
	"maintenance-backend/internal/status"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a work order consumes more of a
	// part than is in stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrWorkOrderClosed is returned when progress is recorded on a completed
	// or cancelled work order.
	ErrWorkOrderClosed = errors.New("work order is closed")
)

// Changes maps column names to new values for a partial update.
type Changes map[string]any

// Has reports whether any of the given columns is being changed.
func (c Changes) Has(columns ...string) bool {
	for _, col := range columns {
		if _, ok := c[col]; ok {
			return true
		}
	}
	return false
}

type MachineFilter struct {
	Status model.MachineStatus
}

type PartFilter struct {
	Category string
}

type SensorFilter struct {
	MachineID *uuid.UUID
}

type EmployeeFilter struct {
	Department string
}

type WorkOrderFilter struct {
	Status model.WorkOrderStatus
}

// ReadingInput is a measured value to record against a sensor.
type ReadingInput struct {
	Value     float64
	Timestamp time.Time
	Notes     *string
}

// ReadingResult is a stored reading together with the updated sensor and the
// alert level the value was classified at.
type ReadingResult struct {
	Reading model.SensorReading
	Sensor  model.Sensor
	Level   status.AlertLevel
}

// Progress is work logged against a work order.
type Progress struct {
	HoursWorked float64
	Notes       string
	Completed   bool
	At          time.Time
}

// ReportData holds the rows the analytics view aggregates.
type ReportData struct {
	Machines   []model.Machine
	Parts      []model.Part
	Sensors    []model.Sensor
	WorkOrders []model.WorkOrder
}

const (
	DefaultReadingsLimit = 100
	DefaultAlertsLimit   = 50
	DefaultLatestLimit   = 20
)
