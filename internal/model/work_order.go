package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkOrder is a tracked request to perform maintenance on a machine.
type WorkOrder struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber     string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	Title           string          `gorm:"size:256;not null" json:"title"`
	Description     string          `gorm:"not null" json:"description"`
	MachineID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"machine_id"`
	AssignedTo      *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	MaintenanceType MaintenanceType `gorm:"size:32;not null" json:"maintenance_type"`
	Priority        Priority        `gorm:"size:16;not null" json:"priority"`
	Status          WorkOrderStatus `gorm:"size:16;index;not null" json:"status"`
	ScheduledDate   *time.Time      `json:"scheduled_date"`
	StartedAt       *time.Time      `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at"`
	EstimatedHours  *float64        `json:"estimated_hours"`
	ActualHours     *float64        `json:"actual_hours"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Associations
	Machine  *Machine        `gorm:"constraint:OnDelete:CASCADE" json:"machine,omitempty"`
	Assignee *Employee       `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	Parts    []WorkOrderPart `gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
}

func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Priority == "" {
		w.Priority = PriorityMedium
	}
	if w.Status == "" {
		w.Status = WorkOrderPending
	}
	return nil
}

// WorkOrderPart records a part consumed by a work order.
type WorkOrderPart struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkOrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_order_part,priority:1" json:"work_order_id"`
	PartID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_order_part,priority:2" json:"part_id"`
	QuantityUsed int       `gorm:"not null" json:"quantity_used"`
	CreatedAt    time.Time `json:"created_at"`

	// Associations
	Part *Part `gorm:"constraint:OnDelete:RESTRICT" json:"part,omitempty"`
}

func (p *WorkOrderPart) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
