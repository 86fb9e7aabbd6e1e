package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sensor is an instrument mounted on a machine.
type Sensor struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	MachineID           uuid.UUID    `gorm:"type:uuid;index;not null" json:"machine_id"`
	Name                string       `gorm:"size:256;not null" json:"name"`
	SensorCode          string       `gorm:"size:64;uniqueIndex;not null" json:"sensor_code"`
	Type                SensorType   `gorm:"size:32;index;not null" json:"type"`
	Status              SensorStatus `gorm:"size:32;index;not null" json:"status"`
	Unit                *string      `gorm:"size:16" json:"unit"`
	MinThreshold        *float64     `json:"min_threshold"`
	MaxThreshold        *float64     `json:"max_threshold"`
	CurrentValue        *float64     `json:"current_value"`
	LastReading         *time.Time   `json:"last_reading"`
	LocationDescription *string      `json:"location_description"`
	CalibrationDate     *time.Time   `json:"calibration_date"`
	CreatedAt           time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	// Associations
	Machine *Machine `json:"machine,omitempty"`
}

func (s *Sensor) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SensorActive
	}
	return nil
}

// SensorReading is a single measured value.
type SensorReading struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SensorID       uuid.UUID `gorm:"type:uuid;not null;index:idx_sensor_readings_sensor_ts,priority:1" json:"sensor_id"`
	Value          float64   `gorm:"not null" json:"value"`
	Timestamp      time.Time `gorm:"not null;index:idx_sensor_readings_sensor_ts,priority:2" json:"timestamp"`
	AlertTriggered bool      `gorm:"not null;index" json:"alert_triggered"`
	Notes          *string   `json:"notes"`

	// Associations
	Sensor *Sensor `gorm:"constraint:OnDelete:CASCADE" json:"sensor,omitempty"`
}

func (r *SensorReading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return nil
}
