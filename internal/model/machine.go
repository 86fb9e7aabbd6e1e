package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Machine is a piece of plant equipment that sensors and work orders attach to.
type Machine struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"size:256;not null" json:"name"`
	SerialNumber        string         `gorm:"size:128;uniqueIndex;not null" json:"serial_number"`
	Manufacturer        *string        `gorm:"size:256" json:"manufacturer"`
	Model               *string        `gorm:"size:256" json:"model"`
	Location            string         `gorm:"size:256;not null" json:"location"`
	Status              MachineStatus  `gorm:"size:32;index;not null" json:"status"`
	InstallationDate    *time.Time     `json:"installation_date"`
	LastMaintenanceDate *time.Time     `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time     `json:"next_maintenance_date"`
	Specifications      datatypes.JSON `json:"specifications"`
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`

	// Associations
	Sensors []Sensor `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"sensors,omitempty"`
}

func (m *Machine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MachineOperational
	}
	return nil
}
