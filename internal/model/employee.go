package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Employee is a member of the maintenance staff.
type Employee struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                      `gorm:"size:256;not null" json:"name"`
	EmployeeCode   string                      `gorm:"size:64;uniqueIndex;not null" json:"employee_code"`
	Email          string                      `gorm:"size:256;not null" json:"email"`
	Phone          *string                     `gorm:"size:32" json:"phone"`
	Department     string                      `gorm:"size:128;index;not null" json:"department"`
	Position       string                      `gorm:"size:128;not null" json:"position"`
	HireDate       time.Time                   `gorm:"not null" json:"hire_date"`
	Status         EmployeeStatus              `gorm:"size:32;not null" json:"status"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	Certifications datatypes.JSONSlice[string] `json:"certifications"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	return nil
}
