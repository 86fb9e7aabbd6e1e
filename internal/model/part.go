package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Part is a stocked spare part.
type Part struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:256;not null" json:"name"`
	Code        string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Category    string     `gorm:"size:128;index;not null" json:"category"`
	Description *string    `json:"description"`
	Location    *string    `gorm:"size:256" json:"location"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	MinStock    int        `gorm:"not null" json:"min_stock"`
	MaxStock    *int       `json:"max_stock"`
	Status      PartStatus `gorm:"size:32;index;not null" json:"status"`
	Supplier    *string    `gorm:"size:256" json:"supplier"`
	UnitPrice   *float64   `json:"unit_price"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
