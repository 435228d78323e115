package models

import (
	"time"

	"github.com/google/uuid"
)

// Material is a substrate an item can be produced on (e.g. "Vinyl").
// Table: materials
type Material struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_materials_uuid" json:"uuid"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uk_materials_name" json:"name"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Material) TableName() string { return "materials" }

// MaterialFilter represents filter criteria for material queries
type MaterialFilter struct {
	ID   *uint
	Name *string
}
