package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a sellable catalog entry (e.g. "Banner", "Flex Board").
// Table: items
// Unique by name; rates reference items by id without a FK constraint,
// so deleting an item leaves any dependent rates in place.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_items_uuid" json:"uuid"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uk_items_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ItemFilter represents filter criteria for item queries
type ItemFilter struct {
	ID   *uint
	Name *string
}
