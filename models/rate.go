package models

import "time"

// Unit-of-measure codes stored on rates and invoice lines.
// Only the two area units price by width and height.
const (
	UOMSquareCentimeter = "sqcm"
	UOMSquareFoot       = "sqft"
	UOMCount            = "nos"
	UOMMeter            = "mtr"
)

// IsValidUOM reports whether code is one of the supported unit codes.
func IsValidUOM(code string) bool {
	switch code {
	case UOMSquareCentimeter, UOMSquareFoot, UOMCount, UOMMeter:
		return true
	}
	return false
}

// IsAreaUOM reports whether code prices by area (requires width and height).
func IsAreaUOM(code string) bool {
	return code == UOMSquareCentimeter || code == UOMSquareFoot
}

// Rate is the price per unit for one (item, material, unit) combination.
// Table: rates
// At most one row per (item_id, material_id, uom); writes upsert on that key.
// ItemID and MaterialID are plain references without FK constraints, matching
// the catalog's no-cascade delete behavior.
type Rate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ItemID       uint      `gorm:"not null;uniqueIndex:uk_rates_item_material_uom,priority:1" json:"item_id"`
	MaterialID   uint      `gorm:"not null;uniqueIndex:uk_rates_item_material_uom,priority:2" json:"material_id"`
	UOM          string    `gorm:"size:16;not null;uniqueIndex:uk_rates_item_material_uom,priority:3" json:"uom"`
	PricePerUnit float64   `gorm:"type:numeric(12,4);not null" json:"price_per_unit"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Rate) TableName() string { return "rates" }

// RateFilter represents filter criteria for rate queries
type RateFilter struct {
	ID         *uint
	ItemID     *uint
	MaterialID *uint
	UOM        *string
}
