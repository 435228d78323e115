package dto

// UpsertRateRequest represents payload for saving a rate. When a rate for
// the same (item, material, uom) triple exists its price is overwritten.
type UpsertRateRequest struct {
	ItemID     uint    `json:"itemId" validate:"required"`
	MaterialID uint    `json:"materialId" validate:"required"`
	UOM        string  `json:"uom" validate:"required,oneof=sqcm sqft nos mtr"`
	Rate       float64 `json:"rate" validate:"required,gt=0"`
}

// UpdateRatePriceRequest represents payload for changing a rate's price by id.
type UpdateRatePriceRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

// GetRateRequest represents the exact-triple rate lookup query.
type GetRateRequest struct {
	ItemID     uint   `query:"itemId" validate:"required"`
	MaterialID uint   `query:"materialId" validate:"required"`
	UOM        string `query:"uom" validate:"required,oneof=sqcm sqft nos mtr"`
}

// RateDTO represents a rate joined with its item and material display fields.
type RateDTO struct {
	ID              uint    `json:"rate_id"`
	ItemID          uint    `json:"item_id"`
	MaterialID      uint    `json:"material_id"`
	UOM             string  `json:"uom"`
	PricePerUnit    float64 `json:"price_per_unit"`
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description"`
	MaterialName    string  `json:"material_name"`
}

// ListRatesResponse represents the full rate listing.
type ListRatesResponse struct {
	Message string    `json:"message"`
	Rates   []RateDTO `json:"rates"`
}

// ResolvePriceRequest represents the pricing query for one prospective line.
type ResolvePriceRequest struct {
	ItemID        uint    `query:"itemId" validate:"required"`
	MaterialID    uint    `query:"materialId" validate:"required"`
	UOM           string  `query:"uom" validate:"required,oneof=sqcm sqft nos mtr"`
	Width         float64 `query:"width" validate:"gte=0"`
	Height        float64 `query:"height" validate:"gte=0"`
	Quantity      int     `query:"quantity" validate:"required,min=1"`
	TaxPercentage float64 `query:"tax" validate:"gte=0"`
}

// ResolvePriceResponse represents a priced prospective line.
type ResolvePriceResponse struct {
	UnitPrice       float64 `json:"unit_price"`
	Amount          float64 `json:"amount"`
	TotalAmount     float64 `json:"total_amount"`
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description"`
	MaterialName    string  `json:"material_name"`
	UOM             string  `json:"uom"`
}
