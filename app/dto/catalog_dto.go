package dto

// CreateItemRequest represents payload for creating a catalog item.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateItemRequest represents payload for renaming/redescribing an item.
type UpdateItemRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// ItemDTO represents a catalog item in API responses.
type ItemDTO struct {
	ID          uint   `json:"id"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// ListItemsResponse represents the item listing, ordered by name.
type ListItemsResponse struct {
	Message string    `json:"message"`
	Items   []ItemDTO `json:"items"`
}

// CreateMaterialRequest represents payload for creating a material.
type CreateMaterialRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateMaterialRequest represents payload for renaming a material.
type UpdateMaterialRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// MaterialDTO represents a material in API responses.
type MaterialDTO struct {
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ListMaterialsResponse represents the material listing, ordered by name.
type ListMaterialsResponse struct {
	Message   string        `json:"message"`
	Materials []MaterialDTO `json:"materials"`
}
