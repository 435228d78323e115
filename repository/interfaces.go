// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/signforge/billing-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// ItemRepository defines operations for catalog items
type ItemRepository interface {
	Repository[models.Item, models.ItemFilter]
	ByName(ctx context.Context, name string) (*models.Item, error)
	ListOrderedByName(ctx context.Context) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// MaterialRepository defines operations for catalog materials
type MaterialRepository interface {
	Repository[models.Material, models.MaterialFilter]
	ByName(ctx context.Context, name string) (*models.Material, error)
	ListOrderedByName(ctx context.Context) ([]*models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// RateRow is a rate joined with its item and material names for display
type RateRow struct {
	ID              uint    `gorm:"column:id" json:"rate_id"`
	ItemID          uint    `gorm:"column:item_id" json:"item_id"`
	MaterialID      uint    `gorm:"column:material_id" json:"material_id"`
	UOM             string  `gorm:"column:uom" json:"uom"`
	PricePerUnit    float64 `gorm:"column:price_per_unit" json:"price_per_unit"`
	ItemName        string  `gorm:"column:item_name" json:"item_name"`
	ItemDescription string  `gorm:"column:item_description" json:"item_description"`
	MaterialName    string  `gorm:"column:material_name" json:"material_name"`
}

// RateRepository defines operations for per-unit rates.
// The (item_id, material_id, uom) triple is the natural key; Upsert
// overwrites the price when a row for the triple already exists.
type RateRepository interface {
	Repository[models.Rate, models.RateFilter]
	ByTriple(ctx context.Context, itemID, materialID uint, uom string) (*models.Rate, error)
	TripleWithNames(ctx context.Context, itemID, materialID uint, uom string) (*RateRow, error)
	ListWithNames(ctx context.Context) ([]*RateRow, error)
	Upsert(ctx context.Context, rate *models.Rate) error
	UpdatePrice(ctx context.Context, id uint, pricePerUnit float64) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// InvoiceRepository defines operations for invoices
type InvoiceRepository interface {
	Repository[models.Invoice, models.InvoiceFilter]
	NextInvoiceNumber(ctx context.Context) (int64, error)
	ListByNumberDesc(ctx context.Context) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// InvoiceItemRepository defines operations for persisted invoice lines
type InvoiceItemRepository interface {
	Repository[models.InvoiceItem, models.InvoiceItemFilter]
	ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.InvoiceItem, error)
	DeleteByInvoice(ctx context.Context, invoiceID uint) error
}
