package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is a finalized bill. InvoiceNumber is assigned once at creation,
// strictly increasing across the table, and never reassigned after deletes.
// InvoiceDate is restamped to the current time on every update.
// Table: invoices
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"invoice_id"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_invoices_uuid" json:"uuid"`
	InvoiceNumber int64     `gorm:"not null;uniqueIndex:uk_invoices_invoice_number" json:"invoice_number"`
	CustomerName  string    `gorm:"size:255;not null" json:"customer_name"`
	Title         string    `gorm:"size:255;not null;default:'Invoice / Bill'" json:"invoice_title"`
	GrandTotal    float64   `gorm:"type:numeric(14,2);not null" json:"grand_total"`
	InvoiceDate   time.Time `gorm:"not null;index:idx_invoices_invoice_date" json:"invoice_date"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceCounter is the high-water mark for assigned invoice numbers. A
// single row outlives invoice deletion, so a number is never reassigned
// even when the highest-numbered invoice is removed.
type InvoiceCounter struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	LastNumber int64 `gorm:"not null" json:"last_number"`
}

func (InvoiceCounter) TableName() string { return "invoice_counters" }

// InvoiceFilter represents filter criteria for invoice queries
type InvoiceFilter struct {
	ID            *uint
	InvoiceNumber *int64
	CustomerName  *string
}
