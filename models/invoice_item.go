package models

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceItem is one persisted line of an invoice. Lines are owned
// exclusively by their invoice: an update replaces the whole set and a
// delete removes them before the invoice row, inside one transaction.
// Description carries the item name, material name, and free text in a
// single composed field (see ComposeDescription).
// Table: invoice_items
type InvoiceItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceID     uint      `gorm:"not null;index:idx_invoice_items_invoice_id" json:"invoice_id"`
	SeqNo         int       `gorm:"column:slno;not null" json:"slno"`
	Description   string    `gorm:"column:item_description;type:text;not null" json:"item_description"`
	Width         float64   `gorm:"type:numeric(10,2);not null;default:0" json:"width"`
	Height        float64   `gorm:"type:numeric(10,2);not null;default:0" json:"height"`
	UOM           string    `gorm:"size:16;not null" json:"uom"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     float64   `gorm:"type:numeric(12,4);not null" json:"unit_price"`
	Amount        float64   `gorm:"type:numeric(14,2);not null" json:"amount"`
	TaxPercentage float64   `gorm:"type:numeric(5,2);not null;default:18.00" json:"tax_percentage"`
	TotalAmount   float64   `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceItemFilter represents filter criteria for invoice line queries
type InvoiceItemFilter struct {
	ID        *uint
	InvoiceID *uint
}

const descriptionSeparator = " - "

// ComposeDescription encodes a line's item name, material name, and free
// text into the single persisted description field:
// "<item> (<material>) - <free text>".
func ComposeDescription(itemName, materialName, freeText string) string {
	return fmt.Sprintf("%s (%s)%s%s", itemName, materialName, descriptionSeparator, freeText)
}

// SplitDescription reverses ComposeDescription. The free text is whatever
// follows the first " - "; the material name is the first parenthesized
// group before it, or "Unknown" when that group is missing. The round trip
// is lossy for names that themselves contain parentheses or " - ".
func SplitDescription(composed string) (itemName, materialName, freeText string) {
	head := composed
	if idx := strings.Index(composed, descriptionSeparator); idx >= 0 {
		head = composed[:idx]
		freeText = composed[idx+len(descriptionSeparator):]
	}

	materialName = "Unknown"
	if open := strings.Index(head, "("); open >= 0 {
		if rel := strings.Index(head[open:], ")"); rel > 0 {
			materialName = head[open+1 : open+rel]
			head = head[:open] + head[open+rel+1:]
		}
	}

	itemName = strings.TrimSpace(head)
	return itemName, materialName, freeText
}
