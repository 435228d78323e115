package businessflow

import (
	"github.com/signforge/billing-api/models"
)

// ComposedLine is one priced row of an in-progress invoice.
type ComposedLine struct {
	SeqNo           int     `json:"slno"`
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description"`
	MaterialName    string  `json:"material_name"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	UOM             string  `json:"uom"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Amount          float64 `json:"amount"`
	TaxPercentage   float64 `json:"tax_percentage"`
	TotalAmount     float64 `json:"total_amount"`
}

// BillComposer accumulates the line items of one invoice being composed
// or edited. It is scoped to a single editing session, holds no durable
// state, and keeps sequence numbers contiguous and 1-based at all times.
type BillComposer struct {
	customerName string
	title        string
	lines        []ComposedLine
}

// NewBillComposer creates an empty composer.
func NewBillComposer() *BillComposer {
	return &BillComposer{title: "Invoice / Bill"}
}

// SetCustomer records the customer name and invoice title for the session.
func (b *BillComposer) SetCustomer(name, title string) {
	b.customerName = name
	if title != "" {
		b.title = title
	}
}

func (b *BillComposer) CustomerName() string { return b.customerName }

func (b *BillComposer) Title() string { return b.title }

// AddLine appends a priced line, assigning the next sequence number.
func (b *BillComposer) AddLine(line ComposedLine) ComposedLine {
	line.SeqNo = len(b.lines) + 1
	b.lines = append(b.lines, line)
	return line
}

// RemoveLine deletes the line with the given sequence number and
// renumbers the remainder to a contiguous 1-based sequence, preserving
// relative order. Reports whether a line matched.
func (b *BillComposer) RemoveLine(seqNo int) bool {
	idx := -1
	for i, line := range b.lines {
		if line.SeqNo == seqNo {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	b.lines = append(b.lines[:idx], b.lines[idx+1:]...)
	for i := range b.lines {
		b.lines[i].SeqNo = i + 1
	}
	return true
}

// Lines returns a copy of the current line list in sequence order.
func (b *BillComposer) Lines() []ComposedLine {
	out := make([]ComposedLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// GrandTotal recomputes the sum of tax-inclusive line totals on demand.
func (b *BillComposer) GrandTotal() float64 {
	var total float64
	for _, line := range b.lines {
		total += line.TotalAmount
	}
	return total
}

// Reset clears all lines and customer state, returning the composer to
// the blank state used both for a new invoice and as the first step of
// loading an existing one.
func (b *BillComposer) Reset() {
	b.customerName = ""
	b.title = "Invoice / Bill"
	b.lines = nil
}

// LoadInvoice resets the composer and bulk-adds the persisted lines of
// an invoice, reversing the composed-description encoding so each line's
// item name, material name, and free text are editable again. Lines with
// no parenthesized material segment load with material "Unknown".
func (b *BillComposer) LoadInvoice(invoice *models.Invoice, lines []*models.InvoiceItem) {
	b.Reset()
	b.SetCustomer(invoice.CustomerName, invoice.Title)

	for _, line := range lines {
		itemName, materialName, freeText := models.SplitDescription(line.Description)
		b.AddLine(ComposedLine{
			ItemName:        itemName,
			ItemDescription: freeText,
			MaterialName:    materialName,
			Width:           line.Width,
			Height:          line.Height,
			UOM:             line.UOM,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Amount:          line.Amount,
			TaxPercentage:   line.TaxPercentage,
			TotalAmount:     line.TotalAmount,
		})
	}
}
