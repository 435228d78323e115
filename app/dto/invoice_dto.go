package dto

// InvoiceLineRequest represents one line of an invoice being saved. The
// backend composes itemName/materialName/itemDescription into the single
// persisted description field.
type InvoiceLineRequest struct {
	SeqNo           int      `json:"slno" validate:"required,min=1"`
	ItemName        string   `json:"itemName" validate:"required"`
	ItemDescription string   `json:"itemDescription"`
	MaterialName    string   `json:"materialName" validate:"required"`
	Width           float64  `json:"width" validate:"gte=0"`
	Height          float64  `json:"height" validate:"gte=0"`
	UOM             string   `json:"uom" validate:"required,oneof=sqcm sqft nos mtr"`
	Quantity        int      `json:"quantity" validate:"required,min=1"`
	UnitPrice       float64  `json:"unitPrice" validate:"gte=0"`
	Amount          float64  `json:"amount" validate:"gte=0"`
	TaxPercentage   *float64 `json:"tax_percentage" validate:"omitempty,gte=0"`
	TotalAmount     float64  `json:"totalAmount" validate:"gte=0"`
}

// CreateInvoiceRequest represents payload for saving a new invoice.
type CreateInvoiceRequest struct {
	CustomerName string               `json:"customerName" validate:"required,max=255"`
	InvoiceTitle *string              `json:"invoiceTitle" validate:"omitempty,max=255"`
	GrandTotal   float64              `json:"grandTotal" validate:"gte=0"`
	Items        []InvoiceLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest represents payload for replacing an invoice's
// mutable fields and entire line set. An empty (but present) items list
// clears the lines while keeping the invoice, so the items field only
// dives into the lines; presence is checked in the flow, where nil and
// empty can still be told apart.
type UpdateInvoiceRequest struct {
	CustomerName string               `json:"customerName" validate:"required,max=255"`
	InvoiceTitle *string              `json:"invoiceTitle" validate:"omitempty,max=255"`
	GrandTotal   float64              `json:"grandTotal" validate:"gte=0"`
	Items        []InvoiceLineRequest `json:"items" validate:"dive"`
}

// CreateInvoiceResponse reports the identity assigned to a saved invoice.
type CreateInvoiceResponse struct {
	Message       string `json:"message"`
	InvoiceID     uint   `json:"invoiceId"`
	InvoiceNumber int64  `json:"invoiceNumber"`
}

// InvoiceSummaryDTO represents one row of the invoice listing.
type InvoiceSummaryDTO struct {
	InvoiceID     uint    `json:"invoice_id"`
	InvoiceNumber int64   `json:"invoice_number"`
	CustomerName  string  `json:"customer_name"`
	InvoiceTitle  string  `json:"invoice_title"`
	GrandTotal    float64 `json:"grand_total"`
	InvoiceDate   string  `json:"invoice_date"`
}

// ListInvoicesResponse represents the invoice listing, most recent first.
type ListInvoicesResponse struct {
	Message  string              `json:"message"`
	Invoices []InvoiceSummaryDTO `json:"invoices"`
}

// InvoiceLineDTO represents one persisted line as stored (composed description).
type InvoiceLineDTO struct {
	SeqNo         int     `json:"slno"`
	Description   string  `json:"item_description"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	UOM           string  `json:"uom"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Amount        float64 `json:"amount"`
	TaxPercentage float64 `json:"tax_percentage"`
	TotalAmount   float64 `json:"total_amount"`
}

// InvoiceDetailResponse represents a full invoice with its lines in
// sequence order.
type InvoiceDetailResponse struct {
	Details InvoiceSummaryDTO `json:"details"`
	Items   []InvoiceLineDTO  `json:"items"`
}

// EditableLineDTO represents one line decoded for editing: the composed
// description split back into item name, material name, and free text.
type EditableLineDTO struct {
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

// InvoiceEditResponse represents an invoice loaded into a fresh composing
// session for editing.
type InvoiceEditResponse struct {
	InvoiceID     uint              `json:"invoice_id"`
	InvoiceNumber int64             `json:"invoice_number"`
	CustomerName  string            `json:"customer_name"`
	InvoiceTitle  string            `json:"invoice_title"`
	GrandTotal    float64           `json:"grand_total"`
	Lines         []EditableLineDTO `json:"lines"`
}
