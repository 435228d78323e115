// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/signforge/billing-api/app/dto"
	"github.com/signforge/billing-api/models"
)

// ClientMetadata holds client-related information for request logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToItemDTO converts an item model to its API representation
func ToItemDTO(item models.Item) dto.ItemDTO {
	return dto.ItemDTO{
		ID:          item.ID,
		UUID:        item.UUID.String(),
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
}

// ToMaterialDTO converts a material model to its API representation
func ToMaterialDTO(material models.Material) dto.MaterialDTO {
	return dto.MaterialDTO{
		ID:        material.ID,
		UUID:      material.UUID.String(),
		Name:      material.Name,
		CreatedAt: material.CreatedAt.Format(time.RFC3339),
	}
}

// ToInvoiceSummaryDTO converts an invoice model to its list representation
func ToInvoiceSummaryDTO(invoice models.Invoice) dto.InvoiceSummaryDTO {
	return dto.InvoiceSummaryDTO{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  invoice.CustomerName,
		InvoiceTitle:  invoice.Title,
		GrandTotal:    invoice.GrandTotal,
		InvoiceDate:   invoice.InvoiceDate.UTC().Format("2006-01-02"),
	}
}

// ToInvoiceLineDTO converts a persisted line to its API representation
func ToInvoiceLineDTO(line models.InvoiceItem) dto.InvoiceLineDTO {
	return dto.InvoiceLineDTO{
		SeqNo:         line.SeqNo,
		Description:   line.Description,
		Width:         line.Width,
		Height:        line.Height,
		UOM:           line.UOM,
		Quantity:      line.Quantity,
		UnitPrice:     line.UnitPrice,
		Amount:        line.Amount,
		TaxPercentage: line.TaxPercentage,
		TotalAmount:   line.TotalAmount,
	}
}
