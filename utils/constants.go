package utils

// Billing constants
const (
	// DefaultTaxPercentage is applied to invoice lines that omit a tax rate (18%)
	DefaultTaxPercentage = 18.00

	// DefaultInvoiceTitle is used when the client does not supply a title
	DefaultInvoiceTitle = "Invoice / Bill"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
