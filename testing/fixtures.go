// Package testing provides test utilities and database setup for testing the billing service
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestItem creates an item with a unique name
func (tf *TestFixtures) CreateTestItem(name string) (*models.Item, error) {
	if name == "" {
		name = fmt.Sprintf("Item %d", rand.Intn(1000000))
	}

	item := &models.Item{
		UUID:        uuid.New(),
		Name:        name,
		Description: "Test item",
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test item: %w", err)
	}

	return item, nil
}

// CreateTestMaterial creates a material with a unique name
func (tf *TestFixtures) CreateTestMaterial(name string) (*models.Material, error) {
	if name == "" {
		name = fmt.Sprintf("Material %d", rand.Intn(1000000))
	}

	material := &models.Material{
		UUID:      uuid.New(),
		Name:      name,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(material).Error; err != nil {
		return nil, fmt.Errorf("failed to create test material: %w", err)
	}

	return material, nil
}

// CreateTestRate creates a rate for the given triple
func (tf *TestFixtures) CreateTestRate(itemID, materialID uint, uom string, price float64) (*models.Rate, error) {
	rate := &models.Rate{
		ItemID:       itemID,
		MaterialID:   materialID,
		UOM:          uom,
		PricePerUnit: price,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(rate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rate: %w", err)
	}

	return rate, nil
}

// CreateTestInvoice creates an invoice with a single priced line
func (tf *TestFixtures) CreateTestInvoice(invoiceNumber int64, customerName string) (*models.Invoice, error) {
	if customerName == "" {
		customerName = "Test Customer"
	}

	invoice := &models.Invoice{
		UUID:          uuid.New(),
		InvoiceNumber: invoiceNumber,
		CustomerName:  customerName,
		Title:         utils.DefaultInvoiceTitle,
		GrandTotal:    5900,
		InvoiceDate:   utils.UTCNow(),
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test invoice: %w", err)
	}

	line := &models.InvoiceItem{
		InvoiceID:     invoice.ID,
		SeqNo:         1,
		Description:   models.ComposeDescription("Banner", "Vinyl", "Storefront sign"),
		Width:         100,
		Height:        50,
		UOM:           models.UOMSquareCentimeter,
		Quantity:      2,
		UnitPrice:     0.5,
		Amount:        5000,
		TaxPercentage: utils.DefaultTaxPercentage,
		TotalAmount:   5900,
		CreatedAt:     utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create test invoice line: %w", err)
	}

	return invoice, nil
}
