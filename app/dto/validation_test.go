package dto

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/signforge/billing-api/utils"
	"github.com/stretchr/testify/assert"
)

func validLineRequest() InvoiceLineRequest {
	return InvoiceLineRequest{
		SeqNo:        1,
		ItemName:     "Banner",
		MaterialName: "Vinyl",
		Width:        100,
		Height:       50,
		UOM:          "sqcm",
		Quantity:     2,
		UnitPrice:    0.5,
		Amount:       5000,
		TotalAmount:  5900,
	}
}

func TestCatalogRequestValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"ValidItem", CreateItemRequest{Name: "Banner", Description: "Printed banner"}, false},
		{"ItemNameMissing", CreateItemRequest{Description: "no name"}, true},
		{"ItemNameTooLong", CreateItemRequest{Name: strings.Repeat("x", 256)}, true},
		{"ValidItemUpdate", UpdateItemRequest{Name: "Banner"}, false},
		{"ItemUpdateNameMissing", UpdateItemRequest{Description: "renamed away"}, true},
		{"ValidMaterial", CreateMaterialRequest{Name: "Vinyl"}, false},
		{"MaterialNameMissing", CreateMaterialRequest{}, true},
		{"MaterialNameTooLong", UpdateMaterialRequest{Name: strings.Repeat("x", 256)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRateRequestValidation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"ValidUpsert", UpsertRateRequest{ItemID: 1, MaterialID: 2, UOM: "sqcm", Rate: 0.5}, false},
		{"ItemMissing", UpsertRateRequest{MaterialID: 2, UOM: "sqcm", Rate: 0.5}, true},
		{"MaterialMissing", UpsertRateRequest{ItemID: 1, UOM: "sqcm", Rate: 0.5}, true},
		{"UnknownUnit", UpsertRateRequest{ItemID: 1, MaterialID: 2, UOM: "acre", Rate: 0.5}, true},
		{"ZeroRate", UpsertRateRequest{ItemID: 1, MaterialID: 2, UOM: "sqcm"}, true},
		{"NegativeRate", UpsertRateRequest{ItemID: 1, MaterialID: 2, UOM: "sqcm", Rate: -1}, true},
		{"ValidPriceUpdate", UpdateRatePriceRequest{Rate: 0.65}, false},
		{"NonPositivePriceUpdate", UpdateRatePriceRequest{Rate: 0}, true},
		{"ValidLookup", GetRateRequest{ItemID: 1, MaterialID: 2, UOM: "nos"}, false},
		{"LookupUnitMissing", GetRateRequest{ItemID: 1, MaterialID: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolvePriceRequestValidation(t *testing.T) {
	validate := validator.New()

	valid := ResolvePriceRequest{
		ItemID: 1, MaterialID: 2, UOM: "sqcm",
		Width: 100, Height: 50, Quantity: 2, TaxPercentage: 18,
	}

	tests := []struct {
		name    string
		mutate  func(r *ResolvePriceRequest)
		wantErr bool
	}{
		{"Valid", func(r *ResolvePriceRequest) {}, false},
		{"ItemMissing", func(r *ResolvePriceRequest) { r.ItemID = 0 }, true},
		{"UnknownUnit", func(r *ResolvePriceRequest) { r.UOM = "kg" }, true},
		{"ZeroQuantity", func(r *ResolvePriceRequest) { r.Quantity = 0 }, true},
		{"NegativeWidth", func(r *ResolvePriceRequest) { r.Width = -1 }, true},
		{"NegativeTax", func(r *ResolvePriceRequest) { r.TaxPercentage = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := validate.Struct(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvoiceRequestValidation(t *testing.T) {
	validate := validator.New()

	t.Run("ValidCreate", func(t *testing.T) {
		req := CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			InvoiceTitle: utils.ToPtr("Quotation"),
			GrandTotal:   5900,
			Items:        []InvoiceLineRequest{validLineRequest()},
		}
		assert.NoError(t, validate.Struct(req))
	})

	t.Run("CustomerNameMissing", func(t *testing.T) {
		req := CreateInvoiceRequest{Items: []InvoiceLineRequest{validLineRequest()}}
		assert.Error(t, validate.Struct(req))
	})

	t.Run("CreateWithoutLines", func(t *testing.T) {
		req := CreateInvoiceRequest{CustomerName: "Acme Signs", Items: []InvoiceLineRequest{}}
		assert.Error(t, validate.Struct(req))
	})

	t.Run("LineItemNameMissing", func(t *testing.T) {
		line := validLineRequest()
		line.ItemName = ""
		req := CreateInvoiceRequest{CustomerName: "Acme Signs", Items: []InvoiceLineRequest{line}}
		assert.Error(t, validate.Struct(req))
	})

	t.Run("LineNegativeTax", func(t *testing.T) {
		line := validLineRequest()
		line.TaxPercentage = utils.ToPtr(-1.0)
		req := CreateInvoiceRequest{CustomerName: "Acme Signs", Items: []InvoiceLineRequest{line}}
		assert.Error(t, validate.Struct(req))
	})

	t.Run("LineUnknownUnit", func(t *testing.T) {
		line := validLineRequest()
		line.UOM = "dozen"
		req := CreateInvoiceRequest{CustomerName: "Acme Signs", Items: []InvoiceLineRequest{line}}
		assert.Error(t, validate.Struct(req))
	})

	// An update with a present-but-empty line list clears the invoice's
	// lines, so it must pass struct validation.
	t.Run("UpdateWithEmptyLines", func(t *testing.T) {
		req := UpdateInvoiceRequest{
			CustomerName: "Acme Signs",
			Items:        []InvoiceLineRequest{},
		}
		assert.NoError(t, validate.Struct(req))
	})

	t.Run("UpdateRejectsBadLine", func(t *testing.T) {
		line := validLineRequest()
		line.Quantity = 0
		req := UpdateInvoiceRequest{
			CustomerName: "Acme Signs",
			Items:        []InvoiceLineRequest{line},
		}
		assert.Error(t, validate.Struct(req))
	})
}
