package businessflow

import (
	"context"
	"math"

	"github.com/signforge/billing-api/app/dto"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
)

// ComputeLineAmounts prices one prospective invoice line. Area units
// (sqcm, sqft) multiply width, height, unit price, and quantity and
// require both dimensions to be positive; count and length units ignore
// the dimensions entirely. The total is tax-inclusive.
func ComputeLineAmounts(uom string, width, height float64, quantity int, unitPrice, taxPercentage float64) (amount, totalAmount float64, err error) {
	if !models.IsValidUOM(uom) {
		return 0, 0, ErrUnitOfMeasureInvalid
	}
	if quantity < 1 {
		return 0, 0, ErrQuantityInvalid
	}
	if taxPercentage < 0 {
		return 0, 0, ErrTaxNegative
	}

	if models.IsAreaUOM(uom) {
		if width <= 0 || height <= 0 {
			return 0, 0, ErrDimensionsRequired
		}
		amount = width * height * unitPrice * float64(quantity)
	} else {
		amount = unitPrice * float64(quantity)
	}

	totalAmount = amount * (1 + taxPercentage/100)

	if math.IsNaN(amount) || math.IsInf(amount, 0) ||
		math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) {
		return 0, 0, ErrAmountNotFinite
	}
	return amount, totalAmount, nil
}

// PricingFlow resolves a rate for an exact (item, material, uom) triple
// and prices a prospective line with it.
type PricingFlow interface {
	ResolvePrice(ctx context.Context, req *dto.ResolvePriceRequest, metadata *ClientMetadata) (*dto.ResolvePriceResponse, error)
}

// PricingFlowImpl implements PricingFlow.
type PricingFlowImpl struct {
	rateRepo repository.RateRepository
}

// NewPricingFlow creates a new pricing flow.
func NewPricingFlow(rateRepo repository.RateRepository) PricingFlow {
	return &PricingFlowImpl{rateRepo: rateRepo}
}

func (f *PricingFlowImpl) ResolvePrice(ctx context.Context, req *dto.ResolvePriceRequest, metadata *ClientMetadata) (*dto.ResolvePriceResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if req.ItemID == 0 || req.MaterialID == 0 || req.UOM == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrRateTripleRequired.Error(), ErrRateTripleRequired)
	}
	if !models.IsValidUOM(req.UOM) {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrUnitOfMeasureInvalid.Error(), ErrUnitOfMeasureInvalid)
	}

	rate, err := f.rateRepo.TripleWithNames(ctx, req.ItemID, req.MaterialID, req.UOM)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to look up rate", err)
	}
	if rate == nil {
		return nil, NewBusinessError("RATE_NOT_FOUND", ErrRateNotFound.Error(), ErrRateNotFound)
	}

	amount, total, err := ComputeLineAmounts(req.UOM, req.Width, req.Height, req.Quantity, rate.PricePerUnit, req.TaxPercentage)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", err.Error(), err)
	}

	return &dto.ResolvePriceResponse{
		UnitPrice:       rate.PricePerUnit,
		Amount:          amount,
		TotalAmount:     total,
		ItemName:        rate.ItemName,
		ItemDescription: rate.ItemDescription,
		MaterialName:    rate.MaterialName,
		UOM:             rate.UOM,
	}, nil
}
