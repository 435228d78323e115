package businessflow

import (
	"context"

	"github.com/signforge/billing-api/app/dto"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
)

// RateFlow defines the rate lookup and maintenance use cases.
type RateFlow interface {
	ListRates(ctx context.Context) (*dto.ListRatesResponse, error)
	GetRate(ctx context.Context, req *dto.GetRateRequest) (*dto.RateDTO, error)
	UpsertRate(ctx context.Context, req *dto.UpsertRateRequest, metadata *ClientMetadata) error
	UpdateRatePrice(ctx context.Context, id uint, req *dto.UpdateRatePriceRequest, metadata *ClientMetadata) error
	DeleteRate(ctx context.Context, id uint, metadata *ClientMetadata) error
}

// RateFlowImpl implements RateFlow.
type RateFlowImpl struct {
	rateRepo repository.RateRepository
}

// NewRateFlow creates a new rate flow.
func NewRateFlow(rateRepo repository.RateRepository) RateFlow {
	return &RateFlowImpl{rateRepo: rateRepo}
}

func (f *RateFlowImpl) ListRates(ctx context.Context) (*dto.ListRatesResponse, error) {
	rows, err := f.rateRepo.ListWithNames(ctx)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to list rates", err)
	}

	rates := make([]dto.RateDTO, 0, len(rows))
	for _, row := range rows {
		rates = append(rates, dto.RateDTO{
			ID:              row.ID,
			ItemID:          row.ItemID,
			MaterialID:      row.MaterialID,
			UOM:             row.UOM,
			PricePerUnit:    row.PricePerUnit,
			ItemName:        row.ItemName,
			ItemDescription: row.ItemDescription,
			MaterialName:    row.MaterialName,
		})
	}
	return &dto.ListRatesResponse{Message: "Rates retrieved", Rates: rates}, nil
}

// GetRate looks up the rate for an exact (item, material, uom) triple.
// There is no fallback or nearest-unit substitution.
func (f *RateFlowImpl) GetRate(ctx context.Context, req *dto.GetRateRequest) (*dto.RateDTO, error) {
	if req == nil || req.ItemID == 0 || req.MaterialID == 0 || req.UOM == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrRateTripleRequired.Error(), ErrRateTripleRequired)
	}

	row, err := f.rateRepo.TripleWithNames(ctx, req.ItemID, req.MaterialID, req.UOM)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to look up rate", err)
	}
	if row == nil {
		return nil, NewBusinessError("RATE_NOT_FOUND", ErrRateNotFound.Error(), ErrRateNotFound)
	}

	return &dto.RateDTO{
		ID:              row.ID,
		ItemID:          row.ItemID,
		MaterialID:      row.MaterialID,
		UOM:             row.UOM,
		PricePerUnit:    row.PricePerUnit,
		ItemName:        row.ItemName,
		ItemDescription: row.ItemDescription,
		MaterialName:    row.MaterialName,
	}, nil
}

// UpsertRate saves a rate, overwriting the price when a rate for the same
// (item, material, uom) triple already exists.
func (f *RateFlowImpl) UpsertRate(ctx context.Context, req *dto.UpsertRateRequest, metadata *ClientMetadata) error {
	if req == nil || req.ItemID == 0 || req.MaterialID == 0 || req.UOM == "" {
		return NewBusinessError("VALIDATION_ERROR", ErrRateTripleRequired.Error(), ErrRateTripleRequired)
	}
	if !models.IsValidUOM(req.UOM) {
		return NewBusinessError("VALIDATION_ERROR", ErrUnitOfMeasureInvalid.Error(), ErrUnitOfMeasureInvalid)
	}
	if req.Rate <= 0 {
		return NewBusinessError("VALIDATION_ERROR", ErrRatePriceInvalid.Error(), ErrRatePriceInvalid)
	}

	rate := models.Rate{
		ItemID:       req.ItemID,
		MaterialID:   req.MaterialID,
		UOM:          req.UOM,
		PricePerUnit: req.Rate,
	}
	if err := f.rateRepo.Upsert(ctx, &rate); err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to save rate", err)
	}
	return nil
}

func (f *RateFlowImpl) UpdateRatePrice(ctx context.Context, id uint, req *dto.UpdateRatePriceRequest, metadata *ClientMetadata) error {
	if req == nil || req.Rate <= 0 {
		return NewBusinessError("VALIDATION_ERROR", ErrRatePriceInvalid.Error(), ErrRatePriceInvalid)
	}

	updated, err := f.rateRepo.UpdatePrice(ctx, id, req.Rate)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to update rate", err)
	}
	if !updated {
		return NewBusinessError("NOT_FOUND", ErrRateNotFound.Error(), ErrRateNotFound)
	}
	return nil
}

func (f *RateFlowImpl) DeleteRate(ctx context.Context, id uint, metadata *ClientMetadata) error {
	deleted, err := f.rateRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to delete rate", err)
	}
	if !deleted {
		return NewBusinessError("NOT_FOUND", ErrRateNotFound.Error(), ErrRateNotFound)
	}
	return nil
}
