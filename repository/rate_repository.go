package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/signforge/billing-api/models"
	"gorm.io/gorm"
)

// RateRepositoryImpl implements RateRepository interface
type RateRepositoryImpl struct {
	*BaseRepository[models.Rate, models.RateFilter]
}

// NewRateRepository creates a new rate repository
func NewRateRepository(db *gorm.DB) RateRepository {
	return &RateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Rate, models.RateFilter](db),
	}
}

const rateJoinSelect = `rates.id, rates.item_id, rates.material_id, rates.uom, rates.price_per_unit,
	items.name AS item_name, items.description AS item_description, materials.name AS material_name`

// ByTriple retrieves the rate for an exact (item, material, uom) combination
func (r *RateRepositoryImpl) ByTriple(ctx context.Context, itemID, materialID uint, uom string) (*models.Rate, error) {
	rows, err := r.ByFilter(ctx, models.RateFilter{ItemID: &itemID, MaterialID: &materialID, UOM: &uom}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// TripleWithNames retrieves the rate for an exact (item, material, uom)
// combination joined with item and material display fields. Returns nil
// when no rate exists for the triple.
func (r *RateRepositoryImpl) TripleWithNames(ctx context.Context, itemID, materialID uint, uom string) (*RateRow, error) {
	db := r.getDB(ctx)

	var row RateRow
	err := db.Table("rates").
		Select(rateJoinSelect).
		Joins("JOIN items ON items.id = rates.item_id").
		Joins("JOIN materials ON materials.id = rates.material_id").
		Where("rates.item_id = ? AND rates.material_id = ? AND rates.uom = ?", itemID, materialID, uom).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find rate for item %d, material %d, uom %s: %w", itemID, materialID, uom, err)
	}
	return &row, nil
}

// ListWithNames retrieves all rates joined with item and material names,
// ordered the way the rate management screen lists them. Rates whose item
// or material has been deleted drop out of the join.
func (r *RateRepositoryImpl) ListWithNames(ctx context.Context) ([]*RateRow, error) {
	db := r.getDB(ctx)

	var rows []*RateRow
	err := db.Table("rates").
		Select(rateJoinSelect).
		Joins("JOIN items ON items.id = rates.item_id").
		Joins("JOIN materials ON materials.id = rates.material_id").
		Order("items.name ASC, materials.name ASC, rates.uom ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return rows, nil
}

// Upsert inserts the rate, and on a unique-constraint violation for the
// (item, material, uom) key overwrites the existing row's price instead.
// Callers must not run Upsert inside WithTransaction: on Postgres the
// failed insert aborts the surrounding transaction, and the follow-up
// update would fail. On the plain connection both statements autocommit.
func (r *RateRepositoryImpl) Upsert(ctx context.Context, rate *models.Rate) error {
	db := r.getDB(ctx)

	err := db.Create(rate).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to save rate: %w", err)
	}

	err = db.Model(&models.Rate{}).
		Where("item_id = ? AND material_id = ? AND uom = ?", rate.ItemID, rate.MaterialID, rate.UOM).
		Update("price_per_unit", rate.PricePerUnit).Error
	if err != nil {
		return fmt.Errorf("failed to overwrite rate for item %d, material %d, uom %s: %w",
			rate.ItemID, rate.MaterialID, rate.UOM, err)
	}
	return nil
}

// UpdatePrice overwrites the price of a rate by id; reports whether a row matched
func (r *RateRepositoryImpl) UpdatePrice(ctx context.Context, id uint, pricePerUnit float64) (bool, error) {
	db := r.getDB(ctx)

	res := db.Model(&models.Rate{}).Where("id = ?", id).Update("price_per_unit", pricePerUnit)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update rate %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a rate; reports whether a row was removed
func (r *RateRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Delete(&models.Rate{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete rate %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *RateRepositoryImpl) applyFilter(query *gorm.DB, filter models.RateFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.MaterialID != nil {
		query = query.Where("material_id = ?", *filter.MaterialID)
	}
	if filter.UOM != nil {
		query = query.Where("uom = ?", *filter.UOM)
	}
	return query
}

// ByFilter retrieves rates based on filter criteria
func (r *RateRepositoryImpl) ByFilter(ctx context.Context, filter models.RateFilter, orderBy string, limit, offset int) ([]*models.Rate, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rate{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Rate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of rates matching the filter
func (r *RateRepositoryImpl) Count(ctx context.Context, filter models.RateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Rate{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
