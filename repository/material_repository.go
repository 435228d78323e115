package repository

import (
	"context"
	"fmt"

	"github.com/signforge/billing-api/models"
	"gorm.io/gorm"
)

// MaterialRepositoryImpl implements MaterialRepository interface
type MaterialRepositoryImpl struct {
	*BaseRepository[models.Material, models.MaterialFilter]
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Material, models.MaterialFilter](db),
	}
}

// ByName retrieves a material by its unique name
func (r *MaterialRepositoryImpl) ByName(ctx context.Context, name string) (*models.Material, error) {
	rows, err := r.ByFilter(ctx, models.MaterialFilter{Name: &name}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListOrderedByName retrieves all materials ordered by name
func (r *MaterialRepositoryImpl) ListOrderedByName(ctx context.Context) ([]*models.Material, error) {
	return r.ByFilter(ctx, models.MaterialFilter{}, "name ASC", 0, 0)
}

// Update overwrites a material's name
func (r *MaterialRepositoryImpl) Update(ctx context.Context, material *models.Material) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Material{}).Where("id = ?", material.ID).
		Update("name", material.Name).Error
	if err != nil {
		return fmt.Errorf("failed to update material %d: %w", material.ID, err)
	}

	return nil
}

// Delete removes a material; reports whether a row was removed
func (r *MaterialRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Delete(&models.Material{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete material %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *MaterialRepositoryImpl) applyFilter(query *gorm.DB, filter models.MaterialFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves materials based on filter criteria
func (r *MaterialRepositoryImpl) ByFilter(ctx context.Context, filter models.MaterialFilter, orderBy string, limit, offset int) ([]*models.Material, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Material{}), filter)

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

	var rows []*models.Material
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of materials matching the filter
func (r *MaterialRepositoryImpl) Count(ctx context.Context, filter models.MaterialFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Material{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
