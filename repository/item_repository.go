package repository

import (
	"context"
	"fmt"

	"github.com/signforge/billing-api/models"
	"gorm.io/gorm"
)

// ItemRepositoryImpl implements ItemRepository interface
type ItemRepositoryImpl struct {
	*BaseRepository[models.Item, models.ItemFilter]
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &ItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Item, models.ItemFilter](db),
	}
}

// ByName retrieves an item by its unique name
func (r *ItemRepositoryImpl) ByName(ctx context.Context, name string) (*models.Item, error) {
	rows, err := r.ByFilter(ctx, models.ItemFilter{Name: &name}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListOrderedByName retrieves all items ordered by name, the order the
// catalog dropdowns display them in
func (r *ItemRepositoryImpl) ListOrderedByName(ctx context.Context) ([]*models.Item, error) {
	return r.ByFilter(ctx, models.ItemFilter{}, "name ASC", 0, 0)
}

// Update overwrites an item's mutable fields
func (r *ItemRepositoryImpl) Update(ctx context.Context, item *models.Item) error {
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

	err = db.Model(&models.Item{}).Where("id = ?", item.ID).Updates(map[string]any{
		"name":        item.Name,
		"description": item.Description,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}

	return nil
}

// Delete removes an item; reports whether a row was removed
func (r *ItemRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Delete(&models.Item{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete item %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ItemRepositoryImpl) applyFilter(query *gorm.DB, filter models.ItemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves items based on filter criteria
func (r *ItemRepositoryImpl) ByFilter(ctx context.Context, filter models.ItemFilter, orderBy string, limit, offset int) ([]*models.Item, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Item{}), filter)

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

	var rows []*models.Item
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of items matching the filter
func (r *ItemRepositoryImpl) Count(ctx context.Context, filter models.ItemFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Item{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
