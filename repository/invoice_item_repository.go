package repository

import (
	"context"
	"fmt"

	"github.com/signforge/billing-api/models"
	"gorm.io/gorm"
)

// InvoiceItemRepositoryImpl implements InvoiceItemRepository interface
type InvoiceItemRepositoryImpl struct {
	*BaseRepository[models.InvoiceItem, models.InvoiceItemFilter]
}

// NewInvoiceItemRepository creates a new invoice line repository
func NewInvoiceItemRepository(db *gorm.DB) InvoiceItemRepository {
	return &InvoiceItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InvoiceItem, models.InvoiceItemFilter](db),
	}
}

// ListByInvoice retrieves an invoice's lines in display order
func (r *InvoiceItemRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.InvoiceItem, error) {
	return r.ByFilter(ctx, models.InvoiceItemFilter{InvoiceID: &invoiceID}, "slno ASC", 0, 0)
}

// DeleteByInvoice removes all lines belonging to an invoice
func (r *InvoiceItemRepositoryImpl) DeleteByInvoice(ctx context.Context, invoiceID uint) error {
	db := r.getDB(ctx)

	err := db.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete lines of invoice %d: %w", invoiceID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *InvoiceItemRepositoryImpl) applyFilter(query *gorm.DB, filter models.InvoiceItemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	return query
}

// ByFilter retrieves invoice lines based on filter criteria
func (r *InvoiceItemRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceItemFilter, orderBy string, limit, offset int) ([]*models.InvoiceItem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.InvoiceItem{}), filter)

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

	var rows []*models.InvoiceItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of invoice lines matching the filter
func (r *InvoiceItemRepositoryImpl) Count(ctx context.Context, filter models.InvoiceItemFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.InvoiceItem{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
