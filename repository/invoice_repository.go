package repository

import (
	"context"
	"fmt"

	"github.com/signforge/billing-api/models"
	"gorm.io/gorm"
)

// InvoiceRepositoryImpl implements InvoiceRepository interface
type InvoiceRepositoryImpl struct {
	*BaseRepository[models.Invoice, models.InvoiceFilter]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Invoice, models.InvoiceFilter](db),
	}
}

// invoiceCounterRow is the id of the single invoice_counters row.
const invoiceCounterRow = 1

// NextInvoiceNumber allocates the next invoice number by bumping the
// counter row, seeding it on first use. The counter outlives invoice
// deletion, so numbers are strictly increasing and never reassigned.
// Callers must invoke it inside the same transaction as the subsequent
// insert: the row lock serializes concurrent creators, and a rolled-back
// transaction returns the number unused. The unique index on
// invoice_number remains as a backstop.
func (r *InvoiceRepositoryImpl) NextInvoiceNumber(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)

	var next int64
	err := db.Raw(`
		INSERT INTO invoice_counters (id, last_number) VALUES (?, 1)
		ON CONFLICT (id) DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`, invoiceCounterRow).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate next invoice number: %w", err)
	}
	return next, nil
}

// ListByNumberDesc retrieves all invoices most-recent-first
func (r *InvoiceRepositoryImpl) ListByNumberDesc(ctx context.Context) ([]*models.Invoice, error) {
	return r.ByFilter(ctx, models.InvoiceFilter{}, "invoice_number DESC", 0, 0)
}

// Update overwrites an invoice's mutable fields. Identity fields
// (invoice_number, uuid) are never touched.
func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice *models.Invoice) error {
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

	err = db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]any{
		"customer_name": invoice.CustomerName,
		"title":         invoice.Title,
		"grand_total":   invoice.GrandTotal,
		"invoice_date":  invoice.InvoiceDate,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update invoice %d: %w", invoice.ID, err)
	}

	return nil
}

// Delete removes an invoice row; reports whether a row was removed.
// Lines must be deleted first, inside the same transaction.
func (r *InvoiceRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)

	res := db.Delete(&models.Invoice{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete invoice %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *InvoiceRepositoryImpl) applyFilter(query *gorm.DB, filter models.InvoiceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.InvoiceNumber != nil {
		query = query.Where("invoice_number = ?", *filter.InvoiceNumber)
	}
	if filter.CustomerName != nil {
		query = query.Where("customer_name = ?", *filter.CustomerName)
	}
	return query
}

// ByFilter retrieves invoices based on filter criteria
func (r *InvoiceRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceFilter, orderBy string, limit, offset int) ([]*models.Invoice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Invoice{}), filter)

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

	var rows []*models.Invoice
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of invoices matching the filter
func (r *InvoiceRepositoryImpl) Count(ctx context.Context, filter models.InvoiceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Invoice{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
