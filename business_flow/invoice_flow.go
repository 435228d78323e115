package businessflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/signforge/billing-api/app/dto"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
	"github.com/signforge/billing-api/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// maxCreateAttempts bounds the retry on the invoice_number unique-index
// backstop in case the counter allocation ever hands out a number an
// existing row already carries.
const maxCreateAttempts = 3

// InvoiceFlow defines the invoice persistence use cases. Create, update,
// and delete are each one atomic transaction; the caller observes either
// full success or no durable change.
type InvoiceFlow interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, metadata *ClientMetadata) (*dto.CreateInvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id uint, req *dto.UpdateInvoiceRequest, metadata *ClientMetadata) error
	GetInvoice(ctx context.Context, id uint) (*dto.InvoiceDetailResponse, error)
	GetInvoiceForEdit(ctx context.Context, id uint) (*dto.InvoiceEditResponse, error)
	ListInvoices(ctx context.Context) (*dto.ListInvoicesResponse, error)
	DeleteInvoice(ctx context.Context, id uint, metadata *ClientMetadata) error
	ExportInvoicesExcel(ctx context.Context) (string, []byte, error)
}

// InvoiceFlowImpl implements InvoiceFlow.
type InvoiceFlowImpl struct {
	invoiceRepo     repository.InvoiceRepository
	invoiceItemRepo repository.InvoiceItemRepository
	db              *gorm.DB
}

// NewInvoiceFlow creates a new invoice flow.
func NewInvoiceFlow(
	invoiceRepo repository.InvoiceRepository,
	invoiceItemRepo repository.InvoiceItemRepository,
	db *gorm.DB,
) InvoiceFlow {
	return &InvoiceFlowImpl{
		invoiceRepo:     invoiceRepo,
		invoiceItemRepo: invoiceItemRepo,
		db:              db,
	}
}

// buildLines converts request lines to models, composing the persisted
// description and applying the 18% tax default for lines that omit it.
func buildLines(invoiceID uint, reqLines []dto.InvoiceLineRequest) []*models.InvoiceItem {
	lines := make([]*models.InvoiceItem, 0, len(reqLines))
	for _, l := range reqLines {
		tax := utils.ValueOr(l.TaxPercentage, utils.DefaultTaxPercentage)
		lines = append(lines, &models.InvoiceItem{
			InvoiceID:     invoiceID,
			SeqNo:         l.SeqNo,
			Description:   models.ComposeDescription(l.ItemName, l.MaterialName, l.ItemDescription),
			Width:         l.Width,
			Height:        l.Height,
			UOM:           l.UOM,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Amount:        l.Amount,
			TaxPercentage: tax,
			TotalAmount:   l.TotalAmount,
		})
	}
	return lines
}

// CreateInvoice validates the request before any transaction opens, then
// assigns the next invoice number and inserts the invoice and its lines
// atomically. Numbers are strictly increasing and never reused, even
// when earlier invoices have been deleted.
func (f *InvoiceFlowImpl) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, metadata *ClientMetadata) (*dto.CreateInvoiceResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrCustomerNameRequired.Error(), ErrCustomerNameRequired)
	}
	if len(req.Items) == 0 {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrInvoiceLinesRequired.Error(), ErrInvoiceLinesRequired)
	}

	title := utils.DefaultInvoiceTitle
	if req.InvoiceTitle != nil && strings.TrimSpace(*req.InvoiceTitle) != "" {
		title = *req.InvoiceTitle
	}

	var created models.Invoice
	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
			number, txErr := f.invoiceRepo.NextInvoiceNumber(txCtx)
			if txErr != nil {
				return txErr
			}

			invoice := models.Invoice{
				UUID:          uuid.New(),
				InvoiceNumber: number,
				CustomerName:  req.CustomerName,
				Title:         title,
				GrandTotal:    req.GrandTotal,
				InvoiceDate:   utils.UTCNow(),
			}
			if txErr := f.invoiceRepo.Save(txCtx, &invoice); txErr != nil {
				return txErr
			}

			if txErr := f.invoiceItemRepo.SaveBatch(txCtx, buildLines(invoice.ID, req.Items)); txErr != nil {
				return txErr
			}

			created = invoice
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewBusinessError("STORE_FAILURE", "Failed to save invoice", err)
		}
	}
	if err != nil {
		return nil, NewBusinessError("INVOICE_NUMBER_CONFLICT", ErrInvoiceNumberConflict.Error(),
			fmt.Errorf("%w: %w", ErrInvoiceNumberConflict, err))
	}

	return &dto.CreateInvoiceResponse{
		Message:       "Invoice saved",
		InvoiceID:     created.ID,
		InvoiceNumber: created.InvoiceNumber,
	}, nil
}

// UpdateInvoice overwrites the invoice's mutable fields, restamps its
// date to now, and replaces the whole line set atomically. An empty line
// list clears the lines but still updates the invoice row. Unlike the
// previous behavior of silently accepting unknown ids, a missing invoice
// fails with not-found before anything is written.
func (f *InvoiceFlowImpl) UpdateInvoice(ctx context.Context, id uint, req *dto.UpdateInvoiceRequest, metadata *ClientMetadata) error {
	if req == nil {
		return NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return NewBusinessError("VALIDATION_ERROR", ErrCustomerNameRequired.Error(), ErrCustomerNameRequired)
	}
	if req.Items == nil {
		return NewBusinessError("VALIDATION_ERROR", ErrInvoiceLinesMissing.Error(), ErrInvoiceLinesMissing)
	}

	title := utils.DefaultInvoiceTitle
	if req.InvoiceTitle != nil && strings.TrimSpace(*req.InvoiceTitle) != "" {
		title = *req.InvoiceTitle
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		invoice, txErr := f.invoiceRepo.ByID(txCtx, id)
		if txErr != nil {
			return txErr
		}
		if invoice == nil {
			return ErrInvoiceNotFound
		}

		invoice.CustomerName = req.CustomerName
		invoice.Title = title
		invoice.GrandTotal = req.GrandTotal
		invoice.InvoiceDate = utils.UTCNow()
		if txErr := f.invoiceRepo.Update(txCtx, invoice); txErr != nil {
			return txErr
		}

		if txErr := f.invoiceItemRepo.DeleteByInvoice(txCtx, id); txErr != nil {
			return txErr
		}
		if len(req.Items) > 0 {
			if txErr := f.invoiceItemRepo.SaveBatch(txCtx, buildLines(id, req.Items)); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		if IsInvoiceNotFound(err) {
			return NewBusinessError("NOT_FOUND", ErrInvoiceNotFound.Error(), err)
		}
		return NewBusinessError("STORE_FAILURE", "Failed to update invoice", err)
	}
	return nil
}

func (f *InvoiceFlowImpl) GetInvoice(ctx context.Context, id uint) (*dto.InvoiceDetailResponse, error) {
	invoice, err := f.invoiceRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to load invoice", err)
	}
	if invoice == nil {
		return nil, NewBusinessError("NOT_FOUND", ErrInvoiceNotFound.Error(), ErrInvoiceNotFound)
	}

	lines, err := f.invoiceItemRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to load invoice lines", err)
	}

	lineDTOs := make([]dto.InvoiceLineDTO, 0, len(lines))
	for _, line := range lines {
		lineDTOs = append(lineDTOs, ToInvoiceLineDTO(*line))
	}

	return &dto.InvoiceDetailResponse{
		Details: ToInvoiceSummaryDTO(*invoice),
		Items:   lineDTOs,
	}, nil
}

// GetInvoiceForEdit loads a persisted invoice into a fresh bill composer,
// decoding each line's composed description back into its editable parts.
func (f *InvoiceFlowImpl) GetInvoiceForEdit(ctx context.Context, id uint) (*dto.InvoiceEditResponse, error) {
	invoice, err := f.invoiceRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to load invoice", err)
	}
	if invoice == nil {
		return nil, NewBusinessError("NOT_FOUND", ErrInvoiceNotFound.Error(), ErrInvoiceNotFound)
	}

	lines, err := f.invoiceItemRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to load invoice lines", err)
	}

	composer := NewBillComposer()
	composer.LoadInvoice(invoice, lines)

	editable := make([]dto.EditableLineDTO, 0, len(lines))
	for _, line := range composer.Lines() {
		editable = append(editable, dto.EditableLineDTO{
			SeqNo:           line.SeqNo,
			ItemName:        line.ItemName,
			ItemDescription: line.ItemDescription,
			MaterialName:    line.MaterialName,
			Width:           line.Width,
			Height:          line.Height,
			UOM:             line.UOM,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			Amount:          line.Amount,
			TaxPercentage:   line.TaxPercentage,
			TotalAmount:     line.TotalAmount,
		})
	}

	return &dto.InvoiceEditResponse{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  composer.CustomerName(),
		InvoiceTitle:  composer.Title(),
		GrandTotal:    composer.GrandTotal(),
		Lines:         editable,
	}, nil
}

func (f *InvoiceFlowImpl) ListInvoices(ctx context.Context) (*dto.ListInvoicesResponse, error) {
	rows, err := f.invoiceRepo.ListByNumberDesc(ctx)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to list invoices", err)
	}

	invoices := make([]dto.InvoiceSummaryDTO, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, ToInvoiceSummaryDTO(*row))
	}
	return &dto.ListInvoicesResponse{Message: "Invoices retrieved", Invoices: invoices}, nil
}

// DeleteInvoice removes the lines and then the invoice inside one
// transaction so lines never outlive their parent and an invoice never
// survives with a stale line set.
func (f *InvoiceFlowImpl) DeleteInvoice(ctx context.Context, id uint, metadata *ClientMetadata) error {
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if txErr := f.invoiceItemRepo.DeleteByInvoice(txCtx, id); txErr != nil {
			return txErr
		}
		deleted, txErr := f.invoiceRepo.Delete(txCtx, id)
		if txErr != nil {
			return txErr
		}
		if !deleted {
			return ErrInvoiceNotFound
		}
		return nil
	})
	if err != nil {
		if IsInvoiceNotFound(err) {
			return NewBusinessError("NOT_FOUND", ErrInvoiceNotFound.Error(), err)
		}
		return NewBusinessError("STORE_FAILURE", "Failed to delete invoice", err)
	}
	return nil
}

// ExportInvoicesExcel builds an xlsx workbook of the invoice register,
// one row per invoice in number order.
func (f *InvoiceFlowImpl) ExportInvoicesExcel(ctx context.Context) (string, []byte, error) {
	rows, err := f.invoiceRepo.ListByNumberDesc(ctx)
	if err != nil {
		return "", nil, NewBusinessError("STORE_FAILURE", "Failed to list invoices", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Invoices"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"invoice_number", "customer_name", "title", "invoice_date", "grand_total"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, row := range rows {
		record := []string{
			strconv.FormatInt(row.InvoiceNumber, 10),
			row.CustomerName,
			row.Title,
			utils.DateOnly(row.InvoiceDate),
			strconv.FormatFloat(row.GrandTotal, 'f', 2, 64),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "invoices.xlsx", buf.Bytes(), nil
}
