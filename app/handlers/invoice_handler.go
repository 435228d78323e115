package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/signforge/billing-api/app/dto"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/utils"
)

// InvoiceHandlerInterface defines the contract for invoice handlers.
type InvoiceHandlerInterface interface {
	ListInvoices(c fiber.Ctx) error
	CreateInvoice(c fiber.Ctx) error
	GetInvoice(c fiber.Ctx) error
	GetInvoiceForEdit(c fiber.Ctx) error
	UpdateInvoice(c fiber.Ctx) error
	DeleteInvoice(c fiber.Ctx) error
	ExportInvoices(c fiber.Ctx) error
}

// InvoiceHandler handles invoice lifecycle requests.
type InvoiceHandler struct {
	invoiceFlow businessflow.InvoiceFlow
	validator   *validator.Validate
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceFlow businessflow.InvoiceFlow) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceFlow: invoiceFlow,
		validator:   validator.New(),
	}
}

func (h *InvoiceHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *InvoiceHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *InvoiceHandler) mapFlowError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if be, ok := err.(*businessflow.BusinessError); ok {
		switch be.Code {
		case "VALIDATION_ERROR", "INVALID_REQUEST":
			return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, be.Error())
		case "NOT_FOUND":
			return h.ErrorResponse(c, fiber.StatusNotFound, be.Message, be.Code, be.Error())
		case "INVOICE_NUMBER_CONFLICT":
			return h.ErrorResponse(c, fiber.StatusConflict, be.Message, be.Code, be.Error())
		}
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// ListInvoices lists invoice summaries, newest invoice number first.
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListInvoicesResponse} "Retrieved"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c fiber.Ctx) error {
	res, err := h.invoiceFlow.ListInvoices(h.createRequestContext(c, "/api/v1/invoices"))
	if err != nil {
		return h.mapFlowError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Invoices retrieved", res)
}

// CreateInvoice persists a new invoice with its line items.
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Invoice payload"
// @Success 201 {object} dto.APIResponse{data=dto.CreateInvoiceResponse} "Created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Invoice number conflict"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	res, err := h.invoiceFlow.CreateInvoice(h.createRequestContext(c, "/api/v1/invoices"), &req, metadata)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to create invoice", "INVOICE_CREATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Invoice created", res)
}

// GetInvoice returns an invoice with its stored line items.
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDetailResponse} "Retrieved"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid invoice id", "INVALID_REQUEST", err.Error())
	}

	res, err := h.invoiceFlow.GetInvoice(h.createRequestContext(c, "/api/v1/invoices/:id"), id)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to get invoice", "INVOICE_GET_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Invoice retrieved", res)
}

// GetInvoiceForEdit returns an invoice with its lines decomposed back into
// item, material, and free-text components for editing.
// @Summary Get invoice for editing
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceEditResponse} "Retrieved"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/invoices/{id}/edit [get]
func (h *InvoiceHandler) GetInvoiceForEdit(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid invoice id", "INVALID_REQUEST", err.Error())
	}

	res, err := h.invoiceFlow.GetInvoiceForEdit(h.createRequestContext(c, "/api/v1/invoices/:id/edit"), id)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to get invoice for edit", "INVOICE_EDIT_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Invoice retrieved for edit", res)
}

// UpdateInvoice replaces an invoice's header fields and line items.
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body dto.UpdateInvoiceRequest true "Invoice payload"
// @Success 200 {object} dto.APIResponse "Updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid invoice id", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateInvoiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	if err := h.invoiceFlow.UpdateInvoice(h.createRequestContext(c, "/api/v1/invoices/:id"), id, &req, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to update invoice", "INVOICE_UPDATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Invoice updated", nil)
}

// DeleteInvoice deletes an invoice and all of its line items.
// @Summary Delete invoice
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid invoice id", "INVALID_REQUEST", err.Error())
	}

	metadata := clientMetadata(c)
	if err := h.invoiceFlow.DeleteInvoice(h.createRequestContext(c, "/api/v1/invoices/:id"), id, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to delete invoice", "INVOICE_DELETE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Invoice deleted", nil)
}

// ExportInvoices streams the invoice register as an Excel workbook.
// @Summary Export invoices to Excel
// @Tags Invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Excel file"
// @Router /api/v1/invoices/export [get]
func (h *InvoiceHandler) ExportInvoices(c fiber.Ctx) error {
	filename, data, err := h.invoiceFlow.ExportInvoicesExcel(h.createRequestContext(c, "/api/v1/invoices/export"))
	if err != nil {
		return h.mapFlowError(c, err, "Failed to export invoices", "INVOICE_EXPORT_FAILED")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *InvoiceHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
