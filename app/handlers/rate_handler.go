package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/signforge/billing-api/app/dto"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/utils"
)

// RateHandlerInterface defines the contract for rate and pricing handlers.
type RateHandlerInterface interface {
	ListRates(c fiber.Ctx) error
	GetRate(c fiber.Ctx) error
	UpsertRate(c fiber.Ctx) error
	UpdateRatePrice(c fiber.Ctx) error
	DeleteRate(c fiber.Ctx) error
	ResolvePrice(c fiber.Ctx) error
}

// RateHandler handles rate maintenance and price resolution requests.
type RateHandler struct {
	rateFlow    businessflow.RateFlow
	pricingFlow businessflow.PricingFlow
	validator   *validator.Validate
}

// NewRateHandler creates a new rate handler.
func NewRateHandler(rateFlow businessflow.RateFlow, pricingFlow businessflow.PricingFlow) *RateHandler {
	return &RateHandler{
		rateFlow:    rateFlow,
		pricingFlow: pricingFlow,
		validator:   validator.New(),
	}
}

func (h *RateHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *RateHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *RateHandler) mapFlowError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if be, ok := err.(*businessflow.BusinessError); ok {
		switch be.Code {
		case "VALIDATION_ERROR", "INVALID_REQUEST":
			return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, be.Error())
		case "NOT_FOUND", "RATE_NOT_FOUND":
			return h.ErrorResponse(c, fiber.StatusNotFound, be.Message, be.Code, be.Error())
		}
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// ListRates lists all rates joined with item and material names.
// @Summary List rates
// @Tags Rates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListRatesResponse} "Retrieved"
// @Router /api/v1/rates [get]
func (h *RateHandler) ListRates(c fiber.Ctx) error {
	res, err := h.rateFlow.ListRates(h.createRequestContext(c, "/api/v1/rates"))
	if err != nil {
		return h.mapFlowError(c, err, "Failed to list rates", "RATE_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Rates retrieved", res)
}

// GetRate looks up the rate for an exact (item, material, uom) triple.
// @Summary Get rate by triple
// @Tags Rates
// @Produce json
// @Param itemId query int true "Item ID"
// @Param materialId query int true "Material ID"
// @Param uom query string true "Unit of measure (sqcm|sqft|nos|mtr)"
// @Success 200 {object} dto.APIResponse{data=dto.RateDTO} "Retrieved"
// @Failure 400 {object} dto.APIResponse "Missing triple component"
// @Failure 404 {object} dto.APIResponse "No rate for this combination"
// @Router /api/v1/rate [get]
func (h *RateHandler) GetRate(c fiber.Ctx) error {
	var req dto.GetRateRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "itemId, materialId, and uom are required", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	res, err := h.rateFlow.GetRate(h.createRequestContext(c, "/api/v1/rate"), &req)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to look up rate", "RATE_LOOKUP_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Rate retrieved", res)
}

// UpsertRate saves a rate, overwriting the price for an existing triple.
// @Summary Create or overwrite rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body dto.UpsertRateRequest true "Rate payload"
// @Success 201 {object} dto.APIResponse "Saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/rates [post]
func (h *RateHandler) UpsertRate(c fiber.Ctx) error {
	var req dto.UpsertRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	if err := h.rateFlow.UpsertRate(h.createRequestContext(c, "/api/v1/rates"), &req, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to save rate", "RATE_SAVE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Rate saved", nil)
}

// UpdateRatePrice changes a rate's price by id.
// @Summary Update rate price
// @Tags Rates
// @Accept json
// @Produce json
// @Param id path int true "Rate ID"
// @Param request body dto.UpdateRatePriceRequest true "New price"
// @Success 200 {object} dto.APIResponse "Updated"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/rates/{id} [put]
func (h *RateHandler) UpdateRatePrice(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate id", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateRatePriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "A valid rate value is required", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	if err := h.rateFlow.UpdateRatePrice(h.createRequestContext(c, "/api/v1/rates/:id"), id, &req, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to update rate", "RATE_UPDATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Rate updated", nil)
}

// DeleteRate deletes a rate.
// @Summary Delete rate
// @Tags Rates
// @Produce json
// @Param id path int true "Rate ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/rates/{id} [delete]
func (h *RateHandler) DeleteRate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate id", "INVALID_REQUEST", err.Error())
	}

	metadata := clientMetadata(c)
	if err := h.rateFlow.DeleteRate(h.createRequestContext(c, "/api/v1/rates/:id"), id, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to delete rate", "RATE_DELETE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Rate deleted", nil)
}

// ResolvePrice prices a prospective invoice line from a stored rate.
// @Summary Resolve price
// @Tags Rates
// @Produce json
// @Param itemId query int true "Item ID"
// @Param materialId query int true "Material ID"
// @Param uom query string true "Unit of measure (sqcm|sqft|nos|mtr)"
// @Param width query number false "Width (area units only)"
// @Param height query number false "Height (area units only)"
// @Param quantity query int true "Quantity"
// @Param tax query number false "Tax percentage"
// @Success 200 {object} dto.APIResponse{data=dto.ResolvePriceResponse} "Priced"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "No rate for this combination"
// @Router /api/v1/price [get]
func (h *RateHandler) ResolvePrice(c fiber.Ctx) error {
	var req dto.ResolvePriceRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	res, err := h.pricingFlow.ResolvePrice(h.createRequestContext(c, "/api/v1/price"), &req, metadata)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to resolve price", "PRICE_RESOLVE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Price resolved", res)
}

func (h *RateHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
