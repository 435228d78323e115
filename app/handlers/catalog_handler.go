package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/signforge/billing-api/app/dto"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/utils"
)

// CatalogHandlerInterface defines the contract for item and material handlers.
type CatalogHandlerInterface interface {
	ListItems(c fiber.Ctx) error
	CreateItem(c fiber.Ctx) error
	UpdateItem(c fiber.Ctx) error
	DeleteItem(c fiber.Ctx) error
	ListMaterials(c fiber.Ctx) error
	CreateMaterial(c fiber.Ctx) error
	UpdateMaterial(c fiber.Ctx) error
	DeleteMaterial(c fiber.Ctx) error
}

// CatalogHandler handles item and material requests.
type CatalogHandler struct {
	flow      businessflow.CatalogFlow
	validator *validator.Validate
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(flow businessflow.CatalogFlow) *CatalogHandler {
	return &CatalogHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// mapFlowError converts a BusinessError to the matching HTTP response.
func (h *CatalogHandler) mapFlowError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if be, ok := err.(*businessflow.BusinessError); ok {
		switch be.Code {
		case "VALIDATION_ERROR", "INVALID_REQUEST":
			return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, be.Error())
		case "NOT_FOUND":
			return h.ErrorResponse(c, fiber.StatusNotFound, be.Message, be.Code, be.Error())
		case "DUPLICATE_NAME":
			return h.ErrorResponse(c, fiber.StatusConflict, be.Message, be.Code, be.Error())
		}
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

// ListItems lists catalog items.
// @Summary List items
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListItemsResponse} "Retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/items [get]
func (h *CatalogHandler) ListItems(c fiber.Ctx) error {
	res, err := h.flow.ListItems(h.createRequestContext(c, "/api/v1/items"))
	if err != nil {
		return h.mapFlowError(c, err, "Failed to list items", "ITEM_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Items retrieved", res)
}

// CreateItem creates a catalog item.
// @Summary Create item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Item payload"
// @Success 201 {object} dto.APIResponse{data=dto.ItemDTO} "Created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Duplicate name"
// @Router /api/v1/items [post]
func (h *CatalogHandler) CreateItem(c fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	res, err := h.flow.CreateItem(h.createRequestContext(c, "/api/v1/items"), &req, metadata)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to create item", "ITEM_CREATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Item created", res)
}

// UpdateItem updates a catalog item.
// @Summary Update item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body dto.UpdateItemRequest true "Item payload"
// @Success 200 {object} dto.APIResponse "Updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid item id", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	if err := h.flow.UpdateItem(h.createRequestContext(c, "/api/v1/items/:id"), id, &req, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to update item", "ITEM_UPDATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Item updated", nil)
}

// DeleteItem deletes a catalog item. Rates referencing it are not removed.
// @Summary Delete item
// @Tags Catalog
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid item id", "INVALID_REQUEST", err.Error())
	}

	metadata := clientMetadata(c)
	if err := h.flow.DeleteItem(h.createRequestContext(c, "/api/v1/items/:id"), id, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to delete item", "ITEM_DELETE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Item deleted", nil)
}

// ListMaterials lists materials.
// @Summary List materials
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListMaterialsResponse} "Retrieved"
// @Router /api/v1/materials [get]
func (h *CatalogHandler) ListMaterials(c fiber.Ctx) error {
	res, err := h.flow.ListMaterials(h.createRequestContext(c, "/api/v1/materials"))
	if err != nil {
		return h.mapFlowError(c, err, "Failed to list materials", "MATERIAL_LIST_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Materials retrieved", res)
}

// CreateMaterial creates a material.
// @Summary Create material
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequest true "Material payload"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialDTO} "Created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Duplicate name"
// @Router /api/v1/materials [post]
func (h *CatalogHandler) CreateMaterial(c fiber.Ctx) error {
	var req dto.CreateMaterialRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	res, err := h.flow.CreateMaterial(h.createRequestContext(c, "/api/v1/materials"), &req, metadata)
	if err != nil {
		return h.mapFlowError(c, err, "Failed to create material", "MATERIAL_CREATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Material created", res)
}

// UpdateMaterial updates a material.
// @Summary Update material
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Material payload"
// @Success 200 {object} dto.APIResponse "Updated"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/materials/{id} [put]
func (h *CatalogHandler) UpdateMaterial(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid material id", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateMaterialRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := clientMetadata(c)
	if err := h.flow.UpdateMaterial(h.createRequestContext(c, "/api/v1/materials/:id"), id, &req, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to update material", "MATERIAL_UPDATE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Material updated", nil)
}

// DeleteMaterial deletes a material. Rates referencing it are not removed.
// @Summary Delete material
// @Tags Catalog
// @Produce json
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /api/v1/materials/{id} [delete]
func (h *CatalogHandler) DeleteMaterial(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid material id", "INVALID_REQUEST", err.Error())
	}

	metadata := clientMetadata(c)
	if err := h.flow.DeleteMaterial(h.createRequestContext(c, "/api/v1/materials/:id"), id, metadata); err != nil {
		return h.mapFlowError(c, err, "Failed to delete material", "MATERIAL_DELETE_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Material deleted", nil)
}

func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

// parseIDParam parses the :id path parameter shared by the resource routes.
func parseIDParam(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
