package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/signforge/billing-api/app/dto"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
	"gorm.io/gorm"
)

// CatalogFlow defines the item and material use cases. Every read hits
// the store; the catalog is never cached in process.
type CatalogFlow interface {
	ListItems(ctx context.Context) (*dto.ListItemsResponse, error)
	CreateItem(ctx context.Context, req *dto.CreateItemRequest, metadata *ClientMetadata) (*dto.ItemDTO, error)
	UpdateItem(ctx context.Context, id uint, req *dto.UpdateItemRequest, metadata *ClientMetadata) error
	DeleteItem(ctx context.Context, id uint, metadata *ClientMetadata) error

	ListMaterials(ctx context.Context) (*dto.ListMaterialsResponse, error)
	CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialDTO, error)
	UpdateMaterial(ctx context.Context, id uint, req *dto.UpdateMaterialRequest, metadata *ClientMetadata) error
	DeleteMaterial(ctx context.Context, id uint, metadata *ClientMetadata) error
}

// CatalogFlowImpl implements CatalogFlow.
type CatalogFlowImpl struct {
	itemRepo     repository.ItemRepository
	materialRepo repository.MaterialRepository
}

// NewCatalogFlow creates a new catalog flow.
func NewCatalogFlow(itemRepo repository.ItemRepository, materialRepo repository.MaterialRepository) CatalogFlow {
	return &CatalogFlowImpl{
		itemRepo:     itemRepo,
		materialRepo: materialRepo,
	}
}

func (f *CatalogFlowImpl) ListItems(ctx context.Context) (*dto.ListItemsResponse, error) {
	rows, err := f.itemRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to list items", err)
	}

	items := make([]dto.ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToItemDTO(*row))
	}
	return &dto.ListItemsResponse{Message: "Items retrieved", Items: items}, nil
}

func (f *CatalogFlowImpl) CreateItem(ctx context.Context, req *dto.CreateItemRequest, metadata *ClientMetadata) (*dto.ItemDTO, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrItemNameRequired.Error(), ErrItemNameRequired)
	}

	row := models.Item{
		UUID:        uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := f.itemRepo.Save(ctx, &row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewBusinessError("DUPLICATE_NAME", ErrItemNameTaken.Error(), ErrItemNameTaken)
		}
		return nil, NewBusinessError("STORE_FAILURE", "Failed to save item", err)
	}

	res := ToItemDTO(row)
	return &res, nil
}

func (f *CatalogFlowImpl) UpdateItem(ctx context.Context, id uint, req *dto.UpdateItemRequest, metadata *ClientMetadata) error {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return NewBusinessError("VALIDATION_ERROR", ErrItemNameRequired.Error(), ErrItemNameRequired)
	}

	row, err := f.itemRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to load item", err)
	}
	if row == nil {
		return NewBusinessError("NOT_FOUND", ErrItemNotFound.Error(), ErrItemNotFound)
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Description = req.Description
	if err := f.itemRepo.Update(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewBusinessError("DUPLICATE_NAME", ErrItemNameTaken.Error(), ErrItemNameTaken)
		}
		return NewBusinessError("STORE_FAILURE", "Failed to update item", err)
	}
	return nil
}

// DeleteItem removes the item only. Rates referencing it are deliberately
// left behind; they drop out of the joined rate listing instead.
func (f *CatalogFlowImpl) DeleteItem(ctx context.Context, id uint, metadata *ClientMetadata) error {
	deleted, err := f.itemRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to delete item", err)
	}
	if !deleted {
		return NewBusinessError("NOT_FOUND", ErrItemNotFound.Error(), ErrItemNotFound)
	}
	return nil
}

func (f *CatalogFlowImpl) ListMaterials(ctx context.Context) (*dto.ListMaterialsResponse, error) {
	rows, err := f.materialRepo.ListOrderedByName(ctx)
	if err != nil {
		return nil, NewBusinessError("STORE_FAILURE", "Failed to list materials", err)
	}

	items := make([]dto.MaterialDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToMaterialDTO(*row))
	}
	return &dto.ListMaterialsResponse{Message: "Materials retrieved", Materials: items}, nil
}

func (f *CatalogFlowImpl) CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, metadata *ClientMetadata) (*dto.MaterialDTO, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", ErrMaterialNameRequired.Error(), ErrMaterialNameRequired)
	}

	row := models.Material{
		UUID: uuid.New(),
		Name: strings.TrimSpace(req.Name),
	}
	if err := f.materialRepo.Save(ctx, &row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewBusinessError("DUPLICATE_NAME", ErrMaterialNameTaken.Error(), ErrMaterialNameTaken)
		}
		return nil, NewBusinessError("STORE_FAILURE", "Failed to save material", err)
	}

	res := ToMaterialDTO(row)
	return &res, nil
}

func (f *CatalogFlowImpl) UpdateMaterial(ctx context.Context, id uint, req *dto.UpdateMaterialRequest, metadata *ClientMetadata) error {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return NewBusinessError("VALIDATION_ERROR", ErrMaterialNameRequired.Error(), ErrMaterialNameRequired)
	}

	row, err := f.materialRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to load material", err)
	}
	if row == nil {
		return NewBusinessError("NOT_FOUND", ErrMaterialNotFound.Error(), ErrMaterialNotFound)
	}

	row.Name = strings.TrimSpace(req.Name)
	if err := f.materialRepo.Update(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewBusinessError("DUPLICATE_NAME", ErrMaterialNameTaken.Error(), ErrMaterialNameTaken)
		}
		return NewBusinessError("STORE_FAILURE", "Failed to update material", err)
	}
	return nil
}

// DeleteMaterial removes the material only; dependent rates are left behind.
func (f *CatalogFlowImpl) DeleteMaterial(ctx context.Context, id uint, metadata *ClientMetadata) error {
	deleted, err := f.materialRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("STORE_FAILURE", "Failed to delete material", err)
	}
	if !deleted {
		return NewBusinessError("NOT_FOUND", ErrMaterialNotFound.Error(), ErrMaterialNotFound)
	}
	return nil
}
