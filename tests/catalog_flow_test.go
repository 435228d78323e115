package tests

import (
	"testing"

	"github.com/signforge/billing-api/app/dto"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
	testingutil "github.com/signforge/billing-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFlow(testDB *testingutil.TestDB) businessflow.CatalogFlow {
	return businessflow.NewCatalogFlow(
		repository.NewItemRepository(testDB.DB),
		repository.NewMaterialRepository(testDB.DB),
	)
}

func TestCatalogFlowItems(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newCatalogFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("CreateAndList", func(t *testing.T) {
			created, err := flow.CreateItem(ctx, &dto.CreateItemRequest{
				Name:        "Banner",
				Description: "Printed banner",
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.NotEmpty(t, created.UUID)

			_, err = flow.CreateItem(ctx, &dto.CreateItemRequest{Name: "Acrylic Board"}, testMetadata())
			require.NoError(t, err)

			list, err := flow.ListItems(ctx)
			require.NoError(t, err)
			require.Len(t, list.Items, 2)
			assert.Equal(t, "Acrylic Board", list.Items[0].Name)
			assert.Equal(t, "Banner", list.Items[1].Name)
		})

		t.Run("DuplicateNameRejected", func(t *testing.T) {
			_, err := flow.CreateItem(ctx, &dto.CreateItemRequest{Name: "Banner"}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "DUPLICATE_NAME", be.Code)
		})

		t.Run("EmptyNameRejected", func(t *testing.T) {
			_, err := flow.CreateItem(ctx, &dto.CreateItemRequest{Name: "   "}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
		})

		t.Run("Update", func(t *testing.T) {
			list, err := flow.ListItems(ctx)
			require.NoError(t, err)
			id := list.Items[0].ID

			err = flow.UpdateItem(ctx, id, &dto.UpdateItemRequest{
				Name:        "Acrylic Sheet",
				Description: "cast acrylic",
			}, testMetadata())
			require.NoError(t, err)

			err = flow.UpdateItem(ctx, 99999, &dto.UpdateItemRequest{Name: "Ghost"}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "NOT_FOUND", be.Code)
			assert.True(t, businessflow.IsItemNotFound(err))
		})

		t.Run("Delete", func(t *testing.T) {
			list, err := flow.ListItems(ctx)
			require.NoError(t, err)
			id := list.Items[0].ID

			require.NoError(t, flow.DeleteItem(ctx, id, testMetadata()))

			err = flow.DeleteItem(ctx, id, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		return nil
	})
}

func TestCatalogFlowMaterials(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newCatalogFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("CreateAndList", func(t *testing.T) {
			_, err := flow.CreateMaterial(ctx, &dto.CreateMaterialRequest{Name: "Vinyl"}, testMetadata())
			require.NoError(t, err)
			_, err = flow.CreateMaterial(ctx, &dto.CreateMaterialRequest{Name: "Acrylic"}, testMetadata())
			require.NoError(t, err)

			list, err := flow.ListMaterials(ctx)
			require.NoError(t, err)
			require.Len(t, list.Materials, 2)
			assert.Equal(t, "Acrylic", list.Materials[0].Name)
		})

		t.Run("DeleteLeavesRatesOrphaned", func(t *testing.T) {
			item, err := fixtures.CreateTestItem("Banner")
			require.NoError(t, err)

			list, err := flow.ListMaterials(ctx)
			require.NoError(t, err)
			material := list.Materials[0]

			_, err = fixtures.CreateTestRate(item.ID, material.ID, models.UOMCount, 100)
			require.NoError(t, err)

			require.NoError(t, flow.DeleteMaterial(ctx, material.ID, testMetadata()))

			rateRepo := repository.NewRateRepository(testDB.DB)
			orphan, err := rateRepo.ByTriple(ctx, item.ID, material.ID, models.UOMCount)
			require.NoError(t, err)
			assert.NotNil(t, orphan)
		})

		t.Run("UpdateUnknownMaterial", func(t *testing.T) {
			err := flow.UpdateMaterial(ctx, 99999, &dto.UpdateMaterialRequest{Name: "Ghost"}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsMaterialNotFound(err))
		})

		return nil
	})
}
