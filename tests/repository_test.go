// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"errors"
	"testing"

	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
	testingutil "github.com/signforge/billing-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithDB(t *testing.T, fn func(testDB *testingutil.TestDB) error) {
	t.Helper()
	err := testingutil.TestWithDB(fn)
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}

func TestItemRepository(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewItemRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByID", func(t *testing.T) {
			item, err := fixtures.CreateTestItem("Banner")
			require.NoError(t, err)

			found, err := repo.ByID(ctx, item.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Banner", found.Name)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, 99999)
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("ByName", func(t *testing.T) {
			found, err := repo.ByName(ctx, "Banner")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Banner", found.Name)

			missing, err := repo.ByName(ctx, "Nonexistent")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListOrderedByName", func(t *testing.T) {
			_, err := fixtures.CreateTestItem("Acrylic Board")
			require.NoError(t, err)

			items, err := repo.ListOrderedByName(ctx)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(items), 2)
			for i := 1; i < len(items); i++ {
				assert.LessOrEqual(t, items[i-1].Name, items[i].Name)
			}
		})

		t.Run("Update", func(t *testing.T) {
			item, err := fixtures.CreateTestItem("Old Name")
			require.NoError(t, err)

			item.Name = "New Name"
			item.Description = "renamed"
			require.NoError(t, repo.Update(ctx, item))

			found, err := repo.ByID(ctx, item.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "New Name", found.Name)
			assert.Equal(t, "renamed", found.Description)
		})

		t.Run("Delete", func(t *testing.T) {
			item, err := fixtures.CreateTestItem("Doomed")
			require.NoError(t, err)

			deleted, err := repo.Delete(ctx, item.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = repo.Delete(ctx, item.ID)
			require.NoError(t, err)
			assert.False(t, deleted)
		})

		t.Run("DuplicateName", func(t *testing.T) {
			_, err := fixtures.CreateTestItem("Unique Item")
			require.NoError(t, err)
			_, err = fixtures.CreateTestItem("Unique Item")
			assert.Error(t, err)
		})

		return nil
	})
}

func TestMaterialRepository(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewMaterialRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndList", func(t *testing.T) {
			_, err := fixtures.CreateTestMaterial("Vinyl")
			require.NoError(t, err)
			_, err = fixtures.CreateTestMaterial("Acrylic")
			require.NoError(t, err)

			materials, err := repo.ListOrderedByName(ctx)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(materials), 2)
			assert.Equal(t, "Acrylic", materials[0].Name)
		})

		t.Run("UpdateAndDelete", func(t *testing.T) {
			material, err := fixtures.CreateTestMaterial("Foam")
			require.NoError(t, err)

			material.Name = "Foam Board"
			require.NoError(t, repo.Update(ctx, material))

			found, err := repo.ByName(ctx, "Foam Board")
			require.NoError(t, err)
			require.NotNil(t, found)

			deleted, err := repo.Delete(ctx, material.ID)
			require.NoError(t, err)
			assert.True(t, deleted)
		})

		return nil
	})
}

func TestRateRepository(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewRateRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		item, err := fixtures.CreateTestItem("Banner")
		require.NoError(t, err)
		material, err := fixtures.CreateTestMaterial("Vinyl")
		require.NoError(t, err)

		t.Run("UpsertCreates", func(t *testing.T) {
			err := repo.Upsert(ctx, &models.Rate{
				ItemID:       item.ID,
				MaterialID:   material.ID,
				UOM:          models.UOMSquareCentimeter,
				PricePerUnit: 0.5,
			})
			require.NoError(t, err)

			rate, err := repo.ByTriple(ctx, item.ID, material.ID, models.UOMSquareCentimeter)
			require.NoError(t, err)
			require.NotNil(t, rate)
			assert.InDelta(t, 0.5, rate.PricePerUnit, 1e-9)
		})

		t.Run("UpsertOverwritesPrice", func(t *testing.T) {
			err := repo.Upsert(ctx, &models.Rate{
				ItemID:       item.ID,
				MaterialID:   material.ID,
				UOM:          models.UOMSquareCentimeter,
				PricePerUnit: 0.75,
			})
			require.NoError(t, err)

			rate, err := repo.ByTriple(ctx, item.ID, material.ID, models.UOMSquareCentimeter)
			require.NoError(t, err)
			require.NotNil(t, rate)
			assert.InDelta(t, 0.75, rate.PricePerUnit, 1e-9)

			count, err := repo.Count(ctx, models.RateFilter{ItemID: &item.ID, MaterialID: &material.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("SameItemDifferentUnit", func(t *testing.T) {
			err := repo.Upsert(ctx, &models.Rate{
				ItemID:       item.ID,
				MaterialID:   material.ID,
				UOM:          models.UOMCount,
				PricePerUnit: 250,
			})
			require.NoError(t, err)

			count, err := repo.Count(ctx, models.RateFilter{ItemID: &item.ID, MaterialID: &material.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("TripleWithNames", func(t *testing.T) {
			row, err := repo.TripleWithNames(ctx, item.ID, material.ID, models.UOMSquareCentimeter)
			require.NoError(t, err)
			require.NotNil(t, row)
			assert.Equal(t, "Banner", row.ItemName)
			assert.Equal(t, "Vinyl", row.MaterialName)

			missing, err := repo.TripleWithNames(ctx, item.ID, material.ID, models.UOMSquareFoot)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListWithNames", func(t *testing.T) {
			rows, err := repo.ListWithNames(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(rows), 2)
		})

		t.Run("UpdatePrice", func(t *testing.T) {
			rate, err := repo.ByTriple(ctx, item.ID, material.ID, models.UOMCount)
			require.NoError(t, err)
			require.NotNil(t, rate)

			updated, err := repo.UpdatePrice(ctx, rate.ID, 300)
			require.NoError(t, err)
			assert.True(t, updated)

			updated, err = repo.UpdatePrice(ctx, 99999, 300)
			require.NoError(t, err)
			assert.False(t, updated)
		})

		t.Run("OrphanedRateSurvivesItemDelete", func(t *testing.T) {
			doomedItem, err := fixtures.CreateTestItem("Doomed Item")
			require.NoError(t, err)
			_, err = fixtures.CreateTestRate(doomedItem.ID, material.ID, models.UOMMeter, 12)
			require.NoError(t, err)

			itemRepo := repository.NewItemRepository(testDB.DB)
			deleted, err := itemRepo.Delete(ctx, doomedItem.ID)
			require.NoError(t, err)
			require.True(t, deleted)

			orphan, err := repo.ByTriple(ctx, doomedItem.ID, material.ID, models.UOMMeter)
			require.NoError(t, err)
			assert.NotNil(t, orphan)

			// The join listing no longer resolves the deleted item
			row, err := repo.TripleWithNames(ctx, doomedItem.ID, material.ID, models.UOMMeter)
			require.NoError(t, err)
			assert.Nil(t, row)
		})

		return nil
	})
}

func TestInvoiceRepository(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewInvoiceRepository(testDB.DB)
		itemRepo := repository.NewInvoiceItemRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("NextInvoiceNumberSequence", func(t *testing.T) {
			first, err := repo.NextInvoiceNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), first)
			_, err = fixtures.CreateTestInvoice(first, "First Customer")
			require.NoError(t, err)

			second, err := repo.NextInvoiceNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), second)
			_, err = fixtures.CreateTestInvoice(second, "Second Customer")
			require.NoError(t, err)
		})

		t.Run("ListByNumberDesc", func(t *testing.T) {
			invoices, err := repo.ListByNumberDesc(ctx)
			require.NoError(t, err)
			require.Len(t, invoices, 2)
			assert.Equal(t, int64(2), invoices[0].InvoiceNumber)
			assert.Equal(t, int64(1), invoices[1].InvoiceNumber)
		})

		t.Run("LinesOrderedBySeqNo", func(t *testing.T) {
			invoices, err := repo.ListByNumberDesc(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, invoices)

			lines, err := itemRepo.ListByInvoice(ctx, invoices[0].ID)
			require.NoError(t, err)
			require.NotEmpty(t, lines)
			for i := 1; i < len(lines); i++ {
				assert.Less(t, lines[i-1].SeqNo, lines[i].SeqNo)
			}
		})

		t.Run("DuplicateInvoiceNumberRejected", func(t *testing.T) {
			_, err := fixtures.CreateTestInvoice(2, "Dup Customer")
			assert.Error(t, err)
		})

		t.Run("DeletionNeverReleasesNumber", func(t *testing.T) {
			invoices, err := repo.ListByNumberDesc(ctx)
			require.NoError(t, err)
			top := invoices[0]
			require.Equal(t, int64(2), top.InvoiceNumber)

			require.NoError(t, itemRepo.DeleteByInvoice(ctx, top.ID))
			deleted, err := repo.Delete(ctx, top.ID)
			require.NoError(t, err)
			require.True(t, deleted)

			next, err := repo.NextInvoiceNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), next)
		})

		return nil
	})
}
