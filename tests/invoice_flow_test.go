package tests

import (
	"sync"
	"testing"

	"github.com/signforge/billing-api/app/dto"
	businessflow "github.com/signforge/billing-api/business_flow"
	"github.com/signforge/billing-api/models"
	"github.com/signforge/billing-api/repository"
	testingutil "github.com/signforge/billing-api/testing"
	"github.com/signforge/billing-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceFlow(testDB *testingutil.TestDB) businessflow.InvoiceFlow {
	return businessflow.NewInvoiceFlow(
		repository.NewInvoiceRepository(testDB.DB),
		repository.NewInvoiceItemRepository(testDB.DB),
		testDB.DB,
	)
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func bannerLine() dto.InvoiceLineRequest {
	return dto.InvoiceLineRequest{
		SeqNo:           1,
		ItemName:        "Banner",
		ItemDescription: "Storefront sign",
		MaterialName:    "Vinyl",
		Width:           100,
		Height:          50,
		UOM:             models.UOMSquareCentimeter,
		Quantity:        2,
		UnitPrice:       0.5,
		Amount:          5000,
		TotalAmount:     5900,
	}
}

func TestInvoiceFlowCreate(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("FirstInvoiceGetsNumberOne", func(t *testing.T) {
			res, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
				CustomerName: "Acme Signs",
				GrandTotal:   5900,
				Items:        []dto.InvoiceLineRequest{bannerLine()},
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.InvoiceNumber)
			assert.NotZero(t, res.InvoiceID)
		})

		t.Run("NumbersIncrease", func(t *testing.T) {
			for want := int64(2); want <= 4; want++ {
				res, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
					CustomerName: "Acme Signs",
					GrandTotal:   100,
					Items:        []dto.InvoiceLineRequest{bannerLine()},
				}, testMetadata())
				require.NoError(t, err)
				assert.Equal(t, want, res.InvoiceNumber)
			}
		})

		t.Run("DeletedNumberNotReused", func(t *testing.T) {
			list, err := flow.ListInvoices(ctx)
			require.NoError(t, err)
			top := list.Invoices[0]
			require.Equal(t, int64(4), top.InvoiceNumber)

			require.NoError(t, flow.DeleteInvoice(ctx, top.InvoiceID, testMetadata()))

			res, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
				CustomerName: "Acme Signs",
				GrandTotal:   100,
				Items:        []dto.InvoiceLineRequest{bannerLine()},
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, int64(5), res.InvoiceNumber)
		})

		t.Run("ComposedDescriptionPersisted", func(t *testing.T) {
			detail, err := flow.GetInvoice(ctx, 1)
			require.NoError(t, err)
			require.Len(t, detail.Items, 1)
			assert.Equal(t, "Banner (Vinyl) - Storefront sign", detail.Items[0].Description)
			assert.InDelta(t, utils.DefaultTaxPercentage, detail.Items[0].TaxPercentage, 1e-9)
		})

		t.Run("EmptyCustomerRejected", func(t *testing.T) {
			_, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
				CustomerName: "   ",
				Items:        []dto.InvoiceLineRequest{bannerLine()},
			}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
		})

		t.Run("EmptyLineListRejected", func(t *testing.T) {
			_, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
				CustomerName: "Acme Signs",
				Items:        []dto.InvoiceLineRequest{},
			}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
		})

		return nil
	})
}

func TestInvoiceFlowConcurrentCreate(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		ctx := testingutil.CreateTestContext()

		const writers = 8
		numbers := make(chan int64, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
					CustomerName: "Acme Signs",
					GrandTotal:   5900,
					Items:        []dto.InvoiceLineRequest{bannerLine()},
				}, testMetadata())
				if err != nil {
					t.Errorf("concurrent create failed: %v", err)
					return
				}
				numbers <- res.InvoiceNumber
			}()
		}
		wg.Wait()
		close(numbers)

		seen := make(map[int64]bool)
		for n := range numbers {
			assert.False(t, seen[n], "invoice number %d assigned twice", n)
			seen[n] = true
		}
		assert.Len(t, seen, writers)
		return nil
	})
}

func TestInvoiceFlowNumberCollisionBackstop(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		// A row written outside the counter's bookkeeping occupies the
		// number the counter will hand out next, so every allocation
		// attempt collides on the invoice_number unique index.
		occupant, err := fixtures.CreateTestInvoice(1, "Walk-in")
		require.NoError(t, err)

		_, err = flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			GrandTotal:   5900,
			Items:        []dto.InvoiceLineRequest{bannerLine()},
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsInvoiceNumberConflict(err))
		be, ok := err.(*businessflow.BusinessError)
		require.True(t, ok)
		assert.Equal(t, "INVOICE_NUMBER_CONFLICT", be.Code)

		// Every failed attempt rolled back whole; only the occupant row
		// survives.
		list, err := flow.ListInvoices(ctx)
		require.NoError(t, err)
		require.Len(t, list.Invoices, 1)
		assert.Equal(t, occupant.InvoiceNumber, list.Invoices[0].InvoiceNumber)
		return nil
	})
}

func TestInvoiceFlowUpdate(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		ctx := testingutil.CreateTestContext()

		created, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			GrandTotal:   5900,
			Items:        []dto.InvoiceLineRequest{bannerLine()},
		}, testMetadata())
		require.NoError(t, err)

		t.Run("ReplacesLineSet", func(t *testing.T) {
			replacement := bannerLine()
			replacement.ItemName = "Board"
			replacement.MaterialName = "Acrylic"
			replacement.UOM = models.UOMCount
			replacement.Width = 0
			replacement.Height = 0
			replacement.Quantity = 3
			replacement.UnitPrice = 250
			replacement.Amount = 750
			replacement.TotalAmount = 885
			second := replacement
			second.SeqNo = 2

			err := flow.UpdateInvoice(ctx, created.InvoiceID, &dto.UpdateInvoiceRequest{
				CustomerName: "Acme Signs Ltd",
				GrandTotal:   1770,
				Items:        []dto.InvoiceLineRequest{replacement, second},
			}, testMetadata())
			require.NoError(t, err)

			detail, err := flow.GetInvoice(ctx, created.InvoiceID)
			require.NoError(t, err)
			assert.Equal(t, "Acme Signs Ltd", detail.Details.CustomerName)
			assert.InDelta(t, 1770.0, detail.Details.GrandTotal, 1e-9)
			require.Len(t, detail.Items, 2)
			assert.Equal(t, "Board (Acrylic) - Storefront sign", detail.Items[0].Description)
			assert.Equal(t, int64(1), detail.Details.InvoiceNumber)
		})

		t.Run("EmptyLineSetClearsLines", func(t *testing.T) {
			err := flow.UpdateInvoice(ctx, created.InvoiceID, &dto.UpdateInvoiceRequest{
				CustomerName: "Acme Signs Ltd",
				GrandTotal:   0,
				Items:        []dto.InvoiceLineRequest{},
			}, testMetadata())
			require.NoError(t, err)

			detail, err := flow.GetInvoice(ctx, created.InvoiceID)
			require.NoError(t, err)
			assert.Empty(t, detail.Items)
		})

		t.Run("UnknownInvoiceNotFound", func(t *testing.T) {
			err := flow.UpdateInvoice(ctx, 99999, &dto.UpdateInvoiceRequest{
				CustomerName: "Ghost",
				Items:        []dto.InvoiceLineRequest{},
			}, testMetadata())
			require.Error(t, err)
			be, ok := err.(*businessflow.BusinessError)
			require.True(t, ok)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		return nil
	})
}

func TestInvoiceFlowGetForEdit(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		ctx := testingutil.CreateTestContext()

		created, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			GrandTotal:   5900,
			Items:        []dto.InvoiceLineRequest{bannerLine()},
		}, testMetadata())
		require.NoError(t, err)

		edit, err := flow.GetInvoiceForEdit(ctx, created.InvoiceID)
		require.NoError(t, err)
		require.Len(t, edit.Lines, 1)
		assert.Equal(t, "Banner", edit.Lines[0].ItemName)
		assert.Equal(t, "Vinyl", edit.Lines[0].MaterialName)
		assert.Equal(t, "Storefront sign", edit.Lines[0].ItemDescription)
		assert.Equal(t, 1, edit.Lines[0].SeqNo)
		assert.InDelta(t, 5900.0, edit.GrandTotal, 1e-9)

		return nil
	})
}

func TestInvoiceFlowDelete(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		lineRepo := repository.NewInvoiceItemRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		created, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			GrandTotal:   5900,
			Items:        []dto.InvoiceLineRequest{bannerLine()},
		}, testMetadata())
		require.NoError(t, err)

		require.NoError(t, flow.DeleteInvoice(ctx, created.InvoiceID, testMetadata()))

		_, err = flow.GetInvoice(ctx, created.InvoiceID)
		require.Error(t, err)

		lines, err := lineRepo.ListByInvoice(ctx, created.InvoiceID)
		require.NoError(t, err)
		assert.Empty(t, lines)

		err = flow.DeleteInvoice(ctx, created.InvoiceID, testMetadata())
		require.Error(t, err)
		be, ok := err.(*businessflow.BusinessError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", be.Code)

		return nil
	})
}

func TestInvoiceFlowExport(t *testing.T) {
	runWithDB(t, func(testDB *testingutil.TestDB) error {
		flow := newInvoiceFlow(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := flow.CreateInvoice(ctx, &dto.CreateInvoiceRequest{
			CustomerName: "Acme Signs",
			GrandTotal:   5900,
			Items:        []dto.InvoiceLineRequest{bannerLine()},
		}, testMetadata())
		require.NoError(t, err)

		filename, data, err := flow.ExportInvoicesExcel(ctx)
		require.NoError(t, err)
		assert.Equal(t, "invoices.xlsx", filename)
		assert.NotEmpty(t, data)
		// xlsx files are zip archives
		assert.Equal(t, []byte{'P', 'K'}, data[:2])

		return nil
	})
}
