// Package businessflow_test contains integration tests for product catalogs
package businessflow_test

import (
	"context"
	"testing"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	testingutil "github.com/acelion55/finonest/testing"
	"github.com/acelion55/finonest/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		catalogRepo := repository.NewCatalogProductRepository(testDB.DB)

		// No Redis in tests; the flow serves straight from the store
		catalogFlow := businessflow.NewCatalogFlow(catalogRepo, nil, testDB.DB)

		t.Run("CreateAndGet", func(t *testing.T) {
			req := &dto.CreateCatalogProductRequest{
				ProductID:    1001,
				Bank:         "HDFC Bank",
				Name:         "Regalia Credit Card",
				Features:     []string{"Lounge access", "Reward points"},
				InterestRate: utils.ToPtr("3.6% monthly"),
			}

			created, err := catalogFlow.Create(context.Background(), models.CatalogTypeCreditCard, req)
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, models.CatalogTypeCreditCard, created.CatalogType)
			assert.Equal(t, 1001, created.ProductID)
			assert.Equal(t, []string{"Lounge access", "Reward points"}, created.Features)
			assert.True(t, utils.IsTrue(created.IsActive))

			// Lookups address the catalog-scoped product id, not the row key
			found, err := catalogFlow.Get(context.Background(), models.CatalogTypeCreditCard, created.ProductID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, found.ID)
			assert.Equal(t, 1001, found.ProductID)
			assert.Equal(t, []string{"Lounge access", "Reward points"}, found.Features)

			// The row key is not an address; a row-id lookup that does not
			// collide with a product id misses
			if created.ID != uint(created.ProductID) {
				_, err = catalogFlow.Get(context.Background(), models.CatalogTypeCreditCard, int(created.ID))
				require.Error(t, err)
				assert.True(t, businessflow.IsNotFound(err))
			}
		})

		t.Run("DuplicateProductIDWithinCatalog", func(t *testing.T) {
			req := &dto.CreateCatalogProductRequest{
				ProductID: 2001,
				Bank:      "ICICI Bank",
				Name:      "Sapphiro Card",
			}

			_, err := catalogFlow.Create(context.Background(), models.CatalogTypeCreditCard, req)
			require.NoError(t, err)

			dup, err := catalogFlow.Create(context.Background(), models.CatalogTypeCreditCard, req)
			require.Error(t, err)
			assert.Nil(t, dup)
			assert.True(t, businessflow.IsProductIDTaken(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)

			// The same product id is free in another catalog
			other, err := catalogFlow.Create(context.Background(), models.CatalogTypePersonalLoan, &dto.CreateCatalogProductRequest{
				ProductID: 2001,
				Bank:      "ICICI Bank",
				Name:      "Personal Loan Express",
			})
			require.NoError(t, err)
			assert.Equal(t, models.CatalogTypePersonalLoan, other.CatalogType)
		})

		t.Run("ListBanksDistinctSortedActiveOnly", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 3001, "HDFC Bank")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 3002, "Axis Bank")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 3003, "HDFC Bank")
			require.NoError(t, err)

			// An inactive product's bank is not listed
			inactive, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 3004, "Yes Bank")
			require.NoError(t, err)
			inactive.IsActive = utils.ToPtr(false)
			require.NoError(t, catalogRepo.Update(context.Background(), inactive))

			banks, err := catalogFlow.ListBanks(context.Background(), models.CatalogTypeCarLoan)
			require.NoError(t, err)
			assert.Equal(t, []string{"Axis Bank", "HDFC Bank"}, banks)
		})

		t.Run("ListByBank", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 4001, "SBI")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 4002, "SBI")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 4003, "Kotak")
			require.NoError(t, err)

			products, err := catalogFlow.ListByBank(context.Background(), models.CatalogTypePersonalLoan, "SBI")
			require.NoError(t, err)
			assert.Len(t, products, 2)
			for _, product := range products {
				assert.Equal(t, "SBI", product.Bank)
			}
		})

		t.Run("ListAllReturnsActiveOnly", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 5001, "HDFC Bank")
			require.NoError(t, err)
			inactive, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 5002, "HDFC Bank")
			require.NoError(t, err)
			inactive.IsActive = utils.ToPtr(false)
			require.NoError(t, catalogRepo.Update(context.Background(), inactive))

			products, err := catalogFlow.ListAll(context.Background(), models.CatalogTypeCreditCard)
			require.NoError(t, err)
			assert.Len(t, products, 1)
			assert.Equal(t, 5001, products[0].ProductID)
		})

		t.Run("GetAcrossCatalogs", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 6001, "HDFC Bank")
			require.NoError(t, err)

			// The product id is invisible through another catalog
			missing, err := catalogFlow.Get(context.Background(), models.CatalogTypeCarLoan, product.ProductID)
			require.Error(t, err)
			assert.Nil(t, missing)
			assert.True(t, businessflow.IsNotFound(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		t.Run("Update", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 7001, "SBI")
			require.NoError(t, err)

			updated, err := catalogFlow.Update(context.Background(), models.CatalogTypePersonalLoan, product.ProductID, &dto.UpdateCatalogProductRequest{
				Name:     utils.ToPtr("Renamed Loan"),
				Features: []string{"Low rate"},
				IsActive: utils.ToPtr(false),
			})
			require.NoError(t, err)
			assert.Equal(t, "Renamed Loan", updated.Name)
			assert.Equal(t, []string{"Low rate"}, updated.Features)
			assert.False(t, utils.IsTrue(updated.IsActive))

			// Untouched fields survive a partial update
			assert.Equal(t, "SBI", updated.Bank)
			assert.Equal(t, 7001, updated.ProductID)
		})

		t.Run("Delete", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 8001, "Axis Bank")
			require.NoError(t, err)

			require.NoError(t, catalogFlow.Delete(context.Background(), models.CatalogTypeCarLoan, product.ProductID))

			missing, err := catalogRepo.ByID(context.Background(), product.ID)
			require.NoError(t, err)
			assert.Nil(t, missing)

			err = catalogFlow.Delete(context.Background(), models.CatalogTypeCarLoan, product.ProductID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotFound(err))
		})

		t.Run("UnknownCatalog", func(t *testing.T) {
			result, err := catalogFlow.ListAll(context.Background(), "homeloan")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidProductType(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "INVALID_PRODUCT_TYPE", be.Code)
		})

		return nil
	})
	require.NoError(t, err)
}
