// Package businessflow_test contains integration tests for referral product links
package businessflow_test

import (
	"context"
	"strings"
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

const testFrontendOrigin = "https://finonest.example"

func TestProductLinkFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		linkRepo := repository.NewProductLinkRepository(testDB.DB)
		catalogRepo := repository.NewCatalogProductRepository(testDB.DB)

		linkFlow := businessflow.NewProductLinkFlow(linkRepo, catalogRepo, testFrontendOrigin, testDB.DB)

		createRequest := func() *dto.CreateProductLinkRequest {
			return &dto.CreateProductLinkRequest{
				ReferralID:   utils.ToPtr("REF-100"),
				ReferralName: utils.ToPtr("Priya Nair"),
				ProductType:  models.CatalogTypeCreditCard,
				Bank:         "HDFC Bank",
				ProductName:  "Regalia Credit Card",
				ProductID:    1001,
			}
		}

		t.Run("CreateGeneratesCodeAndURL", func(t *testing.T) {
			created, err := linkFlow.Create(context.Background(), createRequest())
			require.NoError(t, err)
			require.NotNil(t, created)

			assert.True(t, strings.HasPrefix(created.UniqueCode, "PL_"))
			assert.Equal(t, testFrontendOrigin+"/product-link/"+created.UniqueCode, created.ShareableURL)
			assert.Equal(t, models.ProductLinkStatusActive, created.Status)
			assert.Equal(t, 0, created.Clicks)
			assert.Equal(t, 0, created.Conversions)
			assert.Nil(t, created.LastClickedAt)

			// Codes are unique across links
			second, err := linkFlow.Create(context.Background(), createRequest())
			require.NoError(t, err)
			assert.NotEqual(t, created.UniqueCode, second.UniqueCode)
		})

		t.Run("ResolveByCodeRecordsClicks", func(t *testing.T) {
			created, err := linkFlow.Create(context.Background(), createRequest())
			require.NoError(t, err)

			for i := 1; i <= 3; i++ {
				resolved, err := linkFlow.ResolveByCode(context.Background(), created.UniqueCode)
				require.NoError(t, err)
				assert.Equal(t, i, resolved.Clicks)
				assert.NotNil(t, resolved.LastClickedAt)
			}

			// The counter is persisted, not just reported
			stored, err := linkRepo.ByUniqueCode(context.Background(), created.UniqueCode)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, 3, stored.Clicks)
			assert.NotNil(t, stored.LastClickedAt)
		})

		t.Run("ResolveUnknownCode", func(t *testing.T) {
			resolved, err := linkFlow.ResolveByCode(context.Background(), "PL_DOESNOTEXIST")
			require.Error(t, err)
			assert.Nil(t, resolved)
			assert.True(t, businessflow.IsNotFound(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		t.Run("InvalidExpiryDate", func(t *testing.T) {
			req := createRequest()
			req.ExpiryDate = utils.ToPtr("31-12-2026")

			created, err := linkFlow.Create(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, created)

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
		})

		t.Run("InvalidProductType", func(t *testing.T) {
			req := createRequest()
			req.ProductType = "businessloan"

			created, err := linkFlow.Create(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, created)
			assert.True(t, businessflow.IsInvalidProductType(err))
		})

		t.Run("ListByReferral", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 9001, "Axis Bank")
			require.NoError(t, err)

			_, err = fixtures.CreateTestProductLink(product, "REF-200")
			require.NoError(t, err)
			_, err = fixtures.CreateTestProductLink(product, "REF-200")
			require.NoError(t, err)
			_, err = fixtures.CreateTestProductLink(product, "REF-300")
			require.NoError(t, err)

			links, err := linkFlow.ListByReferral(context.Background(), "REF-200")
			require.NoError(t, err)
			assert.Len(t, links, 2)
			for _, link := range links {
				require.NotNil(t, link.ReferralID)
				assert.Equal(t, "REF-200", *link.ReferralID)
			}
		})

		t.Run("UpdatePartial", func(t *testing.T) {
			created, err := linkFlow.Create(context.Background(), createRequest())
			require.NoError(t, err)

			updated, err := linkFlow.Update(context.Background(), created.ID, &dto.UpdateProductLinkRequest{
				Status:      utils.ToPtr(models.ProductLinkStatusInactive),
				Conversions: utils.ToPtr(5),
				ExpiryDate:  utils.ToPtr("2026-12-31T00:00:00Z"),
			})
			require.NoError(t, err)
			assert.Equal(t, models.ProductLinkStatusInactive, updated.Status)
			assert.Equal(t, 5, updated.Conversions)
			require.NotNil(t, updated.ExpiryDate)

			// The code and product snapshot are immutable
			assert.Equal(t, created.UniqueCode, updated.UniqueCode)
			assert.Equal(t, created.ProductID, updated.ProductID)
			assert.Equal(t, created.ShareableURL, updated.ShareableURL)

			// An empty expiry_date clears the expiry
			cleared, err := linkFlow.Update(context.Background(), created.ID, &dto.UpdateProductLinkRequest{
				ExpiryDate: utils.ToPtr(""),
			})
			require.NoError(t, err)
			assert.Nil(t, cleared.ExpiryDate)
		})

		t.Run("Delete", func(t *testing.T) {
			created, err := linkFlow.Create(context.Background(), createRequest())
			require.NoError(t, err)

			require.NoError(t, linkFlow.Delete(context.Background(), created.ID))

			err = linkFlow.Delete(context.Background(), created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotFound(err))
		})

		t.Run("ListBanksForType", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 1101, "HDFC Bank")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 1102, "Axis Bank")
			require.NoError(t, err)

			resp, err := linkFlow.ListBanksForType(context.Background(), models.CatalogTypeCreditCard)
			require.NoError(t, err)
			assert.Equal(t, models.CatalogTypeCreditCard, resp.ProductType)
			assert.Equal(t, []string{"Axis Bank", "HDFC Bank"}, resp.Banks)
		})

		t.Run("ListProductsForTypeAndBank", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 1201, "SBI")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 1202, "SBI")
			require.NoError(t, err)
			_, err = fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 1203, "Kotak")
			require.NoError(t, err)

			resp, err := linkFlow.ListProductsForTypeAndBank(context.Background(), models.CatalogTypePersonalLoan, "SBI")
			require.NoError(t, err)
			assert.Equal(t, "SBI", resp.Bank)
			assert.Len(t, resp.Products, 2)
		})

		return nil
	})
	require.NoError(t, err)
}
