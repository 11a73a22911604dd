// Package businessflow_test contains integration tests for lead applications
package businessflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	testingutil "github.com/acelion55/finonest/testing"
	"github.com/acelion55/finonest/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validApplicationRequest builds a request satisfying every product line's rules
func validApplicationRequest() *dto.CreateApplicationRequest {
	return &dto.CreateApplicationRequest{
		FullName:     "Rohit Sharma",
		MobileNumber: "+919812345678",
		Email:        "rohit.sharma@example.com",
		ProductID:    utils.ToPtr(101),
		ProductName:  utils.ToPtr("Platinum Card"),
		Bank:         utils.ToPtr("HDFC Bank"),
		LoanAmount:   utils.ToPtr(500000.0),
		CarType:      utils.ToPtr(models.CarTypeNew),
		BusinessName: utils.ToPtr("Sharma Traders"),
		BusinessType: utils.ToPtr("Retail"),
		Agreed:       true,
	}
}

func TestApplicationFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		applicationRepo := repository.NewLeadApplicationRepository(testDB.DB)
		applicationFlow := businessflow.NewApplicationFlow(applicationRepo, testDB.DB)

		t.Run("CreateForEveryProductLine", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			productTypes := []string{
				models.ProductTypeCreditCard,
				models.ProductTypePersonalLoan,
				models.ProductTypeCarLoan,
				models.ProductTypeBusinessLoan,
				models.ProductTypeOffline,
			}

			for _, productType := range productTypes {
				result, err := applicationFlow.Create(context.Background(), productType, user.ID, validApplicationRequest())
				require.NoError(t, err, "product line %s", productType)
				require.NotNil(t, result)
				assert.Equal(t, productType, result.ProductType)
				assert.Equal(t, user.ID, result.UserID)
				assert.Equal(t, models.ApplicationStatusPending, result.Status)
				assert.True(t, utils.IsTrue(result.Agreed))
			}
		})

		t.Run("RequiredFieldsPerProductLine", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			tests := []struct {
				name        string
				productType string
				mutate      func(*dto.CreateApplicationRequest)
			}{
				{
					name:        "credit card without product reference",
					productType: models.ProductTypeCreditCard,
					mutate:      func(r *dto.CreateApplicationRequest) { r.ProductID = nil },
				},
				{
					name:        "personal loan without loan amount",
					productType: models.ProductTypePersonalLoan,
					mutate:      func(r *dto.CreateApplicationRequest) { r.LoanAmount = nil },
				},
				{
					name:        "car loan without car type",
					productType: models.ProductTypeCarLoan,
					mutate:      func(r *dto.CreateApplicationRequest) { r.CarType = nil },
				},
				{
					name:        "business loan without business details",
					productType: models.ProductTypeBusinessLoan,
					mutate:      func(r *dto.CreateApplicationRequest) { r.BusinessName = nil },
				},
				{
					name:        "offline without loan amount",
					productType: models.ProductTypeOffline,
					mutate:      func(r *dto.CreateApplicationRequest) { r.LoanAmount = nil },
				},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					req := validApplicationRequest()
					tt.mutate(req)

					result, err := applicationFlow.Create(context.Background(), tt.productType, user.ID, req)
					require.Error(t, err)
					assert.Nil(t, result)
					assert.True(t, businessflow.IsMissingRequiredField(err))

					var be *businessflow.BusinessError
					require.ErrorAs(t, err, &be)
					assert.Equal(t, "VALIDATION_ERROR", be.Code)
				})
			}
		})

		t.Run("InvalidCarType", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			req := validApplicationRequest()
			req.CarType = utils.ToPtr("Leased")

			result, err := applicationFlow.Create(context.Background(), models.ProductTypeCarLoan, user.ID, req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidCarType(err))
		})

		t.Run("AgreementRequired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			req := validApplicationRequest()
			req.Agreed = false

			result, err := applicationFlow.Create(context.Background(), models.ProductTypeCreditCard, user.ID, req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAgreementRequired(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
			assert.Equal(t, "Terms must be agreed to", be.Message)

			// Nothing was persisted
			count, err := applicationRepo.Count(context.Background(), models.LeadApplicationFilter{UserID: &user.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})

		t.Run("UnknownProductLine", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			result, err := applicationFlow.Create(context.Background(), "goldloan", user.ID, validApplicationRequest())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidProductType(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "INVALID_PRODUCT_TYPE", be.Code)
		})

		t.Run("GetChecksProductLine", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			app, err := fixtures.CreateTestApplication(user.ID, models.ProductTypeCreditCard)
			require.NoError(t, err)

			found, err := applicationFlow.Get(context.Background(), models.ProductTypeCreditCard, app.ID)
			require.NoError(t, err)
			assert.Equal(t, app.ID, found.ID)

			// The same id is invisible through another product line
			missing, err := applicationFlow.Get(context.Background(), models.ProductTypeCarLoan, app.ID)
			require.Error(t, err)
			assert.Nil(t, missing)
			assert.True(t, businessflow.IsNotFound(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		t.Run("ListMineFiltersByUser", func(t *testing.T) {
			alice, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			bob, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = fixtures.CreateTestApplication(alice.ID, models.ProductTypePersonalLoan)
			require.NoError(t, err)
			_, err = fixtures.CreateTestApplication(alice.ID, models.ProductTypePersonalLoan)
			require.NoError(t, err)
			_, err = fixtures.CreateTestApplication(bob.ID, models.ProductTypePersonalLoan)
			require.NoError(t, err)

			mine, err := applicationFlow.ListMine(context.Background(), models.ProductTypePersonalLoan, alice.ID)
			require.NoError(t, err)
			assert.Len(t, mine, 2)
			for _, app := range mine {
				assert.Equal(t, alice.ID, app.UserID)
			}
		})

		t.Run("StatusUpdateRefreshesUpdatedAt", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			app, err := fixtures.CreateTestApplication(user.ID, models.ProductTypeBusinessLoan)
			require.NoError(t, err)

			time.Sleep(10 * time.Millisecond)

			updated, err := applicationFlow.Update(context.Background(), models.ProductTypeBusinessLoan, app.ID, &dto.UpdateApplicationRequest{
				Status: utils.ToPtr(models.ApplicationStatusApproved),
			})
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStatusApproved, updated.Status)

			refreshed, err := applicationRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.True(t, refreshed.UpdatedAt.After(app.CreatedAt))
		})

		t.Run("UpdateRejectsUnknownStatus", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			app, err := fixtures.CreateTestApplication(user.ID, models.ProductTypeOffline)
			require.NoError(t, err)

			result, err := applicationFlow.Update(context.Background(), models.ProductTypeOffline, app.ID, &dto.UpdateApplicationRequest{
				Status: utils.ToPtr("archived"),
			})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsInvalidStatus(err))
		})

		t.Run("Delete", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			app, err := fixtures.CreateTestApplication(user.ID, models.ProductTypeCarLoan)
			require.NoError(t, err)

			require.NoError(t, applicationFlow.Delete(context.Background(), models.ProductTypeCarLoan, app.ID))

			missing, err := applicationRepo.ByID(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Nil(t, missing)

			err = applicationFlow.Delete(context.Background(), models.ProductTypeCarLoan, app.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
