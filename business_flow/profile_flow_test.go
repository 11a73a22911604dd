// Package businessflow_test contains integration tests for the profile flow
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

func TestProfileFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		profileFlow := businessflow.NewProfileFlow(userRepo, auditRepo, testDB.DB)

		t.Run("Me", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			me, err := profileFlow.Me(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.ID, me.ID)
			assert.Equal(t, user.Email, me.Email)
			assert.Equal(t, models.KYCStatusPending, me.KYCStatus)
		})

		t.Run("MeUnknownUser", func(t *testing.T) {
			me, err := profileFlow.Me(context.Background(), 999999)
			require.Error(t, err)
			assert.Nil(t, me)
			assert.True(t, businessflow.IsNotFound(err))
		})

		t.Run("PartialUpdate", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			updated, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				FullName: utils.ToPtr("Renamed User"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)
			assert.Equal(t, "Renamed User", updated.FullName)

			// Untouched fields survive
			assert.Equal(t, user.Email, updated.Email)
			assert.Equal(t, user.Phone, updated.Phone)
		})

		t.Run("ChangingKYCFieldResetsVerification", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			// Pre-verified aadhaar
			user.Aadhaar = utils.ToPtr("111122223333")
			user.AadhaarVerified = utils.ToPtr(true)
			require.NoError(t, userRepo.Update(context.Background(), user))

			updated, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				Aadhaar: utils.ToPtr("444455556666"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)
			require.NotNil(t, updated.Aadhaar)
			assert.Equal(t, "444455556666", *updated.Aadhaar)
			assert.False(t, utils.IsTrue(updated.AadhaarVerified))
			assert.Equal(t, models.KYCStatusPending, updated.KYCStatus)
		})

		t.Run("ResubmittingSameValueKeepsVerification", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			user.PAN = utils.ToPtr("ABCDE1111A")
			user.PANVerified = utils.ToPtr(true)
			require.NoError(t, userRepo.Update(context.Background(), user))

			updated, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				PAN: utils.ToPtr("ABCDE1111A"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(updated.PANVerified))
		})

		t.Run("AadhaarTakenByAnotherUser", func(t *testing.T) {
			first, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			second, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = profileFlow.UpdateProfile(context.Background(), first.ID, &dto.UpdateProfileRequest{
				Aadhaar: utils.ToPtr("777788889999"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)

			result, err := profileFlow.UpdateProfile(context.Background(), second.ID, &dto.UpdateProfileRequest{
				Aadhaar: utils.ToPtr("777788889999"),
			}, testMetadata("device-profile"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsAadhaarExists(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "AADHAAR_EXISTS", be.Code)
		})

		t.Run("PANTakenByAnotherUser", func(t *testing.T) {
			first, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			second, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = profileFlow.UpdateProfile(context.Background(), first.ID, &dto.UpdateProfileRequest{
				PAN: utils.ToPtr("ZZZZZ9999Z"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)

			result, err := profileFlow.UpdateProfile(context.Background(), second.ID, &dto.UpdateProfileRequest{
				PAN: utils.ToPtr("ZZZZZ9999Z"),
			}, testMetadata("device-profile"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, businessflow.IsPANExists(err))
		})

		t.Run("BankDetailsUpdate", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			updated, err := profileFlow.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
				BankAccountNumber: utils.ToPtr("00112233445566"),
				BankIFSC:          utils.ToPtr("HDFC0001234"),
				BankName:          utils.ToPtr("HDFC Bank"),
				AccountHolderName: utils.ToPtr("John Doe"),
			}, testMetadata("device-profile"))
			require.NoError(t, err)
			require.NotNil(t, updated.BankAccountNumber)
			assert.Equal(t, "00112233445566", *updated.BankAccountNumber)
			assert.False(t, utils.IsTrue(updated.BankVerified))

			// The update is audited
			logs, err := auditRepo.ListByUser(context.Background(), user.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, logs)
			assert.Equal(t, models.AuditActionProfileUpdated, logs[0].Action)
		})

		return nil
	})
	require.NoError(t, err)
}
