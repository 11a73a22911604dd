// Package businessflow_test contains integration tests for the payout ledger
package businessflow_test

import (
	"bytes"
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
	"github.com/xuri/excelize/v2"
)

func TestPayoutFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		payoutRepo := repository.NewPayoutRepository(testDB.DB)
		payoutFlow := businessflow.NewPayoutFlow(payoutRepo, testDB.DB)

		t.Run("CreateComputesFinalPayout", func(t *testing.T) {
			created, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID:   "REF-500",
				ReferralName: utils.ToPtr("Priya Nair"),
				Commission:   utils.ToPtr(100.0),
				Bonus:        utils.ToPtr(20.0),
				Deduction:    utils.ToPtr(5.0),
			})
			require.NoError(t, err)
			require.NotNil(t, created)

			assert.Equal(t, 115.0, created.FinalPayout)
			assert.Equal(t, models.LeadStatusPending, created.LeadStatus)
			assert.Equal(t, models.PayoutStatusPending, created.PayoutStatus)
		})

		t.Run("UpdateRecomputesFinalPayout", func(t *testing.T) {
			created, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID: "REF-501",
				Commission: utils.ToPtr(100.0),
				Bonus:      utils.ToPtr(20.0),
				Deduction:  utils.ToPtr(5.0),
			})
			require.NoError(t, err)

			updated, err := payoutFlow.Update(context.Background(), created.ID, &dto.UpdatePayoutRequest{
				Deduction: utils.ToPtr(10.0),
			})
			require.NoError(t, err)

			// Recomputed from the merged state, untouched amounts kept
			assert.Equal(t, 100.0, updated.Commission)
			assert.Equal(t, 20.0, updated.Bonus)
			assert.Equal(t, 10.0, updated.Deduction)
			assert.Equal(t, 110.0, updated.FinalPayout)

			stored, err := payoutRepo.ByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, 110.0, stored.FinalPayout)
		})

		t.Run("PayoutDateFormats", func(t *testing.T) {
			created, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID: "REF-502",
				PayoutDate: utils.ToPtr("2026-08-15"),
			})
			require.NoError(t, err)
			require.NotNil(t, created.PayoutDate)

			rfc, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID: "REF-502",
				PayoutDate: utils.ToPtr("2026-08-15T10:30:00Z"),
			})
			require.NoError(t, err)
			require.NotNil(t, rfc.PayoutDate)

			bad, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID: "REF-502",
				PayoutDate: utils.ToPtr("15/08/2026"),
			})
			require.Error(t, err)
			assert.Nil(t, bad)

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "VALIDATION_ERROR", be.Code)
		})

		t.Run("ListByReferral", func(t *testing.T) {
			_, err := fixtures.CreateTestPayout("REF-600", 100, 0, 0)
			require.NoError(t, err)
			_, err = fixtures.CreateTestPayout("REF-600", 200, 0, 0)
			require.NoError(t, err)
			_, err = fixtures.CreateTestPayout("REF-601", 300, 0, 0)
			require.NoError(t, err)

			rows, err := payoutFlow.ListByReferral(context.Background(), "REF-600")
			require.NoError(t, err)
			assert.Len(t, rows, 2)
			for _, row := range rows {
				assert.Equal(t, "REF-600", row.ReferralID)
			}
		})

		t.Run("ExportExcel", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestPayout("REF-700", 100, 20, 5)
			require.NoError(t, err)
			_, err = fixtures.CreateTestPayout("REF-701", 50, 0, 0)
			require.NoError(t, err)

			filename, data, err := payoutFlow.ExportExcel(context.Background())
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(filename, "payouts_"))
			assert.True(t, strings.HasSuffix(filename, ".xlsx"))
			require.NotEmpty(t, data)

			// The workbook reopens with a header row plus one row per entry
			xl, err := excelize.OpenReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer func() { _ = xl.Close() }()

			rows, err := xl.GetRows("Payouts")
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "id", rows[0][0])
			assert.Equal(t, "referral_id", rows[0][1])
			assert.Equal(t, "final_payout", rows[0][12])

			referrals := []string{rows[1][1], rows[2][1]}
			assert.ElementsMatch(t, []string{"REF-700", "REF-701"}, referrals)
		})

		t.Run("GetAndDelete", func(t *testing.T) {
			created, err := payoutFlow.Create(context.Background(), &dto.CreatePayoutRequest{
				ReferralID: "REF-800",
				Commission: utils.ToPtr(75.0),
			})
			require.NoError(t, err)

			found, err := payoutFlow.Get(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, found.ID)
			assert.Equal(t, 75.0, found.FinalPayout)

			require.NoError(t, payoutFlow.Delete(context.Background(), created.ID))

			missing, err := payoutFlow.Get(context.Background(), created.ID)
			require.Error(t, err)
			assert.Nil(t, missing)
			assert.True(t, businessflow.IsNotFound(err))

			var be *businessflow.BusinessError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "NOT_FOUND", be.Code)
		})

		return nil
	})
	require.NoError(t, err)
}
