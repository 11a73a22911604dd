// Package repository_test contains integration tests for the data access layer
package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	testingutil "github.com/acelion55/finonest/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSessionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		sessionRepo := repository.NewUserSessionRepository(testDB.DB)

		t.Run("ActiveSession", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateTestSession(user.ID, "device-repo-1")
			require.NoError(t, err)

			found, err := sessionRepo.ActiveSession(context.Background(), user.ID, "device-repo-1", session.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, session.ID, found.ID)

			// The token is bound to the device it was issued for
			mismatch, err := sessionRepo.ActiveSession(context.Background(), user.ID, "device-other", session.SessionToken)
			require.NoError(t, err)
			assert.Nil(t, mismatch)
		})

		t.Run("ActiveSessionIgnoresExpired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			session, err := fixtures.CreateTestSession(user.ID, "device-repo-2")
			require.NoError(t, err)

			session.ExpiresAt = time.Now().Add(-1 * time.Hour)
			require.NoError(t, sessionRepo.Update(context.Background(), session))

			found, err := sessionRepo.ActiveSession(context.Background(), user.ID, "device-repo-2", session.SessionToken)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("DeleteAllExpired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			live, err := fixtures.CreateTestSession(user.ID, "device-live")
			require.NoError(t, err)

			stale, err := fixtures.CreateTestSession(user.ID, "device-stale")
			require.NoError(t, err)
			stale.ExpiresAt = time.Now().Add(-1 * time.Hour)
			require.NoError(t, sessionRepo.Update(context.Background(), stale))

			removed, err := sessionRepo.DeleteAllExpired(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)

			remaining, err := sessionRepo.ByToken(context.Background(), live.SessionToken)
			require.NoError(t, err)
			assert.NotNil(t, remaining)

			gone, err := sessionRepo.ByToken(context.Background(), stale.SessionToken)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVerificationChallengeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		challengeRepo := repository.NewVerificationChallengeRepository(testDB.DB)

		t.Run("LatestPendingSkipsExpired", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			_, err = fixtures.CreateExpiredChallenge(user.ID, models.ChallengeTargetAadhaar)
			require.NoError(t, err)

			pending, err := challengeRepo.LatestPending(context.Background(), user.ID, models.ChallengeTargetAadhaar)
			require.NoError(t, err)
			assert.Nil(t, pending)

			fresh, err := fixtures.CreateTestChallenge(user.ID, models.ChallengeTargetAadhaar, "654321")
			require.NoError(t, err)

			pending, err = challengeRepo.LatestPending(context.Background(), user.ID, models.ChallengeTargetAadhaar)
			require.NoError(t, err)
			require.NotNil(t, pending)
			assert.Equal(t, fresh.ID, pending.ID)
		})

		t.Run("ExpireAllStale", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			stale, err := fixtures.CreateExpiredChallenge(user.ID, models.ChallengeTargetPAN)
			require.NoError(t, err)

			_, err = fixtures.CreateTestChallenge(user.ID, models.ChallengeTargetBank, "111222")
			require.NoError(t, err)

			expired, err := challengeRepo.ExpireAllStale(context.Background())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, expired, int64(1))

			refreshed, err := challengeRepo.ByID(context.Background(), stale.ID)
			require.NoError(t, err)
			require.NotNil(t, refreshed)
			assert.Equal(t, models.ChallengeStatusExpired, refreshed.Status)

			// The live challenge stays pending
			live, err := challengeRepo.LatestPending(context.Background(), user.ID, models.ChallengeTargetBank)
			require.NoError(t, err)
			assert.NotNil(t, live)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProductLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkRepo := repository.NewProductLinkRepository(testDB.DB)

		t.Run("RecordClickIncrementsAtomically", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCreditCard, 1301, "HDFC Bank")
			require.NoError(t, err)

			link, err := fixtures.CreateTestProductLink(product, "REF-REPO")
			require.NoError(t, err)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = linkRepo.RecordClick(context.Background(), link.ID, time.Now())
				}()
			}
			wg.Wait()

			refreshed, err := linkRepo.ByID(context.Background(), link.ID)
			require.NoError(t, err)
			require.NotNil(t, refreshed)
			assert.Equal(t, 10, refreshed.Clicks)
			assert.NotNil(t, refreshed.LastClickedAt)
		})

		t.Run("ByUniqueCode", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypeCarLoan, 1302, "Axis Bank")
			require.NoError(t, err)

			link, err := fixtures.CreateTestProductLink(product, "REF-REPO")
			require.NoError(t, err)

			found, err := linkRepo.ByUniqueCode(context.Background(), link.UniqueCode)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, link.ID, found.ID)

			missing, err := linkRepo.ByUniqueCode(context.Background(), "PL_MISSING")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCatalogProductRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		catalogRepo := repository.NewCatalogProductRepository(testDB.DB)

		t.Run("ByCatalogAndProductID", func(t *testing.T) {
			product, err := fixtures.CreateTestCatalogProduct(models.CatalogTypePersonalLoan, 1401, "SBI")
			require.NoError(t, err)

			found, err := catalogRepo.ByCatalogAndProductID(context.Background(), models.CatalogTypePersonalLoan, 1401)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, product.ID, found.ID)

			// The business product id is scoped to its catalog
			other, err := catalogRepo.ByCatalogAndProductID(context.Background(), models.CatalogTypeCreditCard, 1401)
			require.NoError(t, err)
			assert.Nil(t, other)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPayoutRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		payoutRepo := repository.NewPayoutRepository(testDB.DB)

		t.Run("ListNewestFirst", func(t *testing.T) {
			older, err := fixtures.CreateTestPayout("REF-OLD", 10, 0, 0)
			require.NoError(t, err)

			time.Sleep(10 * time.Millisecond)

			newer, err := fixtures.CreateTestPayout("REF-NEW", 20, 0, 0)
			require.NoError(t, err)

			rows, err := payoutRepo.ListNewestFirst(context.Background(), 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, newer.ID, rows[0].ID)
			assert.Equal(t, older.ID, rows[1].ID)
		})

		return nil
	})
	require.NoError(t, err)
}
