// Package testing provides test utilities and database setup for testing the lending marketplace
package testing

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"time"

	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// TestPassword is the plaintext password used for all fixture users
const TestPassword = "TestPass123!"

// CreateTestUser creates a test user with a hashed password
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)
	phone := fmt.Sprintf("+91%s9", randomDigits)

	user := &models.User{
		UUID:            uuid.New(),
		Email:           fmt.Sprintf("john.doe.%s@example.com", randomDigits),
		PasswordHash:    string(hashedPassword),
		FullName:        "John Doe",
		Phone:           &phone,
		KYCStatus:       models.KYCStatusPending,
		AadhaarVerified: utils.ToPtr(false),
		PANVerified:     utils.ToPtr(false),
		BankVerified:    utils.ToPtr(false),
		IsActive:        utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates a device-scoped session for a user
func (tf *TestFixtures) CreateTestSession(userID uint, deviceID string) (*models.UserSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		DeviceID:      deviceID,
		SessionToken:  sessionToken,
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestChallenge creates a pending verification challenge for one KYC target
func (tf *TestFixtures) CreateTestChallenge(userID uint, target, code string) (*models.VerificationChallenge, error) {
	challenge := &models.VerificationChallenge{
		CorrelationID: uuid.New(),
		UserID:        userID,
		Target:        target,
		Code:          code,
		Status:        models.ChallengeStatusPending,
		AttemptsCount: 0,
		MaxAttempts:   utils.KYCChallengeMaxAttempts,
		ExpiresAt:     time.Now().Add(utils.KYCChallengeExpiry),
	}

	if err := tf.DB.DB.Create(challenge).Error; err != nil {
		return nil, fmt.Errorf("failed to create test challenge: %w", err)
	}

	return challenge, nil
}

// CreateExpiredChallenge creates an already expired challenge for testing
func (tf *TestFixtures) CreateExpiredChallenge(userID uint, target string) (*models.VerificationChallenge, error) {
	challenge := &models.VerificationChallenge{
		CorrelationID: uuid.New(),
		UserID:        userID,
		Target:        target,
		Code:          "123456",
		Status:        models.ChallengeStatusPending,
		AttemptsCount: 0,
		MaxAttempts:   utils.KYCChallengeMaxAttempts,
		ExpiresAt:     time.Now().Add(-1 * time.Hour), // Expired 1 hour ago
	}

	if err := tf.DB.DB.Create(challenge).Error; err != nil {
		return nil, fmt.Errorf("failed to create expired challenge: %w", err)
	}

	return challenge, nil
}

// CreateTestCatalogProduct creates a catalog product in the given catalog
func (tf *TestFixtures) CreateTestCatalogProduct(catalogType string, productID int, bank string) (*models.CatalogProduct, error) {
	product := &models.CatalogProduct{
		CatalogType: catalogType,
		ProductID:   productID,
		Bank:        bank,
		Name:        fmt.Sprintf("Test Product %d", productID),
		Features:    []byte(`["Feature one","Feature two"]`),
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test catalog product: %w", err)
	}

	return product, nil
}

// CreateTestProductLink creates a referral product link snapshotting a catalog product
func (tf *TestFixtures) CreateTestProductLink(product *models.CatalogProduct, referralID string) (*models.ProductLink, error) {
	code := fmt.Sprintf("PL_TEST%06d", rand.Intn(1000000))

	link := &models.ProductLink{
		UniqueCode:   code,
		ReferralID:   &referralID,
		ProductType:  product.CatalogType,
		Bank:         product.Bank,
		ProductName:  product.Name,
		ProductID:    product.ProductID,
		ShareableURL: fmt.Sprintf("https://finonest.com/product-link/%s", code),
		Status:       models.ProductLinkStatusActive,
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product link: %w", err)
	}

	return link, nil
}

// CreateTestPayout creates a payout ledger entry
func (tf *TestFixtures) CreateTestPayout(referralID string, commission, bonus, deduction float64) (*models.Payout, error) {
	payout := &models.Payout{
		ReferralID:   referralID,
		Commission:   commission,
		Bonus:        bonus,
		Deduction:    deduction,
		LeadStatus:   models.LeadStatusPending,
		PayoutStatus: models.PayoutStatusPending,
	}
	payout.ComputeFinalPayout()

	if err := tf.DB.DB.Create(payout).Error; err != nil {
		return nil, fmt.Errorf("failed to create test payout: %w", err)
	}

	return payout, nil
}

// CreateTestApplication creates a lead application for a user
func (tf *TestFixtures) CreateTestApplication(userID uint, productType string) (*models.LeadApplication, error) {
	application := &models.LeadApplication{
		ProductType:  productType,
		UserID:       userID,
		FullName:     "John Doe",
		MobileNumber: "+919876543210",
		Email:        fmt.Sprintf("applicant.%d@example.com", rand.Intn(10000000)),
		Agreed:       utils.ToPtr(true),
		Status:       models.ApplicationStatusPending,
	}

	switch productType {
	case models.ProductTypeCreditCard:
		application.ProductID = utils.ToPtr(101)
		application.ProductName = utils.ToPtr("Test Credit Card")
		application.Bank = utils.ToPtr("Test Bank")
	case models.ProductTypeCarLoan:
		application.ProductID = utils.ToPtr(201)
		application.ProductName = utils.ToPtr("Test Car Loan")
		application.Bank = utils.ToPtr("Test Bank")
		application.LoanAmount = utils.ToPtr(500000.0)
		application.CarType = utils.ToPtr(models.CarTypeNew)
	case models.ProductTypePersonalLoan:
		application.ProductID = utils.ToPtr(301)
		application.ProductName = utils.ToPtr("Test Personal Loan")
		application.Bank = utils.ToPtr("Test Bank")
		application.LoanAmount = utils.ToPtr(200000.0)
		application.MonthlyIncome = utils.ToPtr(50000.0)
		application.EmploymentType = utils.ToPtr("salaried")
	case models.ProductTypeBusinessLoan:
		application.LoanAmount = utils.ToPtr(1000000.0)
		application.BusinessName = utils.ToPtr("Test Traders")
		application.BusinessType = utils.ToPtr("retail")
		application.AnnualRevenue = utils.ToPtr(5000000.0)
		application.BusinessAge = utils.ToPtr("3-5 years")
	case models.ProductTypeOffline:
		application.LoanPurpose = utils.ToPtr("home renovation")
	}

	if err := tf.DB.DB.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create test application: %w", err)
	}

	return application, nil
}
