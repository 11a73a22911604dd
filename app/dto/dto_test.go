// Package dto_test verifies the JSON wire contract the SPA client speaks
package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/acelion55/finonest/app/dto"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequestWireFormat(t *testing.T) {
	body := `{
		"email": "asha@example.com",
		"password": "Passw0rd!",
		"confirmPassword": "Passw0rd!",
		"fullName": "Asha Verma"
	}`

	var req dto.SignupRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "Asha Verma", req.FullName)
	assert.Equal(t, "Passw0rd!", req.ConfirmPassword)

	require.NoError(t, validator.New().Struct(&req))
}

func TestCreateApplicationRequestWireFormat(t *testing.T) {
	body := `{
		"fullName": "Ravi Kumar",
		"mobileNumber": "9876543210",
		"email": "ravi@example.com",
		"productId": 101,
		"productName": "Regalia Credit Card",
		"bank": "HDFC Bank",
		"loanAmount": 500000,
		"carType": "New",
		"agreed": true
	}`

	var req dto.CreateApplicationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "Ravi Kumar", req.FullName)
	assert.Equal(t, "9876543210", req.MobileNumber)
	require.NotNil(t, req.ProductID)
	assert.Equal(t, 101, *req.ProductID)
	require.NotNil(t, req.LoanAmount)
	assert.Equal(t, float64(500000), *req.LoanAmount)
	require.NotNil(t, req.CarType)
	assert.Equal(t, "New", *req.CarType)
	assert.True(t, req.Agreed)

	require.NoError(t, validator.New().Struct(&req))
}

func TestCreatePayoutRequestWireFormat(t *testing.T) {
	body := `{
		"referralId": "REF-9001",
		"referralName": "Meena Joshi",
		"payoutStatus": "pending",
		"payoutDate": "2026-08-15",
		"commission": 100,
		"bonus": 20,
		"deduction": 5
	}`

	var req dto.CreatePayoutRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "REF-9001", req.ReferralID)
	require.NotNil(t, req.PayoutStatus)
	assert.Equal(t, "pending", *req.PayoutStatus)
	require.NotNil(t, req.PayoutDate)
	assert.Equal(t, "2026-08-15", *req.PayoutDate)

	require.NoError(t, validator.New().Struct(&req))
}

func TestProductLinkDTOWireFormat(t *testing.T) {
	out := dto.ProductLinkDTO{
		UniqueCode:   "PL_ABC123",
		ProductType:  "creditcard",
		Bank:         "HDFC Bank",
		ProductName:  "Regalia Credit Card",
		ProductID:    101,
		ShareableURL: "https://finonest.example/product-link/PL_ABC123",
		Status:       "active",
	}

	bs, err := json.Marshal(out)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(bs, &m))
	assert.Contains(t, m, "uniqueCode")
	assert.Contains(t, m, "shareableUrl")
	assert.Contains(t, m, "productId")
	assert.NotContains(t, m, "unique_code")
	assert.NotContains(t, m, "shareable_url")
}

func TestUserDTOWireFormat(t *testing.T) {
	verified := true
	bs, err := json.Marshal(dto.UserDTO{
		Email:           "asha@example.com",
		FullName:        "Asha Verma",
		KYCStatus:       "pending",
		AadhaarVerified: &verified,
	})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(bs, &m))
	assert.Contains(t, m, "fullName")
	assert.Contains(t, m, "kycStatus")
	assert.Contains(t, m, "aadhaarVerified")
	assert.NotContains(t, m, "full_name")
}
