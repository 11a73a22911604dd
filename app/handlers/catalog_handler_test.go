// Package handlers_test verifies HTTP status and error-code mapping
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/app/handlers"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalogFlow records the product id it was addressed with and returns
// canned results.
type stubCatalogFlow struct {
	gotProductID int
	result       *dto.CatalogProductDTO
	err          error
}

func (s *stubCatalogFlow) Create(ctx context.Context, catalogType string, req *dto.CreateCatalogProductRequest) (*dto.CatalogProductDTO, error) {
	return s.result, s.err
}

func (s *stubCatalogFlow) ListAll(ctx context.Context, catalogType string) ([]dto.CatalogProductDTO, error) {
	return nil, s.err
}

func (s *stubCatalogFlow) ListBanks(ctx context.Context, catalogType string) ([]string, error) {
	return nil, s.err
}

func (s *stubCatalogFlow) ListByBank(ctx context.Context, catalogType, bank string) ([]dto.CatalogProductDTO, error) {
	return nil, s.err
}

func (s *stubCatalogFlow) Get(ctx context.Context, catalogType string, productID int) (*dto.CatalogProductDTO, error) {
	s.gotProductID = productID
	return s.result, s.err
}

func (s *stubCatalogFlow) Update(ctx context.Context, catalogType string, productID int, req *dto.UpdateCatalogProductRequest) (*dto.CatalogProductDTO, error) {
	s.gotProductID = productID
	return s.result, s.err
}

func (s *stubCatalogFlow) Delete(ctx context.Context, catalogType string, productID int) error {
	s.gotProductID = productID
	return s.err
}

func TestCatalogHandler(t *testing.T) {
	t.Run("GetAddressesNumericProductID", func(t *testing.T) {
		flow := &stubCatalogFlow{result: &dto.CatalogProductDTO{ProductID: 101}}
		handler := handlers.NewCatalogHandler(flow)

		app := fiber.New()
		app.Get("/api/creditcards/:id", handler.Get("creditcard"))

		resp, err := app.Test(httptest.NewRequest("GET", "/api/creditcards/101", nil))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 101, flow.gotProductID)
	})

	t.Run("DuplicateProductIDIsBadRequest", func(t *testing.T) {
		flow := &stubCatalogFlow{
			err: businessflow.NewBusinessError("VALIDATION_ERROR", "Product id already exists in catalog", businessflow.ErrProductIDTaken),
		}
		handler := handlers.NewCatalogHandler(flow)

		app := fiber.New()
		app.Post("/api/creditcards/create", handler.Create("creditcard"))

		req := httptest.NewRequest("POST", "/api/creditcards/create", strings.NewReader(`{
			"productId": 101,
			"bank": "HDFC Bank",
			"name": "Regalia Credit Card"
		}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("NonNumericIDIsBadRequest", func(t *testing.T) {
		handler := handlers.NewCatalogHandler(&stubCatalogFlow{})

		app := fiber.New()
		app.Get("/api/creditcards/:id", handler.Get("creditcard"))

		resp, err := app.Test(httptest.NewRequest("GET", "/api/creditcards/regalia", nil))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
