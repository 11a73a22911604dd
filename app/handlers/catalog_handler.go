// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"log"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandlerInterface produces route handlers for one product catalog
type CatalogHandlerInterface interface {
	ListAll(catalogType string) fiber.Handler
	ListBanks(catalogType string) fiber.Handler
	ListByBank(catalogType string) fiber.Handler
	Get(catalogType string) fiber.Handler
	Create(catalogType string) fiber.Handler
	Update(catalogType string) fiber.Handler
	Delete(catalogType string) fiber.Handler
}

// CatalogHandler handles catalog HTTP requests
type CatalogHandler struct {
	catalogFlow businessflow.CatalogFlow
	validator   *validator.Validate
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogFlow businessflow.CatalogFlow) CatalogHandlerInterface {
	return &CatalogHandler{
		catalogFlow: catalogFlow,
		validator:   validator.New(),
	}
}

// ListAll returns the active products of one catalog
func (h *CatalogHandler) ListAll(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		endpoint := fmt.Sprintf("/api/%s/all", catalogType)
		result, err := h.catalogFlow.ListAll(createRequestContext(c, endpoint), catalogType)
		if err != nil {
			log.Println("List catalog failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to list products", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Products fetched", result)
	}
}

// ListBanks returns the distinct banks with active products in one catalog
func (h *CatalogHandler) ListBanks(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		endpoint := fmt.Sprintf("/api/%s/filter/banks", catalogType)
		result, err := h.catalogFlow.ListBanks(createRequestContext(c, endpoint), catalogType)
		if err != nil {
			log.Println("List banks failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to list banks", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Banks fetched", result)
	}
}

// ListByBank returns one bank's active products in one catalog
func (h *CatalogHandler) ListByBank(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		bank := c.Params("bank")
		if bank == "" {
			return errorResponse(c, fiber.StatusBadRequest, "Bank is required", "INVALID_REQUEST", nil)
		}

		endpoint := fmt.Sprintf("/api/%s/filter/bybank/:bank", catalogType)
		result, err := h.catalogFlow.ListByBank(createRequestContext(c, endpoint), catalogType, bank)
		if err != nil {
			log.Println("List catalog by bank failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to list products", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Products fetched", result)
	}
}

// Get returns one catalog product
func (h *CatalogHandler) Get(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		productID, err := parseProductIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		endpoint := fmt.Sprintf("/api/%s/:id", catalogType)
		result, flowErr := h.catalogFlow.Get(createRequestContext(c, endpoint), catalogType, productID)
		if flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Product not found", "NOT_FOUND", nil)
			}

			log.Println("Fetch catalog product failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch product", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Product fetched", result)
	}
}

// Create adds a product to one catalog
func (h *CatalogHandler) Create(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		var req dto.CreateCatalogProductRequest
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}

		if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
		}

		endpoint := fmt.Sprintf("/api/%s/create", catalogType)
		result, err := h.catalogFlow.Create(createRequestContext(c, endpoint), catalogType, &req)
		if err != nil {
			if businessflow.IsProductIDTaken(err) {
				return errorResponse(c, fiber.StatusBadRequest, "Product id already exists in catalog", "VALIDATION_ERROR", nil)
			}

			log.Println("Create catalog product failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to create product", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusCreated, "Product created", result)
	}
}

// Update applies a partial update to one catalog product
func (h *CatalogHandler) Update(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		productID, err := parseProductIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		var req dto.UpdateCatalogProductRequest
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}

		if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
		}

		endpoint := fmt.Sprintf("/api/%s/:id", catalogType)
		result, flowErr := h.catalogFlow.Update(createRequestContext(c, endpoint), catalogType, productID, &req)
		if flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Product not found", "NOT_FOUND", nil)
			}

			log.Println("Update catalog product failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to update product", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Product updated", result)
	}
}

// Delete removes one catalog product
func (h *CatalogHandler) Delete(catalogType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		productID, err := parseProductIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		endpoint := fmt.Sprintf("/api/%s/:id", catalogType)
		if flowErr := h.catalogFlow.Delete(createRequestContext(c, endpoint), catalogType, productID); flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Product not found", "NOT_FOUND", nil)
			}

			log.Println("Delete catalog product failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete product", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Product deleted", nil)
	}
}
