// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProductLinkHandlerInterface defines the contract for referral link handlers
type ProductLinkHandlerInterface interface {
	Create(c fiber.Ctx) error
	ListAll(c fiber.Ctx) error
	Resolve(c fiber.Ctx) error
	ListByReferral(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	ListBanks(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
}

// ProductLinkHandler handles referral link HTTP requests
type ProductLinkHandler struct {
	linkFlow  businessflow.ProductLinkFlow
	validator *validator.Validate
}

// NewProductLinkHandler creates a new referral link handler
func NewProductLinkHandler(linkFlow businessflow.ProductLinkFlow) ProductLinkHandlerInterface {
	return &ProductLinkHandler{
		linkFlow:  linkFlow,
		validator: validator.New(),
	}
}

// Create generates a new shareable referral link
func (h *ProductLinkHandler) Create(c fiber.Ctx) error {
	var req dto.CreateProductLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.linkFlow.Create(createRequestContext(c, "/api/product-links/create"), &req)
	if err != nil {
		if businessflow.IsInvalidProductType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown product type", "INVALID_PRODUCT_TYPE", nil)
		}

		log.Println("Create product link failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create product link", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Product link created", result)
}

// ListAll returns referral links newest first
func (h *ProductLinkHandler) ListAll(c fiber.Ctx) error {
	limit, offset := parsePagination(c)
	result, err := h.linkFlow.ListAll(createRequestContext(c, "/api/product-links/all"), limit, offset)
	if err != nil {
		log.Println("List product links failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list product links", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Product links fetched", result)
}

// Resolve looks a link up by its unique code, recording the click
func (h *ProductLinkHandler) Resolve(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Code is required", "INVALID_REQUEST", nil)
	}

	result, err := h.linkFlow.ResolveByCode(createRequestContext(c, "/api/product-links/:code"), code)
	if err != nil {
		if businessflow.IsNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Product link not found", "NOT_FOUND", nil)
		}

		log.Println("Resolve product link failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to resolve product link", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Product link fetched", result)
}

// ListByReferral returns one referral partner's links
func (h *ProductLinkHandler) ListByReferral(c fiber.Ctx) error {
	referralID := c.Params("referralId")
	if referralID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Referral id is required", "INVALID_REQUEST", nil)
	}

	result, err := h.linkFlow.ListByReferral(createRequestContext(c, "/api/product-links/referral/:referralId"), referralID)
	if err != nil {
		log.Println("List product links by referral failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list product links", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Product links fetched", result)
}

// Update applies a partial update to one link
func (h *ProductLinkHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateProductLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, flowErr := h.linkFlow.Update(createRequestContext(c, "/api/product-links/:id"), id, &req)
	if flowErr != nil {
		if businessflow.IsNotFound(flowErr) {
			return errorResponse(c, fiber.StatusNotFound, "Product link not found", "NOT_FOUND", nil)
		}

		log.Println("Update product link failed", flowErr)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update product link", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Product link updated", result)
}

// Delete removes one link
func (h *ProductLinkHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
	}

	if flowErr := h.linkFlow.Delete(createRequestContext(c, "/api/product-links/:id"), id); flowErr != nil {
		if businessflow.IsNotFound(flowErr) {
			return errorResponse(c, fiber.StatusNotFound, "Product link not found", "NOT_FOUND", nil)
		}

		log.Println("Delete product link failed", flowErr)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete product link", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Product link deleted", nil)
}

// ListBanks lists the banks of the catalog backing one product type
func (h *ProductLinkHandler) ListBanks(c fiber.Ctx) error {
	productType := c.Params("productType")

	result, err := h.linkFlow.ListBanksForType(createRequestContext(c, "/api/product-links/banks/:productType"), productType)
	if err != nil {
		if businessflow.IsInvalidProductType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown product type", "INVALID_PRODUCT_TYPE", nil)
		}

		log.Println("List banks for product type failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list banks", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Banks fetched", result)
}

// ListProducts lists one bank's products in the catalog backing one product type
func (h *ProductLinkHandler) ListProducts(c fiber.Ctx) error {
	productType := c.Params("productType")
	bank := c.Params("bank")
	if bank == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Bank is required", "INVALID_REQUEST", nil)
	}

	result, err := h.linkFlow.ListProductsForTypeAndBank(createRequestContext(c, "/api/product-links/products/:productType/:bank"), productType, bank)
	if err != nil {
		if businessflow.IsInvalidProductType(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown product type", "INVALID_PRODUCT_TYPE", nil)
		}

		log.Println("List products for product type failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list products", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Products fetched", result)
}
