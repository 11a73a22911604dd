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

// ApplicationHandlerInterface produces route handlers for one product line.
// The product line comes from route registration, never from the payload.
type ApplicationHandlerInterface interface {
	Create(productType string) fiber.Handler
	ListAll(productType string) fiber.Handler
	ListMine(productType string) fiber.Handler
	Get(productType string) fiber.Handler
	Update(productType string) fiber.Handler
	Delete(productType string) fiber.Handler
}

// ApplicationHandler handles lead application HTTP requests
type ApplicationHandler struct {
	applicationFlow businessflow.ApplicationFlow
	validator       *validator.Validate
}

// NewApplicationHandler creates a new lead application handler
func NewApplicationHandler(applicationFlow businessflow.ApplicationFlow) ApplicationHandlerInterface {
	return &ApplicationHandler{
		applicationFlow: applicationFlow,
		validator:       validator.New(),
	}
}

// Create submits a lead application to one product line
func (h *ApplicationHandler) Create(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := authenticatedUserID(c)
		if !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		var req dto.CreateApplicationRequest
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}

		if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
		}

		endpoint := fmt.Sprintf("/api/%s-applications", productType)
		result, err := h.applicationFlow.Create(createRequestContext(c, endpoint), productType, userID, &req)
		if err != nil {
			if businessflow.IsAgreementRequired(err) {
				return errorResponse(c, fiber.StatusBadRequest, "Terms must be agreed to", "VALIDATION_ERROR", nil)
			}
			if businessflow.IsMissingRequiredField(err) || businessflow.IsInvalidCarType(err) {
				return errorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
			}
			if businessflow.IsInvalidProductType(err) {
				return errorResponse(c, fiber.StatusBadRequest, "Unknown product type", "INVALID_PRODUCT_TYPE", nil)
			}

			log.Println("Create application failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to create application", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusCreated, "Application submitted", result)
	}
}

// ListAll returns every application in one product line
func (h *ApplicationHandler) ListAll(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := authenticatedUserID(c); !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		limit, offset := parsePagination(c)
		endpoint := fmt.Sprintf("/api/%s-applications/all", productType)
		result, err := h.applicationFlow.ListAll(createRequestContext(c, endpoint), productType, limit, offset)
		if err != nil {
			log.Println("List applications failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to list applications", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Applications fetched", result)
	}
}

// ListMine returns the authenticated user's applications in one product line
func (h *ApplicationHandler) ListMine(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := authenticatedUserID(c)
		if !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		endpoint := fmt.Sprintf("/api/%s-applications/my", productType)
		result, err := h.applicationFlow.ListMine(createRequestContext(c, endpoint), productType, userID)
		if err != nil {
			log.Println("List my applications failed", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to list applications", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Applications fetched", result)
	}
}

// Get returns one application from one product line
func (h *ApplicationHandler) Get(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := authenticatedUserID(c); !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		id, err := parseIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		endpoint := fmt.Sprintf("/api/%s-applications/:id", productType)
		result, flowErr := h.applicationFlow.Get(createRequestContext(c, endpoint), productType, id)
		if flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Application not found", "NOT_FOUND", nil)
			}

			log.Println("Fetch application failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch application", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Application fetched", result)
	}
}

// Update applies an operator update to one application
func (h *ApplicationHandler) Update(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := authenticatedUserID(c); !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		id, err := parseIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		var req dto.UpdateApplicationRequest
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}

		if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
		}

		endpoint := fmt.Sprintf("/api/%s-applications/:id", productType)
		result, flowErr := h.applicationFlow.Update(createRequestContext(c, endpoint), productType, id, &req)
		if flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Application not found", "NOT_FOUND", nil)
			}
			if businessflow.IsInvalidStatus(flowErr) {
				return errorResponse(c, fiber.StatusBadRequest, "Invalid status", "VALIDATION_ERROR", nil)
			}

			log.Println("Update application failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to update application", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Application updated", result)
	}
}

// Delete removes one application from one product line
func (h *ApplicationHandler) Delete(productType string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := authenticatedUserID(c); !ok {
			return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
		}

		id, err := parseIDParam(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
		}

		endpoint := fmt.Sprintf("/api/%s-applications/:id", productType)
		if flowErr := h.applicationFlow.Delete(createRequestContext(c, endpoint), productType, id); flowErr != nil {
			if businessflow.IsNotFound(flowErr) {
				return errorResponse(c, fiber.StatusNotFound, "Application not found", "NOT_FOUND", nil)
			}

			log.Println("Delete application failed", flowErr)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete application", "INTERNAL_ERROR", nil)
		}

		return successResponse(c, fiber.StatusOK, "Application deleted", nil)
	}
}
