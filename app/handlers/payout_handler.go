// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PayoutHandlerInterface defines the contract for payout ledger handlers
type PayoutHandlerInterface interface {
	Create(c fiber.Ctx) error
	ListAll(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListByReferral(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// PayoutHandler handles payout ledger HTTP requests
type PayoutHandler struct {
	payoutFlow businessflow.PayoutFlow
	validator  *validator.Validate
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutFlow businessflow.PayoutFlow) PayoutHandlerInterface {
	return &PayoutHandler{
		payoutFlow: payoutFlow,
		validator:  validator.New(),
	}
}

// Create adds a ledger entry
func (h *PayoutHandler) Create(c fiber.Ctx) error {
	var req dto.CreatePayoutRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.payoutFlow.Create(createRequestContext(c, "/api/payouts/create"), &req)
	if err != nil {
		log.Println("Create payout failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create payout", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Payout created", result)
}

// ListAll returns ledger entries newest first
func (h *PayoutHandler) ListAll(c fiber.Ctx) error {
	limit, offset := parsePagination(c)
	result, err := h.payoutFlow.ListAll(createRequestContext(c, "/api/payouts/all"), limit, offset)
	if err != nil {
		log.Println("List payouts failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list payouts", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Payouts fetched", result)
}

// Get returns one ledger entry
func (h *PayoutHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
	}

	result, flowErr := h.payoutFlow.Get(createRequestContext(c, "/api/payouts/:id"), id)
	if flowErr != nil {
		if businessflow.IsNotFound(flowErr) {
			return errorResponse(c, fiber.StatusNotFound, "Payout not found", "NOT_FOUND", nil)
		}

		log.Println("Fetch payout failed", flowErr)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch payout", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Payout fetched", result)
}

// ListByReferral returns one referral partner's ledger entries
func (h *PayoutHandler) ListByReferral(c fiber.Ctx) error {
	referralID := c.Params("referralId")
	if referralID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Referral id is required", "INVALID_REQUEST", nil)
	}

	result, err := h.payoutFlow.ListByReferral(createRequestContext(c, "/api/payouts/referral/:referralId"), referralID)
	if err != nil {
		log.Println("List payouts by referral failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list payouts", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Payouts fetched", result)
}

// Update applies a partial update and returns the recomputed entry
func (h *PayoutHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdatePayoutRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, flowErr := h.payoutFlow.Update(createRequestContext(c, "/api/payouts/:id"), id, &req)
	if flowErr != nil {
		if businessflow.IsNotFound(flowErr) {
			return errorResponse(c, fiber.StatusNotFound, "Payout not found", "NOT_FOUND", nil)
		}

		log.Println("Update payout failed", flowErr)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update payout", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Payout updated", result)
}

// Delete removes one ledger entry
func (h *PayoutHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid id", "INVALID_REQUEST", nil)
	}

	if flowErr := h.payoutFlow.Delete(createRequestContext(c, "/api/payouts/:id"), id); flowErr != nil {
		if businessflow.IsNotFound(flowErr) {
			return errorResponse(c, fiber.StatusNotFound, "Payout not found", "NOT_FOUND", nil)
		}

		log.Println("Delete payout failed", flowErr)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete payout", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Payout deleted", nil)
}

// Export streams the whole ledger as an xlsx workbook
func (h *PayoutHandler) Export(c fiber.Ctx) error {
	filename, data, err := h.payoutFlow.ExportExcel(createRequestContext(c, "/api/payouts/export"))
	if err != nil {
		log.Println("Export payouts failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export payouts", "INTERNAL_ERROR", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
