// Package businessflow contains the core business logic and use cases for lead applications
package businessflow

import (
	"context"
	"fmt"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"gorm.io/gorm"
)

// ApplicationFlow handles the five lead-application product lines through one
// parameterized store. The product line comes from the route and selects the
// required-field rules.
type ApplicationFlow interface {
	Create(ctx context.Context, productType string, userID uint, req *dto.CreateApplicationRequest) (*dto.ApplicationDTO, error)
	ListAll(ctx context.Context, productType string, limit, offset int) ([]dto.ApplicationDTO, error)
	ListMine(ctx context.Context, productType string, userID uint) ([]dto.ApplicationDTO, error)
	Get(ctx context.Context, productType string, id uint) (*dto.ApplicationDTO, error)
	Update(ctx context.Context, productType string, id uint, req *dto.UpdateApplicationRequest) (*dto.ApplicationDTO, error)
	Delete(ctx context.Context, productType string, id uint) error
}

// applicationRule names the optional fields a product line requires
type applicationRule struct {
	needsProductRef bool // productId, productName, bank
	needsLoanAmount bool
	needsCarType    bool
	needsBusiness   bool // businessName, businessType
}

// applicationRules is keyed by product type; contact fields and agreed are
// required for every line.
var applicationRules = map[string]applicationRule{
	models.ProductTypeCreditCard:   {needsProductRef: true},
	models.ProductTypePersonalLoan: {needsProductRef: true, needsLoanAmount: true},
	models.ProductTypeCarLoan:      {needsProductRef: true, needsLoanAmount: true, needsCarType: true},
	models.ProductTypeBusinessLoan: {needsLoanAmount: true, needsBusiness: true},
	models.ProductTypeOffline:      {needsLoanAmount: true},
}

// ApplicationFlowImpl implements the application business flow
type ApplicationFlowImpl struct {
	applicationRepo repository.LeadApplicationRepository
	db              *gorm.DB
}

// NewApplicationFlow creates a new application flow instance
func NewApplicationFlow(applicationRepo repository.LeadApplicationRepository, db *gorm.DB) ApplicationFlow {
	return &ApplicationFlowImpl{
		applicationRepo: applicationRepo,
		db:              db,
	}
}

// Create validates the submission against the product line's rule set and
// persists it. Nothing is stored when agreed is false.
func (a *ApplicationFlowImpl) Create(ctx context.Context, productType string, userID uint, req *dto.CreateApplicationRequest) (*dto.ApplicationDTO, error) {
	if !models.ValidApplicationProductType(productType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	if !req.Agreed {
		return nil, NewBusinessError("VALIDATION_ERROR", "Terms must be agreed to", ErrAgreementRequired)
	}

	if err := a.validateRules(productType, req); err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", err.Error(), err)
	}

	app := &models.LeadApplication{
		ProductType:    productType,
		UserID:         userID,
		FullName:       req.FullName,
		MobileNumber:   req.MobileNumber,
		Email:          utils.NormalizeEmail(req.Email),
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		Bank:           req.Bank,
		LoanAmount:     req.LoanAmount,
		CarType:        req.CarType,
		BusinessName:   req.BusinessName,
		BusinessType:   req.BusinessType,
		AnnualRevenue:  req.AnnualRevenue,
		BusinessAge:    req.BusinessAge,
		MonthlyIncome:  req.MonthlyIncome,
		EmploymentType: req.EmploymentType,
		LoanPurpose:    req.LoanPurpose,
		Agreed:         utils.ToPtr(true),
		Status:         models.ApplicationStatusPending,
	}

	if err := a.applicationRepo.Save(ctx, app); err != nil {
		return nil, NewBusinessError("APPLICATION_CREATE_FAILED", "Failed to create application", err)
	}

	out := ToApplicationDTO(*app)
	return &out, nil
}

// ListAll returns every application of one product line, newest first
func (a *ApplicationFlowImpl) ListAll(ctx context.Context, productType string, limit, offset int) ([]dto.ApplicationDTO, error) {
	if !models.ValidApplicationProductType(productType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	rows, err := a.applicationRepo.ListByType(ctx, productType, limit, offset)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to list applications", err)
	}

	out := make([]dto.ApplicationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToApplicationDTO(*row))
	}
	return out, nil
}

// ListMine returns the caller's applications of one product line
func (a *ApplicationFlowImpl) ListMine(ctx context.Context, productType string, userID uint) ([]dto.ApplicationDTO, error) {
	if !models.ValidApplicationProductType(productType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	rows, err := a.applicationRepo.ListByTypeAndUser(ctx, productType, userID)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to list applications", err)
	}

	out := make([]dto.ApplicationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToApplicationDTO(*row))
	}
	return out, nil
}

// Get returns one application by id within a product line
func (a *ApplicationFlowImpl) Get(ctx context.Context, productType string, id uint) (*dto.ApplicationDTO, error) {
	app, err := a.findInLine(ctx, productType, id)
	if err != nil {
		return nil, err
	}

	out := ToApplicationDTO(*app)
	return &out, nil
}

// Update applies an operator update. A status change refreshes updated_at.
func (a *ApplicationFlowImpl) Update(ctx context.Context, productType string, id uint, req *dto.UpdateApplicationRequest) (*dto.ApplicationDTO, error) {
	var app *models.LeadApplication

	err := repository.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		var err error
		app, err = a.findInLineErr(txCtx, productType, id)
		if err != nil {
			return err
		}

		if req.Status != nil {
			if !models.ValidApplicationStatus(*req.Status) {
				return ErrInvalidStatus
			}
			app.Status = *req.Status
		}
		if req.FullName != nil {
			app.FullName = *req.FullName
		}
		if req.MobileNumber != nil {
			app.MobileNumber = *req.MobileNumber
		}
		if req.Email != nil {
			app.Email = utils.NormalizeEmail(*req.Email)
		}
		if req.LoanAmount != nil {
			app.LoanAmount = req.LoanAmount
		}
		app.UpdatedAt = utils.UTCNow()

		return a.applicationRepo.Update(txCtx, app)
	})

	if err != nil {
		switch err {
		case ErrInvalidProductType:
			return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", err)
		case ErrApplicationNotFound:
			return nil, NewBusinessError("NOT_FOUND", "Application not found", err)
		case ErrInvalidStatus:
			return nil, NewBusinessError("VALIDATION_ERROR", "Invalid status", err)
		}
		return nil, NewBusinessError("APPLICATION_UPDATE_FAILED", "Failed to update application", err)
	}

	out := ToApplicationDTO(*app)
	return &out, nil
}

// Delete removes an application; missing ids map to NotFound
func (a *ApplicationFlowImpl) Delete(ctx context.Context, productType string, id uint) error {
	_, err := a.findInLine(ctx, productType, id)
	if err != nil {
		return err
	}

	if err := a.applicationRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("APPLICATION_DELETE_FAILED", "Failed to delete application", err)
	}
	return nil
}

// findInLine loads an application and checks it belongs to the product line,
// wrapping errors for handler consumption.
func (a *ApplicationFlowImpl) findInLine(ctx context.Context, productType string, id uint) (*models.LeadApplication, error) {
	app, err := a.findInLineErr(ctx, productType, id)
	if err != nil {
		switch err {
		case ErrInvalidProductType:
			return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", err)
		case ErrApplicationNotFound:
			return nil, NewBusinessError("NOT_FOUND", "Application not found", err)
		}
		return nil, NewBusinessError("APPLICATION_FETCH_FAILED", "Failed to fetch application", err)
	}
	return app, nil
}

func (a *ApplicationFlowImpl) findInLineErr(ctx context.Context, productType string, id uint) (*models.LeadApplication, error) {
	if !models.ValidApplicationProductType(productType) {
		return nil, ErrInvalidProductType
	}

	app, err := a.applicationRepo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil || app.ProductType != productType {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func (a *ApplicationFlowImpl) validateRules(productType string, req *dto.CreateApplicationRequest) error {
	rule := applicationRules[productType]

	if rule.needsProductRef {
		if req.ProductID == nil || req.ProductName == nil || *req.ProductName == "" || req.Bank == nil || *req.Bank == "" {
			return fmt.Errorf("%w: product reference", ErrMissingRequiredField)
		}
	}
	if rule.needsLoanAmount {
		if req.LoanAmount == nil || *req.LoanAmount <= 0 {
			return fmt.Errorf("%w: loan amount", ErrMissingRequiredField)
		}
	}
	if rule.needsCarType {
		if req.CarType == nil {
			return fmt.Errorf("%w: car type", ErrMissingRequiredField)
		}
		if !models.ValidCarType(*req.CarType) {
			return ErrInvalidCarType
		}
	}
	if rule.needsBusiness {
		if req.BusinessName == nil || *req.BusinessName == "" || req.BusinessType == nil || *req.BusinessType == "" {
			return fmt.Errorf("%w: business details", ErrMissingRequiredField)
		}
	}

	return nil
}
