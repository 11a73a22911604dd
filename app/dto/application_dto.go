// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateApplicationRequest represents a lead application submission. The
// product line is taken from the route, not the payload; which optional
// fields are mandatory depends on it and is enforced in the flow.
type CreateApplicationRequest struct {
	FullName     string `json:"fullName" validate:"required,max=255"`
	MobileNumber string `json:"mobileNumber" validate:"required,min=10,max=15"`
	Email        string `json:"email" validate:"required,email,max=255"`

	ProductID   *int    `json:"productId,omitempty"`
	ProductName *string `json:"productName,omitempty" validate:"omitempty,max=255"`
	Bank        *string `json:"bank,omitempty" validate:"omitempty,max=100"`

	LoanAmount *float64 `json:"loanAmount,omitempty" validate:"omitempty,gt=0"`
	CarType    *string  `json:"carType,omitempty" validate:"omitempty,oneof=New Used"`

	BusinessName  *string  `json:"businessName,omitempty" validate:"omitempty,max=255"`
	BusinessType  *string  `json:"businessType,omitempty" validate:"omitempty,max=100"`
	AnnualRevenue *float64 `json:"annualRevenue,omitempty" validate:"omitempty,gt=0"`
	BusinessAge   *string  `json:"businessAge,omitempty" validate:"omitempty,max=50"`

	MonthlyIncome  *float64 `json:"monthlyIncome,omitempty" validate:"omitempty,gt=0"`
	EmploymentType *string  `json:"employmentType,omitempty" validate:"omitempty,max=50"`
	LoanPurpose    *string  `json:"loanPurpose,omitempty" validate:"omitempty,max=255"`

	Agreed bool `json:"agreed"`
}

// UpdateApplicationRequest represents an operator update to an application.
// Only provided fields are applied; a status change refreshes updated_at.
type UpdateApplicationRequest struct {
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	FullName     *string  `json:"fullName,omitempty" validate:"omitempty,max=255"`
	MobileNumber *string  `json:"mobileNumber,omitempty" validate:"omitempty,min=10,max=15"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email,max=255"`
	LoanAmount   *float64 `json:"loanAmount,omitempty" validate:"omitempty,gt=0"`
	Remark       *string  `json:"remark,omitempty" validate:"omitempty,max=500"`
}

// ApplicationDTO represents a lead application for API responses
type ApplicationDTO struct {
	ID          uint   `json:"id"`
	ProductType string `json:"productType"`
	UserID      uint   `json:"userId"`

	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`

	ProductID   *int    `json:"productId,omitempty"`
	ProductName *string `json:"productName,omitempty"`
	Bank        *string `json:"bank,omitempty"`

	LoanAmount *float64 `json:"loanAmount,omitempty"`
	CarType    *string  `json:"carType,omitempty"`

	BusinessName  *string  `json:"businessName,omitempty"`
	BusinessType  *string  `json:"businessType,omitempty"`
	AnnualRevenue *float64 `json:"annualRevenue,omitempty"`
	BusinessAge   *string  `json:"businessAge,omitempty"`

	MonthlyIncome  *float64 `json:"monthlyIncome,omitempty"`
	EmploymentType *string  `json:"employmentType,omitempty"`
	LoanPurpose    *string  `json:"loanPurpose,omitempty"`

	Agreed    *bool  `json:"agreed"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
