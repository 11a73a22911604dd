// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceID   string            `json:"device_id"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent, deviceID string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceID:   deviceID,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserDTO converts a user model to UserDTO for API responses
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:                user.ID,
		UUID:              user.UUID.String(),
		Email:             user.Email,
		FullName:          user.FullName,
		Phone:             user.Phone,
		Aadhaar:           user.Aadhaar,
		PAN:               user.PAN,
		BankAccountNumber: user.BankAccountNumber,
		BankIFSC:          user.BankIFSC,
		BankName:          user.BankName,
		AccountHolderName: user.AccountHolderName,
		KYCStatus:         user.KYCStatus,
		AadhaarVerified:   user.AadhaarVerified,
		PANVerified:       user.PANVerified,
		BankVerified:      user.BankVerified,
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
	}
}

// ToSessionDTO converts a session model to SessionDTO for API responses
func ToSessionDTO(session models.UserSession) dto.SessionDTO {
	return dto.SessionDTO{
		DeviceID:  session.DeviceID,
		TokenType: "Bearer",
		ExpiresIn: int(time.Until(session.ExpiresAt).Seconds()),
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}
}

// ToApplicationDTO converts a lead application model to ApplicationDTO
func ToApplicationDTO(app models.LeadApplication) dto.ApplicationDTO {
	return dto.ApplicationDTO{
		ID:             app.ID,
		ProductType:    app.ProductType,
		UserID:         app.UserID,
		FullName:       app.FullName,
		MobileNumber:   app.MobileNumber,
		Email:          app.Email,
		ProductID:      app.ProductID,
		ProductName:    app.ProductName,
		Bank:           app.Bank,
		LoanAmount:     app.LoanAmount,
		CarType:        app.CarType,
		BusinessName:   app.BusinessName,
		BusinessType:   app.BusinessType,
		AnnualRevenue:  app.AnnualRevenue,
		BusinessAge:    app.BusinessAge,
		MonthlyIncome:  app.MonthlyIncome,
		EmploymentType: app.EmploymentType,
		LoanPurpose:    app.LoanPurpose,
		Agreed:         app.Agreed,
		Status:         app.Status,
		CreatedAt:      app.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      app.UpdatedAt.Format(time.RFC3339),
	}
}

// createAuditLog records an audit entry; failures are reported to the caller
// but flows treat them as non-fatal.
func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, userID *uint, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}
