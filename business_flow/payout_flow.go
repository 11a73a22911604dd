// Package businessflow contains the core business logic and use cases for the payout ledger
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// PayoutFlow handles the manually operated referral payout ledger
type PayoutFlow interface {
	Create(ctx context.Context, req *dto.CreatePayoutRequest) (*dto.PayoutDTO, error)
	ListAll(ctx context.Context, limit, offset int) ([]dto.PayoutDTO, error)
	Get(ctx context.Context, id uint) (*dto.PayoutDTO, error)
	ListByReferral(ctx context.Context, referralID string) ([]dto.PayoutDTO, error)
	Update(ctx context.Context, id uint, req *dto.UpdatePayoutRequest) (*dto.PayoutDTO, error)
	Delete(ctx context.Context, id uint) error
	ExportExcel(ctx context.Context) (string, []byte, error)
}

// PayoutFlowImpl implements the payout business flow
type PayoutFlowImpl struct {
	payoutRepo repository.PayoutRepository
	db         *gorm.DB
}

// NewPayoutFlow creates a new payout flow instance
func NewPayoutFlow(payoutRepo repository.PayoutRepository, db *gorm.DB) PayoutFlow {
	return &PayoutFlowImpl{
		payoutRepo: payoutRepo,
		db:         db,
	}
}

// Create adds a ledger entry. FinalPayout is computed server side from the
// amounts, never taken from the request.
func (p *PayoutFlowImpl) Create(ctx context.Context, req *dto.CreatePayoutRequest) (*dto.PayoutDTO, error) {
	payoutDate, err := parsePayoutDate(req.PayoutDate)
	if err != nil {
		return nil, err
	}

	payout := &models.Payout{
		ReferralID:   req.ReferralID,
		ReferralName: req.ReferralName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		LeadID:       req.LeadID,
		CustomerName: req.CustomerName,
		Product:      req.Product,
		LeadStatus:   models.LeadStatusPending,
		PayoutStatus: models.PayoutStatusPending,
		PayoutDate:   payoutDate,
		Remark:       req.Remark,
	}
	if req.LeadStatus != nil {
		payout.LeadStatus = *req.LeadStatus
	}
	if req.PayoutStatus != nil {
		payout.PayoutStatus = *req.PayoutStatus
	}
	if req.Commission != nil {
		payout.Commission = *req.Commission
	}
	if req.Bonus != nil {
		payout.Bonus = *req.Bonus
	}
	if req.Deduction != nil {
		payout.Deduction = *req.Deduction
	}
	payout.ComputeFinalPayout()

	if err := p.payoutRepo.Save(ctx, payout); err != nil {
		return nil, NewBusinessError("PAYOUT_CREATE_FAILED", "Failed to create payout", err)
	}

	out := toPayoutDTO(*payout)
	return &out, nil
}

// ListAll returns ledger entries newest first
func (p *PayoutFlowImpl) ListAll(ctx context.Context, limit, offset int) ([]dto.PayoutDTO, error) {
	rows, err := p.payoutRepo.ListNewestFirst(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_LIST_FAILED", "Failed to list payouts", err)
	}
	return toPayoutDTOs(rows), nil
}

// Get returns one ledger entry by id
func (p *PayoutFlowImpl) Get(ctx context.Context, id uint) (*dto.PayoutDTO, error) {
	payout, err := p.findPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toPayoutDTO(*payout)
	return &out, nil
}

// ListByReferral returns one referral partner's ledger entries
func (p *PayoutFlowImpl) ListByReferral(ctx context.Context, referralID string) ([]dto.PayoutDTO, error) {
	rows, err := p.payoutRepo.ListByReferral(ctx, referralID)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_LIST_FAILED", "Failed to list payouts", err)
	}
	return toPayoutDTOs(rows), nil
}

// Update applies a partial update and recomputes FinalPayout from the merged
// amounts
func (p *PayoutFlowImpl) Update(ctx context.Context, id uint, req *dto.UpdatePayoutRequest) (*dto.PayoutDTO, error) {
	payout, err := p.findPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ReferralName != nil {
		payout.ReferralName = req.ReferralName
	}
	if req.Email != nil {
		payout.Email = req.Email
	}
	if req.MobileNumber != nil {
		payout.MobileNumber = req.MobileNumber
	}
	if req.CustomerName != nil {
		payout.CustomerName = req.CustomerName
	}
	if req.Product != nil {
		payout.Product = req.Product
	}
	if req.LeadStatus != nil {
		payout.LeadStatus = *req.LeadStatus
	}
	if req.Commission != nil {
		payout.Commission = *req.Commission
	}
	if req.Bonus != nil {
		payout.Bonus = *req.Bonus
	}
	if req.Deduction != nil {
		payout.Deduction = *req.Deduction
	}
	if req.Remark != nil {
		payout.Remark = req.Remark
	}
	if req.PayoutStatus != nil {
		payout.PayoutStatus = *req.PayoutStatus
	}
	if req.PayoutDate != nil {
		payoutDate, err := parsePayoutDate(req.PayoutDate)
		if err != nil {
			return nil, err
		}
		payout.PayoutDate = payoutDate
	}
	payout.ComputeFinalPayout()
	payout.UpdatedAt = utils.UTCNow()

	if err := p.payoutRepo.Update(ctx, payout); err != nil {
		return nil, NewBusinessError("PAYOUT_UPDATE_FAILED", "Failed to update payout", err)
	}

	out := toPayoutDTO(*payout)
	return &out, nil
}

// Delete removes a ledger entry; missing ids map to NotFound
func (p *PayoutFlowImpl) Delete(ctx context.Context, id uint) error {
	if _, err := p.findPayout(ctx, id); err != nil {
		return err
	}
	if err := p.payoutRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("PAYOUT_DELETE_FAILED", "Failed to delete payout", err)
	}
	return nil
}

// ExportExcel renders the whole ledger as a single-sheet workbook
func (p *PayoutFlowImpl) ExportExcel(ctx context.Context) (string, []byte, error) {
	rows, err := p.payoutRepo.ListNewestFirst(ctx, 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("PAYOUT_EXPORT_FAILED", "Failed to fetch payouts", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Payouts"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "referral_id", "referral_name", "email", "mobile_number", "lead_id", "customer_name", "product", "lead_status", "commission", "bonus", "deduction", "final_payout", "remark", "payout_status", "payout_date", "created_at", "updated_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range rows {
		payoutDate := ""
		if r.PayoutDate != nil {
			payoutDate = r.PayoutDate.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.ReferralID,
			derefString(r.ReferralName),
			derefString(r.Email),
			derefString(r.MobileNumber),
			derefString(r.LeadID),
			derefString(r.CustomerName),
			derefString(r.Product),
			r.LeadStatus,
			strconv.FormatFloat(r.Commission, 'f', 2, 64),
			strconv.FormatFloat(r.Bonus, 'f', 2, 64),
			strconv.FormatFloat(r.Deduction, 'f', 2, 64),
			strconv.FormatFloat(r.FinalPayout, 'f', 2, 64),
			derefString(r.Remark),
			r.PayoutStatus,
			payoutDate,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("payouts_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

func (p *PayoutFlowImpl) findPayout(ctx context.Context, id uint) (*models.Payout, error) {
	payout, err := p.payoutRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_FETCH_FAILED", "Failed to fetch payout", err)
	}
	if payout == nil {
		return nil, NewBusinessError("NOT_FOUND", "Payout not found", ErrPayoutNotFound)
	}
	return payout, nil
}

func parsePayoutDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", *raw)
		if err != nil {
			return nil, NewBusinessError("VALIDATION_ERROR", "payout_date must be RFC3339 or YYYY-MM-DD", err)
		}
	}
	return &parsed, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toPayoutDTO(payout models.Payout) dto.PayoutDTO {
	out := dto.PayoutDTO{
		ID:           payout.ID,
		ReferralID:   payout.ReferralID,
		ReferralName: payout.ReferralName,
		Email:        payout.Email,
		MobileNumber: payout.MobileNumber,
		LeadID:       payout.LeadID,
		CustomerName: payout.CustomerName,
		Product:      payout.Product,
		LeadStatus:   payout.LeadStatus,
		Commission:   payout.Commission,
		Bonus:        payout.Bonus,
		Deduction:    payout.Deduction,
		FinalPayout:  payout.FinalPayout,
		Remark:       payout.Remark,
		PayoutStatus: payout.PayoutStatus,
		CreatedAt:    payout.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    payout.UpdatedAt.Format(time.RFC3339),
	}
	if payout.PayoutDate != nil {
		out.PayoutDate = utils.ToPtr(payout.PayoutDate.Format(time.RFC3339))
	}
	return out
}

func toPayoutDTOs(rows []*models.Payout) []dto.PayoutDTO {
	out := make([]dto.PayoutDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPayoutDTO(*row))
	}
	return out
}
