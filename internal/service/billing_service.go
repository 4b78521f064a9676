package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BillingService struct {
	repo        billing.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewBillingService(repo billing.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *BillingService {
	return &BillingService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

// CreateBill opens a pending bill with at least one itemized service.
func (s *BillingService) CreateBill(ctx context.Context, cmd *billing.CreateBillCommand, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	if err := validateBillCommand(cmd); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	b := &billing.Bill{
		PatientID:   cmd.PatientID,
		Services:    cmd.Services,
		TotalAmount: cmd.TotalAmount,
		PaidAmount:  decimal.Zero,
		Status:      billing.StatusPending,
		CreatedBy:   cmd.CreatedBy,
	}

	if err := s.repo.CreateBill(ctx, b); err != nil {
		s.log.Error("failed to create bill", zap.Error(err))
		return nil, fmt.Errorf("creating bill: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "bill",
		ResourceID:   b.ID.String(),
		IPAddress:    ip,
	})

	return b, nil
}

// AddPayment applies a payment against the bill's remaining balance. The
// balance check and the increment run under a row lock on the bill, so
// concurrent payments serialize and can never overdraw the balance.
func (s *BillingService) AddPayment(ctx context.Context, billID uuid.UUID, cmd *billing.AddPaymentCommand, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, billing.ErrInvalidPaymentAmount
	}
	if !cmd.Method.IsValid() {
		return nil, billing.ErrInvalidPaymentMethod
	}

	pay := &billing.Payment{
		BillID:        billID,
		Amount:        cmd.Amount,
		Method:        cmd.Method,
		TransactionID: cmd.TransactionID,
		Notes:         cmd.Notes,
		ProcessedBy:   cmd.ProcessedBy,
	}

	now := time.Now()
	b, err := s.repo.ApplyPayment(ctx, billID, pay, func(b *billing.Bill) error {
		return b.ApplyPayment(cmd.Amount, now)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "bill",
		ResourceID:   billID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"payment":%q,"status":%q}`, cmd.Amount.StringFixed(2), b.Status),
	})

	s.log.Info("payment applied",
		zap.String("bill_id", billID.String()),
		zap.String("amount", cmd.Amount.StringFixed(2)),
		zap.String("status", string(b.Status)),
	)

	return b, nil
}

// MarkPaid settles the bill by synthesizing a single payment for the exact
// remaining balance. Already-settled bills pass through unchanged; cancelled
// bills are rejected.
func (s *BillingService) MarkPaid(ctx context.Context, billID uuid.UUID, method billing.PaymentMethod, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	if !method.IsValid() {
		return nil, billing.ErrInvalidPaymentMethod
	}

	b, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.Status == billing.StatusCancelled {
		return nil, billing.ErrBillNotPayable
	}

	remaining := b.RemainingAmount()
	if remaining.LessThanOrEqual(decimal.Zero) {
		return b, nil
	}

	pay := &billing.Payment{
		BillID:      billID,
		Amount:      remaining,
		Method:      method,
		Notes:       "Marked as paid",
		ProcessedBy: callerID,
	}

	now := time.Now()
	updated, err := s.repo.ApplyPayment(ctx, billID, pay, func(b *billing.Bill) error {
		// Re-read the remaining balance under the lock; another payment may
		// have landed since the pre-check.
		pay.Amount = b.RemainingAmount()
		if pay.Amount.LessThanOrEqual(decimal.Zero) {
			return billing.ErrBillNotPayable
		}
		return b.ApplyPayment(pay.Amount, now)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "bill", ResourceID: billID.String(), IPAddress: ip,
		Changes: `{"status":"paid"}`,
	})

	return updated, nil
}

// CancelBill voids a bill that has received no payments. The payment check
// and the status write run under a row lock on the bill, so a concurrently
// committing payment blocks the cancellation.
func (s *BillingService) CancelBill(ctx context.Context, billID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*billing.Bill, error) {
	b, err := s.repo.Cancel(ctx, billID, func(b *billing.Bill) error {
		return b.Cancel()
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "bill", ResourceID: billID.String(), IPAddress: ip,
		Changes: `{"status":"cancelled"}`,
	})

	return b, nil
}

func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return s.repo.GetBillByID(ctx, id)
}

func (s *BillingService) ListBills(ctx context.Context, q *billing.ListBillsQuery) (*billing.PagedBills, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.ListBills(ctx, q)
}

func (s *BillingService) ListPayments(ctx context.Context, billID uuid.UUID) ([]*billing.Payment, error) {
	if _, err := s.repo.GetBillByID(ctx, billID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, billID)
}

func (s *BillingService) RevenueStats(ctx context.Context) (*billing.RevenueStats, error) {
	return s.repo.RevenueStats(ctx)
}

func validateBillCommand(cmd *billing.CreateBillCommand) error {
	var errs []string

	if len(cmd.Services) == 0 {
		errs = append(errs, "services must contain at least one entry")
	}
	for i, svc := range cmd.Services {
		if strings.TrimSpace(svc.Name) == "" {
			errs = append(errs, fmt.Sprintf("services[%d].name is required", i))
		}
		if svc.Amount.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, fmt.Sprintf("services[%d].amount must be greater than zero", i))
		}
	}
	if cmd.TotalAmount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "total_amount must be greater than zero")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
