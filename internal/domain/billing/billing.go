package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus follows the payment ledger state machine:
//
//	pending → partial → paid      (forward only, via payments)
//	pending → cancelled           (only while nothing has been paid)
//
// partial and paid are terminal with respect to cancellation.
type BillStatus string

const (
	StatusPending   BillStatus = "pending"
	StatusPartial   BillStatus = "partial"
	StatusPaid      BillStatus = "paid"
	StatusCancelled BillStatus = "cancelled"
)

func (s BillStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodCheck        PaymentMethod = "check"
	MethodInsurance    PaymentMethod = "insurance"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodCheck, MethodInsurance, MethodBankTransfer:
		return true
	}
	return false
}

// ServiceItem is one billed line (e.g. "Consultation", 100.00).
type ServiceItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type Bill struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Services []ServiceItem `gorm:"column:services;serializer:json"`

	// TotalAmount is immutable after creation. PaidAmount always equals the
	// sum of the bill's payments; both fields use exact decimal arithmetic.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	PaidAmount  decimal.Decimal `gorm:"column:paid_amount;type:numeric(10,2);not null;default:0"`

	Status      BillStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	PaymentDate *time.Time `gorm:"column:payment_date;type:date"`

	Payments []Payment `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Bill) TableName() string {
	return "billing.bills"
}

func (b *Bill) RemainingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// CanTransitionTo reports whether the ledger state machine allows the move.
func (b *Bill) CanTransitionTo(next BillStatus) bool {
	allowed := map[BillStatus][]BillStatus{
		StatusPending:   {StatusPartial, StatusPaid, StatusCancelled},
		StatusPartial:   {StatusPaid},
		StatusPaid:      {},
		StatusCancelled: {},
	}
	for _, s := range allowed[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// AcceptsPayments reports whether further payments may be applied.
func (b *Bill) AcceptsPayments() bool {
	return b.Status == StatusPending || b.Status == StatusPartial
}

// ApplyPayment validates the amount against the remaining balance, increments
// PaidAmount and recomputes the status. The caller persists the bill together
// with the appended Payment row in the same transaction.
func (b *Bill) ApplyPayment(amount decimal.Decimal, at time.Time) error {
	if !b.AcceptsPayments() {
		return ErrBillNotPayable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPaymentAmount
	}
	if amount.GreaterThan(b.RemainingAmount()) {
		return ErrExceedsRemaining
	}

	b.PaidAmount = b.PaidAmount.Add(amount)
	if b.PaidAmount.Equal(b.TotalAmount) {
		b.Status = StatusPaid
		b.PaymentDate = &at
	} else {
		b.Status = StatusPartial
	}
	return nil
}

// Cancel voids the bill. Only reachable before any payment has landed.
func (b *Bill) Cancel() error {
	if b.PaidAmount.GreaterThan(decimal.Zero) {
		return ErrBillHasPayments
	}
	if !b.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	b.Status = StatusCancelled
	return nil
}

// Payment is an append-only ledger entry owned by its bill. Payments are
// never mutated or deleted; corrections happen at the bill level.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	BillID uuid.UUID `gorm:"column:bill_id;type:uuid;not null;index"`

	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Method        PaymentMethod   `gorm:"column:method;type:varchar(20);not null"`
	TransactionID string          `gorm:"column:transaction_id;type:varchar(100)"`
	Notes         string          `gorm:"column:notes;type:text"`

	ProcessedBy uuid.UUID `gorm:"column:processed_by;type:uuid;not null"`
}

func (Payment) TableName() string {
	return "billing.payments"
}

type CreateBillCommand struct {
	PatientID   uuid.UUID
	Services    []ServiceItem
	TotalAmount decimal.Decimal
	CreatedBy   uuid.UUID
}

type AddPaymentCommand struct {
	Amount        decimal.Decimal
	Method        PaymentMethod
	TransactionID string
	Notes         string
	ProcessedBy   uuid.UUID
}

type ListBillsQuery struct {
	PatientID *uuid.UUID
	Status    *BillStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedBills struct {
	Bills      []*Bill
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

// RevenueStats is a read-only aggregate over bills and payments.
type RevenueStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	TotalBills    int64           `json:"total_bills"`
	PaidBills     int64           `json:"paid_bills"`
	PendingBills  int64           `json:"pending_bills"`
}
