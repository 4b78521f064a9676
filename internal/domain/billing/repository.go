package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateBill persists a new bill.
	CreateBill(ctx context.Context, b *Bill) error

	// GetBillByID retrieves a bill by primary key. Returns ErrBillNotFound if not found.
	GetBillByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// ListBills returns a paginated, filtered list of bills.
	ListBills(ctx context.Context, q *ListBillsQuery) (*PagedBills, error)

	// ApplyPayment appends a payment and updates the bill's paid_amount and
	// status under a row lock on the bill, so concurrent payments against the
	// same bill serialize. apply runs inside the transaction with the locked
	// bill and performs the balance check and mutation; if it errors nothing
	// is persisted.
	ApplyPayment(ctx context.Context, billID uuid.UUID, p *Payment, apply func(b *Bill) error) (*Bill, error)

	// Cancel voids a bill under a row lock. cancel runs inside the
	// transaction with the locked bill, so a payment committing concurrently
	// is visible to the paid_amount check; if it errors nothing is persisted.
	Cancel(ctx context.Context, billID uuid.UUID, cancel func(b *Bill) error) (*Bill, error)

	// ListPayments returns a bill's payments, newest first.
	ListPayments(ctx context.Context, billID uuid.UUID) ([]*Payment, error)

	// RevenueStats aggregates revenue figures across all bills.
	RevenueStats(ctx context.Context) (*RevenueStats, error)
}
