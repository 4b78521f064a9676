package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func knownPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id}, nil
		},
	}
}

// inMemoryBill wires the mock repo so ApplyPayment behaves like the real
// one: run the callback against the stored bill, persist on success.
func inMemoryBill(b *billing.Bill) *mockBillingRepo {
	return &mockBillingRepo{
		getBillByIDFn: func(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
			if id != b.ID {
				return nil, billing.ErrBillNotFound
			}
			snapshot := *b
			return &snapshot, nil
		},
		applyPaymentFn: func(ctx context.Context, billID uuid.UUID, p *billing.Payment, apply func(*billing.Bill) error) (*billing.Bill, error) {
			if billID != b.ID {
				return nil, billing.ErrBillNotFound
			}
			work := *b
			if err := apply(&work); err != nil {
				return nil, err
			}
			*b = work
			return b, nil
		},
		cancelFn: func(ctx context.Context, billID uuid.UUID, cancel func(*billing.Bill) error) (*billing.Bill, error) {
			if billID != b.ID {
				return nil, billing.ErrBillNotFound
			}
			work := *b
			if err := cancel(&work); err != nil {
				return nil, err
			}
			*b = work
			return b, nil
		},
	}
}

func newBillingService(repo *mockBillingRepo) *BillingService {
	return NewBillingService(repo, knownPatientRepo(), newTestAuditService(), zap.NewNop())
}

func TestCreateBill(t *testing.T) {
	var created *billing.Bill
	repo := &mockBillingRepo{
		createBillFn: func(ctx context.Context, b *billing.Bill) error {
			b.ID = uuid.New()
			created = b
			return nil
		},
	}
	svc := newBillingService(repo)

	b, err := svc.CreateBill(context.Background(), &billing.CreateBillCommand{
		PatientID: uuid.New(),
		Services: []billing.ServiceItem{
			{Name: "Consultation", Amount: dec(t, "100.00")},
			{Name: "X-Ray", Amount: dec(t, "50.00")},
		},
		TotalAmount: dec(t, "150.00"),
		CreatedBy:   uuid.New(),
	}, uuid.New(), "receptionist", "")
	require.NoError(t, err)

	assert.Equal(t, billing.StatusPending, b.Status)
	assert.True(t, b.PaidAmount.IsZero())
	require.NotNil(t, created)
	assert.Len(t, created.Services, 2)
}

func TestCreateBillValidation(t *testing.T) {
	svc := newBillingService(&mockBillingRepo{})

	_, err := svc.CreateBill(context.Background(), &billing.CreateBillCommand{
		PatientID:   uuid.New(),
		Services:    []billing.ServiceItem{{Name: "", Amount: decimal.Zero}},
		TotalAmount: decimal.Zero,
	}, uuid.New(), "receptionist", "")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 3)
}

func TestCreateBillNoServices(t *testing.T) {
	svc := newBillingService(&mockBillingRepo{})

	_, err := svc.CreateBill(context.Background(), &billing.CreateBillCommand{
		PatientID:   uuid.New(),
		TotalAmount: dec(t, "10.00"),
	}, uuid.New(), "receptionist", "")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestAddPaymentLifecycle(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		PatientID:   uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  decimal.Zero,
		Status:      billing.StatusPending,
	}
	svc := newBillingService(inMemoryBill(bill))

	b, err := svc.AddPayment(context.Background(), bill.ID, &billing.AddPaymentCommand{
		Amount:      dec(t, "100.00"),
		Method:      billing.MethodCash,
		ProcessedBy: uuid.New(),
	}, uuid.New(), "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPartial, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec(t, "100.00")))

	b, err = svc.AddPayment(context.Background(), bill.ID, &billing.AddPaymentCommand{
		Amount:      dec(t, "50.00"),
		Method:      billing.MethodCard,
		ProcessedBy: uuid.New(),
	}, uuid.New(), "receptionist", "")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, b.Status)
	assert.True(t, b.PaidAmount.Equal(b.TotalAmount))
	assert.NotNil(t, b.PaymentDate)
}

func TestAddPaymentOverpayment(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  dec(t, "100.00"),
		Status:      billing.StatusPartial,
	}
	svc := newBillingService(inMemoryBill(bill))

	_, err := svc.AddPayment(context.Background(), bill.ID, &billing.AddPaymentCommand{
		Amount: dec(t, "50.01"),
		Method: billing.MethodCash,
	}, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, billing.ErrExceedsRemaining)

	// Nothing changed.
	assert.True(t, bill.PaidAmount.Equal(dec(t, "100.00")))
	assert.Equal(t, billing.StatusPartial, bill.Status)
}

func TestAddPaymentInvalidInput(t *testing.T) {
	svc := newBillingService(&mockBillingRepo{})

	_, err := svc.AddPayment(context.Background(), uuid.New(), &billing.AddPaymentCommand{
		Amount: decimal.Zero,
		Method: billing.MethodCash,
	}, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, billing.ErrInvalidPaymentAmount)

	_, err = svc.AddPayment(context.Background(), uuid.New(), &billing.AddPaymentCommand{
		Amount: dec(t, "10.00"),
		Method: "crypto",
	}, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, billing.ErrInvalidPaymentMethod)
}

func TestAddPaymentCancelledBill(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  decimal.Zero,
		Status:      billing.StatusCancelled,
	}
	svc := newBillingService(inMemoryBill(bill))

	_, err := svc.AddPayment(context.Background(), bill.ID, &billing.AddPaymentCommand{
		Amount: dec(t, "10.00"),
		Method: billing.MethodCash,
	}, uuid.New(), "receptionist", "")
	assert.ErrorIs(t, err, billing.ErrBillNotPayable)
}

func TestMarkPaidSynthesizesRemainingPayment(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  dec(t, "100.00"),
		Status:      billing.StatusPartial,
	}
	svc := newBillingService(inMemoryBill(bill))

	b, err := svc.MarkPaid(context.Background(), bill.ID, billing.MethodInsurance, uuid.New(), "admin", "")
	require.NoError(t, err)

	assert.Equal(t, billing.StatusPaid, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec(t, "150.00")))
}

func TestMarkPaidAlreadySettled(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  dec(t, "150.00"),
		Status:      billing.StatusPaid,
	}
	svc := newBillingService(inMemoryBill(bill))

	b, err := svc.MarkPaid(context.Background(), bill.ID, billing.MethodCash, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec(t, "150.00")))
}

func TestMarkPaidCancelledBill(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		Status:      billing.StatusCancelled,
	}
	svc := newBillingService(inMemoryBill(bill))

	_, err := svc.MarkPaid(context.Background(), bill.ID, billing.MethodCash, uuid.New(), "admin", "")
	assert.ErrorIs(t, err, billing.ErrBillNotPayable)
}

func TestCancelBill(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  decimal.Zero,
		Status:      billing.StatusPending,
	}
	svc := newBillingService(inMemoryBill(bill))

	b, err := svc.CancelBill(context.Background(), bill.ID, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusCancelled, b.Status)
	assert.Equal(t, billing.StatusCancelled, bill.Status)
}

func TestCancelBillSeesInterleavedPayment(t *testing.T) {
	// A payment commits after the caller last saw the bill as pending but
	// before the cancellation takes its lock. The cancel callback runs
	// against the locked row, so the payment is visible and the
	// cancellation is refused.
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  decimal.Zero,
		Status:      billing.StatusPending,
	}
	repo := inMemoryBill(bill)
	base := repo.cancelFn
	repo.cancelFn = func(ctx context.Context, billID uuid.UUID, cancel func(*billing.Bill) error) (*billing.Bill, error) {
		bill.PaidAmount = dec(t, "100.00")
		bill.Status = billing.StatusPartial
		return base(ctx, billID, cancel)
	}
	svc := newBillingService(repo)

	_, err := svc.CancelBill(context.Background(), bill.ID, uuid.New(), "admin", "")
	assert.ErrorIs(t, err, billing.ErrBillHasPayments)
	assert.Equal(t, billing.StatusPartial, bill.Status)
	assert.True(t, bill.PaidAmount.Equal(dec(t, "100.00")))
}

func TestCancelBillWithPayments(t *testing.T) {
	bill := &billing.Bill{
		ID:          uuid.New(),
		TotalAmount: dec(t, "150.00"),
		PaidAmount:  dec(t, "10.00"),
		Status:      billing.StatusPartial,
	}
	svc := newBillingService(inMemoryBill(bill))

	_, err := svc.CancelBill(context.Background(), bill.ID, uuid.New(), "admin", "")
	assert.ErrorIs(t, err, billing.ErrBillHasPayments)
	assert.Equal(t, billing.StatusPartial, bill.Status)
}
