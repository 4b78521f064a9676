package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newBill(total string) *Bill {
	return &Bill{
		Services:    []ServiceItem{{Name: "Consultation", Amount: dec(total)}},
		TotalAmount: dec(total),
		PaidAmount:  decimal.Zero,
		Status:      StatusPending,
	}
}

func TestApplyPaymentPartialThenPaid(t *testing.T) {
	b := newBill("150.00")
	now := time.Now()

	require.NoError(t, b.ApplyPayment(dec("100.00"), now))
	assert.Equal(t, StatusPartial, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec("100.00")))
	assert.True(t, b.RemainingAmount().Equal(dec("50.00")))
	assert.Nil(t, b.PaymentDate)

	require.NoError(t, b.ApplyPayment(dec("50.00"), now))
	assert.Equal(t, StatusPaid, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec("150.00")))
	assert.True(t, b.RemainingAmount().IsZero())
	require.NotNil(t, b.PaymentDate)
}

func TestApplyPaymentExactTotal(t *testing.T) {
	b := newBill("150.00")

	require.NoError(t, b.ApplyPayment(dec("150.00"), time.Now()))
	assert.Equal(t, StatusPaid, b.Status)
}

func TestApplyPaymentOverpaymentRejected(t *testing.T) {
	b := newBill("150.00")

	err := b.ApplyPayment(dec("150.01"), time.Now())
	assert.ErrorIs(t, err, ErrExceedsRemaining)
	assert.Equal(t, StatusPending, b.Status)
	assert.True(t, b.PaidAmount.IsZero())

	require.NoError(t, b.ApplyPayment(dec("100.00"), time.Now()))
	err = b.ApplyPayment(dec("50.01"), time.Now())
	assert.ErrorIs(t, err, ErrExceedsRemaining)
	assert.True(t, b.PaidAmount.Equal(dec("100.00")))
}

func TestApplyPaymentNonPositiveAmount(t *testing.T) {
	b := newBill("150.00")

	assert.ErrorIs(t, b.ApplyPayment(decimal.Zero, time.Now()), ErrInvalidPaymentAmount)
	assert.ErrorIs(t, b.ApplyPayment(dec("-10.00"), time.Now()), ErrInvalidPaymentAmount)
}

func TestApplyPaymentClosedBill(t *testing.T) {
	b := newBill("150.00")
	require.NoError(t, b.ApplyPayment(dec("150.00"), time.Now()))
	assert.ErrorIs(t, b.ApplyPayment(dec("1.00"), time.Now()), ErrBillNotPayable)

	cancelled := newBill("150.00")
	require.NoError(t, cancelled.Cancel())
	assert.ErrorIs(t, cancelled.ApplyPayment(dec("1.00"), time.Now()), ErrBillNotPayable)
}

func TestCancel(t *testing.T) {
	b := newBill("150.00")
	require.NoError(t, b.Cancel())
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestCancelAfterPaymentRejected(t *testing.T) {
	b := newBill("150.00")
	require.NoError(t, b.ApplyPayment(dec("10.00"), time.Now()))

	assert.ErrorIs(t, b.Cancel(), ErrBillHasPayments)
	assert.Equal(t, StatusPartial, b.Status)
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from BillStatus
		to   BillStatus
		ok   bool
	}{
		{StatusPending, StatusPartial, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPartial, StatusPaid, true},
		{StatusPartial, StatusCancelled, false},
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusPartial, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		b := &Bill{Status: tt.from}
		assert.Equal(t, tt.ok, b.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDecimalFractions(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3 in the ledger.
	b := newBill("0.30")
	require.NoError(t, b.ApplyPayment(dec("0.10"), time.Now()))
	require.NoError(t, b.ApplyPayment(dec("0.20"), time.Now()))

	assert.Equal(t, StatusPaid, b.Status)
	assert.True(t, b.PaidAmount.Equal(dec("0.30")))
}
