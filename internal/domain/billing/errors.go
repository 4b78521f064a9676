package billing

import "errors"

var (
	ErrBillNotFound            = errors.New("bill not found")
	ErrNoServices              = errors.New("bill requires at least one service entry")
	ErrInvalidServiceAmount    = errors.New("service amount must be greater than zero")
	ErrInvalidTotalAmount      = errors.New("total amount must be greater than zero")
	ErrInvalidPaymentAmount    = errors.New("payment amount must be greater than zero")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrExceedsRemaining        = errors.New("payment amount exceeds remaining balance")
	ErrBillNotPayable          = errors.New("bill does not accept payments")
	ErrBillHasPayments         = errors.New("cannot cancel a bill with payments")
	ErrInvalidStatusTransition = errors.New("invalid bill status transition")
)
