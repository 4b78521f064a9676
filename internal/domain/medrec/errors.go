package medrec

import "errors"

var (
	ErrRecordNotFound       = errors.New("medical record not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrLabTestNotFound      = errors.New("lab test not found")
	ErrNotRefillable        = errors.New("prescription cannot be refilled")
	ErrLabTestClosed        = errors.New("lab test is already completed or cancelled")
	ErrNoMedications        = errors.New("prescription requires at least one medication")
)
