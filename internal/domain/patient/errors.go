package patient

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrAlreadyAdmitted    = errors.New("patient is already admitted")
	ErrNotAdmitted        = errors.New("patient is not admitted")
	ErrInvalidGender      = errors.New("invalid gender value")
	ErrInvalidStatus      = errors.New("invalid patient status")
	ErrInvalidDateOfBirth = errors.New("date of birth cannot be in the future")
)
