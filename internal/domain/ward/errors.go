package ward

import "errors"

var (
	ErrWardNotFound            = errors.New("ward not found")
	ErrBedNotFound             = errors.New("bed not found")
	ErrInvalidBedCount         = errors.New("bed count cannot be negative")
	ErrInvalidBedStatus        = errors.New("invalid bed status")
	ErrInvalidWardStatus       = errors.New("invalid ward status")
	ErrOccupiedRequiresPatient = errors.New("an occupied bed requires a patient")
	ErrBedNotAvailable         = errors.New("bed is not available")
	ErrBedNotOccupied          = errors.New("bed is not occupied")
	ErrInsufficientFreeBeds    = errors.New("not enough available beds to remove")
)
