package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentConflict     = errors.New("doctor already has an appointment at this time")
	ErrScheduledInPast         = errors.New("appointment cannot be scheduled in the past")
	ErrInvalidAppointmentType  = errors.New("invalid appointment type")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
)
