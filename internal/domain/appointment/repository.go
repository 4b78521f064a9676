package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// UpdateStatus persists a status change together with its bookkeeping fields.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// HasConflict checks whether a doctor already holds the slot.
	HasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
}
