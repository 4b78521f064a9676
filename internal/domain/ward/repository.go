package ward

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateWithBeds persists a ward and its initial beds in one transaction.
	CreateWithBeds(ctx context.Context, w *Ward, beds []*Bed) error

	// GetByID retrieves a ward by primary key. Returns ErrWardNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Ward, error)

	// Update applies partial updates to a ward record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateWardCommand) (*Ward, error)

	// List returns a paginated, filtered list of wards.
	List(ctx context.Context, q *ListWardsQuery) (*PagedWards, error)

	// GetBedByID retrieves a single bed. Returns ErrBedNotFound if not found.
	GetBedByID(ctx context.Context, id uuid.UUID) (*Bed, error)

	// GetBedByWardAndNumber resolves a bed by its (ward, number) key.
	GetBedByWardAndNumber(ctx context.Context, wardID uuid.UUID, number string) (*Bed, error)

	// ListBeds returns beds matching the filter, ordered by ward then number.
	ListBeds(ctx context.Context, q *ListBedsQuery) ([]*Bed, error)

	// UpdateBed persists the status/patient/admission fields of a bed.
	UpdateBed(ctx context.Context, b *Bed) error

	// CountBedsByStatus returns the per-status bed breakdown for a ward.
	CountBedsByStatus(ctx context.Context, wardID uuid.UUID) (BedCounts, error)

	// HospitalBedCounts returns the bed breakdown across all wards together
	// with the number of wards.
	HospitalBedCounts(ctx context.Context) (BedCounts, int64, error)

	// MaxBedSequence returns the highest numeric suffix among the ward's bed
	// numbers, 0 for a ward with no beds. A shrink can leave an occupied bed
	// numbered above total_beds, so growth continues from here rather than
	// from the bed count.
	MaxBedSequence(ctx context.Context, wardID uuid.UUID) (int, error)

	// AddBeds appends beds to a ward and bumps total_beds, atomically.
	AddBeds(ctx context.Context, wardID uuid.UUID, beds []*Bed, newTotal int) error

	// RemoveAvailableBeds deletes removeCount available beds (highest numbers
	// first) and sets total_beds to newTotal. The count check and the deletes
	// run in one transaction; returns ErrInsufficientFreeBeds without touching
	// anything if fewer than removeCount beds are available.
	RemoveAvailableBeds(ctx context.Context, wardID uuid.UUID, removeCount, newTotal int) error

	// CountOccupiedBedForPatient reports how many occupied beds reference the
	// patient. Used to enforce the one-bed-per-patient invariant.
	CountOccupiedBedForPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
}
