package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWardService(repo *mockWardRepo) *WardService {
	return NewWardService(repo, newTestAuditService(), zap.NewNop())
}

func TestProvisionWardNumbersBeds(t *testing.T) {
	var gotBeds []*ward.Bed
	repo := &mockWardRepo{
		createWithBedsFn: func(ctx context.Context, w *ward.Ward, beds []*ward.Bed) error {
			w.ID = uuid.New()
			gotBeds = beds
			return nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ProvisionWard(context.Background(), &ward.CreateWardCommand{
		Name:       "ICU",
		Department: "Critical Care",
		Floor:      2,
		BedCount:   10,
	}, uuid.New(), "admin", "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, 10, w.TotalBeds)
	require.Len(t, gotBeds, 10)
	assert.Equal(t, "ICU-01", gotBeds[0].Number)
	assert.Equal(t, "ICU-02", gotBeds[1].Number)
	assert.Equal(t, "ICU-10", gotBeds[9].Number)
	for _, b := range gotBeds {
		assert.Equal(t, ward.BedAvailable, b.Status)
	}
}

func TestProvisionWardZeroBeds(t *testing.T) {
	repo := &mockWardRepo{
		createWithBedsFn: func(ctx context.Context, w *ward.Ward, beds []*ward.Bed) error {
			assert.Empty(t, beds)
			return nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ProvisionWard(context.Background(), &ward.CreateWardCommand{
		Name:       "Overflow",
		Department: "General",
	}, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 0, w.TotalBeds)
}

func TestProvisionWardValidation(t *testing.T) {
	svc := newWardService(&mockWardRepo{})

	_, err := svc.ProvisionWard(context.Background(), &ward.CreateWardCommand{
		Name:     "",
		BedCount: -1,
	}, uuid.New(), "admin", "")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	assert.Len(t, validErr.Fields, 3)
}

func TestResizeWardGrow(t *testing.T) {
	wardID := uuid.New()
	total := 3
	var added []*ward.Bed
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: total}, nil
		},
		maxBedSequenceFn: func(ctx context.Context, id uuid.UUID) (int, error) {
			return 3, nil
		},
		addBedsFn: func(ctx context.Context, id uuid.UUID, beds []*ward.Bed, newTotal int) error {
			added = beds
			total = newTotal
			return nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ResizeWard(context.Background(), wardID, 5, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 5, w.TotalBeds)

	// New beds continue the numbering sequence.
	require.Len(t, added, 2)
	assert.Equal(t, "GEN-04", added[0].Number)
	assert.Equal(t, "GEN-05", added[1].Number)
}

func TestResizeWardGrowAfterShrinkSkipsOccupiedNumbers(t *testing.T) {
	// An earlier shrink removed available beds below a still-occupied bed 10,
	// so the ward holds 8 beds but its highest number is 10. Growth must
	// continue past 10, not regenerate 09 and 10.
	wardID := uuid.New()
	total := 8
	var added []*ward.Bed
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: total}, nil
		},
		maxBedSequenceFn: func(ctx context.Context, id uuid.UUID) (int, error) {
			return 10, nil
		},
		addBedsFn: func(ctx context.Context, id uuid.UUID, beds []*ward.Bed, newTotal int) error {
			added = beds
			total = newTotal
			return nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ResizeWard(context.Background(), wardID, 11, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 11, w.TotalBeds)

	require.Len(t, added, 3)
	assert.Equal(t, "GEN-11", added[0].Number)
	assert.Equal(t, "GEN-12", added[1].Number)
	assert.Equal(t, "GEN-13", added[2].Number)
}

func TestResizeWardShrink(t *testing.T) {
	wardID := uuid.New()
	total := 5
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: total}, nil
		},
		removeAvailableBedsFn: func(ctx context.Context, id uuid.UUID, removeCount, newTotal int) error {
			assert.Equal(t, 2, removeCount)
			total = newTotal
			return nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ResizeWard(context.Background(), wardID, 3, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 3, w.TotalBeds)
}

func TestResizeWardShrinkInsufficientFreeBeds(t *testing.T) {
	wardID := uuid.New()
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: 5}, nil
		},
		removeAvailableBedsFn: func(ctx context.Context, id uuid.UUID, removeCount, newTotal int) error {
			return ward.ErrInsufficientFreeBeds
		},
	}
	svc := newWardService(repo)

	_, err := svc.ResizeWard(context.Background(), wardID, 1, uuid.New(), "admin", "")
	assert.ErrorIs(t, err, ward.ErrInsufficientFreeBeds)
}

func TestResizeWardNoChange(t *testing.T) {
	wardID := uuid.New()
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: 5}, nil
		},
	}
	svc := newWardService(repo)

	w, err := svc.ResizeWard(context.Background(), wardID, 5, uuid.New(), "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 5, w.TotalBeds)
}

func TestResizeWardNegative(t *testing.T) {
	svc := newWardService(&mockWardRepo{})
	_, err := svc.ResizeWard(context.Background(), uuid.New(), -1, uuid.New(), "admin", "")
	assert.ErrorIs(t, err, ward.ErrInvalidBedCount)
}

func TestOccupancy(t *testing.T) {
	wardID := uuid.New()
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "General", TotalBeds: 10}, nil
		},
		countBedsByStatusFn: func(ctx context.Context, id uuid.UUID) (ward.BedCounts, error) {
			return ward.BedCounts{Occupied: 5, Available: 3, Maintenance: 1, Cleaning: 1}, nil
		},
	}
	svc := newWardService(repo)

	occ, err := svc.Occupancy(context.Background(), wardID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), occ.Occupied)
	assert.Equal(t, 50.0, occ.Percentage)
}

func TestOccupancyEmptyWard(t *testing.T) {
	wardID := uuid.New()
	repo := &mockWardRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
			return &ward.Ward{ID: wardID, Name: "Overflow", TotalBeds: 0}, nil
		},
		countBedsByStatusFn: func(ctx context.Context, id uuid.UUID) (ward.BedCounts, error) {
			return ward.BedCounts{}, nil
		},
	}
	svc := newWardService(repo)

	occ, err := svc.Occupancy(context.Background(), wardID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, occ.Percentage)
}

func TestHospitalOccupancy(t *testing.T) {
	repo := &mockWardRepo{
		hospitalBedCountsFn: func(ctx context.Context) (ward.BedCounts, int64, error) {
			return ward.BedCounts{Occupied: 30, Available: 50, Maintenance: 10, Cleaning: 10}, 4, nil
		},
	}
	svc := newWardService(repo)

	occ, err := svc.HospitalOccupancy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), occ.TotalWards)
	assert.Equal(t, int64(100), occ.TotalBeds)
	assert.Equal(t, 30.0, occ.Percentage)
}

func TestSetBedState(t *testing.T) {
	bedID := uuid.New()
	var saved *ward.Bed
	repo := &mockWardRepo{
		getBedByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
			return &ward.Bed{ID: bedID, Number: "GEN-01", Status: ward.BedCleaning}, nil
		},
		updateBedFn: func(ctx context.Context, b *ward.Bed) error {
			saved = b
			return nil
		},
	}
	svc := newWardService(repo)

	b, err := svc.SetBedState(context.Background(), bedID, ward.BedAvailable, nil, nil, uuid.New(), "nurse", "")
	require.NoError(t, err)
	assert.Equal(t, ward.BedAvailable, b.Status)
	require.NotNil(t, saved)
	assert.Equal(t, ward.BedAvailable, saved.Status)
}
