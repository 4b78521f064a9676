package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdmissionService(store *mockAdmissionStore, patientRepo *mockPatientRepo, wardRepo *mockWardRepo) *AdmissionService {
	return NewAdmissionService(store, patientRepo, wardRepo, newTestAuditService(), zap.NewNop())
}

func TestAdmit(t *testing.T) {
	patientID := uuid.New()
	wardID := uuid.New()
	bedID := uuid.New()

	var storedPatient *patient.Patient
	var storedBed *ward.Bed

	store := &mockAdmissionStore{
		admitPairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			storedPatient = p
			storedBed = b
			return nil
		},
	}
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: patientID, Status: patient.StatusOutpatient}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			assert.Equal(t, wardID, wID)
			assert.Equal(t, "GEN-02", number)
			return &ward.Bed{ID: bedID, WardID: wardID, Number: "GEN-02", Status: ward.BedAvailable}, nil
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	p, err := svc.Admit(context.Background(), patientID, wardID, "GEN-02", uuid.New(), "nurse", "")
	require.NoError(t, err)

	assert.Equal(t, patient.StatusAdmitted, p.Status)
	assert.Equal(t, "GEN-02", p.BedNumber)

	// Both sides go to the store together.
	require.NotNil(t, storedPatient)
	require.NotNil(t, storedBed)
	assert.Equal(t, ward.BedOccupied, storedBed.Status)
	require.NotNil(t, storedBed.PatientID)
	assert.Equal(t, patientID, *storedBed.PatientID)
}

func TestAdmitBedNotAvailable(t *testing.T) {
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusOutpatient}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			return &ward.Bed{Number: number, Status: ward.BedOccupied}, nil
		},
	}
	svc := newAdmissionService(&mockAdmissionStore{}, patientRepo, wardRepo)

	_, err := svc.Admit(context.Background(), uuid.New(), uuid.New(), "GEN-01", uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, ward.ErrBedNotAvailable)
}

func TestAdmitAlreadyAdmitted(t *testing.T) {
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusAdmitted}, nil
		},
	}
	svc := newAdmissionService(&mockAdmissionStore{}, patientRepo, &mockWardRepo{})

	_, err := svc.Admit(context.Background(), uuid.New(), uuid.New(), "GEN-01", uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, patient.ErrAlreadyAdmitted)
}

func TestAdmitLosesRaceForBed(t *testing.T) {
	// The bed read as available but another admission claimed it first; the
	// conditional claim in the store reports the conflict.
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusOutpatient}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			return &ward.Bed{Number: number, Status: ward.BedAvailable}, nil
		},
	}
	store := &mockAdmissionStore{
		admitPairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			return ward.ErrBedNotAvailable
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	_, err := svc.Admit(context.Background(), uuid.New(), uuid.New(), "GEN-01", uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, ward.ErrBedNotAvailable)
}

func TestAdmitLosesRaceForPatient(t *testing.T) {
	// The patient read as outpatient but a concurrent admission claimed them
	// into another bed first; the store's conditional patient update reports
	// the conflict and rolls back the bed claim.
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusOutpatient}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			return &ward.Bed{Number: number, Status: ward.BedAvailable}, nil
		},
	}
	store := &mockAdmissionStore{
		admitPairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			return patient.ErrAlreadyAdmitted
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	_, err := svc.Admit(context.Background(), uuid.New(), uuid.New(), "GEN-01", uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, patient.ErrAlreadyAdmitted)
}

func TestDischarge(t *testing.T) {
	patientID := uuid.New()
	wardID := uuid.New()
	admitted := time.Now().Add(-48 * time.Hour)

	var storedBed *ward.Bed
	store := &mockAdmissionStore{
		dischargePairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			storedBed = b
			return nil
		},
	}
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{
				ID:            patientID,
				Status:        patient.StatusAdmitted,
				WardID:        &wardID,
				BedNumber:     "GEN-02",
				AdmissionDate: &admitted,
			}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			return &ward.Bed{
				WardID:        wardID,
				Number:        "GEN-02",
				Status:        ward.BedOccupied,
				PatientID:     &patientID,
				AdmissionDate: &admitted,
			}, nil
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	p, err := svc.Discharge(context.Background(), patientID, uuid.New(), "nurse", "")
	require.NoError(t, err)

	assert.Equal(t, patient.StatusDischarged, p.Status)
	assert.Nil(t, p.WardID)

	// The vacated bed needs housekeeping before reuse.
	require.NotNil(t, storedBed)
	assert.Equal(t, ward.BedCleaning, storedBed.Status)
	assert.Nil(t, storedBed.PatientID)
}

func TestDischargeBedRowGone(t *testing.T) {
	// The patient record references a bed that no longer exists. The patient
	// side must still complete.
	patientID := uuid.New()
	wardID := uuid.New()

	var dischargeCalled bool
	store := &mockAdmissionStore{
		dischargePairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			dischargeCalled = true
			assert.Nil(t, b)
			return nil
		},
	}
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{
				ID:        patientID,
				Status:    patient.StatusAdmitted,
				WardID:    &wardID,
				BedNumber: "GEN-09",
			}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByWardAndNumberFn: func(ctx context.Context, wID uuid.UUID, number string) (*ward.Bed, error) {
			return nil, ward.ErrBedNotFound
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	p, err := svc.Discharge(context.Background(), patientID, uuid.New(), "nurse", "")
	require.NoError(t, err)
	assert.Equal(t, patient.StatusDischarged, p.Status)
	assert.True(t, dischargeCalled)
}

func TestDischargeNotAdmitted(t *testing.T) {
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusOutpatient}, nil
		},
	}
	svc := newAdmissionService(&mockAdmissionStore{}, patientRepo, &mockWardRepo{})

	_, err := svc.Discharge(context.Background(), uuid.New(), uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, patient.ErrNotAdmitted)
}

func TestAssignPatientToBed(t *testing.T) {
	bedID := uuid.New()
	wardID := uuid.New()
	patientID := uuid.New()

	store := &mockAdmissionStore{
		admitPairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			return nil
		},
	}
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: patientID, Status: patient.StatusOutpatient}, nil
		},
	}
	wardRepo := &mockWardRepo{
		getBedByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
			return &ward.Bed{ID: bedID, WardID: wardID, Number: "ICU-03", Status: ward.BedAvailable}, nil
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	b, err := svc.AssignPatientToBed(context.Background(), bedID, patientID, uuid.New(), "doctor", "")
	require.NoError(t, err)
	assert.Equal(t, ward.BedOccupied, b.Status)
	require.NotNil(t, b.PatientID)
	assert.Equal(t, patientID, *b.PatientID)
}

func TestDischargePatientFromBedOrphanedReference(t *testing.T) {
	// The bed points at a patient record that has been deleted; the bed is
	// still released.
	bedID := uuid.New()
	ghostID := uuid.New()

	store := &mockAdmissionStore{
		dischargePairFn: func(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
			assert.Nil(t, p)
			require.NotNil(t, b)
			assert.Equal(t, ward.BedCleaning, b.Status)
			return nil
		},
	}
	patientRepo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return nil, patient.ErrPatientNotFound
		},
	}
	wardRepo := &mockWardRepo{
		getBedByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
			return &ward.Bed{ID: bedID, Number: "GEN-05", Status: ward.BedOccupied, PatientID: &ghostID}, nil
		},
	}
	svc := newAdmissionService(store, patientRepo, wardRepo)

	b, err := svc.DischargePatientFromBed(context.Background(), bedID, uuid.New(), "nurse", "")
	require.NoError(t, err)
	assert.Equal(t, ward.BedCleaning, b.Status)
}

func TestDischargePatientFromBedNotOccupied(t *testing.T) {
	wardRepo := &mockWardRepo{
		getBedByIDFn: func(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
			return &ward.Bed{ID: id, Number: "GEN-05", Status: ward.BedAvailable}, nil
		},
	}
	svc := newAdmissionService(&mockAdmissionStore{}, &mockPatientRepo{}, wardRepo)

	_, err := svc.DischargePatientFromBed(context.Background(), uuid.New(), uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, ward.ErrBedNotOccupied)
}
