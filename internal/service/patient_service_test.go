package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPatientService(repo *mockPatientRepo) *PatientService {
	return NewPatientService(repo, newTestAuditService(), zap.NewNop())
}

func TestRegisterPatient(t *testing.T) {
	var created *patient.Patient
	repo := &mockPatientRepo{
		createFn: func(ctx context.Context, p *patient.Patient) error {
			p.ID = uuid.New()
			created = p
			return nil
		},
	}
	svc := newPatientService(repo)

	p, err := svc.RegisterPatient(context.Background(), &patient.CreatePatientCommand{
		FirstName:   "  Ada ",
		LastName:    "Obi",
		DateOfBirth: time.Now().AddDate(-30, 0, 0),
		Gender:      patient.GenderFemale,
		Phone:       "+15550100",
		Email:       "Ada@Example.COM",
	}, uuid.New(), "receptionist", "")
	require.NoError(t, err)

	assert.Equal(t, patient.StatusOutpatient, p.Status)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "ada@example.com", p.ContactInfo.Email)
	require.NotNil(t, created)
}

func TestRegisterPatientValidation(t *testing.T) {
	svc := newPatientService(&mockPatientRepo{})

	_, err := svc.RegisterPatient(context.Background(), &patient.CreatePatientCommand{
		DateOfBirth: time.Now().AddDate(-30, 0, 0),
		Gender:      patient.GenderMale,
	}, uuid.New(), "receptionist", "")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	// first_name, last_name, phone
	assert.Len(t, validErr.Fields, 3)
}

func TestRegisterPatientFutureBirthDate(t *testing.T) {
	svc := newPatientService(&mockPatientRepo{})

	_, err := svc.RegisterPatient(context.Background(), &patient.CreatePatientCommand{
		FirstName:   "Ada",
		LastName:    "Obi",
		DateOfBirth: time.Now().Add(24 * time.Hour),
		Gender:      patient.GenderFemale,
		Phone:       "+15550100",
	}, uuid.New(), "receptionist", "")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestDeleteAdmittedPatientRejected(t *testing.T) {
	repo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusAdmitted}, nil
		},
	}
	svc := newPatientService(repo)

	err := svc.DeletePatient(context.Background(), uuid.New(), uuid.New(), "admin", "")
	assert.ErrorIs(t, err, patient.ErrAlreadyAdmitted)
}

func TestDeletePatient(t *testing.T) {
	var deleted uuid.UUID
	repo := &mockPatientRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
			return &patient.Patient{ID: id, Status: patient.StatusDischarged}, nil
		},
		softDeleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	svc := newPatientService(repo)

	id := uuid.New()
	require.NoError(t, svc.DeletePatient(context.Background(), id, uuid.New(), "admin", ""))
	assert.Equal(t, id, deleted)
}

func TestUpdatePatientInvalidGender(t *testing.T) {
	svc := newPatientService(&mockPatientRepo{})

	bad := patient.Gender("plasma")
	_, err := svc.UpdatePatient(context.Background(), uuid.New(), &patient.UpdatePatientCommand{
		Gender: &bad,
	}, uuid.New(), "nurse", "")
	assert.ErrorIs(t, err, patient.ErrInvalidGender)
}

func TestListPatientsDefaultsPaging(t *testing.T) {
	repo := &mockPatientRepo{
		listFn: func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
			assert.Equal(t, 1, q.Page)
			assert.Equal(t, 20, q.PageSize)
			return &patient.PagedPatients{}, nil
		},
	}
	svc := newPatientService(repo)

	_, err := svc.ListPatients(context.Background(), &patient.ListPatientsQuery{Page: 0, PageSize: 500})
	require.NoError(t, err)
}
