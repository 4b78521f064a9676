package medrec

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateRecord persists a new encounter record. Records are append-only.
	CreateRecord(ctx context.Context, r *MedicalRecord) error

	// GetRecordByID returns ErrRecordNotFound if not found.
	GetRecordByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)

	// ListRecords returns a paginated, filtered list of records, newest first.
	ListRecords(ctx context.Context, q *ListRecordsQuery) (*PagedRecords, error)

	CreatePrescription(ctx context.Context, p *Prescription) error
	GetPrescriptionByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	UpdatePrescription(ctx context.Context, p *Prescription) error
	ListPrescriptionsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)

	CreateLabTest(ctx context.Context, t *LabTest) error
	GetLabTestByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	UpdateLabTest(ctx context.Context, t *LabTest) error
	ListLabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabTest, error)
}
