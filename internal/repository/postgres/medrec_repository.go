package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/medrec"
	"gorm.io/gorm"
)

type MedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func (r *MedicalRecordRepository) CreateRecord(ctx context.Context, rec *medrec.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *MedicalRecordRepository) GetRecordByID(ctx context.Context, id uuid.UUID) (*medrec.MedicalRecord, error) {
	var rec medrec.MedicalRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medrec.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) ListRecords(ctx context.Context, q *medrec.ListRecordsQuery) (*medrec.PagedRecords, error) {
	query := r.db.WithContext(ctx).Model(&medrec.MedicalRecord{})

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		query = query.Where("doctor_id = ?", *q.DoctorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []*medrec.MedicalRecord
	err := query.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &medrec.PagedRecords{
		Records:    records,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *MedicalRecordRepository) CreatePrescription(ctx context.Context, p *medrec.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *MedicalRecordRepository) GetPrescriptionByID(ctx context.Context, id uuid.UUID) (*medrec.Prescription, error) {
	var p medrec.Prescription
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medrec.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MedicalRecordRepository) UpdatePrescription(ctx context.Context, p *medrec.Prescription) error {
	res := r.db.WithContext(ctx).Model(&medrec.Prescription{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"refills_used": p.RefillsUsed,
			"status":       p.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medrec.ErrPrescriptionNotFound
	}
	return nil
}

func (r *MedicalRecordRepository) ListPrescriptionsByPatient(ctx context.Context, patientID uuid.UUID) ([]*medrec.Prescription, error) {
	var prescriptions []*medrec.Prescription
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *MedicalRecordRepository) CreateLabTest(ctx context.Context, t *medrec.LabTest) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *MedicalRecordRepository) GetLabTestByID(ctx context.Context, id uuid.UUID) (*medrec.LabTest, error) {
	var t medrec.LabTest
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, medrec.ErrLabTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *MedicalRecordRepository) UpdateLabTest(ctx context.Context, t *medrec.LabTest) error {
	res := r.db.WithContext(ctx).Model(&medrec.LabTest{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"status":         t.Status,
			"results":        t.Results,
			"technician":     t.Technician,
			"completed_date": t.CompletedDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return medrec.ErrLabTestNotFound
	}
	return nil
}

func (r *MedicalRecordRepository) ListLabTestsByPatient(ctx context.Context, patientID uuid.UUID) ([]*medrec.LabTest, error) {
	var tests []*medrec.LabTest
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}
