package postgres

import (
	"context"

	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"gorm.io/gorm"
)

// AdmissionStore persists the paired bed+patient writes of admissions and
// discharges in single transactions.
type AdmissionStore struct {
	db *gorm.DB
}

func NewAdmissionStore(db *gorm.DB) *AdmissionStore {
	return &AdmissionStore{db: db}
}

// AdmitPair claims the bed with a conditional update gated on the row still
// being available, then writes the patient's admission fields gated on the
// patient not already being admitted. If another admission won the bed or
// the patient in the meantime, the matching update touches zero rows and
// the whole transaction rolls back with the typed conflict.
func (s *AdmissionStore) AdmitPair(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ward.Bed{}).
			Where("id = ? AND status = ?", b.ID, ward.BedAvailable).
			Updates(map[string]any{
				"status":         b.Status,
				"patient_id":     b.PatientID,
				"admission_date": b.AdmissionDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ward.ErrBedNotAvailable
		}

		res = tx.Model(&patient.Patient{}).
			Where("id = ? AND status <> ?", p.ID, patient.StatusAdmitted).
			Updates(map[string]any{
				"status":         p.Status,
				"ward_id":        p.WardID,
				"bed_number":     p.BedNumber,
				"admission_date": p.AdmissionDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return patient.ErrAlreadyAdmitted
		}
		return nil
	})
}

// DischargePair persists the discharged patient and, when b is non-nil, the
// vacated bed. Either side may be nil; a nil bed means the bed row is gone or
// stale and only the patient is updated.
func (s *AdmissionStore) DischargePair(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b != nil {
			err := tx.Model(&ward.Bed{}).
				Where("id = ?", b.ID).
				Updates(map[string]any{
					"status":         b.Status,
					"patient_id":     nil,
					"admission_date": nil,
				}).Error
			if err != nil {
				return err
			}
		}

		if p != nil {
			err := tx.Model(&patient.Patient{}).
				Where("id = ?", p.ID).
				Updates(map[string]any{
					"status":         p.Status,
					"ward_id":        nil,
					"bed_number":     "",
					"admission_date": nil,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
