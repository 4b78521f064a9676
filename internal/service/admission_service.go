package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"go.uber.org/zap"
)

// AdmissionStore persists the paired bed+patient updates of an admission or
// discharge. Both records change together or not at all.
type AdmissionStore interface {
	// AdmitPair claims the bed and writes the patient's admission fields in
	// one transaction. The bed claim is conditional on the row still being
	// available, so two concurrent admissions to the same bed cannot both
	// succeed; the loser gets ward.ErrBedNotAvailable.
	AdmitPair(ctx context.Context, p *patient.Patient, b *ward.Bed) error

	// DischargePair persists the discharged patient and, when b is non-nil,
	// the vacated bed in one transaction. Either side may be nil.
	DischargePair(ctx context.Context, p *patient.Patient, b *ward.Bed) error
}

// AdmissionService keeps patient admission state and ward bed state in
// lockstep. It is the only writer of Patient.Status/WardID/BedNumber and of
// a bed's patient reference.
type AdmissionService struct {
	store       AdmissionStore
	patientRepo patient.Repository
	wardRepo    ward.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewAdmissionService(
	store AdmissionStore,
	patientRepo patient.Repository,
	wardRepo ward.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *AdmissionService {
	return &AdmissionService{
		store:       store,
		patientRepo: patientRepo,
		wardRepo:    wardRepo,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// Admit places a patient into the bed identified by (ward, bed number).
// The bed must be available and the patient must not already hold a bed.
func (s *AdmissionService) Admit(ctx context.Context, patientID, wardID uuid.UUID, bedNumber string, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p.IsAdmitted() {
		return nil, patient.ErrAlreadyAdmitted
	}

	b, err := s.wardRepo.GetBedByWardAndNumber(ctx, wardID, bedNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := b.Occupy(p.ID, now); err != nil {
		return nil, err
	}
	if err := p.Admit(wardID, b.Number, now); err != nil {
		return nil, err
	}

	if err := s.store.AdmitPair(ctx, p, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"status":"admitted","ward_id":%q,"bed_number":%q}`, wardID, bedNumber),
	})

	s.log.Info("patient admitted",
		zap.String("patient_id", p.ID.String()),
		zap.String("ward_id", wardID.String()),
		zap.String("bed_number", bedNumber),
	)

	return p, nil
}

// Discharge releases the patient's bed and clears the admission state. The
// vacated bed goes to cleaning, not straight back to available. A bed row
// that has vanished in the meantime never fails the discharge: the patient
// side always completes.
func (s *AdmissionService) Discharge(ctx context.Context, patientID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmitted() {
		return nil, patient.ErrNotAdmitted
	}

	var b *ward.Bed
	if p.WardID != nil && p.BedNumber != "" {
		b, err = s.wardRepo.GetBedByWardAndNumber(ctx, *p.WardID, p.BedNumber)
		switch {
		case errors.Is(err, ward.ErrBedNotFound):
			b = nil
			s.log.Warn("discharging patient whose bed no longer exists",
				zap.String("patient_id", p.ID.String()),
				zap.String("bed_number", p.BedNumber),
			)
		case err != nil:
			return nil, fmt.Errorf("resolving bed: %w", err)
		}
	}

	if b != nil {
		if err := b.Vacate(); err != nil {
			// The bed reference went stale (e.g. reassigned out of band).
			// Leave the bed alone; the patient still gets discharged.
			s.log.Warn("bed no longer occupied by patient, skipping bed update",
				zap.String("bed_id", b.ID.String()),
				zap.String("patient_id", p.ID.String()),
			)
			b = nil
		}
	}

	if err := p.Discharge(); err != nil {
		return nil, err
	}

	if err := s.store.DischargePair(ctx, p, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
		Changes:      `{"status":"discharged"}`,
	})

	s.log.Info("patient discharged", zap.String("patient_id", p.ID.String()))

	return p, nil
}

// AssignPatientToBed is the bed-centric admission path, used when staff act
// from a ward's bed board. Same invariants and atomicity as Admit.
func (s *AdmissionService) AssignPatientToBed(ctx context.Context, bedID, patientID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*ward.Bed, error) {
	b, err := s.wardRepo.GetBedByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if !b.IsAvailable() {
		return nil, ward.ErrBedNotAvailable
	}

	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p.IsAdmitted() {
		return nil, patient.ErrAlreadyAdmitted
	}

	now := time.Now()
	if err := b.Occupy(p.ID, now); err != nil {
		return nil, err
	}
	if err := p.Admit(b.WardID, b.Number, now); err != nil {
		return nil, err
	}

	if err := s.store.AdmitPair(ctx, p, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "bed", ResourceID: b.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"occupied","patient_id":%q}`, patientID),
	})

	return b, nil
}

// DischargePatientFromBed is the bed-centric discharge path.
func (s *AdmissionService) DischargePatientFromBed(ctx context.Context, bedID uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*ward.Bed, error) {
	b, err := s.wardRepo.GetBedByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if b.Status != ward.BedOccupied || b.PatientID == nil {
		return nil, ward.ErrBedNotOccupied
	}

	var p *patient.Patient
	p, err = s.patientRepo.GetByID(ctx, *b.PatientID)
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		// Orphaned reference; free the bed anyway.
		p = nil
	case err != nil:
		return nil, fmt.Errorf("resolving patient: %w", err)
	}

	if err := b.Vacate(); err != nil {
		return nil, err
	}
	if p != nil {
		if err := p.Discharge(); err != nil {
			return nil, err
		}
	}

	if err := s.store.DischargePair(ctx, p, b); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "bed", ResourceID: b.ID.String(), IPAddress: ip,
		Changes: `{"status":"cleaning"}`,
	})

	return b, nil
}
