package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/medrec"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"go.uber.org/zap"
)

// MedicalRecordService handles encounter records, prescriptions and lab
// tests. Writes are restricted to clinical roles.
type MedicalRecordService struct {
	repo        medrec.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewMedicalRecordService(repo medrec.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

func (s *MedicalRecordService) CreateRecord(ctx context.Context, cmd *medrec.CreateRecordCommand, callerID uuid.UUID, callerRole string, ip string) (*medrec.MedicalRecord, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	if err := validateRecordCommand(cmd); err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	r := &medrec.MedicalRecord{
		PatientID:      cmd.PatientID,
		DoctorID:       cmd.DoctorID,
		Symptoms:       cmd.Symptoms,
		Diagnosis:      cmd.Diagnosis,
		Treatment:      cmd.Treatment,
		Medications:    cmd.Medications,
		VitalSigns:     cmd.VitalSigns,
		AllergiesNoted: cmd.AllergiesNoted,
		Notes:          cmd.Notes,
		FollowUp:       cmd.FollowUp,
	}

	if err := s.repo.CreateRecord(ctx, r); err != nil {
		s.log.Error("failed to create medical record", zap.Error(err))
		return nil, fmt.Errorf("creating medical record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "medical_record",
		ResourceID:   r.ID.String(),
		IPAddress:    ip,
	})

	return r, nil
}

func (s *MedicalRecordService) GetRecord(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*medrec.MedicalRecord, error) {
	r, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Every read of clinical data leaves an audit trail.
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "medical_record",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return r, nil
}

func (s *MedicalRecordService) ListRecords(ctx context.Context, q *medrec.ListRecordsQuery) (*medrec.PagedRecords, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.ListRecords(ctx, q)
}

func (s *MedicalRecordService) CreatePrescription(ctx context.Context, cmd *medrec.CreatePrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*medrec.Prescription, error) {
	if callerRole != "doctor" {
		return nil, ErrForbidden
	}

	if len(cmd.Medications) == 0 {
		return nil, medrec.ErrNoMedications
	}
	for _, m := range cmd.Medications {
		if strings.TrimSpace(m.Name) == "" {
			return nil, &ValidationError{Fields: []string{"medications: name is required"}}
		}
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	p := &medrec.Prescription{
		PatientID:       cmd.PatientID,
		DoctorID:        cmd.DoctorID,
		MedicalRecordID: cmd.MedicalRecordID,
		Medications:     cmd.Medications,
		Instructions:    cmd.Instructions,
		Duration:        cmd.Duration,
		RefillsAllowed:  cmd.RefillsAllowed,
		Status:          medrec.PrescriptionActive,
		PharmacyNotes:   cmd.PharmacyNotes,
	}

	if err := s.repo.CreatePrescription(ctx, p); err != nil {
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "prescription", ResourceID: p.ID.String(), IPAddress: ip,
	})

	return p, nil
}

func (s *MedicalRecordService) RefillPrescription(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*medrec.Prescription, error) {
	p, err := s.repo.GetPrescriptionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Refill(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePrescription(ctx, p); err != nil {
		return nil, fmt.Errorf("updating prescription: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"refills_used":%d}`, p.RefillsUsed),
	})

	return p, nil
}

func (s *MedicalRecordService) ListPrescriptions(ctx context.Context, patientID uuid.UUID) ([]*medrec.Prescription, error) {
	return s.repo.ListPrescriptionsByPatient(ctx, patientID)
}

func (s *MedicalRecordService) OrderLabTest(ctx context.Context, cmd *medrec.OrderLabTestCommand, callerID uuid.UUID, callerRole string, ip string) (*medrec.LabTest, error) {
	if callerRole != "doctor" && callerRole != "nurse" {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(cmd.TestType) == "" {
		return nil, &ValidationError{Fields: []string{"test_type is required"}}
	}
	if cmd.Priority == "" {
		cmd.Priority = medrec.PriorityRoutine
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	t := &medrec.LabTest{
		PatientID:       cmd.PatientID,
		OrderedBy:       cmd.OrderedBy,
		TestType:        cmd.TestType,
		TestCode:        cmd.TestCode,
		Status:          medrec.LabTestPending,
		Priority:        cmd.Priority,
		SampleType:      cmd.SampleType,
		FastingRequired: cmd.FastingRequired,
		Notes:           cmd.Notes,
	}

	if err := s.repo.CreateLabTest(ctx, t); err != nil {
		return nil, fmt.Errorf("creating lab test: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "lab_test", ResourceID: t.ID.String(), IPAddress: ip,
	})

	return t, nil
}

func (s *MedicalRecordService) CompleteLabTest(ctx context.Context, id uuid.UUID, results, technician string, callerID uuid.UUID, callerRole string, ip string) (*medrec.LabTest, error) {
	t, err := s.repo.GetLabTestByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.CompleteWithResults(results, technician); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLabTest(ctx, t); err != nil {
		return nil, fmt.Errorf("updating lab test: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "lab_test", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"completed"}`,
	})

	return t, nil
}

func (s *MedicalRecordService) ListLabTests(ctx context.Context, patientID uuid.UUID) ([]*medrec.LabTest, error) {
	return s.repo.ListLabTestsByPatient(ctx, patientID)
}

func validateRecordCommand(cmd *medrec.CreateRecordCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Symptoms) == "" {
		errs = append(errs, "symptoms is required")
	}
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		errs = append(errs, "diagnosis is required")
	}
	if strings.TrimSpace(cmd.Treatment) == "" {
		errs = append(errs, "treatment is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
