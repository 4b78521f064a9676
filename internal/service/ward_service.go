package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"go.uber.org/zap"
)

type WardService struct {
	repo     ward.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewWardService(repo ward.Repository, auditSvc *AuditService, log *zap.Logger) *WardService {
	return &WardService{repo: repo, auditSvc: auditSvc, log: log}
}

// ProvisionWard creates a ward together with its numbered beds. Beds get a
// deterministic number: ward-name prefix plus a zero-padded sequence
// ("GEN-01", "GEN-02", ...).
func (s *WardService) ProvisionWard(ctx context.Context, cmd *ward.CreateWardCommand, callerID uuid.UUID, callerRole string, ip string) (*ward.Ward, error) {
	if err := validateWardCommand(cmd); err != nil {
		return nil, err
	}

	w := &ward.Ward{
		Name:          strings.TrimSpace(cmd.Name),
		Department:    strings.TrimSpace(cmd.Department),
		Floor:         cmd.Floor,
		TotalBeds:     cmd.BedCount,
		NurseInCharge: strings.TrimSpace(cmd.NurseInCharge),
		Status:        ward.WardActive,
		Description:   cmd.Description,
	}

	beds := make([]*ward.Bed, 0, cmd.BedCount)
	for i := 1; i <= cmd.BedCount; i++ {
		beds = append(beds, &ward.Bed{
			Number: w.BedNumber(i),
			Status: ward.BedAvailable,
		})
	}

	if err := s.repo.CreateWithBeds(ctx, w, beds); err != nil {
		s.log.Error("failed to provision ward", zap.Error(err))
		return nil, fmt.Errorf("provisioning ward: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "ward",
		ResourceID:   w.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("ward provisioned",
		zap.String("ward_id", w.ID.String()),
		zap.Int("beds", cmd.BedCount),
	)

	return w, nil
}

// ResizeWard grows or shrinks a ward's bed count. Growth appends beds that
// continue the numbering sequence past the highest existing number, so a bed
// still occupied above total_beds after an earlier shrink never collides
// with a new one. Shrinking removes only beds that are currently available,
// highest numbers first; it fails with ward.ErrInsufficientFreeBeds when too
// few free beds exist, leaving the ward untouched.
func (s *WardService) ResizeWard(ctx context.Context, wardID uuid.UUID, newBedCount int, callerID uuid.UUID, callerRole string, ip string) (*ward.Ward, error) {
	if newBedCount < 0 {
		return nil, ward.ErrInvalidBedCount
	}

	w, err := s.repo.GetByID(ctx, wardID)
	if err != nil {
		return nil, err
	}

	switch {
	case newBedCount > w.TotalBeds:
		lastSeq, err := s.repo.MaxBedSequence(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("reading bed numbering: %w", err)
		}

		addCount := newBedCount - w.TotalBeds
		beds := make([]*ward.Bed, 0, addCount)
		for i := 1; i <= addCount; i++ {
			beds = append(beds, &ward.Bed{
				WardID: w.ID,
				Number: w.BedNumber(lastSeq + i),
				Status: ward.BedAvailable,
			})
		}
		if err := s.repo.AddBeds(ctx, w.ID, beds, newBedCount); err != nil {
			return nil, fmt.Errorf("adding beds: %w", err)
		}

	case newBedCount < w.TotalBeds:
		removeCount := w.TotalBeds - newBedCount
		if err := s.repo.RemoveAvailableBeds(ctx, w.ID, removeCount, newBedCount); err != nil {
			return nil, err
		}

	default:
		return w, nil
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "ward",
		ResourceID:   w.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"total_beds":%d}`, newBedCount),
	})

	// Return the committed row rather than a locally patched copy.
	return s.repo.GetByID(ctx, wardID)
}

// Occupancy is a pure read over the ward's bed states.
func (s *WardService) Occupancy(ctx context.Context, wardID uuid.UUID) (*ward.Occupancy, error) {
	w, err := s.repo.GetByID(ctx, wardID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountBedsByStatus(ctx, wardID)
	if err != nil {
		return nil, fmt.Errorf("counting beds: %w", err)
	}

	return &ward.Occupancy{
		WardID:     w.ID,
		TotalBeds:  w.TotalBeds,
		BedCounts:  counts,
		Percentage: ward.OccupancyPercentage(counts.Occupied, w.TotalBeds),
	}, nil
}

// HospitalOccupancy aggregates bed states across all wards.
func (s *WardService) HospitalOccupancy(ctx context.Context) (*ward.HospitalOccupancy, error) {
	counts, wards, err := s.repo.HospitalBedCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting beds: %w", err)
	}

	total := counts.Total()
	return &ward.HospitalOccupancy{
		TotalWards: wards,
		TotalBeds:  total,
		BedCounts:  counts,
		Percentage: ward.OccupancyPercentage(counts.Occupied, int(total)),
	}, nil
}

// SetBedState transitions a bed between available/occupied/maintenance/
// cleaning. Occupied requires a patient; the other states clear the patient
// reference and admission date.
func (s *WardService) SetBedState(ctx context.Context, bedID uuid.UUID, status ward.BedStatus, patientID *uuid.UUID, admissionDate *time.Time, callerID uuid.UUID, callerRole string, ip string) (*ward.Bed, error) {
	b, err := s.repo.GetBedByID(ctx, bedID)
	if err != nil {
		return nil, err
	}

	if err := b.SetStatus(status, patientID, admissionDate); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBed(ctx, b); err != nil {
		return nil, fmt.Errorf("updating bed: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "bed",
		ResourceID:   b.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"status":%q}`, status),
	})

	return b, nil
}

func (s *WardService) GetWard(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WardService) UpdateWard(ctx context.Context, id uuid.UUID, cmd *ward.UpdateWardCommand, callerID uuid.UUID, callerRole string, ip string) (*ward.Ward, error) {
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, ward.ErrInvalidWardStatus
	}

	w, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "ward", ResourceID: id.String(), IPAddress: ip,
	})

	return w, nil
}

func (s *WardService) ListWards(ctx context.Context, q *ward.ListWardsQuery) (*ward.PagedWards, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *WardService) ListBeds(ctx context.Context, q *ward.ListBedsQuery) ([]*ward.Bed, error) {
	return s.repo.ListBeds(ctx, q)
}

func validateWardCommand(cmd *ward.CreateWardCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Department) == "" {
		errs = append(errs, "department is required")
	}
	if cmd.BedCount < 0 {
		errs = append(errs, "bed_count cannot be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
