package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"gorm.io/gorm"
)

type WardRepository struct {
	db *gorm.DB
}

func NewWardRepository(db *gorm.DB) *WardRepository {
	return &WardRepository{db: db}
}

func (r *WardRepository) CreateWithBeds(ctx context.Context, w *ward.Ward, beds []*ward.Bed) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		for _, b := range beds {
			b.WardID = w.ID
		}
		if len(beds) > 0 {
			if err := tx.Create(beds).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *WardRepository) GetByID(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
	var w ward.Ward
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ward.ErrWardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WardRepository) Update(ctx context.Context, id uuid.UUID, cmd *ward.UpdateWardCommand) (*ward.Ward, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Department != nil {
		updates["department"] = *cmd.Department
	}
	if cmd.Floor != nil {
		updates["floor"] = *cmd.Floor
	}
	if cmd.NurseInCharge != nil {
		updates["nurse_in_charge"] = *cmd.NurseInCharge
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.Description != nil {
		updates["description"] = *cmd.Description
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&ward.Ward{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ward.ErrWardNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *WardRepository) List(ctx context.Context, q *ward.ListWardsQuery) (*ward.PagedWards, error) {
	query := r.db.WithContext(ctx).Model(&ward.Ward{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"name ILIKE ? OR department ILIKE ? OR nurse_in_charge ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Department != "" {
		query = query.Where("department = ?", q.Department)
	}
	if q.Floor != nil {
		query = query.Where("floor = ?", *q.Floor)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var wards []*ward.Ward
	err := query.
		Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&wards).Error
	if err != nil {
		return nil, err
	}

	return &ward.PagedWards{
		Wards:      wards,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *WardRepository) GetBedByID(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
	var b ward.Bed
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ward.ErrBedNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *WardRepository) GetBedByWardAndNumber(ctx context.Context, wardID uuid.UUID, number string) (*ward.Bed, error) {
	var b ward.Bed
	err := r.db.WithContext(ctx).
		Where("ward_id = ? AND number = ?", wardID, number).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ward.ErrBedNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *WardRepository) ListBeds(ctx context.Context, q *ward.ListBedsQuery) ([]*ward.Bed, error) {
	query := r.db.WithContext(ctx).Model(&ward.Bed{})

	if q.WardID != nil {
		query = query.Where("ward_id = ?", *q.WardID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}

	var beds []*ward.Bed
	if err := query.Order("ward_id, number ASC").Find(&beds).Error; err != nil {
		return nil, err
	}
	return beds, nil
}

func (r *WardRepository) UpdateBed(ctx context.Context, b *ward.Bed) error {
	res := r.db.WithContext(ctx).Model(&ward.Bed{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"status":         b.Status,
			"patient_id":     b.PatientID,
			"admission_date": b.AdmissionDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ward.ErrBedNotFound
	}
	return nil
}

func (r *WardRepository) CountBedsByStatus(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error) {
	var rows []struct {
		Status ward.BedStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&ward.Bed{}).
		Select("status, COUNT(*) AS count").
		Where("ward_id = ?", wardID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return ward.BedCounts{}, err
	}

	var counts ward.BedCounts
	for _, row := range rows {
		switch row.Status {
		case ward.BedOccupied:
			counts.Occupied = row.Count
		case ward.BedAvailable:
			counts.Available = row.Count
		case ward.BedMaintenance:
			counts.Maintenance = row.Count
		case ward.BedCleaning:
			counts.Cleaning = row.Count
		}
	}
	return counts, nil
}

func (r *WardRepository) MaxBedSequence(ctx context.Context, wardID uuid.UUID) (int, error) {
	var seq int
	err := r.db.WithContext(ctx).Model(&ward.Bed{}).
		Select("COALESCE(MAX(NULLIF(split_part(number, '-', 2), '')::int), 0)").
		Where("ward_id = ?", wardID).
		Scan(&seq).Error
	return seq, err
}

func (r *WardRepository) HospitalBedCounts(ctx context.Context) (ward.BedCounts, int64, error) {
	var rows []struct {
		Status ward.BedStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&ward.Bed{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return ward.BedCounts{}, 0, err
	}

	var counts ward.BedCounts
	for _, row := range rows {
		switch row.Status {
		case ward.BedOccupied:
			counts.Occupied = row.Count
		case ward.BedAvailable:
			counts.Available = row.Count
		case ward.BedMaintenance:
			counts.Maintenance = row.Count
		case ward.BedCleaning:
			counts.Cleaning = row.Count
		}
	}

	var wards int64
	if err := r.db.WithContext(ctx).Model(&ward.Ward{}).Count(&wards).Error; err != nil {
		return ward.BedCounts{}, 0, err
	}

	return counts, wards, nil
}

func (r *WardRepository) AddBeds(ctx context.Context, wardID uuid.UUID, beds []*ward.Bed, newTotal int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(beds) > 0 {
			if err := tx.Create(beds).Error; err != nil {
				return err
			}
		}
		return tx.Model(&ward.Ward{}).
			Where("id = ?", wardID).
			Update("total_beds", newTotal).Error
	})
}

func (r *WardRepository) RemoveAvailableBeds(ctx context.Context, wardID uuid.UUID, removeCount, newTotal int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the candidate rows so a concurrent admission cannot grab a bed
		// between the count and the delete.
		var ids []uuid.UUID
		err := tx.Model(&ward.Bed{}).
			Where("ward_id = ? AND status = ?", wardID, ward.BedAvailable).
			Order("number DESC").
			Limit(removeCount).
			Clauses(forUpdate()).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}

		if len(ids) < removeCount {
			return ward.ErrInsufficientFreeBeds
		}

		if err := tx.Delete(&ward.Bed{}, "id IN ?", ids).Error; err != nil {
			return fmt.Errorf("deleting beds: %w", err)
		}

		return tx.Model(&ward.Ward{}).
			Where("id = ?", wardID).
			Update("total_beds", newTotal).Error
	})
}

func (r *WardRepository) CountOccupiedBedForPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ward.Bed{}).
		Where("patient_id = ? AND status = ?", patientID, ward.BedOccupied).
		Count(&count).Error
	return count, err
}
