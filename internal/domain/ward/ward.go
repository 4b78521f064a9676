package ward

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type WardStatus string

const (
	WardActive WardStatus = "active"
	WardClosed WardStatus = "closed"
)

func (s WardStatus) IsValid() bool {
	switch s {
	case WardActive, WardClosed:
		return true
	}
	return false
}

// BedStatus is the state of a single bed. A bed only carries a patient
// reference while occupied; every other state clears it.
type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedMaintenance BedStatus = "maintenance"
	BedCleaning    BedStatus = "cleaning"
)

func (s BedStatus) IsValid() bool {
	switch s {
	case BedAvailable, BedOccupied, BedMaintenance, BedCleaning:
		return true
	}
	return false
}

type Ward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name          string     `gorm:"column:name;type:varchar(100);not null"`
	Department    string     `gorm:"column:department;type:varchar(100);not null;index"`
	Floor         int        `gorm:"column:floor;not null"`
	TotalBeds     int        `gorm:"column:total_beds;not null"`
	NurseInCharge string     `gorm:"column:nurse_in_charge;type:varchar(100)"`
	Status        WardStatus `gorm:"column:status;type:varchar(20);not null;default:'active';index"`
	Description   string     `gorm:"column:description;type:text"`

	Beds []Bed `gorm:"foreignKey:WardID;constraint:OnDelete:CASCADE"`
}

func (Ward) TableName() string {
	return "clinical.wards"
}

// NumberPrefix derives the bed-number prefix from the ward name:
// first three letters, uppercased ("General" -> "GEN").
func (w *Ward) NumberPrefix() string {
	name := strings.TrimSpace(w.Name)
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(name)
}

// BedNumber formats the deterministic number for the seq-th bed (1-based),
// e.g. "GEN-01".
func (w *Ward) BedNumber(seq int) string {
	return fmt.Sprintf("%s-%02d", w.NumberPrefix(), seq)
}

type Bed struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	WardID uuid.UUID `gorm:"column:ward_id;type:uuid;not null;uniqueIndex:idx_beds_ward_number"`
	Number string    `gorm:"column:number;type:varchar(10);not null;uniqueIndex:idx_beds_ward_number"`

	Status        BedStatus  `gorm:"column:status;type:varchar(20);not null;default:'available';index"`
	PatientID     *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`
	AdmissionDate *time.Time `gorm:"column:admission_date;type:date"`
}

func (Bed) TableName() string {
	return "clinical.beds"
}

func (b *Bed) IsAvailable() bool {
	return b.Status == BedAvailable
}

// SetStatus transitions the bed. Occupied requires a patient; every other
// state must have no patient and no admission date.
func (b *Bed) SetStatus(status BedStatus, patientID *uuid.UUID, admissionDate *time.Time) error {
	if !status.IsValid() {
		return ErrInvalidBedStatus
	}

	if status == BedOccupied {
		if patientID == nil {
			return ErrOccupiedRequiresPatient
		}
		if admissionDate == nil {
			now := time.Now()
			admissionDate = &now
		}
		b.PatientID = patientID
		b.AdmissionDate = admissionDate
	} else {
		b.PatientID = nil
		b.AdmissionDate = nil
	}

	b.Status = status
	return nil
}

// Occupy claims an available bed for a patient.
func (b *Bed) Occupy(patientID uuid.UUID, admissionDate time.Time) error {
	if b.Status != BedAvailable {
		return ErrBedNotAvailable
	}
	b.Status = BedOccupied
	b.PatientID = &patientID
	b.AdmissionDate = &admissionDate
	return nil
}

// Vacate releases an occupied bed. The bed goes to cleaning rather than
// straight back to available; housekeeping flips it later via SetStatus.
func (b *Bed) Vacate() error {
	if b.Status != BedOccupied || b.PatientID == nil {
		return ErrBedNotOccupied
	}
	b.Status = BedCleaning
	b.PatientID = nil
	b.AdmissionDate = nil
	return nil
}

// DaysOccupied reports how long the current patient has held the bed,
// 0 when the bed is not occupied.
func (b *Bed) DaysOccupied() int {
	if b.Status != BedOccupied || b.AdmissionDate == nil {
		return 0
	}
	days := int(time.Since(*b.AdmissionDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// BedCounts is the per-status breakdown of a ward's beds.
type BedCounts struct {
	Occupied    int64 `json:"occupied"`
	Available   int64 `json:"available"`
	Maintenance int64 `json:"maintenance"`
	Cleaning    int64 `json:"cleaning"`
}

func (c BedCounts) Total() int64 {
	return c.Occupied + c.Available + c.Maintenance + c.Cleaning
}

// Occupancy is the read-only occupancy projection for a ward.
type Occupancy struct {
	WardID     uuid.UUID `json:"ward_id"`
	TotalBeds  int       `json:"total_beds"`
	BedCounts
	Percentage float64 `json:"percentage"`
}

// HospitalOccupancy aggregates bed states across every ward.
type HospitalOccupancy struct {
	TotalWards int64 `json:"total_wards"`
	TotalBeds  int64 `json:"total_beds"`
	BedCounts
	Percentage float64 `json:"percentage"`
}

// OccupancyPercentage returns occupied/total*100 rounded to one decimal,
// 0 for a ward with no beds.
func OccupancyPercentage(occupied int64, totalBeds int) float64 {
	if totalBeds == 0 {
		return 0
	}
	return math.Round(float64(occupied)/float64(totalBeds)*1000) / 10
}

type CreateWardCommand struct {
	Name          string
	Department    string
	Floor         int
	BedCount      int
	NurseInCharge string
	Description   string
}

type UpdateWardCommand struct {
	Name          *string
	Department    *string
	Floor         *int
	NurseInCharge *string
	Status        *WardStatus
	Description   *string
}

type ListWardsQuery struct {
	Search     string // matches name, department, nurse in charge
	Department string
	Floor      *int
	Status     *WardStatus
	Page       int
	PageSize   int
}

type PagedWards struct {
	Wards      []*Ward
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

type ListBedsQuery struct {
	WardID    *uuid.UUID
	Status    *BedStatus
	PatientID *uuid.UUID
}
