package medrec

import (
	"time"

	"github.com/google/uuid"
)

// VitalSigns captured during a visit. All fields optional.
type VitalSigns struct {
	BloodPressure      string   `json:"blood_pressure,omitempty"`
	HeartRateBPM       *int     `json:"heart_rate_bpm,omitempty"`
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
	WeightKg           *float64 `json:"weight_kg,omitempty"`
	RespiratoryRate    *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation   *float64 `json:"oxygen_saturation,omitempty"`
}

// MedicalRecord documents one clinical encounter. Records are append-only:
// no update or delete surface exists.
type MedicalRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	Symptoms  string `gorm:"column:symptoms;type:text;not null"`
	Diagnosis string `gorm:"column:diagnosis;type:varchar(200);not null;index"`
	Treatment string `gorm:"column:treatment;type:text;not null"`

	Medications    []string    `gorm:"column:medications;serializer:json"`
	VitalSigns     *VitalSigns `gorm:"column:vital_signs;serializer:json"`
	AllergiesNoted string      `gorm:"column:allergies_noted;type:text"`
	Notes          string      `gorm:"column:notes;type:text"`
	FollowUp       *time.Time  `gorm:"column:follow_up;type:date"`
}

func (MedicalRecord) TableName() string {
	return "clinical.medical_records"
}

type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

// MedicationItem is one prescribed medication line.
type MedicationItem struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`    // e.g. "500mg"
	Frequency string `json:"frequency"` // e.g. "twice daily"
}

type Prescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID       uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID        uuid.UUID  `gorm:"column:doctor_id;type:uuid;not null;index"`
	MedicalRecordID *uuid.UUID `gorm:"column:medical_record_id;type:uuid;index"`

	Medications  []MedicationItem `gorm:"column:medications;serializer:json"`
	Instructions string           `gorm:"column:instructions;type:text"`
	Duration     string           `gorm:"column:duration;type:varchar(50)"` // e.g. "7 days"

	RefillsAllowed int `gorm:"column:refills_allowed;default:0"`
	RefillsUsed    int `gorm:"column:refills_used;default:0"`

	Status        PrescriptionStatus `gorm:"column:status;type:varchar(20);not null;default:'active';index"`
	PharmacyNotes string             `gorm:"column:pharmacy_notes;type:text"`
}

func (Prescription) TableName() string {
	return "clinical.prescriptions"
}

func (p *Prescription) IsRefillable() bool {
	return p.Status == PrescriptionActive && p.RefillsUsed < p.RefillsAllowed
}

// Refill increments the refill count; the prescription completes once the
// last allowed refill is used.
func (p *Prescription) Refill() error {
	if !p.IsRefillable() {
		return ErrNotRefillable
	}
	p.RefillsUsed++
	if p.RefillsUsed >= p.RefillsAllowed {
		p.Status = PrescriptionCompleted
	}
	return nil
}

type LabTestStatus string

const (
	LabTestPending    LabTestStatus = "pending"
	LabTestInProgress LabTestStatus = "in_progress"
	LabTestCompleted  LabTestStatus = "completed"
	LabTestCancelled  LabTestStatus = "cancelled"
)

type LabTestPriority string

const (
	PriorityRoutine LabTestPriority = "routine"
	PriorityUrgent  LabTestPriority = "urgent"
	PriorityStat    LabTestPriority = "stat"
)

type LabTest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	OrderedBy uuid.UUID `gorm:"column:ordered_by;type:uuid;not null;index"`

	TestType string `gorm:"column:test_type;type:varchar(100);not null"`
	TestCode string `gorm:"column:test_code;type:varchar(20)"`

	Status   LabTestStatus   `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Priority LabTestPriority `gorm:"column:priority;type:varchar(20);not null;default:'routine'"`

	SampleType      string `gorm:"column:sample_type;type:varchar(50)"`
	FastingRequired bool   `gorm:"column:fasting_required;default:false"`

	Results         string     `gorm:"column:results;type:text"`
	ReferenceValues string     `gorm:"column:reference_values;type:text"`
	Technician      string     `gorm:"column:technician;type:varchar(100)"`
	CompletedDate   *time.Time `gorm:"column:completed_date;type:date"`
	Notes           string     `gorm:"column:notes;type:text"`
}

func (LabTest) TableName() string {
	return "clinical.lab_tests"
}

// CompleteWithResults records the outcome and closes the test.
func (t *LabTest) CompleteWithResults(results, technician string) error {
	if t.Status == LabTestCompleted || t.Status == LabTestCancelled {
		return ErrLabTestClosed
	}
	now := time.Now()
	t.Status = LabTestCompleted
	t.Results = results
	t.Technician = technician
	t.CompletedDate = &now
	return nil
}

type CreateRecordCommand struct {
	PatientID      uuid.UUID
	DoctorID       uuid.UUID
	Symptoms       string
	Diagnosis      string
	Treatment      string
	Medications    []string
	VitalSigns     *VitalSigns
	AllergiesNoted string
	Notes          string
	FollowUp       *time.Time
}

type CreatePrescriptionCommand struct {
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	MedicalRecordID *uuid.UUID
	Medications     []MedicationItem
	Instructions    string
	Duration        string
	RefillsAllowed  int
	PharmacyNotes   string
}

type OrderLabTestCommand struct {
	PatientID       uuid.UUID
	OrderedBy       uuid.UUID
	TestType        string
	TestCode        string
	Priority        LabTestPriority
	SampleType      string
	FastingRequired bool
	Notes           string
}

type ListRecordsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Page      int
	PageSize  int
}

type PagedRecords struct {
	Records    []*MedicalRecord
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
