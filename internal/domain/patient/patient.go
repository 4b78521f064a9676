package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

// Status is the admission state of a patient.
//
// State transitions:
//
//	outpatient → admitted → discharged
//	discharged → admitted (readmission)
type Status string

const (
	StatusOutpatient Status = "outpatient"
	StatusAdmitted   Status = "admitted"
	StatusDischarged Status = "discharged"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOutpatient, StatusAdmitted, StatusDischarged:
		return true
	}
	return false
}

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)"`
	Email   string `gorm:"column:email;type:varchar(255)"`
	Address string `gorm:"column:address;type:text"`
}

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null"`
	BloodType   BloodType `gorm:"column:blood_type;type:varchar(5)"`

	ContactInfo

	EmergencyContact string `gorm:"column:emergency_contact;type:varchar(100)"`
	Allergies        string `gorm:"column:allergies;type:text"`

	AssignedDoctorID *uuid.UUID `gorm:"column:assigned_doctor_id;type:uuid;index"`
	LastVisit        *time.Time `gorm:"column:last_visit;type:date"`

	// Admission state. WardID, BedNumber and AdmissionDate are set iff
	// Status is admitted; BedNumber mirrors the occupying bed's number.
	// Only the admission workflow mutates these fields.
	Status        Status     `gorm:"column:status;type:varchar(20);not null;default:'outpatient';index"`
	WardID        *uuid.UUID `gorm:"column:ward_id;type:uuid;index"`
	BedNumber     string     `gorm:"column:bed_number;type:varchar(10)"`
	AdmissionDate *time.Time `gorm:"column:admission_date;type:date"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (p *Patient) IsAdmitted() bool {
	return p.Status == StatusAdmitted
}

// Admit places the patient in a ward bed. Fails if the patient already
// occupies a bed.
func (p *Patient) Admit(wardID uuid.UUID, bedNumber string, admissionDate time.Time) error {
	if p.Status == StatusAdmitted {
		return ErrAlreadyAdmitted
	}
	p.Status = StatusAdmitted
	p.WardID = &wardID
	p.BedNumber = bedNumber
	p.AdmissionDate = &admissionDate
	return nil
}

// Discharge clears the patient's admission state. The patient side of a
// discharge always completes, regardless of what happened to the bed row.
func (p *Patient) Discharge() error {
	if p.Status != StatusAdmitted {
		return ErrNotAdmitted
	}
	p.Status = StatusDischarged
	p.WardID = nil
	p.BedNumber = ""
	p.AdmissionDate = nil
	return nil
}

type CreatePatientCommand struct {
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           Gender
	BloodType        BloodType
	Phone            string
	Email            string
	Address          string
	EmergencyContact string
	Allergies        string
	AssignedDoctorID *uuid.UUID
	CreatedBy        uuid.UUID
}

type UpdatePatientCommand struct {
	FirstName        *string
	LastName         *string
	Gender           *Gender
	BloodType        *BloodType
	Phone            *string
	Email            *string
	Address          *string
	EmergencyContact *string
	Allergies        *string
	AssignedDoctorID *uuid.UUID
	UpdatedBy        uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search           string // matches name, phone, email
	Status           *Status
	AssignedDoctorID *uuid.UUID
	WardID           *uuid.UUID
	Page             int
	PageSize         int
	SortBy           string
	SortOrder        string // "asc" | "desc"
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
