package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/service"
)

type PatientHandler struct {
	patientSvc   *service.PatientService
	admissionSvc *service.AdmissionService
}

func NewPatientHandler(patientSvc *service.PatientService, admissionSvc *service.AdmissionService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, admissionSvc: admissionSvc}
}

type createPatientRequest struct {
	FirstName        string            `json:"first_name" binding:"required"`
	LastName         string            `json:"last_name" binding:"required"`
	DateOfBirth      time.Time         `json:"date_of_birth" binding:"required"`
	Gender           patient.Gender    `json:"gender" binding:"required"`
	BloodType        patient.BloodType `json:"blood_type"`
	Phone            string            `json:"phone" binding:"required"`
	Email            string            `json:"email"`
	Address          string            `json:"address"`
	EmergencyContact string            `json:"emergency_contact"`
	Allergies        string            `json:"allergies"`
	AssignedDoctorID *uuid.UUID        `json:"assigned_doctor_id"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.patientSvc.RegisterPatient(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodType:        req.BloodType,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Allergies:        req.Allergies,
		AssignedDoctorID: req.AssignedDoctorID,
		CreatedBy:        callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.patientSvc.GetPatient(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePatientRequest struct {
	FirstName        *string            `json:"first_name"`
	LastName         *string            `json:"last_name"`
	Gender           *patient.Gender    `json:"gender"`
	BloodType        *patient.BloodType `json:"blood_type"`
	Phone            *string            `json:"phone"`
	Email            *string            `json:"email"`
	Address          *string            `json:"address"`
	EmergencyContact *string            `json:"emergency_contact"`
	Allergies        *string            `json:"allergies"`
	AssignedDoctorID *uuid.UUID         `json:"assigned_doctor_id"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.patientSvc.UpdatePatient(c.Request.Context(), id, &patient.UpdatePatientCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Gender:           req.Gender,
		BloodType:        req.BloodType,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Allergies:        req.Allergies,
		AssignedDoctorID: req.AssignedDoctorID,
		UpdatedBy:        callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.patientSvc.DeletePatient(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:    c.Query("search"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := patient.Status(raw)
		q.Status = &status
	}
	if raw := c.Query("ward_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid ward_id: must be a valid UUID")
			return
		}
		q.WardID = &id
	}
	if raw := c.Query("assigned_doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid assigned_doctor_id: must be a valid UUID")
			return
		}
		q.AssignedDoctorID = &id
	}

	page, err := h.patientSvc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type admitPatientRequest struct {
	WardID    uuid.UUID `json:"ward_id" binding:"required"`
	BedNumber string    `json:"bed_number" binding:"required"`
}

// Admit places the patient into the requested bed.
func (h *PatientHandler) Admit(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req admitPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.admissionSvc.Admit(c.Request.Context(), id, req.WardID, req.BedNumber, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// Discharge releases the patient's bed and completes the admission episode.
func (h *PatientHandler) Discharge(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.admissionSvc.Discharge(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}
