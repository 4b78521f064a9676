package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/medrec"
	"github.com/medicore/hospital-api/internal/service"
)

type MedicalRecordHandler struct {
	medrecSvc *service.MedicalRecordService
}

func NewMedicalRecordHandler(medrecSvc *service.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{medrecSvc: medrecSvc}
}

type createRecordRequest struct {
	PatientID      uuid.UUID          `json:"patient_id" binding:"required"`
	Symptoms       string             `json:"symptoms" binding:"required"`
	Diagnosis      string             `json:"diagnosis" binding:"required"`
	Treatment      string             `json:"treatment" binding:"required"`
	Medications    []string           `json:"medications"`
	VitalSigns     *medrec.VitalSigns `json:"vital_signs"`
	AllergiesNoted string             `json:"allergies_noted"`
	Notes          string             `json:"notes"`
	FollowUp       *time.Time         `json:"follow_up"`
}

func (h *MedicalRecordHandler) CreateRecord(c *gin.Context) {
	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	r, err := h.medrecSvc.CreateRecord(c.Request.Context(), &medrec.CreateRecordCommand{
		PatientID:      req.PatientID,
		DoctorID:       callerID,
		Symptoms:       req.Symptoms,
		Diagnosis:      req.Diagnosis,
		Treatment:      req.Treatment,
		Medications:    req.Medications,
		VitalSigns:     req.VitalSigns,
		AllergiesNoted: req.AllergiesNoted,
		Notes:          req.Notes,
		FollowUp:       req.FollowUp,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

func (h *MedicalRecordHandler) GetRecord(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	r, err := h.medrecSvc.GetRecord(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

func (h *MedicalRecordHandler) ListRecords(c *gin.Context) {
	q := &medrec.ListRecordsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id: must be a valid UUID")
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctor_id: must be a valid UUID")
			return
		}
		q.DoctorID = &id
	}

	page, err := h.medrecSvc.ListRecords(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createPrescriptionRequest struct {
	PatientID       uuid.UUID               `json:"patient_id" binding:"required"`
	MedicalRecordID *uuid.UUID              `json:"medical_record_id"`
	Medications     []medrec.MedicationItem `json:"medications" binding:"required"`
	Instructions    string                  `json:"instructions"`
	Duration        string                  `json:"duration"`
	RefillsAllowed  int                     `json:"refills_allowed"`
	PharmacyNotes   string                  `json:"pharmacy_notes"`
}

func (h *MedicalRecordHandler) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.medrecSvc.CreatePrescription(c.Request.Context(), &medrec.CreatePrescriptionCommand{
		PatientID:       req.PatientID,
		DoctorID:        callerID,
		MedicalRecordID: req.MedicalRecordID,
		Medications:     req.Medications,
		Instructions:    req.Instructions,
		Duration:        req.Duration,
		RefillsAllowed:  req.RefillsAllowed,
		PharmacyNotes:   req.PharmacyNotes,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *MedicalRecordHandler) RefillPrescription(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	p, err := h.medrecSvc.RefillPrescription(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *MedicalRecordHandler) ListPrescriptions(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	prescriptions, err := h.medrecSvc.ListPrescriptions(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, prescriptions)
}

type orderLabTestRequest struct {
	PatientID       uuid.UUID              `json:"patient_id" binding:"required"`
	TestType        string                 `json:"test_type" binding:"required"`
	TestCode        string                 `json:"test_code"`
	Priority        medrec.LabTestPriority `json:"priority"`
	SampleType      string                 `json:"sample_type"`
	FastingRequired bool                   `json:"fasting_required"`
	Notes           string                 `json:"notes"`
}

func (h *MedicalRecordHandler) OrderLabTest(c *gin.Context) {
	var req orderLabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	t, err := h.medrecSvc.OrderLabTest(c.Request.Context(), &medrec.OrderLabTestCommand{
		PatientID:       req.PatientID,
		OrderedBy:       callerID,
		TestType:        req.TestType,
		TestCode:        req.TestCode,
		Priority:        req.Priority,
		SampleType:      req.SampleType,
		FastingRequired: req.FastingRequired,
		Notes:           req.Notes,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, t)
}

type completeLabTestRequest struct {
	Results    string `json:"results" binding:"required"`
	Technician string `json:"technician"`
}

func (h *MedicalRecordHandler) CompleteLabTest(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req completeLabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	t, err := h.medrecSvc.CompleteLabTest(c.Request.Context(), id, req.Results, req.Technician, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

func (h *MedicalRecordHandler) ListLabTests(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	tests, err := h.medrecSvc.ListLabTests(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, tests)
}
