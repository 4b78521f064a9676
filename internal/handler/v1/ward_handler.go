package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"github.com/medicore/hospital-api/internal/service"
)

type WardHandler struct {
	wardSvc      *service.WardService
	admissionSvc *service.AdmissionService
}

func NewWardHandler(wardSvc *service.WardService, admissionSvc *service.AdmissionService) *WardHandler {
	return &WardHandler{wardSvc: wardSvc, admissionSvc: admissionSvc}
}

type createWardRequest struct {
	Name          string `json:"name" binding:"required"`
	Department    string `json:"department" binding:"required"`
	Floor         int    `json:"floor"`
	BedCount      int    `json:"bed_count"`
	NurseInCharge string `json:"nurse_in_charge"`
	Description   string `json:"description"`
}

func (h *WardHandler) Create(c *gin.Context) {
	var req createWardRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	w, err := h.wardSvc.ProvisionWard(c.Request.Context(), &ward.CreateWardCommand{
		Name:          req.Name,
		Department:    req.Department,
		Floor:         req.Floor,
		BedCount:      req.BedCount,
		NurseInCharge: req.NurseInCharge,
		Description:   req.Description,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, w)
}

func (h *WardHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	w, err := h.wardSvc.GetWard(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, w)
}

type updateWardRequest struct {
	Name          *string          `json:"name"`
	Department    *string          `json:"department"`
	Floor         *int             `json:"floor"`
	NurseInCharge *string          `json:"nurse_in_charge"`
	Status        *ward.WardStatus `json:"status"`
	Description   *string          `json:"description"`
}

func (h *WardHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateWardRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	w, err := h.wardSvc.UpdateWard(c.Request.Context(), id, &ward.UpdateWardCommand{
		Name:          req.Name,
		Department:    req.Department,
		Floor:         req.Floor,
		NurseInCharge: req.NurseInCharge,
		Status:        req.Status,
		Description:   req.Description,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, w)
}

func (h *WardHandler) List(c *gin.Context) {
	q := &ward.ListWardsQuery{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := ward.WardStatus(raw)
		q.Status = &status
	}
	if raw := c.Query("floor"); raw != "" {
		floor := parseQueryInt(c, "floor", 0)
		q.Floor = &floor
	}

	page, err := h.wardSvc.ListWards(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type resizeWardRequest struct {
	BedCount int `json:"bed_count" binding:"min=0"`
}

func (h *WardHandler) Resize(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req resizeWardRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	w, err := h.wardSvc.ResizeWard(c.Request.Context(), id, req.BedCount, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, w)
}

func (h *WardHandler) Occupancy(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	occ, err := h.wardSvc.Occupancy(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, occ)
}

func (h *WardHandler) HospitalOccupancy(c *gin.Context) {
	occ, err := h.wardSvc.HospitalOccupancy(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, occ)
}

type bedView struct {
	*ward.Bed
	DaysOccupied int `json:"days_occupied"`
}

func (h *WardHandler) ListBeds(c *gin.Context) {
	q := &ward.ListBedsQuery{}
	if raw := c.Query("ward_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, 400, "invalid ward_id: must be a valid UUID")
			return
		}
		q.WardID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := ward.BedStatus(raw)
		q.Status = &status
	}

	beds, err := h.wardSvc.ListBeds(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]bedView, 0, len(beds))
	for _, b := range beds {
		views = append(views, bedView{Bed: b, DaysOccupied: b.DaysOccupied()})
	}
	respondOK(c, views)
}

type setBedStatusRequest struct {
	Status        ward.BedStatus `json:"status" binding:"required"`
	PatientID     *uuid.UUID     `json:"patient_id"`
	AdmissionDate *time.Time     `json:"admission_date"`
}

func (h *WardHandler) SetBedStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req setBedStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.wardSvc.SetBedState(c.Request.Context(), id, req.Status, req.PatientID, req.AdmissionDate, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

type assignBedRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

// AssignBed admits a patient into a specific bed, identified by bed id.
func (h *WardHandler) AssignBed(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req assignBedRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.admissionSvc.AssignPatientToBed(c.Request.Context(), id, req.PatientID, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

// DischargeBed vacates an occupied bed and discharges its patient.
func (h *WardHandler) DischargeBed(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.admissionSvc.DischargePatientFromBed(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}
