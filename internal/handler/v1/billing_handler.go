package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/service"
	"github.com/shopspring/decimal"
)

type BillingHandler struct {
	billingSvc *service.BillingService
}

func NewBillingHandler(billingSvc *service.BillingService) *BillingHandler {
	return &BillingHandler{billingSvc: billingSvc}
}

type serviceItemRequest struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type createBillRequest struct {
	PatientID   uuid.UUID            `json:"patient_id" binding:"required"`
	Services    []serviceItemRequest `json:"services" binding:"required"`
	TotalAmount decimal.Decimal      `json:"total_amount" binding:"required"`
}

func (h *BillingHandler) Create(c *gin.Context) {
	var req createBillRequest
	if !bindJSON(c, &req) {
		return
	}

	services := make([]billing.ServiceItem, 0, len(req.Services))
	for _, s := range req.Services {
		services = append(services, billing.ServiceItem{Name: s.Name, Amount: s.Amount})
	}

	callerID, callerRole := caller(c)
	b, err := h.billingSvc.CreateBill(c.Request.Context(), &billing.CreateBillCommand{
		PatientID:   req.PatientID,
		Services:    services,
		TotalAmount: req.TotalAmount,
		CreatedBy:   callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

func (h *BillingHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.billingSvc.GetBill(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *BillingHandler) List(c *gin.Context) {
	q := &billing.ListBillsQuery{
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
	if raw := c.Query("status"); raw != "" {
		status := billing.BillStatus(raw)
		q.Status = &status
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			q.DateTo = &t
		}
	}

	page, err := h.billingSvc.ListBills(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type addPaymentRequest struct {
	Amount        decimal.Decimal       `json:"amount" binding:"required"`
	Method        billing.PaymentMethod `json:"method" binding:"required"`
	TransactionID string                `json:"transaction_id"`
	Notes         string                `json:"notes"`
}

func (h *BillingHandler) AddPayment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.billingSvc.AddPayment(c.Request.Context(), id, &billing.AddPaymentCommand{
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		ProcessedBy:   callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *BillingHandler) ListPayments(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.billingSvc.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, payments)
}

type markPaidRequest struct {
	Method billing.PaymentMethod `json:"method" binding:"required"`
}

func (h *BillingHandler) MarkPaid(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req markPaidRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.billingSvc.MarkPaid(c.Request.Context(), id, req.Method, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *BillingHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	b, err := h.billingSvc.CancelBill(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *BillingHandler) RevenueStats(c *gin.Context) {
	stats, err := h.billingSvc.RevenueStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}
