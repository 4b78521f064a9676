package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/appointment"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/domain/medrec"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"github.com/medicore/hospital-api/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, ward.ErrWardNotFound),
		errors.Is(err, ward.ErrBedNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, billing.ErrBillNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, medrec.ErrRecordNotFound),
		errors.Is(err, medrec.ErrPrescriptionNotFound),
		errors.Is(err, medrec.ErrLabTestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	// State conflicts: the request was well-formed but the resource's
	// current state refuses it.
	case errors.Is(err, ward.ErrBedNotAvailable),
		errors.Is(err, ward.ErrBedNotOccupied),
		errors.Is(err, ward.ErrInsufficientFreeBeds),
		errors.Is(err, patient.ErrAlreadyAdmitted),
		errors.Is(err, patient.ErrNotAdmitted),
		errors.Is(err, billing.ErrExceedsRemaining),
		errors.Is(err, billing.ErrBillNotPayable),
		errors.Is(err, billing.ErrBillHasPayments),
		errors.Is(err, billing.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrAppointmentConflict),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, medrec.ErrNotRefillable),
		errors.Is(err, medrec.ErrLabTestClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, ward.ErrInvalidBedCount),
		errors.Is(err, ward.ErrInvalidBedStatus),
		errors.Is(err, ward.ErrInvalidWardStatus),
		errors.Is(err, ward.ErrOccupiedRequiresPatient),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, patient.ErrInvalidDateOfBirth),
		errors.Is(err, billing.ErrNoServices),
		errors.Is(err, billing.ErrInvalidServiceAmount),
		errors.Is(err, billing.ErrInvalidTotalAmount),
		errors.Is(err, billing.ErrInvalidPaymentAmount),
		errors.Is(err, billing.ErrInvalidPaymentMethod),
		errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidAppointmentType),
		errors.Is(err, medrec.ErrNoMedications):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// caller pulls the authenticated user's identity out of the gin context,
// where the auth middleware stored it.
func caller(c *gin.Context) (uuid.UUID, string) {
	id, _ := c.Get(ctxKeyUserID)
	role, _ := c.Get(ctxKeyUserRole)

	userID, _ := id.(uuid.UUID)
	userRole, _ := role.(string)
	return userID, userRole
}
