package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medicore/hospital-api/internal/config"
	"github.com/medicore/hospital-api/internal/domain"
	"github.com/medicore/hospital-api/internal/service"
	"github.com/medicore/hospital-api/pkg/auth"
	"github.com/medicore/hospital-api/pkg/metrics"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTManager     *auth.JWTManager
	Metrics        *metrics.Collector
	AuthSvc        *service.AuthService
	WardSvc        *service.WardService
	PatientSvc     *service.PatientService
	AdmissionSvc   *service.AdmissionService
	BillingSvc     *service.BillingService
	AppointmentSvc *service.AppointmentService
	MedrecSvc      *service.MedicalRecordService
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(deps.Logger))
	r.Use(MetricsMiddleware(deps.Metrics))
	r.Use(corsMiddleware(deps.Config.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthSvc)
	wardHandler := NewWardHandler(deps.WardSvc, deps.AdmissionSvc)
	patientHandler := NewPatientHandler(deps.PatientSvc, deps.AdmissionSvc)
	billingHandler := NewBillingHandler(deps.BillingSvc)
	appointmentHandler := NewAppointmentHandler(deps.AppointmentSvc)
	medrecHandler := NewMedicalRecordHandler(deps.MedrecSvc)

	api := r.Group("/api/v1")

	// Public endpoints
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Everything else requires a valid token.
	authed := api.Group("")
	authed.Use(AuthMiddleware(deps.JWTManager))

	authed.POST("/auth/register", RequireRoles(domain.RoleAdmin), authHandler.Register)
	authed.POST("/auth/change-password", authHandler.ChangePassword)

	staff := []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleReceptionist}
	clinical := []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse}

	wards := authed.Group("/wards")
	{
		wards.POST("", RequireRoles(domain.RoleAdmin), wardHandler.Create)
		wards.GET("", RequireRoles(staff...), wardHandler.List)
		wards.GET("/:id", RequireRoles(staff...), wardHandler.Get)
		wards.PATCH("/:id", RequireRoles(domain.RoleAdmin), wardHandler.Update)
		wards.PUT("/:id/beds", RequireRoles(domain.RoleAdmin), wardHandler.Resize)
		wards.GET("/:id/occupancy", RequireRoles(staff...), wardHandler.Occupancy)
	}
	authed.GET("/wards/stats/occupancy", RequireRoles(staff...), wardHandler.HospitalOccupancy)

	beds := authed.Group("/beds")
	{
		beds.GET("", RequireRoles(staff...), wardHandler.ListBeds)
		beds.PATCH("/:id/status", RequireRoles(clinical...), wardHandler.SetBedStatus)
		beds.POST("/:id/assign", RequireRoles(clinical...), wardHandler.AssignBed)
		beds.POST("/:id/discharge", RequireRoles(clinical...), wardHandler.DischargeBed)
	}

	patients := authed.Group("/patients")
	{
		patients.POST("", RequireRoles(staff...), patientHandler.Create)
		patients.GET("", RequireRoles(staff...), patientHandler.List)
		patients.GET("/:id", RequireRoles(staff...), patientHandler.Get)
		patients.PATCH("/:id", RequireRoles(staff...), patientHandler.Update)
		patients.DELETE("/:id", RequireRoles(domain.RoleAdmin), patientHandler.Delete)
		patients.POST("/:id/admit", RequireRoles(clinical...), patientHandler.Admit)
		patients.POST("/:id/discharge", RequireRoles(clinical...), patientHandler.Discharge)
		patients.GET("/:id/prescriptions", RequireRoles(clinical...), medrecHandler.ListPrescriptions)
		patients.GET("/:id/lab-tests", RequireRoles(clinical...), medrecHandler.ListLabTests)
	}

	bills := authed.Group("/bills")
	{
		bills.POST("", RequireRoles(domain.RoleAdmin, domain.RoleReceptionist), billingHandler.Create)
		bills.GET("", RequireRoles(staff...), billingHandler.List)
		bills.GET("/:id", RequireRoles(staff...), billingHandler.Get)
		bills.POST("/:id/payments", RequireRoles(domain.RoleAdmin, domain.RoleReceptionist), billingHandler.AddPayment)
		bills.GET("/:id/payments", RequireRoles(staff...), billingHandler.ListPayments)
		bills.POST("/:id/mark-paid", RequireRoles(domain.RoleAdmin, domain.RoleReceptionist), billingHandler.MarkPaid)
		bills.POST("/:id/cancel", RequireRoles(domain.RoleAdmin), billingHandler.Cancel)
	}
	authed.GET("/billing/stats", RequireRoles(domain.RoleAdmin), billingHandler.RevenueStats)

	appointments := authed.Group("/appointments")
	{
		appointments.POST("", RequireRoles(staff...), appointmentHandler.Create)
		appointments.GET("", RequireRoles(staff...), appointmentHandler.List)
		appointments.GET("/:id", RequireRoles(staff...), appointmentHandler.Get)
		appointments.POST("/:id/confirm", RequireRoles(staff...), appointmentHandler.Confirm)
		appointments.POST("/:id/cancel", RequireRoles(staff...), appointmentHandler.Cancel)
		appointments.POST("/:id/complete", RequireRoles(clinical...), appointmentHandler.Complete)
		appointments.POST("/:id/no-show", RequireRoles(staff...), appointmentHandler.MarkNoShow)
	}

	records := authed.Group("/medical-records")
	{
		records.POST("", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), medrecHandler.CreateRecord)
		records.GET("", RequireRoles(clinical...), medrecHandler.ListRecords)
		records.GET("/:id", RequireRoles(clinical...), medrecHandler.GetRecord)
	}

	prescriptions := authed.Group("/prescriptions")
	{
		prescriptions.POST("", RequireRoles(domain.RoleDoctor), medrecHandler.CreatePrescription)
		prescriptions.POST("/:id/refill", RequireRoles(clinical...), medrecHandler.RefillPrescription)
	}

	labTests := authed.Group("/lab-tests")
	{
		labTests.POST("", RequireRoles(domain.RoleDoctor, domain.RoleNurse), medrecHandler.OrderLabTest)
		labTests.POST("/:id/complete", RequireRoles(clinical...), medrecHandler.CompleteLabTest)
	}

	return r
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowedOrigins[o] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := int(cfg.MaxAge / time.Second)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowedOrigins[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", methods)
				c.Header("Access-Control-Allow-Headers", headers)
				c.Header("Access-Control-Max-Age", strconv.Itoa(maxAge))
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
