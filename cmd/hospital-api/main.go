package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/medicore/hospital-api/internal/config"
	v1 "github.com/medicore/hospital-api/internal/handler/v1"
	"github.com/medicore/hospital-api/internal/repository/postgres"
	"github.com/medicore/hospital-api/internal/service"
	"github.com/medicore/hospital-api/pkg/auth"
	"github.com/medicore/hospital-api/pkg/database"
	"github.com/medicore/hospital-api/pkg/logger"
	"github.com/medicore/hospital-api/pkg/metrics"
	"github.com/medicore/hospital-api/pkg/tracer"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("hospital_api")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	// Repositories
	wardRepo := postgres.NewWardRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	medrecRepo := postgres.NewMedicalRecordRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	admissionStore := postgres.NewAdmissionStore(db)

	// Services
	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	wardSvc := service.NewWardService(wardRepo, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, log)
	admissionSvc := service.NewAdmissionService(admissionStore, patientRepo, wardRepo, auditSvc, log)
	billingSvc := service.NewBillingService(billingRepo, patientRepo, auditSvc, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, patientRepo, auditSvc, log)
	medrecSvc := service.NewMedicalRecordService(medrecRepo, patientRepo, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:         cfg,
		Logger:         log,
		JWTManager:     jwtManager,
		Metrics:        collector,
		AuthSvc:        authSvc,
		WardSvc:        wardSvc,
		PatientSvc:     patientSvc,
		AdmissionSvc:   admissionSvc,
		BillingSvc:     billingSvc,
		AppointmentSvc: appointmentSvc,
		MedrecSvc:      medrecSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
