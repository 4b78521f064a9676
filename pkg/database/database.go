package database

import (
	"fmt"
	"time"

	"github.com/medicore/hospital-api/internal/config"
	"github.com/medicore/hospital-api/internal/domain"
	"github.com/medicore/hospital-api/internal/domain/appointment"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/domain/medrec"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "billing", "auth", "audit"}
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&ward.Ward{},
		&ward.Bed{},
		&patient.Patient{},
		&appointment.Appointment{},
		&billing.Bill{},
		&billing.Payment{},
		&medrec.MedicalRecord{},
		&medrec.Prescription{},
		&medrec.LabTest{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Ward occupancy reads group by bed status constantly.
		{
			name:  "idx_beds_ward_status",
			query: `CREATE INDEX IF NOT EXISTS idx_beds_ward_status ON clinical.beds (ward_id, status)`,
		},
		{
			name:  "idx_patients_admitted",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_admitted ON clinical.patients (ward_id, bed_number) WHERE deleted_at IS NULL AND status = 'admitted'`,
		},
		{
			name:  "idx_bills_patient_status",
			query: `CREATE INDEX IF NOT EXISTS idx_bills_patient_status ON billing.bills (patient_id, status)`,
		},
		{
			name:  "idx_payments_bill_created",
			query: `CREATE INDEX IF NOT EXISTS idx_payments_bill_created ON billing.payments (bill_id, created_at)`,
		},
		{
			name:  "idx_appointments_doctor_schedule",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_schedule ON clinical.appointments (doctor_id, scheduled_at) WHERE status NOT IN ('cancelled', 'no_show')`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
