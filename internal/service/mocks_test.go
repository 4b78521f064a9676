package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain"
	"github.com/medicore/hospital-api/internal/domain/appointment"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/medicore/hospital-api/internal/domain/patient"
	"github.com/medicore/hospital-api/internal/domain/ward"
	"go.uber.org/zap"
)

// Test doubles are plain structs with function fields; a test sets only the
// methods it expects to be called.

type mockWardRepo struct {
	createWithBedsFn        func(ctx context.Context, w *ward.Ward, beds []*ward.Bed) error
	getByIDFn               func(ctx context.Context, id uuid.UUID) (*ward.Ward, error)
	updateFn                func(ctx context.Context, id uuid.UUID, cmd *ward.UpdateWardCommand) (*ward.Ward, error)
	listFn                  func(ctx context.Context, q *ward.ListWardsQuery) (*ward.PagedWards, error)
	getBedByIDFn            func(ctx context.Context, id uuid.UUID) (*ward.Bed, error)
	getBedByWardAndNumberFn func(ctx context.Context, wardID uuid.UUID, number string) (*ward.Bed, error)
	listBedsFn              func(ctx context.Context, q *ward.ListBedsQuery) ([]*ward.Bed, error)
	updateBedFn             func(ctx context.Context, b *ward.Bed) error
	countBedsByStatusFn     func(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error)
	hospitalBedCountsFn     func(ctx context.Context) (ward.BedCounts, int64, error)
	maxBedSequenceFn        func(ctx context.Context, wardID uuid.UUID) (int, error)
	addBedsFn               func(ctx context.Context, wardID uuid.UUID, beds []*ward.Bed, newTotal int) error
	removeAvailableBedsFn   func(ctx context.Context, wardID uuid.UUID, removeCount, newTotal int) error
	countOccupiedFn         func(ctx context.Context, patientID uuid.UUID) (int64, error)
}

func (m *mockWardRepo) CreateWithBeds(ctx context.Context, w *ward.Ward, beds []*ward.Bed) error {
	return m.createWithBedsFn(ctx, w, beds)
}

func (m *mockWardRepo) GetByID(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockWardRepo) Update(ctx context.Context, id uuid.UUID, cmd *ward.UpdateWardCommand) (*ward.Ward, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockWardRepo) List(ctx context.Context, q *ward.ListWardsQuery) (*ward.PagedWards, error) {
	return m.listFn(ctx, q)
}

func (m *mockWardRepo) GetBedByID(ctx context.Context, id uuid.UUID) (*ward.Bed, error) {
	return m.getBedByIDFn(ctx, id)
}

func (m *mockWardRepo) GetBedByWardAndNumber(ctx context.Context, wardID uuid.UUID, number string) (*ward.Bed, error) {
	return m.getBedByWardAndNumberFn(ctx, wardID, number)
}

func (m *mockWardRepo) ListBeds(ctx context.Context, q *ward.ListBedsQuery) ([]*ward.Bed, error) {
	return m.listBedsFn(ctx, q)
}

func (m *mockWardRepo) UpdateBed(ctx context.Context, b *ward.Bed) error {
	return m.updateBedFn(ctx, b)
}

func (m *mockWardRepo) CountBedsByStatus(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error) {
	return m.countBedsByStatusFn(ctx, wardID)
}

func (m *mockWardRepo) HospitalBedCounts(ctx context.Context) (ward.BedCounts, int64, error) {
	return m.hospitalBedCountsFn(ctx)
}

func (m *mockWardRepo) MaxBedSequence(ctx context.Context, wardID uuid.UUID) (int, error) {
	return m.maxBedSequenceFn(ctx, wardID)
}

func (m *mockWardRepo) AddBeds(ctx context.Context, wardID uuid.UUID, beds []*ward.Bed, newTotal int) error {
	return m.addBedsFn(ctx, wardID, beds, newTotal)
}

func (m *mockWardRepo) RemoveAvailableBeds(ctx context.Context, wardID uuid.UUID, removeCount, newTotal int) error {
	return m.removeAvailableBedsFn(ctx, wardID, removeCount, newTotal)
}

func (m *mockWardRepo) CountOccupiedBedForPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	return m.countOccupiedFn(ctx, patientID)
}

type mockPatientRepo struct {
	createFn     func(ctx context.Context, p *patient.Patient) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	updateFn     func(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error)
	softDeleteFn func(ctx context.Context, id uuid.UUID) error
	listFn       func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return m.createFn(ctx, p)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockPatientRepo) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockPatientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.softDeleteFn(ctx, id)
}

func (m *mockPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	return m.listFn(ctx, q)
}

type mockBillingRepo struct {
	createBillFn   func(ctx context.Context, b *billing.Bill) error
	getBillByIDFn  func(ctx context.Context, id uuid.UUID) (*billing.Bill, error)
	listBillsFn    func(ctx context.Context, q *billing.ListBillsQuery) (*billing.PagedBills, error)
	applyPaymentFn func(ctx context.Context, billID uuid.UUID, p *billing.Payment, apply func(b *billing.Bill) error) (*billing.Bill, error)
	cancelFn       func(ctx context.Context, billID uuid.UUID, cancel func(b *billing.Bill) error) (*billing.Bill, error)
	listPaymentsFn func(ctx context.Context, billID uuid.UUID) ([]*billing.Payment, error)
	revenueStatsFn func(ctx context.Context) (*billing.RevenueStats, error)
}

func (m *mockBillingRepo) CreateBill(ctx context.Context, b *billing.Bill) error {
	return m.createBillFn(ctx, b)
}

func (m *mockBillingRepo) GetBillByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return m.getBillByIDFn(ctx, id)
}

func (m *mockBillingRepo) ListBills(ctx context.Context, q *billing.ListBillsQuery) (*billing.PagedBills, error) {
	return m.listBillsFn(ctx, q)
}

func (m *mockBillingRepo) ApplyPayment(ctx context.Context, billID uuid.UUID, p *billing.Payment, apply func(b *billing.Bill) error) (*billing.Bill, error) {
	return m.applyPaymentFn(ctx, billID, p, apply)
}

func (m *mockBillingRepo) Cancel(ctx context.Context, billID uuid.UUID, cancel func(b *billing.Bill) error) (*billing.Bill, error) {
	return m.cancelFn(ctx, billID, cancel)
}

func (m *mockBillingRepo) ListPayments(ctx context.Context, billID uuid.UUID) ([]*billing.Payment, error) {
	return m.listPaymentsFn(ctx, billID)
}

func (m *mockBillingRepo) RevenueStats(ctx context.Context) (*billing.RevenueStats, error) {
	return m.revenueStatsFn(ctx)
}

type mockAdmissionStore struct {
	admitPairFn     func(ctx context.Context, p *patient.Patient, b *ward.Bed) error
	dischargePairFn func(ctx context.Context, p *patient.Patient, b *ward.Bed) error
}

func (m *mockAdmissionStore) AdmitPair(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
	return m.admitPairFn(ctx, p, b)
}

func (m *mockAdmissionStore) DischargePair(ctx context.Context, p *patient.Patient, b *ward.Bed) error {
	return m.dischargePairFn(ctx, p, b)
}

type mockAppointmentRepo struct {
	createFn       func(ctx context.Context, a *appointment.Appointment) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	listFn         func(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error)
	updateStatusFn func(ctx context.Context, a *appointment.Appointment) error
	hasConflictFn  func(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	return m.createFn(ctx, a)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	return m.listFn(ctx, q)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return m.updateStatusFn(ctx, a)
}

func (m *mockAppointmentRepo) HasConflict(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	return m.hasConflictFn(ctx, doctorID, at)
}

type mockAuditRepo struct{}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	return nil
}

func newTestAuditService() *AuditService {
	return NewAuditService(&mockAuditRepo{}, zap.NewNop())
}
