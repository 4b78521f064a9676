package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medicore/hospital-api/internal/domain/billing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) CreateBill(ctx context.Context, b *billing.Bill) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BillingRepository) GetBillByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var b billing.Bill
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillingRepository) ListBills(ctx context.Context, q *billing.ListBillsQuery) (*billing.PagedBills, error) {
	query := r.db.WithContext(ctx).Model(&billing.Bill{})

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		query = query.Where("created_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("created_at <= ?", *q.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var bills []*billing.Bill
	err := query.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}

	return &billing.PagedBills{
		Bills:      bills,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// ApplyPayment locks the bill row, runs the domain mutation, then persists the
// payment and the updated bill in the same transaction. Two concurrent
// payments against the same bill serialize on the row lock, so the second one
// sees the first one's paid_amount.
func (r *BillingRepository) ApplyPayment(ctx context.Context, billID uuid.UUID, p *billing.Payment, apply func(b *billing.Bill) error) (*billing.Bill, error) {
	var result *billing.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b billing.Bill
		err := tx.Clauses(forUpdate()).First(&b, "id = ?", billID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ErrBillNotFound
		}
		if err != nil {
			return err
		}

		if err := apply(&b); err != nil {
			return err
		}

		p.BillID = b.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"paid_amount": b.PaidAmount,
			"status":      b.Status,
		}
		if b.PaymentDate != nil {
			updates["payment_date"] = b.PaymentDate
		}
		if err := tx.Model(&billing.Bill{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return err
		}

		result = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Cancel locks the bill row and runs the domain cancellation against the
// locked state, so a payment that committed after the caller's read cannot
// be lost: its paid_amount is visible to the check.
func (r *BillingRepository) Cancel(ctx context.Context, billID uuid.UUID, cancel func(b *billing.Bill) error) (*billing.Bill, error) {
	var result *billing.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b billing.Bill
		err := tx.Clauses(forUpdate()).First(&b, "id = ?", billID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ErrBillNotFound
		}
		if err != nil {
			return err
		}

		if err := cancel(&b); err != nil {
			return err
		}

		if err := tx.Model(&billing.Bill{}).Where("id = ?", b.ID).Update("status", b.Status).Error; err != nil {
			return err
		}

		result = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *BillingRepository) ListPayments(ctx context.Context, billID uuid.UUID) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *BillingRepository) RevenueStats(ctx context.Context) (*billing.RevenueStats, error) {
	var row struct {
		TotalRevenue  decimal.Decimal
		PendingAmount decimal.Decimal
		PaidAmount    decimal.Decimal
		TotalBills    int64
		PaidBills     int64
		PendingBills  int64
	}

	err := r.db.WithContext(ctx).Model(&billing.Bill{}).
		Select(`
			COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0) AS total_revenue,
			COALESCE(SUM(total_amount - paid_amount) FILTER (WHERE status IN ('pending', 'partial')), 0) AS pending_amount,
			COALESCE(SUM(paid_amount) FILTER (WHERE status <> 'cancelled'), 0) AS paid_amount,
			COUNT(*) AS total_bills,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_bills,
			COUNT(*) FILTER (WHERE status IN ('pending', 'partial')) AS pending_bills
		`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &billing.RevenueStats{
		TotalRevenue:  row.TotalRevenue,
		PendingAmount: row.PendingAmount,
		PaidAmount:    row.PaidAmount,
		TotalBills:    row.TotalBills,
		PaidBills:     row.PaidBills,
		PendingBills:  row.PendingBills,
	}, nil
}
