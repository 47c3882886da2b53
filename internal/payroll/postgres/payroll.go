package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/payroll"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(p *payroll.Payroll) error {
	return r.db.Create(p).Error
}

func (r *Repository) GetByID(id int64) (*payroll.Payroll, error) {
	var p payroll.Payroll
	err := r.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByUserAndPeriod(userID int64, year, month int) (*payroll.Payroll, error) {
	var p payroll.Payroll
	err := r.db.
		Where("user_id = ? AND period_year = ? AND period_month = ?", userID, year, month).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(filter payroll.ListFilter) ([]*payroll.Payroll, error) {
	q := r.db.Model(&payroll.Payroll{})
	if filter.PeriodYear > 0 {
		q = q.Where("period_year = ?", filter.PeriodYear)
	}
	if filter.PeriodMonth > 0 {
		q = q.Where("period_month = ?", filter.PeriodMonth)
	}
	if filter.UserID > 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var payrolls []*payroll.Payroll
	err := q.Order("period_year DESC, period_month DESC, user_id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&payrolls).Error
	return payrolls, err
}

// UpdateDraftAmounts recomputes a draft in place; the status guard keeps
// finalized rows immutable.
func (r *Repository) UpdateDraftAmounts(p *payroll.Payroll) (bool, error) {
	res := r.db.Model(&payroll.Payroll{}).
		Where("id = ? AND status = ?", p.ID, payroll.StatusDraft).
		Updates(map[string]interface{}{
			"base_salary":    p.BaseSalary,
			"overtime_pay":   p.OvertimePay,
			"deductions":     p.Deductions,
			"net_salary":     p.NetSalary,
			"overtime_hours": p.OvertimeHours,
			"absence_days":   p.AbsenceDays,
			"generated_at":   p.GeneratedAt,
			"updated_at":     time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) SetStatus(id int64, from, to string, at time.Time) (bool, error) {
	res := r.db.Model(&payroll.Payroll{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) EmployeeProfile(userID int64) (string, int64, bool, error) {
	var row struct {
		FirstName string
		LastName  string
		SalaryIDR int64
	}
	err := r.db.Raw(`
		SELECT first_name, last_name, salary_idr
		FROM employees
		WHERE user_id = ? AND deleted_at IS NULL`, userID).Scan(&row).Error
	if err != nil {
		return "", 0, false, err
	}
	if row.FirstName == "" && row.SalaryIDR == 0 {
		return "", 0, false, nil
	}
	name := row.FirstName
	if row.LastName != "" {
		name += " " + row.LastName
	}
	return name, row.SalaryIDR, true, nil
}

func (r *Repository) ApprovedOvertimeHours(userID int64, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.Raw(`
		SELECT COALESCE(SUM(hours), 0) FROM overtime_requests
		WHERE user_id = ? AND status = 'approved' AND work_date >= ? AND work_date <= ?`,
		userID, from, to,
	).Scan(&total).Error
	return total, err
}

// AbsenceDays counts attendance rows explicitly marked absent in the period.
// Leave approved for those dates is not a deduction, so approved-leave days
// are excluded.
func (r *Repository) AbsenceDays(userID int64, from, to time.Time) (int, error) {
	var count int
	err := r.db.Raw(`
		SELECT COUNT(*) FROM attendance a
		WHERE a.user_id = ? AND a.status = 'absent'
		  AND a.work_date >= ? AND a.work_date <= ?
		  AND NOT EXISTS (
			SELECT 1 FROM leave_requests l
			WHERE l.user_id = a.user_id AND l.status = 'approved'
			  AND a.work_date >= l.start_date AND a.work_date <= l.end_date)`,
		userID, from, to,
	).Scan(&count).Error
	return count, err
}

func (r *Repository) CreatePayslip(slip *payroll.Payslip) error {
	return r.db.Create(slip).Error
}

func (r *Repository) GetPayslipByPayrollID(payrollID int64) (*payroll.Payslip, error) {
	var slip payroll.Payslip
	err := r.db.First(&slip, "payroll_id = ?", payrollID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}
