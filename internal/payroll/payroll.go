package payroll

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
	StatusPaid      = "paid"
)

// Indonesian payroll arithmetic: the hourly rate divides the monthly salary
// by 173, overtime pays 1.5x; the daily rate for absence deductions divides
// by 22 working days.
const (
	HourlyRateDivisor  = 173
	OvertimeMultiplier = 1.5
	DailyRateDivisor   = 22
)

// Payroll amounts are IDR. Draft rows may be regenerated; finalized and paid
// rows are immutable.
type Payroll struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	UserID        int64     `json:"user_id"`
	PeriodYear    int       `json:"period_year"`
	PeriodMonth   int       `json:"period_month"`
	BaseSalary    int64     `json:"base_salary"`
	OvertimePay   int64     `json:"overtime_pay"`
	Deductions    int64     `json:"deductions"`
	NetSalary     int64     `json:"net_salary"`
	OvertimeHours float64   `json:"overtime_hours"`
	AbsenceDays   int       `json:"absence_days"`
	Status        string    `json:"status"`
	GeneratedAt   time.Time `json:"generated_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Payroll) TableName() string {
	return "payrolls"
}

func (p *Payroll) IsDraft() bool {
	return p.Status == StatusDraft
}

// PeriodRange is the inclusive date span of the payroll month.
func (p *Payroll) PeriodRange() (time.Time, time.Time) {
	from := time.Date(p.PeriodYear, time.Month(p.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

type Payslip struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	PayrollID     int64     `json:"payroll_id"`
	PayslipNumber string    `json:"payslip_number" gorm:"uniqueIndex"`
	PDFPath       string    `json:"-"`
	IssuedAt      time.Time `json:"issued_at"`
}

func (Payslip) TableName() string {
	return "payslips"
}

var (
	ErrPayrollNotFound  = internal.NewNotFoundError("payroll not found", internal.ErrCodePayrollNotFound)
	ErrPayslipNotFound  = internal.NewNotFoundError("payslip not found", internal.ErrCodePayrollNotFound)
	ErrNotDraft         = internal.NewValidationError("payroll is no longer a draft", internal.ErrCodeInvalidStatus)
	ErrNotFinalized     = internal.NewValidationError("payroll must be finalized first", internal.ErrCodeInvalidStatus)
	ErrNoEmployeeRecord = internal.NewValidationError("user has no employee record with a salary", internal.ErrCodeEmployeeNotFound)
)
