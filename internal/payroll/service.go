package payroll

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(p *Payroll) error
	GetByID(id int64) (*Payroll, error)
	GetByUserAndPeriod(userID int64, year, month int) (*Payroll, error)
	List(filter ListFilter) ([]*Payroll, error)
	UpdateDraftAmounts(p *Payroll) (bool, error)
	SetStatus(id int64, from, to string, at time.Time) (bool, error)

	EmployeeProfile(userID int64) (name string, salary int64, found bool, err error)
	ApprovedOvertimeHours(userID int64, from, to time.Time) (float64, error)
	AbsenceDays(userID int64, from, to time.Time) (int, error)

	CreatePayslip(slip *Payslip) error
	GetPayslipByPayrollID(payrollID int64) (*Payslip, error)
}

type Service struct {
	repo      Repository
	exportDir string
	logger    *slog.Logger
}

func NewService(repo Repository, exportDir string, logger *slog.Logger) *Service {
	return &Service{repo: repo, exportDir: exportDir, logger: logger}
}

// Generate computes the payroll for a user and period. An existing draft is
// recomputed in place; a finalized or paid payroll refuses regeneration.
func (s *Service) Generate(dto GeneratePayrollDTO) (*Payroll, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	_, salary, found, err := s.repo.EmployeeProfile(dto.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoEmployeeRecord
	}

	existing, err := s.repo.GetByUserAndPeriod(dto.UserID, dto.PeriodYear, dto.PeriodMonth)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsDraft() {
		return nil, ErrNotDraft
	}

	p := existing
	if p == nil {
		p = &Payroll{
			UserID:      dto.UserID,
			PeriodYear:  dto.PeriodYear,
			PeriodMonth: dto.PeriodMonth,
			Status:      StatusDraft,
		}
	}

	from, to := p.PeriodRange()
	hours, err := s.repo.ApprovedOvertimeHours(dto.UserID, from, to)
	if err != nil {
		return nil, err
	}
	absenceDays, err := s.repo.AbsenceDays(dto.UserID, from, to)
	if err != nil {
		return nil, err
	}

	compute(p, salary, hours, absenceDays)
	p.GeneratedAt = time.Now()

	if existing == nil {
		if err := s.repo.Create(p); err != nil {
			s.logger.Error("failed to create payroll", "error", err, "user_id", dto.UserID)
			return nil, err
		}
	} else {
		updated, err := s.repo.UpdateDraftAmounts(p)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrNotDraft
		}
	}

	s.logger.Info("payroll generated",
		"payroll_id", p.ID,
		"user_id", p.UserID,
		"period", fmt.Sprintf("%04d-%02d", p.PeriodYear, p.PeriodMonth),
		"net_salary", p.NetSalary)
	return p, nil
}

// compute fills the amount columns from the inputs. Overtime pays
// hours*(salary/173)*1.5; each unapproved absence day deducts salary/22.
func compute(p *Payroll, salary int64, overtimeHours float64, absenceDays int) {
	hourlyRate := float64(salary) / HourlyRateDivisor
	dailyRate := float64(salary) / DailyRateDivisor

	p.BaseSalary = salary
	p.OvertimeHours = overtimeHours
	p.AbsenceDays = absenceDays
	p.OvertimePay = int64(math.Round(overtimeHours * hourlyRate * OvertimeMultiplier))
	p.Deductions = int64(math.Round(float64(absenceDays) * dailyRate))
	p.NetSalary = p.BaseSalary + p.OvertimePay - p.Deductions
}

func (s *Service) GetByID(id int64) (*Payroll, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPayrollNotFound
	}
	return p, nil
}

func (s *Service) List(filter ListFilter) ([]*Payroll, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 100
	}
	return s.repo.List(filter)
}

func (s *Service) Finalize(id int64) (*Payroll, error) {
	return s.transition(id, StatusDraft, StatusFinalized, ErrNotDraft)
}

func (s *Service) MarkPaid(id int64) (*Payroll, error) {
	return s.transition(id, StatusFinalized, StatusPaid, ErrNotFinalized)
}

func (s *Service) transition(id int64, from, to string, stateErr error) (*Payroll, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, stateErr
	}

	moved, err := s.repo.SetStatus(id, from, to, time.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, stateErr
	}

	p.Status = to
	s.logger.Info("payroll status changed", "payroll_id", id, "status", to)
	return p, nil
}

// IssuePayslip renders the PDF and records the payslip row. Only finalized or
// paid payrolls get payslips; reissuing returns the existing one.
func (s *Service) IssuePayslip(payrollID int64) (*Payslip, error) {
	p, err := s.GetByID(payrollID)
	if err != nil {
		return nil, err
	}
	if p.IsDraft() {
		return nil, ErrNotFinalized
	}

	if existing, err := s.repo.GetPayslipByPayrollID(payrollID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	name, _, found, err := s.repo.EmployeeProfile(p.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		name = fmt.Sprintf("user %d", p.UserID)
	}

	slip := &Payslip{
		PayrollID:     payrollID,
		PayslipNumber: fmt.Sprintf("PS-%04d%02d-%s", p.PeriodYear, p.PeriodMonth, uuid.New().String()[:8]),
		PDFPath:       filepath.Join(s.exportDir, fmt.Sprintf("payslip-%s.pdf", uuid.New().String())),
		IssuedAt:      time.Now(),
	}

	if err := renderPayslipPDF(p, slip, name); err != nil {
		s.logger.Error("failed to render payslip pdf", "error", err, "payroll_id", payrollID)
		return nil, err
	}

	if err := s.repo.CreatePayslip(slip); err != nil {
		return nil, err
	}

	s.logger.Info("payslip issued", "payslip_number", slip.PayslipNumber, "payroll_id", payrollID)
	return slip, nil
}

// PayslipFile resolves the stored PDF path for download.
func (s *Service) PayslipFile(payrollID int64) (*Payslip, error) {
	slip, err := s.repo.GetPayslipByPayrollID(payrollID)
	if err != nil {
		return nil, err
	}
	if slip == nil {
		return nil, ErrPayslipNotFound
	}
	return slip, nil
}
