package payroll_test

import (
	"log/slog"
	"math"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/payroll"
)

type mockPayrollRepository struct {
	payrolls      map[int64]*payroll.Payroll
	payslips      map[int64]*payroll.Payslip
	salaries      map[int64]int64
	names         map[int64]string
	overtimeHours map[int64]float64
	absenceDays   map[int64]int
	nextID        int64
	nextSlipID    int64
}

func newMockPayrollRepository() *mockPayrollRepository {
	return &mockPayrollRepository{
		payrolls:      make(map[int64]*payroll.Payroll),
		payslips:      make(map[int64]*payroll.Payslip),
		salaries:      map[int64]int64{1: 10_380_000},
		names:         map[int64]string{1: "Siti Rahma"},
		overtimeHours: make(map[int64]float64),
		absenceDays:   make(map[int64]int),
		nextID:        1,
		nextSlipID:    1,
	}
}

func (m *mockPayrollRepository) Create(p *payroll.Payroll) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	m.payrolls[p.ID] = p
	return nil
}

func (m *mockPayrollRepository) GetByID(id int64) (*payroll.Payroll, error) {
	p, ok := m.payrolls[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockPayrollRepository) GetByUserAndPeriod(userID int64, year, month int) (*payroll.Payroll, error) {
	for _, p := range m.payrolls {
		if p.UserID == userID && p.PeriodYear == year && p.PeriodMonth == month {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockPayrollRepository) List(filter payroll.ListFilter) ([]*payroll.Payroll, error) {
	var out []*payroll.Payroll
	for _, p := range m.payrolls {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPayrollRepository) UpdateDraftAmounts(p *payroll.Payroll) (bool, error) {
	stored, ok := m.payrolls[p.ID]
	if !ok || stored.Status != payroll.StatusDraft {
		return false, nil
	}
	cp := *p
	m.payrolls[p.ID] = &cp
	return true, nil
}

func (m *mockPayrollRepository) SetStatus(id int64, from, to string, at time.Time) (bool, error) {
	p, ok := m.payrolls[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (m *mockPayrollRepository) EmployeeProfile(userID int64) (string, int64, bool, error) {
	salary, ok := m.salaries[userID]
	if !ok {
		return "", 0, false, nil
	}
	return m.names[userID], salary, true, nil
}

func (m *mockPayrollRepository) ApprovedOvertimeHours(userID int64, from, to time.Time) (float64, error) {
	return m.overtimeHours[userID], nil
}

func (m *mockPayrollRepository) AbsenceDays(userID int64, from, to time.Time) (int, error) {
	return m.absenceDays[userID], nil
}

func (m *mockPayrollRepository) CreatePayslip(slip *payroll.Payslip) error {
	slip.ID = m.nextSlipID
	m.nextSlipID++
	m.payslips[slip.PayrollID] = slip
	return nil
}

func (m *mockPayrollRepository) GetPayslipByPayrollID(payrollID int64) (*payroll.Payslip, error) {
	slip, ok := m.payslips[payrollID]
	if !ok {
		return nil, nil
	}
	return slip, nil
}

var _ = Describe("PayrollService", func() {
	var (
		repo    *mockPayrollRepository
		service *payroll.Service
		tmpDir  string
	)

	dto := payroll.GeneratePayrollDTO{UserID: 1, PeriodYear: 2026, PeriodMonth: 8}

	BeforeEach(func() {
		repo = newMockPayrollRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		tmpDir = GinkgoT().TempDir()
		service = payroll.NewService(repo, tmpDir, logger)
	})

	Describe("Generate", func() {
		It("computes base, overtime and deductions", func() {
			repo.overtimeHours[1] = 10
			repo.absenceDays[1] = 2

			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())

			salary := float64(10_380_000)
			expectedOvertime := int64(math.Round(10 * (salary / 173) * 1.5))
			expectedDeduction := int64(math.Round(2 * (salary / 22)))

			Expect(p.Status).To(Equal(payroll.StatusDraft))
			Expect(p.BaseSalary).To(Equal(int64(10_380_000)))
			Expect(p.OvertimePay).To(Equal(expectedOvertime))
			Expect(p.Deductions).To(Equal(expectedDeduction))
			Expect(p.NetSalary).To(Equal(p.BaseSalary + p.OvertimePay - p.Deductions))
		})

		It("pays exactly the base salary without overtime or absences", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.OvertimePay).To(BeZero())
			Expect(p.Deductions).To(BeZero())
			Expect(p.NetSalary).To(Equal(p.BaseSalary))
		})

		It("recomputes an existing draft instead of duplicating", func() {
			p1, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())

			repo.overtimeHours[1] = 4
			p2, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(p2.ID).To(Equal(p1.ID))
			Expect(p2.OvertimePay).To(BeNumerically(">", 0))
			Expect(repo.payrolls).To(HaveLen(1))
		})

		It("refuses to regenerate a finalized payroll", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Finalize(p.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Generate(dto)
			Expect(err).To(Equal(payroll.ErrNotDraft))
		})

		It("fails for a user without an employee record", func() {
			_, err := service.Generate(payroll.GeneratePayrollDTO{UserID: 9, PeriodYear: 2026, PeriodMonth: 8})
			Expect(err).To(Equal(payroll.ErrNoEmployeeRecord))
		})

		It("rejects an out-of-range month", func() {
			_, err := service.Generate(payroll.GeneratePayrollDTO{UserID: 1, PeriodYear: 2026, PeriodMonth: 13})
			Expect(err).To(BeAssignableToTypeOf(payroll.ValidationError{}))
		})
	})

	Describe("status transitions", func() {
		It("walks draft→finalized→paid and nothing else", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.MarkPaid(p.ID)
			Expect(err).To(Equal(payroll.ErrNotFinalized))

			finalized, err := service.Finalize(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(finalized.Status).To(Equal(payroll.StatusFinalized))

			_, err = service.Finalize(p.ID)
			Expect(err).To(Equal(payroll.ErrNotDraft))

			paid, err := service.MarkPaid(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Status).To(Equal(payroll.StatusPaid))
		})
	})

	Describe("IssuePayslip", func() {
		It("refuses for a draft payroll", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.IssuePayslip(p.ID)
			Expect(err).To(Equal(payroll.ErrNotFinalized))
		})

		It("writes the PDF and records the payslip", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Finalize(p.ID)
			Expect(err).NotTo(HaveOccurred())

			slip, err := service.IssuePayslip(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(slip.PayslipNumber).To(HavePrefix("PS-202608-"))
			Expect(slip.PDFPath).To(BeARegularFile())
		})

		It("returns the existing payslip on reissue", func() {
			p, err := service.Generate(dto)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Finalize(p.ID)
			Expect(err).NotTo(HaveOccurred())

			first, err := service.IssuePayslip(p.ID)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.IssuePayslip(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.PayslipNumber).To(Equal(first.PayslipNumber))
		})
	})
})
