package export_test

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/export"
)

type mockExportRepository struct {
	employees [][]string
	payroll   [][]string
	overtime  [][]string
	activity  [][]string
}

func (m *mockExportRepository) Employees(filters export.Filters) (*export.Table, error) {
	rows := m.employees
	if filters.DepartmentID != nil {
		var filtered [][]string
		for _, row := range rows {
			if row[5] == "Engineering" && *filters.DepartmentID == 1 {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &export.Table{
		Name:   export.TypeEmployees,
		Header: []string{"employee_number", "first_name", "last_name", "email", "position", "department", "salary_idr", "status", "hire_date"},
		Rows:   rows,
	}, nil
}

func (m *mockExportRepository) Payroll(filters export.Filters) (*export.Table, error) {
	return &export.Table{
		Name:   export.TypePayroll,
		Header: []string{"id", "user_id", "email", "period_year", "period_month", "base_salary", "overtime_pay", "deductions", "net_salary", "status"},
		Rows:   m.payroll,
	}, nil
}

func (m *mockExportRepository) Overtime(filters export.Filters) (*export.Table, error) {
	return &export.Table{
		Name:   export.TypeOvertime,
		Header: []string{"id", "user_id", "email", "work_date", "hours", "status", "review_note"},
		Rows:   m.overtime,
	}, nil
}

func (m *mockExportRepository) Activities(filters export.Filters) (*export.Table, error) {
	return &export.Table{
		Name:   export.TypeActivities,
		Header: []string{"id", "user_id", "action", "entity", "entity_id", "detail", "created_at"},
		Rows:   m.activity,
	}, nil
}

var _ = Describe("ExportService", func() {
	var (
		repo    *mockExportRepository
		service *export.Service
		dir     string
	)

	readCSV := func(path string) [][]string {
		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		records, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		return records
	}

	BeforeEach(func() {
		repo = &mockExportRepository{
			employees: [][]string{
				{"EMP-0001", "Siti", "Rahma", "siti@company.com", "Engineer", "Engineering", "12000000", "active", "2024-03-01"},
				{"EMP-0002", "Budi", "Santoso", "budi@company.com", "Analyst", "Finance", "9000000", "active", "2023-07-15"},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		dir = GinkgoT().TempDir()
		service = export.NewService(repo, dir, nil, logger)
	})

	Describe("CSV", func() {
		It("writes header plus one line per row", func() {
			result, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ContentType).To(Equal("text/csv"))

			records := readCSV(result.FilePath)
			Expect(records).To(HaveLen(3))
			Expect(records[0][0]).To(Equal("employee_number"))
			Expect(records[1][0]).To(Equal("EMP-0001"))
		})

		It("applies the department filter", func() {
			deptID := int64(1)
			result, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{DepartmentID: &deptID})
			Expect(err).NotTo(HaveOccurred())

			records := readCSV(result.FilePath)
			Expect(records).To(HaveLen(2))
			Expect(records[1][5]).To(Equal("Engineering"))
		})

		It("produces a header-only file for an empty result", func() {
			repo.employees = nil
			result, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())

			records := readCSV(result.FilePath)
			Expect(records).To(HaveLen(1))
			Expect(records[0]).To(ContainElement("employee_number"))
		})

		It("uses a unique file name per export", func() {
			a, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			b, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.FileName).NotTo(Equal(b.FileName))
		})
	})

	Describe("ZIP", func() {
		It("bundles one CSV per dataset for all", func() {
			result, err := service.Export(export.TypeAll, export.FormatZIP, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ContentType).To(Equal("application/zip"))

			zr, err := zip.OpenReader(result.FilePath)
			Expect(err).NotTo(HaveOccurred())
			defer zr.Close()

			var names []string
			for _, f := range zr.File {
				names = append(names, f.Name)
			}
			Expect(names).To(ConsistOf("employees.csv", "payroll.csv", "overtime.csv", "activities.csv"))
		})

		It("falls back to a bundle when all is asked for as CSV", func() {
			result, err := service.Export(export.TypeAll, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Ext(result.FileName)).To(Equal(".zip"))
		})
	})

	Describe("JSON", func() {
		It("maps rows onto header-keyed objects", func() {
			result, err := service.Export(export.TypeEmployees, export.FormatJSON, export.Filters{})
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(result.FilePath)
			Expect(err).NotTo(HaveOccurred())

			var doc map[string][]map[string]string
			Expect(json.Unmarshal(data, &doc)).To(Succeed())
			Expect(doc["employees"]).To(HaveLen(2))
			Expect(doc["employees"][0]["employee_number"]).To(Equal("EMP-0001"))
		})
	})

	Describe("Excel and PDF", func() {
		It("writes a workbook for all datasets", func() {
			result, err := service.Export(export.TypeAll, export.FormatExcel, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FilePath).To(BeARegularFile())
			Expect(filepath.Ext(result.FileName)).To(Equal(".xlsx"))
		})

		It("writes a PDF report", func() {
			result, err := service.Export(export.TypeEmployees, export.FormatPDF, export.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FilePath).To(BeARegularFile())
		})
	})

	Describe("validation", func() {
		It("rejects an unknown data type", func() {
			_, err := service.Export("salaries", export.FormatCSV, export.Filters{})
			Expect(err).To(Equal(export.ErrUnsupportedType))
		})

		It("rejects an unknown format", func() {
			_, err := service.Export(export.TypeEmployees, "xml", export.Filters{})
			Expect(err).To(Equal(export.ErrUnsupportedFormat))
		})
	})

	Describe("CleanupOldFiles", func() {
		It("removes only files older than the max age", func() {
			result, err := service.Export(export.TypeEmployees, export.FormatCSV, export.Filters{})
			Expect(err).NotTo(HaveOccurred())

			stale := filepath.Join(dir, "stale.csv")
			Expect(os.WriteFile(stale, []byte("old"), 0o644)).To(Succeed())
			old := time.Now().Add(-48 * time.Hour)
			Expect(os.Chtimes(stale, old, old)).To(Succeed())

			removed, err := service.CleanupOldFiles(24 * time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(1))
			Expect(stale).NotTo(BeAnExistingFile())
			Expect(result.FilePath).To(BeARegularFile())
		})
	})
})
