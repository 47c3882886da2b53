package employee_test

import (
	"log/slog"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/employee"
)

type mockEmployeeRepository struct {
	employees   map[int64]*employee.Employee
	departments map[int64]*employee.Department
	nextEmpID   int64
	nextDeptID  int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees:   make(map[int64]*employee.Employee),
		departments: make(map[int64]*employee.Department),
		nextEmpID:   1,
		nextDeptID:  1,
	}
}

func (m *mockEmployeeRepository) Create(emp *employee.Employee) error {
	emp.ID = m.nextEmpID
	m.nextEmpID++
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok || emp.DeletedAt != nil {
		return nil, nil
	}
	cp := *emp
	return &cp, nil
}

func (m *mockEmployeeRepository) GetByUserID(userID int64) (*employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.UserID != nil && *emp.UserID == userID && emp.DeletedAt == nil {
			cp := *emp
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepository) List(filter employee.ListFilter) ([]*employee.Employee, int64, error) {
	var out []*employee.Employee
	for _, emp := range m.employees {
		if emp.DeletedAt != nil {
			continue
		}
		if filter.DepartmentID != nil && (emp.DepartmentID == nil || *emp.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(emp.FirstName, filter.Search) &&
			!strings.Contains(emp.LastName, filter.Search) &&
			!strings.Contains(emp.EmployeeNumber, filter.Search) {
			continue
		}
		out = append(out, emp)
	}
	return out, int64(len(out)), nil
}

func (m *mockEmployeeRepository) Update(emp *employee.Employee) error {
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepository) Delete(id int64) error {
	if emp, ok := m.employees[id]; ok {
		now := time.Now()
		emp.DeletedAt = &now
	}
	return nil
}

func (m *mockEmployeeRepository) EmployeeNumberExists(number string, excludeID int64) (bool, error) {
	for _, emp := range m.employees {
		if emp.EmployeeNumber == number && emp.ID != excludeID && emp.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepository) EmailExists(email string, excludeID int64) (bool, error) {
	for _, emp := range m.employees {
		if emp.Email == email && emp.ID != excludeID && emp.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepository) CreateDepartment(dept *employee.Department) error {
	dept.ID = m.nextDeptID
	m.nextDeptID++
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockEmployeeRepository) GetDepartment(id int64) (*employee.Department, error) {
	dept, ok := m.departments[id]
	if !ok {
		return nil, nil
	}
	cp := *dept
	return &cp, nil
}

func (m *mockEmployeeRepository) ListDepartments() ([]*employee.Department, error) {
	var out []*employee.Department
	for _, d := range m.departments {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockEmployeeRepository) UpdateDepartment(dept *employee.Department) error {
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockEmployeeRepository) DeleteDepartment(id int64) error {
	delete(m.departments, id)
	return nil
}

func (m *mockEmployeeRepository) DepartmentNameExists(name string, excludeID int64) (bool, error) {
	for _, d := range m.departments {
		if d.Name == name && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepository) CountEmployeesInDepartment(id int64) (int64, error) {
	var count int64
	for _, emp := range m.employees {
		if emp.DepartmentID != nil && *emp.DepartmentID == id && emp.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

var _ = Describe("EmployeeService", func() {
	var (
		repo    *mockEmployeeRepository
		service *employee.Service
	)

	validDTO := func() employee.CreateEmployeeDTO {
		return employee.CreateEmployeeDTO{
			EmployeeNumber: "EMP-0001",
			FirstName:      "Siti",
			LastName:       "Rahma",
			Email:          "siti.rahma@company.com",
			Position:       "Engineer",
			SalaryIDR:      12_000_000,
			HireDate:       "2024-03-01",
		}
	}

	BeforeEach(func() {
		repo = newMockEmployeeRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(repo, logger)
	})

	Describe("Create", func() {
		It("creates an active employee by default", func() {
			emp, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Status).To(Equal(employee.StatusActive))
			Expect(emp.HireDate.Format("2006-01-02")).To(Equal("2024-03-01"))
			Expect(emp.UserID).To(BeNil())
		})

		It("rejects a duplicate employee number", func() {
			_, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.Email = "other@company.com"
			_, err = service.Create(dto)
			Expect(err).To(Equal(employee.ErrDuplicateNumber))
		})

		It("rejects a duplicate email", func() {
			_, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.EmployeeNumber = "EMP-0002"
			_, err = service.Create(dto)
			Expect(err).To(Equal(employee.ErrDuplicateEmail))
		})

		It("rejects an unknown department", func() {
			dto := validDTO()
			deptID := int64(99)
			dto.DepartmentID = &deptID
			_, err := service.Create(dto)
			Expect(err).To(Equal(employee.ErrDepartmentNotFound))
		})

		It("rejects a malformed hire date", func() {
			dto := validDTO()
			dto.HireDate = "01-03-2024"
			_, err := service.Create(dto)
			Expect(err).To(BeAssignableToTypeOf(employee.ValidationError{}))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			dept, err := service.CreateDepartment(employee.DepartmentDTO{Name: "Engineering"})
			Expect(err).NotTo(HaveOccurred())

			a := validDTO()
			a.DepartmentID = &dept.ID
			_, err = service.Create(a)
			Expect(err).NotTo(HaveOccurred())

			b := validDTO()
			b.EmployeeNumber = "EMP-0002"
			b.Email = "b@company.com"
			b.FirstName = "Budi"
			_, err = service.Create(b)
			Expect(err).NotTo(HaveOccurred())
		})

		It("filters by department", func() {
			deptID := int64(1)
			emps, total, err := service.List(employee.ListFilter{DepartmentID: &deptID})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(emps[0].EmployeeNumber).To(Equal("EMP-0001"))
		})

		It("filters by name search", func() {
			emps, total, err := service.List(employee.ListFilter{Search: "Budi"})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(emps[0].FirstName).To(Equal("Budi"))
		})
	})

	Describe("Update", func() {
		It("applies only the provided fields", func() {
			emp, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())

			newSalary := int64(15_000_000)
			updated, err := service.Update(emp.ID, employee.UpdateEmployeeDTO{SalaryIDR: &newSalary})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.SalaryIDR).To(Equal(newSalary))
			Expect(updated.FirstName).To(Equal("Siti"))
		})

		It("returns not found for a missing employee", func() {
			_, err := service.Update(999, employee.UpdateEmployeeDTO{})
			Expect(err).To(Equal(employee.ErrEmployeeNotFound))
		})
	})

	Describe("Delete", func() {
		It("hides the employee from further reads", func() {
			emp, err := service.Create(validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(emp.ID)).To(Succeed())
			_, err = service.GetByID(emp.ID)
			Expect(err).To(Equal(employee.ErrEmployeeNotFound))
		})
	})

	Describe("Departments", func() {
		It("rejects a duplicate name", func() {
			_, err := service.CreateDepartment(employee.DepartmentDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateDepartment(employee.DepartmentDTO{Name: "Finance"})
			Expect(err).To(Equal(employee.ErrDuplicateDeptName))
		})

		It("refuses to delete a department with employees", func() {
			dept, err := service.CreateDepartment(employee.DepartmentDTO{Name: "Engineering"})
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.DepartmentID = &dept.ID
			_, err = service.Create(dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteDepartment(dept.ID)).To(Equal(employee.ErrDepartmentNotEmpty))
		})

		It("deletes an empty department", func() {
			dept, err := service.CreateDepartment(employee.DepartmentDTO{Name: "Legal"})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteDepartment(dept.ID)).To(Succeed())
			_, err = service.GetDepartment(dept.ID)
			Expect(err).To(Equal(employee.ErrDepartmentNotFound))
		})
	})
})
