package employee

import (
	"log/slog"
	"time"
)

type Repository interface {
	Create(emp *Employee) error
	GetByID(id int64) (*Employee, error)
	GetByUserID(userID int64) (*Employee, error)
	List(filter ListFilter) ([]*Employee, int64, error)
	Update(emp *Employee) error
	Delete(id int64) error
	EmployeeNumberExists(number string, excludeID int64) (bool, error)
	EmailExists(email string, excludeID int64) (bool, error)

	CreateDepartment(dept *Department) error
	GetDepartment(id int64) (*Department, error)
	ListDepartments() ([]*Department, error)
	UpdateDepartment(dept *Department) error
	DeleteDepartment(id int64) error
	DepartmentNameExists(name string, excludeID int64) (bool, error)
	CountEmployeesInDepartment(id int64) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.repo.EmployeeNumberExists(dto.EmployeeNumber, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateNumber
	}
	if taken, err := s.repo.EmailExists(dto.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}
	if dto.DepartmentID != nil {
		if _, err := s.mustGetDepartment(*dto.DepartmentID); err != nil {
			return nil, err
		}
	}

	hireDate, _ := dto.ParsedHireDate()
	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	emp := &Employee{
		EmployeeNumber: dto.EmployeeNumber,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Position:       dto.Position,
		SalaryIDR:      dto.SalaryIDR,
		DepartmentID:   dto.DepartmentID,
		HireDate:       hireDate,
		Status:         status,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "employee_number", dto.EmployeeNumber)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "employee_number", emp.EmployeeNumber)
	return emp, nil
}

func (s *Service) GetByID(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// GetByUserID resolves the employee record owned by a login, for self-service
// views.
func (s *Service) GetByUserID(userID int64) (*Employee, error) {
	emp, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) List(filter ListFilter) ([]*Employee, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return s.repo.List(filter)
}

func (s *Service) Update(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != emp.Email {
		if taken, err := s.repo.EmailExists(*dto.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrDuplicateEmail
		}
		emp.Email = *dto.Email
	}
	if dto.DepartmentID != nil {
		if _, err := s.mustGetDepartment(*dto.DepartmentID); err != nil {
			return nil, err
		}
		emp.DepartmentID = dto.DepartmentID
	}
	if dto.FirstName != nil {
		emp.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		emp.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		emp.Phone = *dto.Phone
	}
	if dto.Position != nil {
		emp.Position = *dto.Position
	}
	if dto.SalaryIDR != nil {
		emp.SalaryIDR = *dto.SalaryIDR
	}
	if dto.Status != nil {
		emp.Status = *dto.Status
	}
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	return emp, nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) CreateDepartment(dto DepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if taken, err := s.repo.DepartmentNameExists(dto.Name, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateDeptName
	}

	dept := &Department{
		Name:        dto.Name,
		Description: dto.Description,
		ManagerID:   dto.ManagerID,
	}
	if err := s.repo.CreateDepartment(dept); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return dept, nil
}

func (s *Service) GetDepartment(id int64) (*Department, error) {
	return s.mustGetDepartment(id)
}

func (s *Service) ListDepartments() ([]*Department, error) {
	return s.repo.ListDepartments()
}

func (s *Service) UpdateDepartment(id int64, dto DepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	dept, err := s.mustGetDepartment(id)
	if err != nil {
		return nil, err
	}
	if dto.Name != dept.Name {
		if taken, err := s.repo.DepartmentNameExists(dto.Name, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrDuplicateDeptName
		}
	}

	dept.Name = dto.Name
	dept.Description = dto.Description
	dept.ManagerID = dto.ManagerID
	dept.UpdatedAt = time.Now()

	if err := s.repo.UpdateDepartment(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment refuses while employees are still assigned; reassign them
// first.
func (s *Service) DeleteDepartment(id int64) error {
	if _, err := s.mustGetDepartment(id); err != nil {
		return err
	}

	count, err := s.repo.CountEmployeesInDepartment(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentNotEmpty
	}

	if err := s.repo.DeleteDepartment(id); err != nil {
		return err
	}
	s.logger.Info("department deleted", "department_id", id)
	return nil
}

func (s *Service) mustGetDepartment(id int64) (*Department, error) {
	dept, err := s.repo.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}
	return dept, nil
}
