package employee

import (
	"strings"
	"time"
)

type CreateEmployeeDTO struct {
	EmployeeNumber string `json:"employee_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Position       string `json:"position"`
	SalaryIDR      int64  `json:"salary_idr"`
	DepartmentID   *int64 `json:"department_id,omitempty"`
	HireDate       string `json:"hire_date"`
	Status         string `json:"status,omitempty"`
}

func (d CreateEmployeeDTO) Validate() error {
	if d.EmployeeNumber == "" {
		return ValidationError{Msg: "employee_number is required"}
	}
	if d.FirstName == "" {
		return ValidationError{Msg: "first_name is required"}
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return ValidationError{Msg: "a valid email is required"}
	}
	if d.SalaryIDR < 0 {
		return ValidationError{Msg: "salary_idr cannot be negative"}
	}
	if _, err := d.ParsedHireDate(); err != nil {
		return ValidationError{Msg: "hire_date must be YYYY-MM-DD"}
	}
	switch d.Status {
	case "", StatusActive, StatusOnLeave, StatusTerminated:
	default:
		return ValidationError{Msg: "status must be active, on_leave or terminated"}
	}
	return nil
}

func (d CreateEmployeeDTO) ParsedHireDate() (time.Time, error) {
	return time.Parse("2006-01-02", d.HireDate)
}

// UpdateEmployeeDTO uses pointers so absent fields are left untouched.
type UpdateEmployeeDTO struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Position     *string `json:"position,omitempty"`
	SalaryIDR    *int64  `json:"salary_idr,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (d UpdateEmployeeDTO) Validate() error {
	if d.Email != nil && !strings.Contains(*d.Email, "@") {
		return ValidationError{Msg: "email is invalid"}
	}
	if d.SalaryIDR != nil && *d.SalaryIDR < 0 {
		return ValidationError{Msg: "salary_idr cannot be negative"}
	}
	if d.Status != nil {
		switch *d.Status {
		case StatusActive, StatusOnLeave, StatusTerminated:
		default:
			return ValidationError{Msg: "status must be active, on_leave or terminated"}
		}
	}
	return nil
}

type DepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ManagerID   *int64 `json:"manager_id,omitempty"`
}

func (d DepartmentDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
