package employee

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
)

// Employee is the HR record. UserID is set exactly once, when the person
// accepts their invitation; until then the record exists without a login.
type Employee struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	EmployeeNumber string     `json:"employee_number" gorm:"uniqueIndex"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Position       string     `json:"position"`
	SalaryIDR      int64      `json:"salary_idr"`
	DepartmentID   *int64     `json:"department_id,omitempty"`
	UserID         *int64     `json:"user_id,omitempty"`
	HireDate       time.Time  `json:"hire_date"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-" gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description,omitempty"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// ListFilter narrows employee listings. Zero values mean "no filter".
type ListFilter struct {
	DepartmentID *int64
	Status       string
	Search       string
	Limit        int
	Offset       int
}

var (
	ErrEmployeeNotFound   = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	ErrDepartmentNotFound = internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	ErrDuplicateNumber    = internal.NewConflictError("employee number already in use", internal.ErrCodeValidationFailed)
	ErrDuplicateEmail     = internal.NewConflictError("employee email already in use", internal.ErrCodeDuplicateEmail)
	ErrDepartmentNotEmpty = internal.NewConflictError("department still has employees", internal.ErrCodeDepartmentNotEmpty)
	ErrDuplicateDeptName  = internal.NewConflictError("department name already in use", internal.ErrCodeValidationFailed)
)
