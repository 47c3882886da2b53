package postgres

import (
	"errors"

	"github.com/rachmanhakim/hr-management/internal/employee"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

func (r *Repository) GetByID(id int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.First(&emp, "id = ? AND deleted_at IS NULL", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) GetByUserID(userID int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.First(&emp, "user_id = ? AND deleted_at IS NULL", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) List(filter employee.ListFilter) ([]*employee.Employee, int64, error) {
	q := r.db.Model(&employee.Employee{}).Where("deleted_at IS NULL")

	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR employee_number LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emps []*employee.Employee
	err := q.Order("employee_number ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&emps).Error
	return emps, total, err
}

func (r *Repository) Update(emp *employee.Employee) error {
	return r.db.Save(emp).Error
}

// Delete is a soft delete; payroll history keeps referring to the row.
func (r *Repository) Delete(id int64) error {
	return r.db.Exec("UPDATE employees SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL", id).Error
}

func (r *Repository) EmployeeNumberExists(number string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).
		Where("employee_number = ? AND id != ? AND deleted_at IS NULL", number, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) EmailExists(email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).
		Where("email = ? AND id != ? AND deleted_at IS NULL", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateDepartment(dept *employee.Department) error {
	return r.db.Create(dept).Error
}

func (r *Repository) GetDepartment(id int64) (*employee.Department, error) {
	var dept employee.Department
	err := r.db.First(&dept, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *Repository) ListDepartments() ([]*employee.Department, error) {
	var depts []*employee.Department
	err := r.db.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *Repository) UpdateDepartment(dept *employee.Department) error {
	return r.db.Save(dept).Error
}

func (r *Repository) DeleteDepartment(id int64) error {
	return r.db.Delete(&employee.Department{}, id).Error
}

func (r *Repository) DepartmentNameExists(name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Department{}).
		Where("name = ? AND id != ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) CountEmployeesInDepartment(id int64) (int64, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).
		Where("department_id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count, err
}
