package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/attendance"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(att *attendance.Attendance) error {
	return r.db.Create(att).Error
}

func (r *Repository) GetOpenByUserAndDate(userID int64, workDate time.Time) (*attendance.Attendance, error) {
	var att attendance.Attendance
	err := r.db.
		Where("user_id = ? AND work_date = ? AND clock_out IS NULL", userID, workDate).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// Close sets clock_out only when the record is still open.
func (r *Repository) Close(id int64, clockOut time.Time, notes string) (bool, error) {
	updates := map[string]interface{}{
		"clock_out":  clockOut,
		"updated_at": clockOut,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.Model(&attendance.Attendance{}).
		Where("id = ? AND clock_out IS NULL", id).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) ListByUser(filter attendance.ListFilter) ([]*attendance.Attendance, error) {
	q := r.db.Where("user_id = ?", filter.UserID)
	q = applyDateRange(q, filter)

	var records []*attendance.Attendance
	err := q.Order("work_date DESC, clock_in DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	return records, err
}

func (r *Repository) ListAll(filter attendance.ListFilter) ([]*attendance.Attendance, error) {
	q := r.db.Model(&attendance.Attendance{})
	if filter.DepartmentID != nil {
		q = q.Where(`user_id IN (
			SELECT user_id FROM employees
			WHERE department_id = ? AND user_id IS NOT NULL AND deleted_at IS NULL)`,
			*filter.DepartmentID)
	}
	q = applyDateRange(q, filter)

	var records []*attendance.Attendance
	err := q.Order("work_date DESC, user_id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	return records, err
}

func applyDateRange(q *gorm.DB, filter attendance.ListFilter) *gorm.DB {
	if filter.From != nil {
		q = q.Where("work_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("work_date <= ?", *filter.To)
	}
	return q
}
