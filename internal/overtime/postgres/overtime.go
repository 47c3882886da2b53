package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/overtime"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(req *overtime.OvertimeRequest) error {
	return r.db.Create(req).Error
}

func (r *Repository) GetByID(id int64) (*overtime.OvertimeRequest, error) {
	var req overtime.OvertimeRequest
	err := r.db.First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) ListByUser(userID int64, limit, offset int) ([]*overtime.OvertimeRequest, error) {
	var reqs []*overtime.OvertimeRequest
	err := r.db.
		Where("user_id = ?", userID).
		Order("work_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) ListPending(limit, offset int) ([]*overtime.OvertimeRequest, error) {
	var reqs []*overtime.OvertimeRequest
	err := r.db.
		Where("status = ?", overtime.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) Review(id int64, status string, reviewerID int64, note string, reviewedAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"reviewed_at": reviewedAt,
		"updated_at":  reviewedAt,
	}
	if note != "" {
		updates["review_note"] = note
	}
	res := r.db.Model(&overtime.OvertimeRequest{}).
		Where("id = ? AND status = ?", id, overtime.StatusPending).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// SumApprovedHours totals approved overtime inside [from, to], the payroll
// read side.
func (r *Repository) SumApprovedHours(userID int64, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.Raw(`
		SELECT COALESCE(SUM(hours), 0) FROM overtime_requests
		WHERE user_id = ? AND status = ? AND work_date >= ? AND work_date <= ?`,
		userID, overtime.StatusApproved, from, to,
	).Scan(&total).Error
	return total, err
}

func (r *Repository) UserEmail(userID int64) (string, error) {
	var email string
	err := r.db.Raw("SELECT email FROM users WHERE id = ?", userID).Scan(&email).Error
	return email, err
}
