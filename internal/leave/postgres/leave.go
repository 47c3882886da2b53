package postgres

import (
	"errors"
	"time"

	"github.com/rachmanhakim/hr-management/internal/leave"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(req *leave.LeaveRequest) error {
	return r.db.Create(req).Error
}

func (r *Repository) GetByID(id int64) (*leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := r.db.First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) ListByUser(userID int64, limit, offset int) ([]*leave.LeaveRequest, error) {
	var reqs []*leave.LeaveRequest
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) ListPending(limit, offset int) ([]*leave.LeaveRequest, error) {
	var reqs []*leave.LeaveRequest
	err := r.db.
		Where("status = ?", leave.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

// Review writes the decision only while the row is still pending.
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
	res := r.db.Model(&leave.LeaveRequest{}).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) UserEmail(userID int64) (string, error) {
	var email string
	err := r.db.Raw("SELECT email FROM users WHERE id = ?", userID).Scan(&email).Error
	return email, err
}
