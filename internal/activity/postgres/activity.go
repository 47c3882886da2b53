package postgres

import (
	"github.com/rachmanhakim/hr-management/internal/activity"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(entry *activity.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *Repository) List(filter activity.ListFilter) ([]*activity.ActivityLog, error) {
	q := r.db.Model(&activity.ActivityLog{})
	if filter.UserID > 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action LIKE ?", "%"+filter.Action+"%")
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var entries []*activity.ActivityLog
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	return entries, err
}
