package activity

import "time"

// ActivityLog rows are append-only; there is no update or delete path.
type ActivityLog struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

type ListFilter struct {
	UserID int64
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
