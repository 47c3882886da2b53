package overtime

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxHoursPerRequest caps a single overtime claim.
const MaxHoursPerRequest = 12

// OvertimeRequest shares the leave request lifecycle: pending→approved or
// pending→rejected, once. Approved hours feed the payroll computation.
type OvertimeRequest struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"user_id"`
	WorkDate   time.Time  `json:"work_date"`
	Hours      float64    `json:"hours"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote *string    `json:"review_note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

func (o *OvertimeRequest) IsPending() bool {
	return o.Status == StatusPending
}

var (
	ErrRequestNotFound = internal.NewNotFoundError("overtime request not found", internal.ErrCodeRequestNotFound)
	ErrNotPending      = internal.NewValidationError("overtime request has already been reviewed", internal.ErrCodeInvalidStatus)
)
