package leave

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeUnpaid    = "unpaid"
	TypeMaternity = "maternity"
)

// LeaveRequest moves pending→approved or pending→rejected, once. The review
// fields are written together with the status flip.
type LeaveRequest struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"user_id"`
	LeaveType  string     `json:"leave_type"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote *string    `json:"review_note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

// Days is inclusive of both endpoints.
func (l *LeaveRequest) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

var (
	ErrRequestNotFound = internal.NewNotFoundError("leave request not found", internal.ErrCodeRequestNotFound)
	ErrNotPending      = internal.NewValidationError("leave request has already been reviewed", internal.ErrCodeInvalidStatus)
)
