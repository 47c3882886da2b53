package attendance

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
)

// Attendance is one work day for one user. ClockOut stays nil while the
// record is open; at most one open record may exist per user per work date.
type Attendance struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id"`
	WorkDate  time.Time  `json:"work_date"`
	ClockIn   time.Time  `json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out,omitempty"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}

func (a *Attendance) IsOpen() bool {
	return a.ClockOut == nil
}

// WorkedHours is zero while the record is still open.
func (a *Attendance) WorkedHours() float64 {
	if a.ClockOut == nil {
		return 0
	}
	return a.ClockOut.Sub(a.ClockIn).Hours()
}

type ListFilter struct {
	UserID       int64
	DepartmentID *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

var (
	ErrAlreadyClockedIn = internal.NewConflictError("an open attendance record already exists for today", internal.ErrCodeInvalidStatus)
	ErrNotClockedIn     = internal.NewValidationError("no open attendance record to clock out of", internal.ErrCodeInvalidStatus)
	ErrRecordNotFound   = internal.NewNotFoundError("attendance record not found", internal.ErrCodeRequestNotFound)
)
