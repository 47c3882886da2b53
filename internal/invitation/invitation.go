package invitation

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

// Invitation statuses. The only legal transitions are
// pending→accepted, pending→revoked, pending→expired (time-driven) and
// expired→pending (resend, which also rotates the token).
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
	StatusRevoked  = "revoked"
)

type UserInvitation struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email"`
	Token        string     `json:"-" gorm:"uniqueIndex"`
	Status       string     `json:"status"`
	InvitedBy    int64      `json:"invited_by"`
	RoleID       int64      `json:"role_id"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	EmployeeID   *int64     `json:"employee_id,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	RevokeReason *string    `json:"revoke_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (UserInvitation) TableName() string {
	return "user_invitations"
}

func (i *UserInvitation) IsPending() bool {
	return i.Status == StatusPending
}

func (i *UserInvitation) IsPastExpiry(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CanBeResent reports whether resend is a legal operation in the current
// state. Resend rotates the token and expiry and returns the row to pending.
func (i *UserInvitation) CanBeResent() bool {
	return i.Status == StatusPending || i.Status == StatusExpired
}

func (i *UserInvitation) CanBeRevoked() bool {
	return i.Status != StatusAccepted && i.Status != StatusRevoked
}

var (
	ErrInvitationNotFound = internal.NewNotFoundError("invitation not found", internal.ErrCodeInvitationNotFound)
	ErrEmailRegistered    = internal.NewConflictError("email already belongs to a registered user", internal.ErrCodeDuplicateEmail)
	ErrPendingExists      = internal.NewConflictError("a pending invitation already exists for this email", internal.ErrCodeDuplicateInvitation)
	ErrNotPending         = internal.NewValidationError("invitation is not pending", internal.ErrCodeInvalidStatus)
	ErrExpired            = internal.NewValidationError("invitation has expired", internal.ErrCodeInvalidStatus)
	ErrCannotResend       = internal.NewValidationError("invitation cannot be resent in its current status", internal.ErrCodeInvalidStatus)
	ErrCannotRevoke       = internal.NewValidationError("invitation cannot be revoked in its current status", internal.ErrCodeInvalidStatus)
	ErrRoleNotFound       = internal.NewNotFoundError("role not found", internal.ErrCodeValidationFailed)
)
