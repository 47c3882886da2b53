package invitation

import (
	"strings"
	"time"

	"github.com/rachmanhakim/hr-management/internal/auth"
)

type CreateInvitationDTO struct {
	Email        string `json:"email"`
	RoleID       int64  `json:"role_id"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	EmployeeID   *int64 `json:"employee_id,omitempty"`
	ExpiresDays  int    `json:"expires_days,omitempty"`
}

func (d CreateInvitationDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !strings.Contains(d.Email, "@") {
		return ValidationError{Msg: "email is invalid"}
	}
	if d.RoleID <= 0 {
		return ValidationError{Msg: "role_id is required"}
	}
	if d.ExpiresDays < 0 {
		return ValidationError{Msg: "expires_days cannot be negative"}
	}
	return nil
}

type AcceptInvitationDTO struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d AcceptInvitationDTO) Validate() error {
	if d.Token == "" {
		return ValidationError{Msg: "token is required"}
	}
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	return nil
}

type RevokeInvitationDTO struct {
	Reason string `json:"reason,omitempty"`
}

// ValidationResult is the outcome of a token lookup. Reason is set whenever
// Valid is false.
type ValidationResult struct {
	Valid      bool                `json:"valid"`
	Reason     string              `json:"reason,omitempty"`
	Invitation *InvitationSnapshot `json:"invitation,omitempty"`
}

// InvitationSnapshot is the subset shown to the invitee before acceptance.
type InvitationSnapshot struct {
	Email        string    `json:"email"`
	RoleID       int64     `json:"role_id"`
	RoleName     string    `json:"role_name,omitempty"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	EmployeeID   *int64    `json:"employee_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AcceptResult struct {
	UserID int64           `json:"user_id"`
	Tokens auth.AuthTokens `json:"tokens"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }
