package user

import (
	"time"

	"github.com/rachmanhakim/hr-management/internal"
)

// User is the login account. RoleID/RoleName mirror the primary role as a
// denormalized cache; the user_roles join table is the source of truth for
// permission resolution.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	RoleID       *int64    `json:"role_id,omitempty"`
	RoleName     string    `json:"role_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"-"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description,omitempty"`
}

func (Permission) TableName() string {
	return "permissions"
}

var (
	ErrUserNotFound      = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrRoleNotFound      = internal.NewNotFoundError("role not found", internal.ErrCodeValidationFailed)
	ErrDuplicateEmail    = internal.NewConflictError("email already in use", internal.ErrCodeDuplicateEmail)
	ErrDuplicateRoleName = internal.NewConflictError("role name already in use", internal.ErrCodeValidationFailed)
	ErrRoleInUse         = internal.NewConflictError("role is still assigned to users", internal.ErrCodeInvalidStatus)
)
