package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rachmanhakim/hr-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (string, int64, bool, error) {
	var passwordHash string
	var userID int64
	var isActive bool
	query := `SELECT id, password_hash, is_active FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash, &isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, false, fmt.Errorf("user not found")
		}
		return "", 0, false, err
	}
	return passwordHash, userID, isActive, nil
}

// GetUserWithPermissions resolves the effective permission set: the union of
// permissions over every role the user holds. Roles assigned through the
// user_roles join table and through the legacy users.role_id column both
// count; the join table is the source of truth and the column is a
// denormalized cache kept by the single role-assignment write path.
func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User
	var roleName sql.NullString

	query := `SELECT id, email, name, is_active, role_name FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.IsActive, &roleName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	user.RoleName = roleName.String

	permQuery := `SELECT DISTINCT p.name
	             FROM permissions p
	             JOIN role_permissions rp ON p.id = rp.permission_id
	             WHERE rp.role_id IN (
	                 SELECT role_id FROM user_roles WHERE user_id = ?
	                 UNION
	                 SELECT role_id FROM users WHERE id = ? AND role_id IS NOT NULL
	             )`

	rows, err := r.db.Raw(permQuery, userID, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	user.Permissions = permissions
	return &user, nil
}
